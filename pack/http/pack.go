// Package http provides HTTP client tools.
package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/felixgeelhaar/autopilot/domain/tool"
)

// Options configures the HTTP tools.
type Options struct {
	// Timeout for HTTP requests.
	Timeout time.Duration

	// MaxBodySize limits response body size (bytes).
	MaxBodySize int64
}

// DefaultOptions returns sensible defaults.
func DefaultOptions() Options {
	return Options{
		Timeout:     30 * time.Second,
		MaxBodySize: 10 * 1024 * 1024,
	}
}

// WithTimeout sets the request timeout.
func WithTimeout(d time.Duration) func(*Options) {
	return func(o *Options) { o.Timeout = d }
}

// Tools returns the HTTP tool set for registration.
func Tools(opts ...func(*Options)) []tool.Tool {
	options := DefaultOptions()
	for _, opt := range opts {
		opt(&options)
	}

	client := &http.Client{Timeout: options.Timeout}

	return []tool.Tool{
		getTool(client, options),
		postTool(client, options),
		headTool(client, options),
	}
}

type requestInput struct {
	URL         string            `json:"url"`
	Body        string            `json:"body,omitempty"`
	ContentType string            `json:"content_type,omitempty"`
	Headers     map[string]string `json:"headers,omitempty"`
}

type response struct {
	StatusCode int               `json:"status_code"`
	Status     string            `json:"status"`
	Headers    map[string]string `json:"headers"`
	Body       string            `json:"body,omitempty"`
	Size       int64             `json:"size"`
}

func do(ctx context.Context, client *http.Client, method string, in requestInput, maxBody int64, readBody bool) (tool.Result, error) {
	var bodyReader io.Reader
	if in.Body != "" {
		bodyReader = strings.NewReader(in.Body)
	}

	req, err := http.NewRequestWithContext(ctx, method, in.URL, bodyReader)
	if err != nil {
		return tool.Result{}, err
	}
	if in.ContentType != "" {
		req.Header.Set("Content-Type", in.ContentType)
	}
	for k, v := range in.Headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return tool.Result{}, err
	}
	defer resp.Body.Close()

	out := response{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Headers:    make(map[string]string, len(resp.Header)),
	}
	for k := range resp.Header {
		out.Headers[k] = resp.Header.Get(k)
	}

	if readBody {
		body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
		if err != nil {
			return tool.Result{}, err
		}
		out.Body = string(body)
		out.Size = int64(len(body))
	}

	data, err := json.Marshal(out)
	if err != nil {
		return tool.Result{}, err
	}
	return tool.Result{Output: data}, nil
}

func getTool(client *http.Client, opts Options) tool.Tool {
	return tool.MustNew("http_get", "Perform HTTP GET request", func(ctx context.Context, input json.RawMessage) (tool.Result, error) {
		var in requestInput
		if err := json.Unmarshal(input, &in); err != nil {
			return tool.Result{}, err
		}
		in.Body = ""
		return do(ctx, client, http.MethodGet, in, opts.MaxBodySize, true)
	}).WithIdempotent()
}

func postTool(client *http.Client, opts Options) tool.Tool {
	return tool.MustNew("http_post", "Perform HTTP POST request", func(ctx context.Context, input json.RawMessage) (tool.Result, error) {
		var in requestInput
		if err := json.Unmarshal(input, &in); err != nil {
			return tool.Result{}, err
		}
		return do(ctx, client, http.MethodPost, in, opts.MaxBodySize, true)
	})
}

func headTool(client *http.Client, opts Options) tool.Tool {
	return tool.MustNew("http_head", "Perform HTTP HEAD request", func(ctx context.Context, input json.RawMessage) (tool.Result, error) {
		var in requestInput
		if err := json.Unmarshal(input, &in); err != nil {
			return tool.Result{}, err
		}
		in.Body = ""
		return do(ctx, client, http.MethodHead, in, opts.MaxBodySize, false)
	}).WithIdempotent()
}
