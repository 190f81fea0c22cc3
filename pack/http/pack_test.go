package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/felixgeelhaar/autopilot/domain/tool"
)

func toolByName(t *testing.T, tools []tool.Tool, name string) tool.Tool {
	t.Helper()
	for _, tl := range tools {
		if tl.Name() == name {
			return tl
		}
	}
	t.Fatalf("tool %s not found", name)
	return tool.Tool{}
}

func TestTools_Get(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Test", "yes")
		fmt.Fprint(w, "payload")
	}))
	defer srv.Close()

	get := toolByName(t, Tools(), "http_get")
	res, err := get.Execute(context.Background(), json.RawMessage(fmt.Sprintf(`{"url":%q}`, srv.URL)))
	if err != nil {
		t.Fatalf("http_get error = %v", err)
	}

	var out response
	if err := json.Unmarshal(res.Output, &out); err != nil {
		t.Fatal(err)
	}
	if out.StatusCode != http.StatusOK || out.Body != "payload" {
		t.Errorf("response = %+v", out)
	}
	if out.Headers["X-Test"] != "yes" {
		t.Errorf("headers = %v, want X-Test", out.Headers)
	}
}

func TestTools_PostForwardsBody(t *testing.T) {
	t.Parallel()

	var gotBody string
	var gotType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		buf := make([]byte, r.ContentLength)
		_, _ = r.Body.Read(buf)
		gotBody = string(buf)
		gotType = r.Header.Get("Content-Type")
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	post := toolByName(t, Tools(), "http_post")
	input := fmt.Sprintf(`{"url":%q,"body":"{\"a\":1}","content_type":"application/json"}`, srv.URL)
	res, err := post.Execute(context.Background(), json.RawMessage(input))
	if err != nil {
		t.Fatalf("http_post error = %v", err)
	}

	var out response
	if err := json.Unmarshal(res.Output, &out); err != nil {
		t.Fatal(err)
	}
	if out.StatusCode != http.StatusCreated {
		t.Errorf("status = %d, want 201", out.StatusCode)
	}
	if gotBody != `{"a":1}` || gotType != "application/json" {
		t.Errorf("server saw body=%q type=%q", gotBody, gotType)
	}
}

func TestTools_HeadSkipsBody(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "payload")
	}))
	defer srv.Close()

	head := toolByName(t, Tools(), "http_head")
	res, err := head.Execute(context.Background(), json.RawMessage(fmt.Sprintf(`{"url":%q}`, srv.URL)))
	if err != nil {
		t.Fatalf("http_head error = %v", err)
	}

	var out response
	if err := json.Unmarshal(res.Output, &out); err != nil {
		t.Fatal(err)
	}
	if out.Body != "" || out.Size != 0 {
		t.Errorf("head response carried a body: %+v", out)
	}
}

func TestTools_BodyLimit(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "0123456789")
	}))
	defer srv.Close()

	get := toolByName(t, Tools(func(o *Options) { o.MaxBodySize = 4 }), "http_get")
	res, err := get.Execute(context.Background(), json.RawMessage(fmt.Sprintf(`{"url":%q}`, srv.URL)))
	if err != nil {
		t.Fatalf("http_get error = %v", err)
	}

	var out response
	if err := json.Unmarshal(res.Output, &out); err != nil {
		t.Fatal(err)
	}
	if out.Body != "0123" {
		t.Errorf("body = %q, want truncated 0123", out.Body)
	}
}

func TestTools_InvalidURL(t *testing.T) {
	t.Parallel()

	get := toolByName(t, Tools(), "http_get")
	if _, err := get.Execute(context.Background(), json.RawMessage(`{"url":"::bad::"}`)); err == nil {
		t.Error("http_get should fail for an invalid URL")
	}
}
