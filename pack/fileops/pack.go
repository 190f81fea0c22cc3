// Package fileops provides file system tools restricted to a root directory.
package fileops

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/felixgeelhaar/autopilot/domain/tool"
)

// Options configures the fileops tools.
type Options struct {
	// Root confines every path to this directory. Defaults to the working
	// directory.
	Root string

	// MaxFileSize limits read and write sizes (bytes).
	MaxFileSize int64
}

// DefaultOptions returns sensible defaults.
func DefaultOptions() Options {
	return Options{
		Root:        ".",
		MaxFileSize: 10 * 1024 * 1024,
	}
}

// Tools returns the fileops tool set for registration.
func Tools(opts ...func(*Options)) []tool.Tool {
	options := DefaultOptions()
	for _, opt := range opts {
		opt(&options)
	}

	return []tool.Tool{
		readFileTool(options),
		writeFileTool(options),
		listDirTool(options),
		fileExistsTool(options),
		mkdirTool(options),
		deleteTool(options),
	}
}

// WithRoot confines the tools to the given directory.
func WithRoot(root string) func(*Options) {
	return func(o *Options) { o.Root = root }
}

// resolve joins a relative path onto the root and rejects escapes.
func resolve(root, path string) (string, error) {
	if filepath.IsAbs(path) {
		return "", fmt.Errorf("absolute paths not allowed: %s", path)
	}
	full := filepath.Join(root, path)

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", err
	}
	absFull, err := filepath.Abs(full)
	if err != nil {
		return "", err
	}
	if absFull != absRoot && !strings.HasPrefix(absFull, absRoot+string(filepath.Separator)) {
		return "", fmt.Errorf("path escapes root: %s", path)
	}
	return full, nil
}

type pathInput struct {
	Path string `json:"path"`
}

type readFileOutput struct {
	Content string `json:"content"`
	Size    int64  `json:"size"`
}

func readFileTool(opts Options) tool.Tool {
	return tool.MustNew("read_file", "Read contents of a file", func(ctx context.Context, input json.RawMessage) (tool.Result, error) {
		var in pathInput
		if err := json.Unmarshal(input, &in); err != nil {
			return tool.Result{}, err
		}
		path, err := resolve(opts.Root, in.Path)
		if err != nil {
			return tool.Result{}, err
		}

		info, err := os.Stat(path)
		if err != nil {
			return tool.Result{}, err
		}
		if opts.MaxFileSize > 0 && info.Size() > opts.MaxFileSize {
			return tool.Result{}, fmt.Errorf("file exceeds size limit: %d bytes", info.Size())
		}

		content, err := os.ReadFile(path)
		if err != nil {
			return tool.Result{}, err
		}

		data, err := json.Marshal(readFileOutput{Content: string(content), Size: int64(len(content))})
		if err != nil {
			return tool.Result{}, err
		}
		return tool.Result{Output: data}, nil
	}).WithIdempotent()
}

type writeFileInput struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

type writeFileOutput struct {
	Written int64 `json:"written"`
}

func writeFileTool(opts Options) tool.Tool {
	return tool.MustNew("write_file", "Write contents to a file", func(ctx context.Context, input json.RawMessage) (tool.Result, error) {
		var in writeFileInput
		if err := json.Unmarshal(input, &in); err != nil {
			return tool.Result{}, err
		}
		if opts.MaxFileSize > 0 && int64(len(in.Content)) > opts.MaxFileSize {
			return tool.Result{}, fmt.Errorf("content exceeds size limit: %d bytes", len(in.Content))
		}
		path, err := resolve(opts.Root, in.Path)
		if err != nil {
			return tool.Result{}, err
		}

		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return tool.Result{}, err
		}
		if err := os.WriteFile(path, []byte(in.Content), 0o644); err != nil {
			return tool.Result{}, err
		}

		data, err := json.Marshal(writeFileOutput{Written: int64(len(in.Content))})
		if err != nil {
			return tool.Result{}, err
		}
		return tool.Result{Output: data}, nil
	}).WithIdempotent()
}

type dirEntry struct {
	Name  string `json:"name"`
	IsDir bool   `json:"is_dir"`
	Size  int64  `json:"size"`
}

type listDirOutput struct {
	Entries []dirEntry `json:"entries"`
}

func listDirTool(opts Options) tool.Tool {
	return tool.MustNew("list_dir", "List directory contents", func(ctx context.Context, input json.RawMessage) (tool.Result, error) {
		var in pathInput
		if err := json.Unmarshal(input, &in); err != nil {
			return tool.Result{}, err
		}
		path, err := resolve(opts.Root, in.Path)
		if err != nil {
			return tool.Result{}, err
		}

		entries, err := os.ReadDir(path)
		if err != nil {
			return tool.Result{}, err
		}

		out := listDirOutput{Entries: make([]dirEntry, 0, len(entries))}
		for _, e := range entries {
			info, err := e.Info()
			if err != nil {
				continue
			}
			out.Entries = append(out.Entries, dirEntry{
				Name:  e.Name(),
				IsDir: e.IsDir(),
				Size:  info.Size(),
			})
		}

		data, err := json.Marshal(out)
		if err != nil {
			return tool.Result{}, err
		}
		return tool.Result{Output: data}, nil
	}).WithIdempotent()
}

type fileExistsOutput struct {
	Exists bool `json:"exists"`
	IsDir  bool `json:"is_dir"`
}

func fileExistsTool(opts Options) tool.Tool {
	return tool.MustNew("file_exists", "Check whether a path exists", func(ctx context.Context, input json.RawMessage) (tool.Result, error) {
		var in pathInput
		if err := json.Unmarshal(input, &in); err != nil {
			return tool.Result{}, err
		}
		path, err := resolve(opts.Root, in.Path)
		if err != nil {
			return tool.Result{}, err
		}

		out := fileExistsOutput{}
		if info, err := os.Stat(path); err == nil {
			out.Exists = true
			out.IsDir = info.IsDir()
		}

		data, err := json.Marshal(out)
		if err != nil {
			return tool.Result{}, err
		}
		return tool.Result{Output: data}, nil
	}).WithIdempotent()
}

func mkdirTool(opts Options) tool.Tool {
	return tool.MustNew("mkdir", "Create a directory and its parents", func(ctx context.Context, input json.RawMessage) (tool.Result, error) {
		var in pathInput
		if err := json.Unmarshal(input, &in); err != nil {
			return tool.Result{}, err
		}
		path, err := resolve(opts.Root, in.Path)
		if err != nil {
			return tool.Result{}, err
		}

		if err := os.MkdirAll(path, 0o755); err != nil {
			return tool.Result{}, err
		}
		return tool.Result{Output: json.RawMessage(`{"created":true}`)}, nil
	}).WithIdempotent()
}

func deleteTool(opts Options) tool.Tool {
	return tool.MustNew("delete", "Delete a file or empty directory", func(ctx context.Context, input json.RawMessage) (tool.Result, error) {
		var in pathInput
		if err := json.Unmarshal(input, &in); err != nil {
			return tool.Result{}, err
		}
		path, err := resolve(opts.Root, in.Path)
		if err != nil {
			return tool.Result{}, err
		}

		if err := os.Remove(path); err != nil {
			return tool.Result{}, err
		}
		return tool.Result{Output: json.RawMessage(`{"deleted":true}`)}, nil
	})
}
