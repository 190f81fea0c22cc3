package memory

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/felixgeelhaar/autopilot/domain/tool"
)

func newTestTool(name string) tool.Tool {
	return tool.MustNew(name, "test tool "+name, func(ctx context.Context, input json.RawMessage) (tool.Result, error) {
		return tool.Result{Output: input}, nil
	})
}

func TestToolRegistry_RegisterGet(t *testing.T) {
	r := NewToolRegistry()

	if err := r.Register(newTestTool("search")); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if err := r.Register(newTestTool("search")); err == nil {
		t.Error("Register() of duplicate name should fail")
	}

	got, ok := r.Get("search")
	if !ok || got.Name() != "search" {
		t.Errorf("Get(search) = (%v, %v)", got.Name(), ok)
	}
	if !r.Has("search") {
		t.Error("Has(search) = false, want true")
	}
}

func TestToolRegistry_NamesSorted(t *testing.T) {
	r := NewToolRegistry()
	_ = r.Register(newTestTool("zeta"))
	_ = r.Register(newTestTool("alpha"))

	names := r.Names()
	if len(names) != 2 || names[0] != "alpha" || names[1] != "zeta" {
		t.Errorf("Names() = %v, want [alpha zeta]", names)
	}
	if len(r.List()) != 2 {
		t.Errorf("List() returned %d tools, want 2", len(r.List()))
	}
}

func TestToolRegistry_Unregister(t *testing.T) {
	r := NewToolRegistry()
	_ = r.Register(newTestTool("search"))

	if err := r.Unregister("search"); err != nil {
		t.Fatalf("Unregister() error = %v", err)
	}
	if err := r.Unregister("search"); err == nil {
		t.Error("Unregister() of missing tool should fail")
	}
}
