package memory

import (
	"testing"
	"time"

	"github.com/felixgeelhaar/autopilot/domain/plan"
)

func TestPlanStore_PutGet(t *testing.T) {
	s := NewPlanStore()
	p := &plan.ExecutionPlan{
		ID:        "plan-1",
		GoalID:    "g1",
		Status:    plan.StatusDraft,
		CreatedAt: time.Now(),
		Steps:     []plan.Step{{ID: "step-1", Status: plan.StepPending}},
	}

	if err := s.Put(p); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	got, ok := s.Get("plan-1")
	if !ok {
		t.Fatal("Get() did not find stored plan")
	}
	if got.GoalID != "g1" || len(got.Steps) != 1 {
		t.Errorf("Get() = %+v, want stored plan", got)
	}

	// Stored plans are isolated from caller mutation.
	got.Steps[0].Status = plan.StepFailed
	again, _ := s.Get("plan-1")
	if again.Steps[0].Status != plan.StepPending {
		t.Error("mutating a retrieved plan changed the stored copy")
	}
}

func TestPlanStore_Put_Invalid(t *testing.T) {
	s := NewPlanStore()
	if err := s.Put(nil); err == nil {
		t.Error("Put(nil) should fail")
	}
	if err := s.Put(&plan.ExecutionPlan{}); err == nil {
		t.Error("Put with empty ID should fail")
	}
}

func TestPlanStore_Delete(t *testing.T) {
	s := NewPlanStore()
	_ = s.Put(&plan.ExecutionPlan{ID: "plan-1"})

	if err := s.Delete("plan-1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, ok := s.Get("plan-1"); ok {
		t.Error("plan still present after Delete()")
	}
	if err := s.Delete("plan-1"); err == nil {
		t.Error("Delete() of missing plan should fail")
	}
}

func TestPlanStore_List_Ordered(t *testing.T) {
	s := NewPlanStore()
	base := time.Now()
	_ = s.Put(&plan.ExecutionPlan{ID: "plan-b", CreatedAt: base.Add(time.Second)})
	_ = s.Put(&plan.ExecutionPlan{ID: "plan-a", CreatedAt: base})

	list := s.List()
	if len(list) != 2 {
		t.Fatalf("List() returned %d plans, want 2", len(list))
	}
	if list[0].ID != "plan-a" || list[1].ID != "plan-b" {
		t.Errorf("List() order = [%s %s], want [plan-a plan-b]", list[0].ID, list[1].ID)
	}
	if s.Len() != 2 {
		t.Errorf("Len() = %d, want 2", s.Len())
	}
}
