package plan

import (
	"testing"
	"time"
)

func TestStatus_IsTerminal(t *testing.T) {
	tests := []struct {
		status   Status
		expected bool
	}{
		{StatusDraft, false},
		{StatusExecuting, false},
		{StatusCompleted, true},
		{StatusFailed, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			if got := tt.status.IsTerminal(); got != tt.expected {
				t.Errorf("Status(%q).IsTerminal() = %v, want %v", tt.status, got, tt.expected)
			}
		})
	}
}

func TestExecutionPlan_Aggregate(t *testing.T) {
	tests := []struct {
		name     string
		steps    []StepStatus
		current  Status
		expected Status
	}{
		{"all completed", []StepStatus{StepCompleted, StepCompleted}, StatusExecuting, StatusCompleted},
		{"any failed wins", []StepStatus{StepCompleted, StepFailed}, StatusExecuting, StatusFailed},
		{"failed beats completed", []StepStatus{StepFailed}, StatusDraft, StatusFailed},
		{"in progress", []StepStatus{StepCompleted, StepInProgress}, StatusDraft, StatusExecuting},
		{"all pending keeps current", []StepStatus{StepPending, StepPending}, StatusDraft, StatusDraft},
		{"no steps keeps current", nil, StatusDraft, StatusDraft},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &ExecutionPlan{ID: "p1", Status: tt.current}
			for i, s := range tt.steps {
				p.Steps = append(p.Steps, Step{ID: stepID(i), Status: s})
			}
			if got := p.Aggregate(); got != tt.expected {
				t.Errorf("Aggregate() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func stepID(i int) string {
	return string(rune('a' + i))
}

func TestExecutionPlan_Step(t *testing.T) {
	p := &ExecutionPlan{
		Steps: []Step{{ID: "step-1"}, {ID: "step-2"}},
	}

	if s := p.Step("step-2"); s == nil || s.ID != "step-2" {
		t.Errorf("Step(step-2) = %v, want step-2", s)
	}
	if s := p.Step("missing"); s != nil {
		t.Errorf("Step(missing) = %v, want nil", s)
	}
}

func TestExecutionPlan_Clone_Deep(t *testing.T) {
	p := &ExecutionPlan{
		ID:        "p1",
		Steps:     []Step{{ID: "step-1", DependsOn: []string{"step-0"}, Requires: []string{"db"}}},
		Risks:     []string{"tight deadline"},
		Estimated: 5 * time.Second,
	}

	cp := p.Clone()
	cp.Steps[0].DependsOn[0] = "mutated"
	cp.Steps[0].Requires[0] = "mutated"
	cp.Risks[0] = "mutated"

	if p.Steps[0].DependsOn[0] != "step-0" {
		t.Error("clone shares DependsOn backing array with original")
	}
	if p.Steps[0].Requires[0] != "db" {
		t.Error("clone shares Requires backing array with original")
	}
	if p.Risks[0] != "tight deadline" {
		t.Error("clone shares Risks backing array with original")
	}
}
