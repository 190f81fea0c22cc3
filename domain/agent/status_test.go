package agent

import "testing"

func TestStatus_IsRunning(t *testing.T) {
	tests := []struct {
		status   Status
		expected bool
	}{
		{StatusIdle, true},
		{StatusThinking, true},
		{StatusActing, true},
		{StatusError, true},
		{StatusStopped, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			if got := tt.status.IsRunning(); got != tt.expected {
				t.Errorf("Status(%q).IsRunning() = %v, want %v", tt.status, got, tt.expected)
			}
		})
	}
}

func TestStatus_IsValid(t *testing.T) {
	tests := []struct {
		status   Status
		expected bool
	}{
		{StatusIdle, true},
		{StatusThinking, true},
		{StatusActing, true},
		{StatusError, true},
		{StatusStopped, true},
		{Status("unknown"), false},
		{Status(""), false},
		{Status("IDLE"), false}, // Case sensitive
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			if got := tt.status.IsValid(); got != tt.expected {
				t.Errorf("Status(%q).IsValid() = %v, want %v", tt.status, got, tt.expected)
			}
		})
	}
}

func TestAllStatuses(t *testing.T) {
	statuses := AllStatuses()
	if len(statuses) != 5 {
		t.Fatalf("AllStatuses() returned %d statuses, want 5", len(statuses))
	}
	for _, s := range statuses {
		if !s.IsValid() {
			t.Errorf("AllStatuses() contains invalid status %q", s)
		}
	}
}
