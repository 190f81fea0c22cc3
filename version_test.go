package autopilot

import "testing"

func TestGetVersion(t *testing.T) {
	if got := GetVersion(); got != Version {
		t.Errorf("GetVersion() = %q, want %q", got, Version)
	}
	if Version == "" {
		t.Error("Version must not be empty")
	}
}
