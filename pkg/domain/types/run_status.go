package types

import "fmt"

// RunStatus represents the lifecycle state of a workflow run
type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusSleeping  RunStatus = "sleeping"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// AllRunStatuses returns all valid run statuses
func AllRunStatuses() []RunStatus {
	return []RunStatus{
		RunStatusRunning,
		RunStatusSleeping,
		RunStatusCompleted,
		RunStatusFailed,
	}
}

// IsValid checks if the run status is valid
func (s RunStatus) IsValid() bool {
	switch s {
	case RunStatusRunning,
		RunStatusSleeping,
		RunStatusCompleted,
		RunStatusFailed:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether the status allows no further transitions.
func (s RunStatus) IsTerminal() bool {
	return s == RunStatusCompleted || s == RunStatusFailed
}

// String returns the string representation of the run status
func (s RunStatus) String() string {
	return string(s)
}

// ParseRunStatus parses a string into a RunStatus
func ParseRunStatus(s string) (RunStatus, error) {
	status := RunStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid run status: %s", s)
	}
	return status, nil
}
