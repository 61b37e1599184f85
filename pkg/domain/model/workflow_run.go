package model

import (
	"time"

	"github.com/vela-social/vela/pkg/domain/types"
)

// WorkflowRun is one execution instance of a workflow handler for one
// triggering event. All cross-step state lives here so that any process
// instance can resume a sleeping run.
type WorkflowRun struct {
	ID         types.RunID
	WorkflowID types.WorkflowID
	Status     types.RunStatus
	Event      *Event
	Steps      map[string]*StepRecord
	// ResumeAt is set while the run is sleeping and cleared on resume.
	ResumeAt  *time.Time
	LastError string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// StepRecord is the durable outcome of a single step within a run. A step
// name is recorded at most once per run; replays return the stored result
// instead of re-executing the step body.
type StepRecord struct {
	Name   string
	Result []byte
	// WakeAt holds the deadline of a sleep step. Nil for atomic steps.
	WakeAt      *time.Time
	Done        bool
	CompletedAt time.Time
}

// NewWorkflowRun creates a running run for the given workflow and event.
func NewWorkflowRun(workflowID types.WorkflowID, evt *Event) *WorkflowRun {
	now := time.Now().UTC()
	return &WorkflowRun{
		ID:         types.NewRunID(),
		WorkflowID: workflowID,
		Status:     types.RunStatusRunning,
		Event:      evt,
		Steps:      map[string]*StepRecord{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// Step returns the recorded step for name, or nil when not yet recorded.
func (r *WorkflowRun) Step(name string) *StepRecord {
	if r.Steps == nil {
		return nil
	}
	return r.Steps[name]
}

// RecordStep stores a step record, initializing the step map if needed.
func (r *WorkflowRun) RecordStep(rec *StepRecord) {
	if r.Steps == nil {
		r.Steps = map[string]*StepRecord{}
	}
	r.Steps[rec.Name] = rec
	r.UpdatedAt = time.Now().UTC()
}
