package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/vela-social/vela/pkg/domain/interfaces"
	"github.com/vela-social/vela/pkg/domain/model"
	"github.com/vela-social/vela/pkg/domain/types"
)

type workflowRunRepository struct {
	mu   sync.RWMutex
	runs map[types.RunID]*model.WorkflowRun
}

func newWorkflowRunRepository() *workflowRunRepository {
	return &workflowRunRepository{
		runs: make(map[types.RunID]*model.WorkflowRun),
	}
}

func cloneRun(run *model.WorkflowRun) *model.WorkflowRun {
	runCopy := *run

	if run.Event != nil {
		evtCopy := *run.Event
		evtCopy.Data = make(map[string]any, len(run.Event.Data))
		for k, v := range run.Event.Data {
			evtCopy.Data[k] = v
		}
		runCopy.Event = &evtCopy
	}

	runCopy.Steps = make(map[string]*model.StepRecord, len(run.Steps))
	for name, rec := range run.Steps {
		recCopy := *rec
		if rec.WakeAt != nil {
			wake := *rec.WakeAt
			recCopy.WakeAt = &wake
		}
		if rec.Result != nil {
			recCopy.Result = append([]byte(nil), rec.Result...)
		}
		runCopy.Steps[name] = &recCopy
	}

	if run.ResumeAt != nil {
		resume := *run.ResumeAt
		runCopy.ResumeAt = &resume
	}

	return &runCopy
}

func (r *workflowRunRepository) Create(ctx context.Context, run *model.WorkflowRun) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.runs[run.ID]; exists {
		return goerr.New("workflow run already exists", goerr.V("id", run.ID))
	}

	r.runs[run.ID] = cloneRun(run)
	return nil
}

func (r *workflowRunRepository) Get(ctx context.Context, id types.RunID) (*model.WorkflowRun, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	run, exists := r.runs[id]
	if !exists {
		return nil, goerr.Wrap(interfaces.ErrNotFound, "workflow run not found", goerr.V("id", id))
	}

	return cloneRun(run), nil
}

func (r *workflowRunRepository) Put(ctx context.Context, run *model.WorkflowRun) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.runs[run.ID]; !exists {
		return goerr.Wrap(interfaces.ErrNotFound, "workflow run not found", goerr.V("id", run.ID))
	}

	r.runs[run.ID] = cloneRun(run)
	return nil
}

func (r *workflowRunRepository) ListDue(ctx context.Context, now time.Time) ([]*model.WorkflowRun, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var due []*model.WorkflowRun
	for _, run := range r.runs {
		if run.Status != types.RunStatusSleeping {
			continue
		}
		if run.ResumeAt == nil || run.ResumeAt.After(now) {
			continue
		}
		due = append(due, cloneRun(run))
	}

	sort.Slice(due, func(i, j int) bool {
		return due[i].ResumeAt.Before(*due[j].ResumeAt)
	})

	return due, nil
}
