package engine

import (
	"context"
	"errors"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/robfig/cron/v3"
	"github.com/vela-social/vela/pkg/domain/interfaces"
	"github.com/vela-social/vela/pkg/domain/model"
	"github.com/vela-social/vela/pkg/domain/types"
	"github.com/vela-social/vela/pkg/utils/async"
	"github.com/vela-social/vela/pkg/utils/errutil"
	"github.com/vela-social/vela/pkg/utils/logging"
)

// HandlerFunc is the body of a workflow: an ordered sequence of step calls
// against the Step API. Errors returned by Step methods must be propagated
// unmodified so the runner can distinguish suspension from failure.
type HandlerFunc func(ctx context.Context, step *Step, evt *model.Event) error

// Registration binds a workflow ID and trigger to a handler. All
// registrations are passed explicitly at construction; there is no global
// registry.
type Registration struct {
	ID      types.WorkflowID
	Trigger Trigger
	Func    HandlerFunc
}

type cronRegistration struct {
	reg   Registration
	sched cron.Schedule
}

// Engine routes events to registered workflows and executes them as durable
// step runs. Runs for different events execute concurrently with no cross-run
// ordering; all cross-step state is persisted so any instance can resume a
// sleeping run.
type Engine struct {
	repo        interfaces.Repository
	byEventType map[types.EventType]Registration
	byID        map[types.WorkflowID]Registration
	cronRegs    []cronRegistration

	clock        func() time.Time
	maxAttempts  int
	retryBackoff time.Duration
}

type Option func(*Engine)

// WithClock replaces the wall clock, for tests.
func WithClock(clock func() time.Time) Option {
	return func(e *Engine) {
		e.clock = clock
	}
}

// WithMaxAttempts bounds the retry count of each atomic step.
func WithMaxAttempts(n int) Option {
	return func(e *Engine) {
		e.maxAttempts = n
	}
}

// WithRetryBackoff sets the base backoff between step retry attempts. The
// delay doubles on each attempt.
func WithRetryBackoff(d time.Duration) Option {
	return func(e *Engine) {
		e.retryBackoff = d
	}
}

// New creates an engine with an explicit registration list. At most one
// handler may be registered per event type.
func New(repo interfaces.Repository, registrations []Registration, opts ...Option) (*Engine, error) {
	e := &Engine{
		repo:         repo,
		byEventType:  make(map[types.EventType]Registration),
		byID:         make(map[types.WorkflowID]Registration),
		clock:        func() time.Time { return time.Now().UTC() },
		maxAttempts:  3,
		retryBackoff: time.Second,
	}

	for _, opt := range opts {
		opt(e)
	}

	for _, reg := range registrations {
		if reg.ID == "" {
			return nil, goerr.New("workflow registration requires an ID")
		}
		if reg.Func == nil {
			return nil, goerr.New("workflow registration requires a handler", goerr.V("id", reg.ID))
		}
		if _, exists := e.byID[reg.ID]; exists {
			return nil, goerr.New("duplicate workflow ID", goerr.V("id", reg.ID))
		}
		e.byID[reg.ID] = reg

		if reg.Trigger.IsCron() {
			sched, err := reg.Trigger.Schedule()
			if err != nil {
				return nil, err
			}
			e.cronRegs = append(e.cronRegs, cronRegistration{reg: reg, sched: sched})

			// Cron workflows are also addressable by their synthetic event
			// type so one-shot commands can dispatch them directly.
			if eventType := reg.Trigger.EventType(); eventType != "" {
				if _, exists := e.byEventType[eventType]; exists {
					return nil, goerr.New("duplicate event type registration",
						goerr.V("id", reg.ID),
						goerr.V("eventType", eventType))
				}
				e.byEventType[eventType] = reg
			}
			continue
		}

		eventType := reg.Trigger.EventType()
		if eventType == "" {
			return nil, goerr.New("event trigger requires an event type", goerr.V("id", reg.ID))
		}
		if _, exists := e.byEventType[eventType]; exists {
			return nil, goerr.New("duplicate event type registration",
				goerr.V("id", reg.ID),
				goerr.V("eventType", eventType))
		}
		e.byEventType[eventType] = reg
	}

	return e, nil
}

// Dispatch routes an event to its registered workflow and starts a run
// asynchronously. An unrecognized event type is a logged no-op. Dispatch
// returns once the run is durably created; it does not wait for the handler.
func (e *Engine) Dispatch(ctx context.Context, evt *model.Event) error {
	reg, ok := e.byEventType[evt.Type]
	if !ok {
		logging.From(ctx).Debug("no workflow registered for event type", "type", evt.Type)
		return nil
	}

	run := model.NewWorkflowRun(reg.ID, evt)
	if err := e.repo.WorkflowRun().Create(ctx, run); err != nil {
		return goerr.Wrap(err, "failed to create workflow run",
			goerr.V("workflow", reg.ID),
			goerr.V("eventType", evt.Type))
	}

	async.Dispatch(ctx, func(ctx context.Context) error {
		return e.execute(ctx, reg, run)
	})

	return nil
}

// DispatchSync routes and executes an event's workflow to completion (or
// suspension) before returning. Used by one-shot CLI commands and tests.
func (e *Engine) DispatchSync(ctx context.Context, evt *model.Event) (*model.WorkflowRun, error) {
	reg, ok := e.byEventType[evt.Type]
	if !ok {
		logging.From(ctx).Debug("no workflow registered for event type", "type", evt.Type)
		return nil, nil
	}

	run := model.NewWorkflowRun(reg.ID, evt)
	if err := e.repo.WorkflowRun().Create(ctx, run); err != nil {
		return nil, goerr.Wrap(err, "failed to create workflow run",
			goerr.V("workflow", reg.ID),
			goerr.V("eventType", evt.Type))
	}

	if err := e.execute(ctx, reg, run); err != nil {
		return run, err
	}
	return run, nil
}

// ResumeDue claims sleeping runs whose deadline has elapsed and re-enters
// their handlers. Previously completed steps are skipped via the step log.
func (e *Engine) ResumeDue(ctx context.Context, now time.Time) error {
	due, err := e.repo.WorkflowRun().ListDue(ctx, now)
	if err != nil {
		return goerr.Wrap(err, "failed to list due workflow runs")
	}

	for _, run := range due {
		reg, ok := e.byID[run.WorkflowID]
		if !ok {
			run.Status = types.RunStatusFailed
			run.LastError = "no handler registered for workflow"
			if err := e.repo.WorkflowRun().Put(ctx, run); err != nil {
				errutil.Handle(ctx, err, "failed to fail orphaned workflow run")
			}
			continue
		}

		// Claim before re-entering so overlapping polls do not double-run.
		run.Status = types.RunStatusRunning
		run.ResumeAt = nil
		if err := e.repo.WorkflowRun().Put(ctx, run); err != nil {
			errutil.Handle(ctx, err, "failed to claim workflow run")
			continue
		}

		if err := e.execute(ctx, reg, run); err != nil {
			errutil.Handle(ctx, err, "failed to resume workflow run")
		}
	}

	return nil
}

// execute re-enters the handler from the top. Completed steps replay from
// the step log, so only unfinished steps actually run.
func (e *Engine) execute(ctx context.Context, reg Registration, run *model.WorkflowRun) error {
	logger := logging.From(ctx).With("workflow", reg.ID, "run_id", run.ID)
	ctx = logging.With(ctx, logger)

	step := &Step{engine: e, run: run}
	err := reg.Func(ctx, step, run.Event)

	switch {
	case err == nil:
		run.Status = types.RunStatusCompleted
		run.ResumeAt = nil
		run.UpdatedAt = e.clock()
		if putErr := e.repo.WorkflowRun().Put(ctx, run); putErr != nil {
			return goerr.Wrap(putErr, "failed to complete workflow run", goerr.V("run_id", run.ID))
		}
		logger.Info("workflow run completed")
		return nil

	case errors.Is(err, ErrSuspended):
		logger.Info("workflow run sleeping", "resume_at", run.ResumeAt)
		return nil

	default:
		run.Status = types.RunStatusFailed
		run.LastError = err.Error()
		run.UpdatedAt = e.clock()
		if putErr := e.repo.WorkflowRun().Put(ctx, run); putErr != nil {
			errutil.Handle(ctx, putErr, "failed to persist failed workflow run")
		}
		return goerr.Wrap(err, "workflow run failed",
			goerr.V("workflow", reg.ID),
			goerr.V("run_id", run.ID),
			goerr.V("event", run.Event.Data),
		)
	}
}
