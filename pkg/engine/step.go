package engine

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/vela-social/vela/pkg/domain/model"
	"github.com/vela-social/vela/pkg/domain/types"
	"github.com/vela-social/vela/pkg/utils/logging"
)

// ErrSuspended signals that the run has been persisted as sleeping and the
// handler must unwind. Handlers propagate it unmodified; the runner treats it
// as a suspension, not a failure.
var ErrSuspended = errors.New("workflow run suspended")

// StepFunc is the body of an atomic step. Its result is serialized to JSON
// and memoized in the run's step log.
type StepFunc func(ctx context.Context) (any, error)

// Step is the durable step API handed to workflow handlers. Steps within one
// run execute strictly in declaration order; a step name is recorded at most
// once per run and replays return the stored result without re-execution.
type Step struct {
	engine *Engine
	run    *model.WorkflowRun
}

// Run executes an atomic step. A step that already committed on a prior
// attempt is skipped and its recorded result returned. A failing step body is
// retried with exponential backoff up to the engine's attempt bound; when
// exhausted the error propagates and the run fails.
func (s *Step) Run(ctx context.Context, name string, fn StepFunc) ([]byte, error) {
	if rec := s.run.Step(name); rec != nil && rec.Done && rec.WakeAt == nil {
		return rec.Result, nil
	}

	logger := logging.From(ctx)

	var lastErr error
	for attempt := 1; attempt <= s.engine.maxAttempts; attempt++ {
		result, err := fn(ctx)
		if err == nil {
			raw, err := json.Marshal(result)
			if err != nil {
				return nil, goerr.Wrap(err, "failed to marshal step result", goerr.V("step", name))
			}

			s.run.RecordStep(&model.StepRecord{
				Name:        name,
				Result:      raw,
				Done:        true,
				CompletedAt: s.engine.clock(),
			})
			if err := s.engine.repo.WorkflowRun().Put(ctx, s.run); err != nil {
				return nil, goerr.Wrap(err, "failed to persist step record", goerr.V("step", name))
			}

			return raw, nil
		}

		lastErr = err
		logger.Warn("step attempt failed",
			"step", name,
			"attempt", attempt,
			"max_attempts", s.engine.maxAttempts,
			"error", err.Error(),
		)

		if attempt < s.engine.maxAttempts {
			backoff := s.engine.retryBackoff * (1 << (attempt - 1))
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, goerr.Wrap(ctx.Err(), "step canceled during backoff", goerr.V("step", name))
			}
		}
	}

	return nil, goerr.Wrap(lastErr, "step failed after retries",
		goerr.V("step", name),
		goerr.V("attempts", s.engine.maxAttempts))
}

// SleepUntil suspends the run until the given time without holding a worker.
// The deadline is persisted on first encounter; the poller re-enters the
// handler once it elapses and execution continues at the following step.
// Returns ErrSuspended while the deadline is in the future.
func (s *Step) SleepUntil(ctx context.Context, name string, at time.Time) error {
	now := s.engine.clock()

	rec := s.run.Step(name)
	if rec == nil {
		rec = &model.StepRecord{
			Name:   name,
			WakeAt: &at,
		}
		s.run.RecordStep(rec)
	}

	if rec.Done {
		return nil
	}

	if now.Before(*rec.WakeAt) {
		s.run.Status = types.RunStatusSleeping
		s.run.ResumeAt = rec.WakeAt
		s.run.UpdatedAt = now
		if err := s.engine.repo.WorkflowRun().Put(ctx, s.run); err != nil {
			return goerr.Wrap(err, "failed to persist sleeping run", goerr.V("step", name))
		}
		return ErrSuspended
	}

	rec.Done = true
	rec.CompletedAt = now
	s.run.Status = types.RunStatusRunning
	s.run.ResumeAt = nil
	s.run.UpdatedAt = now
	if err := s.engine.repo.WorkflowRun().Put(ctx, s.run); err != nil {
		return goerr.Wrap(err, "failed to persist woken run", goerr.V("step", name))
	}

	return nil
}

// Sleep suspends the run for the given duration, measured from the first
// encounter of the step.
func (s *Step) Sleep(ctx context.Context, name string, d time.Duration) error {
	return s.SleepUntil(ctx, name, s.engine.clock().Add(d))
}
