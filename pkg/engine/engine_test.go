package engine_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/vela-social/vela/pkg/domain/model"
	"github.com/vela-social/vela/pkg/domain/types"
	"github.com/vela-social/vela/pkg/engine"
	"github.com/vela-social/vela/pkg/repository/memory"
)

const testEventType types.EventType = "test/thing.happened"

// fakeClock is a mutable clock shared between the engine and the test body.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(now time.Time) *fakeClock {
	return &fakeClock{now: now}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestDispatchSyncCompletesRun(t *testing.T) {
	repo := memory.New()
	clock := newFakeClock(time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC))

	executed := 0
	eng, err := engine.New(repo, []engine.Registration{
		{
			ID:      "test-workflow",
			Trigger: engine.OnEvent(testEventType),
			Func: func(ctx context.Context, step *engine.Step, evt *model.Event) error {
				_, err := step.Run(ctx, "do-thing", func(ctx context.Context) (any, error) {
					executed++
					return "done", nil
				})
				return err
			},
		},
	}, engine.WithClock(clock.Now))
	gt.NoError(t, err).Required()

	run, err := eng.DispatchSync(context.Background(), model.NewEvent(testEventType, nil))
	gt.NoError(t, err).Required()
	gt.Value(t, run).NotNil()
	gt.Number(t, executed).Equal(1)

	persisted, err := repo.WorkflowRun().Get(context.Background(), run.ID)
	gt.NoError(t, err).Required()
	gt.Value(t, persisted.Status).Equal(types.RunStatusCompleted)
	gt.Value(t, string(persisted.Step("do-thing").Result)).Equal(`"done"`)
}

func TestDispatchUnknownEventIsNoop(t *testing.T) {
	repo := memory.New()

	eng, err := engine.New(repo, nil)
	gt.NoError(t, err).Required()

	run, err := eng.DispatchSync(context.Background(), model.NewEvent("test/unknown", nil))
	gt.NoError(t, err)
	gt.Value(t, run).Nil()
}

func TestStepMemoization(t *testing.T) {
	repo := memory.New()
	clock := newFakeClock(time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC))

	executions := 0
	eng, err := engine.New(repo, []engine.Registration{
		{
			ID:      "test-workflow",
			Trigger: engine.OnEvent(testEventType),
			Func: func(ctx context.Context, step *engine.Step, evt *model.Event) error {
				if _, err := step.Run(ctx, "record", func(ctx context.Context) (any, error) {
					executions++
					return executions, nil
				}); err != nil {
					return err
				}

				if err := step.Sleep(ctx, "pause", time.Hour); err != nil {
					return err
				}

				// Replays must not rerun the first step on resume.
				_, err := step.Run(ctx, "record-after", func(ctx context.Context) (any, error) {
					return "after", nil
				})
				return err
			},
		},
	}, engine.WithClock(clock.Now))
	gt.NoError(t, err).Required()

	ctx := context.Background()
	run, err := eng.DispatchSync(ctx, model.NewEvent(testEventType, nil))
	gt.NoError(t, err).Required()
	gt.Number(t, executions).Equal(1)

	persisted, err := repo.WorkflowRun().Get(ctx, run.ID)
	gt.NoError(t, err).Required()
	gt.Value(t, persisted.Status).Equal(types.RunStatusSleeping)
	gt.Value(t, persisted.ResumeAt).NotNil()
	gt.Bool(t, persisted.ResumeAt.Equal(clock.Now().Add(time.Hour))).True()

	clock.Advance(2 * time.Hour)
	gt.NoError(t, eng.ResumeDue(ctx, clock.Now())).Required()

	// The first step replayed from the log; its body ran exactly once.
	gt.Number(t, executions).Equal(1)

	resumed, err := repo.WorkflowRun().Get(ctx, run.ID)
	gt.NoError(t, err).Required()
	gt.Value(t, resumed.Status).Equal(types.RunStatusCompleted)
	gt.Value(t, resumed.ResumeAt).Nil()
	gt.Value(t, string(resumed.Step("record-after").Result)).Equal(`"after"`)
}

func TestResumeDueSkipsFutureDeadlines(t *testing.T) {
	repo := memory.New()
	clock := newFakeClock(time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC))

	eng, err := engine.New(repo, []engine.Registration{
		{
			ID:      "test-workflow",
			Trigger: engine.OnEvent(testEventType),
			Func: func(ctx context.Context, step *engine.Step, evt *model.Event) error {
				return step.Sleep(ctx, "pause", time.Hour)
			},
		},
	}, engine.WithClock(clock.Now))
	gt.NoError(t, err).Required()

	ctx := context.Background()
	run, err := eng.DispatchSync(ctx, model.NewEvent(testEventType, nil))
	gt.NoError(t, err).Required()

	// Deadline not reached yet: the run stays asleep.
	clock.Advance(30 * time.Minute)
	gt.NoError(t, eng.ResumeDue(ctx, clock.Now())).Required()

	persisted, err := repo.WorkflowRun().Get(ctx, run.ID)
	gt.NoError(t, err).Required()
	gt.Value(t, persisted.Status).Equal(types.RunStatusSleeping)
}

func TestStepRetriesUntilExhaustion(t *testing.T) {
	repo := memory.New()
	clock := newFakeClock(time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC))

	attempts := 0
	eng, err := engine.New(repo, []engine.Registration{
		{
			ID:      "test-workflow",
			Trigger: engine.OnEvent(testEventType),
			Func: func(ctx context.Context, step *engine.Step, evt *model.Event) error {
				_, err := step.Run(ctx, "flaky", func(ctx context.Context) (any, error) {
					attempts++
					return nil, goerr.New("boom")
				})
				return err
			},
		},
	},
		engine.WithClock(clock.Now),
		engine.WithMaxAttempts(3),
		engine.WithRetryBackoff(time.Millisecond),
	)
	gt.NoError(t, err).Required()

	ctx := context.Background()
	run, err := eng.DispatchSync(ctx, model.NewEvent(testEventType, nil))
	gt.Error(t, err)
	gt.Number(t, attempts).Equal(3)

	persisted, err := repo.WorkflowRun().Get(ctx, run.ID)
	gt.NoError(t, err).Required()
	gt.Value(t, persisted.Status).Equal(types.RunStatusFailed)
	gt.Value(t, persisted.LastError).NotEqual("")
}

func TestStepRetrySucceedsAfterTransientFailure(t *testing.T) {
	repo := memory.New()

	attempts := 0
	eng, err := engine.New(repo, []engine.Registration{
		{
			ID:      "test-workflow",
			Trigger: engine.OnEvent(testEventType),
			Func: func(ctx context.Context, step *engine.Step, evt *model.Event) error {
				_, err := step.Run(ctx, "flaky", func(ctx context.Context) (any, error) {
					attempts++
					if attempts < 2 {
						return nil, goerr.New("transient")
					}
					return "recovered", nil
				})
				return err
			},
		},
	},
		engine.WithRetryBackoff(time.Millisecond),
	)
	gt.NoError(t, err).Required()

	run, err := eng.DispatchSync(context.Background(), model.NewEvent(testEventType, nil))
	gt.NoError(t, err).Required()
	gt.Number(t, attempts).Equal(2)

	persisted, err := repo.WorkflowRun().Get(context.Background(), run.ID)
	gt.NoError(t, err).Required()
	gt.Value(t, persisted.Status).Equal(types.RunStatusCompleted)
}

func TestNewRejectsDuplicateRegistrations(t *testing.T) {
	repo := memory.New()
	noop := func(ctx context.Context, step *engine.Step, evt *model.Event) error { return nil }

	t.Run("duplicate workflow ID", func(t *testing.T) {
		_, err := engine.New(repo, []engine.Registration{
			{ID: "dup", Trigger: engine.OnEvent("test/a"), Func: noop},
			{ID: "dup", Trigger: engine.OnEvent("test/b"), Func: noop},
		})
		gt.Error(t, err)
	})

	t.Run("duplicate event type", func(t *testing.T) {
		_, err := engine.New(repo, []engine.Registration{
			{ID: "first", Trigger: engine.OnEvent(testEventType), Func: noop},
			{ID: "second", Trigger: engine.OnEvent(testEventType), Func: noop},
		})
		gt.Error(t, err)
	})

	t.Run("missing handler", func(t *testing.T) {
		_, err := engine.New(repo, []engine.Registration{
			{ID: "no-func", Trigger: engine.OnEvent(testEventType)},
		})
		gt.Error(t, err)
	})

	t.Run("invalid cron spec", func(t *testing.T) {
		_, err := engine.New(repo, []engine.Registration{
			{ID: "bad-cron", Trigger: engine.OnCron("test/tick", "not a cron", "UTC"), Func: noop},
		})
		gt.Error(t, err)
	})
}

func TestResumeDueFailsOrphanedRun(t *testing.T) {
	repo := memory.New()
	clock := newFakeClock(time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC))

	// A run persisted by a workflow that is no longer registered.
	past := clock.Now().Add(-time.Hour)
	orphan := model.NewWorkflowRun("retired-workflow", model.NewEvent(testEventType, nil))
	orphan.Status = types.RunStatusSleeping
	orphan.ResumeAt = &past

	ctx := context.Background()
	gt.NoError(t, repo.WorkflowRun().Create(ctx, orphan)).Required()

	eng, err := engine.New(repo, nil, engine.WithClock(clock.Now))
	gt.NoError(t, err).Required()

	gt.NoError(t, eng.ResumeDue(ctx, clock.Now())).Required()

	persisted, err := repo.WorkflowRun().Get(ctx, orphan.ID)
	gt.NoError(t, err).Required()
	gt.Value(t, persisted.Status).Equal(types.RunStatusFailed)
}

func TestPollerFiresCronTrigger(t *testing.T) {
	repo := memory.New()
	clock := newFakeClock(time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC))

	var fired []types.EventType
	eng, err := engine.New(repo, []engine.Registration{
		{
			ID:      "cron-workflow",
			Trigger: engine.OnCron("test/tick", "0 9 * * *", "UTC"),
			Func: func(ctx context.Context, step *engine.Step, evt *model.Event) error {
				fired = append(fired, evt.Type)
				return nil
			},
		},
	}, engine.WithClock(clock.Now))
	gt.NoError(t, err).Required()

	ctx := context.Background()
	poller := engine.NewPoller(eng, time.Hour)
	gt.NoError(t, poller.Start(ctx)).Required()
	defer poller.Stop()

	// Before 09:00 nothing fires.
	poller.Tick(ctx)
	gt.Array(t, fired).Length(0)

	// Past 09:00 the trigger fires exactly once per elapsed schedule point.
	clock.Advance(90 * time.Minute)
	poller.Tick(ctx)
	gt.Array(t, fired).Length(1)
	gt.Value(t, fired[0]).Equal(types.EventType("test/tick"))

	// The same schedule point does not fire twice.
	poller.Tick(ctx)
	gt.Array(t, fired).Length(1)
}

func TestHandlerErrorFailsRun(t *testing.T) {
	repo := memory.New()

	eng, err := engine.New(repo, []engine.Registration{
		{
			ID:      "test-workflow",
			Trigger: engine.OnEvent(testEventType),
			Func: func(ctx context.Context, step *engine.Step, evt *model.Event) error {
				return goerr.New("handler rejected the event")
			},
		},
	})
	gt.NoError(t, err).Required()

	run, err := eng.DispatchSync(context.Background(), model.NewEvent(testEventType, nil))
	gt.Error(t, err)
	gt.Bool(t, errors.Is(err, engine.ErrSuspended)).False()

	persisted, getErr := repo.WorkflowRun().Get(context.Background(), run.ID)
	gt.NoError(t, getErr).Required()
	gt.Value(t, persisted.Status).Equal(types.RunStatusFailed)
	gt.Value(t, persisted.LastError).Equal("handler rejected the event")
}
