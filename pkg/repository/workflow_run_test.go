package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/vela-social/vela/pkg/domain/interfaces"
	"github.com/vela-social/vela/pkg/domain/model"
	"github.com/vela-social/vela/pkg/domain/types"
	"github.com/vela-social/vela/pkg/repository/memory"
)

func runWorkflowRunRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	newRun := func(workflowID types.WorkflowID) *model.WorkflowRun {
		evt := model.NewEvent(types.EventStoryCreated, map[string]any{"story_id": "s1"})
		return model.NewWorkflowRun(workflowID, evt)
	}

	t.Run("Create and Get round-trips run with event", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		run := newRun("story-expiry")
		gt.NoError(t, repo.WorkflowRun().Create(ctx, run)).Required()

		retrieved, err := repo.WorkflowRun().Get(ctx, run.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, retrieved.WorkflowID).Equal(types.WorkflowID("story-expiry"))
		gt.Value(t, retrieved.Status).Equal(types.RunStatusRunning)
		gt.Value(t, retrieved.Event.Type).Equal(types.EventStoryCreated)
		gt.Value(t, retrieved.Event.Data["story_id"]).Equal("s1")
	})

	t.Run("Put persists step records", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		run := newRun("story-expiry")
		gt.NoError(t, repo.WorkflowRun().Create(ctx, run)).Required()

		run.RecordStep(&model.StepRecord{
			Name:        "delete-story",
			Result:      []byte(`"deleted"`),
			Done:        true,
			CompletedAt: time.Now().UTC(),
		})
		run.Status = types.RunStatusCompleted
		gt.NoError(t, repo.WorkflowRun().Put(ctx, run)).Required()

		retrieved, err := repo.WorkflowRun().Get(ctx, run.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, retrieved.Status).Equal(types.RunStatusCompleted)

		rec := retrieved.Step("delete-story")
		gt.Value(t, rec).NotNil()
		gt.Bool(t, rec.Done).True()
		gt.Value(t, string(rec.Result)).Equal(`"deleted"`)
	})

	t.Run("Put fails for unknown run", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		err := repo.WorkflowRun().Put(ctx, newRun("story-expiry"))
		gt.Bool(t, errors.Is(err, interfaces.ErrNotFound)).True()
	})

	t.Run("ListDue returns only elapsed sleeping runs", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		now := time.Now().UTC()

		past := now.Add(-time.Hour)
		future := now.Add(time.Hour)

		due := newRun("story-expiry")
		due.Status = types.RunStatusSleeping
		due.ResumeAt = &past
		gt.NoError(t, repo.WorkflowRun().Create(ctx, due)).Required()

		notYet := newRun("story-expiry")
		notYet.Status = types.RunStatusSleeping
		notYet.ResumeAt = &future
		gt.NoError(t, repo.WorkflowRun().Create(ctx, notYet)).Required()

		running := newRun("story-expiry")
		gt.NoError(t, repo.WorkflowRun().Create(ctx, running)).Required()

		listed, err := repo.WorkflowRun().ListDue(ctx, now)
		gt.NoError(t, err).Required()
		gt.Array(t, listed).Length(1)
		gt.Value(t, listed[0].ID).Equal(due.ID)
	})

	t.Run("ListDue orders by resume deadline", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		now := time.Now().UTC()

		older := now.Add(-2 * time.Hour)
		newer := now.Add(-time.Hour)

		second := newRun("story-expiry")
		second.Status = types.RunStatusSleeping
		second.ResumeAt = &newer
		gt.NoError(t, repo.WorkflowRun().Create(ctx, second)).Required()

		first := newRun("story-expiry")
		first.Status = types.RunStatusSleeping
		first.ResumeAt = &older
		gt.NoError(t, repo.WorkflowRun().Create(ctx, first)).Required()

		listed, err := repo.WorkflowRun().ListDue(ctx, now)
		gt.NoError(t, err).Required()
		gt.Array(t, listed).Length(2)
		gt.Value(t, listed[0].ID).Equal(first.ID)
		gt.Value(t, listed[1].ID).Equal(second.ID)
	})
}

func TestWorkflowRunRepository_Memory(t *testing.T) {
	runWorkflowRunRepositoryTest(t, func(t *testing.T) interfaces.Repository {
		return memory.New()
	})
}

func TestWorkflowRunRepository_Firestore(t *testing.T) {
	runWorkflowRunRepositoryTest(t, newFirestoreRepo)
}
