package interfaces

import (
	"context"
	"time"

	"github.com/vela-social/vela/pkg/domain/model"
	"github.com/vela-social/vela/pkg/domain/types"
)

// WorkflowRunRepository persists workflow runs and their step records.
type WorkflowRunRepository interface {
	Create(ctx context.Context, run *model.WorkflowRun) error
	Get(ctx context.Context, id types.RunID) (*model.WorkflowRun, error)
	// Put overwrites the whole run document (status, steps, resume_at).
	Put(ctx context.Context, run *model.WorkflowRun) error
	// ListDue returns sleeping runs whose resume deadline has elapsed.
	ListDue(ctx context.Context, now time.Time) ([]*model.WorkflowRun, error)
}
