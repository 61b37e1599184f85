package interfaces

import (
	"context"

	"github.com/vela-social/vela/pkg/domain/model"
	"github.com/vela-social/vela/pkg/domain/types"
)

// StoryRepository persists stories. Delete returns ErrNotFound when the row
// is already gone; the expiry workflow treats that as success.
type StoryRepository interface {
	Create(ctx context.Context, story *model.Story) (*model.Story, error)
	Get(ctx context.Context, id types.StoryID) (*model.Story, error)
	Delete(ctx context.Context, id types.StoryID) error
}
