package interfaces

import (
	"context"

	"github.com/vela-social/vela/pkg/domain/model"
	"github.com/vela-social/vela/pkg/domain/types"
)

// UserRepository persists users keyed by the external provider ID.
type UserRepository interface {
	// Put upserts the user row keyed by user.ID.
	Put(ctx context.Context, user *model.User) error
	Get(ctx context.Context, id types.UserID) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	Delete(ctx context.Context, id types.UserID) error
}
