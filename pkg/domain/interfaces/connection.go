package interfaces

import (
	"context"

	"github.com/vela-social/vela/pkg/domain/model"
	"github.com/vela-social/vela/pkg/domain/types"
)

// ConnectionRepository persists connection requests. The reminder workflow
// only reads; status mutation happens through application endpoints.
type ConnectionRepository interface {
	Create(ctx context.Context, conn *model.Connection) (*model.Connection, error)
	Get(ctx context.Context, id types.ConnectionID) (*model.Connection, error)
	UpdateStatus(ctx context.Context, id types.ConnectionID, status types.ConnectionStatus) error
}
