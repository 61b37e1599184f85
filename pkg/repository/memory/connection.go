package memory

import (
	"context"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/vela-social/vela/pkg/domain/interfaces"
	"github.com/vela-social/vela/pkg/domain/model"
	"github.com/vela-social/vela/pkg/domain/types"
)

type connectionRepository struct {
	mu          sync.RWMutex
	connections map[types.ConnectionID]*model.Connection
}

func newConnectionRepository() *connectionRepository {
	return &connectionRepository{
		connections: make(map[types.ConnectionID]*model.Connection),
	}
}

func (r *connectionRepository) Create(ctx context.Context, conn *model.Connection) (*model.Connection, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	created := &model.Connection{
		ID:         conn.ID,
		FromUserID: conn.FromUserID,
		ToUserID:   conn.ToUserID,
		Status:     conn.Status.Normalize(),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if created.ID == "" {
		created.ID = types.NewConnectionID()
	}

	r.connections[created.ID] = created

	connCopy := *created
	return &connCopy, nil
}

func (r *connectionRepository) Get(ctx context.Context, id types.ConnectionID) (*model.Connection, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	conn, exists := r.connections[id]
	if !exists {
		return nil, goerr.Wrap(interfaces.ErrNotFound, "connection not found", goerr.V("id", id))
	}

	connCopy := *conn
	return &connCopy, nil
}

func (r *connectionRepository) UpdateStatus(ctx context.Context, id types.ConnectionID, status types.ConnectionStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	conn, exists := r.connections[id]
	if !exists {
		return goerr.Wrap(interfaces.ErrNotFound, "connection not found", goerr.V("id", id))
	}

	conn.Status = status
	conn.UpdatedAt = time.Now().UTC()
	return nil
}
