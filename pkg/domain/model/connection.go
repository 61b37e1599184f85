package model

import (
	"time"

	"github.com/vela-social/vela/pkg/domain/types"
)

// Connection is a connection request from one user to another.
type Connection struct {
	ID         types.ConnectionID
	FromUserID types.UserID
	ToUserID   types.UserID
	Status     types.ConnectionStatus
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
