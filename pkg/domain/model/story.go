package model

import (
	"time"

	"github.com/vela-social/vela/pkg/domain/types"
)

// Story is a piece of ephemeral media. Stories are deleted by a delayed
// workflow 24 hours after creation.
type Story struct {
	ID        types.StoryID
	UserID    types.UserID
	MediaURL  string
	CreatedAt time.Time
}
