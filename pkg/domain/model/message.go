package model

import (
	"time"

	"github.com/vela-social/vela/pkg/domain/types"
)

// Message is a direct message between two users. The daily digest workflow
// reads unseen messages grouped by recipient.
type Message struct {
	ID         types.MessageID
	FromUserID types.UserID
	ToUserID   types.UserID
	Text       string
	Seen       bool
	CreatedAt  time.Time
}
