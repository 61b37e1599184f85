package interfaces

import (
	"context"

	"github.com/vela-social/vela/pkg/domain/model"
	"github.com/vela-social/vela/pkg/domain/types"
)

// MessageRepository persists direct messages.
type MessageRepository interface {
	Create(ctx context.Context, msg *model.Message) (*model.Message, error)
	ListUnseen(ctx context.Context) ([]*model.Message, error)
	MarkSeen(ctx context.Context, id types.MessageID) error
}
