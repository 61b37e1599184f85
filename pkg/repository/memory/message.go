package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/vela-social/vela/pkg/domain/interfaces"
	"github.com/vela-social/vela/pkg/domain/model"
	"github.com/vela-social/vela/pkg/domain/types"
)

type messageRepository struct {
	mu       sync.RWMutex
	messages map[types.MessageID]*model.Message
}

func newMessageRepository() *messageRepository {
	return &messageRepository{
		messages: make(map[types.MessageID]*model.Message),
	}
}

func (r *messageRepository) Create(ctx context.Context, msg *model.Message) (*model.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	created := &model.Message{
		ID:         msg.ID,
		FromUserID: msg.FromUserID,
		ToUserID:   msg.ToUserID,
		Text:       msg.Text,
		Seen:       msg.Seen,
		CreatedAt:  time.Now().UTC(),
	}
	if created.ID == "" {
		created.ID = types.NewMessageID()
	}

	r.messages[created.ID] = created

	msgCopy := *created
	return &msgCopy, nil
}

func (r *messageRepository) ListUnseen(ctx context.Context) ([]*model.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var messages []*model.Message
	for _, msg := range r.messages {
		if msg.Seen {
			continue
		}
		msgCopy := *msg
		messages = append(messages, &msgCopy)
	}

	sort.Slice(messages, func(i, j int) bool {
		return messages[i].CreatedAt.Before(messages[j].CreatedAt)
	})

	return messages, nil
}

func (r *messageRepository) MarkSeen(ctx context.Context, id types.MessageID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	msg, exists := r.messages[id]
	if !exists {
		return goerr.Wrap(interfaces.ErrNotFound, "message not found", goerr.V("id", id))
	}

	msg.Seen = true
	return nil
}
