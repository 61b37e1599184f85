package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/vela-social/vela/pkg/domain/interfaces"
	"github.com/vela-social/vela/pkg/domain/model"
	"github.com/vela-social/vela/pkg/domain/types"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type messageDocument struct {
	ID         string    `firestore:"id"`
	FromUserID string    `firestore:"from_user_id"`
	ToUserID   string    `firestore:"to_user_id"`
	Text       string    `firestore:"text"`
	Seen       bool      `firestore:"seen"`
	CreatedAt  time.Time `firestore:"created_at"`
}

func (d *messageDocument) toModel() *model.Message {
	return &model.Message{
		ID:         types.MessageID(d.ID),
		FromUserID: types.UserID(d.FromUserID),
		ToUserID:   types.UserID(d.ToUserID),
		Text:       d.Text,
		Seen:       d.Seen,
		CreatedAt:  d.CreatedAt,
	}
}

type messageRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newMessageRepository(client *firestore.Client) *messageRepository {
	return &messageRepository{client: client}
}

func (r *messageRepository) collection() string {
	return collectionName(r.collectionPrefix, "messages")
}

func (r *messageRepository) Create(ctx context.Context, msg *model.Message) (*model.Message, error) {
	id := msg.ID
	if id == "" {
		id = types.NewMessageID()
	}

	doc := &messageDocument{
		ID:         id.String(),
		FromUserID: msg.FromUserID.String(),
		ToUserID:   msg.ToUserID.String(),
		Text:       msg.Text,
		Seen:       msg.Seen,
		CreatedAt:  time.Now().UTC(),
	}

	docRef := r.client.Collection(r.collection()).Doc(id.String())
	if _, err := docRef.Set(ctx, doc); err != nil {
		return nil, goerr.Wrap(err, "failed to create message", goerr.V("id", id))
	}

	return doc.toModel(), nil
}

func (r *messageRepository) ListUnseen(ctx context.Context) ([]*model.Message, error) {
	iter := r.client.Collection(r.collection()).
		Where("seen", "==", false).
		Documents(ctx)
	defer iter.Stop()

	var messages []*model.Message
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate unseen messages")
		}

		var msgDoc messageDocument
		if err := doc.DataTo(&msgDoc); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal message")
		}
		messages = append(messages, msgDoc.toModel())
	}

	return messages, nil
}

func (r *messageRepository) MarkSeen(ctx context.Context, id types.MessageID) error {
	docRef := r.client.Collection(r.collection()).Doc(id.String())

	_, err := docRef.Update(ctx, []firestore.Update{
		{Path: "seen", Value: true},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(interfaces.ErrNotFound, "message not found", goerr.V("id", id))
		}
		return goerr.Wrap(err, "failed to mark message seen", goerr.V("id", id))
	}

	return nil
}
