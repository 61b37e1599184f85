package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/vela-social/vela/pkg/domain/interfaces"
	"github.com/vela-social/vela/pkg/domain/model"
	"github.com/vela-social/vela/pkg/domain/types"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type connectionDocument struct {
	ID         string    `firestore:"id"`
	FromUserID string    `firestore:"from_user_id"`
	ToUserID   string    `firestore:"to_user_id"`
	Status     string    `firestore:"status"`
	CreatedAt  time.Time `firestore:"created_at"`
	UpdatedAt  time.Time `firestore:"updated_at"`
}

func (d *connectionDocument) toModel() *model.Connection {
	return &model.Connection{
		ID:         types.ConnectionID(d.ID),
		FromUserID: types.UserID(d.FromUserID),
		ToUserID:   types.UserID(d.ToUserID),
		Status:     types.ConnectionStatus(d.Status),
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
	}
}

type connectionRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newConnectionRepository(client *firestore.Client) *connectionRepository {
	return &connectionRepository{client: client}
}

func (r *connectionRepository) collection() string {
	return collectionName(r.collectionPrefix, "connections")
}

func (r *connectionRepository) Create(ctx context.Context, conn *model.Connection) (*model.Connection, error) {
	id := conn.ID
	if id == "" {
		id = types.NewConnectionID()
	}

	now := time.Now().UTC()
	doc := &connectionDocument{
		ID:         id.String(),
		FromUserID: conn.FromUserID.String(),
		ToUserID:   conn.ToUserID.String(),
		Status:     conn.Status.Normalize().String(),
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	docRef := r.client.Collection(r.collection()).Doc(id.String())
	if _, err := docRef.Set(ctx, doc); err != nil {
		return nil, goerr.Wrap(err, "failed to create connection", goerr.V("id", id))
	}

	return doc.toModel(), nil
}

func (r *connectionRepository) Get(ctx context.Context, id types.ConnectionID) (*model.Connection, error) {
	doc, err := r.client.Collection(r.collection()).Doc(id.String()).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(interfaces.ErrNotFound, "connection not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get connection", goerr.V("id", id))
	}

	var connDoc connectionDocument
	if err := doc.DataTo(&connDoc); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal connection", goerr.V("id", id))
	}

	return connDoc.toModel(), nil
}

func (r *connectionRepository) UpdateStatus(ctx context.Context, id types.ConnectionID, connStatus types.ConnectionStatus) error {
	docRef := r.client.Collection(r.collection()).Doc(id.String())

	_, err := docRef.Update(ctx, []firestore.Update{
		{Path: "status", Value: connStatus.String()},
		{Path: "updated_at", Value: time.Now().UTC()},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(interfaces.ErrNotFound, "connection not found", goerr.V("id", id))
		}
		return goerr.Wrap(err, "failed to update connection status", goerr.V("id", id))
	}

	return nil
}
