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

type storyDocument struct {
	ID        string    `firestore:"id"`
	UserID    string    `firestore:"user_id"`
	MediaURL  string    `firestore:"media_url"`
	CreatedAt time.Time `firestore:"created_at"`
}

func (d *storyDocument) toModel() *model.Story {
	return &model.Story{
		ID:        types.StoryID(d.ID),
		UserID:    types.UserID(d.UserID),
		MediaURL:  d.MediaURL,
		CreatedAt: d.CreatedAt,
	}
}

type storyRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newStoryRepository(client *firestore.Client) *storyRepository {
	return &storyRepository{client: client}
}

func (r *storyRepository) collection() string {
	return collectionName(r.collectionPrefix, "stories")
}

func (r *storyRepository) Create(ctx context.Context, story *model.Story) (*model.Story, error) {
	id := story.ID
	if id == "" {
		id = types.NewStoryID()
	}

	doc := &storyDocument{
		ID:        id.String(),
		UserID:    story.UserID.String(),
		MediaURL:  story.MediaURL,
		CreatedAt: time.Now().UTC(),
	}

	docRef := r.client.Collection(r.collection()).Doc(id.String())
	if _, err := docRef.Set(ctx, doc); err != nil {
		return nil, goerr.Wrap(err, "failed to create story", goerr.V("id", id))
	}

	return doc.toModel(), nil
}

func (r *storyRepository) Get(ctx context.Context, id types.StoryID) (*model.Story, error) {
	doc, err := r.client.Collection(r.collection()).Doc(id.String()).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(interfaces.ErrNotFound, "story not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get story", goerr.V("id", id))
	}

	var storyDoc storyDocument
	if err := doc.DataTo(&storyDoc); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal story", goerr.V("id", id))
	}

	return storyDoc.toModel(), nil
}

func (r *storyRepository) Delete(ctx context.Context, id types.StoryID) error {
	docRef := r.client.Collection(r.collection()).Doc(id.String())

	if _, err := docRef.Get(ctx); err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(interfaces.ErrNotFound, "story not found", goerr.V("id", id))
		}
		return goerr.Wrap(err, "failed to get story", goerr.V("id", id))
	}

	if _, err := docRef.Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete story", goerr.V("id", id))
	}

	return nil
}
