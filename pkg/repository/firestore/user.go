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

type userDocument struct {
	ID             string    `firestore:"id"`
	Username       string    `firestore:"username"`
	Email          string    `firestore:"email"`
	FullName       string    `firestore:"full_name"`
	ProfilePicture string    `firestore:"profile_picture"`
	CreatedAt      time.Time `firestore:"created_at"`
	UpdatedAt      time.Time `firestore:"updated_at"`
}

func (d *userDocument) toModel() *model.User {
	return &model.User{
		ID:             types.UserID(d.ID),
		Username:       d.Username,
		Email:          d.Email,
		FullName:       d.FullName,
		ProfilePicture: d.ProfilePicture,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
}

type userRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newUserRepository(client *firestore.Client) *userRepository {
	return &userRepository{client: client}
}

func (r *userRepository) collection() string {
	return collectionName(r.collectionPrefix, "users")
}

func (r *userRepository) Put(ctx context.Context, user *model.User) error {
	docRef := r.client.Collection(r.collection()).Doc(user.ID.String())

	now := time.Now().UTC()
	createdAt := user.CreatedAt
	if doc, err := docRef.Get(ctx); err == nil {
		var existing userDocument
		if err := doc.DataTo(&existing); err == nil && !existing.CreatedAt.IsZero() {
			createdAt = existing.CreatedAt
		}
	}
	if createdAt.IsZero() {
		createdAt = now
	}

	doc := &userDocument{
		ID:             user.ID.String(),
		Username:       user.Username,
		Email:          user.Email,
		FullName:       user.FullName,
		ProfilePicture: user.ProfilePicture,
		CreatedAt:      createdAt,
		UpdatedAt:      now,
	}

	if _, err := docRef.Set(ctx, doc); err != nil {
		return goerr.Wrap(err, "failed to put user", goerr.V("id", user.ID))
	}

	return nil
}

func (r *userRepository) Get(ctx context.Context, id types.UserID) (*model.User, error) {
	doc, err := r.client.Collection(r.collection()).Doc(id.String()).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(interfaces.ErrNotFound, "user not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get user", goerr.V("id", id))
	}

	var userDoc userDocument
	if err := doc.DataTo(&userDoc); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal user", goerr.V("id", id))
	}

	return userDoc.toModel(), nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	iter := r.client.Collection(r.collection()).
		Where("username", "==", username).
		Limit(1).
		Documents(ctx)
	defer iter.Stop()

	doc, err := iter.Next()
	if err == iterator.Done {
		return nil, goerr.Wrap(interfaces.ErrNotFound, "user not found", goerr.V("username", username))
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to query user by username", goerr.V("username", username))
	}

	var userDoc userDocument
	if err := doc.DataTo(&userDoc); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal user", goerr.V("username", username))
	}

	return userDoc.toModel(), nil
}

func (r *userRepository) Delete(ctx context.Context, id types.UserID) error {
	docRef := r.client.Collection(r.collection()).Doc(id.String())

	if _, err := docRef.Get(ctx); err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(interfaces.ErrNotFound, "user not found", goerr.V("id", id))
		}
		return goerr.Wrap(err, "failed to get user", goerr.V("id", id))
	}

	if _, err := docRef.Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete user", goerr.V("id", id))
	}

	return nil
}
