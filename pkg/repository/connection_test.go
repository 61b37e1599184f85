package repository_test

import (
	"context"
	"errors"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/vela-social/vela/pkg/domain/interfaces"
	"github.com/vela-social/vela/pkg/domain/model"
	"github.com/vela-social/vela/pkg/domain/types"
	"github.com/vela-social/vela/pkg/repository/memory"
)

func runConnectionRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("Create assigns ID and defaults status to pending", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Connection().Create(ctx, &model.Connection{
			FromUserID: "user_a",
			ToUserID:   "user_b",
		})
		gt.NoError(t, err).Required()

		gt.Value(t, created.ID).NotEqual(types.ConnectionID(""))
		gt.Value(t, created.Status).Equal(types.ConnectionStatusPending)
		gt.Bool(t, created.CreatedAt.IsZero()).False()

		retrieved, err := repo.Connection().Get(ctx, created.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, retrieved.FromUserID).Equal(types.UserID("user_a"))
		gt.Value(t, retrieved.ToUserID).Equal(types.UserID("user_b"))
		gt.Value(t, retrieved.Status).Equal(types.ConnectionStatusPending)
	})

	t.Run("Create keeps explicit ID", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		id := types.NewConnectionID()
		created, err := repo.Connection().Create(ctx, &model.Connection{
			ID:         id,
			FromUserID: "user_a",
			ToUserID:   "user_b",
			Status:     types.ConnectionStatusPending,
		})
		gt.NoError(t, err).Required()
		gt.Value(t, created.ID).Equal(id)
	})

	t.Run("UpdateStatus transitions pending to accepted", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Connection().Create(ctx, &model.Connection{
			FromUserID: "user_a",
			ToUserID:   "user_b",
		})
		gt.NoError(t, err).Required()

		gt.NoError(t, repo.Connection().UpdateStatus(ctx, created.ID, types.ConnectionStatusAccepted)).Required()

		retrieved, err := repo.Connection().Get(ctx, created.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, retrieved.Status).Equal(types.ConnectionStatusAccepted)
	})

	t.Run("UpdateStatus returns ErrNotFound for missing connection", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		err := repo.Connection().UpdateStatus(ctx, types.NewConnectionID(), types.ConnectionStatusRejected)
		gt.Bool(t, errors.Is(err, interfaces.ErrNotFound)).True()
	})

	t.Run("Get returns ErrNotFound for missing connection", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.Connection().Get(ctx, types.NewConnectionID())
		gt.Bool(t, errors.Is(err, interfaces.ErrNotFound)).True()
	})
}

func TestConnectionRepository_Memory(t *testing.T) {
	runConnectionRepositoryTest(t, func(t *testing.T) interfaces.Repository {
		return memory.New()
	})
}

func TestConnectionRepository_Firestore(t *testing.T) {
	runConnectionRepositoryTest(t, newFirestoreRepo)
}
