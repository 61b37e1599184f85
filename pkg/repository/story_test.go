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

func runStoryRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("Create and Get story", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Story().Create(ctx, &model.Story{
			UserID:   "user_a",
			MediaURL: "https://media.example.com/1.jpg",
		})
		gt.NoError(t, err).Required()
		gt.Value(t, created.ID).NotEqual(types.StoryID(""))
		gt.Bool(t, created.CreatedAt.IsZero()).False()

		retrieved, err := repo.Story().Get(ctx, created.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, retrieved.UserID).Equal(types.UserID("user_a"))
		gt.Value(t, retrieved.MediaURL).Equal("https://media.example.com/1.jpg")
	})

	t.Run("Delete removes story and second delete fails", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Story().Create(ctx, &model.Story{UserID: "user_a"})
		gt.NoError(t, err).Required()

		gt.NoError(t, repo.Story().Delete(ctx, created.ID)).Required()

		_, err = repo.Story().Get(ctx, created.ID)
		gt.Bool(t, errors.Is(err, interfaces.ErrNotFound)).True()

		err = repo.Story().Delete(ctx, created.ID)
		gt.Bool(t, errors.Is(err, interfaces.ErrNotFound)).True()
	})
}

func TestStoryRepository_Memory(t *testing.T) {
	runStoryRepositoryTest(t, func(t *testing.T) interfaces.Repository {
		return memory.New()
	})
}

func TestStoryRepository_Firestore(t *testing.T) {
	runStoryRepositoryTest(t, newFirestoreRepo)
}
