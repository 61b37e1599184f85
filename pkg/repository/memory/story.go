package memory

import (
	"context"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/vela-social/vela/pkg/domain/interfaces"
	"github.com/vela-social/vela/pkg/domain/model"
	"github.com/vela-social/vela/pkg/domain/types"
)

type storyRepository struct {
	mu      sync.RWMutex
	stories map[types.StoryID]*model.Story
}

func newStoryRepository() *storyRepository {
	return &storyRepository{
		stories: make(map[types.StoryID]*model.Story),
	}
}

func (r *storyRepository) Create(ctx context.Context, story *model.Story) (*model.Story, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	created := &model.Story{
		ID:        story.ID,
		UserID:    story.UserID,
		MediaURL:  story.MediaURL,
		CreatedAt: time.Now().UTC(),
	}
	if created.ID == "" {
		created.ID = types.NewStoryID()
	}

	r.stories[created.ID] = created

	storyCopy := *created
	return &storyCopy, nil
}

func (r *storyRepository) Get(ctx context.Context, id types.StoryID) (*model.Story, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	story, exists := r.stories[id]
	if !exists {
		return nil, goerr.Wrap(interfaces.ErrNotFound, "story not found", goerr.V("id", id))
	}

	storyCopy := *story
	return &storyCopy, nil
}

func (r *storyRepository) Delete(ctx context.Context, id types.StoryID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.stories[id]; !exists {
		return goerr.Wrap(interfaces.ErrNotFound, "story not found", goerr.V("id", id))
	}

	delete(r.stories, id)
	return nil
}
