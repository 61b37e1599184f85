package workflow

import (
	"context"
	"errors"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/vela-social/vela/pkg/domain/interfaces"
	"github.com/vela-social/vela/pkg/domain/model"
	"github.com/vela-social/vela/pkg/domain/types"
	"github.com/vela-social/vela/pkg/engine"
	"github.com/vela-social/vela/pkg/utils/logging"
)

const storyTTL = 24 * time.Hour

type storyPayload struct {
	StoryID string `json:"story_id"`
}

// StoryExpiry deletes a story 24 hours after creation. The delete is
// at-least-once and tolerates the row already being gone.
func (w *Workflows) StoryExpiry(ctx context.Context, step *engine.Step, evt *model.Event) error {
	var payload storyPayload
	if err := evt.DecodeData(&payload); err != nil {
		return err
	}
	if payload.StoryID == "" {
		return goerr.New("story event is missing story_id", goerr.V("data", evt.Data))
	}
	storyID := types.StoryID(payload.StoryID)

	if err := step.Sleep(ctx, "wait-for-expiry", storyTTL); err != nil {
		return err
	}

	_, err := step.Run(ctx, "delete-story", func(ctx context.Context) (any, error) {
		if err := w.repo.Story().Delete(ctx, storyID); err != nil {
			if errors.Is(err, interfaces.ErrNotFound) {
				return "already deleted", nil
			}
			return nil, goerr.Wrap(err, "failed to delete story", goerr.V("id", storyID))
		}

		logging.From(ctx).Info("story expired", "id", storyID)
		return "deleted", nil
	})
	return err
}
