package workflow

import (
	"context"
	"errors"

	"github.com/m-mizutani/goerr/v2"
	"github.com/vela-social/vela/pkg/domain/interfaces"
	"github.com/vela-social/vela/pkg/domain/model"
	"github.com/vela-social/vela/pkg/domain/types"
	"github.com/vela-social/vela/pkg/engine"
	"github.com/vela-social/vela/pkg/utils/logging"
)

// userPayload is the identity-provider webhook shape for user.* events.
type userPayload struct {
	ID             string `json:"id"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	EmailAddresses []struct {
		EmailAddress string `json:"email_address"`
	} `json:"email_addresses"`
	ImageURL string `json:"image_url"`
}

func (p *userPayload) primaryEmail() string {
	if len(p.EmailAddresses) == 0 {
		return ""
	}
	return p.EmailAddresses[0].EmailAddress
}

// SyncUserCreated upserts a new user row from an identity-provider
// user.created event, deriving a username from the email local-part.
func (w *Workflows) SyncUserCreated(ctx context.Context, step *engine.Step, evt *model.Event) error {
	var payload userPayload
	if err := evt.DecodeData(&payload); err != nil {
		return err
	}
	if payload.ID == "" {
		return goerr.New("user.created event is missing id", goerr.V("data", evt.Data))
	}

	_, err := step.Run(ctx, "upsert-user", func(ctx context.Context) (any, error) {
		email := payload.primaryEmail()

		username, err := resolveUsername(ctx, w.repo.User(), deriveUsername(email, payload.ID))
		if err != nil {
			return nil, err
		}

		user := &model.User{
			ID:             types.UserID(payload.ID),
			Username:       username,
			Email:          email,
			FullName:       model.ComposeFullName(payload.FirstName, payload.LastName),
			ProfilePicture: payload.ImageURL,
		}
		if err := w.repo.User().Put(ctx, user); err != nil {
			return nil, goerr.Wrap(err, "failed to upsert user", goerr.V("id", payload.ID))
		}

		logging.From(ctx).Info("user synced", "id", payload.ID, "username", username)
		return username, nil
	})
	return err
}

// SyncUserUpdated re-applies email, full name and profile picture to the
// existing row. The username is never touched.
func (w *Workflows) SyncUserUpdated(ctx context.Context, step *engine.Step, evt *model.Event) error {
	var payload userPayload
	if err := evt.DecodeData(&payload); err != nil {
		return err
	}
	if payload.ID == "" {
		return goerr.New("user.updated event is missing id", goerr.V("data", evt.Data))
	}

	_, err := step.Run(ctx, "update-user", func(ctx context.Context) (any, error) {
		existing, err := w.repo.User().Get(ctx, types.UserID(payload.ID))
		if err != nil {
			return nil, goerr.Wrap(err, "failed to load user for update", goerr.V("id", payload.ID))
		}

		existing.Email = payload.primaryEmail()
		existing.FullName = model.ComposeFullName(payload.FirstName, payload.LastName)
		existing.ProfilePicture = payload.ImageURL

		if err := w.repo.User().Put(ctx, existing); err != nil {
			return nil, goerr.Wrap(err, "failed to update user", goerr.V("id", payload.ID))
		}

		return payload.ID, nil
	})
	return err
}

// SyncUserDeleted removes the user row. A missing row is treated as already
// deleted.
func (w *Workflows) SyncUserDeleted(ctx context.Context, step *engine.Step, evt *model.Event) error {
	var payload userPayload
	if err := evt.DecodeData(&payload); err != nil {
		return err
	}
	if payload.ID == "" {
		return goerr.New("user.deleted event is missing id", goerr.V("data", evt.Data))
	}

	_, err := step.Run(ctx, "delete-user", func(ctx context.Context) (any, error) {
		if err := w.repo.User().Delete(ctx, types.UserID(payload.ID)); err != nil {
			if errors.Is(err, interfaces.ErrNotFound) {
				return "already deleted", nil
			}
			return nil, goerr.Wrap(err, "failed to delete user", goerr.V("id", payload.ID))
		}
		return "deleted", nil
	})
	return err
}
