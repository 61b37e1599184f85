package workflow

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/vela-social/vela/pkg/domain/model"
	"github.com/vela-social/vela/pkg/domain/types"
	"github.com/vela-social/vela/pkg/engine"
	"github.com/vela-social/vela/pkg/service/mail"
)

const reminderDelay = 24 * time.Hour

type connectionPayload struct {
	ConnectionID string `json:"connection_id"`
}

// ConnectionReminder notifies the recipient of a new connection request, then
// sleeps 24 hours and sends a reminder unless the request was accepted in the
// meantime. The sleep is durable; it survives process restarts without
// holding a worker.
func (w *Workflows) ConnectionReminder(ctx context.Context, step *engine.Step, evt *model.Event) error {
	var payload connectionPayload
	if err := evt.DecodeData(&payload); err != nil {
		return err
	}
	if payload.ConnectionID == "" {
		return goerr.New("connection event is missing connection_id", goerr.V("data", evt.Data))
	}
	connID := types.ConnectionID(payload.ConnectionID)

	_, err := step.Run(ctx, "send-connection-request-mail", func(ctx context.Context) (any, error) {
		if err := w.sendConnectionMail(ctx, connID, false); err != nil {
			return nil, err
		}
		return "sent", nil
	})
	if err != nil {
		return err
	}

	if err := step.Sleep(ctx, "wait-for-response", reminderDelay); err != nil {
		return err
	}

	_, err = step.Run(ctx, "send-connection-request-reminder", func(ctx context.Context) (any, error) {
		conn, err := w.repo.Connection().Get(ctx, connID)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to reload connection", goerr.V("id", connID))
		}

		if conn.Status == types.ConnectionStatusAccepted {
			return "already accepted", nil
		}

		if err := w.sendConnectionMail(ctx, connID, true); err != nil {
			return nil, err
		}
		return "reminded", nil
	})
	return err
}

// sendConnectionMail loads the connection with both user ends resolved and
// mails the recipient.
func (w *Workflows) sendConnectionMail(ctx context.Context, connID types.ConnectionID, reminder bool) error {
	conn, err := w.repo.Connection().Get(ctx, connID)
	if err != nil {
		return goerr.Wrap(err, "failed to load connection", goerr.V("id", connID))
	}

	sender, err := w.repo.User().Get(ctx, conn.FromUserID)
	if err != nil {
		return goerr.Wrap(err, "failed to load connection sender", goerr.V("id", conn.FromUserID))
	}

	recipient, err := w.repo.User().Get(ctx, conn.ToUserID)
	if err != nil {
		return goerr.Wrap(err, "failed to load connection recipient", goerr.V("id", conn.ToUserID))
	}

	msg, err := mail.NewConnectionRequest(recipient.Email, recipient.FullName, sender.FullName, w.baseURL, reminder)
	if err != nil {
		return err
	}

	if err := w.mailer.Send(ctx, msg); err != nil {
		return goerr.Wrap(err, "failed to send connection mail",
			goerr.V("connection", connID),
			goerr.V("to", recipient.Email),
			goerr.V("reminder", reminder))
	}

	return nil
}
