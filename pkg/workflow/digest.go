package workflow

import (
	"context"
	"errors"

	"github.com/m-mizutani/goerr/v2"
	"github.com/vela-social/vela/pkg/domain/interfaces"
	"github.com/vela-social/vela/pkg/domain/model"
	"github.com/vela-social/vela/pkg/domain/types"
	"github.com/vela-social/vela/pkg/engine"
	"github.com/vela-social/vela/pkg/service/mail"
	"github.com/vela-social/vela/pkg/utils/logging"
)

// DailyDigest scans all unseen messages, groups them by recipient and sends
// one summary mail per recipient with a nonzero count. A send failure for one
// recipient is logged and skipped; the remaining recipients still get theirs.
func (w *Workflows) DailyDigest(ctx context.Context, step *engine.Step, evt *model.Event) error {
	_, err := step.Run(ctx, "send-unseen-digests", func(ctx context.Context) (any, error) {
		messages, err := w.repo.Message().ListUnseen(ctx)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to list unseen messages")
		}

		counts := make(map[types.UserID]int)
		for _, msg := range messages {
			counts[msg.ToUserID]++
		}

		logger := logging.From(ctx)
		sent := 0
		for recipientID, count := range counts {
			if err := w.sendDigest(ctx, recipientID, count); err != nil {
				logger.Error("failed to send digest, skipping recipient",
					"recipient", recipientID,
					"count", count,
					"error", err.Error(),
				)
				continue
			}
			sent++
		}

		logger.Info("daily digest completed", "recipients", len(counts), "sent", sent)
		return sent, nil
	})
	return err
}

func (w *Workflows) sendDigest(ctx context.Context, recipientID types.UserID, count int) error {
	recipient, err := w.repo.User().Get(ctx, recipientID)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			// Recipient deleted since the messages arrived; nothing to send.
			return nil
		}
		return goerr.Wrap(err, "failed to load digest recipient", goerr.V("id", recipientID))
	}

	msg, err := mail.NewUnseenDigest(recipient.Email, recipient.FullName, count, w.baseURL)
	if err != nil {
		return err
	}

	return w.mailer.Send(ctx, msg)
}
