package mail

import (
	"context"

	"github.com/vela-social/vela/pkg/utils/logging"
)

// Nop is a Service that logs instead of sending. Used when no SMTP host is
// configured, so workflows still complete in development setups.
type Nop struct{}

var _ Service = &Nop{}

func NewNop() *Nop { return &Nop{} }

func (n *Nop) Send(ctx context.Context, msg *Message) error {
	logging.From(ctx).Info("mail delivery skipped (smtp not configured)",
		"to", msg.To,
		"subject", msg.Subject,
	)
	return nil
}
