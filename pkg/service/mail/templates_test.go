package mail_test

import (
	"strings"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/vela-social/vela/pkg/service/mail"
)

func TestNewConnectionRequest(t *testing.T) {
	t.Run("initial request", func(t *testing.T) {
		msg, err := mail.NewConnectionRequest("grace@example.com", "Grace Hopper", "Ada Lovelace", "https://app.example.com", false)
		gt.NoError(t, err).Required()

		gt.Value(t, msg.To).Equal("grace@example.com")
		gt.Value(t, msg.Subject).Equal("Ada Lovelace wants to connect with you")
		gt.Bool(t, strings.Contains(msg.HTMLBody, "Grace Hopper")).True()
		gt.Bool(t, strings.Contains(msg.HTMLBody, "Ada Lovelace")).True()
		gt.Bool(t, strings.Contains(msg.HTMLBody, "https://app.example.com/connections")).True()
		gt.Bool(t, strings.Contains(msg.HTMLBody, "still waiting")).False()
	})

	t.Run("reminder", func(t *testing.T) {
		msg, err := mail.NewConnectionRequest("grace@example.com", "Grace Hopper", "Ada Lovelace", "https://app.example.com", true)
		gt.NoError(t, err).Required()

		gt.Value(t, msg.Subject).Equal("Reminder: Ada Lovelace is waiting to connect with you")
		gt.Bool(t, strings.Contains(msg.HTMLBody, "still waiting")).True()
	})

	t.Run("escapes HTML in names", func(t *testing.T) {
		msg, err := mail.NewConnectionRequest("x@example.com", "<script>", "Ada", "https://app.example.com", false)
		gt.NoError(t, err).Required()
		gt.Bool(t, strings.Contains(msg.HTMLBody, "<script>")).False()
	})
}

func TestNewUnseenDigest(t *testing.T) {
	t.Run("plural subject", func(t *testing.T) {
		msg, err := mail.NewUnseenDigest("r1@example.com", "Recipient One", 3, "https://app.example.com")
		gt.NoError(t, err).Required()

		gt.Value(t, msg.Subject).Equal("You have 3 unseen messages")
		gt.Bool(t, strings.Contains(msg.HTMLBody, "<strong>3</strong>")).True()
		gt.Bool(t, strings.Contains(msg.HTMLBody, "https://app.example.com/messages")).True()
	})

	t.Run("singular subject", func(t *testing.T) {
		msg, err := mail.NewUnseenDigest("r1@example.com", "Recipient One", 1, "https://app.example.com")
		gt.NoError(t, err).Required()
		gt.Value(t, msg.Subject).Equal("You have 1 unseen message")
	})
}
