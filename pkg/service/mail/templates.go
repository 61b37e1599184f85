package mail

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/m-mizutani/goerr/v2"
)

var connectionRequestTmpl = template.Must(template.New("connection_request").Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px;">
  <h2>Hi {{.RecipientName}},</h2>
  <p><strong>{{.SenderName}}</strong> wants to connect with you.</p>
  <p>
    <a href="{{.BaseURL}}/connections" style="background: #4f46e5; color: #fff; padding: 10px 20px; border-radius: 6px; text-decoration: none;">
      View request
    </a>
  </p>
  {{if .Reminder}}<p style="color: #6b7280;">This request is still waiting for your response.</p>{{end}}
</div>
`))

var unseenDigestTmpl = template.Must(template.New("unseen_digest").Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px;">
  <h2>Hi {{.RecipientName}},</h2>
  <p>You have <strong>{{.Count}}</strong> unseen message{{if gt .Count 1}}s{{end}} waiting for you.</p>
  <p>
    <a href="{{.BaseURL}}/messages" style="background: #4f46e5; color: #fff; padding: 10px 20px; border-radius: 6px; text-decoration: none;">
      Open inbox
    </a>
  </p>
</div>
`))

type connectionRequestData struct {
	RecipientName string
	SenderName    string
	BaseURL       string
	Reminder      bool
}

type unseenDigestData struct {
	RecipientName string
	Count         int
	BaseURL       string
}

// NewConnectionRequest builds the notification sent when a connection request
// is created. When reminder is true the subject and body mark it as a nudge.
func NewConnectionRequest(to, recipientName, senderName, baseURL string, reminder bool) (*Message, error) {
	var body bytes.Buffer
	err := connectionRequestTmpl.Execute(&body, connectionRequestData{
		RecipientName: recipientName,
		SenderName:    senderName,
		BaseURL:       baseURL,
		Reminder:      reminder,
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to render connection request mail")
	}

	subject := fmt.Sprintf("%s wants to connect with you", senderName)
	if reminder {
		subject = fmt.Sprintf("Reminder: %s is waiting to connect with you", senderName)
	}

	return &Message{
		To:       to,
		Subject:  subject,
		HTMLBody: body.String(),
	}, nil
}

// NewUnseenDigest builds the daily summary mail for a recipient with unseen
// messages.
func NewUnseenDigest(to, recipientName string, count int, baseURL string) (*Message, error) {
	var body bytes.Buffer
	err := unseenDigestTmpl.Execute(&body, unseenDigestData{
		RecipientName: recipientName,
		Count:         count,
		BaseURL:       baseURL,
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to render unseen digest mail")
	}

	subject := fmt.Sprintf("You have %d unseen messages", count)
	if count == 1 {
		subject = "You have 1 unseen message"
	}

	return &Message{
		To:       to,
		Subject:  subject,
		HTMLBody: body.String(),
	}, nil
}
