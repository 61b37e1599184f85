package mail

import (
	"context"

	gomail "github.com/wneessen/go-mail"

	"github.com/m-mizutani/goerr/v2"
	"github.com/vela-social/vela/pkg/utils/logging"
)

// Message is one outbound notification email.
type Message struct {
	To       string
	Subject  string
	HTMLBody string
}

// Service is the outbound email collaborator used by workflow handlers.
type Service interface {
	Send(ctx context.Context, msg *Message) error
}

// Client sends mail over SMTP.
type Client struct {
	client *gomail.Client
	from   string
}

var _ Service = &Client{}

type Option func(*config)

type config struct {
	port     int
	username string
	password string
}

func WithPort(port int) Option {
	return func(c *config) {
		c.port = port
	}
}

func WithAuth(username, password string) Option {
	return func(c *config) {
		c.username = username
		c.password = password
	}
}

// New creates an SMTP mail client.
func New(host, from string, opts ...Option) (*Client, error) {
	if host == "" {
		return nil, goerr.New("smtp host is required")
	}
	if from == "" {
		return nil, goerr.New("mail from address is required")
	}

	cfg := &config{port: 587}
	for _, opt := range opts {
		opt(cfg)
	}

	clientOpts := []gomail.Option{
		gomail.WithPort(cfg.port),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
	}
	if cfg.username != "" {
		clientOpts = append(clientOpts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(cfg.username),
			gomail.WithPassword(cfg.password),
		)
	}

	client, err := gomail.NewClient(host, clientOpts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create smtp client", goerr.V("host", host))
	}

	return &Client{
		client: client,
		from:   from,
	}, nil
}

// Send delivers one message. Recipient failures are returned to the caller;
// retry policy belongs to the workflow step that sends.
func (c *Client) Send(ctx context.Context, msg *Message) error {
	if msg.To == "" {
		return goerr.New("mail recipient is required", goerr.V("subject", msg.Subject))
	}

	m := gomail.NewMsg()
	if err := m.From(c.from); err != nil {
		return goerr.Wrap(err, "invalid from address", goerr.V("from", c.from))
	}
	if err := m.To(msg.To); err != nil {
		return goerr.Wrap(err, "invalid recipient address", goerr.V("to", msg.To))
	}
	m.Subject(msg.Subject)
	m.SetBodyString(gomail.TypeTextHTML, msg.HTMLBody)

	if err := c.client.DialAndSendWithContext(ctx, m); err != nil {
		return goerr.Wrap(err, "failed to send mail", goerr.V("to", msg.To), goerr.V("subject", msg.Subject))
	}

	logging.From(ctx).Info("mail sent", "to", msg.To, "subject", msg.Subject)
	return nil
}
