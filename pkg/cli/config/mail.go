package config

import (
	"github.com/urfave/cli/v3"
	"github.com/vela-social/vela/pkg/service/mail"
)

// Mail holds CLI flags for outbound SMTP configuration
type Mail struct {
	host     string
	port     int
	username string
	password string
	from     string
}

// Flags returns CLI flags for mail configuration
func (m *Mail) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "smtp-host",
			Usage:       "SMTP server host (notification mail is disabled when empty)",
			Sources:     cli.EnvVars("VELA_SMTP_HOST"),
			Destination: &m.host,
		},
		&cli.IntFlag{
			Name:        "smtp-port",
			Usage:       "SMTP server port",
			Value:       587,
			Sources:     cli.EnvVars("VELA_SMTP_PORT"),
			Destination: &m.port,
		},
		&cli.StringFlag{
			Name:        "smtp-username",
			Usage:       "SMTP username (plain auth is skipped when empty)",
			Sources:     cli.EnvVars("VELA_SMTP_USERNAME"),
			Destination: &m.username,
		},
		&cli.StringFlag{
			Name:        "smtp-password",
			Usage:       "SMTP password",
			Sources:     cli.EnvVars("VELA_SMTP_PASSWORD"),
			Destination: &m.password,
		},
		&cli.StringFlag{
			Name:        "mail-from",
			Usage:       "Sender address of notification mail",
			Sources:     cli.EnvVars("VELA_MAIL_FROM"),
			Destination: &m.from,
		},
	}
}

// IsConfigured reports whether an SMTP host is set.
func (m *Mail) IsConfigured() bool {
	return m.host != ""
}

// Configure builds the SMTP mail client.
func (m *Mail) Configure() (*mail.Client, error) {
	opts := []mail.Option{
		mail.WithPort(m.port),
	}
	if m.username != "" {
		opts = append(opts, mail.WithAuth(m.username, m.password))
	}

	return mail.New(m.host, m.from, opts...)
}
