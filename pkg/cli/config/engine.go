package config

import (
	"time"

	"github.com/urfave/cli/v3"
	"github.com/vela-social/vela/pkg/engine"
)

// Engine holds CLI flags for workflow engine tuning
type Engine struct {
	maxAttempts    int
	retryBackoff   time.Duration
	pollInterval   time.Duration
	digestSpec     string
	digestTimezone string
}

// Flags returns CLI flags for engine configuration
func (e *Engine) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:        "step-max-attempts",
			Usage:       "Maximum attempts per workflow step",
			Value:       3,
			Sources:     cli.EnvVars("VELA_STEP_MAX_ATTEMPTS"),
			Destination: &e.maxAttempts,
		},
		&cli.DurationFlag{
			Name:        "step-retry-backoff",
			Usage:       "Base backoff between step retries (doubles per attempt)",
			Value:       time.Second,
			Sources:     cli.EnvVars("VELA_STEP_RETRY_BACKOFF"),
			Destination: &e.retryBackoff,
		},
		&cli.DurationFlag{
			Name:        "poll-interval",
			Usage:       "Interval of the sleep/cron poller",
			Value:       30 * time.Second,
			Sources:     cli.EnvVars("VELA_POLL_INTERVAL"),
			Destination: &e.pollInterval,
		},
		&cli.StringFlag{
			Name:        "digest-cron",
			Usage:       "Cron spec of the daily unseen message digest",
			Value:       "0 9 * * *",
			Sources:     cli.EnvVars("VELA_DIGEST_CRON"),
			Destination: &e.digestSpec,
		},
		&cli.StringFlag{
			Name:        "digest-timezone",
			Usage:       "IANA timezone the digest cron is evaluated in",
			Value:       "UTC",
			Sources:     cli.EnvVars("VELA_DIGEST_TIMEZONE"),
			Destination: &e.digestTimezone,
		},
	}
}

// PollInterval returns the configured poller interval.
func (e *Engine) PollInterval() time.Duration {
	return e.pollInterval
}

// DigestSchedule returns the digest cron spec and timezone.
func (e *Engine) DigestSchedule() (string, string) {
	return e.digestSpec, e.digestTimezone
}

// Options returns engine options derived from the flags.
func (e *Engine) Options() []engine.Option {
	var opts []engine.Option
	if e.maxAttempts > 0 {
		opts = append(opts, engine.WithMaxAttempts(e.maxAttempts))
	}
	if e.retryBackoff > 0 {
		opts = append(opts, engine.WithRetryBackoff(e.retryBackoff))
	}
	return opts
}
