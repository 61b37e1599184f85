package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/vela-social/vela/pkg/cli/config"
	httpctrl "github.com/vela-social/vela/pkg/controller/http"
	"github.com/vela-social/vela/pkg/engine"
	"github.com/vela-social/vela/pkg/service/mail"
	"github.com/vela-social/vela/pkg/utils/logging"
	"github.com/vela-social/vela/pkg/workflow"
)

func cmdServe() *cli.Command {
	var addr string
	var baseURL string
	var webhookSecret string
	var repoCfg config.Repository
	var mailCfg config.Mail
	var engineCfg config.Engine

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("VELA_ADDR"),
			Destination: &addr,
		},
		&cli.StringFlag{
			Name:        "base-url",
			Usage:       "Base URL used in notification mail links (e.g., https://your-domain.com)",
			Sources:     cli.EnvVars("VELA_BASE_URL"),
			Destination: &baseURL,
		},
		&cli.StringFlag{
			Name:        "webhook-signing-secret",
			Usage:       "HMAC secret for identity webhook signature verification (verification is skipped when empty)",
			Category:    "Authentication",
			Sources:     cli.EnvVars("VELA_WEBHOOK_SIGNING_SECRET"),
			Destination: &webhookSecret,
		},
	}

	// Add shared config flags
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, mailCfg.Flags()...)
	flags = append(flags, engineCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server and workflow poller",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			// Initialize repository based on backend type
			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logging.Default().Error("failed to close repository", "error", err.Error())
				}
			}()

			// Configure outbound mail
			var mailer mail.Service
			if mailCfg.IsConfigured() {
				client, err := mailCfg.Configure()
				if err != nil {
					return goerr.Wrap(err, "failed to configure mail client")
				}
				mailer = client
				logging.Default().Info("SMTP mail delivery enabled")
			} else {
				mailer = mail.NewNop()
				logging.Default().Warn("SMTP host not configured, notification mail will be logged and dropped")
			}

			// Register workflows against the engine
			workflows := workflow.New(repo, mailer, workflow.WithBaseURL(baseURL))
			digestSpec, digestTZ := engineCfg.DigestSchedule()
			eng, err := engine.New(repo, workflows.Registrations(digestSpec, digestTZ), engineCfg.Options()...)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize workflow engine")
			}

			// Start the poller that wakes sleeping runs and fires cron triggers
			poller := engine.NewPoller(eng, engineCfg.PollInterval())
			if err := poller.Start(ctx); err != nil {
				return goerr.Wrap(err, "failed to start workflow poller")
			}

			// Create HTTP server
			httpOpts := []httpctrl.Options{}
			if webhookSecret != "" {
				httpOpts = append(httpOpts, httpctrl.WithSigningSecret(webhookSecret))
				logging.Default().Info("Webhook signature verification enabled")
			} else {
				logging.Default().Warn("Webhook signing secret not configured, identity webhook is unauthenticated")
			}

			httpHandler, err := httpctrl.New(eng, repo, httpOpts...)
			if err != nil {
				return goerr.Wrap(err, "failed to create http server")
			}
			server := &http.Server{
				Addr:              addr,
				Handler:           httpHandler,
				ReadHeaderTimeout: 30 * time.Second,
			}

			// Setup signal handling for graceful shutdown
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

			// Start server in goroutine
			errCh := make(chan error, 1)
			go func() {
				logging.Default().Info("Starting HTTP server", "addr", addr)
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- goerr.Wrap(err, "failed to start server")
				}
			}()

			// Wait for shutdown signal or server error
			select {
			case err := <-errCh:
				poller.Stop()
				return err
			case sig := <-sigCh:
				logging.Default().Info("Received shutdown signal", "signal", sig)

				// Stop the poller first so no new runs start during drain
				poller.Stop()

				// Create shutdown context with timeout
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()

				// Attempt graceful shutdown
				if err := server.Shutdown(shutdownCtx); err != nil {
					return goerr.Wrap(err, "failed to shutdown server gracefully")
				}

				logging.Default().Info("Server shutdown completed")
				return nil
			}
		},
	}
}
