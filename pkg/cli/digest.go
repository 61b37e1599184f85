package cli

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/vela-social/vela/pkg/cli/config"
	"github.com/vela-social/vela/pkg/domain/model"
	"github.com/vela-social/vela/pkg/domain/types"
	"github.com/vela-social/vela/pkg/engine"
	"github.com/vela-social/vela/pkg/service/mail"
	"github.com/vela-social/vela/pkg/utils/logging"
	"github.com/vela-social/vela/pkg/workflow"
)

// cmdDigest runs the daily unseen message digest once and exits. Useful for
// operating the digest from an external scheduler instead of the built-in
// cron trigger.
func cmdDigest() *cli.Command {
	var baseURL string
	var repoCfg config.Repository
	var mailCfg config.Mail
	var engineCfg config.Engine

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "base-url",
			Usage:       "Base URL used in notification mail links",
			Sources:     cli.EnvVars("VELA_BASE_URL"),
			Destination: &baseURL,
		},
	}
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, mailCfg.Flags()...)
	flags = append(flags, engineCfg.Flags()...)

	return &cli.Command{
		Name:  "digest",
		Usage: "Send the unseen message digest once and exit",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logging.Default().Error("failed to close repository", "error", err.Error())
				}
			}()

			var mailer mail.Service
			if mailCfg.IsConfigured() {
				client, err := mailCfg.Configure()
				if err != nil {
					return goerr.Wrap(err, "failed to configure mail client")
				}
				mailer = client
			} else {
				mailer = mail.NewNop()
				logging.Default().Warn("SMTP host not configured, digest mail will be logged and dropped")
			}

			workflows := workflow.New(repo, mailer, workflow.WithBaseURL(baseURL))
			digestSpec, digestTZ := engineCfg.DigestSchedule()
			eng, err := engine.New(repo, workflows.Registrations(digestSpec, digestTZ), engineCfg.Options()...)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize workflow engine")
			}

			run, err := eng.DispatchSync(ctx, model.NewEvent(types.EventDailyDigest, nil))
			if err != nil {
				return goerr.Wrap(err, "digest run failed")
			}
			if run != nil {
				logging.Default().Info("digest run finished", "run_id", run.ID, "status", run.Status)
			}

			return nil
		},
	}
}
