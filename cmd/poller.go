package cmd

import (
	"net/http"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/trailops/trail-ingest-app/internal/config"
	awsctl "github.com/trailops/trail-ingest-app/internal/controllers/aws"
	"github.com/trailops/trail-ingest-app/internal/poller"
)

// cmdPoller is the command for running the long-lived queue poller.
func cmdPoller() *cobra.Command {
	return &cobra.Command{
		Use:     "poller",
		Aliases: []string{"p", "poll", "service"},
		PreRunE: func(_ *cobra.Command, _ []string) error {
			logger = logger.With("mode", config.ModePoller)
			logger.Info("Spawning...")
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			controller, err := awsctl.NewController(
				awsctl.WithContext(cmd.Context()),
				awsctl.WithLogger(logger.With("component", "aws-controller")))
			if err != nil {
				return errors.Wrap(err, "failed to create AWS controller")
			}

			queueURL := config.Queue.URL
			if queueURL == "" && config.Queue.SSMKey != "" {
				fetched, err := controller.GetSecret(config.Queue.SSMKey, false)
				if err != nil {
					return errors.Wrap(err, "failed to resolve queue URL from SSM")
				}
				queueURL = *fetched
			}
			if queueURL == "" {
				return errors.New("no notification queue URL configured")
			}

			rt, err := buildRuntime(controller)
			if err != nil {
				return err
			}

			if config.Global.Metrics.Enabled {
				go func() {
					mux := http.NewServeMux()
					mux.Handle("/metrics", promhttp.Handler())
					logger.Info("serving metrics...", "address", config.Global.Metrics.Addr)
					if err := http.ListenAndServe(config.Global.Metrics.Addr, mux); err != nil {
						logger.Error("metrics endpoint failed", "error", err)
					}
				}()
			}

			p := poller.New(controller, queueURL, rt.ProcessObject,
				poller.WithLogger(logger.With("component", "poller")),
				poller.WithWorkers(config.Queue.Workers),
				poller.WithBatchSize(config.Queue.BatchSize),
				poller.WithWaitTime(config.Queue.WaitTime))

			return p.Run(cmd.Context())
		},
	}
}
