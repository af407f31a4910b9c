package cmd

import (
	"fmt"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/trailops/trail-ingest-app/internal/config"
	awsctl "github.com/trailops/trail-ingest-app/internal/controllers/aws"
)

// cmdLambda is the command for running the app as a Lambda function.
func cmdLambda() *cobra.Command {
	return &cobra.Command{
		Use: "lambda",
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger = logger.With("mode", config.ModeLambda)

			controller, err := awsctl.NewController(
				awsctl.WithContext(cmd.Context()),
				awsctl.WithLogger(logger.With("component", "aws-controller")))
			if err != nil {
				return errors.Wrap(err, "failed to create AWS controller")
			}

			rt, err := buildRuntime(controller)
			if err != nil {
				return errors.Wrap(err, "failed to setup lambda")
			}

			logger.Info("lambda starting...", "payloadType", config.Lambda.PayloadType)
			switch config.Lambda.PayloadType {
			case "sqs":
				lambda.StartWithOptions(rt.HandleSQS, lambda.WithContext(cmd.Context()))
			case "s3":
				lambda.StartWithOptions(rt.HandleS3, lambda.WithContext(cmd.Context()))
			default:
				return fmt.Errorf("unsupported lambda payload type: %s", config.Lambda.PayloadType)
			}

			return nil
		},
	}
}
