// Package main is a minimal Lambda bootstrap for queue-triggered log
// processing, for deployments that ship the function without the cli wrapper.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsctl "github.com/trailops/trail-ingest-app/internal/controllers/aws"
	"github.com/trailops/trail-ingest-app/internal/reader"
	"github.com/trailops/trail-ingest-app/internal/runtime"
	"github.com/trailops/trail-ingest-app/internal/sink"
)

func main() {
	ctx := context.Background()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		AddSource: true,
		Level:     slog.LevelDebug,
	})).With("mode", "lambda")
	logger.Info("spawned...")

	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		logger.Error("failed to load AWS configuration", slog.Any("error", err))
		os.Exit(1)
	}

	controller, err := awsctl.NewController(
		awsctl.WithContext(ctx),
		awsctl.WithConfig(&cfg),
		awsctl.WithLogger(logger.With("component", "aws-controller")))
	if err != nil {
		logger.Error("failed to create AWS controller", slog.Any("error", err))
		os.Exit(1)
	}

	rt := runtime.NewRuntime(
		reader.New(controller, reader.WithLogger(logger.With("component", "reader"))),
		[]sink.Sink{sink.NewLogSink(logger.With("component", "log-sink"))},
		runtime.WithLogger(logger.With("component", "runtime")))

	lambda.Start(rt.HandleSQS)
}
