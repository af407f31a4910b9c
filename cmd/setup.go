package cmd

import (
	"github.com/pkg/errors"
	"github.com/trailops/trail-ingest-app/internal/config"
	awsctl "github.com/trailops/trail-ingest-app/internal/controllers/aws"
	"github.com/trailops/trail-ingest-app/internal/reader"
	"github.com/trailops/trail-ingest-app/internal/runtime"
	"github.com/trailops/trail-ingest-app/internal/sink"
)

// buildRuntime assembles the decode pipeline from the loaded configuration.
func buildRuntime(controller *awsctl.Controller) (*runtime.Runtime, error) {
	var sinks []sink.Sink
	if config.Sink.Log.Enabled {
		sinks = append(sinks, sink.NewLogSink(logger.With("component", "log-sink")))
	}
	if config.Sink.CloudEvents.Enabled {
		if config.Sink.CloudEvents.Target == "" {
			return nil, errors.New("cloudevents sink enabled without a target")
		}
		ceSink, err := sink.NewCloudEventsSink(config.Sink.CloudEvents.Target,
			sink.WithCloudEventsLogger(logger.With("component", "cloudevents-sink")))
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, ceSink)
	}

	rdr := reader.New(controller, reader.WithLogger(logger.With("component", "reader")))
	return runtime.NewRuntime(rdr, sinks,
		runtime.WithLogger(logger.With("component", "runtime"))), nil
}
