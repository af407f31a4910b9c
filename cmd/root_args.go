package cmd

import (
	"time"

	"github.com/trailops/trail-ingest-app/internal/config"
	"github.com/trailops/trail-ingest-app/internal/helpers"
)

var envMapString = map[*string]boundEnvVar[string]{
	&config.Global.Mode: {
		Name:        "mode",
		Description: "The application runtime mode. Possible values are 'poller' and 'lambda'",
		Short:       helpers.Ptr("m"),
	},
	&config.Queue.URL: {
		Name:        "queue-url",
		Description: "The URL of the queue receiving log delivery notifications",
		Env:         helpers.Ptr("QUEUE_URL"),
	},
	&config.Queue.SSMKey: {
		Name:        "queue-url-ssm-key",
		Description: "The SSM parameter to read the queue URL from when --queue-url is unset",
	},
	&config.Sink.CloudEvents.Target: {
		Name:        "sink-cloudevents-target",
		Description: "The HTTP endpoint receiving decoded events as CloudEvents",
		Env:         helpers.Ptr("CLOUDEVENTS_TARGET"),
	},
	&config.Global.Metrics.Addr: {
		Name:        "metrics-addr",
		Description: "The listen address of the Prometheus metrics endpoint",
	},
	&config.Lambda.PayloadType: {
		Name:        "lambda-payload-type",
		Description: "The lambda trigger payload shape. Supported values are 'sqs' and 's3'",
	},
}

var envMapBool = map[*bool]boundEnvVar[bool]{
	&config.Global.Logging.CallerTrace: {
		Name:        "verbosity-caller-trace",
		Description: "Enable caller trace in logs",
		Short:       helpers.Ptr("V"),
	},
	&config.Global.Metrics.Enabled: {
		Name:        "metrics",
		Description: "Enable the Prometheus metrics endpoint",
	},
	&config.Sink.Log.Enabled: {
		Name:        "sink-log",
		Description: "Enable the structured-log event sink",
	},
	&config.Sink.CloudEvents.Enabled: {
		Name:        "sink-cloudevents",
		Description: "Enable the CloudEvents event sink",
		Env:         helpers.Ptr("SINK_CLOUDEVENTS"),
	},
}

var envMapCount = map[*int]boundEnvVar[int]{
	&config.Global.Logging.Verbosity: {
		Name:        "verbosity",
		Description: "Increase logger verbosity (default WarnLevel)",
		Short:       helpers.Ptr("v"),
	},
}

var envMapDuration = map[*time.Duration]boundEnvVar[time.Duration]{
	&config.Queue.WaitTime: {
		Name:        "queue-wait-time",
		Description: "The long-poll duration for queue receive calls",
	},
}
