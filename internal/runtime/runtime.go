// Package runtime wires the decoding pipeline to its delivery surfaces: the
// queue poller in service mode and the Lambda triggers.
package runtime

import (
	"context"
	"log/slog"

	"github.com/aws/aws-lambda-go/events"
	"github.com/trailops/trail-ingest-app/internal/helpers"
	"github.com/trailops/trail-ingest-app/internal/metrics"
	"github.com/trailops/trail-ingest-app/internal/models"
	"github.com/trailops/trail-ingest-app/internal/reader"
	"github.com/trailops/trail-ingest-app/internal/sink"
)

// Option defines a function type used to configure a Runtime.
type Option func(*Runtime)

// WithLogger sets a custom slog.Logger for the Runtime.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runtime) {
		r.logger = logger
	}
}

// Runtime routes delivered log files through the reader into the sinks.
type Runtime struct {
	reader *reader.Reader
	sinks  []sink.Sink
	logger *slog.Logger
}

// NewRuntime creates a new runtime instance.
func NewRuntime(rdr *reader.Reader, sinks []sink.Sink, opts ...Option) *Runtime {
	_inst := &Runtime{reader: rdr, sinks: sinks}
	for _, opt := range opts {
		opt(_inst)
	}
	if _inst.logger == nil {
		_inst.logger = helpers.NewNoopLogger()
	}
	return _inst
}

// ProcessObject decodes one log file and fans its events out to the sinks.
func (r *Runtime) ProcessObject(ctx context.Context, bucket, key string) error {
	count, err := r.reader.ReadObject(ctx, bucket, key, func(ctx context.Context, event *models.CloudTrailEvent) error {
		return sink.Emit(ctx, event, r.sinks...)
	})
	if err != nil {
		return err
	}
	r.logger.Info("processed log file", slog.Any("bucket", bucket), slog.Any("key", key), slog.Any("events", count))
	return nil
}

// HandleSQS is the Lambda handler for queue-delivered notifications.
func (r *Runtime) HandleSQS(ctx context.Context, event events.SQSEvent) error {
	for _, record := range event.Records {
		metrics.NotificationsReceived.Inc()
		notification, err := models.ParseNotification([]byte(record.Body))
		if err != nil {
			metrics.NotificationsRejected.Inc()
			r.logger.Warn("skipping unparsable notification", slog.Any("messageId", record.MessageId), slog.Any("error", err))
			continue
		}
		for _, key := range notification.S3ObjectKey {
			if err := r.ProcessObject(ctx, notification.S3Bucket, key); err != nil {
				return err
			}
		}
	}
	return nil
}

// HandleS3 is the Lambda handler for direct S3 event notifications.
func (r *Runtime) HandleS3(ctx context.Context, event events.S3Event) error {
	for _, record := range event.Records {
		if err := r.ProcessObject(ctx, record.S3.Bucket.Name, record.S3.Object.Key); err != nil {
			return err
		}
	}
	return nil
}

// Sinks exposes the configured sinks for shutdown.
func (r *Runtime) Sinks() []sink.Sink {
	return r.sinks
}
