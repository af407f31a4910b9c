// Package sink delivers decoded events to downstream consumers.
package sink

import (
	"context"
	"log/slog"

	"github.com/trailops/trail-ingest-app/internal/metrics"
	"github.com/trailops/trail-ingest-app/internal/models"
)

// Sink consumes decoded events one at a time.
type Sink interface {
	Name() string
	Emit(ctx context.Context, event *models.CloudTrailEvent) error
	Close() error
}

// Emit fans one event out to every sink, recording per-sink outcomes. The
// first error aborts the fan-out.
func Emit(ctx context.Context, event *models.CloudTrailEvent, sinks ...Sink) error {
	for _, s := range sinks {
		if err := s.Emit(ctx, event); err != nil {
			metrics.EventsEmitted.WithLabelValues(s.Name(), "error").Inc()
			return err
		}
		metrics.EventsEmitted.WithLabelValues(s.Name(), "success").Inc()
	}
	return nil
}

// LogSink writes a structured summary of every event to the logger.
type LogSink struct {
	logger *slog.Logger
}

// NewLogSink returns a sink logging events at info level.
func NewLogSink(logger *slog.Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (s *LogSink) Name() string { return "log" }

func (s *LogSink) Emit(_ context.Context, event *models.CloudTrailEvent) error {
	attrs := []any{
		slog.Any("charStart", event.Metadata.CharStart()),
		slog.Any("charEnd", event.Metadata.CharEnd()),
	}
	if id := event.Data.EventID(); id != nil {
		attrs = append(attrs, slog.Any("eventID", id.String()))
	}
	if when := event.Data.EventTime(); when != nil {
		attrs = append(attrs, slog.Any("eventTime", when))
	}
	if account := event.Data.AccountID(); account != nil {
		attrs = append(attrs, slog.Any("accountId", *account))
	}
	s.logger.Info("decoded event", attrs...)
	return nil
}

func (s *LogSink) Close() error { return nil }
