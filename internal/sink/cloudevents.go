package sink

import (
	"context"
	"log/slog"
	"time"

	cloudevents "github.com/cloudevents/sdk-go/v2"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/trailops/trail-ingest-app/internal/helpers"
	"github.com/trailops/trail-ingest-app/internal/models"
)

const (
	ceSource = "trail-ingest-app"
	ceType   = "com.trailops.audit.event"
)

// CloudEventsSink forwards each decoded event as a CloudEvent to an HTTP
// target.
type CloudEventsSink struct {
	client cloudevents.Client
	target string
	logger *slog.Logger
}

// CloudEventsOption defines a function type used to configure a
// CloudEventsSink.
type CloudEventsOption func(*CloudEventsSink)

// WithCloudEventsLogger sets a custom slog.Logger for the sink.
func WithCloudEventsLogger(logger *slog.Logger) CloudEventsOption {
	return func(s *CloudEventsSink) {
		s.logger = logger
	}
}

// NewCloudEventsSink returns a sink posting CloudEvents to target.
func NewCloudEventsSink(target string, opts ...CloudEventsOption) (*CloudEventsSink, error) {
	_inst := &CloudEventsSink{target: target}
	for _, opt := range opts {
		opt(_inst)
	}
	if _inst.logger == nil {
		_inst.logger = helpers.NewNoopLogger()
	}
	client, err := cloudevents.NewClientHTTP()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create cloudevents client")
	}
	_inst.client = client
	return _inst, nil
}

func (s *CloudEventsSink) Name() string { return "cloudevents" }

func (s *CloudEventsSink) Emit(ctx context.Context, event *models.CloudTrailEvent) error {
	ce := cloudevents.NewEvent()
	ce.SetSource(ceSource)
	ce.SetType(ceType)
	if id := event.Data.EventID(); id != nil {
		ce.SetID(id.String())
	} else {
		ce.SetID(uuid.NewString())
	}
	if when := event.Data.EventTime(); when != nil {
		ce.SetTime(*when)
	} else {
		ce.SetTime(time.Now().UTC())
	}

	payload := struct {
		Event    *models.EventData    `json:"event"`
		Metadata models.EventMetadata `json:"metadata"`
	}{Event: event.Data, Metadata: event.Metadata}
	if err := ce.SetData(cloudevents.ApplicationJSON, payload); err != nil {
		return errors.Wrap(err, "failed to encode cloudevent data")
	}

	if result := s.client.Send(cloudevents.ContextWithTarget(ctx, s.target), ce); cloudevents.IsUndelivered(result) {
		return errors.Wrapf(result, "failed to deliver cloudevent to %s", s.target)
	}
	return nil
}

func (s *CloudEventsSink) Close() error { return nil }
