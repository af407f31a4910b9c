// Package serializer implements the single-pass, pull-based decoder for
// wrapped-array audit-log documents. One serializer owns exactly one cursor
// and must be driven from a single goroutine.
package serializer

import (
	"log/slog"
	"strconv"

	"github.com/pkg/errors"
	"github.com/trailops/trail-ingest-app/internal/cursor"
	"github.com/trailops/trail-ingest-app/internal/helpers"
	"github.com/trailops/trail-ingest-app/internal/models"
)

const (
	// recordsField names the envelope's array field.
	recordsField = "Records"
	// supportedEventVersion is the soft compatibility ceiling: records above
	// it are decoded normally but flagged in the log.
	supportedEventVersion = 1.06
)

// MetadataFactory produces the opaque provenance value attached to each
// decoded event from its [charStart, charEnd) span.
type MetadataFactory interface {
	Metadata(charStart, charEnd int64) models.EventMetadata
}

// MetadataFactoryFunc adapts a function to the MetadataFactory interface.
type MetadataFactoryFunc func(charStart, charEnd int64) models.EventMetadata

// Metadata implements MetadataFactory.
func (f MetadataFactoryFunc) Metadata(charStart, charEnd int64) models.EventMetadata {
	return f(charStart, charEnd)
}

// Option defines a function type used to configure an EventSerializer.
type Option func(*EventSerializer)

// WithLogger sets a custom slog.Logger for the serializer.
func WithLogger(logger *slog.Logger) Option {
	return func(s *EventSerializer) {
		s.logger = logger
	}
}

// EventSerializer decodes one audit-log document into a sequence of events.
type EventSerializer struct {
	cursor  *cursor.Cursor
	meta    MetadataFactory
	logger  *slog.Logger
	pending cursor.Kind
	closed  bool
}

// New builds a serializer over c and validates the document envelope,
// consuming the opening object, the records field name and the array start.
// The serializer takes ownership of the cursor; callers must Close it on
// every exit path.
func New(c *cursor.Cursor, meta MetadataFactory, opts ...Option) (*EventSerializer, error) {
	_inst := &EventSerializer{cursor: c, meta: meta}
	for _, opt := range opts {
		opt(_inst)
	}
	if _inst.logger == nil {
		_inst.logger = helpers.NewNoopLogger()
	}
	if _inst.meta == nil {
		_inst.meta = MetadataFactoryFunc(func(charStart, charEnd int64) models.EventMetadata {
			return models.LogFileMetadata{Start: charStart, End: charEnd}
		})
	}
	if err := _inst.readEnvelope(); err != nil {
		return nil, err
	}
	return _inst, nil
}

func (s *EventSerializer) readEnvelope() error {
	tok, err := s.cursor.Next()
	if err != nil {
		return errors.Wrap(err, "failed to read envelope")
	}
	if tok.Kind != cursor.KindObjectStart {
		return &MalformedEnvelopeError{Reason: "not a JSON object", Offset: s.cursor.Offset()}
	}

	tok, err = s.cursor.Next()
	if err != nil {
		return errors.Wrap(err, "failed to read envelope")
	}
	if tok.Kind != cursor.KindString || tok.Text != recordsField {
		return &MalformedEnvelopeError{Reason: "missing " + recordsField + " field", Offset: s.cursor.Offset()}
	}

	tok, err = s.cursor.Next()
	if err != nil {
		return errors.Wrap(err, "failed to read envelope")
	}
	if tok.Kind != cursor.KindArrayStart {
		return &MalformedEnvelopeError{Reason: recordsField + " is not an array", Offset: s.cursor.Offset()}
	}
	return nil
}

// HasNext advances the cursor one token and reports whether another record
// follows. It consumes a token: call it exactly once before each Next.
func (s *EventSerializer) HasNext() (bool, error) {
	if s.closed {
		return false, errors.New("serializer is closed")
	}
	tok, err := s.cursor.Next()
	if err != nil {
		return false, errors.Wrap(err, "failed to advance to next record")
	}
	s.pending = tok.Kind
	return tok.Kind == cursor.KindObjectStart || tok.Kind == cursor.KindArrayStart, nil
}

// Next decodes exactly one record into a CloudTrailEvent, recording the
// record's character span, resolving its account identifier and attaching
// metadata. HasNext must have reported true immediately before.
func (s *EventSerializer) Next() (*models.CloudTrailEvent, error) {
	if s.closed {
		return nil, errors.New("serializer is closed")
	}
	if s.pending != cursor.KindObjectStart {
		return nil, &MalformedRecordError{Expected: "record object", Offset: s.cursor.Offset()}
	}
	s.pending = cursor.KindInvalid

	// The opening brace was consumed by HasNext; the span starts at that
	// brace.
	charStart := s.cursor.Offset() - 1
	data := &models.EventData{}

	for {
		tok, err := s.cursor.Next()
		if err != nil {
			return nil, errors.Wrap(err, "failed to read record field")
		}
		if tok.Kind == cursor.KindObjectEnd {
			break
		}
		if tok.Kind != cursor.KindString {
			return nil, &MalformedRecordError{Expected: "field name", Offset: s.cursor.Offset()}
		}
		if err := s.readEventField(data, tok.Text); err != nil {
			return nil, err
		}
	}

	ResolveAccountID(data)

	charEnd := s.cursor.Offset()
	return &models.CloudTrailEvent{
		Data:     data,
		Metadata: s.meta.Metadata(charStart, charEnd),
	}, nil
}

// readEventField dispatches one top-level record field. The dispatch is
// open: unlisted field names degrade to opaque-value capture.
func (s *EventSerializer) readEventField(data *models.EventData, key string) error {
	switch key {
	case "eventVersion":
		version, err := s.nextTextValue()
		if err != nil {
			return err
		}
		s.checkEventVersion(version)
		setText(&data.Record, key, version)
		return nil
	case "userIdentity":
		return s.readUserIdentity(data)
	case "eventTime":
		text, err := s.nextTextValue()
		if err != nil {
			return err
		}
		when, err := parseEventTime(text)
		if err != nil {
			return err
		}
		if when == nil {
			data.Set(key, nil)
		} else {
			data.Set(key, *when)
		}
		return nil
	case "eventID":
		text, err := s.nextTextValue()
		if err != nil {
			return err
		}
		if text == nil {
			return &IdentifierFormatError{Text: "null", Cause: errors.New("event identifier is null")}
		}
		id, err := parseEventID(*text)
		if err != nil {
			return err
		}
		data.Set(key, id)
		return nil
	case "readOnly", "managementEvent":
		value, err := s.readOptionalBool()
		if err != nil {
			return err
		}
		if value == nil {
			data.Set(key, nil)
		} else {
			data.Set(key, *value)
		}
		return nil
	case "resources":
		return s.readResources(data)
	default:
		return s.readDefaultValue(&data.Record, key)
	}
}

// checkEventVersion applies the soft version ceiling: neither an
// above-ceiling nor an unparsable version rejects the record.
func (s *EventSerializer) checkEventVersion(version *string) {
	if version == nil {
		return
	}
	parsed, err := strconv.ParseFloat(*version, 64)
	if err != nil {
		s.logger.Warn("unparsable eventVersion", "eventVersion", *version)
		return
	}
	if parsed > supportedEventVersion {
		s.logger.Warn("eventVersion exceeds supported ceiling; record may use unrecognized semantics",
			"eventVersion", *version, "supported", supportedEventVersion)
	}
}

func (s *EventSerializer) readUserIdentity(data *models.EventData) error {
	tok, err := s.cursor.Next()
	if err != nil {
		return errors.Wrap(err, "failed to read userIdentity")
	}
	if tok.Kind == cursor.KindNull {
		data.Set("userIdentity", nil)
		return nil
	}
	if tok.Kind != cursor.KindObjectStart {
		return &MalformedRecordError{Expected: "UserIdentity object", Offset: s.cursor.Offset()}
	}

	identity := &models.UserIdentity{}
	for {
		tok, err := s.cursor.Next()
		if err != nil {
			return errors.Wrap(err, "failed to read userIdentity field")
		}
		if tok.Kind == cursor.KindObjectEnd {
			break
		}
		if tok.Kind != cursor.KindString {
			return &MalformedRecordError{Expected: "field name", Offset: s.cursor.Offset()}
		}
		key := tok.Text

		switch key {
		case "type", "principalId", "arn", "accountId", "accessKeyId", "userName", "invokedBy", "identityProvider":
			value, err := s.nextTextValue()
			if err != nil {
				return err
			}
			setText(&identity.Record, key, value)
		case "sessionContext":
			if err := s.readSessionContext(identity); err != nil {
				return err
			}
		default:
			if err := s.readDefaultValue(&identity.Record, key); err != nil {
				return err
			}
		}
	}
	data.Set("userIdentity", identity)
	return nil
}

func (s *EventSerializer) readSessionContext(identity *models.UserIdentity) error {
	tok, err := s.cursor.Next()
	if err != nil {
		return errors.Wrap(err, "failed to read sessionContext")
	}
	if tok.Kind == cursor.KindNull {
		identity.Set("sessionContext", nil)
		return nil
	}
	if tok.Kind != cursor.KindObjectStart {
		return &MalformedRecordError{Expected: "SessionContext object", Offset: s.cursor.Offset()}
	}

	sessionContext := &models.SessionContext{}
	for {
		tok, err := s.cursor.Next()
		if err != nil {
			return errors.Wrap(err, "failed to read sessionContext field")
		}
		if tok.Kind == cursor.KindObjectEnd {
			break
		}
		if tok.Kind != cursor.KindString {
			return &MalformedRecordError{Expected: "field name", Offset: s.cursor.Offset()}
		}
		key := tok.Text

		switch key {
		case "attributes":
			attributes, err := s.readAttributes()
			if err != nil {
				return err
			}
			if attributes == nil {
				sessionContext.Set(key, nil)
			} else {
				sessionContext.Set(key, attributes)
			}
		case "sessionIssuer":
			if err := s.readSessionIssuer(sessionContext); err != nil {
				return err
			}
		case "webIdFederationData":
			if err := s.readWebIdentitySessionContext(sessionContext); err != nil {
				return err
			}
		default:
			if err := s.readDefaultValue(&sessionContext.Record, key); err != nil {
				return err
			}
		}
	}
	identity.Set("sessionContext", sessionContext)
	return nil
}

func (s *EventSerializer) readSessionIssuer(sessionContext *models.SessionContext) error {
	tok, err := s.cursor.Next()
	if err != nil {
		return errors.Wrap(err, "failed to read sessionIssuer")
	}
	if tok.Kind == cursor.KindNull {
		sessionContext.Set("sessionIssuer", nil)
		return nil
	}
	if tok.Kind != cursor.KindObjectStart {
		return &MalformedRecordError{Expected: "SessionIssuer object", Offset: s.cursor.Offset()}
	}

	issuer := &models.SessionIssuer{}
	for {
		tok, err := s.cursor.Next()
		if err != nil {
			return errors.Wrap(err, "failed to read sessionIssuer field")
		}
		if tok.Kind == cursor.KindObjectEnd {
			break
		}
		if tok.Kind != cursor.KindString {
			return &MalformedRecordError{Expected: "field name", Offset: s.cursor.Offset()}
		}
		key := tok.Text

		switch key {
		case "type", "principalId", "arn", "accountId", "userName":
			value, err := s.nextTextValue()
			if err != nil {
				return err
			}
			setText(&issuer.Record, key, value)
		default:
			if err := s.readDefaultValue(&issuer.Record, key); err != nil {
				return err
			}
		}
	}
	sessionContext.Set("sessionIssuer", issuer)
	return nil
}

func (s *EventSerializer) readWebIdentitySessionContext(sessionContext *models.SessionContext) error {
	tok, err := s.cursor.Next()
	if err != nil {
		return errors.Wrap(err, "failed to read webIdFederationData")
	}
	if tok.Kind == cursor.KindNull {
		sessionContext.Set("webIdFederationData", nil)
		return nil
	}
	if tok.Kind != cursor.KindObjectStart {
		return &MalformedRecordError{Expected: "WebIdentitySessionContext object", Offset: s.cursor.Offset()}
	}

	federation := &models.WebIdentitySessionContext{}
	for {
		tok, err := s.cursor.Next()
		if err != nil {
			return errors.Wrap(err, "failed to read webIdFederationData field")
		}
		if tok.Kind == cursor.KindObjectEnd {
			break
		}
		if tok.Kind != cursor.KindString {
			return &MalformedRecordError{Expected: "field name", Offset: s.cursor.Offset()}
		}
		key := tok.Text

		switch key {
		case "attributes":
			attributes, err := s.readAttributes()
			if err != nil {
				return err
			}
			if attributes == nil {
				federation.Set(key, nil)
			} else {
				federation.Set(key, attributes)
			}
		case "federatedProvider":
			value, err := s.nextTextValue()
			if err != nil {
				return err
			}
			setText(&federation.Record, key, value)
		default:
			if err := s.readDefaultValue(&federation.Record, key); err != nil {
				return err
			}
		}
	}
	sessionContext.Set("webIdFederationData", federation)
	return nil
}

// readAttributes decodes a terminal flat string map. Values are
// unconditionally plain text; a null value degrades to the empty string.
func (s *EventSerializer) readAttributes() (map[string]string, error) {
	tok, err := s.cursor.Next()
	if err != nil {
		return nil, errors.Wrap(err, "failed to read attributes")
	}
	if tok.Kind == cursor.KindNull {
		return nil, nil
	}
	if tok.Kind != cursor.KindObjectStart {
		return nil, &MalformedRecordError{Expected: "Attributes object", Offset: s.cursor.Offset()}
	}

	attributes := make(map[string]string)
	for {
		tok, err := s.cursor.Next()
		if err != nil {
			return nil, errors.Wrap(err, "failed to read attribute")
		}
		if tok.Kind == cursor.KindObjectEnd {
			break
		}
		if tok.Kind != cursor.KindString {
			return nil, &MalformedRecordError{Expected: "field name", Offset: s.cursor.Offset()}
		}
		key := tok.Text
		value, err := s.nextTextValue()
		if err != nil {
			return nil, err
		}
		if value == nil {
			attributes[key] = ""
		} else {
			attributes[key] = *value
		}
	}
	return attributes, nil
}

func (s *EventSerializer) readResources(data *models.EventData) error {
	tok, err := s.cursor.Next()
	if err != nil {
		return errors.Wrap(err, "failed to read resources")
	}
	if tok.Kind == cursor.KindNull {
		data.Set("resources", nil)
		return nil
	}
	if tok.Kind != cursor.KindArrayStart {
		return &MalformedRecordError{Expected: "resources array", Offset: s.cursor.Offset()}
	}

	var resources []models.Resource
	for {
		tok, err := s.cursor.Next()
		if err != nil {
			return errors.Wrap(err, "failed to read resources element")
		}
		if tok.Kind == cursor.KindArrayEnd {
			break
		}
		if tok.Kind != cursor.KindObjectStart {
			return &MalformedRecordError{Expected: "Resource object", Offset: s.cursor.Offset()}
		}
		resource, err := s.readResource()
		if err != nil {
			return err
		}
		resources = append(resources, resource)
	}
	data.Set("resources", resources)
	return nil
}

// readResource decodes one resource whose opening brace is already consumed.
// Every field is captured opaquely.
func (s *EventSerializer) readResource() (models.Resource, error) {
	resource := models.Resource{}
	for {
		tok, err := s.cursor.Next()
		if err != nil {
			return resource, errors.Wrap(err, "failed to read resource field")
		}
		if tok.Kind == cursor.KindObjectEnd {
			break
		}
		if tok.Kind != cursor.KindString {
			return resource, &MalformedRecordError{Expected: "field name", Offset: s.cursor.Offset()}
		}
		if err := s.readDefaultValue(&resource.Record, tok.Text); err != nil {
			return resource, err
		}
	}
	return resource, nil
}

// Close releases the underlying cursor. It is safe to call once on every
// exit path; decode calls after Close are caller errors.
func (s *EventSerializer) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.cursor.Close()
}
