package serializer

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/trailops/trail-ingest-app/internal/cursor"
	"github.com/trailops/trail-ingest-app/internal/models"
)

// eventTimeLayout is the single fixed UTC timestamp format used by eventTime.
const eventTimeLayout = time.RFC3339

// nextTextValue consumes exactly one value token: text for scalars, nil for
// null. A container start is a malformed record, not a silent misalignment.
func (s *EventSerializer) nextTextValue() (*string, error) {
	tok, err := s.cursor.Next()
	if err != nil {
		return nil, errors.Wrap(err, "failed to read text value")
	}
	switch tok.Kind {
	case cursor.KindString, cursor.KindNumber, cursor.KindBool:
		text := tok.Text
		return &text, nil
	case cursor.KindNull:
		return nil, nil
	default:
		return nil, &MalformedRecordError{Expected: "scalar value", Offset: s.cursor.Offset()}
	}
}

// readOptionalBool consumes exactly one token: nil for null, otherwise the
// boolean value.
func (s *EventSerializer) readOptionalBool() (*bool, error) {
	tok, err := s.cursor.Next()
	if err != nil {
		return nil, errors.Wrap(err, "failed to read boolean value")
	}
	switch tok.Kind {
	case cursor.KindNull:
		return nil, nil
	case cursor.KindBool:
		value := tok.Text == "true"
		return &value, nil
	default:
		return nil, &MalformedRecordError{Expected: "boolean or null", Offset: s.cursor.Offset()}
	}
}

// readDefaultValue captures the next value for an unrecognized field: null
// stays null, nested shapes are serialized to canonical text, scalars keep
// their textual form.
func (s *EventSerializer) readDefaultValue(record *models.Record, key string) error {
	raw, err := s.cursor.CaptureRaw()
	if err != nil {
		return errors.Wrapf(err, "failed to capture value of field %q", key)
	}
	text, err := rawToText(raw)
	if err != nil {
		return errors.Wrapf(err, "failed to render value of field %q", key)
	}
	setText(record, key, text)
	return nil
}

func rawToText(raw json.RawMessage) (*string, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, errors.New("empty JSON value")
	}
	if bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}
	if trimmed[0] == '"' {
		var text string
		if err := json.Unmarshal(trimmed, &text); err != nil {
			return nil, err
		}
		return &text, nil
	}
	text := string(trimmed)
	return &text, nil
}

// setText stores a nullable textual value, preserving explicit nulls.
func setText(record *models.Record, key string, value *string) {
	if value == nil {
		record.Set(key, nil)
		return
	}
	record.Set(key, *value)
}

// parseEventTime coerces timestamp text into a UTC instant. Null text yields
// a nil instant without error.
func parseEventTime(text *string) (*time.Time, error) {
	if text == nil {
		return nil, nil
	}
	t, err := time.Parse(eventTimeLayout, *text)
	if err != nil {
		return nil, &DateParseError{Text: *text, Cause: err}
	}
	utc := t.UTC()
	return &utc, nil
}

// parseEventID coerces identifier text into a UUID. Callers guarantee the
// text is non-null.
func parseEventID(text string) (uuid.UUID, error) {
	id, err := uuid.Parse(text)
	if err != nil {
		return uuid.Nil, &IdentifierFormatError{Text: text, Cause: err}
	}
	return id, nil
}
