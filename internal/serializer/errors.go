package serializer

import "fmt"

// MalformedEnvelopeError reports a document that does not open with an object
// wrapping the expected records array. It is fatal to the decode session.
type MalformedEnvelopeError struct {
	Reason string
	Offset int64
}

func (e *MalformedEnvelopeError) Error() string {
	return fmt.Sprintf("malformed envelope at offset %d: %s", e.Offset, e.Reason)
}

// MalformedRecordError reports a record or nested substructure that is not
// the expected container shape. The cursor position after this error is not
// guaranteed resumable.
type MalformedRecordError struct {
	Expected string
	Offset   int64
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("malformed record at offset %d: expected %s", e.Offset, e.Expected)
}

// DateParseError reports timestamp text that does not match the fixed UTC
// layout.
type DateParseError struct {
	Text  string
	Cause error
}

func (e *DateParseError) Error() string {
	return fmt.Sprintf("cannot parse %q as event time: %v", e.Text, e.Cause)
}

func (e *DateParseError) Unwrap() error { return e.Cause }

// IdentifierFormatError reports event-identifier text that is not a valid
// UUID.
type IdentifierFormatError struct {
	Text  string
	Cause error
}

func (e *IdentifierFormatError) Error() string {
	return fmt.Sprintf("cannot parse %q as event identifier: %v", e.Text, e.Cause)
}

func (e *IdentifierFormatError) Unwrap() error { return e.Cause }
