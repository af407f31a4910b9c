package models

import (
	"time"

	"github.com/google/uuid"
)

// EventData is the decoded form of a single audit-event record. Recognized
// fields are stored with their coerced types; everything else is kept as
// opaque text so unrecognized schema additions survive a round trip.
type EventData struct {
	Record
}

// EventVersion returns the record's schema version text, nil when absent or
// null.
func (d *EventData) EventVersion() *string { return d.stringField("eventVersion") }

// UserIdentity returns the decoded identity descriptor, nil when absent or
// null.
func (d *EventData) UserIdentity() *UserIdentity {
	v, ok := d.Get("userIdentity")
	if !ok || v == nil {
		return nil
	}
	identity, _ := v.(*UserIdentity)
	return identity
}

// EventTime returns the event's timestamp in UTC, nil when absent or null.
func (d *EventData) EventTime() *time.Time {
	v, ok := d.Get("eventTime")
	if !ok || v == nil {
		return nil
	}
	t, ok := v.(time.Time)
	if !ok {
		return nil
	}
	return &t
}

// EventID returns the record's unique identifier, nil when absent.
func (d *EventData) EventID() *uuid.UUID {
	v, ok := d.Get("eventID")
	if !ok || v == nil {
		return nil
	}
	id, ok := v.(uuid.UUID)
	if !ok {
		return nil
	}
	return &id
}

// ReadOnly reports whether the event was read-only; nil when absent or null.
func (d *EventData) ReadOnly() *bool { return d.boolField("readOnly") }

// ManagementEvent reports whether the event is a management event; nil when
// absent or null.
func (d *EventData) ManagementEvent() *bool { return d.boolField("managementEvent") }

// Resources returns the resources touched by the event, nil when absent or
// null.
func (d *EventData) Resources() []Resource {
	v, ok := d.Get("resources")
	if !ok || v == nil {
		return nil
	}
	resources, _ := v.([]Resource)
	return resources
}

// RecipientAccountID returns the account that received the event, nil when
// absent or null. The field arrives through the opaque-value path.
func (d *EventData) RecipientAccountID() *string { return d.stringField("recipientAccountId") }

// AccountID returns the derived effective account identifier. It is only ever
// written by account resolution, never verbatim from the document.
func (d *EventData) AccountID() *string { return d.stringField("accountId") }

// CloudTrailEvent pairs one decoded record with the provenance metadata
// produced for its character span.
type CloudTrailEvent struct {
	Data     *EventData
	Metadata EventMetadata
}
