// Package models provides the decoded representation of audit-event records
// and their provenance metadata.
package models

import (
	"encoding/json"
)

// Record is a field store distinguishing "absent" from "present-but-null":
// a key set to nil holds an explicit JSON null, a missing key was never seen.
// Unrecognized fields are stored as their opaque textual representation.
type Record struct {
	fields map[string]any
}

// Set stores value under key, replacing any previous value. A nil value
// records an explicit null.
func (r *Record) Set(key string, value any) {
	if r.fields == nil {
		r.fields = make(map[string]any)
	}
	r.fields[key] = value
}

// Has reports whether key was seen, explicit nulls included.
func (r *Record) Has(key string) bool {
	_, ok := r.fields[key]
	return ok
}

// Get returns the stored value and whether the key was seen.
func (r *Record) Get(key string) (any, bool) {
	v, ok := r.fields[key]
	return v, ok
}

// Len returns the number of stored fields.
func (r *Record) Len() int {
	return len(r.fields)
}

// Fields returns a shallow copy of the stored fields.
func (r *Record) Fields() map[string]any {
	out := make(map[string]any, len(r.fields))
	for k, v := range r.fields {
		out[k] = v
	}
	return out
}

// MarshalJSON renders the record as a plain JSON object.
func (r Record) MarshalJSON() ([]byte, error) {
	if r.fields == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(r.fields)
}

// stringField returns the value under key as *string, nil when the key is
// absent, null, or not textual.
func (r *Record) stringField(key string) *string {
	v, ok := r.fields[key]
	if !ok || v == nil {
		return nil
	}
	s, ok := v.(string)
	if !ok {
		return nil
	}
	return &s
}

// boolField returns the value under key as *bool, nil when absent or null.
func (r *Record) boolField(key string) *bool {
	v, ok := r.fields[key]
	if !ok || v == nil {
		return nil
	}
	b, ok := v.(bool)
	if !ok {
		return nil
	}
	return &b
}
