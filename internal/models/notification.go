package models

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// Notification is the queue message announcing newly delivered log files.
type Notification struct {
	S3Bucket    string   `json:"s3Bucket"`
	S3ObjectKey []string `json:"s3ObjectKey"`
}

// snsEnvelope is the wrapper applied when the notification transits an SNS
// topic before reaching the queue.
type snsEnvelope struct {
	Type    string `json:"Type"`
	Message string `json:"Message"`
}

// ParseNotification decodes a queue message body into a Notification,
// unwrapping an SNS envelope when present.
func ParseNotification(body []byte) (*Notification, error) {
	var envelope snsEnvelope
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Type == "Notification" && envelope.Message != "" {
		body = []byte(envelope.Message)
	}

	var notification Notification
	if err := json.Unmarshal(body, &notification); err != nil {
		return nil, errors.Wrap(err, "failed to parse log delivery notification")
	}
	if notification.S3Bucket == "" {
		return nil, errors.New("log delivery notification carries no S3 bucket")
	}
	return &notification, nil
}
