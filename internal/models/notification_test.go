package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trailops/trail-ingest-app/internal/models"
)

func TestParseNotification(t *testing.T) {
	testCases := []struct {
		Name     string
		Body     string
		Expected *models.Notification
		WantErr  bool
	}{
		{
			Name: "direct",
			Body: `{"s3Bucket":"trail-logs","s3ObjectKey":["a.json.gz","b.json.gz"]}`,
			Expected: &models.Notification{
				S3Bucket:    "trail-logs",
				S3ObjectKey: []string{"a.json.gz", "b.json.gz"},
			},
		},
		{
			Name: "sns_wrapped",
			Body: `{"Type":"Notification","MessageId":"m-1","Message":"{\"s3Bucket\":\"trail-logs\",\"s3ObjectKey\":[\"a.json.gz\"]}"}`,
			Expected: &models.Notification{
				S3Bucket:    "trail-logs",
				S3ObjectKey: []string{"a.json.gz"},
			},
		},
		{
			Name:    "missing_bucket",
			Body:    `{"s3ObjectKey":["a.json.gz"]}`,
			WantErr: true,
		},
		{
			Name:    "not_json",
			Body:    `ping`,
			WantErr: true,
		},
		{
			Name:    "sns_wrapped_garbage_message",
			Body:    `{"Type":"Notification","Message":"not json"}`,
			WantErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			notification, err := models.ParseNotification([]byte(tc.Body))
			if tc.WantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.Expected, notification)
		})
	}
}
