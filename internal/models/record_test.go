package models_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trailops/trail-ingest-app/internal/models"
)

func TestRecordAbsentVersusNull(t *testing.T) {
	var record models.Record
	record.Set("explicit", nil)
	record.Set("present", "value")

	assert.True(t, record.Has("explicit"))
	assert.True(t, record.Has("present"))
	assert.False(t, record.Has("missing"))

	v, ok := record.Get("explicit")
	assert.True(t, ok)
	assert.Nil(t, v)

	v, ok = record.Get("present")
	assert.True(t, ok)
	assert.Equal(t, "value", v)

	_, ok = record.Get("missing")
	assert.False(t, ok)

	assert.Equal(t, 2, record.Len())
}

func TestRecordSetReplaces(t *testing.T) {
	var record models.Record
	record.Set("key", "first")
	record.Set("key", "second")

	v, _ := record.Get("key")
	assert.Equal(t, "second", v)
	assert.Equal(t, 1, record.Len())
}

func TestRecordFieldsIsACopy(t *testing.T) {
	var record models.Record
	record.Set("key", "value")

	fields := record.Fields()
	fields["key"] = "mutated"
	fields["extra"] = true

	v, _ := record.Get("key")
	assert.Equal(t, "value", v)
	assert.False(t, record.Has("extra"))
}

func TestRecordMarshalJSON(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		out, err := json.Marshal(models.Record{})
		require.NoError(t, err)
		assert.JSONEq(t, `{}`, string(out))
	})

	t.Run("explicit_null_survives", func(t *testing.T) {
		var record models.Record
		record.Set("errorCode", nil)
		record.Set("eventName", "RunInstances")

		out, err := json.Marshal(record)
		require.NoError(t, err)
		assert.JSONEq(t, `{"errorCode":null,"eventName":"RunInstances"}`, string(out))
	})
}

func TestEventDataTypedAccessorsOnAbsentFields(t *testing.T) {
	data := &models.EventData{}

	assert.Nil(t, data.EventVersion())
	assert.Nil(t, data.UserIdentity())
	assert.Nil(t, data.EventTime())
	assert.Nil(t, data.EventID())
	assert.Nil(t, data.ReadOnly())
	assert.Nil(t, data.ManagementEvent())
	assert.Nil(t, data.Resources())
	assert.Nil(t, data.RecipientAccountID())
	assert.Nil(t, data.AccountID())
}

func TestLogFileMetadataString(t *testing.T) {
	metadata := models.LogFileMetadata{Bucket: "logs", Key: "2026/08/file.json.gz", Start: 12, End: 96}
	assert.Equal(t, int64(12), metadata.CharStart())
	assert.Equal(t, int64(96), metadata.CharEnd())
	assert.Equal(t, "s3://logs/2026/08/file.json.gz [12,96)", metadata.String())
}
