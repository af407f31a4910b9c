package reader_test

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trailops/trail-ingest-app/internal/models"
	"github.com/trailops/trail-ingest-app/internal/reader"
)

type fakeFetcher struct {
	objects map[string][]byte
}

func (f *fakeFetcher) GetObject(_ context.Context, bucket, key string) (io.ReadCloser, error) {
	body, ok := f.objects[bucket+"/"+key]
	if !ok {
		return nil, errors.Errorf("no such object s3://%s/%s", bucket, key)
	}
	return io.NopCloser(bytes.NewReader(body)), nil
}

func gzipped(t *testing.T, doc string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	_, err := w.Write([]byte(doc))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

const logFile = `{"Records":[
	{"eventName":"RunInstances","recipientAccountId":"111111111111"},
	{"eventName":"DescribeInstances","recipientAccountId":"111111111111"}
]}`

func TestReadObject(t *testing.T) {
	fetcher := &fakeFetcher{objects: map[string][]byte{
		"trail-logs/plain.json":   []byte(logFile),
		"trail-logs/file.json.gz": gzipped(t, logFile),
	}}
	r := reader.New(fetcher)

	for _, key := range []string{"plain.json", "file.json.gz"} {
		t.Run(key, func(t *testing.T) {
			var events []*models.CloudTrailEvent
			count, err := r.ReadObject(context.Background(), "trail-logs", key,
				func(_ context.Context, event *models.CloudTrailEvent) error {
					events = append(events, event)
					return nil
				})
			require.NoError(t, err)
			assert.Equal(t, 2, count)
			require.Len(t, events, 2)

			name, ok := events[0].Data.Get("eventName")
			require.True(t, ok)
			assert.Equal(t, "RunInstances", name)
			require.NotNil(t, events[1].Data.AccountID())
			assert.Equal(t, "111111111111", *events[1].Data.AccountID())

			metadata, ok := events[0].Metadata.(models.LogFileMetadata)
			require.True(t, ok)
			assert.Equal(t, "trail-logs", metadata.Bucket)
			assert.Equal(t, key, metadata.Key)
			assert.Less(t, metadata.Start, metadata.End)
		})
	}
}

func TestReadObjectMissing(t *testing.T) {
	r := reader.New(&fakeFetcher{objects: map[string][]byte{}})

	count, err := r.ReadObject(context.Background(), "trail-logs", "absent.json",
		func(context.Context, *models.CloudTrailEvent) error { return nil })
	assert.Error(t, err)
	assert.Zero(t, count)
}

func TestReadObjectCorruptGzip(t *testing.T) {
	r := reader.New(&fakeFetcher{objects: map[string][]byte{
		"trail-logs/broken.json.gz": []byte("certainly not gzip"),
	}})

	_, err := r.ReadObject(context.Background(), "trail-logs", "broken.json.gz",
		func(context.Context, *models.CloudTrailEvent) error { return nil })
	assert.Error(t, err)
}

func TestReadObjectHandlerErrorAborts(t *testing.T) {
	fetcher := &fakeFetcher{objects: map[string][]byte{
		"trail-logs/plain.json": []byte(logFile),
	}}
	r := reader.New(fetcher)

	sentinel := errors.New("downstream full")
	count, err := r.ReadObject(context.Background(), "trail-logs", "plain.json",
		func(context.Context, *models.CloudTrailEvent) error { return sentinel })
	assert.ErrorIs(t, err, sentinel)
	assert.Zero(t, count)
}
