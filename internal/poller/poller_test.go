package poller_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	sqstypes "github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trailops/trail-ingest-app/internal/poller"
)

type fakeQueue struct {
	mu       sync.Mutex
	pending  []sqstypes.Message
	deleted  []string
	received int
}

func (q *fakeQueue) ReceiveMessages(ctx context.Context, _ string, _ int32, _ time.Duration) ([]sqstypes.Message, error) {
	q.mu.Lock()
	q.received++
	batch := q.pending
	q.pending = nil
	q.mu.Unlock()

	if len(batch) == 0 {
		// emulate an empty long poll without busy-spinning the test
		select {
		case <-ctx.Done():
		case <-time.After(5 * time.Millisecond):
		}
		return nil, ctx.Err()
	}
	return batch, nil
}

func (q *fakeQueue) DeleteMessage(_ context.Context, _ string, receiptHandle *string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.deleted = append(q.deleted, aws.ToString(receiptHandle))
	return nil
}

func (q *fakeQueue) deletedHandles() []string {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]string(nil), q.deleted...)
}

func message(receipt, body string) sqstypes.Message {
	return sqstypes.Message{ReceiptHandle: aws.String(receipt), Body: aws.String(body)}
}

type processedKey struct {
	Bucket string
	Key    string
}

func runUntil(t *testing.T, p *poller.Poller, condition func() bool) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()

	require.Eventually(t, condition, time.Second, 2*time.Millisecond)
	cancel()
	require.ErrorIs(t, <-done, context.Canceled)
}

func TestRunProcessesAndAcknowledges(t *testing.T) {
	queue := &fakeQueue{pending: []sqstypes.Message{
		message("r-1", `{"s3Bucket":"trail-logs","s3ObjectKey":["a.json.gz","b.json.gz"]}`),
	}}

	var mu sync.Mutex
	var processed []processedKey
	p := poller.New(queue, "https://sqs.test/queue", func(_ context.Context, bucket, key string) error {
		mu.Lock()
		defer mu.Unlock()
		processed = append(processed, processedKey{Bucket: bucket, Key: key})
		return nil
	}, poller.WithWorkers(2), poller.WithWaitTime(time.Millisecond))

	runUntil(t, p, func() bool { return len(queue.deletedHandles()) == 1 })

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []processedKey{
		{Bucket: "trail-logs", Key: "a.json.gz"},
		{Bucket: "trail-logs", Key: "b.json.gz"},
	}, processed)
	assert.Equal(t, []string{"r-1"}, queue.deletedHandles())
}

func TestRunDiscardsUnparsableNotification(t *testing.T) {
	queue := &fakeQueue{pending: []sqstypes.Message{
		message("r-poison", `not even json`),
	}}

	var processed int32
	p := poller.New(queue, "https://sqs.test/queue", func(context.Context, string, string) error {
		processed++
		return nil
	}, poller.WithWaitTime(time.Millisecond))

	runUntil(t, p, func() bool { return len(queue.deletedHandles()) == 1 })

	assert.Equal(t, []string{"r-poison"}, queue.deletedHandles())
	assert.Zero(t, processed)
}

func TestRunLeavesFailedWorkOnQueue(t *testing.T) {
	queue := &fakeQueue{pending: []sqstypes.Message{
		message("r-retry", `{"s3Bucket":"trail-logs","s3ObjectKey":["a.json.gz"]}`),
	}}

	var attempts int32
	var mu sync.Mutex
	p := poller.New(queue, "https://sqs.test/queue", func(context.Context, string, string) error {
		mu.Lock()
		defer mu.Unlock()
		attempts++
		return errors.New("decode failed")
	}, poller.WithWaitTime(time.Millisecond))

	runUntil(t, p, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return attempts >= 1
	})

	assert.Empty(t, queue.deletedHandles())
}
