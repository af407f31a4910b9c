// Package poller drives the notification queue: it long-polls for log
// delivery notifications and fans the referenced log files out to a bounded
// worker pool.
package poller

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	sqstypes "github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/trailops/trail-ingest-app/internal/helpers"
	"github.com/trailops/trail-ingest-app/internal/metrics"
	"github.com/trailops/trail-ingest-app/internal/models"
)

// Queue abstracts the notification queue operations.
type Queue interface {
	ReceiveMessages(ctx context.Context, queueURL string, maxMessages int32, wait time.Duration) ([]sqstypes.Message, error)
	DeleteMessage(ctx context.Context, queueURL string, receiptHandle *string) error
}

// ObjectProcessor handles one delivered log object.
type ObjectProcessor func(ctx context.Context, bucket, key string) error

// Option defines a function type used to configure a Poller.
type Option func(*Poller)

// WithLogger sets a custom slog.Logger for the Poller.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Poller) {
		p.logger = logger
	}
}

// WithWorkers sets the worker-pool size.
func WithWorkers(workers int) Option {
	return func(p *Poller) {
		p.workers = workers
	}
}

// WithBatchSize sets how many messages one receive call may return.
func WithBatchSize(size int32) Option {
	return func(p *Poller) {
		p.batchSize = size
	}
}

// WithWaitTime sets the long-poll duration.
func WithWaitTime(wait time.Duration) Option {
	return func(p *Poller) {
		p.wait = wait
	}
}

// Poller consumes log delivery notifications until its context is cancelled.
type Poller struct {
	queue     Queue
	queueURL  string
	process   ObjectProcessor
	logger    *slog.Logger
	workers   int
	batchSize int32
	wait      time.Duration
}

// New returns a Poller reading queueURL and handing every referenced log
// object to process.
func New(queue Queue, queueURL string, process ObjectProcessor, opts ...Option) *Poller {
	_inst := &Poller{queue: queue, queueURL: queueURL, process: process}
	for _, opt := range opts {
		opt(_inst)
	}
	if _inst.logger == nil {
		_inst.logger = helpers.NewNoopLogger()
	}
	if _inst.workers <= 0 {
		_inst.workers = 4
	}
	if _inst.batchSize <= 0 {
		_inst.batchSize = 10
	}
	if _inst.wait <= 0 {
		_inst.wait = 20 * time.Second
	}
	return _inst
}

// Run polls until ctx is cancelled, returning the context's error.
func (p *Poller) Run(ctx context.Context) error {
	jobs := make(chan sqstypes.Message, p.workers)
	var wg sync.WaitGroup
	for i := 0; i < p.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for message := range jobs {
				p.handleMessage(ctx, message)
			}
		}()
	}
	defer func() {
		close(jobs)
		wg.Wait()
	}()

	p.logger.Info("polling notification queue...", slog.Any("queueUrl", p.queueURL), slog.Any("workers", p.workers))
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		messages, err := p.queue.ReceiveMessages(ctx, p.queueURL, p.batchSize, p.wait)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			p.logger.Error("failed to receive messages", slog.Any("error", err))
			time.Sleep(time.Second)
			continue
		}
		for _, message := range messages {
			select {
			case jobs <- message:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
}

// handleMessage processes one notification. Messages referencing log files
// that fail to process stay on the queue for redelivery; unparsable
// notifications are acknowledged so they cannot poison the queue.
func (p *Poller) handleMessage(ctx context.Context, message sqstypes.Message) {
	metrics.NotificationsReceived.Inc()

	notification, err := models.ParseNotification([]byte(aws.ToString(message.Body)))
	if err != nil {
		metrics.NotificationsRejected.Inc()
		p.logger.Warn("discarding unparsable notification", slog.Any("error", err))
		p.deleteMessage(ctx, message)
		return
	}

	for _, key := range notification.S3ObjectKey {
		if err := p.process(ctx, notification.S3Bucket, key); err != nil {
			p.logger.Error("failed to process log file",
				slog.Any("bucket", notification.S3Bucket), slog.Any("key", key), slog.Any("error", err))
			return
		}
	}
	p.deleteMessage(ctx, message)
}

func (p *Poller) deleteMessage(ctx context.Context, message sqstypes.Message) {
	if err := p.queue.DeleteMessage(ctx, p.queueURL, message.ReceiptHandle); err != nil {
		p.logger.Warn("failed to acknowledge message", slog.Any("error", err))
	}
}
