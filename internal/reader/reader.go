// Package reader turns one delivered log file into a stream of decoded
// events: fetch from S3, transparently decompress, decode, hand off.
package reader

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/trailops/trail-ingest-app/internal/cursor"
	"github.com/trailops/trail-ingest-app/internal/helpers"
	"github.com/trailops/trail-ingest-app/internal/metrics"
	"github.com/trailops/trail-ingest-app/internal/models"
	"github.com/trailops/trail-ingest-app/internal/serializer"
)

// ObjectFetcher abstracts log-file retrieval.
type ObjectFetcher interface {
	GetObject(ctx context.Context, bucket, key string) (io.ReadCloser, error)
}

// EventHandler consumes one decoded event. Returning an error aborts the
// current log file.
type EventHandler func(ctx context.Context, event *models.CloudTrailEvent) error

// Option defines a function type used to configure a Reader.
type Option func(*Reader)

// WithLogger sets a custom slog.Logger for the Reader.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Reader) {
		r.logger = logger
	}
}

// Reader decodes delivered log files.
type Reader struct {
	fetcher ObjectFetcher
	logger  *slog.Logger
}

// New returns a Reader fetching log files through fetcher.
func New(fetcher ObjectFetcher, opts ...Option) *Reader {
	_inst := &Reader{fetcher: fetcher}
	for _, opt := range opts {
		opt(_inst)
	}
	if _inst.logger == nil {
		_inst.logger = helpers.NewNoopLogger()
	}
	return _inst
}

// ReadObject fetches s3://bucket/key, decodes every event in it and invokes
// handle per event. It returns the number of events handled.
func (r *Reader) ReadObject(ctx context.Context, bucket, key string, handle EventHandler) (count int, err error) {
	timer := prometheus.NewTimer(metrics.LogFileDecodeDuration)
	defer timer.ObserveDuration()
	defer func() {
		if err != nil {
			metrics.LogFilesProcessed.WithLabelValues("error").Inc()
		} else {
			metrics.LogFilesProcessed.WithLabelValues("success").Inc()
		}
	}()

	body, err := r.fetcher.GetObject(ctx, bucket, key)
	if err != nil {
		return 0, err
	}
	defer func() { _ = body.Close() }()

	var stream io.Reader = body
	if strings.HasSuffix(key, ".gz") {
		gzipReader, gzErr := gzip.NewReader(body)
		if gzErr != nil {
			return 0, errors.Wrapf(gzErr, "failed to open gzip stream for s3://%s/%s", bucket, key)
		}
		defer func() { _ = gzipReader.Close() }()
		stream = gzipReader
	}

	factory := serializer.MetadataFactoryFunc(func(charStart, charEnd int64) models.EventMetadata {
		return models.LogFileMetadata{Bucket: bucket, Key: key, Start: charStart, End: charEnd}
	})

	events, err := serializer.New(cursor.New(stream), factory,
		serializer.WithLogger(r.logger.With("bucket", bucket, "key", key)))
	if err != nil {
		return 0, err
	}
	defer func() { _ = events.Close() }()

	for {
		more, err := events.HasNext()
		if err != nil {
			return count, err
		}
		if !more {
			break
		}
		event, err := events.Next()
		if err != nil {
			return count, err
		}
		metrics.EventsDecoded.Inc()
		if err := handle(ctx, event); err != nil {
			return count, err
		}
		count++
	}

	r.logger.Debug("log file decoded", slog.Any("bucket", bucket), slog.Any("key", key), slog.Any("events", count))
	return count, nil
}
