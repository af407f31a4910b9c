// Package aws provides the Controller struct that wraps AWS services and
// provides the S3, SQS and SSM functionality the ingestion pipeline needs,
// with context and logging support.
package aws

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	sqstypes "github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/smithy-go/logging"
	"github.com/pkg/errors"
	"github.com/trailops/trail-ingest-app/internal/helpers"
)

// Controller wraps the AWS clients used by the ingestion pipeline: S3 for
// log-file retrieval, SQS for delivery notifications and SSM for parameter
// indirection.
type Controller struct {
	ctx    context.Context
	logger *slog.Logger

	config    *aws.Config
	s3Client  *s3.Client
	sqsClient *sqs.Client
	ssmClient *ssm.Client
}

// Option defines a function type used to configure an instance of the
// Controller struct.
type Option func(*Controller)

// NewController initializes a Controller with customizable options and
// default configurations if unspecified. It returns an instance of the
// Controller struct and an error if any required initialization steps fail.
func NewController(opts ...Option) (*Controller, error) {
	_inst := &Controller{}
	for _, opt := range opts {
		opt(_inst)
	}
	if _inst.logger == nil {
		_inst.logger = helpers.NewNoopLogger()
	}
	_inst.logger = _inst.logger.With("controller", "aws")
	if _inst.ctx == nil {
		_inst.ctx = context.Background()
	}
	if _inst.config == nil {
		_inst.logger.Debug("loading default AWS configuration...")
		cfg, err := config.LoadDefaultConfig(_inst.ctx)
		if err != nil {
			return nil, errors.Wrap(err, "failed to load AWS configuration")
		}
		cfg.Logger = newAWSLogger(_inst.logger)
		_inst.config = &cfg
	}

	_inst.s3Client = s3.NewFromConfig(*_inst.config)
	_inst.sqsClient = sqs.NewFromConfig(*_inst.config)
	_inst.ssmClient = ssm.NewFromConfig(*_inst.config)
	return _inst, nil
}

// GetSecret retrieves a value from SSM Parameter Store using the provided
// key. If encrypted is true, the value is returned decrypted.
func (a *Controller) GetSecret(key string, encrypted bool) (*string, error) {
	a.logger.With("key", key).Debug("fetching SSM parameter...")
	ssmResponse, err := a.ssmClient.GetParameter(a.ctx, &ssm.GetParameterInput{
		Name:           aws.String(key),
		WithDecryption: aws.Bool(encrypted),
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to load SSM parameter")
	}
	return ssmResponse.Parameter.Value, nil
}

// GetObject streams the body of an S3 object. The caller owns the returned
// reader and must close it.
func (a *Controller) GetObject(ctx context.Context, bucket, key string) (io.ReadCloser, error) {
	a.logger.Debug("fetching S3 object...", slog.Any("bucket", bucket), slog.Any("key", key))
	response, err := a.s3Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get s3://%s/%s", bucket, key)
	}
	return response.Body, nil
}

// ReceiveMessages long-polls the notification queue for up to wait, returning
// at most maxMessages messages.
func (a *Controller) ReceiveMessages(ctx context.Context, queueURL string, maxMessages int32, wait time.Duration) ([]sqstypes.Message, error) {
	response, err := a.sqsClient.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
		QueueUrl:            aws.String(queueURL),
		MaxNumberOfMessages: maxMessages,
		WaitTimeSeconds:     int32(wait / time.Second),
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to receive messages")
	}
	return response.Messages, nil
}

// DeleteMessage acknowledges a processed notification.
func (a *Controller) DeleteMessage(ctx context.Context, queueURL string, receiptHandle *string) error {
	_, err := a.sqsClient.DeleteMessage(ctx, &sqs.DeleteMessageInput{
		QueueUrl:      aws.String(queueURL),
		ReceiptHandle: receiptHandle,
	})
	return errors.Wrap(err, "failed to delete message")
}

type awsLogger struct {
	logger *slog.Logger
}

func newAWSLogger(logger *slog.Logger) *awsLogger {
	return &awsLogger{logger}
}
func (a *awsLogger) Logf(classification logging.Classification, format string, args ...any) {
	a.logger.Debug(fmt.Sprintf("[%v] %s", classification, fmt.Sprintf(format, args...)))
}
