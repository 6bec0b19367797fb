package s3

import (
	"bytes"
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/pkg/errors"

	relay "github.com/alexgridx/data-relay"
)

// PutObjectAPI is the part of the S3 client used by Writer.
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *awss3.PutObjectInput, optFns ...func(*awss3.Options)) (*awss3.PutObjectOutput, error)
}

// Option is used to override defaults when creating a new Writer
type Option func(*Writer)

// WithClient overrides the default S3 client
func WithClient(client PutObjectAPI) Option {
	return func(w *Writer) {
		w.client = client
	}
}

// Writer stores records as objects in an S3 bucket, one object per Put.
type Writer struct {
	bucket string
	client PutObjectAPI
}

// New returns a Writer for bucket. Without WithClient the client is built
// from the default AWS configuration chain.
func New(bucket string, opts ...Option) (*Writer, error) {
	if bucket == "" {
		return nil, errors.New("must provide bucket name")
	}

	w := &Writer{bucket: bucket}
	for _, opt := range opts {
		opt(w)
	}

	// default client
	if w.client == nil {
		cfg, err := config.LoadDefaultConfig(context.TODO())
		if err != nil {
			return nil, errors.Wrap(err, "load aws config")
		}
		w.client = awss3.NewFromConfig(cfg)
	}

	return w, nil
}

// Put writes body to key with the given content type.
func (w *Writer) Put(ctx context.Context, key string, body []byte, contentType string) error {
	_, err := w.client.PutObject(ctx, &awss3.PutObjectInput{
		Bucket:      aws.String(w.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return errors.Wrapf(err, "s3: put s3://%s/%s", w.bucket, key)
	}
	return nil
}

var _ relay.ObjectWriter = (*Writer)(nil)
