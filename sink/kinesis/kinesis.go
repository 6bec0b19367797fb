package kinesis

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	awskinesis "github.com/aws/aws-sdk-go-v2/service/kinesis"
	"github.com/pkg/errors"

	relay "github.com/alexgridx/data-relay"
)

// maxPartitionKeyLen is the Kinesis limit on partition keys, in unicode characters.
const maxPartitionKeyLen = 256

// PutRecordAPI is the part of the Kinesis client used by Writer.
type PutRecordAPI interface {
	PutRecord(ctx context.Context, params *awskinesis.PutRecordInput, optFns ...func(*awskinesis.Options)) (*awskinesis.PutRecordOutput, error)
}

// Option is used to override defaults when creating a new Writer
type Option func(*Writer)

// WithClient overrides the default Kinesis client
func WithClient(client PutRecordAPI) Option {
	return func(w *Writer) {
		w.client = client
	}
}

// Writer puts each record onto a Kinesis stream. The object key is used as
// the partition key and travels with the record, so snapshots of one city land
// on the same shard in order.
type Writer struct {
	streamName string
	client     PutRecordAPI
}

// New returns a Writer for streamName. Without WithClient the client is
// built from the default AWS configuration chain.
func New(streamName string, opts ...Option) (*Writer, error) {
	if streamName == "" {
		return nil, errors.New("must provide stream name")
	}

	w := &Writer{streamName: streamName}
	for _, opt := range opts {
		opt(w)
	}

	// default client
	if w.client == nil {
		cfg, err := config.LoadDefaultConfig(context.TODO())
		if err != nil {
			return nil, errors.Wrap(err, "load aws config")
		}
		w.client = awskinesis.NewFromConfig(cfg)
	}

	return w, nil
}

// Put sends body as a single record. Kinesis records carry no content type,
// so contentType is not forwarded.
func (w *Writer) Put(ctx context.Context, key string, body []byte, contentType string) error {
	_, err := w.client.PutRecord(ctx, &awskinesis.PutRecordInput{
		StreamName:   aws.String(w.streamName),
		PartitionKey: aws.String(partitionKey(key)),
		Data:         body,
	})
	if err != nil {
		return errors.Wrapf(err, "kinesis: put record %s", key)
	}
	return nil
}

// partitionKey trims key to the Kinesis limit, keeping the tail where the
// city name and timestamp live.
func partitionKey(key string) string {
	r := []rune(key)
	if len(r) <= maxPartitionKeyLen {
		return key
	}
	return string(r[len(r)-maxPartitionKeyLen:])
}

var _ relay.ObjectWriter = (*Writer)(nil)
