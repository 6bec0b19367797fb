package ddb

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/pkg/errors"
)

// DynamoDBAPI is the part of the DynamoDB client used by Checkpoint.
type DynamoDBAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
}

// Option is used to override defaults when creating a new Checkpoint
type Option func(*Checkpoint)

// WithDynamoClient sets the dynamoDb client
func WithDynamoClient(svc DynamoDBAPI) Option {
	return func(c *Checkpoint) {
		c.client = svc
	}
}

// New returns a checkpoint that uses DynamoDB for underlying storage. The
// table is keyed by "namespace" (hash) and "unit" (range).
func New(appName, tableName string, opts ...Option) (*Checkpoint, error) {
	if appName == "" {
		return nil, fmt.Errorf("must provide app name")
	}
	if tableName == "" {
		return nil, fmt.Errorf("must provide table name")
	}

	ck := &Checkpoint{
		tableName: tableName,
		appName:   appName,
	}

	for _, opt := range opts {
		opt(ck)
	}

	// default client
	if ck.client == nil {
		cfg, err := config.LoadDefaultConfig(context.TODO())
		if err != nil {
			return nil, errors.Wrap(err, "load aws config")
		}
		ck.client = dynamodb.NewFromConfig(cfg)
	}

	return ck, nil
}

// Checkpoint stores the last value written for each unit of a pipeline in DynamoDB
type Checkpoint struct {
	tableName string
	appName   string
	client    DynamoDBAPI
}

type item struct {
	Namespace string `dynamodbav:"namespace"`
	Unit      string `dynamodbav:"unit"`
	Value     string `dynamodbav:"value"`
}

// GetCheckpoint returns the stored value for a unit, or "" when none exists.
func (c *Checkpoint) GetCheckpoint(pipeline, unit string) (string, error) {
	params := &dynamodb.GetItemInput{
		TableName:      aws.String(c.tableName),
		ConsistentRead: aws.Bool(true),
		Key: map[string]types.AttributeValue{
			"namespace": &types.AttributeValueMemberS{
				Value: c.namespace(pipeline),
			},
			"unit": &types.AttributeValueMemberS{
				Value: unit,
			},
		},
	}

	resp, err := c.client.GetItem(context.Background(), params)
	if err != nil {
		return "", errors.Wrap(err, "dynamodb get item")
	}
	if len(resp.Item) == 0 {
		return "", nil
	}

	var i item
	if err := attributevalue.UnmarshalMap(resp.Item, &i); err != nil {
		return "", errors.Wrap(err, "unmarshal item")
	}
	return i.Value, nil
}

// SetCheckpoint stores the value for a unit, replacing any previous one.
func (c *Checkpoint) SetCheckpoint(pipeline, unit, value string) error {
	if value == "" {
		return fmt.Errorf("checkpoint value should not be empty")
	}

	av, err := attributevalue.MarshalMap(item{
		Namespace: c.namespace(pipeline),
		Unit:      unit,
		Value:     value,
	})
	if err != nil {
		return errors.Wrap(err, "marshal item")
	}

	_, err = c.client.PutItem(context.Background(), &dynamodb.PutItemInput{
		TableName: aws.String(c.tableName),
		Item:      av,
	})
	if err != nil {
		return errors.Wrap(err, "dynamodb put item")
	}
	return nil
}

func (c *Checkpoint) namespace(pipeline string) string {
	return fmt.Sprintf("%s-%s", c.appName, pipeline)
}
