package s3

import (
	"context"
	"fmt"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type s3ClientMock struct {
	putObjectMock func(ctx context.Context, params *awss3.PutObjectInput, optFns ...func(*awss3.Options)) (*awss3.PutObjectOutput, error)
}

func (c *s3ClientMock) PutObject(ctx context.Context, params *awss3.PutObjectInput, optFns ...func(*awss3.Options)) (*awss3.PutObjectOutput, error) {
	return c.putObjectMock(ctx, params, optFns...)
}

func TestNew(t *testing.T) {
	_, err := New("", WithClient(&s3ClientMock{}))
	assert.Error(t, err)

	w, err := New("my-bucket", WithClient(&s3ClientMock{}))
	require.NoError(t, err)
	assert.Equal(t, "my-bucket", w.bucket)
}

func TestWriter_Put(t *testing.T) {
	var (
		input *awss3.PutObjectInput
		body  []byte
	)
	client := &s3ClientMock{
		putObjectMock: func(ctx context.Context, params *awss3.PutObjectInput, optFns ...func(*awss3.Options)) (*awss3.PutObjectOutput, error) {
			input = params
			body, _ = io.ReadAll(params.Body)
			return &awss3.PutObjectOutput{}, nil
		},
	}

	w, err := New("weather-bucket", WithClient(client))
	require.NoError(t, err)

	err = w.Put(context.Background(), "weather-data/New-York-20240501-120000.json", []byte(`{"city":"New York"}`), "application/json")
	require.NoError(t, err)

	assert.Equal(t, "weather-bucket", aws.ToString(input.Bucket))
	assert.Equal(t, "weather-data/New-York-20240501-120000.json", aws.ToString(input.Key))
	assert.Equal(t, "application/json", aws.ToString(input.ContentType))
	assert.Equal(t, `{"city":"New York"}`, string(body))
}

func TestWriter_PutError(t *testing.T) {
	client := &s3ClientMock{
		putObjectMock: func(ctx context.Context, params *awss3.PutObjectInput, optFns ...func(*awss3.Options)) (*awss3.PutObjectOutput, error) {
			return nil, fmt.Errorf("AccessDenied")
		},
	}

	w, err := New("weather-bucket", WithClient(client))
	require.NoError(t, err)

	err = w.Put(context.Background(), "k.json", nil, "application/json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "s3://weather-bucket/k.json")
	assert.Contains(t, err.Error(), "AccessDenied")
}
