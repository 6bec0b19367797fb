package redis

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

const localhost = "127.0.0.1:6379"

// New returns a checkpoint that uses Redis for underlying storage
func New(appName string, opts ...Option) (*Checkpoint, error) {
	if appName == "" {
		return nil, fmt.Errorf("must provide app name")
	}

	c := &Checkpoint{
		appName: appName,
		addr:    localhost,
	}

	// override defaults
	for _, opt := range opts {
		opt(c)
	}

	// default client if none provided
	if c.client == nil {
		redisOpts, err := clientOptions(c.addr)
		if err != nil {
			return nil, err
		}
		c.client = redis.NewClient(redisOpts)
	}

	// verify we can ping server
	if err := c.client.Ping(context.Background()).Err(); err != nil {
		return nil, errors.Wrap(err, "redis ping")
	}

	return c, nil
}

func clientOptions(addr string) (*redis.Options, error) {
	if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
		opts, err := redis.ParseURL(addr)
		if err != nil {
			return nil, errors.Wrap(err, "parse redis url")
		}
		return opts, nil
	}
	return &redis.Options{Addr: addr}, nil
}

// Checkpoint stores the last value written for each unit of a pipeline
type Checkpoint struct {
	appName string
	addr    string
	client  *redis.Client
}

// GetCheckpoint fetches the checkpoint for a unit. A missing key is not an error.
func (c *Checkpoint) GetCheckpoint(pipeline, unit string) (string, error) {
	val, err := c.client.Get(context.Background(), c.key(pipeline, unit)).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", errors.Wrap(err, "redis get")
	}
	return val, nil
}

// SetCheckpoint stores the value for a unit (e.g. the object key of the last
// snapshot written for a city).
func (c *Checkpoint) SetCheckpoint(pipeline, unit, value string) error {
	if value == "" {
		return fmt.Errorf("checkpoint value should not be empty")
	}
	err := c.client.Set(context.Background(), c.key(pipeline, unit), value, 0).Err()
	if err != nil {
		return errors.Wrap(err, "redis set")
	}
	return nil
}

// Close releases the underlying client.
func (c *Checkpoint) Close() error {
	return c.client.Close()
}

// key generates a unique Redis key for storage of Checkpoint.
func (c *Checkpoint) key(pipeline, unit string) string {
	return fmt.Sprintf("%v:checkpoint:%v:%v", c.appName, pipeline, unit)
}
