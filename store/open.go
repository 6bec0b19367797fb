// Package store selects a checkpoint backend from configuration.
package store

import (
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/pkg/errors"

	relay "github.com/alexgridx/data-relay"
	"github.com/alexgridx/data-relay/config"
	"github.com/alexgridx/data-relay/store/ddb"
	"github.com/alexgridx/data-relay/store/memory"
	"github.com/alexgridx/data-relay/store/mysql"
	"github.com/alexgridx/data-relay/store/postgres"
	"github.com/alexgridx/data-relay/store/redis"
	"github.com/alexgridx/data-relay/store/sqlite"
)

// Backend names accepted in config.Checkpoint.Store.
const (
	None     = "none"
	Memory   = "memory"
	Redis    = "redis"
	DynamoDB = "dynamodb"
	Postgres = "postgres"
	MySQL    = "mysql"
	SQLite   = "sqlite"
)

func nopClose() error { return nil }

// Open returns the configured checkpoint store and a func releasing its
// connections. The store is nil when checkpointing is disabled.
func Open(c config.Checkpoint, awsCfg aws.Config) (relay.Store, func() error, error) {
	switch c.Store {
	case "", None:
		return nil, nopClose, nil
	case Memory:
		ck, err := memory.New(c.App)
		if err != nil {
			return nil, nil, errors.Wrap(err, "memory checkpoint")
		}
		return ck, nopClose, nil
	case Redis:
		ck, err := redis.New(c.App, redis.WithAddress(c.RedisURL))
		if err != nil {
			return nil, nil, errors.Wrap(err, "redis checkpoint")
		}
		return ck, ck.Close, nil
	case DynamoDB:
		ck, err := ddb.New(c.App, c.Table, ddb.WithDynamoClient(dynamodb.NewFromConfig(awsCfg)))
		if err != nil {
			return nil, nil, errors.Wrap(err, "dynamodb checkpoint")
		}
		return ck, nopClose, nil
	case Postgres:
		ck, err := postgres.New(c.App, c.Table, c.DSN)
		if err != nil {
			return nil, nil, errors.Wrap(err, "postgres checkpoint")
		}
		return ck, ck.Close, nil
	case MySQL:
		ck, err := mysql.New(c.App, c.Table, c.DSN)
		if err != nil {
			return nil, nil, errors.Wrap(err, "mysql checkpoint")
		}
		return ck, ck.Close, nil
	case SQLite:
		ck, err := sqlite.New(c.App, c.Table, c.DSN)
		if err != nil {
			return nil, nil, errors.Wrap(err, "sqlite checkpoint")
		}
		return ck, ck.Close, nil
	default:
		return nil, nil, errors.Errorf("unknown checkpoint store %q", c.Store)
	}
}
