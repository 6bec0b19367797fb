package postgres

import (
	"database/sql"
	"fmt"

	"github.com/pkg/errors"
	// this is the postgres package so it makes sense to be here
	_ "github.com/lib/pq"
)

const getCheckpointQuery = `SELECT value FROM %s WHERE namespace = $1 AND unit = $2`

const upsertCheckpoint = `INSERT INTO %s (namespace, unit, value, updated_at)
	VALUES ($1, $2, $3, now())
	ON CONFLICT (namespace, unit)
	DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`

// Option is used to override defaults when creating a new Checkpoint
type Option func(*Checkpoint)

// WithDB uses an existing connection pool instead of opening one
func WithDB(db *sql.DB) Option {
	return func(c *Checkpoint) {
		c.conn = db
	}
}

// Checkpoint stores the last value written for each unit of a pipeline in a
// table with a (namespace, unit) primary key:
//
//	CREATE TABLE relay_checkpoints (
//	    namespace  text NOT NULL,
//	    unit       text NOT NULL,
//	    value      text NOT NULL,
//	    updated_at timestamptz NOT NULL,
//	    PRIMARY KEY (namespace, unit)
//	);
type Checkpoint struct {
	appName   string
	tableName string
	conn      *sql.DB
}

// New returns a checkpoint that uses PostgreSQL for underlying storage
func New(appName, tableName, connectionStr string, opts ...Option) (*Checkpoint, error) {
	if appName == "" {
		return nil, fmt.Errorf("must provide app name")
	}
	if tableName == "" {
		return nil, fmt.Errorf("must provide table name")
	}

	ck := &Checkpoint{
		appName:   appName,
		tableName: tableName,
	}

	for _, opt := range opts {
		opt(ck)
	}

	if ck.conn == nil {
		conn, err := sql.Open("postgres", connectionStr)
		if err != nil {
			return nil, errors.Wrap(err, "open postgres")
		}
		ck.conn = conn
	}

	return ck, nil
}

// GetCheckpoint returns the stored value for a unit, or "" when none exists.
func (c *Checkpoint) GetCheckpoint(pipeline, unit string) (string, error) {
	var value string
	err := c.conn.QueryRow(fmt.Sprintf(getCheckpointQuery, c.tableName), c.namespace(pipeline), unit).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", errors.Wrap(err, "select checkpoint")
	}
	return value, nil
}

// SetCheckpoint stores the value for a unit, replacing any previous one.
func (c *Checkpoint) SetCheckpoint(pipeline, unit, value string) error {
	if value == "" {
		return fmt.Errorf("checkpoint value should not be empty")
	}

	_, err := c.conn.Exec(fmt.Sprintf(upsertCheckpoint, c.tableName), c.namespace(pipeline), unit, value)
	if err != nil {
		return errors.Wrap(err, "upsert checkpoint")
	}
	return nil
}

// Close releases the connection pool.
func (c *Checkpoint) Close() error {
	return c.conn.Close()
}

func (c *Checkpoint) namespace(pipeline string) string {
	return fmt.Sprintf("%s-%s", c.appName, pipeline)
}
