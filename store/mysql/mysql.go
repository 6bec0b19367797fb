package mysql

import (
	"database/sql"
	"fmt"

	// registers the "mysql" driver used by New
	_ "github.com/go-sql-driver/mysql"
	"github.com/pkg/errors"
)

// Option is used to override defaults when creating a new Checkpoint
type Option func(*Checkpoint)

// WithDB uses an existing connection pool instead of opening one
func WithDB(db *sql.DB) Option {
	return func(c *Checkpoint) {
		c.db = db
	}
}

// Checkpoint stores the last value written for each unit of a pipeline in a
// table with a unique checkpoint_key column:
//
//	CREATE TABLE relay_checkpoints (
//	    checkpoint_key VARCHAR(255) NOT NULL PRIMARY KEY,
//	    value          VARCHAR(1024) NOT NULL
//	);
type Checkpoint struct {
	appName   string
	tableName string
	db        *sql.DB
}

// New returns a checkpoint that uses MySQL for underlying storage
func New(appName, tableName, dsn string, opts ...Option) (*Checkpoint, error) {
	if appName == "" {
		return nil, fmt.Errorf("must provide app name")
	}
	if tableName == "" {
		return nil, fmt.Errorf("must provide table name")
	}

	c := &Checkpoint{
		appName:   appName,
		tableName: tableName,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.db == nil {
		db, err := sql.Open("mysql", dsn)
		if err != nil {
			return nil, errors.Wrap(err, "open mysql")
		}
		c.db = db
	}

	return c, nil
}

// GetCheckpoint returns the stored value for a unit, or "" when none exists.
func (c *Checkpoint) GetCheckpoint(pipeline, unit string) (string, error) {
	row := c.db.QueryRow("SELECT value FROM "+c.tableName+" WHERE checkpoint_key = ?", c.key(pipeline, unit))

	var val string
	err := row.Scan(&val)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", errors.Wrap(err, "select checkpoint")
	}
	return val, nil
}

// SetCheckpoint stores the value for a unit, replacing any previous one.
func (c *Checkpoint) SetCheckpoint(pipeline, unit, value string) error {
	if value == "" {
		return fmt.Errorf("checkpoint value should not be empty")
	}

	_, err := c.db.Exec("INSERT INTO "+c.tableName+" (value, checkpoint_key) VALUES (?, ?) ON DUPLICATE KEY UPDATE value = ?", value, c.key(pipeline, unit), value)
	if err != nil {
		return errors.Wrap(err, "upsert checkpoint")
	}
	return nil
}

// Close releases the connection pool.
func (c *Checkpoint) Close() error {
	return c.db.Close()
}

// key generates a unique mysql key for storage of Checkpoint.
func (c *Checkpoint) key(pipeline, unit string) string {
	return fmt.Sprintf("%v:checkpoint:%v:%v", c.appName, pipeline, unit)
}
