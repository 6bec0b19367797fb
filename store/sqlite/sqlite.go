// Package sqlite keeps checkpoints in a local SQLite file, for single-host
// runs that want checkpoints to survive restarts without a database server.
package sqlite

import (
	"database/sql"
	"fmt"

	"github.com/pkg/errors"
	// pure Go driver registered as "sqlite"
	_ "modernc.org/sqlite"
)

const schema = `CREATE TABLE IF NOT EXISTS %s (
	namespace  TEXT NOT NULL,
	unit       TEXT NOT NULL,
	value      TEXT NOT NULL,
	updated_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
	PRIMARY KEY (namespace, unit)
)`

// Checkpoint stores the last value written for each unit of a pipeline.
type Checkpoint struct {
	appName   string
	tableName string
	db        *sql.DB
}

// New opens (or creates) the database at path and ensures the table exists.
func New(appName, tableName, path string) (*Checkpoint, error) {
	if appName == "" {
		return nil, fmt.Errorf("must provide app name")
	}
	if tableName == "" {
		return nil, fmt.Errorf("must provide table name")
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(err, "open sqlite")
	}
	// a single writer avoids SQLITE_BUSY between pooled connections
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(fmt.Sprintf(schema, tableName)); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "create checkpoint table")
	}

	return &Checkpoint{
		appName:   appName,
		tableName: tableName,
		db:        db,
	}, nil
}

// GetCheckpoint returns the stored value for a unit, or "" when none exists.
func (c *Checkpoint) GetCheckpoint(pipeline, unit string) (string, error) {
	var value string
	err := c.db.QueryRow(
		"SELECT value FROM "+c.tableName+" WHERE namespace = ? AND unit = ?",
		c.namespace(pipeline), unit,
	).Scan(&value)
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

	_, err := c.db.Exec(
		"INSERT OR REPLACE INTO "+c.tableName+" (namespace, unit, value, updated_at) VALUES (?, ?, ?, CURRENT_TIMESTAMP)",
		c.namespace(pipeline), unit, value,
	)
	if err != nil {
		return errors.Wrap(err, "upsert checkpoint")
	}
	return nil
}

// Close closes the database.
func (c *Checkpoint) Close() error {
	return c.db.Close()
}

func (c *Checkpoint) namespace(pipeline string) string {
	return fmt.Sprintf("%s-%s", c.appName, pipeline)
}
