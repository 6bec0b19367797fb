package mysql

import (
	"fmt"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	selectQuery = "SELECT value FROM relay_checkpoints WHERE checkpoint_key = ?"
	upsertQuery = "INSERT INTO relay_checkpoints (value, checkpoint_key) VALUES (?, ?) ON DUPLICATE KEY UPDATE value = ?"
)

func newMockCheckpoint(t *testing.T) (*Checkpoint, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	c, err := New("app", "relay_checkpoints", "", WithDB(db))
	require.NoError(t, err)
	return c, mock
}

func TestNew(t *testing.T) {
	_, err := New("", "relay_checkpoints", "")
	assert.Error(t, err)

	_, err = New("app", "", "")
	assert.Error(t, err)
}

func TestCheckpoint_Key(t *testing.T) {
	c, _ := newMockCheckpoint(t)
	assert.Equal(t, "app:checkpoint:weather:New York", c.key("weather", "New York"))
}

func TestCheckpoint_GetCheckpoint(t *testing.T) {
	c, mock := newMockCheckpoint(t)

	mock.ExpectQuery(regexp.QuoteMeta(selectQuery)).
		WithArgs("app:checkpoint:weather:Chicago").
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow("weather-data/Chicago-20240501-120000.json"))

	val, err := c.GetCheckpoint("weather", "Chicago")
	require.NoError(t, err)
	assert.Equal(t, "weather-data/Chicago-20240501-120000.json", val)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckpoint_GetMissingCheckpoint(t *testing.T) {
	c, mock := newMockCheckpoint(t)

	mock.ExpectQuery(regexp.QuoteMeta(selectQuery)).
		WithArgs("app:checkpoint:weather:Chicago").
		WillReturnRows(sqlmock.NewRows([]string{"value"}))

	val, err := c.GetCheckpoint("weather", "Chicago")
	require.NoError(t, err)
	assert.Empty(t, val)
}

func TestCheckpoint_SetCheckpoint(t *testing.T) {
	c, mock := newMockCheckpoint(t)

	mock.ExpectExec(regexp.QuoteMeta(upsertQuery)).
		WithArgs("fakeKey", "app:checkpoint:weather:Chicago", "fakeKey").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, c.SetCheckpoint("weather", "Chicago", "fakeKey"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckpoint_SetCheckpointErrors(t *testing.T) {
	c, mock := newMockCheckpoint(t)

	assert.Error(t, c.SetCheckpoint("weather", "Chicago", ""), "empty value")

	mock.ExpectExec(regexp.QuoteMeta(upsertQuery)).WillReturnError(fmt.Errorf("table doesn't exist"))
	assert.Error(t, c.SetCheckpoint("weather", "Chicago", "k"))
}
