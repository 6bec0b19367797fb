package postgres

import (
	"database/sql"
	"fmt"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
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

func TestCheckpoint_GetCheckpoint(t *testing.T) {
	c, mock := newMockCheckpoint(t)

	query := regexp.QuoteMeta(fmt.Sprintf(getCheckpointQuery, "relay_checkpoints"))
	mock.ExpectQuery(query).
		WithArgs("app-weather", "Phoenix").
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow("weather-data/Phoenix-20240501-120000.json"))

	val, err := c.GetCheckpoint("weather", "Phoenix")
	require.NoError(t, err)
	assert.Equal(t, "weather-data/Phoenix-20240501-120000.json", val)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckpoint_GetMissingCheckpoint(t *testing.T) {
	c, mock := newMockCheckpoint(t)

	mock.ExpectQuery(regexp.QuoteMeta(fmt.Sprintf(getCheckpointQuery, "relay_checkpoints"))).
		WithArgs("app-fixtures", "2024-05-01").
		WillReturnError(sql.ErrNoRows)

	val, err := c.GetCheckpoint("fixtures", "2024-05-01")
	require.NoError(t, err)
	assert.Empty(t, val)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckpoint_SetCheckpoint(t *testing.T) {
	c, mock := newMockCheckpoint(t)

	mock.ExpectExec(regexp.QuoteMeta(fmt.Sprintf(upsertCheckpoint, "relay_checkpoints"))).
		WithArgs("app-fixtures", "2024-05-01", "msg-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, c.SetCheckpoint("fixtures", "2024-05-01", "msg-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckpoint_SetEmptyValue(t *testing.T) {
	c, mock := newMockCheckpoint(t)

	assert.Error(t, c.SetCheckpoint("weather", "Accra", ""))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckpoint_SetError(t *testing.T) {
	c, mock := newMockCheckpoint(t)

	mock.ExpectExec(regexp.QuoteMeta(fmt.Sprintf(upsertCheckpoint, "relay_checkpoints"))).
		WillReturnError(fmt.Errorf("relation does not exist"))

	assert.Error(t, c.SetCheckpoint("weather", "Accra", "k"))
}
