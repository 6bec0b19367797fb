package sqlite

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCheckpoint(t *testing.T, path string) *Checkpoint {
	t.Helper()
	c, err := New("app", "relay_checkpoints", path)
	require.NoError(t, err)
	return c
}

func TestCheckpoint_SetAndGet(t *testing.T) {
	c := newCheckpoint(t, filepath.Join(t.TempDir(), "checkpoints.db"))
	defer c.Close()

	require.NoError(t, c.SetCheckpoint("weather", "Accra", "weather-data/Accra-20240501-120000.json"))
	require.NoError(t, c.SetCheckpoint("weather", "Accra", "weather-data/Accra-20240501-130000.json"))

	val, err := c.GetCheckpoint("weather", "Accra")
	require.NoError(t, err)
	assert.Equal(t, "weather-data/Accra-20240501-130000.json", val)

	// pipelines do not share units
	val, err = c.GetCheckpoint("fixtures", "Accra")
	require.NoError(t, err)
	assert.Empty(t, val)
}

func TestCheckpoint_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "checkpoints.db")

	c := newCheckpoint(t, path)
	require.NoError(t, c.SetCheckpoint("fixtures", "2024-05-01", "msg-1"))
	require.NoError(t, c.Close())

	c = newCheckpoint(t, path)
	defer c.Close()

	val, err := c.GetCheckpoint("fixtures", "2024-05-01")
	require.NoError(t, err)
	assert.Equal(t, "msg-1", val)
}

func TestCheckpoint_Errors(t *testing.T) {
	_, err := New("", "t", ":memory:")
	assert.Error(t, err)

	_, err = New("app", "", ":memory:")
	assert.Error(t, err)

	c := newCheckpoint(t, filepath.Join(t.TempDir(), "checkpoints.db"))
	defer c.Close()
	assert.Error(t, c.SetCheckpoint("weather", "Accra", ""))
}
