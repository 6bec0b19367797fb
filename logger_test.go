package relay

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&buf, "warn", FormatJSON)

	l.Info().Msg("hidden")
	l.Warn().Str("city", "Accra").Msg("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"city":"Accra"`)
	assert.Contains(t, buf.String(), `"level":"warn"`)
}

func TestNewLogger_UnknownLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&buf, "loud", FormatJSON)

	l.Debug().Msg("debug")
	l.Info().Msg("info")

	assert.NotContains(t, buf.String(), `"message":"debug"`)
	assert.Contains(t, buf.String(), `"message":"info"`)
}

func TestNewLogger_Console(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&buf, "info", FormatConsole)

	l.Info().Msg("processing weather data")

	assert.Contains(t, buf.String(), "processing weather data")
	assert.NotContains(t, buf.String(), `"message"`)
}
