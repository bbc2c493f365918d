package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func logLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestInfoEmitsJSONFields(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("info", false, &buf)

	log.Info().Str("method", "GET").Int("status", 200).Dur("duration", 150*time.Millisecond).Msg("request complete")

	entry := logLine(t, &buf)
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "request complete", entry["message"])
	assert.Equal(t, "GET", entry["method"])
	assert.Equal(t, float64(200), entry["status"])
	assert.Contains(t, entry, "time")
}

func TestErrAttachesError(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("info", false, &buf)

	log.Error().Err(errors.New("boom")).Msg("request failed")

	entry := logLine(t, &buf)
	assert.Equal(t, "error", entry["level"])
	assert.Equal(t, "boom", entry["error"])
}

func TestLevelFiltersBelowThreshold(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("warn", false, &buf)

	log.Debug().Msg("hidden")
	log.Info().Msg("hidden too")
	assert.Zero(t, buf.Len())

	log.Warn().Msg("visible")
	assert.NotZero(t, buf.Len())
}

func TestInvalidLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("loud", false, &buf)

	log.Debug().Msg("hidden")
	assert.Zero(t, buf.Len())

	log.Info().Msg("visible")
	assert.NotZero(t, buf.Len())
}

func TestWithFieldsAttachesToEveryEntry(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("info", false, &buf).WithFields(map[string]any{"component": "rest"})

	log.Info().Msg("first")

	entry := logLine(t, &buf)
	assert.Equal(t, "rest", entry["component"])
}

func TestNoOpDiscardsEverything(t *testing.T) {
	log := NoOp()

	// Must not panic; there is nothing to observe.
	log.Info().Str("k", "v").Msg("dropped")
	log.Error().Err(errors.New("x")).Msgf("dropped %d", 1)
	log.WithFields(map[string]any{"k": "v"}).Debug().Msg("dropped")
}
