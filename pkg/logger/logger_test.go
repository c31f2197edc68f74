package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"WARN", zerolog.WarnLevel},
		{" error ", zerolog.ErrorLevel},
		{"", zerolog.InfoLevel},
		{"loud", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, parseLogLevel(tt.in), tt.in)
	}
}

func TestJSONOutputCarriesComponent(t *testing.T) {
	var buf bytes.Buffer
	log := NewLoggerWithOutput("debug", FormatJSON, false, &buf).WithComponent("rasterizer")

	log.Warn("tool %s missing", "gs")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "rasterizer", entry["component"])
	assert.Equal(t, "tool gs missing", entry["message"])
}

func TestInfoRequiresVerbose(t *testing.T) {
	var buf bytes.Buffer
	quiet := NewLoggerWithOutput("debug", FormatJSON, false, &buf)
	quiet.Info("hidden")
	assert.Empty(t, buf.String())

	loud := NewLoggerWithOutput("debug", FormatJSON, true, &buf)
	loud.Info("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestProgressSharesLogOutput(t *testing.T) {
	var buf bytes.Buffer
	log := NewLoggerWithOutput("info", FormatJSON, false, &buf).WithComponent("orchestrator")

	log.Progress("🔍", "skipped %d", 1)
	log.ProgressAlways("✅", "done in %dms", 12)

	assert.Equal(t, "✅ done in 12ms\n", buf.String())
}

func TestProgressVerbose(t *testing.T) {
	var buf bytes.Buffer
	log := NewLoggerWithOutput("info", FormatConsole, true, &buf)

	log.Progress("📄", "page %d/%d", 1, 2)
	assert.Equal(t, "📄 page 1/2\n", buf.String())
}
