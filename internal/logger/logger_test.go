package logger

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		raw  string
		want slog.Level
	}{
		{raw: "debug", want: slog.LevelDebug},
		{raw: " WARN ", want: slog.LevelWarn},
		{raw: "warning", want: slog.LevelWarn},
		{raw: "error", want: slog.LevelError},
		{raw: "", want: slog.LevelInfo},
		{raw: "verbose", want: slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.raw))
		})
	}
}

func TestNewWithWriter_TagsServiceAndFiltersLevel(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "pibdash", "warn")

	log.Info("dropped")
	require.Zero(t, buf.Len())

	log.Warn("kept", "row", 3)
	out := buf.String()
	assert.Contains(t, out, "service=pibdash")
	assert.Contains(t, out, "msg=kept")
	assert.Contains(t, out, "row=3")
}
