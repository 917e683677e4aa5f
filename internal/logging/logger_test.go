package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(Options{Format: "json", Output: zapcore.AddSync(&buf)})
	require.NoError(t, err)

	For(log, CategoryOrganize).Info("Organized", zap.Int("players", 4))
	require.NoError(t, log.Sync())

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "organize", entry["logger"])
	assert.Equal(t, "Organized", entry["msg"])
	assert.Equal(t, "info", entry["level"])
	assert.EqualValues(t, 4, entry["players"])
}

func TestNew_Levels(t *testing.T) {
	tests := []struct {
		name      string
		opts      Options
		wantDebug bool
		wantInfo  bool
	}{
		{"default", Options{}, false, true},
		{"verbose", Options{Verbose: true}, true, true},
		{"warn", Options{Level: "warn"}, false, false},
		{"verbose wins", Options{Level: "error", Verbose: true}, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.opts.Output = zapcore.AddSync(&buf)
			log, err := New(tt.opts)
			require.NoError(t, err)

			log.Debug("dbg")
			log.Info("inf")
			assert.Equal(t, tt.wantDebug, strings.Contains(buf.String(), "dbg"))
			assert.Equal(t, tt.wantInfo, strings.Contains(buf.String(), "inf"))
		})
	}
}

func TestNew_Console(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(Options{Output: zapcore.AddSync(&buf)})
	require.NoError(t, err)

	For(log, CategoryRender).Warn("Text overflows its panel", zap.Int("serial", 3))
	out := buf.String()
	assert.Contains(t, out, "WARN")
	assert.Contains(t, out, "render")
	assert.Contains(t, out, `"serial": 3`)
}

func TestNew_Rejects(t *testing.T) {
	_, err := New(Options{Format: "xml"})
	assert.Error(t, err)

	_, err = New(Options{Level: "loud"})
	assert.Error(t, err)
}

func TestFor_NilBase(t *testing.T) {
	assert.NotPanics(t, func() {
		For(nil, CategoryWatch).Info("ignored")
	})
}
