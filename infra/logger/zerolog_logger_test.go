package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZerologLoggerMethods(t *testing.T) {
	t.Setenv("APP_ENV", "dev")
	l := New("test")
	require.NotNil(t, l)
	l.Debugf("debug %d", 1)
	l.Debugw("debug", map[string]any{"k": 1})
	l.Infof("info %s", "test")
	l.Infow("info", map[string]any{"k": 2})
	l.Warnf("warn")
	l.Errorf("error")
}

func TestZerologLoggerFieldsAndLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewZerologLoggerTo(&buf, "engine", "warn")
	l.Infof("hidden")
	l.Warnf("shown %d", 7)

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)
	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	assert.Equal(t, "engine", entry["component"])
	assert.Equal(t, "shown 7", entry["message"])
	assert.Equal(t, "warn", entry["level"])
}

func TestZerologLoggerStructured(t *testing.T) {
	var buf bytes.Buffer
	l := NewZerologLoggerTo(&buf, "engine", "")
	l.Infow("selected", map[string]any{"course_id": "CS101", "score": 9.0})
	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "CS101", entry["course_id"])
	assert.Equal(t, 9.0, entry["score"])
}
