package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoggerWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "app.log")

	lg, err := NewLogger(Config{Level: "info", File: path, Production: true})
	require.NoError(t, err)

	lg.Info("hello", FieldString(FieldNoteID, "note-1"))
	_ = lg.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello")
	assert.Contains(t, string(data), `"noteId":"note-1"`)
}

func TestNewLoggerRejectsBadLevel(t *testing.T) {
	_, err := NewLogger(Config{Level: "loud"})
	assert.Error(t, err)
}
