package cmd

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	internalApp "github.com/haierkeys/clipbook-service/internal/app"
	"github.com/haierkeys/clipbook-service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeListen(t *testing.T) {
	assert.Equal(t, ":9000", normalizeListen("9000"))
	assert.Equal(t, "127.0.0.1:9000", normalizeListen("127.0.0.1:9000"))
	assert.Equal(t, ":9000", normalizeListen(":9000"))
}

func TestLoadDotEnvDoesNotOverride(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(file, []byte("CLIPBOOK_TEST_A=from-file\nCLIPBOOK_TEST_B=from-file\n"), 0o600))

	t.Setenv("CLIPBOOK_TEST_A", "from-env")
	t.Setenv("CLIPBOOK_TEST_B", "")
	os.Unsetenv("CLIPBOOK_TEST_B")

	loadDotEnv(file)
	assert.Equal(t, "from-env", os.Getenv("CLIPBOOK_TEST_A"))
	assert.Equal(t, "from-file", os.Getenv("CLIPBOOK_TEST_B"))

	loadDotEnv(filepath.Join(dir, "missing.env"))
}

func TestResolveConfigPathCreatesDefault(t *testing.T) {
	t.Chdir(t.TempDir())
	prev := configDefault
	configDefault = "server:\n  http-port: \":9100\"\n"
	t.Cleanup(func() { configDefault = prev })

	p, err := resolveConfigPath(false)
	require.NoError(t, err)
	assert.Equal(t, "config/config.yaml", p)
	_, err = os.Stat(p)
	assert.True(t, os.IsNotExist(err))

	p, err = resolveConfigPath(true)
	require.NoError(t, err)
	raw, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.Equal(t, configDefault, string(raw))

	require.NoError(t, os.WriteFile("config.yaml", []byte("{}"), 0o600))
	p, err = resolveConfigPath(true)
	require.NoError(t, err)
	assert.Equal(t, "config.yaml", p)
}

func TestOpenLocalAppWithMemoryStore(t *testing.T) {
	t.Chdir(t.TempDir())
	require.NoError(t, os.WriteFile("clipbook.yaml", []byte(`
storage:
  type: memory
backup:
  enabled: false
`), 0o600))

	err := withLocalApp(context.Background(), "clipbook.yaml", func(ctx context.Context, a *internalApp.App) error {
		notes := a.NoteService.List(ctx, domain.DefaultNoteQuery())
		assert.Len(t, notes, 3)
		return nil
	})
	require.NoError(t, err)
}

func TestRenderNote(t *testing.T) {
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	n := &domain.Note{ID: "n1", Title: "Groceries", Content: "milk\neggs", Tags: []string{"home", "list"}, CreatedAt: at, UpdatedAt: at}
	out := renderNote(n)
	assert.Contains(t, out, "Groceries")
	assert.Contains(t, out, "#home #list")
	assert.True(t, strings.HasSuffix(out, "milk\neggs"))

	n.Title = ""
	assert.Contains(t, renderNote(n), "(untitled)")
}

func TestRenderNoteTable(t *testing.T) {
	assert.Contains(t, renderNoteTable(nil), "no notes")

	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	out := renderNoteTable([]domain.Note{
		{ID: "note-1", Title: "First", Tags: []string{"a"}, UpdatedAt: at},
		{ID: "note-2", Title: strings.Repeat("x", 80), UpdatedAt: at},
	})
	assert.Contains(t, out, "TITLE")
	assert.Contains(t, out, "note-1")
	assert.Contains(t, out, "First")
	assert.Contains(t, out, strings.Repeat("x", 39)+"…")
	assert.NotContains(t, out, strings.Repeat("x", 41))
}

func TestTruncateRunes(t *testing.T) {
	assert.Equal(t, "abc", truncateRunes("abc", 3))
	assert.Equal(t, "ab…", truncateRunes("abcd", 3))
	assert.Equal(t, "日本…", truncateRunes("日本語です", 3))
}
