package dao

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/haierkeys/clipbook-service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// exerciseSlotStore 对任意后端运行相同的读写用例
func exerciseSlotStore(t *testing.T, s domain.SlotStore) {
	t.Helper()
	ctx := context.Background()

	_, err := s.Get(ctx, domain.SlotNotes)
	assert.ErrorIs(t, err, domain.ErrSlotNotFound)

	require.NoError(t, s.Put(ctx, domain.SlotNotes, []byte(`[1]`)))
	got, err := s.Get(ctx, domain.SlotNotes)
	require.NoError(t, err)
	assert.Equal(t, `[1]`, string(got))

	// 覆盖写入
	require.NoError(t, s.Put(ctx, domain.SlotNotes, []byte(`[1,2]`)))
	got, err = s.Get(ctx, domain.SlotNotes)
	require.NoError(t, err)
	assert.Equal(t, `[1,2]`, string(got))

	require.NoError(t, s.Put(ctx, domain.SlotWelcomeNoteHidden, []byte(`true`)))
	require.NoError(t, s.Delete(ctx, domain.SlotNotes))
	_, err = s.Get(ctx, domain.SlotNotes)
	assert.ErrorIs(t, err, domain.ErrSlotNotFound)

	got, err = s.Get(ctx, domain.SlotWelcomeNoteHidden)
	require.NoError(t, err)
	assert.Equal(t, `true`, string(got))

	// 删除不存在的槽位不报错
	assert.NoError(t, s.Delete(ctx, "missing"))
}

func TestMemorySlotStore(t *testing.T) {
	s := NewMemorySlotStore()
	exerciseSlotStore(t, s)
	assert.NoError(t, s.Close())
}

func TestMemorySlotStoreCopiesValues(t *testing.T) {
	s := NewMemorySlotStore()
	buf := []byte("abc")
	require.NoError(t, s.Put(context.Background(), "k", buf))
	buf[0] = 'x'

	got, err := s.Get(context.Background(), "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))
}

func TestFileSlotStore(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileSlotStore(dir, "")
	require.NoError(t, err)
	exerciseSlotStore(t, s)

	raw, err := os.ReadFile(filepath.Join(dir, domain.SlotWelcomeNoteHidden+".json"))
	require.NoError(t, err)
	assert.Equal(t, "true", string(raw))
}

func TestFileSlotStoreSealed(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileSlotStore(dir, "passphrase")
	require.NoError(t, err)
	exerciseSlotStore(t, s)

	raw, err := os.ReadFile(filepath.Join(dir, domain.SlotWelcomeNoteHidden+".json"))
	require.NoError(t, err)
	assert.NotEqual(t, "true", string(raw))

	other, err := NewFileSlotStore(dir, "wrong")
	require.NoError(t, err)
	_, err = other.Get(context.Background(), domain.SlotWelcomeNoteHidden)
	assert.Error(t, err)
}

func TestFileSlotStoreRejectsTraversal(t *testing.T) {
	s, err := NewFileSlotStore(t.TempDir(), "")
	require.NoError(t, err)
	assert.Error(t, s.Put(context.Background(), "../escape", []byte("x")))
}

func TestFileSlotStoreRequiresDir(t *testing.T) {
	_, err := NewFileSlotStore("  ", "")
	assert.Error(t, err)
}

func TestBoltSlotStore(t *testing.T) {
	s, err := NewBoltSlotStore(filepath.Join(t.TempDir(), "db", "clipbook.bolt"))
	require.NoError(t, err)
	defer s.Close()
	exerciseSlotStore(t, s)
}

func TestGormSlotStoreSqlite(t *testing.T) {
	cfg := &Config{Type: TypeSqlite, Path: filepath.Join(t.TempDir(), "clipbook.db"), TablePrefix: "t_"}
	s, err := NewSlotStore(cfg, nil)
	require.NoError(t, err)
	defer s.Close()
	assert.IsType(t, &GormSlotStore{}, s)
	exerciseSlotStore(t, s)
}

func TestNewSlotStoreUnknownType(t *testing.T) {
	_, err := NewSlotStore(&Config{Type: "redis"}, nil)
	assert.Error(t, err)
}

func TestUserDialectorUnsupported(t *testing.T) {
	_, err := userDialector(&Config{Type: "oracle"})
	assert.Error(t, err)
}
