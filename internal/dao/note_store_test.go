package dao

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/haierkeys/clipbook-service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingSlotStore struct {
	*MemorySlotStore
	putErr error
	getErr error
}

func (f *failingSlotStore) Get(ctx context.Context, slot string) ([]byte, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.MemorySlotStore.Get(ctx, slot)
}

func (f *failingSlotStore) Put(ctx context.Context, slot string, value []byte) error {
	if f.putErr != nil {
		return f.putErr
	}
	return f.MemorySlotStore.Put(ctx, slot, value)
}

func fixedClock() time.Time {
	return time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)
}

func TestLoadSeedsEmptySlotAndPersists(t *testing.T) {
	ctx := context.Background()
	slots := NewMemorySlotStore()
	store := NewNoteStore(slots, nil, WithClock(fixedClock))

	first, err := store.Load(ctx)
	require.NoError(t, err)
	require.Len(t, first, 3)
	assert.Equal(t, domain.WelcomeNoteID, first[0].ID)
	assert.Equal(t, "Welcome to ClipBook", first[0].Title)
	assert.Equal(t, "Project Ideas", first[1].Title)
	assert.Equal(t, "Meeting Notes: Q3 Planning", first[2].Title)
	assert.Equal(t, fixedClock().Add(-24*time.Hour), first[1].CreatedAt)
	assert.Equal(t, fixedClock().Add(-48*time.Hour), first[2].UpdatedAt)

	raw, err := slots.Get(ctx, domain.SlotNotes)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"id":"note-1"`)

	// 第二次加载读取已持久化的种子，而非重新生成
	later := NewNoteStore(slots, nil, WithClock(func() time.Time { return fixedClock().Add(time.Hour) }))
	second, err := later.Load(ctx)
	require.NoError(t, err)
	require.Len(t, second, 3)
	for i := range first {
		assert.Equal(t, first[i].ID, second[i].ID)
		assert.Equal(t, first[i].Content, second[i].Content)
		assert.True(t, first[i].CreatedAt.Equal(second[i].CreatedAt))
	}
}

func TestLoadCorruptSlotFallsBackToSeed(t *testing.T) {
	ctx := context.Background()
	slots := NewMemorySlotStore()
	require.NoError(t, slots.Put(ctx, domain.SlotNotes, []byte(`{not json`)))

	notes, err := NewNoteStore(slots, nil).Load(ctx)
	require.NoError(t, err)
	assert.Len(t, notes, 3)

	raw, err := slots.Get(ctx, domain.SlotNotes)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "Welcome to ClipBook")
}

func TestSaveThenLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewNoteStore(NewMemorySlotStore(), nil)
	ts := fixedClock()
	in := domain.NoteCollection{{
		ID:        "note-9",
		Title:     "T",
		Content:   "body",
		Tags:      []string{"a"},
		CreatedAt: ts,
		UpdatedAt: ts,
		History:   []domain.HistoryEntry{{Content: "old", UpdatedAt: ts.Add(-time.Minute)}},
	}}
	require.NoError(t, store.Save(ctx, in))

	out, err := store.Load(ctx)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "body", out[0].Content)
	assert.Equal(t, []string{"a"}, out[0].Tags)
	require.Len(t, out[0].History, 1)
	assert.Equal(t, "old", out[0].History[0].Content)
	assert.True(t, ts.Add(-time.Minute).Equal(out[0].History[0].UpdatedAt))
}

func TestLoadNormalizesNilSlices(t *testing.T) {
	ctx := context.Background()
	slots := NewMemorySlotStore()
	require.NoError(t, slots.Put(ctx, domain.SlotNotes, []byte(`[{"id":"note-5","title":"x","content":"","createdAt":"2024-01-01T00:00:00Z","updatedAt":"2024-01-01T00:00:00Z"}]`)))

	notes, err := NewNoteStore(slots, nil).Load(ctx)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.NotNil(t, notes[0].Tags)
	assert.NotNil(t, notes[0].History)
}

func TestSaveWrapsStorageError(t *testing.T) {
	boom := errors.New("disk full")
	store := NewNoteStore(&failingSlotStore{MemorySlotStore: NewMemorySlotStore(), putErr: boom}, nil)

	err := store.Save(context.Background(), domain.NoteCollection{})
	require.Error(t, err)
	var se *domain.StorageError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, domain.SlotNotes, se.Slot)
	assert.ErrorIs(t, err, boom)
}

func TestLoadReturnsSeedWhenSeedWriteFails(t *testing.T) {
	store := NewNoteStore(&failingSlotStore{MemorySlotStore: NewMemorySlotStore(), putErr: errors.New("ro")}, nil)
	notes, err := store.Load(context.Background())
	assert.NoError(t, err)
	assert.Len(t, notes, 3)
}

func TestLoadReadErrorFallsBackToSeedWithoutWriting(t *testing.T) {
	mem := NewMemorySlotStore()
	store := NewNoteStore(&failingSlotStore{MemorySlotStore: mem, getErr: errors.New("io")}, nil, WithClock(fixedClock))

	notes, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, SeedNotes(fixedClock()), notes)

	_, err = mem.Get(context.Background(), domain.SlotNotes)
	assert.ErrorIs(t, err, domain.ErrSlotNotFound)
}

func TestLoadWrongPassphraseKeepsSealedData(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	right, err := NewFileSlotStore(dir, "right")
	require.NoError(t, err)
	mine := domain.NoteCollection{{ID: "note-x", Title: "secret", Tags: []string{}, History: []domain.HistoryEntry{}}}
	require.NoError(t, NewNoteStore(right, nil).Save(ctx, mine))
	before, err := right.Get(ctx, domain.SlotNotes)
	require.NoError(t, err)

	wrong, err := NewFileSlotStore(dir, "wrong")
	require.NoError(t, err)
	notes, err := NewNoteStore(wrong, nil, WithClock(fixedClock)).Load(ctx)
	require.NoError(t, err)
	assert.Len(t, notes, 3)

	after, err := right.Get(ctx, domain.SlotNotes)
	require.NoError(t, err)
	assert.Equal(t, before, after)

	got, err := NewNoteStore(right, nil).Load(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "secret", got[0].Title)
}

func TestWelcomeHiddenFlag(t *testing.T) {
	ctx := context.Background()
	slots := NewMemorySlotStore()
	store := NewNoteStore(slots, nil)

	hidden, err := store.LoadWelcomeHidden(ctx)
	require.NoError(t, err)
	assert.False(t, hidden)

	require.NoError(t, store.SaveWelcomeHidden(ctx, true))
	hidden, err = store.LoadWelcomeHidden(ctx)
	require.NoError(t, err)
	assert.True(t, hidden)

	require.NoError(t, slots.Put(ctx, domain.SlotWelcomeNoteHidden, []byte("garbage")))
	hidden, err = store.LoadWelcomeHidden(ctx)
	require.NoError(t, err)
	assert.False(t, hidden)
}
