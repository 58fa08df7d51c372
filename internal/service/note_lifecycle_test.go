package service

import (
	"strconv"
	"testing"
	"time"

	"github.com/haierkeys/clipbook-service/internal/domain"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateNotePrependsUntitled(t *testing.T) {
	clock := newStepClock()
	l := NewLifecycle(clock.Now, true)
	in := sampleCollection(2)

	out, note := l.CreateNote(in)

	require.Len(t, out, 3)
	assert.Len(t, in, 2)
	assert.Equal(t, note.ID, out[0].ID)
	assert.Equal(t, domain.UntitledNoteTitle, note.Title)
	assert.Empty(t, note.Content)
	assert.Empty(t, note.Tags)
	assert.Empty(t, note.History)
	assert.Equal(t, note.CreatedAt, note.UpdatedAt)
	assert.Equal(t, "note-"+strconv.FormatInt(note.CreatedAt.UnixMilli(), 10), note.ID)
}

func TestCreateNoteBumpsCollidingID(t *testing.T) {
	fixed := time.UnixMilli(1700000000000)
	l := NewLifecycle(func() time.Time { return fixed }, true)

	c, first := l.CreateNote(domain.NoteCollection{})
	c, second := l.CreateNote(c)

	assert.Equal(t, "note-1700000000000", first.ID)
	assert.Equal(t, "note-1700000000001", second.ID)
	assert.Len(t, c, 2)
}

func TestCreateNoteSkipsReservedID(t *testing.T) {
	fixed := time.UnixMilli(1700000000000)
	l := NewLifecycle(func() time.Time { return fixed }, true)

	_, note := l.CreateNote(domain.NoteCollection{}, "note-1700000000000", "note-1700000000001")
	assert.Equal(t, "note-1700000000002", note.ID)
}

func TestUpdateNoteMissingIDIsNoop(t *testing.T) {
	l := NewLifecycle(newStepClock().Now, true)
	in := sampleCollection(1)

	out, changed := l.UpdateNote(in, "note-404", domain.NotePatch{Content: strPtr("x")})
	assert.False(t, changed)
	assert.Equal(t, in, out)
}

func TestUpdateNoteSameContentIsNoop(t *testing.T) {
	l := NewLifecycle(newStepClock().Now, true)
	in := sampleCollection(1)

	_, changed := l.UpdateNote(in, in[0].ID, domain.NotePatch{Content: strPtr(in[0].Content)})
	assert.False(t, changed)
}

func TestUpdateNoteTitleOnlyKeepsHistory(t *testing.T) {
	l := NewLifecycle(newStepClock().Now, true)
	in := sampleCollection(1)

	out, changed := l.UpdateNote(in, in[0].ID, domain.NotePatch{Title: strPtr("new")})
	require.True(t, changed)
	assert.Equal(t, "new", out[0].Title)
	assert.Empty(t, out[0].History)
	assert.True(t, out[0].UpdatedAt.After(in[0].UpdatedAt))
}

func TestUpdateNoteTagsAreNormalized(t *testing.T) {
	l := NewLifecycle(newStepClock().Now, true)
	in := sampleCollection(1)

	out, changed := l.UpdateNote(in, in[0].ID, domain.NotePatch{SetTags: true, Tags: []string{" a ", "b", "a", ""}})
	require.True(t, changed)
	assert.Equal(t, []string{"a", "b"}, out[0].Tags)
	assert.Empty(t, in[0].Tags)
}

func TestUpdateWelcomeReadOnly(t *testing.T) {
	l := NewLifecycle(newStepClock().Now, true)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	in := domain.NoteCollection{sampleNote(domain.WelcomeNoteID, "Welcome", "hello", base)}

	_, changed := l.UpdateNote(in, domain.WelcomeNoteID, domain.NotePatch{Content: strPtr("edited")})
	assert.False(t, changed)

	_, changed = l.UpdateNote(in, domain.WelcomeNoteID, domain.NotePatch{Title: strPtr("x"), SetTags: true, Tags: []string{"t"}})
	assert.False(t, changed)

	out, changed := l.UpdateNote(in, domain.WelcomeNoteID, domain.NotePatch{SetTags: true, Tags: []string{"t"}})
	assert.True(t, changed)
	assert.Equal(t, []string{"t"}, out[0].Tags)

	_, changed = l.RenameNote(in, domain.WelcomeNoteID, "Renamed")
	assert.False(t, changed)

	writable := NewLifecycle(newStepClock().Now, false)
	out, changed = writable.UpdateNote(in, domain.WelcomeNoteID, domain.NotePatch{Content: strPtr("edited")})
	assert.True(t, changed)
	assert.Equal(t, "edited", out[0].Content)
}

// 两次内容更新产生两条历史记录，最新在前
func TestPropertyTwoUpdatesTwoHistoryEntries(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("history holds prior states newest first", prop.ForAll(
		func(a, b string) bool {
			l := NewLifecycle(newStepClock().Now, true)
			in := sampleCollection(1)
			id := in[0].ID
			original := in[0].Content
			c1, c2 := "1"+a, "2"+b

			out, ok1 := l.UpdateNote(in, id, domain.NotePatch{Content: &c1})
			out, ok2 := l.UpdateNote(out, id, domain.NotePatch{Content: &c2})
			h := out[0].History

			return ok1 && ok2 &&
				len(h) == 2 &&
				h[0].Content == c1 &&
				h[1].Content == original &&
				!h[0].UpdatedAt.Before(h[1].UpdatedAt) &&
				out[0].Content == c2 &&
				len(in[0].History) == 0
		},
		gen.AlphaString(),
		gen.AlphaString(),
	))

	properties.TestingRun(t)
}

// 回滚后再回滚回来，内容集合不变
func TestPropertyRevertRoundTrip(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	properties := gopter.NewProperties(parameters)

	properties.Property("revert twice restores content", prop.ForAll(
		func(a, b string) bool {
			l := NewLifecycle(newStepClock().Now, true)
			in := sampleCollection(1)
			id := in[0].ID
			va, vb := "a"+a, "b"+b

			c, _ := l.UpdateNote(in, id, domain.NotePatch{Content: &va})
			c, _ = l.UpdateNote(c, id, domain.NotePatch{Content: &vb})

			c, ok1, err1 := l.RevertToIndex(c, id, 0)
			if !ok1 || err1 != nil || c[0].Content != va {
				return false
			}
			c, ok2, err2 := l.RevertToIndex(c, id, 0)
			if !ok2 || err2 != nil || c[0].Content != vb {
				return false
			}

			seen := map[string]bool{c[0].Content: true}
			for _, e := range c[0].History {
				seen[e.Content] = true
			}
			return len(seen) == 3 && seen[va] && seen[vb] && seen[in[0].Content]
		},
		gen.AlphaString(),
		gen.AlphaString(),
	))

	properties.TestingRun(t)
}

func TestRevertToIndexOutOfRange(t *testing.T) {
	l := NewLifecycle(newStepClock().Now, true)
	in := sampleCollection(1)

	_, changed, err := l.RevertToIndex(in, in[0].ID, 0)
	assert.False(t, changed)
	assert.ErrorIs(t, err, domain.ErrHistoryNotFound)

	_, changed, err = l.RevertToIndex(in, "note-404", 0)
	assert.False(t, changed)
	assert.NoError(t, err)
}

func TestRevertToVersionPushesCurrentState(t *testing.T) {
	l := NewLifecycle(newStepClock().Now, true)
	in := sampleCollection(1)

	out, changed := l.RevertToVersion(in, in[0].ID, domain.HistoryEntry{Content: "old"})
	require.True(t, changed)
	assert.Equal(t, "old", out[0].Content)
	require.Len(t, out[0].History, 1)
	assert.Equal(t, in[0].Content, out[0].History[0].Content)
	assert.Equal(t, in[0].UpdatedAt, out[0].History[0].UpdatedAt)
}

// 删除非欢迎笔记后撤销，集合恢复原样
func TestPropertyDeleteUndoRestoresIndex(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	properties := gopter.NewProperties(parameters)

	properties.Property("undo(delete(c, id)) == c", prop.ForAll(
		func(n, k int) bool {
			l := NewLifecycle(newStepClock().Now, true)
			in := sampleCollection(n)
			idx := k % n
			id := in[idx].ID

			out, tomb, hide := l.DeleteNote(in, id)
			if hide || tomb == nil || len(out) != n-1 || tomb.OriginalIndex != idx {
				return false
			}
			back, ok := l.UndoDelete(out, tomb)
			if !ok || len(back) != n {
				return false
			}
			for i := range in {
				if back[i].ID != in[i].ID || back[i].Content != in[i].Content {
					return false
				}
			}
			return true
		},
		gen.IntRange(1, 8),
		gen.IntRange(0, 20),
	))

	properties.TestingRun(t)
}

func TestDeleteWelcomeNeverShrinks(t *testing.T) {
	l := NewLifecycle(newStepClock().Now, true)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	in := append(domain.NoteCollection{sampleNote(domain.WelcomeNoteID, "Welcome", "hi", base)}, sampleCollection(2)...)

	out, tomb, hide := l.DeleteNote(in, domain.WelcomeNoteID)
	assert.True(t, hide)
	assert.Nil(t, tomb)
	assert.Len(t, out, 3)
}

func TestDeleteMissingIsNoop(t *testing.T) {
	l := NewLifecycle(newStepClock().Now, true)
	in := sampleCollection(2)

	out, tomb, hide := l.DeleteNote(in, "note-404")
	assert.False(t, hide)
	assert.Nil(t, tomb)
	assert.Len(t, out, 2)
}

func TestUndoDeleteClampsIndex(t *testing.T) {
	l := NewLifecycle(newStepClock().Now, true)
	in := sampleCollection(1)
	ghost := sampleNote("note-9", "ghost", "", time.Now())

	out, ok := l.UndoDelete(in, &domain.Tombstone{Note: ghost, OriginalIndex: 7})
	require.True(t, ok)
	assert.Equal(t, []string{in[0].ID, "note-9"}, ids(out))

	_, ok = l.UndoDelete(in, nil)
	assert.False(t, ok)

	// 已存在同 ID 时不重复插入
	_, ok = l.UndoDelete(out, &domain.Tombstone{Note: ghost})
	assert.False(t, ok)
}

func TestRenameNote(t *testing.T) {
	l := NewLifecycle(newStepClock().Now, true)
	in := sampleCollection(1)
	id := in[0].ID

	_, changed := l.RenameNote(in, id, "   ")
	assert.False(t, changed)

	_, changed = l.RenameNote(in, id, " "+in[0].Title+" ")
	assert.False(t, changed)

	out, changed := l.RenameNote(in, id, "  Renamed  ")
	require.True(t, changed)
	assert.Equal(t, "Renamed", out[0].Title)
	require.Len(t, out[0].History, 1)
	assert.Equal(t, in[0].Content, out[0].History[0].Content)
	assert.Equal(t, "title "+id, in[0].Title)
}

func TestAddRemoveTag(t *testing.T) {
	l := NewLifecycle(newStepClock().Now, true)
	in := sampleCollection(1)
	id := in[0].ID

	c, changed := l.AddTag(in, id, " work ")
	require.True(t, changed)
	assert.Equal(t, []string{"work"}, c[0].Tags)

	_, changed = l.AddTag(c, id, "work")
	assert.False(t, changed)
	_, changed = l.AddTag(c, id, "  ")
	assert.False(t, changed)

	c, changed = l.AddTag(c, id, "ideas")
	require.True(t, changed)
	assert.Equal(t, []string{"work", "ideas"}, c[0].Tags)

	c, changed = l.RemoveTag(c, id, "work")
	require.True(t, changed)
	assert.Equal(t, []string{"ideas"}, c[0].Tags)

	_, changed = l.RemoveTag(c, id, "absent")
	assert.False(t, changed)
	assert.Empty(t, in[0].Tags)
}
