package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNoteCloneIsDeep(t *testing.T) {
	n := Note{ID: "a", Tags: []string{"x"}, History: []HistoryEntry{{Content: "old"}}}
	c := n.Clone()
	c.Tags[0] = "y"
	c.History[0].Content = "new"

	assert.Equal(t, "x", n.Tags[0])
	assert.Equal(t, "old", n.History[0].Content)
}

func TestCollectionIndexOf(t *testing.T) {
	c := NoteCollection{{ID: "a"}, {ID: "b"}}

	assert.Equal(t, 1, c.IndexOf("b"))
	assert.Equal(t, -1, c.IndexOf("z"))

	n, ok := c.Find("a")
	assert.True(t, ok)
	assert.Equal(t, "a", n.ID)
}

func TestContentLengthCountsCharacters(t *testing.T) {
	n := Note{Content: "笔记ab"}
	assert.Equal(t, 4, n.ContentLength())
}

func TestFilterNewSuggestions(t *testing.T) {
	n := &Note{Tags: []string{"work"}}
	got := FilterNewSuggestions(n, []TagSuggestion{{Tag: "work", RelevanceScore: 0.9}, {Tag: "q3", RelevanceScore: 0.5}})

	assert.Equal(t, []TagSuggestion{{Tag: "q3", RelevanceScore: 0.5}}, got)
}

func TestAssistErrorMessages(t *testing.T) {
	err := &AssistError{Op: AssistOpSummarize, Err: assert.AnError}
	assert.Equal(t, "Failed to summarize note.", err.Error())
	assert.ErrorIs(t, err, assert.AnError)
	assert.True(t, IsAssistError(err))

	err = &AssistError{Op: AssistOpSuggestTags}
	assert.Equal(t, "Failed to suggest tags.", err.Error())
}

func TestStorageErrorUnwrap(t *testing.T) {
	err := &StorageError{Op: "put", Slot: SlotNotes, Err: ErrSlotNotFound}
	assert.ErrorIs(t, err, ErrSlotNotFound)
	assert.True(t, IsStorageError(err))
	assert.Contains(t, err.Error(), "notes")
}

func TestNoteJSONFieldTimes(t *testing.T) {
	n := Note{CreatedAt: time.Unix(0, 0)}
	assert.False(t, n.IsWelcome())
	n.ID = WelcomeNoteID
	assert.True(t, n.IsWelcome())
}
