package service

import (
	"strings"
	"testing"
	"time"

	"github.com/haierkeys/clipbook-service/internal/domain"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
)

func lengthCollection() domain.NoteCollection {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return domain.NoteCollection{
		sampleNote("mid", "mid", strings.Repeat("m", 10), base),
		sampleNote("short", "short", strings.Repeat("s", 5), base.Add(time.Hour)),
		sampleNote("long", "long", strings.Repeat("l", 20), base.Add(2*time.Hour)),
	}
}

func TestQuerySortByContentLength(t *testing.T) {
	c := lengthCollection()

	asc := QueryNotes(c, domain.NoteQuery{SortKey: domain.SortByContentLength, SortDirection: domain.SortAsc}, false)
	assert.Equal(t, []string{"short", "mid", "long"}, ids(asc))

	desc := QueryNotes(c, domain.NoteQuery{SortKey: domain.SortByContentLength, SortDirection: domain.SortDesc}, false)
	assert.Equal(t, []string{"long", "mid", "short"}, ids(desc))
}

func TestQueryContentLengthCountsCharacters(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := domain.NoteCollection{
		sampleNote("ascii", "a", "abcd", base),
		sampleNote("cjk", "b", "笔记", base),
	}
	asc := QueryNotes(c, domain.NoteQuery{SortKey: domain.SortByContentLength, SortDirection: domain.SortAsc}, false)
	assert.Equal(t, []string{"cjk", "ascii"}, ids(asc))
}

func TestQuerySearchIsCaseInsensitive(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := domain.NoteCollection{
		sampleNote("note-a", "Groceries", "milk, eggs", base),
		sampleNote("note-b", "Project Ideas", "Brainstorming session for the new QUARTER.", base),
		sampleNote("note-c", "Todo", "call mom", base),
	}

	for _, q := range []string{"quarter", "Quarter", "QUARTER"} {
		got := QueryNotes(c, domain.NoteQuery{Search: q, SortKey: domain.SortByTitle, SortDirection: domain.SortAsc}, false)
		assert.Equal(t, []string{"note-b"}, ids(got), q)
	}

	byTitle := QueryNotes(c, domain.NoteQuery{Search: "groc"}, false)
	assert.Equal(t, []string{"note-a"}, ids(byTitle))

	assert.Empty(t, QueryNotes(c, domain.NoteQuery{Search: "nothing here"}, false))
	assert.Len(t, QueryNotes(c, domain.NoteQuery{}, false), 3)
}

func TestQuerySearchIgnoresTags(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tagged := sampleNote("note-a", "Groceries", "milk", base)
	tagged.Tags = []string{"errands"}
	c := domain.NoteCollection{tagged}

	assert.Empty(t, QueryNotes(c, domain.NoteQuery{Search: "errands"}, false))
}

func TestQueryHidesWelcome(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := append(domain.NoteCollection{sampleNote(domain.WelcomeNoteID, "Welcome", "hi", base)}, sampleCollection(2)...)

	assert.Len(t, QueryNotes(c, domain.DefaultNoteQuery(), false), 3)
	hidden := QueryNotes(c, domain.DefaultNoteQuery(), true)
	assert.Len(t, hidden, 2)
	assert.NotContains(t, ids(hidden), domain.WelcomeNoteID)
}

func TestQueryInvalidSortFallsBackToUpdatedDesc(t *testing.T) {
	c := sampleCollection(3)
	got := QueryNotes(c, domain.NoteQuery{SortKey: "bogus", SortDirection: "sideways"}, false)
	assert.Equal(t, []string{"note-102", "note-101", "note-100"}, ids(got))
}

func TestQueryReturnsCopies(t *testing.T) {
	c := sampleCollection(1)
	got := QueryNotes(c, domain.DefaultNoteQuery(), false)
	got[0].Title = "mutated"
	assert.Equal(t, "title note-100", c[0].Title)
}

// 相等元素保持输入顺序，desc 为 asc 的逆序比较
func TestPropertyStableSort(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	properties := gopter.NewProperties(parameters)

	properties.Property("equal keys keep input order in both directions", prop.ForAll(
		func(n int) bool {
			base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
			c := make(domain.NoteCollection, 0, n)
			for i := 0; i < n; i++ {
				c = append(c, sampleNote(strings.Repeat("x", i+1), "same", "same", base))
			}
			for _, dir := range []domain.SortDirection{domain.SortAsc, domain.SortDesc} {
				got := QueryNotes(c, domain.NoteQuery{SortKey: domain.SortByTitle, SortDirection: dir}, false)
				for i := range got {
					if got[i].ID != c[i].ID {
						return false
					}
				}
			}
			return true
		},
		gen.IntRange(0, 10),
	))

	properties.Property("ascending contentLength is non-decreasing", prop.ForAll(
		func(contents []string) bool {
			base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
			c := make(domain.NoteCollection, 0, len(contents))
			for i, s := range contents {
				c = append(c, sampleNote(strings.Repeat("i", i+1), "t", s, base))
			}
			got := QueryNotes(c, domain.NoteQuery{SortKey: domain.SortByContentLength, SortDirection: domain.SortAsc}, false)
			for i := 1; i < len(got); i++ {
				if got[i-1].ContentLength() > got[i].ContentLength() {
					return false
				}
			}
			return len(got) == len(contents)
		},
		gen.SliceOf(gen.AlphaString()),
	))

	properties.TestingRun(t)
}
