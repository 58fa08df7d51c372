package service

import (
	"sort"
	"strings"

	"github.com/haierkeys/clipbook-service/internal/domain"

	"golang.org/x/text/cases"
)

// QueryNotes filters by search text and sorts; the result is a copy and ties keep input order
// QueryNotes 按搜索词过滤并排序，返回副本，相等元素保持原有顺序
func QueryNotes(c domain.NoteCollection, q domain.NoteQuery, hiddenWelcome bool) []domain.Note {
	if !q.SortKey.Valid() || !q.SortDirection.Valid() {
		def := domain.DefaultNoteQuery()
		q.SortKey, q.SortDirection = def.SortKey, def.SortDirection
	}

	fold := cases.Fold()
	needle := fold.String(q.Search)

	out := make([]domain.Note, 0, len(c))
	for i := range c {
		n := &c[i]
		if hiddenWelcome && n.IsWelcome() {
			continue
		}
		if needle != "" &&
			!strings.Contains(fold.String(n.Title), needle) &&
			!strings.Contains(fold.String(n.Content), needle) {
			continue
		}
		out = append(out, n.Clone())
	}

	less := noteLess(q.SortKey)
	desc := q.SortDirection == domain.SortDesc
	sort.SliceStable(out, func(i, j int) bool {
		if desc {
			return less(&out[j], &out[i])
		}
		return less(&out[i], &out[j])
	})
	return out
}

func noteLess(key domain.SortKey) func(a, b *domain.Note) bool {
	switch key {
	case domain.SortByCreatedAt:
		return func(a, b *domain.Note) bool { return a.CreatedAt.Before(b.CreatedAt) }
	case domain.SortByTitle:
		return func(a, b *domain.Note) bool { return a.Title < b.Title }
	case domain.SortByContentLength:
		return func(a, b *domain.Note) bool { return a.ContentLength() < b.ContentLength() }
	}
	return func(a, b *domain.Note) bool { return a.UpdatedAt.Before(b.UpdatedAt) }
}
