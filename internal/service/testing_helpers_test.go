package service

import (
	"fmt"
	"sync"
	"time"

	"github.com/haierkeys/clipbook-service/internal/domain"
)

// stepClock 每次调用前进一秒的测试时钟
type stepClock struct {
	mu  sync.Mutex
	cur time.Time
}

func newStepClock() *stepClock {
	return &stepClock{cur: time.Date(2024, 7, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cur = c.cur.Add(time.Second)
	return c.cur
}

func sampleNote(id, title, content string, at time.Time) domain.Note {
	return domain.Note{
		ID:        id,
		Title:     title,
		Content:   content,
		Tags:      []string{},
		CreatedAt: at,
		UpdatedAt: at,
		History:   []domain.HistoryEntry{},
	}
}

func sampleCollection(n int) domain.NoteCollection {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := make(domain.NoteCollection, 0, n)
	for i := 0; i < n; i++ {
		id := fmt.Sprintf("note-%d", 100+i)
		c = append(c, sampleNote(id, "title "+id, "content "+id, base.Add(time.Duration(i)*time.Hour)))
	}
	return c
}

func ids(notes []domain.Note) []string {
	out := make([]string, 0, len(notes))
	for _, n := range notes {
		out = append(out, n.ID)
	}
	return out
}

func strPtr(s string) *string { return &s }
