package service

import (
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/haierkeys/clipbook-service/internal/domain"
	"github.com/haierkeys/clipbook-service/pkg/util"
)

// Lifecycle holds the pure note mutations; none of them modifies its input collection
// Lifecycle 纯函数式的笔记变更，不会修改传入的集合
type Lifecycle struct {
	Now             func() time.Time // Clock // 时钟
	WelcomeReadOnly bool             // Welcome note text is read-only // 欢迎笔记文本只读
}

// NewLifecycle 创建 Lifecycle，now 为 nil 时使用 time.Now
func NewLifecycle(now func() time.Time, welcomeReadOnly bool) *Lifecycle {
	if now == nil {
		now = time.Now
	}
	return &Lifecycle{Now: now, WelcomeReadOnly: welcomeReadOnly}
}

func (l *Lifecycle) now() time.Time {
	if l.Now == nil {
		return time.Now()
	}
	return l.Now()
}

// newID derives note-<unix millis> from the clock, bumping by one until it is unique
// in c and differs from every reserved id
// newID 由时钟生成 note-<毫秒时间戳>，与集合或保留 ID 冲突时递增
func (l *Lifecycle) newID(c domain.NoteCollection, now time.Time, reserved []string) string {
	ms := now.UnixMilli()
	for {
		id := "note-" + strconv.FormatInt(ms, 10)
		if c.IndexOf(id) < 0 && !slices.Contains(reserved, id) {
			return id
		}
		ms++
	}
}

// textLocked reports whether title/content edits are rejected for n
func (l *Lifecycle) textLocked(n *domain.Note) bool {
	return l.WelcomeReadOnly && n.IsWelcome()
}

// CreateNote prepends an empty untitled note. reserved holds ids that must not be reused,
// such as the id of a note waiting in the undo tombstone
// CreateNote 在集合头部插入一条空白笔记，reserved 中的 ID（如待撤销笔记）不会被复用
func (l *Lifecycle) CreateNote(c domain.NoteCollection, reserved ...string) (domain.NoteCollection, domain.Note) {
	now := l.now()
	note := domain.Note{
		ID:        l.newID(c, now, reserved),
		Title:     domain.UntitledNoteTitle,
		Content:   "",
		Tags:      []string{},
		CreatedAt: now,
		UpdatedAt: now,
		History:   []domain.HistoryEntry{},
	}

	out := make(domain.NoteCollection, 0, len(c)+1)
	out = append(out, note.Clone())
	out = append(out, c.Clone()...)
	return out, note
}

// UpdateNote applies patch to the note with id; a content change first snapshots the old content into history
// UpdateNote 对指定笔记应用补丁；内容变化时先把旧内容写入历史
func (l *Lifecycle) UpdateNote(c domain.NoteCollection, id string, patch domain.NotePatch) (domain.NoteCollection, bool) {
	idx := c.IndexOf(id)
	if idx < 0 || patch.IsEmpty() {
		return c, false
	}
	cur := &c[idx]
	if patch.TouchesText() && l.textLocked(cur) {
		return c, false
	}

	contentChanged := patch.Content != nil && *patch.Content != cur.Content
	titleChanged := patch.Title != nil && *patch.Title != cur.Title
	var tags []string
	tagsChanged := false
	if patch.SetTags {
		tags = normalizeTags(patch.Tags)
		tagsChanged = !slices.Equal(tags, cur.Tags)
	}
	if !contentChanged && !titleChanged && !tagsChanged {
		return c, false
	}

	out := c.Clone()
	n := &out[idx]
	if contentChanged {
		n.History = prependHistory(n.History, n.Snapshot())
		n.Content = *patch.Content
	}
	if titleChanged {
		n.Title = *patch.Title
	}
	if tagsChanged {
		n.Tags = tags
	}
	n.UpdatedAt = l.now()
	return out, true
}

// DeleteNote removes the note and returns a tombstone for undo; the welcome note only asks to be hidden
// DeleteNote 删除笔记并返回用于撤销的墓碑；欢迎笔记只要求隐藏
func (l *Lifecycle) DeleteNote(c domain.NoteCollection, id string) (out domain.NoteCollection, tombstone *domain.Tombstone, hideWelcome bool) {
	if id == domain.WelcomeNoteID {
		return c, nil, true
	}
	idx := c.IndexOf(id)
	if idx < 0 {
		return c, nil, false
	}

	out = make(domain.NoteCollection, 0, len(c)-1)
	out = append(out, c[:idx].Clone()...)
	out = append(out, c[idx+1:].Clone()...)
	return out, &domain.Tombstone{Note: c[idx].Clone(), OriginalIndex: idx}, false
}

// UndoDelete reinserts the tombstoned note at its original index, clamped to the collection length
// UndoDelete 将墓碑中的笔记插回原位置，位置超出时截断到集合末尾
func (l *Lifecycle) UndoDelete(c domain.NoteCollection, t *domain.Tombstone) (domain.NoteCollection, bool) {
	if t == nil || c.IndexOf(t.Note.ID) >= 0 {
		return c, false
	}
	idx := t.OriginalIndex
	if idx < 0 {
		idx = 0
	}
	if idx > len(c) {
		idx = len(c)
	}

	out := make(domain.NoteCollection, 0, len(c)+1)
	out = append(out, c[:idx].Clone()...)
	out = append(out, t.Note.Clone())
	out = append(out, c[idx:].Clone()...)
	return out, true
}

// RenameNote sets a trimmed, non-empty title and records the prior state in history
// RenameNote 设置去除空白后的非空标题，并将旧状态写入历史
func (l *Lifecycle) RenameNote(c domain.NoteCollection, id, title string) (domain.NoteCollection, bool) {
	title = strings.TrimSpace(title)
	idx := c.IndexOf(id)
	if title == "" || idx < 0 {
		return c, false
	}
	if c[idx].Title == title || l.textLocked(&c[idx]) {
		return c, false
	}

	out := c.Clone()
	n := &out[idx]
	n.History = prependHistory(n.History, n.Snapshot())
	n.Title = title
	n.UpdatedAt = l.now()
	return out, true
}

// RevertToVersion overwrites content with entry, snapshotting the current content first
// RevertToVersion 先保存当前内容快照，再用历史版本覆盖内容
func (l *Lifecycle) RevertToVersion(c domain.NoteCollection, id string, entry domain.HistoryEntry) (domain.NoteCollection, bool) {
	idx := c.IndexOf(id)
	if idx < 0 || l.textLocked(&c[idx]) {
		return c, false
	}

	out := c.Clone()
	n := &out[idx]
	n.History = prependHistory(n.History, n.Snapshot())
	n.Content = entry.Content
	n.UpdatedAt = l.now()
	return out, true
}

// RevertToIndex reverts to History[index]; ErrHistoryNotFound when the index is out of range
// RevertToIndex 回滚到 History[index]，下标越界时返回 ErrHistoryNotFound
func (l *Lifecycle) RevertToIndex(c domain.NoteCollection, id string, index int) (domain.NoteCollection, bool, error) {
	n, ok := c.Find(id)
	if !ok {
		return c, false, nil
	}
	if index < 0 || index >= len(n.History) {
		return c, false, domain.ErrHistoryNotFound
	}
	out, changed := l.RevertToVersion(c, id, n.History[index])
	return out, changed, nil
}

// AddTag appends a trimmed tag unless it is empty or already present
// AddTag 追加去除空白后的标签，空标签或已存在时忽略
func (l *Lifecycle) AddTag(c domain.NoteCollection, id, tag string) (domain.NoteCollection, bool) {
	tag = strings.TrimSpace(tag)
	idx := c.IndexOf(id)
	if tag == "" || idx < 0 || c[idx].HasTag(tag) {
		return c, false
	}

	out := c.Clone()
	n := &out[idx]
	n.Tags = append(n.Tags, tag)
	n.UpdatedAt = l.now()
	return out, true
}

// RemoveTag 移除标签，不存在时忽略
func (l *Lifecycle) RemoveTag(c domain.NoteCollection, id, tag string) (domain.NoteCollection, bool) {
	idx := c.IndexOf(id)
	if idx < 0 || !c[idx].HasTag(tag) {
		return c, false
	}

	out := c.Clone()
	n := &out[idx]
	tags := make([]string, 0, len(n.Tags)-1)
	for _, t := range n.Tags {
		if t != tag {
			tags = append(tags, t)
		}
	}
	n.Tags = tags
	n.UpdatedAt = l.now()
	return out, true
}

func prependHistory(h []domain.HistoryEntry, e domain.HistoryEntry) []domain.HistoryEntry {
	out := make([]domain.HistoryEntry, 0, len(h)+1)
	out = append(out, e)
	return append(out, h...)
}

// normalizeTags trims, drops empties and keeps the first occurrence of each tag
func normalizeTags(tags []string) []string {
	trimmed := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			trimmed = append(trimmed, t)
		}
	}
	return util.ArrayUnique(trimmed)
}
