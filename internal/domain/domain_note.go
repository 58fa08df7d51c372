// Package domain 定义领域模型和接口
package domain

import (
	"time"
	"unicode/utf8"
)

// WelcomeNoteID is the id of the seeded onboarding note
// WelcomeNoteID 欢迎笔记的固定 ID
const WelcomeNoteID = "note-1"

// UntitledNoteTitle is the title given to newly created notes
// UntitledNoteTitle 新建笔记的默认标题
const UntitledNoteTitle = "Untitled Note"

// HistoryEntry 笔记历史快照，记录被覆盖前的内容和时间
type HistoryEntry struct {
	Content   string    `json:"content"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Note 笔记领域模型
type Note struct {
	ID        string         `json:"id"`
	Title     string         `json:"title"`
	Content   string         `json:"content"`
	Tags      []string       `json:"tags"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	History   []HistoryEntry `json:"history"`
}

// IsWelcome reports whether the note is the distinguished welcome note
// IsWelcome 判断是否为欢迎笔记
func (n *Note) IsWelcome() bool {
	return n.ID == WelcomeNoteID
}

// ContentLength returns the content length in characters
// ContentLength 返回内容的字符长度
func (n *Note) ContentLength() int {
	return utf8.RuneCountInString(n.Content)
}

// HasTag reports whether the note already carries tag
// HasTag 判断笔记是否已包含标签
func (n *Note) HasTag(tag string) bool {
	for _, t := range n.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Clone returns a deep copy so callers never share tag or history slices
// Clone 返回深拷贝，调用方不会共享 tags 与 history 切片
func (n Note) Clone() Note {
	out := n
	if n.Tags != nil {
		out.Tags = append(make([]string, 0, len(n.Tags)), n.Tags...)
	}
	if n.History != nil {
		out.History = append(make([]HistoryEntry, 0, len(n.History)), n.History...)
	}
	return out
}

// Snapshot captures the state a mutation is about to overwrite
// Snapshot 记录即将被覆盖的状态
func (n *Note) Snapshot() HistoryEntry {
	return HistoryEntry{Content: n.Content, UpdatedAt: n.UpdatedAt}
}

// NoteCollection 笔记集合，整体作为一次持久化单元
type NoteCollection []Note

// Clone 深拷贝整个集合
func (c NoteCollection) Clone() NoteCollection {
	if c == nil {
		return nil
	}
	out := make(NoteCollection, len(c))
	for i := range c {
		out[i] = c[i].Clone()
	}
	return out
}

// IndexOf returns the position of id, or -1
// IndexOf 返回 id 所在位置，不存在时返回 -1
func (c NoteCollection) IndexOf(id string) int {
	for i := range c {
		if c[i].ID == id {
			return i
		}
	}
	return -1
}

// Find 根据 ID 查找笔记
func (c NoteCollection) Find(id string) (*Note, bool) {
	if i := c.IndexOf(id); i >= 0 {
		return &c[i], true
	}
	return nil, false
}

// Tombstone keeps the last deleted note for one level of undo
// Tombstone 保存最近一次删除的笔记，用于单级撤销
type Tombstone struct {
	Note          Note `json:"note"`
	OriginalIndex int  `json:"originalIndex"`
}

// NotePatch 笔记局部更新，nil 字段表示不修改
type NotePatch struct {
	Title   *string
	Content *string
	Tags    []string
	SetTags bool
}

// TouchesText reports whether the patch changes content or title
// TouchesText 判断补丁是否修改内容或标题
func (p NotePatch) TouchesText() bool {
	return p.Title != nil || p.Content != nil
}

// IsEmpty 判断补丁是否为空
func (p NotePatch) IsEmpty() bool {
	return p.Title == nil && p.Content == nil && !p.SetTags
}
