package domain

import "time"

// NoteOp 笔记变更操作
type NoteOp string

const (
	NoteOpCreate      NoteOp = "create"
	NoteOpUpdate      NoteOp = "update"
	NoteOpDelete      NoteOp = "delete"
	NoteOpHideWelcome NoteOp = "hideWelcome"
	NoteOpShowWelcome NoteOp = "showWelcome"
	NoteOpUndo        NoteOp = "undo"
	NoteOpRename      NoteOp = "rename"
	NoteOpRevert      NoteOp = "revert"
	NoteOpAddTag      NoteOp = "addTag"
	NoteOpRemoveTag   NoteOp = "removeTag"
)

// ChangeEvent is published after every note mutation
// ChangeEvent 每次笔记变更后发布的事件
type ChangeEvent struct {
	Op      NoteOp    `json:"op"`
	ID      string    `json:"id"`
	Changed bool      `json:"changed"`
	Saved   bool      `json:"saved"`
	At      time.Time `json:"at"`
}
