// Package domain 定义领域模型和接口
package domain

import "context"

// Slot names used by the note store
// 笔记存储使用的槽位名
const (
	SlotNotes             = "notes"
	SlotWelcomeNoteHidden = "welcomeNoteHidden"
)

// SlotStore is a named-slot key/value store; Put overwrites the whole value
// SlotStore 命名槽位键值存储，Put 整体覆盖旧值
type SlotStore interface {
	// Get returns ErrSlotNotFound when the slot was never written
	// Get 槽位从未写入时返回 ErrSlotNotFound
	Get(ctx context.Context, slot string) ([]byte, error)

	// Put 覆盖写入槽位
	Put(ctx context.Context, slot string, value []byte) error

	// Delete 删除槽位
	Delete(ctx context.Context, slot string) error

	// Close 释放底层资源
	Close() error
}

// NoteStore persists the whole note collection and the welcome-hidden flag
// NoteStore 持久化整个笔记集合与欢迎笔记隐藏标记
type NoteStore interface {
	// Load returns the stored collection, or the seed collection (persisted on the spot) when the slot is empty or corrupt
	// Load 返回已保存的集合；槽位为空或损坏时返回种子集合并立即持久化
	Load(ctx context.Context) (NoteCollection, error)

	// Save 覆盖保存整个集合
	Save(ctx context.Context, notes NoteCollection) error

	// LoadWelcomeHidden 读取欢迎笔记隐藏标记
	LoadWelcomeHidden(ctx context.Context) (bool, error)

	// SaveWelcomeHidden 保存欢迎笔记隐藏标记
	SaveWelcomeHidden(ctx context.Context, hidden bool) error
}
