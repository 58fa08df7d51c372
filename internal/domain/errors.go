package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNoteNotFound 笔记不存在
	ErrNoteNotFound = errors.New("note not found")
	// ErrHistoryNotFound 历史版本不存在
	ErrHistoryNotFound = errors.New("note history entry not found")
	// ErrNothingToUndo 没有可撤销的删除
	ErrNothingToUndo = errors.New("nothing to undo")
	// ErrSlotNotFound 存储槽位为空
	ErrSlotNotFound = errors.New("slot not found")
	// ErrAssistDisabled AI 助手未配置
	ErrAssistDisabled = errors.New("assist gateway is not configured")
	// ErrEmptyContent 内容为空
	ErrEmptyContent = errors.New("content is empty")
)

// StorageError wraps a failed read or write of a persistence slot
// StorageError 存储槽位读写失败
type StorageError struct {
	Op   string
	Slot string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s %q: %v", e.Op, e.Slot, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// AssistError is the generic failure surfaced for any upstream AI problem
// AssistError AI 调用失败时向调用方暴露的通用错误
type AssistError struct {
	Op  AssistOp
	Err error
}

func (e *AssistError) Error() string {
	switch e.Op {
	case AssistOpSummarize:
		return "Failed to summarize note."
	case AssistOpSuggestTags:
		return "Failed to suggest tags."
	}
	return "AI assist failed."
}

func (e *AssistError) Unwrap() error {
	return e.Err
}

// IsStorageError 判断是否为存储错误
func IsStorageError(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}

// IsAssistError 判断是否为 AI 错误
func IsAssistError(err error) bool {
	var ae *AssistError
	return errors.As(err, &ae)
}
