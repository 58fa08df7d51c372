package service

import (
	"context"
	"time"

	"github.com/haierkeys/clipbook-service/internal/domain"
	"github.com/haierkeys/clipbook-service/pkg/diff"

	"go.uber.org/zap"
)

// HistoryVersion is one history entry plus its diff against the next newer state
// HistoryVersion 历史版本及其相对更新版本的差异
type HistoryVersion struct {
	Index     int         `json:"index"`
	Content   string      `json:"content"`
	UpdatedAt time.Time   `json:"updatedAt"`
	Diff      diff.Result `json:"diff"`
}

// NoteHistoryService defines the note history business service interface
// NoteHistoryService 定义笔记历史业务服务接口
type NoteHistoryService interface {
	// List returns the versions of a note, newest first
	// List 返回笔记的历史版本，最新在前
	List(ctx context.Context, id string) ([]HistoryVersion, error)

	// Get returns the version at index
	// Get 获取指定下标的历史版本
	Get(ctx context.Context, id string, index int) (*HistoryVersion, error)
}

// noteHistoryService implementation of NoteHistoryService interface
// noteHistoryService 实现 NoteHistoryService 接口
type noteHistoryService struct {
	notes  NoteService // Note service // 笔记服务
	logger *zap.Logger // Logger // 日志对象
}

// NewNoteHistoryService creates NoteHistoryService instance
// NewNoteHistoryService 创建 NoteHistoryService 实例
func NewNoteHistoryService(notes NoteService, logger *zap.Logger) NoteHistoryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &noteHistoryService{notes: notes, logger: logger}
}

func (s *noteHistoryService) List(ctx context.Context, id string) ([]HistoryVersion, error) {
	n, err := s.notes.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	out := make([]HistoryVersion, 0, len(n.History))
	for i := range n.History {
		out = append(out, versionAt(n, i))
	}
	return out, nil
}

func (s *noteHistoryService) Get(ctx context.Context, id string, index int) (*HistoryVersion, error) {
	n, err := s.notes.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(n.History) {
		return nil, domain.ErrHistoryNotFound
	}
	v := versionAt(n, index)
	return &v, nil
}

// versionAt diffs History[i] against the state that replaced it
func versionAt(n *domain.Note, i int) HistoryVersion {
	newer := n.Content
	if i > 0 {
		newer = n.History[i-1].Content
	}
	e := n.History[i]
	return HistoryVersion{
		Index:     i,
		Content:   e.Content,
		UpdatedAt: e.UpdatedAt,
		Diff:      diff.Compute(e.Content, newer),
	}
}
