package service

import (
	"context"
	"sync"
	"time"

	"github.com/haierkeys/clipbook-service/internal/domain"
	"github.com/haierkeys/clipbook-service/pkg/logger"

	"go.uber.org/zap"
)

// Outcome is the result of a note mutation; Changed=false means the request was a no-op
// Outcome 笔记变更结果，Changed=false 表示请求未产生变化
type Outcome struct {
	Changed bool         `json:"changed"`
	Note    *domain.Note `json:"note,omitempty"`
}

// ChangeListener 变更事件订阅函数
type ChangeListener func(domain.ChangeEvent)

// NoteService defines the note session: the owned collection plus the welcome flag and the undo tombstone
// NoteService 定义笔记会话：持有笔记集合、欢迎笔记隐藏标记与撤销墓碑
type NoteService interface {
	// Init loads the collection and the hidden flag from the store
	// Init 从存储加载集合与隐藏标记
	Init(ctx context.Context) error

	// List 按查询条件返回笔记视图
	List(ctx context.Context, q domain.NoteQuery) []domain.Note

	// Get returns ErrNoteNotFound for an unknown id
	// Get 获取笔记，不存在时返回 ErrNoteNotFound
	Get(ctx context.Context, id string) (*domain.Note, error)

	Create(ctx context.Context) Outcome
	Update(ctx context.Context, id string, patch domain.NotePatch) Outcome
	Delete(ctx context.Context, id string) Outcome
	Undo(ctx context.Context) Outcome
	Rename(ctx context.Context, id, title string) Outcome

	// Revert returns ErrHistoryNotFound when index is outside the note history
	// Revert 回滚到历史版本，下标越界返回 ErrHistoryNotFound
	Revert(ctx context.Context, id string, index int) (Outcome, error)

	AddTag(ctx context.Context, id, tag string) Outcome
	RemoveTag(ctx context.Context, id, tag string) Outcome

	// ShowWelcome 清除欢迎笔记隐藏标记
	ShowWelcome(ctx context.Context) Outcome

	// WelcomeHidden 欢迎笔记是否隐藏
	WelcomeHidden() bool

	// CanUndo reports whether a tombstone is held
	// CanUndo 是否存在可撤销的删除
	CanUndo() bool

	// Snapshot 返回集合深拷贝
	Snapshot() domain.NoteCollection

	// Subscribe registers l for change events and returns the unsubscribe func
	// Subscribe 订阅变更事件，返回取消订阅函数
	Subscribe(l ChangeListener) func()
}

// noteService implementation of NoteService interface
// noteService 实现 NoteService 接口
type noteService struct {
	mu        sync.Mutex
	store     domain.NoteStore      // Note store // 笔记存储
	lifecycle *Lifecycle            // Pure mutations // 纯函数变更
	logger    *zap.Logger           // Logger // 日志对象
	notes     domain.NoteCollection // Current collection // 当前集合
	hidden    bool                  // Welcome note hidden // 欢迎笔记已隐藏
	tombstone *domain.Tombstone     // Last deleted note // 最近删除的笔记

	subMu     sync.RWMutex
	subs      map[int]ChangeListener
	nextSubID int
}

// NewNoteService creates NoteService instance
// NewNoteService 创建 NoteService 实例
func NewNoteService(store domain.NoteStore, lifecycle *Lifecycle, logger *zap.Logger) NoteService {
	if lifecycle == nil {
		lifecycle = NewLifecycle(nil, true)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &noteService{
		store:     store,
		lifecycle: lifecycle,
		logger:    logger,
		notes:     domain.NoteCollection{},
		subs:      make(map[int]ChangeListener),
	}
}

func (s *noteService) Init(ctx context.Context) error {
	notes, err := s.store.Load(ctx)
	if err != nil {
		return err
	}
	hidden, err := s.store.LoadWelcomeHidden(ctx)
	if err != nil {
		s.logger.Error("load welcome hidden flag failed", zap.Error(err))
	}

	s.mu.Lock()
	s.notes = notes
	s.hidden = hidden
	s.tombstone = nil
	s.mu.Unlock()

	s.logger.Info("notes loaded", zap.Int(logger.FieldCount, len(notes)), zap.Bool("welcomeHidden", hidden))
	return nil
}

func (s *noteService) List(_ context.Context, q domain.NoteQuery) []domain.Note {
	s.mu.Lock()
	defer s.mu.Unlock()
	return QueryNotes(s.notes, q, s.hidden)
}

func (s *noteService) Get(_ context.Context, id string) (*domain.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.notes.Find(id)
	if !ok {
		return nil, domain.ErrNoteNotFound
	}
	out := n.Clone()
	return &out, nil
}

func (s *noteService) Create(ctx context.Context) Outcome {
	s.mu.Lock()
	var reserved []string
	if s.tombstone != nil {
		reserved = append(reserved, s.tombstone.Note.ID)
	}
	notes, note := s.lifecycle.CreateNote(s.notes, reserved...)
	s.notes = notes
	saved := s.saveNotesLocked(ctx)
	s.mu.Unlock()

	s.finish(domain.NoteOpCreate, note.ID, true, saved)
	return Outcome{Changed: true, Note: &note}
}

func (s *noteService) Update(ctx context.Context, id string, patch domain.NotePatch) Outcome {
	return s.mutate(ctx, domain.NoteOpUpdate, id, func(c domain.NoteCollection) (domain.NoteCollection, bool) {
		return s.lifecycle.UpdateNote(c, id, patch)
	})
}

func (s *noteService) Delete(ctx context.Context, id string) Outcome {
	s.mu.Lock()
	notes, tombstone, hideWelcome := s.lifecycle.DeleteNote(s.notes, id)

	if hideWelcome {
		changed := !s.hidden
		saved := true
		if changed {
			s.hidden = true
			saved = s.saveHiddenLocked(ctx)
		}
		s.mu.Unlock()
		s.finish(domain.NoteOpHideWelcome, id, changed, saved)
		return Outcome{Changed: changed}
	}

	if tombstone == nil {
		s.mu.Unlock()
		s.finish(domain.NoteOpDelete, id, false, true)
		return Outcome{}
	}

	s.notes = notes
	// 只保留一级撤销
	s.tombstone = tombstone
	saved := s.saveNotesLocked(ctx)
	s.mu.Unlock()

	s.finish(domain.NoteOpDelete, id, true, saved)
	deleted := tombstone.Note.Clone()
	return Outcome{Changed: true, Note: &deleted}
}

func (s *noteService) Undo(ctx context.Context) Outcome {
	s.mu.Lock()
	tombstone := s.tombstone
	notes, changed := s.lifecycle.UndoDelete(s.notes, tombstone)
	if !changed {
		// 墓碑 ID 已被占用时无法恢复，丢弃墓碑
		s.tombstone = nil
		s.mu.Unlock()
		s.finish(domain.NoteOpUndo, "", false, true)
		return Outcome{}
	}
	s.notes = notes
	s.tombstone = nil
	saved := s.saveNotesLocked(ctx)
	s.mu.Unlock()

	s.finish(domain.NoteOpUndo, tombstone.Note.ID, true, saved)
	restored := tombstone.Note.Clone()
	return Outcome{Changed: true, Note: &restored}
}

func (s *noteService) Rename(ctx context.Context, id, title string) Outcome {
	return s.mutate(ctx, domain.NoteOpRename, id, func(c domain.NoteCollection) (domain.NoteCollection, bool) {
		return s.lifecycle.RenameNote(c, id, title)
	})
}

func (s *noteService) Revert(ctx context.Context, id string, index int) (Outcome, error) {
	var revertErr error
	out := s.mutate(ctx, domain.NoteOpRevert, id, func(c domain.NoteCollection) (domain.NoteCollection, bool) {
		notes, changed, err := s.lifecycle.RevertToIndex(c, id, index)
		revertErr = err
		return notes, changed
	})
	return out, revertErr
}

func (s *noteService) AddTag(ctx context.Context, id, tag string) Outcome {
	return s.mutate(ctx, domain.NoteOpAddTag, id, func(c domain.NoteCollection) (domain.NoteCollection, bool) {
		return s.lifecycle.AddTag(c, id, tag)
	})
}

func (s *noteService) RemoveTag(ctx context.Context, id, tag string) Outcome {
	return s.mutate(ctx, domain.NoteOpRemoveTag, id, func(c domain.NoteCollection) (domain.NoteCollection, bool) {
		return s.lifecycle.RemoveTag(c, id, tag)
	})
}

func (s *noteService) ShowWelcome(ctx context.Context) Outcome {
	s.mu.Lock()
	changed := s.hidden
	saved := true
	if changed {
		s.hidden = false
		saved = s.saveHiddenLocked(ctx)
	}
	s.mu.Unlock()

	s.finish(domain.NoteOpShowWelcome, domain.WelcomeNoteID, changed, saved)
	return Outcome{Changed: changed}
}

func (s *noteService) WelcomeHidden() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hidden
}

func (s *noteService) CanUndo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tombstone != nil
}

func (s *noteService) Snapshot() domain.NoteCollection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.notes.Clone()
}

func (s *noteService) Subscribe(l ChangeListener) func() {
	s.subMu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subs[id] = l
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

// mutate applies fn under the lock, saves on change and returns a copy of the touched note
// mutate 加锁执行 fn，有变化时保存，并返回被修改笔记的副本
func (s *noteService) mutate(ctx context.Context, op domain.NoteOp, id string, fn func(domain.NoteCollection) (domain.NoteCollection, bool)) Outcome {
	s.mu.Lock()
	notes, changed := fn(s.notes)
	if !changed {
		s.mu.Unlock()
		s.finish(op, id, false, true)
		return Outcome{}
	}
	s.notes = notes
	saved := s.saveNotesLocked(ctx)
	var note *domain.Note
	if n, ok := notes.Find(id); ok {
		c := n.Clone()
		note = &c
	}
	s.mu.Unlock()

	s.finish(op, id, true, saved)
	return Outcome{Changed: true, Note: note}
}

// saveNotesLocked writes the whole collection; failures are logged and the in-memory state stays authoritative
// saveNotesLocked 整体写入集合；失败只记录日志，内存状态仍为准
func (s *noteService) saveNotesLocked(ctx context.Context) bool {
	if err := s.store.Save(ctx, s.notes); err != nil {
		s.logger.Error("save notes failed", zap.String(logger.FieldSlot, domain.SlotNotes), zap.Error(err))
		return false
	}
	return true
}

func (s *noteService) saveHiddenLocked(ctx context.Context) bool {
	if err := s.store.SaveWelcomeHidden(ctx, s.hidden); err != nil {
		s.logger.Error("save welcome hidden flag failed", zap.String(logger.FieldSlot, domain.SlotWelcomeNoteHidden), zap.Error(err))
		return false
	}
	return true
}

func (s *noteService) finish(op domain.NoteOp, id string, changed, saved bool) {
	if !changed {
		s.logger.Debug("note operation was a no-op", zap.String(logger.FieldOp, string(op)), zap.String(logger.FieldNoteID, id))
	}
	s.publish(op, id, changed, saved)
}

func (s *noteService) publish(op domain.NoteOp, id string, changed, saved bool) {
	ev := domain.ChangeEvent{Op: op, ID: id, Changed: changed, Saved: saved, At: time.Now()}

	s.subMu.RLock()
	listeners := make([]ChangeListener, 0, len(s.subs))
	for _, l := range s.subs {
		listeners = append(listeners, l)
	}
	s.subMu.RUnlock()

	for _, l := range listeners {
		l(ev)
	}
}
