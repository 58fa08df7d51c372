package dao

import (
	"context"
	"strconv"
	"time"

	"github.com/haierkeys/clipbook-service/internal/domain"
	"github.com/haierkeys/clipbook-service/pkg/logger"

	"github.com/bytedance/sonic"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// jsonAPI 与 encoding/json 输出兼容
var jsonAPI = sonic.ConfigStd

// noteStore serializes the collection into the notes slot of a SlotStore
// noteStore 将笔记集合序列化到 SlotStore 的 notes 槽位
type noteStore struct {
	slots  domain.SlotStore
	logger *zap.Logger
	now    func() time.Time
}

// NoteStoreOption 笔记存储可选项
type NoteStoreOption func(*noteStore)

// WithClock overrides the clock used to timestamp the seed
// WithClock 替换生成种子数据时使用的时钟
func WithClock(now func() time.Time) NoteStoreOption {
	return func(s *noteStore) {
		s.now = now
	}
}

// NewNoteStore 创建笔记存储
func NewNoteStore(slots domain.SlotStore, lg *zap.Logger, opts ...NoteStoreOption) domain.NoteStore {
	if lg == nil {
		lg = zap.NewNop()
	}
	s := &noteStore{slots: slots, logger: lg, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load 读取笔记集合，空槽位或数据损坏时写入并返回种子，读取失败时仅返回内存中的种子
func (s *noteStore) Load(ctx context.Context) (domain.NoteCollection, error) {
	raw, err := s.slots.Get(ctx, domain.SlotNotes)
	switch {
	case errors.Is(err, domain.ErrSlotNotFound):
		s.logger.Info("notes slot empty, seeding", zap.String(logger.FieldSlot, domain.SlotNotes))
		return s.seed(ctx)
	case err != nil:
		// 读取失败时只在内存中使用种子，不覆盖无法读取的数据
		s.logger.Error("notes slot unreadable, using seed in memory",
			zap.String(logger.FieldSlot, domain.SlotNotes),
			zap.Error(&domain.StorageError{Op: "load", Slot: domain.SlotNotes, Err: err}),
		)
		return SeedNotes(s.now()), nil
	}

	var notes domain.NoteCollection
	if err := jsonAPI.Unmarshal(raw, &notes); err != nil {
		s.logger.Warn("notes slot corrupt, reseeding",
			zap.String(logger.FieldSlot, domain.SlotNotes),
			zap.Int(logger.FieldSize, len(raw)),
			zap.Error(err),
		)
		return s.seed(ctx)
	}
	if notes == nil {
		notes = domain.NoteCollection{}
	}
	for i := range notes {
		if notes[i].Tags == nil {
			notes[i].Tags = []string{}
		}
		if notes[i].History == nil {
			notes[i].History = []domain.HistoryEntry{}
		}
	}
	return notes, nil
}

// seed persists the seed before handing it back so the next Load reads it from the slot
// seed 先持久化种子再返回，下一次 Load 直接从槽位读取
func (s *noteStore) seed(ctx context.Context) (domain.NoteCollection, error) {
	notes := SeedNotes(s.now())
	if err := s.Save(ctx, notes); err != nil {
		// 种子仍然可用，写入失败只记录
		s.logger.Error("persist seed notes failed", zap.String(logger.FieldSlot, domain.SlotNotes), zap.Error(err))
	}
	return notes, nil
}

// Save 覆盖保存整个集合
func (s *noteStore) Save(ctx context.Context, notes domain.NoteCollection) error {
	if notes == nil {
		notes = domain.NoteCollection{}
	}
	raw, err := jsonAPI.Marshal(notes)
	if err != nil {
		return &domain.StorageError{Op: "encode", Slot: domain.SlotNotes, Err: err}
	}
	if err := s.slots.Put(ctx, domain.SlotNotes, raw); err != nil {
		return &domain.StorageError{Op: "save", Slot: domain.SlotNotes, Err: err}
	}
	return nil
}

// LoadWelcomeHidden 读取欢迎笔记隐藏标记，未写入或无法解析时为 false
func (s *noteStore) LoadWelcomeHidden(ctx context.Context) (bool, error) {
	raw, err := s.slots.Get(ctx, domain.SlotWelcomeNoteHidden)
	if errors.Is(err, domain.ErrSlotNotFound) {
		return false, nil
	}
	if err != nil {
		return false, &domain.StorageError{Op: "load", Slot: domain.SlotWelcomeNoteHidden, Err: err}
	}
	hidden, err := strconv.ParseBool(string(raw))
	if err != nil {
		s.logger.Warn("welcome hidden flag unreadable", zap.ByteString("raw", raw), zap.Error(err))
		return false, nil
	}
	return hidden, nil
}

// SaveWelcomeHidden 保存欢迎笔记隐藏标记
func (s *noteStore) SaveWelcomeHidden(ctx context.Context, hidden bool) error {
	if err := s.slots.Put(ctx, domain.SlotWelcomeNoteHidden, []byte(strconv.FormatBool(hidden))); err != nil {
		return &domain.StorageError{Op: "save", Slot: domain.SlotWelcomeNoteHidden, Err: err}
	}
	return nil
}
