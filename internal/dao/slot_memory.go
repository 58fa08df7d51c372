package dao

import (
	"context"
	"sync"

	"github.com/haierkeys/clipbook-service/internal/domain"
)

// MemorySlotStore keeps slots in a map; values are copied on the way in and out
// MemorySlotStore 使用 map 保存槽位，读写时都会复制数据
type MemorySlotStore struct {
	mu    sync.RWMutex
	slots map[string][]byte
}

var _ domain.SlotStore = (*MemorySlotStore)(nil)

// NewMemorySlotStore 创建内存槽位存储
func NewMemorySlotStore() *MemorySlotStore {
	return &MemorySlotStore{slots: make(map[string][]byte)}
}

func (s *MemorySlotStore) Get(_ context.Context, slot string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.slots[slot]
	if !ok {
		return nil, domain.ErrSlotNotFound
	}
	return append([]byte(nil), v...), nil
}

func (s *MemorySlotStore) Put(_ context.Context, slot string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slots[slot] = append([]byte(nil), value...)
	return nil
}

func (s *MemorySlotStore) Delete(_ context.Context, slot string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.slots, slot)
	return nil
}

func (s *MemorySlotStore) Close() error {
	return nil
}
