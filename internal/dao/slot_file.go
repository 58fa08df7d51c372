package dao

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"github.com/haierkeys/clipbook-service/internal/domain"
	"github.com/haierkeys/clipbook-service/pkg/fileurl"
	"github.com/haierkeys/clipbook-service/pkg/seal"

	"github.com/pkg/errors"
)

var slotNamePattern = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

// FileSlotStore stores each slot as <dir>/<slot>.json, written atomically
// FileSlotStore 每个槽位保存为 <dir>/<slot>.json，原子写入
type FileSlotStore struct {
	mu         sync.Mutex
	dir        string
	passphrase string
}

var _ domain.SlotStore = (*FileSlotStore)(nil)

// NewFileSlotStore creates dir if needed; a non-empty passphrase seals every value
// NewFileSlotStore 必要时创建目录；口令非空时对所有值加密
func NewFileSlotStore(dir, passphrase string) (*FileSlotStore, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil, errors.New("file slot store dir is required")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, errors.Wrap(err, "create slot dir")
	}
	return &FileSlotStore{dir: dir, passphrase: passphrase}, nil
}

func (s *FileSlotStore) path(slot string) (string, error) {
	if !slotNamePattern.MatchString(slot) {
		return "", errors.Errorf("invalid slot name %q", slot)
	}
	return filepath.Join(s.dir, slot+".json"), nil
}

func (s *FileSlotStore) Get(_ context.Context, slot string) ([]byte, error) {
	p, err := s.path(slot)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, domain.ErrSlotNotFound
		}
		return nil, errors.Wrap(err, "read slot")
	}
	if s.passphrase == "" {
		return data, nil
	}
	return seal.Open(data, s.passphrase)
}

func (s *FileSlotStore) Put(_ context.Context, slot string, value []byte) error {
	p, err := s.path(slot)
	if err != nil {
		return err
	}
	if s.passphrase != "" {
		if value, err = seal.Seal(value, s.passphrase); err != nil {
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return fileurl.WriteFileAtomic(p, value, 0o600)
}

func (s *FileSlotStore) Delete(_ context.Context, slot string) error {
	p, err := s.path(slot)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
		return errors.Wrap(err, "remove slot")
	}
	return nil
}

func (s *FileSlotStore) Close() error {
	return nil
}
