package dao

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/haierkeys/clipbook-service/internal/domain"

	"github.com/pkg/errors"
	bolt "go.etcd.io/bbolt"
)

var bucketSlots = []byte("slots")

// BoltSlotStore keeps every slot as a key in one bbolt bucket
// BoltSlotStore 将每个槽位保存为 bbolt 单个 bucket 中的键
type BoltSlotStore struct {
	db *bolt.DB
}

var _ domain.SlotStore = (*BoltSlotStore)(nil)

// NewBoltSlotStore 打开 bbolt 数据库并创建 bucket
func NewBoltSlotStore(path string) (*BoltSlotStore, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("bolt db path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, errors.Wrap(err, "create bolt dir")
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 2 * time.Second})
	if err != nil {
		return nil, errors.Wrap(err, "open bolt db")
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketSlots)
		return err
	}); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "create bucket")
	}
	return &BoltSlotStore{db: db}, nil
}

func (s *BoltSlotStore) Get(_ context.Context, slot string) ([]byte, error) {
	var out []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketSlots).Get([]byte(slot))
		if v == nil {
			return domain.ErrSlotNotFound
		}
		// bbolt 返回的切片只在事务内有效
		out = append([]byte(nil), v...)
		return nil
	})
	return out, err
}

func (s *BoltSlotStore) Put(_ context.Context, slot string, value []byte) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketSlots).Put([]byte(slot), value)
	})
}

func (s *BoltSlotStore) Delete(_ context.Context, slot string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketSlots).Delete([]byte(slot))
	})
}

func (s *BoltSlotStore) Close() error {
	return s.db.Close()
}
