package dao

import (
	"context"
	"time"

	"github.com/haierkeys/clipbook-service/internal/domain"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Slot is the row behind GormSlotStore
// Slot GormSlotStore 使用的数据行
type Slot struct {
	Key       string `gorm:"column:key;primaryKey;size:191"`
	Value     []byte `gorm:"column:value"`
	UpdatedAt time.Time
}

// GormSlotStore keeps slots in a single sql table
// GormSlotStore 将槽位保存在单张 sql 表中
type GormSlotStore struct {
	db *gorm.DB
}

var _ domain.SlotStore = (*GormSlotStore)(nil)

// NewGormSlotStore migrates the slot table
// NewGormSlotStore 自动迁移槽位表
func NewGormSlotStore(db *gorm.DB) (*GormSlotStore, error) {
	if err := db.AutoMigrate(&Slot{}); err != nil {
		return nil, errors.Wrap(err, "migrate slot table")
	}
	return &GormSlotStore{db: db}, nil
}

func (s *GormSlotStore) Get(ctx context.Context, slot string) ([]byte, error) {
	var row Slot
	err := s.db.WithContext(ctx).Where(&Slot{Key: slot}).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrSlotNotFound
	}
	if err != nil {
		return nil, err
	}
	return row.Value, nil
}

func (s *GormSlotStore) Put(ctx context.Context, slot string, value []byte) error {
	row := Slot{Key: slot, Value: value, UpdatedAt: time.Now()}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&row).Error
}

func (s *GormSlotStore) Delete(ctx context.Context, slot string) error {
	return s.db.WithContext(ctx).Where(&Slot{Key: slot}).Delete(&Slot{}).Error
}

func (s *GormSlotStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
