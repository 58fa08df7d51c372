// Package dao 提供笔记集合的持久化实现
package dao

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/haierkeys/clipbook-service/internal/domain"
	"github.com/haierkeys/clipbook-service/pkg/fileurl"
	"github.com/haierkeys/clipbook-service/pkg/util"

	"github.com/glebarez/sqlite"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

// Storage backend types
// 存储后端类型
const (
	TypeFile     = "file"
	TypeBolt     = "bolt"
	TypeSqlite   = "sqlite"
	TypeMysql    = "mysql"
	TypePostgres = "postgres"
	TypeMemory   = "memory"
)

// Config 存储配置
type Config struct {
	// Type 存储后端 file | bolt | sqlite | mysql | postgres | memory
	Type string
	// Path file 后端为目录，bolt 与 sqlite 后端为数据库文件
	Path string
	// Passphrase file 后端的静态加密口令，为空时不加密
	Passphrase string

	UserName    string
	Password    string
	Host        string
	Port        int
	Name        string
	TablePrefix string
	Charset     string
	SSLMode     string

	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime string
	RunMode         string
}

// NewSlotStore opens the backend selected by cfg.Type
// NewSlotStore 根据 cfg.Type 打开对应的存储后端
func NewSlotStore(cfg *Config, lg *zap.Logger) (domain.SlotStore, error) {
	if lg == nil {
		lg = zap.NewNop()
	}
	typ := strings.ToLower(strings.TrimSpace(cfg.Type))
	lg.Info("opening slot store", zap.String("backend", typ), zap.String("path", cfg.Path))

	switch typ {
	case TypeFile:
		return NewFileSlotStore(cfg.Path, cfg.Passphrase)
	case TypeBolt:
		return NewBoltSlotStore(cfg.Path)
	case TypeSqlite, TypeMysql, TypePostgres:
		db, err := NewDBEngine(cfg)
		if err != nil {
			return nil, err
		}
		return NewGormSlotStore(db)
	case TypeMemory:
		return NewMemorySlotStore(), nil
	}
	return nil, errors.Errorf("unknown storage type %q", cfg.Type)
}

// NewDBEngine opens a gorm connection for the sql backends
// NewDBEngine 为 sql 类后端打开 gorm 连接
func NewDBEngine(c *Config) (*gorm.DB, error) {
	dialector, err := userDialector(c)
	if err != nil {
		return nil, err
	}

	logLevel := logger.Silent
	if c.RunMode == "debug" {
		logLevel = logger.Info
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
		NamingStrategy: schema.NamingStrategy{
			TablePrefix:   c.TablePrefix, // 表名前缀，`Slot` 的表名应该是 `t_slot`
			SingularTable: true,          // 使用单数表名
		},
	})
	if err != nil {
		return nil, errors.Wrap(err, "open database")
	}

	// 获取通用数据库对象 sql.DB ，然后使用其提供的功能
	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "get sql.DB")
	}
	if c.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(c.MaxIdleConns)
	}
	if c.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(c.MaxOpenConns)
	}
	sqlDB.SetConnMaxLifetime(util.ParseDurationOr(c.ConnMaxLifetime, 30*time.Minute))

	return db, nil
}

func userDialector(c *Config) (gorm.Dialector, error) {
	switch strings.ToLower(c.Type) {
	case TypeMysql:
		charset := c.Charset
		if charset == "" {
			charset = "utf8mb4"
		}
		return mysql.Open(fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=true&loc=Local",
			c.UserName,
			c.Password,
			c.Host,
			c.Port,
			c.Name,
			charset,
		)), nil
	case TypePostgres:
		sslMode := c.SSLMode
		if sslMode == "" {
			sslMode = "disable"
		}
		return postgres.Open(fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			c.Host,
			c.Port,
			c.UserName,
			c.Password,
			c.Name,
			sslMode,
		)), nil
	case TypeSqlite:
		if !fileurl.IsExist(c.Path) {
			if err := fileurl.CreatePath(c.Path, os.ModePerm); err != nil {
				return nil, errors.Wrap(err, "create sqlite dir")
			}
		}
		return sqlite.Open(c.Path), nil
	}
	return nil, errors.Errorf("unsupported database type %q", c.Type)
}
