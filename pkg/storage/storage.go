// Package storage uploads backup snapshots to remote or local mirror targets
// Package storage 将备份快照上传到远端或本地镜像目标
package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/haierkeys/clipbook-service/pkg/storage/aliyun_oss"
	"github.com/haierkeys/clipbook-service/pkg/storage/aws_s3"
	"github.com/haierkeys/clipbook-service/pkg/storage/local_fs"
	"github.com/haierkeys/clipbook-service/pkg/storage/webdav"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type Type = string

const (
	LOCAL  Type = "localfs"
	S3     Type = "s3"
	R2     Type = "r2"
	MinIO  Type = "minio"
	OSS    Type = "oss"
	WebDAV Type = "webdav"
)

// ErrInvalidType 未知的存储类型
var ErrInvalidType = errors.New("invalid storage type")

var StorageTypeMap = map[Type]bool{
	LOCAL:  true,
	S3:     true,
	R2:     true,
	MinIO:  true,
	OSS:    true,
	WebDAV: true,
}

// Config Unified storage configuration
// Config 统一存储配置
type Config struct {
	Type Type `yaml:"type"`

	// Common settings
	IsEnabled  bool   `yaml:"is-enable"`
	CustomPath string `yaml:"custom-path"`

	// Cloud Storage (S3/OSS/MinIO/R2)
	Endpoint        string `yaml:"endpoint"`
	Region          string `yaml:"region"`
	BucketName      string `yaml:"bucket-name"`
	AccessKeyID     string `yaml:"access-key-id"`
	AccessKeySecret string `yaml:"access-key-secret"`
	AccountID       string `yaml:"account-id"` // Cloudflare R2 specific

	// WebDAV
	User     string `yaml:"user"`
	Password string `yaml:"password"`

	// Local FS
	SavePath string `yaml:"save-path"`
}

// Name identifies the target in logs
// Name 日志中使用的目标名称
func (c *Config) Name() string {
	switch c.Type {
	case LOCAL:
		return fmt.Sprintf("%s:%s", c.Type, c.SavePath)
	case WebDAV:
		return fmt.Sprintf("%s:%s", c.Type, c.Endpoint)
	default:
		return fmt.Sprintf("%s:%s", c.Type, c.BucketName)
	}
}

type Storager interface {
	// SendContent stores content under key and returns the full remote key
	// SendContent 以 key 保存内容，返回完整的远端键
	SendContent(ctx context.Context, key string, content []byte, modTime time.Time) (string, error)
	Delete(ctx context.Context, key string) error
}

func NewClient(config *Config, logger *zap.Logger) (Storager, error) {
	if config == nil {
		return nil, ErrInvalidType
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	switch config.Type {
	case LOCAL:
		return local_fs.NewClient(&local_fs.Config{
			SavePath:   config.SavePath,
			CustomPath: config.CustomPath,
		})
	case S3:
		return aws_s3.NewClient(&aws_s3.Config{
			Region:          config.Region,
			Endpoint:        config.Endpoint,
			BucketName:      config.BucketName,
			AccessKeyID:     config.AccessKeyID,
			AccessKeySecret: config.AccessKeySecret,
			CustomPath:      config.CustomPath,
		}, aws_s3.WithLogger(logger))
	case R2:
		if config.AccountID == "" {
			return nil, errors.New("r2 requires account-id")
		}
		return aws_s3.NewClient(&aws_s3.Config{
			Region:          "auto",
			Endpoint:        fmt.Sprintf("https://%s.r2.cloudflarestorage.com", config.AccountID),
			BucketName:      config.BucketName,
			AccessKeyID:     config.AccessKeyID,
			AccessKeySecret: config.AccessKeySecret,
			CustomPath:      config.CustomPath,
		}, aws_s3.WithLogger(logger))
	case MinIO:
		region := config.Region
		if region == "" {
			region = "us-east-1"
		}
		return aws_s3.NewClient(&aws_s3.Config{
			Region:          region,
			Endpoint:        config.Endpoint,
			UsePathStyle:    true,
			BucketName:      config.BucketName,
			AccessKeyID:     config.AccessKeyID,
			AccessKeySecret: config.AccessKeySecret,
			CustomPath:      config.CustomPath,
		}, aws_s3.WithLogger(logger))
	case OSS:
		return aliyun_oss.NewClient(&aliyun_oss.Config{
			Endpoint:        config.Endpoint,
			BucketName:      config.BucketName,
			AccessKeyID:     config.AccessKeyID,
			AccessKeySecret: config.AccessKeySecret,
			CustomPath:      config.CustomPath,
		})
	case WebDAV:
		return webdav.NewClient(&webdav.Config{
			Endpoint:   config.Endpoint,
			User:       config.User,
			Password:   config.Password,
			CustomPath: config.CustomPath,
		})
	}
	return nil, errors.Wrapf(ErrInvalidType, "%q", config.Type)
}
