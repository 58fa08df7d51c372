// Package aws_s3 talks to S3 and S3-compatible stores (Cloudflare R2, MinIO)
// Package aws_s3 对接 S3 及兼容 S3 的存储（Cloudflare R2、MinIO）
package aws_s3

import (
	"bytes"
	"context"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type Config struct {
	Region          string `yaml:"region"`
	Endpoint        string `yaml:"endpoint"`
	UsePathStyle    bool   `yaml:"use-path-style"`
	BucketName      string `yaml:"bucket-name"`
	AccessKeyID     string `yaml:"access-key-id"`
	AccessKeySecret string `yaml:"access-key-secret"`
	CustomPath      string `yaml:"custom-path"`
}

type S3 struct {
	S3Client *s3.Client
	Config   *Config
	logger   *zap.Logger
}

// Option 配置选项函数类型
type Option func(*S3)

// WithLogger 设置日志器
func WithLogger(logger *zap.Logger) Option {
	return func(s *S3) {
		s.logger = logger
	}
}

// NewClient 创建 S3 存储实例
// opts 可选参数用于配置日志器等选项
func NewClient(conf *Config, opts ...Option) (*S3, error) {
	if conf == nil || conf.BucketName == "" {
		return nil, errors.New("aws_s3: bucket-name is required")
	}

	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(conf.AccessKeyID, conf.AccessKeySecret, "")),
		config.WithRegion(conf.Region),
	)
	if err != nil {
		return nil, errors.Wrap(err, "aws_s3")
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if conf.Endpoint != "" {
			o.BaseEndpoint = aws.String(conf.Endpoint)
		}
		o.UsePathStyle = conf.UsePathStyle
	})

	p := &S3{
		S3Client: client,
		Config:   conf,
		logger:   zap.NewNop(), // 默认空日志器
	}
	// 应用选项
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// ObjectKey 拼接自定义前缀后的对象键
func (p *S3) ObjectKey(key string) string {
	return path.Join(p.Config.CustomPath, key)
}

func (p *S3) SendContent(ctx context.Context, key string, content []byte, modTime time.Time) (string, error) {
	bucket := p.Config.BucketName
	fileKey := p.ObjectKey(key)

	input := &s3.PutObjectInput{
		Bucket:            aws.String(bucket),
		Key:               aws.String(fileKey),
		Body:              bytes.NewReader(content),
		ContentType:       aws.String("application/json"),
		ChecksumAlgorithm: types.ChecksumAlgorithmSha256,
	}
	if !modTime.IsZero() {
		input.Metadata = map[string]string{
			"modification-time": modTime.UTC().Format(time.RFC3339),
		}
	}

	if _, err := p.S3Client.PutObject(ctx, input); err != nil {
		var noBucket *types.NoSuchBucket
		if errors.As(err, &noBucket) {
			p.logger.Warn("bucket does not exist", zap.String("bucket", bucket), zap.Error(err))
		}
		return "", errors.Wrap(err, "aws_s3")
	}
	return bucket + "/" + fileKey, nil
}

func (p *S3) Delete(ctx context.Context, key string) error {
	_, err := p.S3Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(p.Config.BucketName),
		Key:    aws.String(p.ObjectKey(key)),
	})
	return errors.Wrap(err, "aws_s3")
}
