package aliyun_oss

import (
	"bytes"
	"context"
	"path"
	"time"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	"github.com/pkg/errors"
)

type Config struct {
	Endpoint        string `yaml:"endpoint"`
	BucketName      string `yaml:"bucket-name"`
	AccessKeyID     string `yaml:"access-key-id"`
	AccessKeySecret string `yaml:"access-key-secret"`
	CustomPath      string `yaml:"custom-path"`
}

type OSS struct {
	Client *oss.Client
	Bucket *oss.Bucket
	Config *Config
}

func NewClient(conf *Config) (*OSS, error) {
	if conf == nil || conf.BucketName == "" {
		return nil, errors.New("aliyun_oss: bucket-name is required")
	}
	client, err := oss.New(conf.Endpoint, conf.AccessKeyID, conf.AccessKeySecret)
	if err != nil {
		return nil, errors.Wrap(err, "aliyun_oss")
	}
	bucket, err := client.Bucket(conf.BucketName)
	if err != nil {
		return nil, errors.Wrap(err, "aliyun_oss")
	}
	return &OSS{Client: client, Bucket: bucket, Config: conf}, nil
}

func (p *OSS) objectKey(key string) string {
	return path.Join(p.Config.CustomPath, key)
}

func (p *OSS) SendContent(ctx context.Context, key string, content []byte, modTime time.Time) (string, error) {
	fileKey := p.objectKey(key)
	opts := []oss.Option{oss.WithContext(ctx), oss.ContentType("application/json")}
	if !modTime.IsZero() {
		opts = append(opts, oss.Meta("modification-time", modTime.UTC().Format(time.RFC3339)))
	}
	if err := p.Bucket.PutObject(fileKey, bytes.NewReader(content), opts...); err != nil {
		return "", errors.Wrap(err, "aliyun_oss")
	}
	return p.Config.BucketName + "/" + fileKey, nil
}

func (p *OSS) Delete(ctx context.Context, key string) error {
	return errors.Wrap(p.Bucket.DeleteObject(p.objectKey(key), oss.WithContext(ctx)), "aliyun_oss")
}
