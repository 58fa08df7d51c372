package webdav

import (
	"context"
	"os"
	"path"
	"time"

	"github.com/pkg/errors"
	"github.com/studio-b12/gowebdav"
)

// Config 结构体用于存储 WebDAV 连接信息。
type Config struct {
	Endpoint   string `yaml:"endpoint"`
	User       string `yaml:"user"`
	Password   string `yaml:"password"`
	CustomPath string `yaml:"custom-path"`
}

// WebDAV 结构体表示 WebDAV 客户端。
type WebDAV struct {
	Client *gowebdav.Client
	Config *Config
}

// NewClient 创建一个新的 WebDAV 客户端实例。
func NewClient(conf *Config) (*WebDAV, error) {
	if conf == nil || conf.Endpoint == "" {
		return nil, errors.New("webdav: endpoint is required")
	}
	c := gowebdav.NewClient(conf.Endpoint, conf.User, conf.Password)
	return &WebDAV{Client: c, Config: conf}, nil
}

func (w *WebDAV) filePath(key string) string {
	return path.Join("/", w.Config.CustomPath, key)
}

// SendContent 将内容上传到 WebDAV 服务器
func (w *WebDAV) SendContent(ctx context.Context, key string, content []byte, _ time.Time) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	fileKey := w.filePath(key)

	if err := w.Client.MkdirAll(path.Dir(fileKey), 0o755); err != nil {
		return "", errors.Wrap(err, "webdav")
	}

	if err := w.Client.Write(fileKey, content, os.FileMode(0o644)); err != nil {
		return "", errors.Wrap(err, "webdav")
	}
	return fileKey, nil
}

func (w *WebDAV) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := w.Client.Remove(w.filePath(key))
	if err != nil && gowebdav.IsErrNotFound(err) {
		return nil
	}
	return errors.Wrap(err, "webdav")
}
