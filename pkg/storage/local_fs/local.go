package local_fs

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/haierkeys/clipbook-service/pkg/fileurl"

	"github.com/pkg/errors"
)

type Config struct {
	SavePath   string `yaml:"save-path"`
	CustomPath string `yaml:"custom-path"`
}

// LocalFS mirrors snapshots into a second directory, typically another disk or a synced folder
// LocalFS 将快照镜像到另一个目录，通常是另一块磁盘或同步盘
type LocalFS struct {
	Config *Config
}

func NewClient(conf *Config) (*LocalFS, error) {
	if conf == nil || conf.SavePath == "" {
		return nil, errors.New("local_fs: save-path is required")
	}
	return &LocalFS{Config: conf}, nil
}

func (p *LocalFS) getSavePath(key string) string {
	return filepath.Join(p.Config.SavePath, p.Config.CustomPath, filepath.FromSlash(key))
}

func (p *LocalFS) SendContent(ctx context.Context, key string, content []byte, modTime time.Time) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	dst := p.getSavePath(key)
	if err := fileurl.WriteFileAtomic(dst, content, 0o600); err != nil {
		return "", errors.Wrap(err, "local_fs")
	}
	if !modTime.IsZero() {
		if err := os.Chtimes(dst, modTime, modTime); err != nil {
			return "", errors.Wrap(err, "local_fs")
		}
	}
	return dst, nil
}

func (p *LocalFS) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	dst := p.getSavePath(key)
	if fileurl.IsExist(dst) {
		return os.Remove(dst)
	}
	return nil
}
