package task

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/haierkeys/clipbook-service/internal/app"
	"github.com/haierkeys/clipbook-service/internal/domain"
	"github.com/haierkeys/clipbook-service/pkg/fileurl"
	"github.com/haierkeys/clipbook-service/pkg/logger"
	"github.com/haierkeys/clipbook-service/pkg/seal"
	"github.com/haierkeys/clipbook-service/pkg/storage"

	"github.com/bytedance/sonic"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	backupPrefix     = "notes-"
	backupSuffix     = ".json"
	backupTimeLayout = "20060102-150405.000"
)

// NoteBackupOptions 备份任务参数
type NoteBackupOptions struct {
	Dir     string
	Keep    int
	Spec    string
	Mirrors []Mirror
	// Passphrase 非空时快照以 seal 信封写入本地和镜像
	Passphrase string
}

// Mirror is a remote copy of every snapshot; pruned snapshots are deleted there too
// Mirror 每个快照的远端副本，本地清理时同步删除
type Mirror struct {
	Name  string
	Store storage.Storager
}

// NoteBackupTask writes a timestamped JSON snapshot of the collection and prunes old ones
// NoteBackupTask 写入带时间戳的笔记集合 JSON 快照，并清理旧快照
type NoteBackupTask struct {
	snapshot func() domain.NoteCollection
	opts     NoteBackupOptions
	now      func() time.Time
	logger   *zap.Logger
}

// NewNoteBackupTask 创建笔记备份任务
func NewNoteBackupTask(snapshot func() domain.NoteCollection, opts NoteBackupOptions, now func() time.Time, logger *zap.Logger) *NoteBackupTask {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NoteBackupTask{snapshot: snapshot, opts: opts, now: now, logger: logger}
}

func (t *NoteBackupTask) Name() string {
	return "NoteBackup"
}

func (t *NoteBackupTask) Spec() string {
	return t.opts.Spec
}

func (t *NoteBackupTask) IsStartupRun() bool {
	return false
}

// Run writes one snapshot and removes all but the newest Keep snapshots
// Run 写入一次快照，只保留最新的 Keep 个
func (t *NoteBackupTask) Run(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := sonic.ConfigStd.MarshalIndent(t.snapshot(), "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshal notes")
	}
	if t.opts.Passphrase != "" {
		if data, err = seal.Seal(data, t.opts.Passphrase); err != nil {
			return errors.Wrap(err, "seal backup")
		}
	}

	now := t.now()
	name := backupPrefix + now.UTC().Format(backupTimeLayout) + backupSuffix
	path := filepath.Join(t.opts.Dir, name)
	if err := fileurl.WriteFileAtomic(path, data, 0o600); err != nil {
		return errors.Wrap(err, "write backup")
	}
	t.logger.Info("note backup written", zap.String("path", path), zap.Int(logger.FieldSize, len(data)))

	mirrorErr := t.mirror(ctx, name, data, now)

	removed, err := t.prune()
	if err != nil {
		return errors.Wrap(err, "prune backups")
	}
	if len(removed) > 0 {
		t.logger.Info("old note backups removed", zap.Strings("files", removed))
		t.unmirror(ctx, removed)
	}
	return mirrorErr
}

// mirror uploads the snapshot to every target; one failing target does not stop the others
// mirror 将快照上传到每个镜像目标，单个目标失败不影响其他目标
func (t *NoteBackupTask) mirror(ctx context.Context, name string, data []byte, modTime time.Time) error {
	var failed []string
	for _, m := range t.opts.Mirrors {
		key, err := m.Store.SendContent(ctx, name, data, modTime)
		if err != nil {
			t.logger.Warn("note backup mirror failed", zap.String(logger.FieldTarget, m.Name), zap.Error(err))
			failed = append(failed, m.Name)
			continue
		}
		t.logger.Info("note backup mirrored", zap.String(logger.FieldTarget, m.Name), zap.String(logger.FieldFileKey, key))
	}
	if len(failed) > 0 {
		return errors.Errorf("mirror backup to %s failed", strings.Join(failed, ", "))
	}
	return nil
}

func (t *NoteBackupTask) unmirror(ctx context.Context, names []string) {
	for _, m := range t.opts.Mirrors {
		for _, n := range names {
			if err := m.Store.Delete(ctx, n); err != nil {
				t.logger.Warn("note backup mirror delete failed", zap.String(logger.FieldTarget, m.Name), zap.String(logger.FieldFileKey, n), zap.Error(err))
			}
		}
	}
}

// Backups lists snapshot file names, newest first
// Backups 列出快照文件名，最新在前
func (t *NoteBackupTask) Backups() ([]string, error) {
	entries, err := os.ReadDir(t.opts.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var names []string
	for _, e := range entries {
		n := e.Name()
		if e.IsDir() || !strings.HasPrefix(n, backupPrefix) || !strings.HasSuffix(n, backupSuffix) {
			continue
		}
		names = append(names, n)
	}
	// 时间戳格式定长，字典序即时间序
	sort.Sort(sort.Reverse(sort.StringSlice(names)))
	return names, nil
}

func (t *NoteBackupTask) prune() ([]string, error) {
	if t.opts.Keep <= 0 {
		return nil, nil
	}
	names, err := t.Backups()
	if err != nil || len(names) <= t.opts.Keep {
		return nil, err
	}

	var removed []string
	for _, n := range names[t.opts.Keep:] {
		if err := os.Remove(filepath.Join(t.opts.Dir, n)); err != nil && !os.IsNotExist(err) {
			return removed, err
		}
		removed = append(removed, n)
	}
	return removed, nil
}

func init() {
	RegisterWithApp(func(appContainer *app.App) (Task, error) {
		cfg := appContainer.Config()
		if !cfg.BackupEnabled() {
			return nil, nil
		}
		lg := appContainer.Logger()

		var mirrors []Mirror
		for _, target := range cfg.BackupTargets() {
			store, err := storage.NewClient(&target, lg)
			if err != nil {
				lg.Error("backup target skipped", zap.String(logger.FieldTarget, target.Name()), zap.Error(err))
				continue
			}
			mirrors = append(mirrors, Mirror{Name: target.Name(), Store: store})
		}

		return NewNoteBackupTask(appContainer.NoteService.Snapshot, NoteBackupOptions{
			Dir:        cfg.Backup.Dir,
			Keep:       cfg.Backup.Keep,
			Spec:       cfg.Backup.Cron,
			Mirrors:    mirrors,
			Passphrase: cfg.Storage.Passphrase,
		}, nil, lg), nil
	})
}
