package cmd

import (
	"context"
	"fmt"
	"os"

	internalApp "github.com/haierkeys/clipbook-service/internal/app"
	"github.com/haierkeys/clipbook-service/internal/dao"
	"github.com/haierkeys/clipbook-service/pkg/fileurl"
	"github.com/haierkeys/clipbook-service/pkg/logger"

	"go.uber.org/zap"
)

// openLocalApp builds an App from the config file for one-shot CLI commands.
// Logs go to stderr only, at warn level unless DEBUG is set.
// openLocalApp 为一次性命令行命令从配置文件构建 App，日志只写 stderr，未设置 DEBUG 时为 warn 级别
func openLocalApp(ctx context.Context, configPath string) (*internalApp.App, error) {
	if configPath == "" {
		p, err := resolveConfigPath(false)
		if err != nil {
			return nil, err
		}
		configPath = p
	}

	var cfg *internalApp.AppConfig
	if fileurl.IsExist(configPath) {
		c, _, err := internalApp.LoadConfig(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = c
	} else {
		c, err := internalApp.ParseConfig([]byte(configDefault))
		if err != nil {
			return nil, fmt.Errorf("failed to parse default config: %w", err)
		}
		cfg = c
	}

	logCfg := cfg.GetLoggerConfig()
	logCfg.File = ""
	logCfg.Level = "warn"
	if os.Getenv("DEBUG") != "" {
		logCfg.Level = "debug"
	}
	lg, err := logger.NewLogger(logCfg)
	if err != nil {
		return nil, fmt.Errorf("initLogger: %w", err)
	}

	if err := initStorageWithConfig(cfg); err != nil {
		return nil, fmt.Errorf("initStorage: %w", err)
	}

	slots, err := dao.NewSlotStore(cfg.GetStorageConfig(), lg)
	if err != nil {
		return nil, fmt.Errorf("initSlotStore: %w", err)
	}

	a, err := internalApp.NewApp(ctx, cfg, lg, slots)
	if err != nil {
		_ = slots.Close()
		return nil, err
	}
	return a, nil
}

// closeLocalApp waits for pending saves and releases the store
// closeLocalApp 等待未完成的保存并释放存储
func closeLocalApp(a *internalApp.App) {
	ctx, cancel := context.WithTimeout(context.Background(), DefaultShutdownTimeout)
	defer cancel()
	if err := a.Shutdown(ctx); err != nil {
		a.Logger().Warn("shutdown", zap.Error(err))
	}
}

