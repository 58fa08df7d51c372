package cmd

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/haierkeys/clipbook-service/pkg/fileurl"

	"github.com/radovskyb/watcher"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type runFlags struct {
	dir     string // Project root directory // 项目根目录
	port    string // Startup port // 启动端口
	runMode string // Startup mode // 启动模式
	config  string // Specified configuration file path // 指定要使用的配置文件路径
}

func init() {
	runEnv := new(runFlags)

	var runCommand = &cobra.Command{
		Use:   "run [-c config_file] [-d working_dir] [-p port]",
		Short: "Run service",
		Run: func(cmd *cobra.Command, args []string) {
			if len(runEnv.dir) > 0 {
				err := os.Chdir(runEnv.dir)
				if err != nil {
					bootstrapLogger.Error("failed to change the current working directory", zap.Error(err))
				}
				bootstrapLogger.Info("working directory changed", zap.String("dir", runEnv.dir))
			}

			if len(runEnv.config) <= 0 {
				path, err := resolveConfigPath(true)
				if err != nil {
					bootstrapLogger.Error("config file auto create error", zap.Error(err))
					return
				}
				runEnv.config = path
			}

			s, err := NewServer(runEnv)
			if err != nil {
				bootstrapLogger.Error("api service start err", zap.Error(err))
				return
			}

			go watchConfig(runEnv, &s)

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
			<-quit

			s.logger.Info("Received shutdown signal, initiating graceful shutdown...")
			s.sc.SendCloseSignal(nil)

			// Wait for all shutdown handlers to complete (including App Container graceful shutdown)
			// 等待所有关闭处理器完成（包括 App Container 的优雅关闭）
			if err := s.sc.WaitClosed(); err != nil {
				s.logger.Error("Shutdown completed with error", zap.Error(err))
			} else {
				s.logger.Info("Service has been shut down gracefully.")
			}
		},
	}

	rootCmd.AddCommand(runCommand)
	fs := runCommand.Flags()
	fs.StringVarP(&runEnv.dir, "dir", "d", "", "run dir")
	fs.StringVarP(&runEnv.port, "port", "p", "", "run port")
	fs.StringVarP(&runEnv.runMode, "mode", "m", "", "run mode")
	fs.StringVarP(&runEnv.config, "config", "c", "", "config file")
}

// resolveConfigPath picks the first config file that exists; with create set it writes the embedded default when none does
// resolveConfigPath 选择第一个存在的配置文件；create 为 true 且均不存在时写入内置默认配置
func resolveConfigPath(create bool) (string, error) {
	for _, p := range []string{"config/config-dev.yaml", "config.yaml", "config/config.yaml"} {
		if fileurl.IsExist(p) {
			return p, nil
		}
	}

	path := "config/config.yaml"
	if !create {
		return path, nil
	}

	bootstrapLogger.Warn("config file not found, creating default config")
	if err := fileurl.CreatePath(path, os.ModePerm); err != nil {
		return "", err
	}
	if err := fileurl.WriteFileAtomic(path, []byte(configDefault), 0o644); err != nil {
		return "", err
	}
	bootstrapLogger.Info("config file auto create successfully", zap.String("path", path))
	return path, nil
}

// watchConfig restarts the server whenever the config file is written
// watchConfig 配置文件被写入时重启服务
func watchConfig(runEnv *runFlags, current **Server) {
	w := watcher.New()

	// Set MaxEvents to 1 to receive at most 1 event in each listening cycle
	// 将 SetMaxEvents 设置为 1，以便在每个监听周期中至多接收 1 个事件
	w.SetMaxEvents(1)

	// Only notify write events.
	// 只通知写入事件。
	w.FilterOps(watcher.Write)

	go func() {
		for {
			select {
			case event := <-w.Event:
				s := *current
				s.logger.Info("config watcher change", zap.String("event", event.Op.String()), zap.String("file", event.Path))
				s.sc.SendCloseSignal(nil)
				if err := s.sc.WaitClosed(); err != nil {
					s.logger.Warn("previous server closed with error", zap.Error(err))
				}

				// Re-initialize server
				// 重新初始化 server
				next, err := NewServer(runEnv)
				if err != nil {
					bootstrapLogger.Error("service start err", zap.Error(err))
					continue
				}
				*current = next

			case err := <-w.Error:
				bootstrapLogger.Error("config watcher error", zap.Error(err))
			case <-w.Closed:
				bootstrapLogger.Info("config watcher closed")
				return
			}
		}
	}()

	// Watch config.yaml file
	// 监听 config.yaml 文件
	if err := w.Add(runEnv.config); err != nil {
		bootstrapLogger.Error("config watcher file error", zap.Error(err))
		return
	}

	// Start watching
	// 启动监听
	if err := w.Start(time.Second * 5); err != nil {
		bootstrapLogger.Error("config watcher start error", zap.Error(err))
	}
}
