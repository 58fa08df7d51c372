// Package app 提供应用容器，封装所有依赖和服务
package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/haierkeys/clipbook-service/internal/dao"
	"github.com/haierkeys/clipbook-service/internal/domain"
	"github.com/haierkeys/clipbook-service/internal/service"
	pkgapp "github.com/haierkeys/clipbook-service/pkg/app"
	"github.com/haierkeys/clipbook-service/pkg/assist"
	"github.com/haierkeys/clipbook-service/pkg/workerpool"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// App 应用容器，封装所有依赖和服务
type App struct {
	// 基础设施（注入的依赖）
	config *AppConfig
	logger *zap.Logger
	Slots  domain.SlotStore
	Store  domain.NoteStore

	// 并发控制组件
	workerPool *workerpool.Pool

	// Service 层
	NoteService        service.NoteService
	NoteHistoryService service.NoteHistoryService
	AssistService      service.AssistService
	RenderService      service.NoteRenderService

	// StartTime 启动时间，用于健康检查的运行时长
	StartTime time.Time

	// 关闭控制
	shutdownCh chan struct{}
	wg         sync.WaitGroup
}

// Option 应用容器可选项
type Option func(*options)

type options struct {
	gateway  assist.Gateway
	registry prometheus.Registerer
	now      func() time.Time
}

// WithGateway 替换 AI 网关
func WithGateway(gw assist.Gateway) Option {
	return func(o *options) { o.gateway = gw }
}

// WithRegisterer 指定 Prometheus 注册器，默认 prometheus.DefaultRegisterer
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(o *options) { o.registry = reg }
}

// WithClock 替换时钟
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// NewApp 创建应用容器实例
// 初始化所有依赖并进行依赖注入，并从存储加载笔记
// cfg: 应用配置（必须）
// logger: zap 日志器（必须）
// slots: 槽位存储（必须）
func NewApp(ctx context.Context, cfg *AppConfig, logger *zap.Logger, slots domain.SlotStore, opts ...Option) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if slots == nil {
		return nil, fmt.Errorf("slot store is required")
	}

	o := options{registry: prometheus.DefaultRegisterer, now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	if o.gateway == nil {
		o.gateway = assist.New(cfg.GetAssistConfig())
	}

	a := &App{
		config:     cfg,
		logger:     logger,
		Slots:      slots,
		StartTime:  o.now(),
		shutdownCh: make(chan struct{}),
	}

	// 初始化 Worker Pool
	wpConfig := cfg.GetWorkerPoolConfig()
	a.workerPool = workerpool.New(&wpConfig, logger)

	a.Store = dao.NewNoteStore(slots, logger, dao.WithClock(o.now))

	// 创建 ServiceConfig（从 AppConfig 提取 Service 层需要的配置）
	svcConfig := &service.ServiceConfig{
		Notes: service.NoteServiceConfig{
			WelcomeReadOnly: cfg.WelcomeReadOnly(),
		},
	}

	// 初始化 Service 层（依赖注入）
	lifecycle := service.NewLifecycle(o.now, svcConfig.Notes.WelcomeReadOnly)
	a.NoteService = service.NewNoteService(a.Store, lifecycle, logger)
	a.NoteHistoryService = service.NewNoteHistoryService(a.NoteService, logger)
	a.AssistService = service.NewAssistService(o.gateway, a.NoteService, a.workerPool, o.registry, logger)
	a.RenderService = service.NewNoteRenderService(a.NoteService)

	if err := a.NoteService.Init(ctx); err != nil {
		_ = a.workerPool.Shutdown(ctx)
		return nil, fmt.Errorf("load notes: %w", err)
	}

	_, assistDisabled := o.gateway.(assist.Disabled)
	logger.Info("App container initialized successfully",
		zap.String("storage", cfg.Storage.Type),
		zap.Bool("assistEnabled", !assistDisabled),
		zap.Int("workerPoolMaxWorkers", wpConfig.MaxWorkers))

	return a, nil
}

// Close 释放应用容器持有的资源
func (a *App) Close() error {
	if a.Slots != nil {
		if err := a.Slots.Close(); err != nil {
			return fmt.Errorf("failed to close storage: %w", err)
		}
		a.logger.Info("Storage closed")
	}
	return nil
}

// Config 获取应用配置
func (a *App) Config() *AppConfig {
	return a.config
}

// Logger 获取日志器
func (a *App) Logger() *zap.Logger {
	return a.logger
}

// SubmitTask 提交任务到 Worker Pool
// 返回错误如果池已满或已关闭
func (a *App) SubmitTask(ctx context.Context, task func(context.Context) error) error {
	return a.workerPool.Submit(ctx, task)
}

// Version 获取版本信息
func (a *App) Version() pkgapp.VersionInfo {
	return pkgapp.VersionInfo{
		Version:   Version,
		GitTag:    GitTag,
		BuildTime: BuildTime,
	}
}

// IsProductionMode 是否为生产模式
// 根据日志配置中的 Production 字段判断
func (a *App) IsProductionMode() bool {
	return a.config.Log.Production
}

// WorkerPool 获取 Worker Pool（用于高级操作）
func (a *App) WorkerPool() *workerpool.Pool {
	return a.workerPool
}

// StorageReachable reports whether the notes slot can be read
// StorageReachable 检查 notes 槽位是否可读
func (a *App) StorageReachable(ctx context.Context) error {
	_, err := a.Slots.Get(ctx, domain.SlotNotes)
	if err != nil && !errors.Is(err, domain.ErrSlotNotFound) {
		return err
	}
	return nil
}

// DefaultShutdownTimeout 默认关闭超时时间
const DefaultShutdownTimeout = 30 * time.Second

// Shutdown 优雅关闭应用容器
// 按顺序关闭：Worker Pool -> 后台操作 -> Storage
// ctx 用于控制关闭超时，如果为 nil 则使用默认 30 秒超时
func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("App container shutting down...")

	// 如果没有提供 context，使用默认超时
	if ctx == nil {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(context.Background(), DefaultShutdownTimeout)
		defer cancel()
	}

	// 标记关闭
	select {
	case <-a.shutdownCh:
		// 已经关闭
		return nil
	default:
		close(a.shutdownCh)
	}

	var errs []error

	// 1. 关闭 Worker Pool（停止接受新任务，等待现有任务完成）
	if a.workerPool != nil {
		a.logger.Info("Shutting down worker pool...")
		if err := a.workerPool.Shutdown(ctx); err != nil {
			a.logger.Warn("Worker pool shutdown error", zap.Error(err))
			errs = append(errs, fmt.Errorf("worker pool shutdown: %w", err))
		}
	}

	// 2. 等待所有后台操作完成
	done := make(chan struct{})
	go func() {
		a.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		a.logger.Info("All background operations completed")
	case <-ctx.Done():
		a.logger.Warn("Shutdown timeout waiting for background operations")
		errs = append(errs, fmt.Errorf("background operations timeout: %w", ctx.Err()))
	}

	// 3. 关闭存储
	if err := a.Close(); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		a.logger.Warn("App container shutdown completed with errors",
			zap.Int("errorCount", len(errs)))
		return fmt.Errorf("shutdown completed with %d errors: %v", len(errs), errs)
	}

	a.logger.Info("App container shutdown completed successfully")
	return nil
}

// IsShuttingDown 检查应用是否正在关闭
func (a *App) IsShuttingDown() bool {
	select {
	case <-a.shutdownCh:
		return true
	default:
		return false
	}
}

// ShutdownCh 返回关闭信号通道（用于监听关闭事件）
func (a *App) ShutdownCh() <-chan struct{} {
	return a.shutdownCh
}

// TrackOperation 跟踪后台操作（用于优雅关闭时等待）
// 返回一个函数，在操作完成时调用
func (a *App) TrackOperation() func() {
	a.wg.Add(1)
	return func() {
		a.wg.Done()
	}
}
