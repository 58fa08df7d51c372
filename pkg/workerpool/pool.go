// Package workerpool bounds how many upstream calls run at once
// Package workerpool 限制同时运行的上游调用数量
package workerpool

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

var (
	// ErrWorkerPoolFull 当任务队列已满时返回
	ErrWorkerPoolFull = errors.New("worker pool queue is full")
	// ErrWorkerPoolClosed 当 Worker Pool 已关闭时返回
	ErrWorkerPoolClosed = errors.New("worker pool is closed")
	// ErrTaskCancelled 当任务在开始前被取消时返回
	ErrTaskCancelled = errors.New("task was cancelled")
)

// Config Worker Pool 配置
type Config struct {
	// MaxWorkers 最大并发 worker 数量，默认 4
	MaxWorkers int
	// QueueSize 任务队列大小，默认 64
	QueueSize int
	// WarningPercent 告警阈值百分比，默认 0.8 (80%)
	WarningPercent float64
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	return Config{
		MaxWorkers:     4,
		QueueSize:      64,
		WarningPercent: 0.8,
	}
}

type taskWrapper struct {
	ctx  context.Context
	fn   func(context.Context) error
	done chan error
}

// Pool runs submitted functions on a fixed set of workers
// Pool 在固定数量的 worker 上执行提交的函数
type Pool struct {
	config Config
	logger *zap.Logger

	taskCh   chan taskWrapper
	workerWg sync.WaitGroup

	activeCount atomic.Int64

	mu     sync.RWMutex
	closed bool
}

// New 创建新的 Worker Pool，cfg 为 nil 时使用默认配置
func New(cfg *Config, logger *zap.Logger) *Pool {
	c := DefaultConfig()
	if cfg != nil {
		c = *cfg
	}
	if c.MaxWorkers <= 0 {
		c.MaxWorkers = 4
	}
	if c.QueueSize <= 0 {
		c.QueueSize = 64
	}
	if c.WarningPercent <= 0 || c.WarningPercent > 1 {
		c.WarningPercent = 0.8
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	p := &Pool{
		config: c,
		logger: logger,
		taskCh: make(chan taskWrapper, c.QueueSize),
	}
	for i := 0; i < c.MaxWorkers; i++ {
		p.workerWg.Add(1)
		go p.worker()
	}

	p.logger.Info("worker pool started",
		zap.Int("maxWorkers", c.MaxWorkers),
		zap.Int("queueSize", c.QueueSize))
	return p
}

func (p *Pool) worker() {
	defer p.workerWg.Done()
	for task := range p.taskCh {
		p.executeTask(task)
	}
}

func (p *Pool) executeTask(task taskWrapper) {
	active := p.activeCount.Add(1)
	defer p.activeCount.Add(-1)

	if threshold := int64(float64(p.config.MaxWorkers) * p.config.WarningPercent); active >= threshold && threshold > 0 {
		p.logger.Warn("worker pool approaching capacity",
			zap.Int64("activeCount", active),
			zap.Int("maxWorkers", p.config.MaxWorkers))
	}

	var err error
	if task.ctx.Err() != nil {
		err = ErrTaskCancelled
	} else {
		err = task.fn(task.ctx)
	}
	if task.done != nil {
		task.done <- err
	}
}

// Submit queues fn and waits for its result or for ctx to end
// Submit 提交任务并等待执行结果或 ctx 结束
func (p *Pool) Submit(ctx context.Context, fn func(context.Context) error) error {
	done := make(chan error, 1)
	if err := p.enqueue(taskWrapper{ctx: ctx, fn: fn, done: done}); err != nil {
		return err
	}
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// SubmitAsync queues fn without waiting
// SubmitAsync 异步提交任务（不等待结果）
func (p *Pool) SubmitAsync(ctx context.Context, fn func(context.Context) error) error {
	return p.enqueue(taskWrapper{ctx: ctx, fn: fn})
}

func (p *Pool) enqueue(task taskWrapper) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrWorkerPoolClosed
	}
	select {
	case p.taskCh <- task:
		return nil
	default:
		return ErrWorkerPoolFull
	}
}

// ActiveCount 返回当前活跃任务数
func (p *Pool) ActiveCount() int64 {
	return p.activeCount.Load()
}

// Shutdown stops accepting tasks and waits for queued ones, bounded by ctx
// Shutdown 停止接收任务并等待队列中的任务完成，受 ctx 约束
func (p *Pool) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.taskCh)
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.workerWg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.logger.Info("worker pool shutdown completed")
		return nil
	case <-ctx.Done():
		p.logger.Warn("worker pool shutdown timeout")
		return ctx.Err()
	}
}

// Metrics Worker Pool 指标
type Metrics struct {
	MaxWorkers    int   `json:"maxWorkers"`
	ActiveCount   int64 `json:"activeCount"`
	QueuedCount   int   `json:"queuedCount"`
	QueueCapacity int   `json:"queueCapacity"`
	IsClosed      bool  `json:"isClosed"`
}

// GetMetrics 获取当前指标
func (p *Pool) GetMetrics() Metrics {
	p.mu.RLock()
	closed := p.closed
	p.mu.RUnlock()

	return Metrics{
		MaxWorkers:    p.config.MaxWorkers,
		ActiveCount:   p.activeCount.Load(),
		QueuedCount:   len(p.taskCh),
		QueueCapacity: p.config.QueueSize,
		IsClosed:      closed,
	}
}
