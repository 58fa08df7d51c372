package task

import (
	"context"
	"fmt"
	"time"

	"github.com/haierkeys/clipbook-service/pkg/safe_close"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Task 定义任务接口
type Task interface {
	Name() string                  // 任务名称
	Run(ctx context.Context) error // 执行任务
	Spec() string                  // cron 表达式，支持 @every 1h 等描述符
	IsStartupRun() bool            // 是否立即执行一次
}

// specParser accepts five-field expressions and descriptors
// specParser 支持五段式表达式与描述符
var specParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// ParseSpec 解析 cron 表达式
func ParseSpec(spec string) (cron.Schedule, error) {
	schedule, err := specParser.Parse(spec)
	if err != nil {
		return nil, fmt.Errorf("parse cron spec %q: %w", spec, err)
	}
	return schedule, nil
}

type scheduledTask struct {
	task     Task
	schedule cron.Schedule
}

// Scheduler 任务调度器
type Scheduler struct {
	logger *zap.Logger
	tasks  []scheduledTask
	sc     *safe_close.SafeClose
	now    func() time.Time
}

// NewScheduler 创建任务调度器
func NewScheduler(logger *zap.Logger, sc *safe_close.SafeClose) *Scheduler {
	return &Scheduler{
		logger: logger,
		sc:     sc,
		now:    time.Now,
	}
}

// AddTask 添加任务，cron 表达式无效时返回错误
func (s *Scheduler) AddTask(task Task) error {
	schedule, err := ParseSpec(task.Spec())
	if err != nil {
		return err
	}
	s.tasks = append(s.tasks, scheduledTask{task: task, schedule: schedule})
	return nil
}

// Len 已添加的任务数
func (s *Scheduler) Len() int {
	return len(s.tasks)
}

// Start 启动所有任务
func (s *Scheduler) Start() {
	if len(s.tasks) == 0 {
		s.logger.Info("no tasks to schedule")
		return
	}

	s.logger.Info("tasks starting ", zap.Int("count", len(s.tasks)))

	for _, st := range s.tasks {
		s.startTask(st)
	}
}

// startTask 启动单个任务
func (s *Scheduler) startTask(st scheduledTask) {
	task := st.task

	s.sc.Attach(func(done func(), closeSignal <-chan struct{}) {
		defer done()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		// 如果任务需要立即执行
		if task.IsStartupRun() {
			s.runOnce(ctx, task, "startupRun")
		}

		for {
			next := st.schedule.Next(s.now())
			if next.IsZero() {
				return
			}
			timer := time.NewTimer(next.Sub(s.now()))

			select {
			case <-timer.C:
				s.runOnce(ctx, task, "loopRun")
			case <-closeSignal:
				timer.Stop()
				s.logger.Info("task stopped", zap.String("name", task.Name()))
				return
			}
		}
	})
}

// runOnce runs the task and turns a panic into an error log
// runOnce 执行一次任务，panic 转为错误日志
func (s *Scheduler) runOnce(ctx context.Context, task Task, mode string) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("task panic",
				zap.String("name", task.Name()),
				zap.String("mode", mode),
				zap.Any("panic", r),
				zap.Stack("stack"))
		}
	}()

	s.logger.Info("task running", zap.String("name", task.Name()), zap.String("mode", mode))
	if err := task.Run(ctx); err != nil {
		s.logger.Error("task running error",
			zap.String("name", task.Name()),
			zap.String("mode", mode),
			zap.Error(err))
	}
}
