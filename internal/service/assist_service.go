package service

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/haierkeys/clipbook-service/internal/domain"
	"github.com/haierkeys/clipbook-service/pkg/assist"
	"github.com/haierkeys/clipbook-service/pkg/logger"
	"github.com/haierkeys/clipbook-service/pkg/workerpool"

	"github.com/jinzhu/copier"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// AssistStatus reports which assist calls are currently running
// AssistStatus 当前正在进行的 AI 调用
type AssistStatus struct {
	Summarizing    bool  `json:"summarizing"`
	SuggestingTags bool  `json:"suggestingTags"`
	SummarizeCalls int64 `json:"summarizeCalls"`
	SuggestCalls   int64 `json:"suggestCalls"`
}

// Analysis 摘要与标签建议的组合结果
type Analysis struct {
	Summary *domain.Summary        `json:"summary"`
	Tags    []domain.TagSuggestion `json:"tags"`
}

// AssistService defines the AI assist business service interface
// AssistService 定义 AI 助手业务服务接口
type AssistService interface {
	// Summarize summarizes raw content
	// Summarize 对原始内容生成摘要
	Summarize(ctx context.Context, content string) (*domain.Summary, error)

	// SummarizeNote 对指定笔记生成摘要
	SummarizeNote(ctx context.Context, id string) (*domain.Summary, error)

	// SuggestTags 对原始内容建议标签
	SuggestTags(ctx context.Context, content string) ([]domain.TagSuggestion, error)

	// SuggestTagsForNote suggests tags for a note, leaving out tags it already has
	// SuggestTagsForNote 为笔记建议标签，过滤掉已有标签
	SuggestTagsForNote(ctx context.Context, id string) ([]domain.TagSuggestion, error)

	// AnalyzeNote runs both calls concurrently; either failure fails the whole call
	// AnalyzeNote 并发执行两个调用，任一失败则整体失败
	AnalyzeNote(ctx context.Context, id string) (*Analysis, error)

	// Status 返回进行中的调用
	Status() AssistStatus
}

// assistService implementation of AssistService interface
// assistService 实现 AssistService 接口
type assistService struct {
	gateway    assist.Gateway       // Upstream gateway // 上游网关
	notes      NoteService          // Note service // 笔记服务
	pool       *workerpool.Pool     // Bounded call pool // 调用并发池
	logger     *zap.Logger          // Logger // 日志对象
	inFlight   *prometheus.GaugeVec // In-flight gauge // 进行中调用指标
	summarize  atomic.Int64
	suggesting atomic.Int64
}

// NewAssistService creates AssistService instance; reg may be nil to skip metrics registration
// NewAssistService 创建 AssistService 实例，reg 为 nil 时不注册指标
func NewAssistService(gateway assist.Gateway, notes NoteService, pool *workerpool.Pool, reg prometheus.Registerer, logger *zap.Logger) AssistService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &assistService{
		gateway:  gateway,
		notes:    notes,
		pool:     pool,
		logger:   logger,
		inFlight: registerInFlightGauge(reg),
	}
}

// registerInFlightGauge reuses an existing collector so a restarted server can register again
// registerInFlightGauge 已注册时复用已有指标，服务重启后可再次注册
func registerInFlightGauge(reg prometheus.Registerer) *prometheus.GaugeVec {
	g := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "clipbook",
		Subsystem: "assist",
		Name:      "in_flight",
		Help:      "Assist calls currently running, by operation.",
	}, []string{"op"})
	if reg == nil {
		return g
	}
	if err := reg.Register(g); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(*prometheus.GaugeVec); ok {
				return existing
			}
		}
	}
	return g
}

func (s *assistService) Summarize(ctx context.Context, content string) (*domain.Summary, error) {
	var res *assist.Summary
	err := s.run(ctx, domain.AssistOpSummarize, &s.summarize, func(ctx context.Context) error {
		var err error
		res, err = s.gateway.Summarize(ctx, content)
		return err
	})
	if err != nil {
		return nil, err
	}
	out := &domain.Summary{}
	if err := copier.Copy(out, res); err != nil {
		return nil, s.fail(domain.AssistOpSummarize, err)
	}
	return out, nil
}

func (s *assistService) SummarizeNote(ctx context.Context, id string) (*domain.Summary, error) {
	n, err := s.notes.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.Summarize(ctx, n.Content)
}

func (s *assistService) SuggestTags(ctx context.Context, content string) ([]domain.TagSuggestion, error) {
	var res []assist.TagSuggestion
	err := s.run(ctx, domain.AssistOpSuggestTags, &s.suggesting, func(ctx context.Context) error {
		var err error
		res, err = s.gateway.SuggestTags(ctx, content)
		return err
	})
	if err != nil {
		return nil, err
	}
	out := make([]domain.TagSuggestion, 0, len(res))
	if err := copier.Copy(&out, &res); err != nil {
		return nil, s.fail(domain.AssistOpSuggestTags, err)
	}
	return out, nil
}

func (s *assistService) SuggestTagsForNote(ctx context.Context, id string) ([]domain.TagSuggestion, error) {
	n, err := s.notes.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	suggestions, err := s.SuggestTags(ctx, n.Content)
	if err != nil {
		return nil, err
	}
	return domain.FilterNewSuggestions(n, suggestions), nil
}

func (s *assistService) AnalyzeNote(ctx context.Context, id string) (*Analysis, error) {
	n, err := s.notes.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	var out Analysis
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		sum, err := s.Summarize(gctx, n.Content)
		out.Summary = sum
		return err
	})
	g.Go(func() error {
		tags, err := s.SuggestTags(gctx, n.Content)
		out.Tags = domain.FilterNewSuggestions(n, tags)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *assistService) Status() AssistStatus {
	sum, sug := s.summarize.Load(), s.suggesting.Load()
	return AssistStatus{
		Summarizing:    sum > 0,
		SuggestingTags: sug > 0,
		SummarizeCalls: sum,
		SuggestCalls:   sug,
	}
}

// run executes fn on the pool while counting it as in flight
// run 在并发池中执行 fn，并计入进行中调用
func (s *assistService) run(ctx context.Context, op domain.AssistOp, counter *atomic.Int64, fn func(context.Context) error) error {
	counter.Add(1)
	gauge := s.inFlight.WithLabelValues(string(op))
	gauge.Inc()
	defer func() {
		counter.Add(-1)
		gauge.Dec()
	}()

	var err error
	if s.pool != nil {
		err = s.pool.Submit(ctx, fn)
	} else {
		err = fn(ctx)
	}
	if err != nil {
		return s.fail(op, err)
	}
	return nil
}

func (s *assistService) fail(op domain.AssistOp, err error) error {
	switch {
	case errors.Is(err, assist.ErrDisabled):
		err = domain.ErrAssistDisabled
	case errors.Is(err, assist.ErrEmptyContent):
		err = domain.ErrEmptyContent
	}
	s.logger.Warn("assist call failed", zap.String(logger.FieldOp, string(op)), zap.Error(err))
	return &domain.AssistError{Op: op, Err: err}
}
