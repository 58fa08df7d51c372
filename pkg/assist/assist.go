// Package assist talks to a language model for note summaries and tag suggestions
// Package assist 调用大模型生成笔记摘要与标签建议
package assist

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

var (
	// ErrDisabled 未配置 API Key
	ErrDisabled = errors.New("assist: gateway disabled")
	// ErrEmptyContent 内容为空
	ErrEmptyContent = errors.New("assist: content is empty")
	// ErrNoChoices 上游未返回结果
	ErrNoChoices = errors.New("assist: upstream returned no choices")
	// ErrTooManyToolRounds 工具调用轮次超限
	ErrTooManyToolRounds = errors.New("assist: too many tool rounds")
	// ErrEmptySummary 上游返回空摘要
	ErrEmptySummary = errors.New("assist: upstream returned an empty summary")
)

// Summary 摘要结果
type Summary struct {
	Summary string `json:"summary"`
}

// TagSuggestion 标签建议
type TagSuggestion struct {
	Tag            string  `json:"tag" validate:"required,max=64"`
	RelevanceScore float64 `json:"relevanceScore" validate:"gte=0,lte=1"`
}

// Gateway is the request/response boundary to the upstream model
// Gateway 与上游模型之间的请求/响应边界
type Gateway interface {
	Summarize(ctx context.Context, content string) (*Summary, error)
	SuggestTags(ctx context.Context, content string) ([]TagSuggestion, error)
}

// Config 网关配置
type Config struct {
	APIKey          string
	BaseURL         string
	Model           string
	Timeout         time.Duration
	Temperature     float32
	MaxContentChars int
	MaxToolRounds   int
	MaxTags         int
}

// New returns the OpenAI gateway, or a disabled one when no API key is configured
// New 返回 OpenAI 网关，未配置 API Key 时返回禁用网关
func New(cfg Config) Gateway {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return Disabled{}
	}
	return NewOpenAIGateway(cfg)
}

// Disabled fails every call with ErrDisabled
// Disabled 所有调用都返回 ErrDisabled
type Disabled struct{}

var _ Gateway = Disabled{}

func (Disabled) Summarize(context.Context, string) (*Summary, error) {
	return nil, ErrDisabled
}

func (Disabled) SuggestTags(context.Context, string) ([]TagSuggestion, error) {
	return nil, ErrDisabled
}

// PrepareContent trims content and cuts it to max characters (0 means no limit)
// PrepareContent 去除首尾空白并截断到 max 个字符（0 表示不限制）
func PrepareContent(content string, max int) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", ErrEmptyContent
	}
	if max > 0 && utf8.RuneCountInString(content) > max {
		content = string([]rune(content)[:max])
	}
	return content, nil
}

// IsTagRelevant reports whether the note content mentions the tag, ignoring case
// IsTagRelevant 判断笔记内容是否提及该标签（忽略大小写）
func IsTagRelevant(content, tag string) bool {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return false
	}
	return strings.Contains(strings.ToLower(content), strings.ToLower(tag))
}
