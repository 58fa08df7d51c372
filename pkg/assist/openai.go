package assist

import (
	"context"
	"fmt"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	openai "github.com/sashabaranov/go-openai"
	"github.com/sashabaranov/go-openai/jsonschema"
)

// OpenAIGateway implements Gateway with chat completions and JSON output
// OpenAIGateway 使用 chat completions 与 JSON 输出实现 Gateway
type OpenAIGateway struct {
	client   *openai.Client
	cfg      Config
	validate *validator.Validate
}

var _ Gateway = (*OpenAIGateway)(nil)

// NewOpenAIGateway 创建 OpenAI 网关
func NewOpenAIGateway(cfg Config) *OpenAIGateway {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	if cfg.Model == "" {
		cfg.Model = openai.GPT4oMini
	}
	if cfg.MaxToolRounds <= 0 {
		cfg.MaxToolRounds = 4
	}
	if cfg.MaxTags <= 0 {
		cfg.MaxTags = 8
	}
	return &OpenAIGateway{
		client:   openai.NewClientWithConfig(clientConfig),
		cfg:      cfg,
		validate: validator.New(),
	}
}

func (g *OpenAIGateway) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if g.cfg.Timeout > 0 {
		return context.WithTimeout(ctx, g.cfg.Timeout)
	}
	return context.WithCancel(ctx)
}

// Summarize asks for a JSON {"summary": ...} object
// Summarize 请求返回 JSON {"summary": ...}
func (g *OpenAIGateway) Summarize(ctx context.Context, content string) (*Summary, error) {
	content, err := PrepareContent(content, g.cfg.MaxContentChars)
	if err != nil {
		return nil, err
	}
	ctx, cancel := g.withTimeout(ctx)
	defer cancel()

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.cfg.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: summarizeSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: content},
		},
		Temperature: g.cfg.Temperature,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return nil, errors.Wrap(err, "summarize completion")
	}
	if len(resp.Choices) == 0 {
		return nil, ErrNoChoices
	}

	var out Summary
	if err := sonic.Unmarshal([]byte(resp.Choices[0].Message.Content), &out); err != nil {
		return nil, errors.Wrap(err, "decode summary")
	}
	out.Summary = strings.TrimSpace(out.Summary)
	if out.Summary == "" {
		return nil, ErrEmptySummary
	}
	return &out, nil
}

type tagRelevanceArgs struct {
	Tag string `json:"tag"`
}

type suggestTagsOutput struct {
	Tags []TagSuggestion `json:"tags"`
}

func tagRelevanceTool() openai.Tool {
	return openai.Tool{
		Type: openai.ToolTypeFunction,
		Function: &openai.FunctionDefinition{
			Name:        isTagRelevantToolName,
			Description: isTagRelevantToolDescription,
			Parameters: jsonschema.Definition{
				Type: jsonschema.Object,
				Properties: map[string]jsonschema.Definition{
					"tag": {Type: jsonschema.String, Description: "The tag to check for relevance."},
				},
				Required: []string{"tag"},
			},
		},
	}
}

// SuggestTags runs the tool loop, answering isTagRelevant locally, then validates the final list
// SuggestTags 执行工具调用循环，在本地回答 isTagRelevant，最后校验建议列表
func (g *OpenAIGateway) SuggestTags(ctx context.Context, content string) ([]TagSuggestion, error) {
	content, err := PrepareContent(content, g.cfg.MaxContentChars)
	if err != nil {
		return nil, err
	}
	ctx, cancel := g.withTimeout(ctx)
	defer cancel()

	req := openai.ChatCompletionRequest{
		Model: g.cfg.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: suggestTagsSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: content},
		},
		Temperature: g.cfg.Temperature,
		Tools:       []openai.Tool{tagRelevanceTool()},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}

	for round := 0; ; round++ {
		resp, err := g.client.CreateChatCompletion(ctx, req)
		if err != nil {
			return nil, errors.Wrap(err, "suggest tags completion")
		}
		if len(resp.Choices) == 0 {
			return nil, ErrNoChoices
		}

		msg := resp.Choices[0].Message
		if len(msg.ToolCalls) == 0 {
			return g.parseSuggestions(msg.Content)
		}
		if round >= g.cfg.MaxToolRounds {
			return nil, ErrTooManyToolRounds
		}

		req.Messages = append(req.Messages, msg)
		for _, call := range msg.ToolCalls {
			req.Messages = append(req.Messages, openai.ChatCompletionMessage{
				Role:       openai.ChatMessageRoleTool,
				Content:    answerToolCall(call, content),
				ToolCallID: call.ID,
			})
		}
	}
}

func answerToolCall(call openai.ToolCall, content string) string {
	if call.Function.Name != isTagRelevantToolName {
		return fmt.Sprintf(`{"error":"unknown tool %q"}`, call.Function.Name)
	}
	var args tagRelevanceArgs
	if err := sonic.Unmarshal([]byte(call.Function.Arguments), &args); err != nil {
		return `{"error":"invalid arguments"}`
	}
	if IsTagRelevant(content, args.Tag) {
		return "true"
	}
	return "false"
}

// parseSuggestions drops entries that fail validation and repeated tags
// parseSuggestions 丢弃校验失败的条目与重复标签
func (g *OpenAIGateway) parseSuggestions(raw string) ([]TagSuggestion, error) {
	var out suggestTagsOutput
	if err := sonic.Unmarshal([]byte(raw), &out); err != nil {
		return nil, errors.Wrap(err, "decode tag suggestions")
	}

	seen := make(map[string]bool, len(out.Tags))
	tags := make([]TagSuggestion, 0, len(out.Tags))
	for _, s := range out.Tags {
		s.Tag = strings.TrimSpace(s.Tag)
		if err := g.validate.Struct(s); err != nil {
			continue
		}
		key := strings.ToLower(s.Tag)
		if seen[key] {
			continue
		}
		seen[key] = true
		tags = append(tags, s)
		if len(tags) == g.cfg.MaxTags {
			break
		}
	}
	return tags, nil
}
