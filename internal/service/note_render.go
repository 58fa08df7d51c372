package service

import (
	"bytes"
	"context"
	"regexp"

	"github.com/microcosm-cc/bluemonday"
	"github.com/pkg/errors"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// htmlFragment matches content that already starts with an HTML tag
var htmlFragment = regexp.MustCompile(`^\s*<([a-zA-Z][a-zA-Z0-9]*)(\s[^>]*)?/?>`)

// NoteRenderService renders note content to sanitized HTML for display
// NoteRenderService 将笔记内容渲染为净化后的 HTML
type NoteRenderService interface {
	// RenderHTML 渲染指定笔记
	RenderHTML(ctx context.Context, id string) (string, error)

	// Render 渲染任意内容
	Render(content string) (string, error)
}

type noteRenderService struct {
	notes    NoteService
	md       goldmark.Markdown
	sanitize *bluemonday.Policy
}

// NewNoteRenderService creates NoteRenderService instance
// NewNoteRenderService 创建 NoteRenderService 实例
func NewNoteRenderService(notes NoteService) NoteRenderService {
	return &noteRenderService{
		notes: notes,
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			// 原始 HTML 由 bluemonday 统一净化
			goldmark.WithRendererOptions(html.WithUnsafe(), html.WithHardWraps()),
		),
		sanitize: bluemonday.UGCPolicy(),
	}
}

func (s *noteRenderService) RenderHTML(ctx context.Context, id string) (string, error) {
	n, err := s.notes.Get(ctx, id)
	if err != nil {
		return "", err
	}
	return s.Render(n.Content)
}

// Render sanitizes HTML fragments as they are and converts anything else from markdown first
// Render HTML 片段直接净化，其余内容先按 markdown 转换
func (s *noteRenderService) Render(content string) (string, error) {
	if htmlFragment.MatchString(content) {
		return s.sanitize.Sanitize(content), nil
	}

	var buf bytes.Buffer
	if err := s.md.Convert([]byte(content), &buf); err != nil {
		return "", errors.Wrap(err, "convert markdown")
	}
	return string(s.sanitize.SanitizeBytes(buf.Bytes())), nil
}
