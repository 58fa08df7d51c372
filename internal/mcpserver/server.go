// Package mcpserver exposes the note session as Model Context Protocol tools over stdio
// Package mcpserver 通过 stdio 以 MCP 工具的形式暴露笔记会话
package mcpserver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/haierkeys/clipbook-service/internal/domain"
	"github.com/haierkeys/clipbook-service/internal/service"

	"github.com/bytedance/sonic"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"
)

const (
	ToolListNotes     = "list_notes"
	ToolGetNote       = "get_note"
	ToolCreateNote    = "create_note"
	ToolUpdateNote    = "update_note"
	ToolDeleteNote    = "delete_note"
	ToolUndoDelete    = "undo_delete"
	ToolSummarizeNote = "summarize_note"
	ToolSuggestTags   = "suggest_tags"
)

// Server wraps an MCP server bound to the note and assist services
// Server 绑定笔记服务与 AI 服务的 MCP 服务
type Server struct {
	notes  service.NoteService
	assist service.AssistService
	logger *zap.Logger
	srv    *server.MCPServer
	tools  []string
}

// New 创建 MCP 服务并注册全部工具
func New(name, version string, notes service.NoteService, assist service.AssistService, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		notes:  notes,
		assist: assist,
		logger: logger,
		srv: server.NewMCPServer(name, version,
			server.WithToolCapabilities(false),
			server.WithRecovery(),
		),
	}
	s.registerTools()
	return s
}

// MCP 返回底层 MCPServer
func (s *Server) MCP() *server.MCPServer {
	return s.srv
}

// ToolNames 已注册的工具名称，按注册顺序
func (s *Server) ToolNames() []string {
	return append([]string(nil), s.tools...)
}

// Serve reads JSON-RPC from in and writes responses to out until ctx ends or in closes
// Serve 从 in 读取 JSON-RPC 请求并写入 out，直到 ctx 结束或输入关闭
func (s *Server) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	stdio := server.NewStdioServer(s.srv)
	err := stdio.Listen(ctx, in, out)
	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func (s *Server) add(tool mcp.Tool, h server.ToolHandlerFunc) {
	s.srv.AddTool(tool, h)
	s.tools = append(s.tools, tool.Name)
}

func (s *Server) registerTools() {
	s.add(mcp.NewTool(ToolListNotes,
		mcp.WithDescription("List notes, optionally filtered by a case-insensitive search over title and content."),
		mcp.WithString("search", mcp.Description("Search text")),
		mcp.WithString("sortKey", mcp.Description("updatedAt, createdAt, title or contentLength"),
			mcp.Enum(string(domain.SortByUpdatedAt), string(domain.SortByCreatedAt), string(domain.SortByTitle), string(domain.SortByContentLength))),
		mcp.WithString("sortDirection", mcp.Description("asc or desc"), mcp.Enum(string(domain.SortAsc), string(domain.SortDesc))),
	), s.listNotes)

	s.add(mcp.NewTool(ToolGetNote,
		mcp.WithDescription("Get one note by id, including its tags and history."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Note id")),
	), s.getNote)

	s.add(mcp.NewTool(ToolCreateNote,
		mcp.WithDescription("Create a new note. Title and content are optional and applied after creation."),
		mcp.WithString("title", mcp.Description("Initial title")),
		mcp.WithString("content", mcp.Description("Initial content")),
	), s.createNote)

	s.add(mcp.NewTool(ToolUpdateNote,
		mcp.WithDescription("Update a note. Only the fields that are given change."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Note id")),
		mcp.WithString("title", mcp.Description("New title")),
		mcp.WithString("content", mcp.Description("New content")),
		mcp.WithArray("tags", mcp.Description("Replacement tag list"), mcp.Items(map[string]any{"type": "string"})),
	), s.updateNote)

	s.add(mcp.NewTool(ToolDeleteNote,
		mcp.WithDescription("Delete a note. Deleting the welcome note only hides it."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Note id")),
	), s.deleteNote)

	s.add(mcp.NewTool(ToolUndoDelete,
		mcp.WithDescription("Restore the most recently deleted note."),
	), s.undoDelete)

	s.add(mcp.NewTool(ToolSummarizeNote,
		mcp.WithDescription("Summarize a note with the configured language model."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Note id")),
	), s.summarizeNote)

	s.add(mcp.NewTool(ToolSuggestTags,
		mcp.WithDescription("Suggest tags the note does not have yet."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Note id")),
	), s.suggestTags)
}

func (s *Server) listNotes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	q := domain.DefaultNoteQuery()
	q.Search = req.GetString("search", "")
	if k := domain.SortKey(req.GetString("sortKey", "")); k.Valid() {
		q.SortKey = k
	}
	if d := domain.SortDirection(req.GetString("sortDirection", "")); d.Valid() {
		q.SortDirection = d
	}
	return jsonResult(s.notes.List(ctx, q))
}

func (s *Server) getNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	n, err := s.notes.Get(ctx, id)
	if err != nil {
		return s.toolError(ToolGetNote, err), nil
	}
	return jsonResult(n)
}

func (s *Server) createNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	out := s.notes.Create(ctx)
	if out.Note == nil {
		return mcp.NewToolResultError("note was not created"), nil
	}

	patch := patchFromArgs(req.GetArguments())
	patch.SetTags = false
	if !patch.IsEmpty() {
		if updated := s.notes.Update(ctx, out.Note.ID, patch); updated.Changed {
			out = updated
		}
	}
	return jsonResult(out)
}

func (s *Server) updateNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if _, err := s.notes.Get(ctx, id); err != nil {
		return s.toolError(ToolUpdateNote, err), nil
	}
	return jsonResult(s.notes.Update(ctx, id, patchFromArgs(req.GetArguments())))
}

func (s *Server) deleteNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out := s.notes.Delete(ctx, id)
	if !out.Changed && id != domain.WelcomeNoteID {
		if _, err := s.notes.Get(ctx, id); err != nil {
			return s.toolError(ToolDeleteNote, err), nil
		}
	}
	return jsonResult(out)
}

func (s *Server) undoDelete(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	out := s.notes.Undo(ctx)
	if !out.Changed {
		return s.toolError(ToolUndoDelete, domain.ErrNothingToUndo), nil
	}
	return jsonResult(out)
}

func (s *Server) summarizeNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	sum, err := s.assist.SummarizeNote(ctx, id)
	if err != nil {
		return s.toolError(ToolSummarizeNote, err), nil
	}
	return mcp.NewToolResultText(sum.Summary), nil
}

func (s *Server) suggestTags(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	tags, err := s.assist.SuggestTagsForNote(ctx, id)
	if err != nil {
		return s.toolError(ToolSuggestTags, err), nil
	}
	return jsonResult(tags)
}

// toolError reports err to the client as a tool error instead of a protocol error
// toolError 以工具错误而非协议错误的形式返回
func (s *Server) toolError(tool string, err error) *mcp.CallToolResult {
	s.logger.Warn("mcp tool failed", zap.String("tool", tool), zap.Error(err))
	msg := err.Error()
	switch {
	case errors.Is(err, domain.ErrNoteNotFound):
		msg = "note not found"
	case errors.Is(err, domain.ErrNothingToUndo):
		msg = "nothing to undo"
	case errors.Is(err, domain.ErrAssistDisabled):
		msg = "AI assist is not configured"
	}
	return mcp.NewToolResultError(msg)
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := sonic.ConfigStd.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}

// patchFromArgs builds a patch from the keys present in args; absent keys stay untouched
// patchFromArgs 根据参数中出现的键构建补丁，未出现的字段保持不变
func patchFromArgs(args map[string]any) domain.NotePatch {
	var p domain.NotePatch
	if v, ok := args["title"].(string); ok {
		p.Title = &v
	}
	if v, ok := args["content"].(string); ok {
		p.Content = &v
	}
	if raw, ok := args["tags"]; ok {
		p.SetTags = true
		switch tags := raw.(type) {
		case []any:
			for _, t := range tags {
				if s, ok := t.(string); ok {
					p.Tags = append(p.Tags, s)
				}
			}
		case []string:
			p.Tags = append(p.Tags, tags...)
		case string:
			p.Tags = append(p.Tags, strings.Split(tags, ",")...)
		}
	}
	return p
}
