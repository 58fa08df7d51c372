package mcpserver

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/haierkeys/clipbook-service/internal/dao"
	"github.com/haierkeys/clipbook-service/internal/domain"
	"github.com/haierkeys/clipbook-service/internal/service"
	"github.com/haierkeys/clipbook-service/pkg/assist"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubGateway struct{}

func (stubGateway) Summarize(context.Context, string) (*assist.Summary, error) {
	return &assist.Summary{Summary: "short summary"}, nil
}

func (stubGateway) SuggestTags(context.Context, string) ([]assist.TagSuggestion, error) {
	return []assist.TagSuggestion{{Tag: "meeting", RelevanceScore: 0.9}, {Tag: "q3", RelevanceScore: 0.6}}, nil
}

func newTestServer(t *testing.T, gw assist.Gateway) (*Server, service.NoteService) {
	t.Helper()
	store := dao.NewNoteStore(dao.NewMemorySlotStore(), zap.NewNop())
	notes := service.NewNoteService(store, service.NewLifecycle(time.Now, true), zap.NewNop())
	require.NoError(t, notes.Init(context.Background()))
	as := service.NewAssistService(gw, notes, nil, prometheus.NewRegistry(), zap.NewNop())
	return New("clipbook-test", "0.0.0", notes, as, zap.NewNop()), notes
}

func call(t *testing.T, h func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), args map[string]any) (string, bool) {
	t.Helper()
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	res, err := h(context.Background(), req)
	require.NoError(t, err)
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return text.Text, res.IsError
}

func TestToolNames(t *testing.T) {
	s, _ := newTestServer(t, stubGateway{})
	assert.Equal(t, []string{
		ToolListNotes, ToolGetNote, ToolCreateNote, ToolUpdateNote,
		ToolDeleteNote, ToolUndoDelete, ToolSummarizeNote, ToolSuggestTags,
	}, s.ToolNames())
}

func TestToolsListOverJSONRPC(t *testing.T) {
	s, _ := newTestServer(t, stubGateway{})
	resp := s.MCP().HandleMessage(context.Background(), json.RawMessage(`{"jsonrpc":"2.0","id":1,"method":"tools/list"}`))
	raw, err := json.Marshal(resp)
	require.NoError(t, err)
	for _, name := range s.ToolNames() {
		assert.Contains(t, string(raw), `"`+name+`"`)
	}
}

func TestListAndGetNote(t *testing.T) {
	s, _ := newTestServer(t, stubGateway{})

	text, isErr := call(t, s.listNotes, map[string]any{"search": "brainstorming"})
	require.False(t, isErr)
	var notes []domain.Note
	require.NoError(t, json.Unmarshal([]byte(text), &notes))
	require.Len(t, notes, 1)
	assert.Equal(t, "note-2", notes[0].ID)

	text, isErr = call(t, s.getNote, map[string]any{"id": "note-3"})
	require.False(t, isErr)
	var n domain.Note
	require.NoError(t, json.Unmarshal([]byte(text), &n))
	assert.Equal(t, "Meeting Notes: Q3 Planning", n.Title)

	text, isErr = call(t, s.getNote, map[string]any{"id": "missing"})
	assert.True(t, isErr)
	assert.Equal(t, "note not found", text)

	_, isErr = call(t, s.getNote, map[string]any{})
	assert.True(t, isErr)
}

func TestCreateAndUpdateNote(t *testing.T) {
	s, notes := newTestServer(t, stubGateway{})

	text, isErr := call(t, s.createNote, map[string]any{"title": "From MCP", "content": "body"})
	require.False(t, isErr)
	var out service.Outcome
	require.NoError(t, json.Unmarshal([]byte(text), &out))
	require.NotNil(t, out.Note)
	assert.Equal(t, "From MCP", out.Note.Title)
	assert.Equal(t, "body", out.Note.Content)
	assert.Len(t, notes.Snapshot(), 4)

	text, isErr = call(t, s.updateNote, map[string]any{"id": out.Note.ID, "tags": []any{"x", "y", "x"}})
	require.False(t, isErr)
	out = service.Outcome{}
	require.NoError(t, json.Unmarshal([]byte(text), &out))
	assert.True(t, out.Changed)

	got, err := notes.Get(context.Background(), out.Note.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y"}, got.Tags)
	assert.Equal(t, "body", got.Content)

	_, isErr = call(t, s.updateNote, map[string]any{"id": "missing", "title": "x"})
	assert.True(t, isErr)
}

func TestDeleteAndUndo(t *testing.T) {
	s, notes := newTestServer(t, stubGateway{})

	_, isErr := call(t, s.deleteNote, map[string]any{"id": "note-3"})
	require.False(t, isErr)
	assert.Len(t, notes.Snapshot(), 2)

	_, isErr = call(t, s.undoDelete, nil)
	require.False(t, isErr)
	assert.Len(t, notes.Snapshot(), 3)

	text, isErr := call(t, s.undoDelete, nil)
	assert.True(t, isErr)
	assert.Equal(t, "nothing to undo", text)

	_, isErr = call(t, s.deleteNote, map[string]any{"id": "missing"})
	assert.True(t, isErr)

	_, isErr = call(t, s.deleteNote, map[string]any{"id": domain.WelcomeNoteID})
	assert.False(t, isErr)
	assert.True(t, notes.WelcomeHidden())
}

func TestAssistTools(t *testing.T) {
	s, _ := newTestServer(t, stubGateway{})

	text, isErr := call(t, s.summarizeNote, map[string]any{"id": "note-3"})
	require.False(t, isErr)
	assert.Equal(t, "short summary", text)

	text, isErr = call(t, s.suggestTags, map[string]any{"id": "note-3"})
	require.False(t, isErr)
	var tags []domain.TagSuggestion
	require.NoError(t, json.Unmarshal([]byte(text), &tags))
	require.Len(t, tags, 1)
	assert.Equal(t, "q3", tags[0].Tag)

	disabled, _ := newTestServer(t, assist.Disabled{})
	text, isErr = call(t, disabled.summarizeNote, map[string]any{"id": "note-3"})
	assert.True(t, isErr)
	assert.Equal(t, "AI assist is not configured", text)
}

func TestPatchFromArgs(t *testing.T) {
	p := patchFromArgs(map[string]any{"content": "c"})
	assert.Nil(t, p.Title)
	require.NotNil(t, p.Content)
	assert.Equal(t, "c", *p.Content)
	assert.False(t, p.SetTags)

	p = patchFromArgs(map[string]any{"tags": "a,b"})
	assert.True(t, p.SetTags)
	assert.Equal(t, []string{"a", "b"}, p.Tags)

	p = patchFromArgs(map[string]any{"tags": []any{}})
	assert.True(t, p.SetTags)
	assert.Empty(t, p.Tags)
}
