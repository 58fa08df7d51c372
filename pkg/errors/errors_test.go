package errors

import (
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/haierkeys/clipbook-service/internal/domain"
	"github.com/haierkeys/clipbook-service/internal/middleware"
	"github.com/haierkeys/clipbook-service/pkg/code"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodeFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want *code.Code
	}{
		{"not found", fmt.Errorf("get: %w", domain.ErrNoteNotFound), code.ErrorNoteNotFound},
		{"history", domain.ErrHistoryNotFound, code.ErrorHistoryNotFound},
		{"undo", domain.ErrNothingToUndo, code.ErrorNothingToUndo},
		{"storage", &domain.StorageError{Op: "put", Slot: "notes", Err: assert.AnError}, code.ErrorStorage},
		{"summarize", &domain.AssistError{Op: domain.AssistOpSummarize, Err: assert.AnError}, code.ErrorAssistSummarize},
		{"tags", &domain.AssistError{Op: domain.AssistOpSuggestTags, Err: assert.AnError}, code.ErrorAssistSuggestTags},
		{"disabled", &domain.AssistError{Op: domain.AssistOpSummarize, Err: domain.ErrAssistDisabled}, code.ErrorAssistDisabled},
		{"empty", &domain.AssistError{Op: domain.AssistOpSuggestTags, Err: domain.ErrEmptyContent}, code.ErrorAssistEmptyContent},
		{"code", code.ErrorInvalidParams, code.ErrorInvalidParams},
		{"unknown", assert.AnError, code.ErrorServerInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want.Code(), CodeFor(tt.err).Code())
		})
	}
}

func TestErrorResponseCarriesTraceID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set(middleware.TraceIDKey, "trace-1")

	ErrorResponse(c, domain.ErrNoteNotFound)

	var body AppError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, code.ErrorNoteNotFound.Code(), body.Code)
	assert.Equal(t, "trace-1", body.TraceID)
	assert.False(t, body.Status)
}
