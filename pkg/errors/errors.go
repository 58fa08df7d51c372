package errors

import (
	"errors"
	"net/http"
	"time"

	"github.com/haierkeys/clipbook-service/internal/domain"
	"github.com/haierkeys/clipbook-service/internal/middleware"
	pkgapp "github.com/haierkeys/clipbook-service/pkg/app"
	"github.com/haierkeys/clipbook-service/pkg/code"

	"github.com/gin-gonic/gin"
)

// AppError 统一应用错误结构体
// 包含错误码、消息、详情、追踪ID和时间戳
type AppError struct {
	// Code 错误码
	Code int `json:"code"`
	// Status 恒为 false，与成功响应结构保持一致
	Status bool `json:"status"`
	// Message 错误消息
	Message string `json:"message"`
	// Details 错误详情（可选）
	Details []string `json:"details,omitempty"`
	// TraceID 请求追踪ID
	TraceID string `json:"traceId,omitempty"`
	// Cause 原始错误（不序列化到JSON）
	Cause error `json:"-"`
	// Timestamp 错误发生时间
	Timestamp time.Time `json:"timestamp"`
}

// Error 实现 error 接口
func (e *AppError) Error() string {
	return e.Message
}

// Unwrap 实现 errors.Unwrap 接口，支持错误链路追踪
func (e *AppError) Unwrap() error {
	return e.Cause
}

// NewAppError 从 Code 对象创建 AppError
func NewAppError(c *code.Code, cause error) *AppError {
	return &AppError{
		Code:      c.Code(),
		Message:   c.Msg(),
		Details:   c.Details(),
		Cause:     cause,
		Timestamp: time.Now(),
	}
}

// WithTraceID 设置 TraceID 并返回自身（链式调用）
func (e *AppError) WithTraceID(traceID string) *AppError {
	e.TraceID = traceID
	return e
}

// WithDetails 设置详情并返回自身（链式调用）
func (e *AppError) WithDetails(details ...string) *AppError {
	e.Details = details
	return e
}

// CodeFor maps domain and code errors onto a response code
// CodeFor 将领域错误与 Code 错误映射为响应码
func CodeFor(err error) *code.Code {
	var codeErr *code.Code
	if errors.As(err, &codeErr) {
		return codeErr
	}

	var assistErr *domain.AssistError
	if errors.As(err, &assistErr) {
		switch {
		case errors.Is(err, domain.ErrAssistDisabled):
			return code.ErrorAssistDisabled
		case errors.Is(err, domain.ErrEmptyContent):
			return code.ErrorAssistEmptyContent
		case assistErr.Op == domain.AssistOpSuggestTags:
			return code.ErrorAssistSuggestTags
		default:
			return code.ErrorAssistSummarize
		}
	}

	switch {
	case errors.Is(err, domain.ErrNoteNotFound):
		return code.ErrorNoteNotFound
	case errors.Is(err, domain.ErrHistoryNotFound):
		return code.ErrorHistoryNotFound
	case errors.Is(err, domain.ErrNothingToUndo):
		return code.ErrorNothingToUndo
	case domain.IsStorageError(err):
		return code.ErrorStorage
	}
	return code.ErrorServerInternal
}

// ErrorResponse 统一错误响应处理
// 从 gin.Context 获取 TraceID，将错误转换为 AppError 并返回 JSON 响应
func ErrorResponse(c *gin.Context, err error) {
	traceID := middleware.GetTraceIDFromGin(c)

	var appErr *AppError
	if errors.As(err, &appErr) {
		appErr.TraceID = traceID
		c.JSON(http.StatusOK, appErr)
		return
	}

	codeErr := CodeFor(err)
	c.JSON(http.StatusOK, &AppError{
		Code:      codeErr.Code(),
		Message:   codeErr.Lang.GetMessageFor(c.GetString(pkgapp.LangKey)),
		Details:   codeErr.Details(),
		TraceID:   traceID,
		Cause:     err,
		Timestamp: time.Now(),
	})
}

// IsAppError 检查错误是否为 AppError 类型
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}
