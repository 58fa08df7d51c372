// Package api_router 提供 HTTP API 路由处理器
package api_router

import (
	"context"

	"github.com/haierkeys/clipbook-service/internal/app"
	"github.com/haierkeys/clipbook-service/internal/middleware"
	"github.com/haierkeys/clipbook-service/internal/service"
	pkgapp "github.com/haierkeys/clipbook-service/pkg/app"
	"github.com/haierkeys/clipbook-service/pkg/code"
	"github.com/haierkeys/clipbook-service/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler 基础 Handler 结构体，封装 App Container
// 所有 API Handler 都应该嵌入此结构体以获得依赖注入能力
type Handler struct {
	App *app.App
	WSS *pkgapp.WebsocketServer
}

// NewHandler 创建基础 Handler 实例
func NewHandler(a *app.App) *Handler {
	return &Handler{App: a}
}

// NewHandlerWithWSS 创建带 WebSocket 服务的 Handler 实例
func NewHandlerWithWSS(a *app.App, wss *pkgapp.WebsocketServer) *Handler {
	return &Handler{App: a, WSS: wss}
}

// logError 记录带 trace id 的错误日志
func (h *Handler) logError(ctx context.Context, method string, err error) {
	h.App.Logger().Error(method,
		zap.String(logger.FieldTraceID, middleware.GetTraceID(ctx)),
		zap.Error(err))
}

// invalidParams 参数校验失败响应
func (h *Handler) invalidParams(c *gin.Context, method string, errs pkgapp.ValidErrors) {
	h.App.Logger().Warn(method+".BindAndValid err",
		zap.String(logger.FieldTraceID, middleware.GetTraceIDFromGin(c)),
		zap.Error(errs))
	pkgapp.NewResponse(c).ToResponse(code.ErrorInvalidParams.WithDetails(errs.Errors()...))
}

// toOutcome answers a mutation: ok when something changed, SuccessNoChange otherwise
// toOutcome 输出变更结果，未变化时返回 SuccessNoChange
func toOutcome(c *gin.Context, ok *code.Code, out service.Outcome) {
	response := pkgapp.NewResponse(c)
	if !out.Changed {
		response.ToResponse(code.SuccessNoChange.WithData(out))
		return
	}
	response.ToResponse(ok.WithData(out))
}
