package api_router

import (
	"time"

	"github.com/haierkeys/clipbook-service/internal/app"
	"github.com/haierkeys/clipbook-service/internal/dto"
	pkgapp "github.com/haierkeys/clipbook-service/pkg/app"
	"github.com/haierkeys/clipbook-service/pkg/code"
	"github.com/haierkeys/clipbook-service/pkg/util"

	"github.com/gin-gonic/gin"
)

// HealthHandler 健康检查处理器
type HealthHandler struct {
	*Handler
}

// NewHealthHandler 创建健康检查处理器实例
func NewHealthHandler(a *app.App, wss *pkgapp.WebsocketServer) *HealthHandler {
	return &HealthHandler{Handler: NewHandlerWithWSS(a, wss)}
}

// Check 健康检查接口
// @Summary 健康检查
// @Description 检查服务健康状态，包括存储是否可读与内存占用
// @Tags 系统
// @Produce json
// @Success 200 {object} pkgapp.Res{data=dto.HealthDTO}
// @Router /api/health [get]
func (h *HealthHandler) Check(c *gin.Context) {
	sys := util.GetSysInfo()
	res := dto.HealthDTO{
		Status:      "healthy",
		Version:     h.App.Version().Version,
		Uptime:      time.Since(h.App.StartTime).Seconds(),
		Storage:     "connected",
		ProcessRSS:  sys.ProcessRSS,
		MemoryTotal: sys.HostMemTotal,
		NoteCount:   len(h.App.NoteService.Snapshot()),
	}
	if h.WSS != nil {
		res.WSClients = h.WSS.ClientCount()
	}

	// 检查存储连接
	if err := h.App.StorageReachable(c.Request.Context()); err != nil {
		h.logError(c.Request.Context(), "HealthHandler.Check", err)
		res.Status = "unhealthy"
		res.Storage = "error"
		pkgapp.NewResponse(c).ToResponse(code.Failed.WithData(res))
		return
	}

	pkgapp.NewResponse(c).ToResponse(code.Success.WithData(res))
}
