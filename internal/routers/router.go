package routers

import (
	"time"

	"github.com/haierkeys/clipbook-service/internal/app"
	"github.com/haierkeys/clipbook-service/internal/domain"
	"github.com/haierkeys/clipbook-service/internal/middleware"
	"github.com/haierkeys/clipbook-service/internal/routers/api_router"
	pkgapp "github.com/haierkeys/clipbook-service/pkg/app"
	"github.com/haierkeys/clipbook-service/pkg/limiter"

	"github.com/gin-gonic/gin"
	ut "github.com/go-playground/universal-translator"
	"github.com/lxzan/gws"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NoteChangedMessage WebSocket 变更推送的消息类型
const NoteChangedMessage = "NoteChanged"

// noteChanged is the payload pushed to change feed clients
// noteChanged 推送给变更订阅客户端的数据
type noteChanged struct {
	Op      domain.NoteOp `json:"op"`
	ID      string        `json:"id"`
	Changed bool          `json:"changed"`
}

// NewRouter 创建公开路由
func NewRouter(appContainer *app.App, uni *ut.UniversalTranslator) *gin.Engine {

	// 获取配置
	cfg := appContainer.Config()
	lg := appContainer.Logger()

	var wss = pkgapp.NewWebsocketServer(pkgapp.WebsocketServerConfig{
		GWSOption: gws.ServerOption{
			CheckUtf8Enabled:   true,
			Recovery:           gws.Recovery,
			PermessageDeflate:  gws.PermessageDeflate{Enabled: true},
			ReadMaxPayloadSize: 1024 * 64, // 只接收 ping/pong
		},
	}, lg)

	// 笔记变更推送到所有 WebSocket 客户端
	appContainer.NoteService.Subscribe(func(e domain.ChangeEvent) {
		wss.Broadcast(NoteChangedMessage, noteChanged{Op: e.Op, ID: e.ID, Changed: e.Changed})
	})

	// /api/assist 令牌桶限流
	methodLimiters := limiter.NewMethodLimiter().AddBuckets(
		limiter.BucketRule{
			Key:          "/api/assist",
			FillInterval: cfg.GetAssistRateLimitInterval(),
			Capacity:     cfg.Assist.RateLimitCapacity,
			Quantum:      1,
		},
	)

	httpMetrics := middleware.NewHTTPMetrics(prometheus.DefaultRegisterer)

	r := gin.New()
	r.Use(middleware.Cors(cfg.Server.CorsAllowOrigin))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	{
		api.Use(middleware.AppInfoWithConfig(app.Name, appContainer.Version().Version))
		api.Use(middleware.TraceMiddlewareWithConfig(cfg.TracerEnabled(), cfg.Tracer.Header)) // Trace ID 中间件
		api.Use(middleware.AccessLogWithLogger(lg))
		api.Use(middleware.RecoveryWithLogger(lg))
		api.Use(httpMetrics.Handler())
		api.Use(middleware.RateLimiter(methodLimiters, lg))
		api.Use(middleware.ContextTimeout(time.Duration(cfg.Server.DefaultContextTimeout) * time.Second))
		api.Use(middleware.LangWithTranslator(uni))

		// 创建 Handlers（注入 App Container）
		noteHandler := api_router.NewNoteHandler(appContainer)
		noteHistoryHandler := api_router.NewNoteHistoryHandler(appContainer)
		assistHandler := api_router.NewAssistHandler(appContainer)
		healthHandler := api_router.NewHealthHandler(appContainer, wss)
		versionHandler := api_router.NewVersionHandler(appContainer)

		api.GET("/health", healthHandler.Check)
		api.GET("/version", versionHandler.ServerVersion)

		api.GET("/notes", noteHandler.List)
		api.GET("/notes/events", wss.Run())

		api.GET("/note", noteHandler.Get)
		api.POST("/note", noteHandler.Create)
		api.PUT("/note", noteHandler.Update)
		api.DELETE("/note", noteHandler.Delete)
		api.POST("/note/undo", noteHandler.Undo)
		api.PUT("/note/rename", noteHandler.Rename)
		api.PUT("/note/revert", noteHandler.Revert)
		api.POST("/note/tag", noteHandler.AddTag)
		api.DELETE("/note/tag", noteHandler.RemoveTag)
		api.GET("/note/html", noteHandler.HTML)
		api.POST("/note/welcome/show", noteHandler.ShowWelcome)

		api.GET("/note/histories", noteHistoryHandler.List)
		api.GET("/note/history", noteHistoryHandler.Get)

		api.POST("/assist/summarize", assistHandler.Summarize)
		api.POST("/assist/tags", assistHandler.SuggestTags)
		api.POST("/assist/analyze", assistHandler.Analyze)
		api.GET("/assist/status", assistHandler.Status)
	}

	r.NoRoute(middleware.NoFound())

	return r
}
