package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	pkgapp "github.com/haierkeys/clipbook-service/pkg/app"
	"github.com/haierkeys/clipbook-service/pkg/limiter"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestTraceMiddlewareGeneratesAndEchoes(t *testing.T) {
	r := gin.New()
	r.Use(TraceMiddlewareWithConfig(true, ""))
	var fromCtx, fromGin string
	r.GET("/x", func(c *gin.Context) {
		fromCtx = GetTraceID(c.Request.Context())
		fromGin = GetTraceIDFromGin(c)
	})

	w := serve(r, httptest.NewRequest(http.MethodGet, "/x", nil))
	id := w.Header().Get(DefaultTraceIDHeader)
	assert.Len(t, id, 36)
	assert.Equal(t, id, fromCtx)
	assert.Equal(t, id, fromGin)

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(DefaultTraceIDHeader, "given-id")
	w = serve(r, req)
	assert.Equal(t, "given-id", w.Header().Get(DefaultTraceIDHeader))
}

func TestTraceMiddlewareDisabled(t *testing.T) {
	r := gin.New()
	r.Use(TraceMiddlewareWithConfig(false, "X-Req"))
	r.GET("/x", func(c *gin.Context) {})

	w := serve(r, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Empty(t, w.Header().Get("X-Req"))
	assert.Empty(t, GetTraceID(context.Background()))
}

func TestRecoveryReturnsUnifiedError(t *testing.T) {
	r := gin.New()
	r.Use(RecoveryWithLogger(zap.NewNop()))
	r.GET("/boom", func(c *gin.Context) { panic("boom") })

	w := serve(r, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Contains(t, w.Body.String(), `"status":false`)
	assert.Contains(t, w.Body.String(), "boom")
}

func TestRateLimiterRejectsWhenEmpty(t *testing.T) {
	l := limiter.NewMethodLimiter().AddBuckets(limiter.BucketRule{
		Key: "/api/assist", FillInterval: time.Hour, Capacity: 1, Quantum: 1,
	})
	r := gin.New()
	r.Use(RateLimiter(l, nil))
	r.POST("/api/assist/tags", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	r.GET("/api/notes", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	w := serve(r, httptest.NewRequest(http.MethodPost, "/api/assist/tags", nil))
	assert.Equal(t, "ok", w.Body.String())

	w = serve(r, httptest.NewRequest(http.MethodPost, "/api/assist/tags", nil))
	assert.Contains(t, w.Body.String(), `"code":429`)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))

	// 其它路径不受限
	for i := 0; i < 3; i++ {
		w = serve(r, httptest.NewRequest(http.MethodGet, "/api/notes", nil))
		assert.Equal(t, "ok", w.Body.String())
	}
}

func TestLangSetsLanguageAndTranslator(t *testing.T) {
	uni, err := pkgapp.NewTranslator(validator.New())
	require.NoError(t, err)

	r := gin.New()
	r.Use(LangWithTranslator(uni))
	var lang string
	var hasTrans bool
	r.GET("/x", func(c *gin.Context) {
		lang = c.GetString(pkgapp.LangKey)
		_, hasTrans = c.Get(pkgapp.TransKey)
	})

	serve(r, httptest.NewRequest(http.MethodGet, "/x?lang=zh-CN", nil))
	assert.Equal(t, "zh_cn", lang)
	assert.True(t, hasTrans)

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Accept-Language", "fr-FR,fr;q=0.9")
	serve(r, req)
	assert.Equal(t, "en", lang)
}

func TestCorsPreflight(t *testing.T) {
	r := gin.New()
	r.Use(Cors(""))
	r.GET("/x", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	w := serve(r, httptest.NewRequest(http.MethodOptions, "/x", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestContextTimeout(t *testing.T) {
	r := gin.New()
	r.Use(ContextTimeout(50 * time.Millisecond))
	var hasDeadline bool
	r.GET("/x", func(c *gin.Context) { _, hasDeadline = c.Request.Context().Deadline() })

	serve(r, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.True(t, hasDeadline)

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Upgrade", "websocket")
	serve(r, req)
	assert.False(t, hasDeadline)
}

func TestHTTPMetricsCountsRoutes(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg)
	// 重复注册复用已有指标
	again := NewHTTPMetrics(reg)

	r := gin.New()
	r.Use(m.Handler())
	r.GET("/x/:id", func(c *gin.Context) {})
	serve(r, httptest.NewRequest(http.MethodGet, "/x/1", nil))
	serve(r, httptest.NewRequest(http.MethodGet, "/x/2", nil))

	assert.Equal(t, 2.0, testutil.ToFloat64(again.requests.WithLabelValues("/x/:id", http.MethodGet, "200")))
}

func TestNoFound(t *testing.T) {
	r := gin.New()
	r.NoRoute(NoFound())
	w := serve(r, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Contains(t, w.Body.String(), `"code":404`)
}
