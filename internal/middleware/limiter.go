package middleware

import (
	"math"
	"strconv"

	"github.com/haierkeys/clipbook-service/pkg/app"
	"github.com/haierkeys/clipbook-service/pkg/code"
	"github.com/haierkeys/clipbook-service/pkg/limiter"
	"github.com/haierkeys/clipbook-service/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RateLimiter rejects requests whose token bucket is empty and reports the refill time in Retry-After
// RateLimiter 令牌桶为空时拒绝请求，并通过 Retry-After 返回令牌补充所需秒数
func RateLimiter(l limiter.Face, lg *zap.Logger) gin.HandlerFunc {
	if lg == nil {
		lg = zap.NewNop()
	}
	return func(c *gin.Context) {
		key := l.Key(c)
		if bucket, ok := l.GetBucket(key); ok {
			if bucket.TakeAvailable(1) == 0 {
				retry := 1
				if rate := bucket.Rate(); rate > 0 {
					retry = int(math.Ceil(1 / rate))
				}
				c.Header("Retry-After", strconv.Itoa(retry))
				lg.Warn("rate limited",
					zap.String("bucket", key),
					zap.String("ip", c.ClientIP()),
					zap.String(logger.FieldTraceID, GetTraceIDFromGin(c)))

				response := app.NewResponse(c)
				response.ToResponse(code.ErrorTooManyRequests)
				c.Abort()
				return
			}
		}

		c.Next()
	}
}
