// Package limiter 提供基于令牌桶的接口限流
package limiter

import (
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/juju/ratelimit"
)

// Face 限流器接口
type Face interface {
	Key(c *gin.Context) string
	GetBucket(key string) (*ratelimit.Bucket, bool)
	AddBuckets(rules ...BucketRule) Face
}

// BucketRule 令牌桶规则
type BucketRule struct {
	// Key is matched as a path prefix
	// Key 按路径前缀匹配
	Key          string
	FillInterval time.Duration
	Capacity     int64
	Quantum      int64
}

// MethodLimiter limits requests by route path prefix
// MethodLimiter 按路由路径前缀限流
type MethodLimiter struct {
	mu      sync.RWMutex
	buckets map[string]*ratelimit.Bucket
}

var _ Face = (*MethodLimiter)(nil)

// NewMethodLimiter 创建路径限流器
func NewMethodLimiter() *MethodLimiter {
	return &MethodLimiter{buckets: make(map[string]*ratelimit.Bucket)}
}

// Key returns the first registered prefix matching the request path
// Key 返回与请求路径匹配的第一个已注册前缀
func (l *MethodLimiter) Key(c *gin.Context) string {
	path := c.Request.URL.Path
	l.mu.RLock()
	defer l.mu.RUnlock()
	best := ""
	for k := range l.buckets {
		if strings.HasPrefix(path, k) && len(k) > len(best) {
			best = k
		}
	}
	return best
}

// GetBucket 获取令牌桶
func (l *MethodLimiter) GetBucket(key string) (*ratelimit.Bucket, bool) {
	if key == "" {
		return nil, false
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	b, ok := l.buckets[key]
	return b, ok
}

// AddBuckets 添加令牌桶规则，已存在的 key 不会被覆盖
func (l *MethodLimiter) AddBuckets(rules ...BucketRule) Face {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, rule := range rules {
		if _, ok := l.buckets[rule.Key]; ok {
			continue
		}
		quantum := rule.Quantum
		if quantum <= 0 {
			quantum = 1
		}
		l.buckets[rule.Key] = ratelimit.NewBucketWithQuantum(rule.FillInterval, rule.Capacity, quantum)
	}
	return l
}
