package security

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// CORS 仅允许白名单中的 Origin，会话依赖 Cookie 因此必须开启 Credentials
func CORS(allowedOrigins []string) gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Cache-Control", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}

// Secure 写入通用安全响应头
func Secure() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "same-origin")
		if c.Request.TLS != nil {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}

		c.Next()
	}
}

// visitor 包装限流器和最后活跃时间，用于定期清理
type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// ipLimiter 按客户端 IP 保存限流器
type ipLimiter struct {
	mu     sync.Mutex
	store  map[string]*visitor
	limit  rate.Limit
	burst  int
	expiry time.Duration
}

func newIPLimiter(maxRequests int, window time.Duration) *ipLimiter {
	expiry := window * 3
	if expiry < time.Minute {
		expiry = time.Minute
	}
	return &ipLimiter{
		store:  make(map[string]*visitor),
		limit:  rate.Every(window / time.Duration(maxRequests)),
		burst:  maxRequests,
		expiry: expiry,
	}
}

func (l *ipLimiter) allow(key string, now time.Time) bool {
	l.mu.Lock()
	v, exists := l.store[key]
	if !exists {
		v = &visitor{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.store[key] = v
	}
	v.lastSeen = now
	l.mu.Unlock()

	return v.limiter.AllowN(now, 1)
}

// sweep 删除超过 expiry 未活跃的条目
func (l *ipLimiter) sweep(now time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for ip, v := range l.store {
		if now.Sub(v.lastSeen) > l.expiry {
			delete(l.store, ip)
		}
	}
}

func (l *ipLimiter) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.store)
}

// run 定期清理，ctx 结束后返回
func (l *ipLimiter) run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			l.sweep(now)
		}
	}
}

// RateLimiter 按 IP 限流，window 内最多 maxRequests 次；清理协程随 ctx 结束
func RateLimiter(ctx context.Context, maxRequests int, window time.Duration) gin.HandlerFunc {
	// 未配置时不限流
	if maxRequests <= 0 || window <= 0 {
		return func(c *gin.Context) { c.Next() }
	}

	l := newIPLimiter(maxRequests, window)
	go l.run(ctx, time.Minute)

	return func(c *gin.Context) {
		if !l.allow(c.ClientIP(), time.Now()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"message": "Too many requests"})
			return
		}

		c.Next()
	}
}
