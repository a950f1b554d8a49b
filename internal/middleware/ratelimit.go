package middleware

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/fq962/atom-challenge-api/internal/config"
	"github.com/fq962/atom-challenge-api/internal/response"
)

// RateLimit throttles clients by IP. With a redis client it uses a
// fixed one-minute window shared across instances; without one it
// falls back to per-client in-process limiters.
func RateLimit(cfg config.RateLimitConfig, rdb *redis.Client) gin.HandlerFunc {
	if !cfg.Enabled {
		return func(c *gin.Context) { c.Next() }
	}
	if rdb != nil {
		return redisRateLimit(cfg, rdb)
	}
	return localRateLimit(cfg)
}

func redisRateLimit(cfg config.RateLimitConfig, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		window := time.Now().Unix() / 60
		key := fmt.Sprintf("ratelimit:%s:%d", c.ClientIP(), window)

		pipe := rdb.Pipeline()
		count := pipe.Incr(ctx, key)
		pipe.Expire(ctx, key, time.Minute)
		if _, err := pipe.Exec(ctx); err != nil {
			// Redis being down must not take the API with it.
			c.Next()
			return
		}

		if count.Val() > int64(cfg.RequestsPerMin) {
			rejectRateLimited(c)
			return
		}
		c.Next()
	}
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func localRateLimit(cfg config.RateLimitConfig) gin.HandlerFunc {
	var (
		mu       sync.Mutex
		visitors = make(map[string]*visitor)
	)

	perSecond := rate.Limit(float64(cfg.RequestsPerMin) / 60.0)

	cleanupInterval := cfg.CleanupInterval
	if cleanupInterval <= 0 {
		cleanupInterval = 10 * time.Minute
	}

	// Stale visitors are swept in-band while the lock is already held;
	// a background ticker would outlive the engine that built it.
	lastSweep := time.Now()

	return func(c *gin.Context) {
		ip := c.ClientIP()

		mu.Lock()
		if time.Since(lastSweep) >= cleanupInterval {
			for addr, v := range visitors {
				if time.Since(v.lastSeen) > cleanupInterval {
					delete(visitors, addr)
				}
			}
			lastSweep = time.Now()
		}

		v, exists := visitors[ip]
		if !exists {
			v = &visitor{limiter: rate.NewLimiter(perSecond, cfg.BurstSize)}
			visitors[ip] = v
		}
		v.lastSeen = time.Now()
		mu.Unlock()

		if !v.limiter.Allow() {
			rejectRateLimited(c)
			return
		}
		c.Next()
	}
}

func rejectRateLimited(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusTooManyRequests,
		response.Error("too many requests", gin.H{"statusCode": http.StatusTooManyRequests}))
}
