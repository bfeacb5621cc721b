package middleware

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	redislib "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"StampCard/pkg/errors"
	"StampCard/pkg/logger"
	"StampCard/pkg/response"
	"StampCard/storage/redis"
)

// 滑动窗口限流，窗口数据放 Redis zset。
// 触发限制后额外写一个 block 键，封禁期内直接拒绝，不再走窗口统计

type RateLimitConfig struct {
	Window        int    // 窗口长度（秒）
	MaxRequests   int    // 窗口内允许的请求数
	KeyPrefix     string // Redis 键前缀
	ByUserID      bool   // 认证用户按 public_id 限
	ByIP          bool   // 匿名请求按 IP 限
	BlockDuration int    // 触发后的封禁时长（秒）
}

// DefaultRateLimitConfig 认证后路由的兜底配置
var DefaultRateLimitConfig = RateLimitConfig{
	Window:        60,
	MaxRequests:   100,
	KeyPrefix:     "rate:limit",
	ByUserID:      true,
	ByIP:          true,
	BlockDuration: 300,
}

// SubmitRateLimitConfig 小票提交单独收紧，OCR 很贵
var SubmitRateLimitConfig = RateLimitConfig{
	Window:        60,
	MaxRequests:   10,
	KeyPrefix:     "submit:rate",
	ByUserID:      true,
	ByIP:          false,
	BlockDuration: 300,
}

type RateLimiter struct {
	config RateLimitConfig
}

func NewRateLimiter(config RateLimitConfig) *RateLimiter {
	return &RateLimiter{config: config}
}

func (rl *RateLimiter) limitKey(ctx context.Context, c *app.RequestContext) string {
	if rl.config.ByUserID {
		if userID, ok := GetUserID(ctx, c); ok {
			return redis.Key(rl.config.KeyPrefix, "user:"+userID)
		}
	}
	if rl.config.ByIP {
		return redis.Key(rl.config.KeyPrefix, "ip:"+c.ClientIP())
	}
	return redis.Key(rl.config.KeyPrefix, "anon")
}

func (rl *RateLimiter) blockKey(ctx context.Context, c *app.RequestContext) string {
	return redis.Key(rl.config.KeyPrefix+":block", rl.limitKey(ctx, c))
}

// Allow 把本次请求计入窗口并判断是否超限，返回窗口内的当前计数
func (rl *RateLimiter) Allow(ctx context.Context, c *app.RequestContext) (bool, int, error) {
	key := rl.limitKey(ctx, c)
	now := time.Now()
	cutoff := now.Add(-time.Duration(rl.config.Window) * time.Second).UnixNano()

	pipe := redis.Client().Pipeline()
	pipe.ZRemRangeByScore(ctx, key, "0", strconv.FormatInt(cutoff, 10))
	pipe.ZAdd(ctx, key, redislib.Z{Score: float64(now.UnixNano()), Member: now.UnixNano()})
	countCmd := pipe.ZCard(ctx, key)
	pipe.Expire(ctx, key, time.Duration(rl.config.Window+10)*time.Second)

	if _, err := pipe.Exec(ctx); err != nil {
		return false, 0, fmt.Errorf("failed to execute rate limit pipeline: %w", err)
	}

	count := int(countCmd.Val())
	return count <= rl.config.MaxRequests, count, nil
}

func (rl *RateLimiter) Block(ctx context.Context, c *app.RequestContext) error {
	ttl := time.Duration(rl.config.BlockDuration) * time.Second
	return redis.Client().Set(ctx, rl.blockKey(ctx, c), "1", ttl).Err()
}

func (rl *RateLimiter) IsBlocked(ctx context.Context, c *app.RequestContext) (bool, error) {
	n, err := redis.Client().Exists(ctx, rl.blockKey(ctx, c)).Result()
	return n > 0, err
}

func RateLimitMiddleware(config RateLimitConfig) app.HandlerFunc {
	limiter := NewRateLimiter(config)

	return func(ctx context.Context, c *app.RequestContext) {
		blocked, err := limiter.IsBlocked(ctx, c)
		if err != nil {
			logger.Logger.Error("Failed to check block status", zap.Error(err))
			c.AbortWithStatus(consts.StatusInternalServerError)
			return
		}
		if blocked {
			c.Abort()
			response.Error(ctx, c, errors.TooManyRequests)
			return
		}

		allowed, count, err := limiter.Allow(ctx, c)
		if err != nil {
			logger.Logger.Error("Failed to check rate limit", zap.Error(err))
			c.AbortWithStatus(consts.StatusInternalServerError)
			return
		}

		remaining := config.MaxRequests - count
		if remaining < 0 {
			remaining = 0
		}
		reset := time.Now().Add(time.Duration(config.Window) * time.Second).Unix()
		c.Response.Header.Set("X-RateLimit-Limit", strconv.Itoa(config.MaxRequests))
		c.Response.Header.Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Response.Header.Set("X-RateLimit-Reset", strconv.FormatInt(reset, 10))

		if !allowed {
			if err := limiter.Block(ctx, c); err != nil {
				logger.Logger.Error("Failed to set rate limit block", zap.Error(err))
			}
			c.Abort()
			response.Error(ctx, c, errors.TooManyRequests)
			return
		}

		c.Next(ctx)
	}
}

// GeneralRateLimitMiddleware 认证后路由的通用限流
func GeneralRateLimitMiddleware() app.HandlerFunc {
	return RateLimitMiddleware(DefaultRateLimitConfig)
}

// SubmitRateLimitMiddleware 小票提交限流
func SubmitRateLimitMiddleware() app.HandlerFunc {
	return RateLimitMiddleware(SubmitRateLimitConfig)
}

// AuthRateLimitMiddleware 登录注册按来源 IP 限，封禁期也更长
func AuthRateLimitMiddleware() app.HandlerFunc {
	return RateLimitMiddleware(RateLimitConfig{
		Window:        60,
		MaxRequests:   5,
		KeyPrefix:     "auth:rate",
		ByUserID:      false,
		ByIP:          true,
		BlockDuration: 900,
	})
}
