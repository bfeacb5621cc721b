package cache

import (
	"context"
	"time"

	"StampCard/config"
	"StampCard/storage/redis"
)

// refresh token 存 Redis，登出或轮换时删掉即可让旧 token 失效

func refreshTokenKey(userID string) string {
	return redis.Key("token", "refresh", userID)
}

// SetRefreshToken 写入 refresh token，TTL 跟 JWT_REFRESH_DAYS 对齐
func SetRefreshToken(ctx context.Context, userID, refreshToken string) error {
	ttl := time.Duration(config.Cfg.JWTRefreshDays) * 24 * time.Hour
	return redis.Client().Set(ctx, refreshTokenKey(userID), refreshToken, ttl).Err()
}

func GetRefreshToken(ctx context.Context, userID string) (string, error) {
	return redis.Client().Get(ctx, refreshTokenKey(userID)).Result()
}

// DeleteRefreshToken 登出时调用
func DeleteRefreshToken(ctx context.Context, userID string) error {
	return redis.Client().Del(ctx, refreshTokenKey(userID)).Err()
}

// ValidateRefreshTokenExists Redis 里有且逐字相同才算有效，
// 签名合法但已被轮换掉的旧 token 在这里被拒
func ValidateRefreshTokenExists(ctx context.Context, userID, refreshToken string) bool {
	stored, err := GetRefreshToken(ctx, userID)
	return err == nil && stored == refreshToken
}
