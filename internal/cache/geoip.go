package cache

import (
	"context"
	"encoding/json"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"StampCard/config"
	"StampCard/pkg/geo"
	"StampCard/storage/redis"
)

// IP 定位结果的缓存，同一个出口 IP 短时间内反复查没有意义

const (
	geoipPrefix = "geoip"
)

// GetGeoIP 读缓存的 IP 定位结果
func GetGeoIP(ctx context.Context, ip string) (*geo.Point, error) {
	key := redis.Key(geoipPrefix, ip)
	data, err := redis.Client().Get(ctx, key).Result()
	if err == goredis.Nil {
		return nil, nil // 未命中
	}
	if err != nil {
		return nil, err
	}

	var p geo.Point
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// SetGeoIP 写缓存，TTL 跟随配置
func SetGeoIP(ctx context.Context, ip string, p geo.Point) error {
	data, err := json.Marshal(p)
	if err != nil {
		return err
	}

	key := redis.Key(geoipPrefix, ip)
	ttl := time.Duration(config.Cfg.GeoIPCacheTTL) * time.Second
	return redis.Client().Set(ctx, key, data, ttl).Err()
}
