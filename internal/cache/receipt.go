package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"StampCard/storage/redis"
)

// 小票 key 的快速去重层。权威判定在数据库唯一索引，
// 这里只是挡掉明显的重复提交，省一次 OCR 后的事务开销
const (
	receiptSeenPrefix      = "receipt:seen"
	messageProcessedPrefix = "message:processed"

	receiptSeenTTL = 30 * 24 * time.Hour
	processedTTL   = 48 * time.Hour
)

// hashKey receipt_key 可以到 300 字节，进 Redis 前摘要一下
func hashKey(receiptKey string) string {
	sum := sha256.Sum256([]byte(receiptKey))
	return hex.EncodeToString(sum[:16])
}

// IsReceiptSeen 检查小票 key 是否已经见过，Redis 出错按没见过处理
func IsReceiptSeen(ctx context.Context, receiptKey string) bool {
	key := redis.Key(receiptSeenPrefix, hashKey(receiptKey))
	result, err := redis.Client().Exists(ctx, key).Result()
	if err != nil {
		return false
	}
	return result > 0
}

// MarkReceiptSeen 入账成功后记下小票 key
func MarkReceiptSeen(ctx context.Context, receiptKey string) error {
	key := redis.Key(receiptSeenPrefix, hashKey(receiptKey))
	return redis.Client().Set(ctx, key, "1", receiptSeenTTL).Err()
}

// TryMarkMessageProcessing 尝试原子性地标记消息正在处理（使用 SETNX）
// 返回 true 表示成功标记（首次处理），false 表示已被标记（重复消息或正在处理）
func TryMarkMessageProcessing(ctx context.Context, messageID string, ttl time.Duration) (bool, error) {
	key := redis.Key(messageProcessedPrefix, messageID)
	if ttl <= 0 {
		ttl = processedTTL
	}

	result, err := redis.Client().SetNX(ctx, key, "processing", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to mark message as processing: %w", err)
	}
	return result, nil
}

// MarkMessageProcessed 处理完成后延长标记 TTL
func MarkMessageProcessed(ctx context.Context, messageID string, ttl time.Duration) error {
	key := redis.Key(messageProcessedPrefix, messageID)
	if ttl <= 0 {
		ttl = processedTTL
	}
	return redis.Client().Set(ctx, key, "done", ttl).Err()
}

// UnmarkMessageProcessing 取消消息处理标记（处理失败时调用，允许重试）
func UnmarkMessageProcessing(ctx context.Context, messageID string) error {
	key := redis.Key(messageProcessedPrefix, messageID)
	return redis.Client().Del(ctx, key).Err()
}

// GetSeenTTL 剩余可见时长，调试接口用
func GetSeenTTL(ctx context.Context, receiptKey string) (time.Duration, error) {
	key := redis.Key(receiptSeenPrefix, hashKey(receiptKey))
	ttl, err := redis.Client().TTL(ctx, key).Result()
	if err == goredis.Nil {
		return 0, nil
	}
	return ttl, err
}
