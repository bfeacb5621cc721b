package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"StampCard/internal/cache"
	"StampCard/internal/model"
	"StampCard/pkg/errors"
	"StampCard/pkg/logger"
	"StampCard/storage/mq"
)

// Notifier worker 启动时注入，消费侧只认这个接口
type Notifier interface {
	NotifyCycleCompleted(ctx context.Context, msg model.CycleCompletedMessage) error
}

var notifier Notifier

// SetNotifier 设置通知服务（在 worker 启动时调用）
func SetNotifier(n Notifier) {
	notifier = n
}

// StartCycleCompletedConsumer 启动集满事件消费者，阻塞直到通道关闭
func StartCycleCompletedConsumer(ctx context.Context) error {
	handler := func(body []byte) error {
		var msg model.CycleCompletedMessage
		if err := json.Unmarshal(body, &msg); err != nil {
			return fmt.Errorf("failed to unmarshal cycle completed message: %w", err)
		}

		// 【幂等性检查】使用 SETNX 原子性地检查并标记消息正在处理
		processed, err := cache.TryMarkMessageProcessing(ctx, msg.MessageID, 24*time.Hour)
		if err != nil {
			logger.Logger.Warn("Failed to check message processed status",
				zap.String("message_id", msg.MessageID),
				zap.Error(err),
			)
			// 检查失败时继续处理，宁可重复也不丢
		} else if !processed {
			logger.Logger.Info("Message already processed or being processed, skipping",
				zap.String("message_id", msg.MessageID),
				zap.Int64("completion_id", msg.CompletionID),
			)
			return &errors.SkipMessageError{Reason: fmt.Sprintf("Message %s already processed", msg.MessageID)}
		}

		logger.Logger.Info("Processing cycle completed message",
			zap.String("message_id", msg.MessageID),
			zap.Int64("completion_id", msg.CompletionID),
			zap.Int64("shopper_id", msg.ShopperID),
			zap.Int("cycle", msg.Cycle),
		)

		if notifier == nil {
			cache.UnmarkMessageProcessing(ctx, msg.MessageID)
			return fmt.Errorf("notifier is not set")
		}

		if err := notifier.NotifyCycleCompleted(ctx, msg); err != nil {
			// 处理失败，取消标记，允许重试
			cache.UnmarkMessageProcessing(ctx, msg.MessageID)
			return fmt.Errorf("failed to process cycle completed message: %w", err)
		}

		if err := cache.MarkMessageProcessed(ctx, msg.MessageID, 48*time.Hour); err != nil {
			logger.Logger.Warn("Failed to mark message as processed",
				zap.String("message_id", msg.MessageID),
				zap.Error(err),
			)
		}

		return nil
	}

	return mq.Consume(mq.ConsumeOptions{
		Queue:         mq.QueueCycleCompleted,
		ConsumerTag:   "cycle_completed_consumer",
		PrefetchCount: 10,
		Handler:       handler,
	})
}
