package queue

import (
	"fmt"

	"go.uber.org/zap"

	"StampCard/internal/model"
	"StampCard/pkg/logger"
	"StampCard/pkg/snowflake"
	"StampCard/storage/mq"
)

// PublishCycleCompleted 发布集满事件，worker 消费后发祝贺短信
func PublishCycleCompleted(msg model.CycleCompletedMessage) error {
	if msg.MessageID == "" {
		id, err := snowflake.NextID()
		if err != nil {
			logger.Logger.Error("Failed to generate message ID",
				zap.Int64("completion_id", msg.CompletionID),
				zap.Error(err),
			)
			return fmt.Errorf("failed to generate message ID: %w", err)
		}
		msg.MessageID = fmt.Sprintf("cycle_completed_%d", id)
	}

	err := mq.PublishMessage(
		mq.ExchangeLoyalty,
		mq.RoutingKeyCycleComplete,
		msg,
	)

	if err != nil {
		logger.Logger.Error("Failed to publish cycle completed message",
			zap.String("message_id", msg.MessageID),
			zap.Int64("completion_id", msg.CompletionID),
			zap.Int64("shopper_id", msg.ShopperID),
			zap.Error(err),
		)
		return err
	}

	logger.Logger.Info("Published cycle completed message",
		zap.String("message_id", msg.MessageID),
		zap.Int64("completion_id", msg.CompletionID),
		zap.Int64("shopper_id", msg.ShopperID),
		zap.Int64("card_id", msg.CardID),
		zap.Int("cycle", msg.Cycle),
	)

	return nil
}
