package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"StampCard/config"
	"StampCard/internal/model"
	"StampCard/internal/queue"
	"StampCard/pkg/logger"
	"StampCard/pkg/sms"
	"StampCard/storage/database"
)

var (
	notificationService *NotificationService
	notificationOnce    sync.Once
)

func Notification() *NotificationService {
	notificationOnce.Do(func() {
		notificationService = &NotificationService{}
	})
	return notificationService
}

// NotificationService 消费集满事件并发祝贺短信，实现 queue.Notifier
type NotificationService struct{}

// NotifyCycleCompleted 给集满的顾客发祝贺短信并盖 notified_at 章。
// 没留手机号的也盖章，定时任务不用反复捞同一条
func (s *NotificationService) NotifyCycleCompleted(ctx context.Context, msg model.CycleCompletedMessage) error {
	db := database.DB()

	var comp model.CompletionRecord
	err := db.WithContext(ctx).First(&comp, msg.CompletionID).Error
	if err == gorm.ErrRecordNotFound {
		logger.Logger.Warn("Completion record not found, dropping message",
			zap.Int64("completion_id", msg.CompletionID),
		)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load completion: %w", err)
	}

	if comp.NotifiedAt != nil {
		return nil // 已经通知过了
	}

	var shopper model.Shopper
	if err := db.WithContext(ctx).First(&shopper, comp.ShopperID).Error; err != nil {
		return fmt.Errorf("failed to load shopper: %w", err)
	}

	if shopper.PhoneNumber != "" {
		if err := sms.SendCycleCompleted(ctx, shopper.PhoneNumber, msg.CardTitle, comp.RewardCode); err != nil {
			return fmt.Errorf("failed to send congratulation sms: %w", err)
		}
		logger.Logger.Info("Congratulation SMS sent",
			zap.Int64("completion_id", comp.ID),
			zap.Int64("shopper_id", shopper.ID),
			zap.Int("cycle", comp.Cycle),
		)
	} else {
		logger.Logger.Info("Shopper has no phone number, skipping SMS",
			zap.Int64("completion_id", comp.ID),
			zap.Int64("shopper_id", shopper.ID),
		)
	}

	now := time.Now()
	return db.WithContext(ctx).Model(&comp).Update("notified_at", now).Error
}

// RetryUnnotified 捞出超过宽限期仍未通知的集满记录，重新投递事件。
// 定时任务调用，对付发布丢失或 worker 挂掉的情况
func (s *NotificationService) RetryUnnotified(ctx context.Context, limit int) (int, error) {
	if limit <= 0 {
		limit = 100
	}
	grace := time.Duration(config.Cfg.NotifyRetryGraceSeconds) * time.Second
	cutoff := time.Now().Add(-grace)

	var records []model.CompletionRecord
	err := database.DB().WithContext(ctx).
		Where("notified_at IS NULL AND created_at < ?", cutoff).
		Order("created_at ASC").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return 0, fmt.Errorf("failed to list unnotified completions: %w", err)
	}

	published := 0
	for _, r := range records {
		var card model.Card
		if err := database.DB().WithContext(ctx).First(&card, r.CardID).Error; err != nil {
			logger.Logger.Warn("Failed to load card for retry",
				zap.Int64("completion_id", r.ID),
				zap.Error(err),
			)
			continue
		}

		msg := model.CycleCompletedMessage{
			CompletionID: r.ID,
			ShopperID:    r.ShopperID,
			CardID:       r.CardID,
			CardTitle:    card.Title,
			RewardCode:   r.RewardCode,
			Cycle:        r.Cycle,
			CompletedAt:  r.CreatedAt,
		}
		if err := queue.PublishCycleCompleted(msg); err != nil {
			logger.Logger.Error("Failed to republish cycle completed event",
				zap.Int64("completion_id", r.ID),
				zap.Error(err),
			)
			continue
		}
		published++
	}

	if published > 0 {
		logger.Logger.Info("Republished unnotified completions",
			zap.Int("count", published),
		)
	}

	return published, nil
}
