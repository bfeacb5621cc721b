package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"StampCard/config"
	"StampCard/internal/cache"
	"StampCard/internal/loyalty"
	"StampCard/internal/model"
	"StampCard/internal/model/dto"
	"StampCard/internal/queue"
	"StampCard/internal/repository"
	domerr "StampCard/pkg/errors"
	"StampCard/pkg/logger"
	"StampCard/pkg/media"
	"StampCard/pkg/ocr"
	"StampCard/pkg/receipt"
	"StampCard/storage/database"
)

var (
	progressService *ProgressService
	progressOnce    sync.Once
)

func Progress() *ProgressService {
	progressOnce.Do(func() {
		store := repository.NewProgressStore(database.DB())
		progressService = &ProgressService{
			engine: loyalty.NewEngine(store,
				loyalty.WithMaxRetries(config.Cfg.SubmitMaxRetries),
			),
		}
	})
	return progressService
}

type ProgressService struct {
	engine *loyalty.Engine
}

// Enroll 领卡，(shopper, card) 已存在时报错
func (s *ProgressService) Enroll(ctx context.Context, userID, cardID int64) (*model.CardProgress, error) {
	shopper, err := Shopper().GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	card, err := Card().GetByID(ctx, cardID)
	if err != nil {
		return nil, err
	}
	if !card.Active {
		return nil, domerr.CardInactive
	}

	prog := &model.CardProgress{
		ShopperID: shopper.ID,
		CardID:    card.ID,
		Points:    0,
	}

	if err := database.DB().WithContext(ctx).Create(prog).Error; err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domerr.ProgressAlreadyExists
		}
		return nil, fmt.Errorf("failed to create progress: %w", err)
	}

	logger.Logger.Info("Shopper enrolled in card",
		zap.Int64("shopper_id", shopper.ID),
		zap.Int64("card_id", card.ID),
	)

	return prog, nil
}

// List 顾客的钱包视图，所有在集的卡
func (s *ProgressService) List(ctx context.Context, userID int64) ([]dto.ProgressItem, error) {
	shopper, err := Shopper().GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	var progresses []model.CardProgress
	err = database.DB().WithContext(ctx).
		Preload("Card").
		Where("shopper_id = ?", shopper.ID).
		Order("updated_at DESC").
		Find(&progresses).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list progresses: %w", err)
	}

	items := make([]dto.ProgressItem, 0, len(progresses))
	for _, p := range progresses {
		item := dto.ProgressItem{
			ID:             p.ID,
			CardID:         p.CardID,
			Points:         p.Points,
			RewardCode:     p.RewardCode,
			CompletedCount: p.CompletedCount,
			LastStampAt:    p.LastStampAt,
		}
		if p.Card != nil {
			item.CardTitle = p.Card.Title
			item.BusinessName = p.Card.BusinessName
			item.PointsNeeded = p.Card.PointsNeeded
		}
		items = append(items, item)
	}

	return items, nil
}

// Get 单张卡的进度
func (s *ProgressService) Get(ctx context.Context, userID, cardID int64) (*model.CardProgress, error) {
	shopper, err := Shopper().GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	var prog model.CardProgress
	err = database.DB().WithContext(ctx).
		Preload("Card").
		Where("shopper_id = ? AND card_id = ?", shopper.ID, cardID).
		First(&prog).Error
	if err == gorm.ErrRecordNotFound {
		return nil, domerr.ProgressNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query progress: %w", err)
	}
	return &prog, nil
}

// GetReward 查当前待兑换的奖励码
func (s *ProgressService) GetReward(ctx context.Context, userID, cardID int64) (*dto.RewardResponse, error) {
	prog, err := s.Get(ctx, userID, cardID)
	if err != nil {
		return nil, err
	}
	if prog.RewardCode == "" {
		return nil, domerr.NoActiveReward
	}

	return &dto.RewardResponse{
		CardID:     prog.CardID,
		RewardCode: prog.RewardCode,
	}, nil
}

// RedeemReward 店员核销后清掉奖励码，历史记录里仍可查
func (s *ProgressService) RedeemReward(ctx context.Context, userID, cardID int64) error {
	prog, err := s.Get(ctx, userID, cardID)
	if err != nil {
		return err
	}
	if prog.RewardCode == "" {
		return domerr.NoActiveReward
	}

	err = database.DB().WithContext(ctx).
		Model(&model.CardProgress{}).
		Where("id = ? AND reward_code = ?", prog.ID, prog.RewardCode).
		Update("reward_code", "").Error
	if err != nil {
		return fmt.Errorf("failed to redeem reward: %w", err)
	}

	logger.Logger.Info("Reward redeemed",
		zap.Int64("progress_id", prog.ID),
		zap.Int64("card_id", prog.CardID),
	)
	return nil
}

// SubmitReceipt 提交小票照片换点。流程：
//
//	OCR 识别 -> Redis 去重快路径 -> 引擎走事务（识别归属、台账去重、加点、集满发码）
//
// 集满时向 MQ 发事件，由 worker 发祝贺短信
func (s *ProgressService) SubmitReceipt(ctx context.Context, userID, cardID int64, image []byte, filename string) (*dto.SubmitReceiptResponse, error) {
	shopper, err := Shopper().GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	card, err := Card().GetByID(ctx, cardID)
	if err != nil {
		return nil, err
	}

	ocrCtx, cancel := context.WithTimeout(ctx, time.Duration(config.Cfg.OCRTimeoutSeconds)*time.Second)
	defer cancel()

	text, err := ocr.ExtractText(ocrCtx, image)
	if err != nil {
		logger.Logger.Warn("OCR extraction failed",
			zap.Int64("shopper_id", shopper.ID),
			zap.Int64("card_id", cardID),
			zap.Error(err),
		)
		return nil, domerr.ExtractionFailed
	}

	// 快路径：见过的小票不必再进事务，权威判定仍在数据库唯一索引
	key := receipt.BuildKey(card.BusinessName, text)
	if cache.IsReceiptSeen(ctx, key) {
		return nil, domerr.ReceiptAlreadyUsed
	}

	imagePath, err := media.Save("receipts", filename, image)
	if err != nil {
		return nil, fmt.Errorf("failed to save receipt image: %w", err)
	}

	res, err := s.engine.Submit(ctx, loyalty.Submission{
		ShopperID: shopper.ID,
		CardID:    card.ID,
		Merchant:  card.BusinessName,
		OCRText:   text,
		ImagePath: imagePath,
	})
	if err != nil {
		return nil, mapEngineError(err)
	}

	if err := cache.MarkReceiptSeen(ctx, key); err != nil {
		logger.Logger.Warn("Failed to mark receipt seen", zap.Error(err))
	}

	resp := &dto.SubmitReceiptResponse{
		Outcome:      string(res.Outcome),
		Points:       res.Points,
		PointsNeeded: res.PointsNeeded,
	}

	if res.Outcome == loyalty.OutcomeCycleCompleted {
		resp.RewardCode = res.RewardCode

		msg := model.CycleCompletedMessage{
			CompletionID: res.CompletionID,
			ShopperID:    shopper.ID,
			CardID:       card.ID,
			CardTitle:    card.Title,
			RewardCode:   res.RewardCode,
			Cycle:        res.Cycle,
			CompletedAt:  res.CompletedAt,
		}
		// 发失败不影响本次提交，定时任务会补
		if err := queue.PublishCycleCompleted(msg); err != nil {
			logger.Logger.Error("Failed to publish cycle completed event",
				zap.Int64("completion_id", res.CompletionID),
				zap.Error(err),
			)
		}
	}

	return resp, nil
}

// mapEngineError 引擎哨兵错误翻成业务错误
func mapEngineError(err error) error {
	switch {
	case errors.Is(err, loyalty.ErrReceiptNotRecognized):
		return domerr.ReceiptNotRecognized
	case errors.Is(err, loyalty.ErrDuplicateReceipt):
		return domerr.ReceiptAlreadyUsed
	case errors.Is(err, loyalty.ErrSubmitConflict):
		return domerr.SubmitConflict
	case errors.Is(err, loyalty.ErrProgressNotFound):
		return domerr.ProgressNotFound
	case errors.Is(err, loyalty.ErrCardInactive):
		return domerr.CardInactive
	default:
		return err
	}
}
