package service

import (
	"context"
	"fmt"
	"sync"

	"StampCard/internal/model"
	"StampCard/internal/model/dto"
	"StampCard/pkg/errors"
	"StampCard/storage/database"
)

var (
	historyService *HistoryService
	historyOnce    sync.Once
)

func History() *HistoryService {
	historyOnce.Do(func() {
		historyService = &HistoryService{}
	})
	return historyService
}

type HistoryService struct{}

// List 顾客的集满历史，可按卡过滤
func (s *HistoryService) List(ctx context.Context, userID int64, q dto.HistoryQuery) ([]dto.HistoryItem, error) {
	shopper, err := Shopper().GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	limit := q.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	db := database.DB().WithContext(ctx).
		Where("shopper_id = ?", shopper.ID)
	if q.CardID > 0 {
		db = db.Where("card_id = ?", q.CardID)
	}

	var records []model.CompletionRecord
	err = db.Order("created_at DESC").
		Limit(limit).Offset(q.Offset).
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list completions: %w", err)
	}

	// 批量补卡名，避免逐条查
	cardTitles := map[int64]string{}
	cardIDs := make([]int64, 0, len(records))
	for _, r := range records {
		if _, ok := cardTitles[r.CardID]; !ok {
			cardTitles[r.CardID] = ""
			cardIDs = append(cardIDs, r.CardID)
		}
	}
	if len(cardIDs) > 0 {
		var cards []model.Card
		if err := database.DB().WithContext(ctx).Where("id IN ?", cardIDs).Find(&cards).Error; err != nil {
			return nil, fmt.Errorf("failed to load cards: %w", err)
		}
		for _, c := range cards {
			cardTitles[c.ID] = c.Title
		}
	}

	items := make([]dto.HistoryItem, 0, len(records))
	for _, r := range records {
		items = append(items, dto.HistoryItem{
			ID:          r.ID,
			CardID:      r.CardID,
			CardTitle:   cardTitles[r.CardID],
			RewardCode:  r.RewardCode,
			Cycle:       r.Cycle,
			CompletedAt: r.CreatedAt,
			NotifiedAt:  r.NotifiedAt,
		})
	}

	return items, nil
}

// ListByCompany 商家侧的集满记录，店员拿顾客报的奖励码来这里核对
func (s *HistoryService) ListByCompany(ctx context.Context, userID, companyID int64, limit, offset int) ([]dto.CompanyHistoryItem, error) {
	company, err := Company().GetByID(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if company.UserID != userID {
		return nil, errors.Unauthorized
	}

	if limit <= 0 || limit > 100 {
		limit = 20
	}

	var cards []model.Card
	err = database.DB().WithContext(ctx).
		Unscoped().
		Where("company_id = ?", companyID).
		Find(&cards).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load cards: %w", err)
	}
	if len(cards) == 0 {
		return []dto.CompanyHistoryItem{}, nil
	}

	cardTitles := make(map[int64]string, len(cards))
	cardIDs := make([]int64, 0, len(cards))
	for _, c := range cards {
		cardTitles[c.ID] = c.Title
		cardIDs = append(cardIDs, c.ID)
	}

	var records []model.CompletionRecord
	err = database.DB().WithContext(ctx).
		Where("card_id IN ?", cardIDs).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list completions: %w", err)
	}

	items := make([]dto.CompanyHistoryItem, 0, len(records))
	for _, r := range records {
		items = append(items, dto.CompanyHistoryItem{
			ID:          r.ID,
			CardID:      r.CardID,
			CardTitle:   cardTitles[r.CardID],
			ShopperID:   r.ShopperID,
			RewardCode:  r.RewardCode,
			Cycle:       r.Cycle,
			CompletedAt: r.CreatedAt,
		})
	}

	return items, nil
}
