package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"StampCard/internal/model"
	"StampCard/internal/model/dto"
	"StampCard/pkg/errors"
	"StampCard/pkg/logger"
	"StampCard/storage/database"
)

var (
	cardService *CardService
	cardOnce    sync.Once
)

func Card() *CardService {
	cardOnce.Do(func() {
		cardService = &CardService{}
	})
	return cardService
}

type CardService struct{}

// Create 在自己的商家下建卡，阈值必须为正
func (s *CardService) Create(ctx context.Context, userID int64, req dto.CreateCardRequest) (*model.Card, error) {
	if req.PointsNeeded <= 0 {
		return nil, errors.CardInvalidThreshold
	}

	company, err := Company().GetByID(ctx, req.CompanyID)
	if err != nil {
		return nil, err
	}
	if company.UserID != userID {
		return nil, errors.Unauthorized
	}
	if !company.Active {
		return nil, errors.CompanyInactive
	}

	card := &model.Card{
		CompanyID:    company.ID,
		UserID:       userID,
		Title:        req.Title,
		Slug:         slugify(req.Title),
		BusinessName: req.BusinessName,
		Description:  req.Description,
		PointsNeeded: req.PointsNeeded,
		Active:       true,
	}

	if err := database.DB().WithContext(ctx).Create(card).Error; err != nil {
		return nil, fmt.Errorf("failed to create card: %w", err)
	}

	logger.Logger.Info("Card created",
		zap.Int64("company_id", company.ID),
		zap.Int64("card_id", card.ID),
		zap.String("title", card.Title),
		zap.Int("points_needed", card.PointsNeeded),
	)

	return card, nil
}

// Update 更新卡定义，阈值改动只影响之后的提交
func (s *CardService) Update(ctx context.Context, userID, cardID int64, req dto.UpdateCardRequest) (*model.Card, error) {
	card, err := s.GetByID(ctx, cardID)
	if err != nil {
		return nil, err
	}
	if card.UserID != userID {
		return nil, errors.Unauthorized
	}

	updates := map[string]interface{}{}
	if req.Title != "" {
		updates["title"] = req.Title
		updates["slug"] = slugify(req.Title)
	}
	if req.Description != "" {
		updates["description"] = req.Description
	}
	if req.PointsNeeded != 0 {
		if req.PointsNeeded < 0 {
			return nil, errors.CardInvalidThreshold
		}
		updates["points_needed"] = req.PointsNeeded
	}
	if req.Active != nil {
		updates["active"] = *req.Active
	}

	if len(updates) == 0 {
		return card, nil
	}

	if err := database.DB().WithContext(ctx).Model(card).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update card: %w", err)
	}

	return card, nil
}

// Delete 下架并软删卡，已有进度和历史保留
func (s *CardService) Delete(ctx context.Context, userID, cardID int64) error {
	card, err := s.GetByID(ctx, cardID)
	if err != nil {
		return err
	}
	if card.UserID != userID {
		return errors.Unauthorized
	}

	db := database.DB().WithContext(ctx)
	if err := db.Model(card).Update("active", false).Error; err != nil {
		return fmt.Errorf("failed to deactivate card: %w", err)
	}
	if err := db.Delete(card).Error; err != nil {
		return fmt.Errorf("failed to delete card: %w", err)
	}

	logger.Logger.Info("Card deleted",
		zap.Int64("card_id", card.ID),
		zap.Int64("company_id", card.CompanyID),
	)
	return nil
}

// GetByID 按主键查卡
func (s *CardService) GetByID(ctx context.Context, cardID int64) (*model.Card, error) {
	var card model.Card
	err := database.DB().WithContext(ctx).First(&card, cardID).Error
	if err == gorm.ErrRecordNotFound {
		return nil, errors.CardNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query card: %w", err)
	}
	return &card, nil
}

// ListActive 列出可领取的卡（分页）
func (s *CardService) ListActive(ctx context.Context, limit, offset int) ([]dto.CardItem, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	var cards []model.Card
	err := database.DB().WithContext(ctx).
		Where("active = ?", true).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&cards).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list cards: %w", err)
	}

	return toCardItems(cards), nil
}

// ListByCompany 列出商家名下的卡，含停用的
func (s *CardService) ListByCompany(ctx context.Context, companyID int64, limit, offset int) ([]dto.CardItem, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	var cards []model.Card
	err := database.DB().WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&cards).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list cards: %w", err)
	}

	return toCardItems(cards), nil
}

func toCardItems(cards []model.Card) []dto.CardItem {
	items := make([]dto.CardItem, 0, len(cards))
	for _, c := range cards {
		items = append(items, dto.CardItem{
			ID:           c.ID,
			CompanyID:    c.CompanyID,
			Title:        c.Title,
			BusinessName: c.BusinessName,
			Description:  c.Description,
			PointsNeeded: c.PointsNeeded,
			Active:       c.Active,
		})
	}
	return items
}

func slugify(title string) string {
	s := strings.ToLower(strings.TrimSpace(title))
	s = strings.Join(strings.Fields(s), "-")
	return s
}
