package service

import (
	"context"
	"fmt"
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
	shopperService *ShopperService
	shopperOnce    sync.Once
)

func Shopper() *ShopperService {
	shopperOnce.Do(func() {
		shopperService = &ShopperService{}
	})
	return shopperService
}

type ShopperService struct{}

// Create 建顾客档案，一个账号只能有一份
func (s *ShopperService) Create(ctx context.Context, userID int64, req dto.CreateShopperRequest) (*model.Shopper, error) {
	db := database.DB()

	var count int64
	if err := db.WithContext(ctx).Model(&model.Shopper{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to check existing shopper: %w", err)
	}
	if count > 0 {
		return nil, errors.ShopperAlreadyExists
	}

	shopper := &model.Shopper{
		UserID:      userID,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Address:     req.Address,
		Address2:    req.Address2,
		City:        req.City,
		Region:      req.Region,
		PostCode:    req.PostCode,
		Country:     req.Country,
		PhoneNumber: req.PhoneNumber,
		Active:      true,
	}

	if err := db.WithContext(ctx).Create(shopper).Error; err != nil {
		return nil, fmt.Errorf("failed to create shopper: %w", err)
	}

	logger.Logger.Info("Shopper profile created",
		zap.Int64("user_id", userID),
		zap.Int64("shopper_id", shopper.ID),
	)

	return shopper, nil
}

// Update 零值字段不更新
func (s *ShopperService) Update(ctx context.Context, userID int64, req dto.UpdateShopperRequest) (*model.Shopper, error) {
	shopper, err := s.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.FirstName != "" {
		updates["first_name"] = req.FirstName
	}
	if req.LastName != "" {
		updates["last_name"] = req.LastName
	}
	if req.Address != "" {
		updates["address"] = req.Address
	}
	if req.Address2 != "" {
		updates["address2"] = req.Address2
	}
	if req.City != "" {
		updates["city"] = req.City
	}
	if req.Region != "" {
		updates["region"] = req.Region
	}
	if req.PostCode != "" {
		updates["post_code"] = req.PostCode
	}
	if req.Country != "" {
		updates["country"] = req.Country
	}
	if req.PhoneNumber != "" {
		updates["phone_number"] = req.PhoneNumber
	}

	if len(updates) == 0 {
		return shopper, nil
	}

	if err := database.DB().WithContext(ctx).Model(shopper).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update shopper: %w", err)
	}

	return shopper, nil
}

// GetByUserID 查账号名下的顾客档案
func (s *ShopperService) GetByUserID(ctx context.Context, userID int64) (*model.Shopper, error) {
	var shopper model.Shopper
	err := database.DB().WithContext(ctx).Where("user_id = ?", userID).First(&shopper).Error
	if err == gorm.ErrRecordNotFound {
		return nil, errors.ShopperNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query shopper: %w", err)
	}
	return &shopper, nil
}

// GetByID 按主键查顾客档案
func (s *ShopperService) GetByID(ctx context.Context, shopperID int64) (*model.Shopper, error) {
	var shopper model.Shopper
	err := database.DB().WithContext(ctx).First(&shopper, shopperID).Error
	if err == gorm.ErrRecordNotFound {
		return nil, errors.ShopperNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query shopper: %w", err)
	}
	return &shopper, nil
}
