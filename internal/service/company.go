package service

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"StampCard/internal/cache"
	"StampCard/internal/model"
	"StampCard/internal/model/dto"
	"StampCard/pkg/errors"
	"StampCard/pkg/geo"
	"StampCard/pkg/geoip"
	"StampCard/pkg/logger"
	"StampCard/storage/database"
)

var (
	companyService *CompanyService
	companyOnce    sync.Once
)

func Company() *CompanyService {
	companyOnce.Do(func() {
		companyService = &CompanyService{}
	})
	return companyService
}

type CompanyService struct{}

// Create 创建商家
func (s *CompanyService) Create(ctx context.Context, userID int64, req dto.CreateCompanyRequest) (*model.Company, error) {
	company := &model.Company{
		UserID:      userID,
		CompanyName: req.CompanyName,
		Address:     req.Address,
		Address2:    req.Address2,
		City:        req.City,
		Region:      req.Region,
		PostCode:    req.PostCode,
		Country:     req.Country,
		PhoneNumber: req.PhoneNumber,
		Lat:         req.Lat,
		Long:        req.Long,
		Active:      true,
	}

	if err := database.DB().WithContext(ctx).Create(company).Error; err != nil {
		return nil, fmt.Errorf("failed to create company: %w", err)
	}

	logger.Logger.Info("Company created",
		zap.Int64("user_id", userID),
		zap.Int64("company_id", company.ID),
		zap.String("name", company.CompanyName),
	)

	return company, nil
}

// Update 更新商家，只有归属账号能改
func (s *CompanyService) Update(ctx context.Context, userID, companyID int64, req dto.UpdateCompanyRequest) (*model.Company, error) {
	company, err := s.GetByID(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if company.UserID != userID {
		return nil, errors.Unauthorized
	}

	updates := map[string]interface{}{}
	if req.CompanyName != "" {
		updates["company_name"] = req.CompanyName
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
	if req.Lat != "" {
		updates["lat"] = req.Lat
	}
	if req.Long != "" {
		updates["long"] = req.Long
	}

	if len(updates) == 0 {
		return company, nil
	}

	if err := database.DB().WithContext(ctx).Model(company).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update company: %w", err)
	}

	return company, nil
}

// Delete 下架并软删商家，同时下架名下所有卡
func (s *CompanyService) Delete(ctx context.Context, userID, companyID int64) error {
	company, err := s.GetByID(ctx, companyID)
	if err != nil {
		return err
	}
	if company.UserID != userID {
		return errors.Unauthorized
	}

	db := database.DB().WithContext(ctx)
	if err := db.Model(&model.Card{}).Where("company_id = ?", company.ID).Update("active", false).Error; err != nil {
		return fmt.Errorf("failed to deactivate cards: %w", err)
	}
	if err := db.Model(company).Update("active", false).Error; err != nil {
		return fmt.Errorf("failed to deactivate company: %w", err)
	}
	if err := db.Delete(company).Error; err != nil {
		return fmt.Errorf("failed to delete company: %w", err)
	}

	logger.Logger.Info("Company deleted",
		zap.Int64("company_id", company.ID),
		zap.Int64("user_id", userID),
	)
	return nil
}

// GetByID 按主键查商家
func (s *CompanyService) GetByID(ctx context.Context, companyID int64) (*model.Company, error) {
	var company model.Company
	err := database.DB().WithContext(ctx).First(&company, companyID).Error
	if err == gorm.ErrRecordNotFound {
		return nil, errors.CompanyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query company: %w", err)
	}
	return &company, nil
}

// SetLogoPath 记录上传后的 logo 相对路径
func (s *CompanyService) SetLogoPath(ctx context.Context, userID, companyID int64, path string) error {
	company, err := s.GetByID(ctx, companyID)
	if err != nil {
		return err
	}
	if company.UserID != userID {
		return errors.Unauthorized
	}

	return database.DB().WithContext(ctx).Model(company).Update("logo_path", path).Error
}

// ListNearby 按与调用方 IP 定位点的大圆距离升序返回在营商家。
// 定位结果进 Redis 缓存，定位失败落到配置里的默认坐标
func (s *CompanyService) ListNearby(ctx context.Context, clientIP string, limit int) ([]dto.CompanyItem, error) {
	origin := s.locate(ctx, clientIP)

	var companies []model.Company
	err := database.DB().WithContext(ctx).
		Where("active = ?", true).
		Find(&companies).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list companies: %w", err)
	}

	items := make([]dto.CompanyItem, 0, len(companies))
	for _, c := range companies {
		item := dto.CompanyItem{
			ID:          c.ID,
			CompanyName: c.CompanyName,
			Address:     c.Address,
			City:        c.City,
			PostCode:    c.PostCode,
			PhoneNumber: c.PhoneNumber,
			LogoPath:    c.LogoPath,
		}
		if p, ok := geo.ParsePoint(c.Lat, c.Long); ok {
			item.DistanceMiles = geo.GreatCircleMiles(origin, p)
		}
		items = append(items, item)
	}

	sort.Slice(items, func(i, j int) bool {
		return items[i].DistanceMiles < items[j].DistanceMiles
	})

	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}

	return items, nil
}

func (s *CompanyService) locate(ctx context.Context, clientIP string) geo.Point {
	if cached, err := cache.GetGeoIP(ctx, clientIP); err == nil && cached != nil {
		return *cached
	}

	p := geoip.Locate(ctx, clientIP)

	if err := cache.SetGeoIP(ctx, clientIP, p); err != nil {
		logger.Logger.Warn("Failed to cache geoip result",
			zap.String("ip", clientIP),
			zap.Error(err),
		)
	}
	return p
}
