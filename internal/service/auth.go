package service

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"StampCard/internal/cache"
	"StampCard/internal/model"
	"StampCard/internal/model/dto"
	"StampCard/pkg/errors"
	"StampCard/pkg/logger"
	"StampCard/pkg/snowflake"
	"StampCard/pkg/token"
	"StampCard/storage/database"
	"StampCard/utils"
)

var (
	authService *AuthService
	authOnce    sync.Once
)

func Auth() *AuthService {
	authOnce.Do(func() {
		authService = &AuthService{}
	})
	return authService
}

type AuthService struct{}

// Register 邮箱注册，成功后直接发一对 token
func (s *AuthService) Register(ctx context.Context, req dto.RegisterRequest) (*dto.TokenResponse, error) {
	if !utils.ValidateEmail(req.Email) {
		return nil, errors.InvalidEmail
	}
	if !utils.ValidatePassword(req.Password) {
		return nil, errors.WeakPassword
	}

	db := database.DB()

	var existing model.User
	err := db.WithContext(ctx).Where("email = ?", req.Email).First(&existing).Error
	if err == nil {
		return nil, errors.EmailAlreadyRegistered
	}
	if err != gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	publicID, err := snowflake.NextID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate user ID: %w", err)
	}

	user := &model.User{
		PublicID:     publicID,
		Email:        req.Email,
		PasswordHash: hash,
		Name:         req.Name,
		Active:       true,
	}

	if err := db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	logger.Logger.Info("New user registered",
		zap.Int64("public_id", publicID),
		zap.String("email", req.Email),
	)

	return s.issueTokens(ctx, user)
}

// Login 邮箱密码登录
func (s *AuthService) Login(ctx context.Context, req dto.LoginRequest) (*dto.TokenResponse, error) {
	db := database.DB()

	var user model.User
	err := db.WithContext(ctx).Where("email = ?", req.Email).First(&user).Error
	if err == gorm.ErrRecordNotFound {
		return nil, errors.InvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	if !user.Active {
		return nil, errors.InvalidCredentials
	}
	if !utils.CheckPassword(user.PasswordHash, req.Password) {
		return nil, errors.InvalidCredentials
	}

	return s.issueTokens(ctx, &user)
}

// RefreshToken 用 refresh token 换新的一对 token，旧的作废
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*dto.TokenResponse, error) {
	userIDStr, err := token.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, errors.InvalidRefreshToken
	}

	// Redis 里存的才算数，登出后即失效
	if !cache.ValidateRefreshTokenExists(ctx, userIDStr, refreshToken) {
		return nil, errors.InvalidRefreshToken
	}

	publicID, err := strconv.ParseInt(userIDStr, 10, 64)
	if err != nil {
		return nil, errors.InvalidUserID
	}

	user, err := s.GetUserByPublicID(ctx, publicID)
	if err != nil {
		return nil, err
	}

	return s.issueTokens(ctx, user)
}

// Logout 删除 refresh token
func (s *AuthService) Logout(ctx context.Context, publicID int64) error {
	return cache.DeleteRefreshToken(ctx, strconv.FormatInt(publicID, 10))
}

// GetUserByPublicID 按对外 ID 查用户
func (s *AuthService) GetUserByPublicID(ctx context.Context, publicID int64) (*model.User, error) {
	var user model.User
	err := database.DB().WithContext(ctx).Where("public_id = ?", publicID).First(&user).Error
	if err == gorm.ErrRecordNotFound {
		return nil, errors.Unauthorized
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	return &user, nil
}

// Snapshot 用户概要，令牌响应和 /users/me 共用
func (s *AuthService) Snapshot(ctx context.Context, user *model.User) dto.UserSnapshot {
	db := database.DB()
	var shopperCount, companyCount int64
	db.WithContext(ctx).Model(&model.Shopper{}).Where("user_id = ?", user.ID).Count(&shopperCount)
	db.WithContext(ctx).Model(&model.Company{}).Where("user_id = ?", user.ID).Count(&companyCount)

	return dto.UserSnapshot{
		ID:         user.PublicID,
		Email:      user.Email,
		Name:       user.Name,
		HasShopper: shopperCount > 0,
		HasCompany: companyCount > 0,
	}
}

func (s *AuthService) issueTokens(ctx context.Context, user *model.User) (*dto.TokenResponse, error) {
	userIDStr := strconv.FormatInt(user.PublicID, 10)
	accessToken, refreshToken, expiresIn, err := token.GenerateTokenPair(userIDStr)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	if err := cache.SetRefreshToken(ctx, userIDStr, refreshToken); err != nil {
		logger.Logger.Warn("Failed to store refresh token",
			zap.Int64("public_id", user.PublicID),
			zap.Error(err),
		)
	}

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    expiresIn,
		User:         s.Snapshot(ctx, user),
	}, nil
}
