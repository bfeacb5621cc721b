package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"

	"StampCard/internal/model"
	"StampCard/internal/model/dto"
	"StampCard/internal/service"
	"StampCard/pkg/response"
)

// CreateShopper 建顾客档案
// POST /v1/shoppers
func CreateShopper(ctx context.Context, c *app.RequestContext) {
	user, err := currentUser(ctx, c)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	var req dto.CreateShopperRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	shopper, err := service.Shopper().Create(ctx, user.ID, req)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Created(ctx, c, toShopperProfile(shopper))
}

// GetMyShopper 查看自己的顾客档案
// GET /v1/shoppers/me
func GetMyShopper(ctx context.Context, c *app.RequestContext) {
	user, err := currentUser(ctx, c)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	shopper, err := service.Shopper().GetByUserID(ctx, user.ID)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, toShopperProfile(shopper))
}

// UpdateMyShopper 更新自己的顾客档案
// PUT /v1/shoppers/me
func UpdateMyShopper(ctx context.Context, c *app.RequestContext) {
	user, err := currentUser(ctx, c)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	var req dto.UpdateShopperRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	shopper, err := service.Shopper().Update(ctx, user.ID, req)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, toShopperProfile(shopper))
}

func toShopperProfile(s *model.Shopper) dto.ShopperProfile {
	return dto.ShopperProfile{
		ID:          s.ID,
		FirstName:   s.FirstName,
		LastName:    s.LastName,
		Address:     s.Address,
		City:        s.City,
		PostCode:    s.PostCode,
		Country:     s.Country,
		PhoneNumber: s.PhoneNumber,
	}
}
