package handler

import (
	"context"
	"strconv"

	"github.com/cloudwego/hertz/pkg/app"

	"StampCard/internal/model/dto"
	"StampCard/internal/service"
	"StampCard/pkg/response"
)

// CreateCard 在自己的商家下建卡
// POST /v1/cards
func CreateCard(ctx context.Context, c *app.RequestContext) {
	user, err := currentUser(ctx, c)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	var req dto.CreateCardRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	card, err := service.Card().Create(ctx, user.ID, req)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Created(ctx, c, card)
}

// GetCard 卡详情
// GET /v1/cards/:id
func GetCard(ctx context.Context, c *app.RequestContext) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BindError(ctx, c, err)
		return
	}

	card, err := service.Card().GetByID(ctx, id)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, card)
}

// UpdateCard 更新卡定义
// PUT /v1/cards/:id
func UpdateCard(ctx context.Context, c *app.RequestContext) {
	user, err := currentUser(ctx, c)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BindError(ctx, c, err)
		return
	}

	var req dto.UpdateCardRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	card, err := service.Card().Update(ctx, user.ID, id, req)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, card)
}

// DeleteCard 下架并删除卡
// DELETE /v1/cards/:id
func DeleteCard(ctx context.Context, c *app.RequestContext) {
	user, err := currentUser(ctx, c)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BindError(ctx, c, err)
		return
	}

	if err := service.Card().Delete(ctx, user.ID, id); err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.NoContent(ctx, c)
}

// ListCards 可领取的卡列表
// GET /v1/cards
func ListCards(ctx context.Context, c *app.RequestContext) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	offset, _ := strconv.Atoi(c.Query("offset"))

	// 传了 company_id 就看商家名下的卡（含停用的）
	if companyIDStr := c.Query("company_id"); companyIDStr != "" {
		companyID, err := strconv.ParseInt(companyIDStr, 10, 64)
		if err != nil {
			response.BindError(ctx, c, err)
			return
		}
		items, err := service.Card().ListByCompany(ctx, companyID, limit, offset)
		if err != nil {
			response.Error(ctx, c, err)
			return
		}
		response.Success(ctx, c, items)
		return
	}

	items, err := service.Card().ListActive(ctx, limit, offset)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, items)
}
