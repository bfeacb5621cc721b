package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"

	"StampCard/internal/model/dto"
	"StampCard/internal/service"
	"StampCard/pkg/response"
)

// ListHistory 集满历史，每一轮的奖励码都在这
// GET /v1/history
func ListHistory(ctx context.Context, c *app.RequestContext) {
	user, err := currentUser(ctx, c)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	var q dto.HistoryQuery
	if err := c.BindQuery(&q); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	items, err := service.History().List(ctx, user.ID, q)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, items)
}
