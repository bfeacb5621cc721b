package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"

	"StampCard/internal/service"
	"StampCard/pkg/response"
)

// GetMe 当前账号概要
// GET /v1/users/me
func GetMe(ctx context.Context, c *app.RequestContext) {
	user, err := currentUser(ctx, c)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, service.Auth().Snapshot(ctx, user))
}
