package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"

	"StampCard/internal/middleware"
	"StampCard/internal/model"
	"StampCard/internal/service"
	"StampCard/pkg/errors"
)

// currentUser 从 JWT 身份解出账号记录
func currentUser(ctx context.Context, c *app.RequestContext) (*model.User, error) {
	publicID, ok := middleware.GetUserPublicID(ctx, c)
	if !ok {
		return nil, errors.Unauthorized
	}
	return service.Auth().GetUserByPublicID(ctx, publicID)
}
