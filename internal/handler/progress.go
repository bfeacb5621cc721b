package handler

import (
	"context"
	"io"
	"strconv"

	"github.com/cloudwego/hertz/pkg/app"

	"StampCard/internal/middleware"
	"StampCard/internal/model/dto"
	"StampCard/internal/service"
	"StampCard/pkg/errors"
	"StampCard/pkg/media"
	"StampCard/pkg/response"
)

// Enroll 领卡开始集点
// POST /v1/progresses
func Enroll(ctx context.Context, c *app.RequestContext) {
	user, err := currentUser(ctx, c)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	var req dto.EnrollRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	prog, err := service.Progress().Enroll(ctx, user.ID, req.CardID)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Created(ctx, c, prog)
}

// ListProgresses 钱包视图，所有在集的卡
// GET /v1/progresses
func ListProgresses(ctx context.Context, c *app.RequestContext) {
	user, err := currentUser(ctx, c)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	items, err := service.Progress().List(ctx, user.ID)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, items)
}

// GetProgress 单张卡的进度
// GET /v1/progresses/:card_id
func GetProgress(ctx context.Context, c *app.RequestContext) {
	user, err := currentUser(ctx, c)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	cardID, err := strconv.ParseInt(c.Param("card_id"), 10, 64)
	if err != nil {
		response.BindError(ctx, c, err)
		return
	}

	prog, err := service.Progress().Get(ctx, user.ID, cardID)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, prog)
}

// GetReward 查当前待兑换的奖励码
// GET /v1/progresses/:card_id/reward
func GetReward(ctx context.Context, c *app.RequestContext) {
	user, err := currentUser(ctx, c)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	cardID, err := strconv.ParseInt(c.Param("card_id"), 10, 64)
	if err != nil {
		response.BindError(ctx, c, err)
		return
	}

	reward, err := service.Progress().GetReward(ctx, user.ID, cardID)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, reward)
}

// RedeemReward 核销奖励码
// POST /v1/progresses/:card_id/redeem
func RedeemReward(ctx context.Context, c *app.RequestContext) {
	user, err := currentUser(ctx, c)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	cardID, err := strconv.ParseInt(c.Param("card_id"), 10, 64)
	if err != nil {
		response.BindError(ctx, c, err)
		return
	}

	if err := service.Progress().RedeemReward(ctx, user.ID, cardID); err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.NoContent(ctx, c)
}

// SubmitReceipt 提交小票照片换点
// POST /v1/progresses/:card_id/receipts
func SubmitReceipt(ctx context.Context, c *app.RequestContext) {
	user, err := currentUser(ctx, c)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	cardID, err := strconv.ParseInt(c.Param("card_id"), 10, 64)
	if err != nil {
		response.BindError(ctx, c, err)
		return
	}

	fh, err := c.FormFile("image")
	if err != nil {
		response.Error(ctx, c, errors.UploadMissingFile)
		return
	}
	if !media.ValidExtension(fh.Filename) {
		response.Error(ctx, c, errors.UploadInvalidType)
		return
	}

	f, err := fh.Open()
	if err != nil {
		response.Error(ctx, c, err)
		return
	}
	defer f.Close()

	image, err := io.ReadAll(f)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	result, err := service.Progress().SubmitReceipt(ctx, user.ID, cardID, image, fh.Filename)
	if err != nil {
		if def, ok := err.(errors.Definition); ok {
			middleware.RecordReceiptSubmit(ctx, def.Code)
		}
		response.Error(ctx, c, err)
		return
	}

	middleware.RecordReceiptSubmit(ctx, result.Outcome)
	response.Success(ctx, c, result)
}
