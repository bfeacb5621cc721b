package handler

import (
	"context"
	"io"
	"strconv"

	"github.com/cloudwego/hertz/pkg/app"

	"StampCard/internal/model/dto"
	"StampCard/internal/service"
	"StampCard/pkg/errors"
	"StampCard/pkg/media"
	"StampCard/pkg/response"
)

// CreateCompany 创建商家
// POST /v1/companies
func CreateCompany(ctx context.Context, c *app.RequestContext) {
	user, err := currentUser(ctx, c)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	var req dto.CreateCompanyRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	company, err := service.Company().Create(ctx, user.ID, req)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Created(ctx, c, company)
}

// GetCompany 商家详情
// GET /v1/companies/:id
func GetCompany(ctx context.Context, c *app.RequestContext) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BindError(ctx, c, err)
		return
	}

	company, err := service.Company().GetByID(ctx, id)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, company)
}

// UpdateCompany 更新商家
// PUT /v1/companies/:id
func UpdateCompany(ctx context.Context, c *app.RequestContext) {
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

	var req dto.UpdateCompanyRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	company, err := service.Company().Update(ctx, user.ID, id, req)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, company)
}

// DeleteCompany 下架并删除商家
// DELETE /v1/companies/:id
func DeleteCompany(ctx context.Context, c *app.RequestContext) {
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

	if err := service.Company().Delete(ctx, user.ID, id); err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.NoContent(ctx, c)
}

// ListCompanyHistory 商家侧的集满记录
// GET /v1/companies/:id/history
func ListCompanyHistory(ctx context.Context, c *app.RequestContext) {
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

	limit, _ := strconv.Atoi(c.Query("limit"))
	offset, _ := strconv.Atoi(c.Query("offset"))

	items, err := service.History().ListByCompany(ctx, user.ID, id, limit, offset)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, items)
}

// ListNearbyCompanies 按与调用方位置的距离升序列出商家
// GET /v1/companies/nearby
func ListNearbyCompanies(ctx context.Context, c *app.RequestContext) {
	var q dto.NearbyCompaniesQuery
	if err := c.BindQuery(&q); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	items, err := service.Company().ListNearby(ctx, c.ClientIP(), q.Limit)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, items)
}

// UploadCompanyLogo 上传商家 logo
// POST /v1/companies/:id/logo
func UploadCompanyLogo(ctx context.Context, c *app.RequestContext) {
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

	fh, err := c.FormFile("logo")
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

	data, err := io.ReadAll(f)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	path, err := media.Save("logos", fh.Filename, data)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	if err := service.Company().SetLogoPath(ctx, user.ID, id, path); err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, map[string]string{"logo_path": path})
}
