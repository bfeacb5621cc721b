package response

import (
	"context"
	"net/http"

	"github.com/cloudwego/hertz/pkg/app"

	"StampCard/pkg/errors"
)

// 统一响应信封：成功 {"data": ...}，失败 {"error": {code, message}}

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Details map[string]interface{} `json:"details,omitempty"`
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
}

type SuccessResponse struct {
	Data interface{}            `json:"data"`
	Meta map[string]interface{} `json:"meta,omitempty"`
}

// 业务错误码到 HTTP 状态码的映射，没列出的一律 500
var statusByCode = map[string]int{
	"UNAUTHORIZED":          http.StatusUnauthorized,
	"INVALID_CREDENTIALS":   http.StatusUnauthorized,
	"INVALID_REFRESH_TOKEN": http.StatusUnauthorized,

	"COMPANY_NOT_FOUND":  http.StatusNotFound,
	"CARD_NOT_FOUND":     http.StatusNotFound,
	"SHOPPER_NOT_FOUND":  http.StatusNotFound,
	"PROGRESS_NOT_FOUND": http.StatusNotFound,

	"RECEIPT_ALREADY_USED":     http.StatusConflict,
	"EMAIL_ALREADY_REGISTERED": http.StatusConflict,
	"SHOPPER_ALREADY_EXISTS":   http.StatusConflict,
	"PROGRESS_ALREADY_EXISTS":  http.StatusConflict,

	// 422 提示用户重拍小票
	"RECEIPT_NOT_RECOGNIZED": http.StatusUnprocessableEntity,
	"EXTRACTION_FAILED":      http.StatusUnprocessableEntity,

	"INVALID_REQUEST":        http.StatusBadRequest,
	"INVALID_USER_ID":        http.StatusBadRequest,
	"CARD_INVALID_THRESHOLD": http.StatusBadRequest,
	"CARD_INACTIVE":          http.StatusBadRequest,
	"COMPANY_INACTIVE":       http.StatusBadRequest,
	"NO_ACTIVE_REWARD":       http.StatusBadRequest,
	"UPLOAD_MISSING_FILE":    http.StatusBadRequest,
	"UPLOAD_INVALID_TYPE":    http.StatusBadRequest,
	"INVALID_EMAIL":          http.StatusBadRequest,
	"WEAK_PASSWORD":          http.StatusBadRequest,

	"TOO_MANY_REQUESTS": http.StatusTooManyRequests,

	// 瞬时冲突，客户端稍后重试
	"SUBMIT_CONFLICT": http.StatusServiceUnavailable,
}

func classify(err error) (status int, code, message string) {
	def, ok := err.(errors.Definition)
	if !ok {
		return http.StatusInternalServerError, "INTERNAL_ERROR", err.Error()
	}
	status, ok = statusByCode[def.Code]
	if !ok {
		status = http.StatusInternalServerError
	}
	return status, def.Code, def.Message
}

// Error 返回错误响应
func Error(ctx context.Context, c *app.RequestContext, err error) {
	status, code, message := classify(err)
	c.JSON(status, ErrorResponse{Error: ErrorDetail{Code: code, Message: message}})
}

// ErrorWithDetails 带附加字段的错误响应，recover 中间件在开发环境用
func ErrorWithDetails(ctx context.Context, c *app.RequestContext, err error, details map[string]interface{}) {
	status, code, message := classify(err)
	c.JSON(status, ErrorResponse{Error: ErrorDetail{Code: code, Message: message, Details: details}})
}

func Success(ctx context.Context, c *app.RequestContext, data interface{}) {
	c.JSON(http.StatusOK, SuccessResponse{Data: data})
}

func SuccessWithMeta(ctx context.Context, c *app.RequestContext, data interface{}, meta map[string]interface{}) {
	c.JSON(http.StatusOK, SuccessResponse{Data: data, Meta: meta})
}

// Created 201，资源创建
func Created(ctx context.Context, c *app.RequestContext, data interface{}) {
	c.JSON(http.StatusCreated, SuccessResponse{Data: data})
}

// BindError 参数绑定/校验失败统一 400
func BindError(ctx context.Context, c *app.RequestContext, err error) {
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error: ErrorDetail{Code: "INVALID_REQUEST", Message: err.Error()},
	})
}

// NoContent 204，DELETE 和核销类操作用
func NoContent(ctx context.Context, c *app.RequestContext) {
	c.Status(http.StatusNoContent)
}
