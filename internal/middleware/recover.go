package middleware

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"StampCard/config"
	"StampCard/pkg/errors"
	"StampCard/pkg/logger"
	"StampCard/pkg/response"
)

// RecoverMiddleware 捕获 handler panic，记日志并回 500
func RecoverMiddleware() app.HandlerFunc {
	isProduction := config.Cfg.IsProduction()

	return func(ctx context.Context, c *app.RequestContext) {
		defer func() {
			if err := recover(); err != nil {
				stack := debug.Stack()

				logger.Logger.Error("Panic recovered",
					zap.Any("panic", err),
					zap.String("method", string(c.Method())),
					zap.String("path", string(c.Path())),
					zap.String("client_ip", c.ClientIP()),
					zap.ByteString("stack", stack),
				)

				// 异常挂到当前 span 上
				if span := trace.SpanFromContext(ctx); span.IsRecording() {
					span.RecordError(fmt.Errorf("panic: %v", err))
				}

				errDef := errors.Definition{
					Code:    "INTERNAL_SERVER_ERROR",
					Message: "Internal server error, please try again later",
				}

				if isProduction {
					response.Error(ctx, c, errDef)
				} else {
					response.ErrorWithDetails(ctx, c, errDef, map[string]interface{}{
						"panic":     fmt.Sprintf("%v", err),
						"timestamp": time.Now().Format(time.RFC3339),
						"stack":     string(stack),
					})
				}
				c.Abort()
			}
		}()

		c.Next(ctx)
	}
}
