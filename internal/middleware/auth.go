package middleware

import (
	"context"
	"fmt"
	"strconv"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/hertz-contrib/jwt"

	"StampCard/pkg/token"
)

const IdentityKey = token.IdentityKey

var authMiddleware *jwt.HertzJWTMiddleware

// initAuthMiddleware 在 token 包的共享生成器之上挂 HTTP 侧配置，
// 两边必须用同一把 key 和同一个 IdentityKey
func initAuthMiddleware() error {
	gen := token.GetGenerator()
	if gen == nil {
		return fmt.Errorf("token generator not initialized, call token.Init() first")
	}

	authMiddleware = &jwt.HertzJWTMiddleware{
		Realm:       "StampCard API",
		Key:         gen.Key,
		Timeout:     gen.Timeout,
		MaxRefresh:  gen.MaxRefresh,
		IdentityKey: gen.IdentityKey,
		TimeFunc:    gen.TimeFunc,

		// claim 里的 public_id 统一还原成字符串，数值型 claim 是 float64
		IdentityHandler: func(ctx context.Context, c *app.RequestContext) interface{} {
			claims := jwt.ExtractClaims(ctx, c)
			switch v := claims[IdentityKey].(type) {
			case string:
				return v
			case float64:
				return fmt.Sprintf("%.0f", v)
			default:
				return nil
			}
		},

		Unauthorized: func(ctx context.Context, c *app.RequestContext, code int, message string) {
			c.JSON(code, map[string]interface{}{
				"error": map[string]interface{}{
					"code":    "UNAUTHORIZED",
					"message": message,
				},
			})
		},

		TokenLookup:   "header: Authorization, query: token, cookie: jwt",
		TokenHeadName: "Bearer",
	}

	return nil
}

func AuthMiddleware() app.HandlerFunc {
	if authMiddleware == nil {
		panic("AuthMiddleware not initialized, call Init() first")
	}
	return authMiddleware.MiddlewareFunc()
}

// GetUserID 取认证后的 public_id（字符串形式），未认证返回 false
func GetUserID(ctx context.Context, c *app.RequestContext) (string, bool) {
	v, exists := c.Get(IdentityKey)
	if !exists {
		return "", false
	}
	id, ok := v.(string)
	return id, ok
}

// GetUserPublicID 解析成 int64 的 public_id
func GetUserPublicID(ctx context.Context, c *app.RequestContext) (int64, bool) {
	idStr, ok := GetUserID(ctx, c)
	if !ok {
		return 0, false
	}
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}
