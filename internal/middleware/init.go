package middleware

import "fmt"

// Init 初始化需要前置准备的中间件，目前只有 JWT 认证
func Init() error {
	if err := initAuthMiddleware(); err != nil {
		return fmt.Errorf("failed to initialize auth middleware: %w", err)
	}
	return nil
}
