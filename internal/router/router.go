package router

import (
	"github.com/cloudwego/hertz/pkg/app/server"

	"StampCard/internal/handler"
	"StampCard/internal/middleware"
)

func Register(h *server.Hertz) {

	h.Use(middleware.RecoverMiddleware())
	h.Use(middleware.CORSMiddleware())
	h.Use(middleware.OpenTelemetryMiddleware())

	v1 := h.Group("/v1")

	// 认证相关路由
	auth := v1.Group("/auth")
	auth.Use(middleware.AuthRateLimitMiddleware()) // 认证接口限流
	{
		auth.POST("/register", handler.Register)
		auth.POST("/login", handler.Login)
		auth.POST("/token/refresh", handler.RefreshToken)
		auth.POST("/logout", middleware.AuthMiddleware(), handler.Logout)
	}

	// 公开路由：浏览商家和卡不需要登录
	v1.GET("/companies/nearby", handler.ListNearbyCompanies)
	v1.GET("/companies/:id", handler.GetCompany)
	v1.GET("/cards", handler.ListCards)
	v1.GET("/cards/:id", handler.GetCard)

	// 账号路由
	users := v1.Group("/users")
	users.Use(middleware.AuthMiddleware())
	{
		users.GET("/me", handler.GetMe)
	}

	// 商家路由
	companies := v1.Group("/companies")
	companies.Use(middleware.AuthMiddleware())
	{
		companies.POST("", handler.CreateCompany)
		companies.PUT("/:id", handler.UpdateCompany)
		companies.DELETE("/:id", handler.DeleteCompany)
		companies.POST("/:id/logo", handler.UploadCompanyLogo)
		companies.GET("/:id/history", handler.ListCompanyHistory)
	}

	// 卡定义路由
	cards := v1.Group("/cards")
	cards.Use(middleware.AuthMiddleware())
	{
		cards.POST("", handler.CreateCard)
		cards.PUT("/:id", handler.UpdateCard)
		cards.DELETE("/:id", handler.DeleteCard)
	}

	// 顾客档案路由
	shoppers := v1.Group("/shoppers")
	shoppers.Use(middleware.AuthMiddleware())
	{
		shoppers.POST("", handler.CreateShopper)
		shoppers.GET("/me", handler.GetMyShopper)
		shoppers.PUT("/me", handler.UpdateMyShopper)
	}

	// 集点进度路由
	progresses := v1.Group("/progresses")
	progresses.Use(middleware.AuthMiddleware())
	{
		progresses.POST("", handler.Enroll)
		progresses.GET("", handler.ListProgresses)
		progresses.GET("/:card_id", handler.GetProgress)
		progresses.POST("/:card_id/receipts", middleware.SubmitRateLimitMiddleware(), handler.SubmitReceipt)
		progresses.GET("/:card_id/reward", handler.GetReward)
		progresses.POST("/:card_id/redeem", handler.RedeemReward)
	}

	// 集满历史路由
	history := v1.Group("/history")
	history.Use(middleware.AuthMiddleware())
	{
		history.GET("", handler.ListHistory)
	}
}
