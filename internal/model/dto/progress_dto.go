package dto

import "time"

// ========== Progress 相关 DTO ==========

// EnrollRequest 领卡请求
type EnrollRequest struct {
	CardID int64 `json:"card_id" binding:"required"`
}

// ProgressItem 进度列表项
type ProgressItem struct {
	ID             int64      `json:"id"`
	CardID         int64      `json:"card_id"`
	CardTitle      string     `json:"card_title"`
	BusinessName   string     `json:"business_name"`
	Points         int        `json:"points"`
	PointsNeeded   int        `json:"points_needed"`
	RewardCode     string     `json:"reward_code,omitempty"`
	CompletedCount int        `json:"completed_count"`
	LastStampAt    *time.Time `json:"last_stamp_at,omitempty"`
}

// SubmitReceiptResponse 提交小票响应
type SubmitReceiptResponse struct {
	Outcome      string `json:"outcome"` // point_added / cycle_completed
	Points       int    `json:"points"`
	PointsNeeded int    `json:"points_needed"`
	RewardCode   string `json:"reward_code,omitempty"` // 仅 cycle_completed 时返回
}

// RewardResponse 待兑换奖励码
type RewardResponse struct {
	CardID     int64  `json:"card_id"`
	RewardCode string `json:"reward_code"`
}

// HistoryItem 集满历史项
type HistoryItem struct {
	ID          int64      `json:"id"`
	CardID      int64      `json:"card_id"`
	CardTitle   string     `json:"card_title"`
	RewardCode  string     `json:"reward_code"`
	Cycle       int        `json:"cycle"`
	CompletedAt time.Time  `json:"completed_at"`
	NotifiedAt  *time.Time `json:"notified_at,omitempty"`
}

// HistoryQuery 集满历史查询参数
type HistoryQuery struct {
	CardID int64 `form:"card_id"`
	Limit  int   `form:"limit"`
	Offset int   `form:"offset"`
}

// CompanyHistoryItem 商家侧的集满记录，用来核对奖励码
type CompanyHistoryItem struct {
	ID          int64     `json:"id"`
	CardID      int64     `json:"card_id"`
	CardTitle   string    `json:"card_title"`
	ShopperID   int64     `json:"shopper_id"`
	RewardCode  string    `json:"reward_code"`
	Cycle       int       `json:"cycle"`
	CompletedAt time.Time `json:"completed_at"`
}
