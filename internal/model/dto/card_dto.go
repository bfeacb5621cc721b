package dto

// ========== Card 相关 DTO ==========

// CreateCardRequest 创建集点卡请求
type CreateCardRequest struct {
	CompanyID    int64  `json:"company_id" binding:"required"`
	Title        string `json:"title" binding:"required"`
	BusinessName string `json:"business_name" binding:"required"`
	Description  string `json:"description"`
	PointsNeeded int    `json:"points_needed" binding:"required"`
}

// UpdateCardRequest 更新集点卡请求
type UpdateCardRequest struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	PointsNeeded int    `json:"points_needed"`
	Active       *bool  `json:"active"`
}

// CardItem 集点卡列表项
type CardItem struct {
	ID           int64  `json:"id"`
	CompanyID    int64  `json:"company_id"`
	Title        string `json:"title"`
	BusinessName string `json:"business_name"`
	Description  string `json:"description,omitempty"`
	PointsNeeded int    `json:"points_needed"`
	Active       bool   `json:"active"`
}
