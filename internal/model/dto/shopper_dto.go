package dto

// ========== Shopper 相关 DTO ==========

// CreateShopperRequest 创建顾客档案请求
type CreateShopperRequest struct {
	FirstName   string `json:"first_name" binding:"required"`
	LastName    string `json:"last_name" binding:"required"`
	Address     string `json:"address"`
	Address2    string `json:"address2"`
	City        string `json:"city"`
	Region      string `json:"region"`
	PostCode    string `json:"post_code"`
	Country     string `json:"country"`
	PhoneNumber string `json:"phone_number"`
}

// UpdateShopperRequest 更新顾客档案请求
type UpdateShopperRequest struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Address     string `json:"address"`
	Address2    string `json:"address2"`
	City        string `json:"city"`
	Region      string `json:"region"`
	PostCode    string `json:"post_code"`
	Country     string `json:"country"`
	PhoneNumber string `json:"phone_number"`
}

// ShopperProfile 顾客档案响应
type ShopperProfile struct {
	ID          int64  `json:"id"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Address     string `json:"address,omitempty"`
	City        string `json:"city,omitempty"`
	PostCode    string `json:"post_code,omitempty"`
	Country     string `json:"country,omitempty"`
	PhoneNumber string `json:"phone_number,omitempty"`
}
