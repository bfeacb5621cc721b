package dto

// ========== Company 相关 DTO ==========

// CreateCompanyRequest 创建商家请求
type CreateCompanyRequest struct {
	CompanyName string `json:"company_name" binding:"required"`
	Address     string `json:"address" binding:"required"`
	Address2    string `json:"address2"`
	City        string `json:"city" binding:"required"`
	Region      string `json:"region"`
	PostCode    string `json:"post_code" binding:"required"`
	Country     string `json:"country"`
	PhoneNumber string `json:"phone_number"`
	Lat         string `json:"lat"`
	Long        string `json:"long"`
}

// UpdateCompanyRequest 更新商家请求，零值字段不动
type UpdateCompanyRequest struct {
	CompanyName string `json:"company_name"`
	Address     string `json:"address"`
	Address2    string `json:"address2"`
	City        string `json:"city"`
	Region      string `json:"region"`
	PostCode    string `json:"post_code"`
	Country     string `json:"country"`
	PhoneNumber string `json:"phone_number"`
	Lat         string `json:"lat"`
	Long        string `json:"long"`
}

// CompanyItem 商家列表项
type CompanyItem struct {
	ID          int64  `json:"id"`
	CompanyName string `json:"company_name"`
	Address     string `json:"address"`
	City        string `json:"city"`
	PostCode    string `json:"post_code"`
	PhoneNumber string `json:"phone_number"`
	LogoPath    string `json:"logo_path,omitempty"`

	// 调用方 IP 定位到的位置与商家的大圆距离，英里
	DistanceMiles float64 `json:"distance_miles"`
}

// NearbyCompaniesQuery 附近商家查询参数
type NearbyCompaniesQuery struct {
	Limit int `form:"limit"`
}
