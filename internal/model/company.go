package model

// Company 商家模型，集点卡的归属方
type Company struct {
	BaseModel
	UserID      int64  `gorm:"not null;index" json:"user_id"` // 商家老板账号
	CompanyName string `gorm:"type:varchar(200);not null" json:"company_name"`
	Address     string `gorm:"type:varchar(200);not null" json:"address"`
	Address2    string `gorm:"type:varchar(200);not null;default:''" json:"address2"`
	City        string `gorm:"type:varchar(50);not null" json:"city"`
	Region      string `gorm:"type:varchar(50);not null;default:''" json:"region"`
	PostCode    string `gorm:"type:varchar(10);not null" json:"post_code"`
	Country     string `gorm:"type:char(2);not null;default:''" json:"country"` // ISO 3166-1 alpha-2
	PhoneNumber string `gorm:"type:varchar(32);not null;default:''" json:"phone_number"`

	// 坐标按字符串存储，外部地理编码服务给什么存什么
	Lat  string `gorm:"type:varchar(20);not null;default:''" json:"lat"`
	Long string `gorm:"type:varchar(20);not null;default:''" json:"long"`

	LogoPath string `gorm:"type:varchar(255);not null;default:''" json:"logo_path"`
	Active   bool   `gorm:"not null;default:true" json:"active"`
}

// TableName 指定表名
func (Company) TableName() string {
	return "companies"
}
