package model

// Card 集点卡定义：集满 PointsNeeded 个点发一个奖励码
type Card struct {
	BaseModel
	CompanyID    int64  `gorm:"not null;index" json:"company_id"`
	UserID       int64  `gorm:"not null;index" json:"user_id"` // 创建这张卡的商家账号
	Title        string `gorm:"type:varchar(200);not null" json:"title"`
	Slug         string `gorm:"type:varchar(200);not null;default:''" json:"slug"`
	BusinessName string `gorm:"type:varchar(200);not null" json:"business_name"`
	Description  string `gorm:"type:text;not null;default:''" json:"description"`
	PointsNeeded int    `gorm:"not null" json:"points_needed"` // 必须为正，服务层校验
	Active       bool   `gorm:"not null;default:true" json:"active"`

	Company *Company `gorm:"foreignKey:CompanyID" json:"company,omitempty"`
}

// TableName 指定表名
func (Card) TableName() string {
	return "cards"
}
