package model

// Shopper 顾客档案，每个账号至多一份
type Shopper struct {
	BaseModel
	UserID    int64  `gorm:"uniqueIndex;not null" json:"user_id"`
	FirstName string `gorm:"type:varchar(100);not null" json:"first_name"`
	LastName  string `gorm:"type:varchar(100);not null" json:"last_name"`
	Address   string `gorm:"type:varchar(200);not null;default:''" json:"address"`
	Address2  string `gorm:"type:varchar(200);not null;default:''" json:"address2"`
	City      string `gorm:"type:varchar(50);not null;default:''" json:"city"`
	Region    string `gorm:"type:varchar(50);not null;default:''" json:"region"`
	PostCode  string `gorm:"type:varchar(10);not null;default:''" json:"post_code"`
	Country   string `gorm:"type:char(2);not null;default:''" json:"country"`

	PhoneNumber string `gorm:"type:varchar(32);not null;default:''" json:"phone_number"` // 祝贺短信的收信号码，可空

	Lat    string `gorm:"type:varchar(20);not null;default:''" json:"lat"`
	Long   string `gorm:"type:varchar(20);not null;default:''" json:"long"`
	Active bool   `gorm:"not null;default:true" json:"active"`
}

// TableName 指定表名
func (Shopper) TableName() string {
	return "shoppers"
}
