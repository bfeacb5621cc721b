package model

// User 账号模型，商家老板和顾客共用，差别在名下挂的是 Company 还是 Shopper
type User struct {
	BaseModel
	PublicID     int64  `gorm:"uniqueIndex;not null" json:"public_id"`
	Email        string `gorm:"uniqueIndex;type:varchar(255);not null" json:"email"`
	PasswordHash string `gorm:"type:varchar(100);not null" json:"-"` // bcrypt，不对外暴露
	Name         string `gorm:"type:varchar(255);not null;default:''" json:"name"`
	Active       bool   `gorm:"not null;default:true" json:"active"`
}

// TableName 指定表名
func (User) TableName() string {
	return "users"
}
