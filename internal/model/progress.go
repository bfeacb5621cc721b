package model

import "time"

// CardProgress 顾客在某张卡上的集点进度，(shopper, card) 唯一
type CardProgress struct {
	BaseModel
	ShopperID int64 `gorm:"not null;uniqueIndex:idx_progress_shopper_card" json:"shopper_id"`
	CardID    int64 `gorm:"not null;uniqueIndex:idx_progress_shopper_card;index" json:"card_id"`

	Points int `gorm:"not null;default:0" json:"points"` // 当前周期内的点数，0 <= Points < Card.PointsNeeded

	// 最近一次集满的奖励码，下一轮集满时覆盖；历史码去 CompletionRecord 查
	RewardCode     string     `gorm:"type:char(6);not null;default:''" json:"reward_code"`
	CompletedCount int        `gorm:"not null;default:0" json:"completed_count"`
	LastStampAt    *time.Time `json:"last_stamp_at,omitempty"`

	Card    *Card    `gorm:"foreignKey:CardID" json:"card,omitempty"`
	Shopper *Shopper `gorm:"foreignKey:ShopperID" json:"shopper,omitempty"`
}

// TableName 指定表名
func (CardProgress) TableName() string {
	return "card_progresses"
}
