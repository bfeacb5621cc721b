package model

import "time"

// CompletionRecord 集满一轮的记录，保留每一轮的奖励码
type CompletionRecord struct {
	BaseModel
	ProgressID int64 `gorm:"not null;index" json:"progress_id"`
	ShopperID  int64 `gorm:"not null;index" json:"shopper_id"`
	CardID     int64 `gorm:"not null;index" json:"card_id"`

	RewardCode string `gorm:"type:char(6);not null" json:"reward_code"`
	Cycle      int    `gorm:"not null" json:"cycle"` // 第几轮集满，从 1 开始

	// 祝贺短信发出后盖章，定时任务据此补发
	NotifiedAt *time.Time `gorm:"index" json:"notified_at,omitempty"`
}

// TableName 指定表名
func (CompletionRecord) TableName() string {
	return "completion_records"
}
