package model

import "time"

// ReceiptRecord 已消费小票的台账，receipt_key 全店唯一，靠数据库约束挡重复提交
type ReceiptRecord struct {
	BaseModel
	CompanyID  int64 `gorm:"not null;index" json:"company_id"`
	CardID     int64 `gorm:"not null;index" json:"card_id"`
	ShopperID  int64 `gorm:"not null;index" json:"shopper_id"`
	ProgressID int64 `gorm:"not null;index" json:"progress_id"`

	ReceiptKey string `gorm:"type:varchar(300);uniqueIndex;not null" json:"receipt_key"`
	ImagePath  string `gorm:"type:varchar(255);not null;default:''" json:"image_path"`

	// OCR 文本里解析出来的购买时间，解析不出来为空
	PurchasedAt *time.Time `json:"purchased_at,omitempty"`
}

// TableName 指定表名
func (ReceiptRecord) TableName() string {
	return "receipt_records"
}
