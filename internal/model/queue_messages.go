package model

import "time"

// CycleCompletedMessage 集满事件，经 RabbitMQ 投给 worker 发祝贺短信
type CycleCompletedMessage struct {
	MessageID    string    `json:"message_id"` // 消费端幂等去重用
	CompletionID int64     `json:"completion_id"`
	ShopperID    int64     `json:"shopper_id"`
	CardID       int64     `json:"card_id"`
	CardTitle    string    `json:"card_title"`
	RewardCode   string    `json:"reward_code"`
	Cycle        int       `json:"cycle"`
	CompletedAt  time.Time `json:"completed_at"`
}
