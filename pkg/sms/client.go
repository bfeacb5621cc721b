package sms

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"StampCard/config"
	"StampCard/pkg/logger"
)

// Client SMS 客户端接口。
// 本服务唯一的短信场景是集满后的祝贺消息，接口保持最小。
type Client interface {
	// SendSingle 发送单条模板短信
	// templateParam 是模板参数的 JSON 字符串
	SendSingle(ctx context.Context, phone, signName, templateCode, templateParam string) error
}

var (
	smsClient Client
	smsOnce   sync.Once
	smsErr    error
)

// Init 初始化 SMS 客户端
func Init() error {
	smsOnce.Do(func() {
		cfg := config.Cfg

		switch cfg.SMSProvider {
		case "aliyun":
			smsClient, smsErr = NewAliyunClient()
		case "mock":
			smsClient = NewMockClient()
		default:
			smsErr = fmt.Errorf("unsupported SMS provider: %s", cfg.SMSProvider)
		}

		if smsErr != nil {
			logger.Logger.Error("Failed to initialize SMS client", zap.Error(smsErr))
			return
		}

		logger.Logger.Info("SMS client initialized successfully",
			zap.String("provider", cfg.SMSProvider),
		)
	})

	return smsErr
}

func GetClient() Client {
	if smsClient == nil {
		panic("SMS client not initialized, call sms.Init() first")
	}
	return smsClient
}

// SendCycleCompleted 给集满一张卡的顾客发祝贺短信，模板参数带奖励码
func SendCycleCompleted(ctx context.Context, phone, cardTitle, code string) error {
	param := fmt.Sprintf(`{"card":%q,"code":%q}`, cardTitle, code)
	return GetClient().SendSingle(ctx, phone, config.Cfg.SMSSignName, config.Cfg.SMSTemplateCode, param)
}
