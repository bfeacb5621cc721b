package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"StampCard/config"
	"StampCard/internal/queue"
	"StampCard/internal/service"
	"StampCard/pkg/logger"
	"StampCard/pkg/sms"
	"StampCard/pkg/snowflake"
	"StampCard/storage"
)

func main() {

	logger.Init()
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		logger.Logger.Info("Received shutdown signal",
			zap.String("signal", sig.String()),
		)
		cancel()
	}()

	if err := storage.Init(); err != nil {
		logger.Logger.Fatal("Failed to initialize storage", zap.Error(err))
	}
	defer storage.Close()

	if err := snowflake.Init(config.Cfg.SnowflakeMachineID, config.Cfg.SnowflakeDataCenter); err != nil {
		logger.Logger.Fatal("Failed to initialize snowflake", zap.Error(err))
	}

	if err := sms.Init(); err != nil {
		logger.Logger.Warn("Failed to initialize SMS service", zap.Error(err))
		logger.Logger.Info("SMS service will be disabled, congratulation messages may not be sent")
	}

	// 消费者把集满消息交给通知服务处理
	queue.SetNotifier(service.Notification())

	logger.Logger.Info("Worker service starting",
		zap.String("service", "stampcard-worker"),
		zap.String("environment", config.Cfg.Environment),
	)

	// 消费循环断开后退避重连，直到收到关闭信号
	for {
		if err := queue.StartCycleCompletedConsumer(ctx); err != nil {
			logger.Logger.Error("Consumer stopped with error", zap.Error(err))
		}

		select {
		case <-ctx.Done():
			logger.Logger.Info("Worker service shutting down gracefully")
			return
		case <-time.After(5 * time.Second):
			logger.Logger.Info("Restarting cycle completed consumer")
		}
	}
}
