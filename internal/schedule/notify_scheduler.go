package schedule

// 通知补偿调度器：定期扫描超过宽限期仍未通知的集满记录，重新投递消息

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"StampCard/config"
	"StampCard/internal/service"
	"StampCard/pkg/logger"
)

const retrySweepBatchSize = 200

var (
	schedulerOnce sync.Once
	schedulerInst *NotifyScheduler
)

type NotifyScheduler struct {
	logger       *zap.Logger
	sweepRunning bool
	sweepMu      sync.Mutex
	lastSweepAt  time.Time
}

func GetScheduler() *NotifyScheduler {
	schedulerOnce.Do(func() {
		schedulerInst = &NotifyScheduler{
			logger: logger.Logger,
		}
	})
	return schedulerInst
}

// SweepUnnotified 扫描一轮未通知的集满记录并重新投递
func (s *NotifyScheduler) SweepUnnotified(ctx context.Context) error {
	s.sweepMu.Lock()
	if s.sweepRunning {
		s.sweepMu.Unlock()
		s.logger.Info("Notify sweep already running, skipping")
		return nil
	}
	s.sweepRunning = true
	s.sweepMu.Unlock()

	defer func() {
		s.sweepMu.Lock()
		s.sweepRunning = false
		s.sweepMu.Unlock()
	}()

	startTime := time.Now()
	s.lastSweepAt = startTime

	published, err := service.Notification().RetryUnnotified(ctx, retrySweepBatchSize)
	if err != nil {
		s.logger.Error("Notify sweep failed", zap.Error(err))
		return err
	}

	s.logger.Info("Notify sweep completed",
		zap.Int("republished", published),
		zap.Duration("duration", time.Since(startTime)),
	)
	return nil
}

// Run 按固定间隔循环执行补偿扫描，直到 ctx 取消
func (s *NotifyScheduler) Run(ctx context.Context) {
	interval := time.Duration(config.Cfg.NotifySweepIntervalSeconds) * time.Second
	if interval <= 0 {
		interval = 5 * time.Minute
	}

	s.logger.Info("Notify scheduler started", zap.Duration("interval", interval))

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Notify scheduler stopped")
			return
		case <-ticker.C:
			if err := s.SweepUnnotified(ctx); err != nil {
				s.logger.Error("Scheduled notify sweep failed", zap.Error(err))
			}
		}
	}
}
