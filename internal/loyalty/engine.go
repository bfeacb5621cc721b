package loyalty

import (
	"context"
	"errors"
	"strings"
	"time"

	"StampCard/internal/model"
	"StampCard/pkg/receipt"
	"StampCard/pkg/rewardcode"
)

// 引擎只负责集点状态机本身，存储和外部服务通过接口注入，
// 方便在不起数据库的情况下验证并发语义

// 哨兵错误，repository 层把数据库错误翻译成这些，service 层再翻译成业务错误
var (
	ErrReceiptNotRecognized = errors.New("loyalty: merchant name not found in receipt text")
	ErrDuplicateReceipt     = errors.New("loyalty: receipt already used")
	ErrTxConflict           = errors.New("loyalty: transaction conflict, retry")
	ErrProgressNotFound     = errors.New("loyalty: progress not found")
	ErrCardInactive         = errors.New("loyalty: card is inactive")
	ErrSubmitConflict       = errors.New("loyalty: retries exhausted")
)

// Outcome 提交小票的两种成功结局
type Outcome string

const (
	OutcomePointAdded     Outcome = "point_added"
	OutcomeCycleCompleted Outcome = "cycle_completed"
)

// Submission 一次小票提交
type Submission struct {
	ShopperID int64
	CardID    int64
	Merchant  string // 卡面上的商家名，识别小票归属用
	OCRText   string // OCR 识别出的小票全文
	ImagePath string
}

// Result 提交成功后的进度快照
type Result struct {
	Outcome      Outcome
	Points       int
	PointsNeeded int
	RewardCode   string // 仅 OutcomeCycleCompleted 时非空
	Cycle        int    // 第几轮集满
	CompletionID int64
	CompletedAt  time.Time
}

// TxOps 一次提交事务内可用的操作，实现方保证它们在同一个事务里执行
type TxOps interface {
	// LockProgress 按 (shopper, card) 锁住进度行并返回进度与卡定义
	LockProgress(ctx context.Context, shopperID, cardID int64) (*model.CardProgress, *model.Card, error)
	// InsertReceipt 写入小票台账，receipt_key 撞唯一约束时返回 ErrDuplicateReceipt
	InsertReceipt(ctx context.Context, rec *model.ReceiptRecord) error
	UpdateProgress(ctx context.Context, p *model.CardProgress) error
	InsertCompletion(ctx context.Context, c *model.CompletionRecord) error
}

// Store 提交事务的执行器，fn 返回错误时整个事务回滚
type Store interface {
	SubmitReceipt(ctx context.Context, fn func(tx TxOps) error) error
}

type Engine struct {
	store      Store
	maxRetries int
	genCode    func() (string, error)
	now        func() time.Time
}

type Option func(*Engine)

// WithMaxRetries 设置事务冲突时的最大重试次数
func WithMaxRetries(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxRetries = n
		}
	}
}

// WithCodeGenerator 替换奖励码生成器，测试用
func WithCodeGenerator(gen func() (string, error)) Option {
	return func(e *Engine) { e.genCode = gen }
}

// WithClock 替换时钟，测试用
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

func NewEngine(store Store, opts ...Option) *Engine {
	e := &Engine{
		store:      store,
		maxRetries: 3,
		genCode:    rewardcode.Generate,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Submit 处理一张小票：
//  1. 小票全文里找不到商家名 -> ErrReceiptNotRecognized，不动任何状态
//  2. 由全文算出确定性 key，靠台账唯一约束挡重复，撞上 -> ErrDuplicateReceipt
//  3. 加一个点；到达阈值则点数清零、生成奖励码、记一轮集满
// 台账写入和点数更新在同一个事务里，事务冲突时有限重试
func (e *Engine) Submit(ctx context.Context, sub Submission) (*Result, error) {
	if !merchantMatches(sub.Merchant, sub.OCRText) {
		return nil, ErrReceiptNotRecognized
	}

	key := receipt.BuildKey(sub.Merchant, sub.OCRText)
	purchasedAt, hasPurchasedAt := receipt.ParsePurchasedAt(sub.OCRText)

	var res *Result
	for attempt := 0; attempt < e.maxRetries; attempt++ {
		err := e.store.SubmitReceipt(ctx, func(tx TxOps) error {
			prog, card, err := tx.LockProgress(ctx, sub.ShopperID, sub.CardID)
			if err != nil {
				return err
			}
			if !card.Active {
				return ErrCardInactive
			}

			rec := &model.ReceiptRecord{
				CompanyID:  card.CompanyID,
				CardID:     card.ID,
				ShopperID:  sub.ShopperID,
				ProgressID: prog.ID,
				ReceiptKey: key,
				ImagePath:  sub.ImagePath,
			}
			if hasPurchasedAt {
				rec.PurchasedAt = &purchasedAt
			}
			if err := tx.InsertReceipt(ctx, rec); err != nil {
				return err
			}

			now := e.now()
			prog.Points++
			prog.LastStampAt = &now

			res = &Result{
				Outcome:      OutcomePointAdded,
				Points:       prog.Points,
				PointsNeeded: card.PointsNeeded,
			}

			if prog.Points >= card.PointsNeeded {
				code, err := e.genCode()
				if err != nil {
					return err
				}

				prog.Points = 0
				prog.RewardCode = code
				prog.CompletedCount++

				comp := &model.CompletionRecord{
					ProgressID: prog.ID,
					ShopperID:  sub.ShopperID,
					CardID:     card.ID,
					RewardCode: code,
					Cycle:      prog.CompletedCount,
				}
				if err := tx.InsertCompletion(ctx, comp); err != nil {
					return err
				}

				res.Outcome = OutcomeCycleCompleted
				res.Points = 0
				res.RewardCode = code
				res.Cycle = prog.CompletedCount
				res.CompletionID = comp.ID
				res.CompletedAt = now
			}

			return tx.UpdateProgress(ctx, prog)
		})

		if errors.Is(err, ErrTxConflict) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return res, nil
	}

	return nil, ErrSubmitConflict
}

// merchantMatches 大小写不敏感的子串匹配，商家名为空视为不匹配
func merchantMatches(merchant, text string) bool {
	merchant = strings.TrimSpace(merchant)
	if merchant == "" {
		return false
	}
	return strings.Contains(strings.ToLower(text), strings.ToLower(merchant))
}
