package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"StampCard/internal/loyalty"
	"StampCard/internal/model"
)

// Postgres 错误码
const (
	pgUniqueViolation      = "23505"
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
)

// ProgressStore 基于 gorm 的 loyalty.Store 实现，
// 进度行用 SELECT ... FOR UPDATE 锁住，台账靠 receipt_key 的唯一索引兜底
type ProgressStore struct {
	db *gorm.DB
}

func NewProgressStore(db *gorm.DB) *ProgressStore {
	return &ProgressStore{db: db}
}

func (s *ProgressStore) SubmitReceipt(ctx context.Context, fn func(tx loyalty.TxOps) error) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTx{tx: tx})
	})
	return translatePgError(err)
}

type gormTx struct {
	tx *gorm.DB
}

func (t *gormTx) LockProgress(ctx context.Context, shopperID, cardID int64) (*model.CardProgress, *model.Card, error) {
	var prog model.CardProgress
	err := t.tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("shopper_id = ? AND card_id = ?", shopperID, cardID).
		First(&prog).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, loyalty.ErrProgressNotFound
	}
	if err != nil {
		return nil, nil, err
	}

	var card model.Card
	err = t.tx.WithContext(ctx).First(&card, prog.CardID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, loyalty.ErrProgressNotFound
	}
	if err != nil {
		return nil, nil, err
	}

	return &prog, &card, nil
}

func (t *gormTx) InsertReceipt(ctx context.Context, rec *model.ReceiptRecord) error {
	if err := t.tx.WithContext(ctx).Create(rec).Error; err != nil {
		return translatePgError(err)
	}
	return nil
}

func (t *gormTx) UpdateProgress(ctx context.Context, p *model.CardProgress) error {
	return t.tx.WithContext(ctx).Save(p).Error
}

func (t *gormTx) InsertCompletion(ctx context.Context, c *model.CompletionRecord) error {
	return t.tx.WithContext(ctx).Create(c).Error
}

// translatePgError 把数据库错误翻译成引擎认识的哨兵错误
func translatePgError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return loyalty.ErrDuplicateReceipt
		case pgSerializationFailure, pgDeadlockDetected:
			return loyalty.ErrTxConflict
		}
	}
	return err
}
