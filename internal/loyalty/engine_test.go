package loyalty

import (
	"context"
	"fmt"
	"regexp"
	"sync"
	"testing"

	"StampCard/internal/model"
)

// 内存版 Store，单把大锁模拟串行化事务，fn 报错时丢弃暂存改动模拟回滚

type memStore struct {
	mu          sync.Mutex
	cards       map[int64]*model.Card
	progress    map[[2]int64]*model.CardProgress
	receipts    map[string]bool
	completions []*model.CompletionRecord
	nextID      int64

	// 前 N 次提交直接报事务冲突，测重试用
	conflictsLeft int
}

func newMemStore() *memStore {
	return &memStore{
		cards:    make(map[int64]*model.Card),
		progress: make(map[[2]int64]*model.CardProgress),
		receipts: make(map[string]bool),
		nextID:   1000,
	}
}

func (s *memStore) addCard(id int64, merchant string, pointsNeeded int) {
	s.cards[id] = &model.Card{
		BaseModel:    model.BaseModel{ID: id},
		CompanyID:    id * 10,
		Title:        merchant + " stamps",
		BusinessName: merchant,
		PointsNeeded: pointsNeeded,
		Active:       true,
	}
}

func (s *memStore) addProgress(shopperID, cardID int64, points int) {
	s.nextID++
	s.progress[[2]int64{shopperID, cardID}] = &model.CardProgress{
		BaseModel: model.BaseModel{ID: s.nextID},
		ShopperID: shopperID,
		CardID:    cardID,
		Points:    points,
	}
}

func (s *memStore) SubmitReceipt(_ context.Context, fn func(tx TxOps) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conflictsLeft > 0 {
		s.conflictsLeft--
		return ErrTxConflict
	}

	tx := &memTx{
		store:       s,
		newReceipts: make(map[string]bool),
	}
	if err := fn(tx); err != nil {
		return err
	}

	// 提交
	for k := range tx.newReceipts {
		s.receipts[k] = true
	}
	if tx.updatedProg != nil {
		cp := *tx.updatedProg
		s.progress[[2]int64{cp.ShopperID, cp.CardID}] = &cp
	}
	s.completions = append(s.completions, tx.newCompletions...)
	return nil
}

type memTx struct {
	store          *memStore
	newReceipts    map[string]bool
	updatedProg    *model.CardProgress
	newCompletions []*model.CompletionRecord
}

func (tx *memTx) LockProgress(_ context.Context, shopperID, cardID int64) (*model.CardProgress, *model.Card, error) {
	prog, ok := tx.store.progress[[2]int64{shopperID, cardID}]
	if !ok {
		return nil, nil, ErrProgressNotFound
	}
	card, ok := tx.store.cards[cardID]
	if !ok {
		return nil, nil, ErrProgressNotFound
	}
	p := *prog
	c := *card
	return &p, &c, nil
}

func (tx *memTx) InsertReceipt(_ context.Context, rec *model.ReceiptRecord) error {
	if tx.store.receipts[rec.ReceiptKey] || tx.newReceipts[rec.ReceiptKey] {
		return ErrDuplicateReceipt
	}
	tx.store.nextID++
	rec.ID = tx.store.nextID
	tx.newReceipts[rec.ReceiptKey] = true
	return nil
}

func (tx *memTx) UpdateProgress(_ context.Context, p *model.CardProgress) error {
	cp := *p
	tx.updatedProg = &cp
	return nil
}

func (tx *memTx) InsertCompletion(_ context.Context, c *model.CompletionRecord) error {
	tx.store.nextID++
	c.ID = tx.store.nextID
	cp := *c
	tx.newCompletions = append(tx.newCompletions, &cp)
	return nil
}

var codePattern = regexp.MustCompile(`^[1-9]{6}$`)

// receiptText 生成同一商家下互不相同的小票全文，靠秒数区分
func receiptText(merchant string, n int) string {
	return fmt.Sprintf("%s LONDON\nVAT 123\n25/01/2023 12:00:%02d\nTOTAL 3.50", merchant, n%60)
}

func TestSubmitAddsPoint(t *testing.T) {
	store := newMemStore()
	store.addCard(1, "Costa", 10)
	store.addProgress(7, 1, 0)
	eng := NewEngine(store)

	res, err := eng.Submit(context.Background(), Submission{
		ShopperID: 7, CardID: 1, Merchant: "Costa",
		OCRText: receiptText("Costa", 1),
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if res.Outcome != OutcomePointAdded {
		t.Fatalf("outcome = %s, want point_added", res.Outcome)
	}
	if res.Points != 1 || res.PointsNeeded != 10 {
		t.Fatalf("points = %d/%d, want 1/10", res.Points, res.PointsNeeded)
	}
	if got := store.progress[[2]int64{7, 1}].Points; got != 1 {
		t.Fatalf("stored points = %d, want 1", got)
	}
}

func TestSubmitNotRecognizedLeavesStateUntouched(t *testing.T) {
	store := newMemStore()
	store.addCard(1, "Costa", 10)
	store.addProgress(7, 1, 3)
	eng := NewEngine(store)

	_, err := eng.Submit(context.Background(), Submission{
		ShopperID: 7, CardID: 1, Merchant: "Costa",
		OCRText: "Starbucks LONDON 25/01/2023 12:00:00",
	})
	if err != ErrReceiptNotRecognized {
		t.Fatalf("err = %v, want ErrReceiptNotRecognized", err)
	}
	if got := store.progress[[2]int64{7, 1}].Points; got != 3 {
		t.Fatalf("points changed to %d on rejection", got)
	}
	if len(store.receipts) != 0 {
		t.Fatalf("receipt recorded on rejection")
	}
}

func TestSubmitEmptyTextNotRecognized(t *testing.T) {
	store := newMemStore()
	store.addCard(1, "Costa", 10)
	store.addProgress(7, 1, 0)
	eng := NewEngine(store)

	if _, err := eng.Submit(context.Background(), Submission{
		ShopperID: 7, CardID: 1, Merchant: "Costa", OCRText: "",
	}); err != ErrReceiptNotRecognized {
		t.Fatalf("err = %v, want ErrReceiptNotRecognized", err)
	}
}

func TestSubmitDuplicateRejectedWithoutMutation(t *testing.T) {
	store := newMemStore()
	store.addCard(1, "Costa", 10)
	store.addProgress(7, 1, 0)
	eng := NewEngine(store)
	ctx := context.Background()

	text := receiptText("Costa", 1)
	if _, err := eng.Submit(ctx, Submission{ShopperID: 7, CardID: 1, Merchant: "Costa", OCRText: text}); err != nil {
		t.Fatalf("first submit: %v", err)
	}

	// 同一张小票再提多少次都只算一个点
	for i := 0; i < 3; i++ {
		_, err := eng.Submit(ctx, Submission{ShopperID: 7, CardID: 1, Merchant: "Costa", OCRText: text})
		if err != ErrDuplicateReceipt {
			t.Fatalf("resubmit %d: err = %v, want ErrDuplicateReceipt", i, err)
		}
	}

	if got := store.progress[[2]int64{7, 1}].Points; got != 1 {
		t.Fatalf("points = %d after duplicates, want 1", got)
	}
	if len(store.receipts) != 1 {
		t.Fatalf("ledger has %d entries, want 1", len(store.receipts))
	}
}

func TestDuplicateBlockedAcrossShoppers(t *testing.T) {
	store := newMemStore()
	store.addCard(1, "Costa", 10)
	store.addProgress(7, 1, 0)
	store.addProgress(8, 1, 0)
	eng := NewEngine(store)
	ctx := context.Background()

	text := receiptText("Costa", 1)
	if _, err := eng.Submit(ctx, Submission{ShopperID: 7, CardID: 1, Merchant: "Costa", OCRText: text}); err != nil {
		t.Fatalf("first submit: %v", err)
	}

	// 别的顾客拿同一张小票也不行，台账按店唯一
	if _, err := eng.Submit(ctx, Submission{ShopperID: 8, CardID: 1, Merchant: "Costa", OCRText: text}); err != ErrDuplicateReceipt {
		t.Fatalf("err = %v, want ErrDuplicateReceipt", err)
	}
	if got := store.progress[[2]int64{8, 1}].Points; got != 0 {
		t.Fatalf("second shopper got %d points from a used receipt", got)
	}
}

func TestCycleCompletionAtThreshold(t *testing.T) {
	// 差一个点集满的卡，再提一张就该出码
	store := newMemStore()
	store.addCard(1, "Costa", 10)
	store.addProgress(7, 1, 9)
	eng := NewEngine(store)

	res, err := eng.Submit(context.Background(), Submission{
		ShopperID: 7, CardID: 1, Merchant: "Costa",
		OCRText: receiptText("Costa", 10),
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if res.Outcome != OutcomeCycleCompleted {
		t.Fatalf("outcome = %s, want cycle_completed", res.Outcome)
	}
	if !codePattern.MatchString(res.RewardCode) {
		t.Fatalf("reward code %q does not match ^[1-9]{6}$", res.RewardCode)
	}
	if res.Points != 0 || res.Cycle != 1 {
		t.Fatalf("points = %d, cycle = %d, want 0 and 1", res.Points, res.Cycle)
	}

	prog := store.progress[[2]int64{7, 1}]
	if prog.Points != 0 || prog.CompletedCount != 1 || prog.RewardCode != res.RewardCode {
		t.Fatalf("stored progress %+v inconsistent with result", prog)
	}
	if len(store.completions) != 1 || store.completions[0].RewardCode != res.RewardCode {
		t.Fatalf("completion record missing or code mismatch")
	}
}

func TestManySubmissionsFloorCompletions(t *testing.T) {
	const total, threshold = 25, 10
	store := newMemStore()
	store.addCard(1, "Costa", threshold)
	store.addProgress(7, 1, 0)
	eng := NewEngine(store)
	ctx := context.Background()

	for i := 0; i < total; i++ {
		if _, err := eng.Submit(ctx, Submission{
			ShopperID: 7, CardID: 1, Merchant: "Costa",
			OCRText: receiptText("Costa", i),
		}); err != nil {
			t.Fatalf("submit %d: %v", i, err)
		}
	}

	prog := store.progress[[2]int64{7, 1}]
	if want := total % threshold; prog.Points != want {
		t.Fatalf("points = %d, want %d", prog.Points, want)
	}
	if want := total / threshold; prog.CompletedCount != want {
		t.Fatalf("completed count = %d, want %d", prog.CompletedCount, want)
	}
	if len(store.completions) != total/threshold {
		t.Fatalf("completion records = %d, want %d", len(store.completions), total/threshold)
	}
	// 每一轮的码都保留且独立合法
	for _, c := range store.completions {
		if !codePattern.MatchString(c.RewardCode) {
			t.Fatalf("completion cycle %d code %q invalid", c.Cycle, c.RewardCode)
		}
	}
}

func TestConcurrentSubmissionsNoLostUpdates(t *testing.T) {
	const workers, threshold = 20, 7
	store := newMemStore()
	store.addCard(1, "Costa", threshold)
	store.addProgress(7, 1, 0)
	eng := NewEngine(store)

	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, err := eng.Submit(context.Background(), Submission{
				ShopperID: 7, CardID: 1, Merchant: "Costa",
				OCRText: receiptText("Costa", n),
			})
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Fatalf("concurrent submit: %v", err)
		}
	}

	prog := store.progress[[2]int64{7, 1}]
	if got := prog.CompletedCount*threshold + prog.Points; got != workers {
		t.Fatalf("accounted points = %d, want %d (completed=%d, points=%d)",
			got, workers, prog.CompletedCount, prog.Points)
	}
	if len(store.receipts) != workers {
		t.Fatalf("ledger entries = %d, want %d", len(store.receipts), workers)
	}
}

func TestSubmitRetriesOnTxConflict(t *testing.T) {
	store := newMemStore()
	store.addCard(1, "Costa", 10)
	store.addProgress(7, 1, 0)
	store.conflictsLeft = 2
	eng := NewEngine(store, WithMaxRetries(3))

	res, err := eng.Submit(context.Background(), Submission{
		ShopperID: 7, CardID: 1, Merchant: "Costa",
		OCRText: receiptText("Costa", 1),
	})
	if err != nil {
		t.Fatalf("Submit after conflicts: %v", err)
	}
	if res.Points != 1 {
		t.Fatalf("points = %d, want 1", res.Points)
	}
}

func TestSubmitGivesUpAfterMaxRetries(t *testing.T) {
	store := newMemStore()
	store.addCard(1, "Costa", 10)
	store.addProgress(7, 1, 0)
	store.conflictsLeft = 5
	eng := NewEngine(store, WithMaxRetries(3))

	_, err := eng.Submit(context.Background(), Submission{
		ShopperID: 7, CardID: 1, Merchant: "Costa",
		OCRText: receiptText("Costa", 1),
	})
	if err != ErrSubmitConflict {
		t.Fatalf("err = %v, want ErrSubmitConflict", err)
	}
}

func TestSubmitInactiveCard(t *testing.T) {
	store := newMemStore()
	store.addCard(1, "Costa", 10)
	store.cards[1].Active = false
	store.addProgress(7, 1, 0)
	eng := NewEngine(store)

	if _, err := eng.Submit(context.Background(), Submission{
		ShopperID: 7, CardID: 1, Merchant: "Costa",
		OCRText: receiptText("Costa", 1),
	}); err != ErrCardInactive {
		t.Fatalf("err = %v, want ErrCardInactive", err)
	}
}

func TestSubmitMissingProgress(t *testing.T) {
	store := newMemStore()
	store.addCard(1, "Costa", 10)
	eng := NewEngine(store)

	if _, err := eng.Submit(context.Background(), Submission{
		ShopperID: 7, CardID: 1, Merchant: "Costa",
		OCRText: receiptText("Costa", 1),
	}); err != ErrProgressNotFound {
		t.Fatalf("err = %v, want ErrProgressNotFound", err)
	}
}

func TestMerchantMatchIsCaseInsensitive(t *testing.T) {
	store := newMemStore()
	store.addCard(1, "Costa", 10)
	store.addProgress(7, 1, 0)
	eng := NewEngine(store)

	if _, err := eng.Submit(context.Background(), Submission{
		ShopperID: 7, CardID: 1, Merchant: "Costa",
		OCRText: "COSTA COFFEE 25/01/2023 12:00:00 TOTAL 3.50",
	}); err != nil {
		t.Fatalf("Submit: %v", err)
	}
}
