package repository

import (
	"fmt"
	"os"

	"gorm.io/gen"

	"StampCard/internal/model"
	"StampCard/storage/database"
)

// ========== Company 相关查询接口 ==========

// CompanyQuerier 商家查询接口
type CompanyQuerier interface {
	// GetByID 根据主键查询商家
	//
	// SELECT * FROM @@table WHERE id = @id AND deleted_at IS NULL LIMIT 1
	GetByID(id int64) (*gen.T, error)

	// ListActive 查询所有在营商家（附近商家列表的数据源）
	//
	// SELECT * FROM @@table
	// WHERE active = true AND deleted_at IS NULL
	// ORDER BY company_name ASC
	ListActive() ([]*gen.T, error)

	// GetByUserID 查询某个账号名下的商家
	//
	// SELECT * FROM @@table
	// WHERE user_id = @userID AND deleted_at IS NULL
	// LIMIT 1
	GetByUserID(userID int64) (*gen.T, error)
}

// ========== Card 相关查询接口 ==========

// CardQuerier 集点卡查询接口
type CardQuerier interface {
	// GetByID 根据主键查询卡
	//
	// SELECT * FROM @@table WHERE id = @id AND deleted_at IS NULL LIMIT 1
	GetByID(id int64) (*gen.T, error)

	// ListByCompanyID 查询商家名下的卡（分页）
	//
	// SELECT * FROM @@table
	// WHERE company_id = @companyID AND deleted_at IS NULL
	// ORDER BY created_at DESC
	// LIMIT @limit OFFSET @offset
	ListByCompanyID(companyID int64, limit, offset int) ([]*gen.T, error)

	// ListActive 查询所有可领取的卡
	//
	// SELECT * FROM @@table
	// WHERE active = true AND deleted_at IS NULL
	// ORDER BY created_at DESC
	// LIMIT @limit OFFSET @offset
	ListActive(limit, offset int) ([]*gen.T, error)
}

// ========== CardProgress 相关查询接口 ==========

// ProgressQuerier 集点进度查询接口
type ProgressQuerier interface {
	// GetByShopperAndCard 按 (shopper, card) 查询进度
	//
	// SELECT * FROM @@table
	// WHERE shopper_id = @shopperID AND card_id = @cardID AND deleted_at IS NULL
	// LIMIT 1
	GetByShopperAndCard(shopperID, cardID int64) (*gen.T, error)

	// ListByShopperID 查询顾客手上的所有进度（钱包视图）
	//
	// SELECT * FROM @@table
	// WHERE shopper_id = @shopperID AND deleted_at IS NULL
	// ORDER BY updated_at DESC
	ListByShopperID(shopperID int64) ([]*gen.T, error)
}

// ========== CompletionRecord 相关查询接口 ==========

// CompletionQuerier 集满记录查询接口
type CompletionQuerier interface {
	// ListByShopperID 查询顾客的集满历史（分页）
	//
	// SELECT * FROM @@table
	// WHERE shopper_id = @shopperID
	//   {{if cardID > 0}}
	//   AND card_id = @cardID
	//   {{end}}
	// ORDER BY created_at DESC
	// LIMIT @limit OFFSET @offset
	ListByShopperID(shopperID int64, cardID int64, limit, offset int) ([]*gen.T, error)

	// ListUnnotified 查询超过宽限期仍未发祝贺短信的记录（定时补发用）
	//
	// SELECT * FROM @@table
	// WHERE notified_at IS NULL
	//   AND created_at < NOW() - (@graceSeconds || ' seconds')::interval
	// ORDER BY created_at ASC
	// LIMIT @limit
	ListUnnotified(graceSeconds int, limit int) ([]*gen.T, error)
}

func Generate() error {
	if err := database.Init(); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	db := database.DB()
	if db == nil {
		return fmt.Errorf("database connection is nil")
	}

	g := gen.NewGenerator(gen.Config{
		OutPath:           "./internal/repository/query", // 生成代码的输出路径
		ModelPkgPath:      "StampCard/internal/model",
		Mode:              gen.WithDefaultQuery | gen.WithQueryInterface | gen.WithoutContext,
		FieldNullable:     true,
		FieldCoverable:    false,
		FieldSignable:     false,
		FieldWithIndexTag: false,
		FieldWithTypeTag:  true,
	})

	g.UseDB(db)

	// 注册现有的 model，GORM Gen 会使用这些 model 而不是生成新的
	g.ApplyBasic(
		&model.User{},
		&model.Company{},
		&model.Shopper{},
		&model.Card{},
		&model.CardProgress{},
		&model.ReceiptRecord{},
		&model.CompletionRecord{},
	)

	g.ApplyInterface(func(CompanyQuerier) {}, &model.Company{})
	g.ApplyInterface(func(CardQuerier) {}, &model.Card{})
	g.ApplyInterface(func(ProgressQuerier) {}, &model.CardProgress{})
	g.ApplyInterface(func(CompletionQuerier) {}, &model.CompletionRecord{})

	g.Execute()

	return nil
}

func RunGenerate() {
	if err := Generate(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to generate code: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("Code generation completed successfully!")
}
