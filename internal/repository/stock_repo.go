package repository

import (
	"context"
	"errors"
	"time"

	"go-wholesale-inventory/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StockKey addresses one stock row. VariationID is nil for Standard products.
type StockKey struct {
	StoreID     uuid.UUID
	ProductID   uuid.UUID
	VariationID *uuid.UUID
}

type StockFilter struct {
	StoreID   *uuid.UUID
	ProductID *uuid.UUID
}

// StockMovementData is one day of the movement chart.
type StockMovementData struct {
	Date     string          `json:"date"`
	Inbound  decimal.Decimal `json:"inbound"`
	Outbound decimal.Decimal `json:"outbound"`
}

type StockRepository interface {
	WithTx(tx *gorm.DB) StockRepository
	// Find returns nil without error when the row does not exist yet.
	Find(ctx context.Context, key StockKey) (*model.Stock, error)
	// Add upserts the row keyed by key, adding delta to its quantity.
	Add(ctx context.Context, key StockKey, delta decimal.Decimal, userID string) (*model.Stock, error)
	List(ctx context.Context, f StockFilter) ([]model.Stock, error)
	CountBelow(ctx context.Context, threshold decimal.Decimal) (int64, error)
	CountForProduct(ctx context.Context, productID uuid.UUID) (int64, error)

	LogMovement(ctx context.Context, m *model.StockMovement) error
	ListMovements(ctx context.Context, f StockFilter, limit int) ([]model.StockMovement, error)
	GetStockMovement(ctx context.Context, startDate, endDate time.Time) ([]StockMovementData, error)
}

type stockRepo struct {
	db *gorm.DB
}

func NewStockRepo(db *gorm.DB) StockRepository {
	return &stockRepo{db}
}

func (r *stockRepo) WithTx(tx *gorm.DB) StockRepository {
	return &stockRepo{tx}
}

func keyed(db *gorm.DB, key StockKey) *gorm.DB {
	db = db.Where("store_id = ? AND item_id = ?", key.StoreID, key.ProductID)
	if key.VariationID == nil {
		return db.Where("item_variation_id IS NULL")
	}
	return db.Where("item_variation_id = ?", *key.VariationID)
}

func (r *stockRepo) Find(ctx context.Context, key StockKey) (*model.Stock, error) {
	var s model.Stock
	err := keyed(r.db.WithContext(ctx), key).First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// conflictTarget matches the partial unique index that guards the key.
func conflictTarget(key StockKey) ([]clause.Column, clause.Where) {
	if key.VariationID == nil {
		return []clause.Column{{Name: "store_id"}, {Name: "item_id"}},
			clause.Where{Exprs: []clause.Expression{clause.Expr{SQL: "item_variation_id IS NULL"}}}
	}
	return []clause.Column{{Name: "store_id"}, {Name: "item_variation_id"}},
		clause.Where{Exprs: []clause.Expression{clause.Expr{SQL: "item_variation_id IS NOT NULL"}}}
}

func (r *stockRepo) Add(ctx context.Context, key StockKey, delta decimal.Decimal, userID string) (*model.Stock, error) {
	row := &model.Stock{
		StoreID:     key.StoreID,
		ProductID:   key.ProductID,
		VariationID: key.VariationID,
		Quantity:    delta,
	}
	row.Stamp(userID)

	columns, target := conflictTarget(key)
	upsert := clause.OnConflict{
		Columns:     columns,
		TargetWhere: target,
		DoUpdates: clause.Set{
			{Column: clause.Column{Name: "quantity"}, Value: gorm.Expr("stock.quantity + excluded.quantity")},
			{Column: clause.Column{Name: "updated_at"}, Value: gorm.Expr("excluded.updated_at")},
			{Column: clause.Column{Name: "updated_by"}, Value: gorm.Expr("excluded.updated_by")},
		},
	}
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Clauses(upsert).Create(row).Error; err != nil {
		return nil, err
	}
	return r.Find(ctx, key)
}

func (r *stockRepo) List(ctx context.Context, f StockFilter) ([]model.Stock, error) {
	var rows []model.Stock
	q := r.db.WithContext(ctx).Preload("Store").Preload("Product.BaseUnit").Preload("Variation")
	if f.StoreID != nil {
		q = q.Where("store_id = ?", *f.StoreID)
	}
	if f.ProductID != nil {
		q = q.Where("item_id = ?", *f.ProductID)
	}
	err := q.Order("updated_at DESC").Find(&rows).Error
	return rows, err
}

func (r *stockRepo) CountBelow(ctx context.Context, threshold decimal.Decimal) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Stock{}).Where("quantity < ?", threshold).Count(&n).Error
	return n, err
}

// CountForProduct counts stock rows of the product across all stores and variations.
func (r *stockRepo) CountForProduct(ctx context.Context, productID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Stock{}).Where("item_id = ?", productID).Count(&n).Error
	return n, err
}

func (r *stockRepo) LogMovement(ctx context.Context, m *model.StockMovement) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *stockRepo) ListMovements(ctx context.Context, f StockFilter, limit int) ([]model.StockMovement, error) {
	var rows []model.StockMovement
	q := r.db.WithContext(ctx)
	if f.StoreID != nil {
		q = q.Where("store_id = ?", *f.StoreID)
	}
	if f.ProductID != nil {
		q = q.Where("item_id = ?", *f.ProductID)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Order("created_at DESC").Find(&rows).Error
	return rows, err
}

func (r *stockRepo) GetStockMovement(ctx context.Context, startDate, endDate time.Time) ([]StockMovementData, error) {
	rows, err := r.db.WithContext(ctx).Model(&model.StockMovement{}).
		Select(`
			DATE(created_at) as date,
			COALESCE(SUM(CASE WHEN quantity_change > 0 THEN quantity_change ELSE 0 END), 0) as inbound,
			COALESCE(SUM(CASE WHEN quantity_change < 0 THEN -quantity_change ELSE 0 END), 0) as outbound
		`).
		Where("created_at BETWEEN ? AND ?", startDate, endDate).
		Group("DATE(created_at)").
		Order("date ASC").
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []StockMovementData
	for rows.Next() {
		var data StockMovementData
		if err := rows.Scan(&data.Date, &data.Inbound, &data.Outbound); err != nil {
			return nil, err
		}
		if len(data.Date) > 10 {
			data.Date = data.Date[:10]
		}
		results = append(results, data)
	}
	return results, rows.Err()
}
