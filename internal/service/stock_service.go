package service

import (
	"context"
	"fmt"

	"go-wholesale-inventory/internal/model"
	"go-wholesale-inventory/internal/repository"
	"go-wholesale-inventory/internal/ws"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Reference ties a movement to the document that caused it.
type Reference struct {
	Type string `json:"reference_type" validate:"max=50"`
	ID   string `json:"reference_id" validate:"max=100"`
	Note string `json:"note"`
}

// AdjustStockRequest moves stock by Quantity. Without UnitID the quantity is
// in the product's base unit.
type AdjustStockRequest struct {
	StoreID     uuid.UUID       `json:"store_id" validate:"uuid_required"`
	ProductID   uuid.UUID       `json:"product_id" validate:"uuid_required"`
	VariationID *uuid.UUID      `json:"variation_id"`
	UnitID      *uuid.UUID      `json:"unit_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	Reference
}

func (r *AdjustStockRequest) Key() repository.StockKey {
	return repository.StockKey{StoreID: r.StoreID, ProductID: r.ProductID, VariationID: r.VariationID}
}

type StockLevel struct {
	StoreID     uuid.UUID       `json:"store_id"`
	ProductID   uuid.UUID       `json:"product_id"`
	VariationID *uuid.UUID      `json:"variation_id"`
	Quantity    decimal.Decimal `json:"quantity"`
}

type StockService interface {
	// GetStock returns the base-unit quantity, zero when nothing was stocked yet.
	GetStock(ctx context.Context, key repository.StockKey) (decimal.Decimal, error)
	AdjustStock(ctx context.Context, key repository.StockKey, delta decimal.Decimal, ref Reference, actor ws.Actor) (*model.StockMovement, error)
	AdjustStockInUnit(ctx context.Context, key repository.StockKey, unitID uuid.UUID, qty decimal.Decimal, ref Reference, actor ws.Actor) (*model.StockMovement, error)
	Adjust(ctx context.Context, req *AdjustStockRequest, actor ws.Actor) (*model.StockMovement, error)
	ListStock(ctx context.Context, f repository.StockFilter) ([]model.Stock, error)
	ListMovements(ctx context.Context, f repository.StockFilter, limit int) ([]model.StockMovement, error)
}

type stockService struct {
	db          *gorm.DB
	stockRepo   repository.StockRepository
	storeRepo   repository.StoreRepository
	productRepo repository.ProductRepository
	varRepo     repository.VariationRepository
	units       ProductUnitService
	events      ws.Publisher
	log         *zap.Logger
}

func NewStockService(
	db *gorm.DB,
	stockRepo repository.StockRepository,
	storeRepo repository.StoreRepository,
	productRepo repository.ProductRepository,
	varRepo repository.VariationRepository,
	units ProductUnitService,
	events ws.Publisher,
	log *zap.Logger,
) StockService {
	return &stockService{
		db:          db,
		stockRepo:   stockRepo,
		storeRepo:   storeRepo,
		productRepo: productRepo,
		varRepo:     varRepo,
		units:       units,
		events:      events,
		log:         log.Named("stock"),
	}
}

// checkKey verifies the store, the product and that the variation matches
// the product type: Standard products track stock without a variation and
// Variable products only per variation.
func (s *stockService) checkKey(ctx context.Context, key repository.StockKey) (*model.Product, error) {
	if key.StoreID == uuid.Nil {
		return nil, invalid("store_id", "is required")
	}
	if key.ProductID == uuid.Nil {
		return nil, invalid("product_id", "is required")
	}
	if _, err := s.storeRepo.FindByID(ctx, key.StoreID); err != nil {
		return nil, lookupErr(err, "store", key.StoreID)
	}
	product, err := s.productRepo.FindByID(ctx, key.ProductID)
	if err != nil {
		return nil, lookupErr(err, "product", key.ProductID)
	}

	switch {
	case product.IsVariable() && key.VariationID == nil:
		return nil, invalid("variation_id", "is required for Variable products")
	case !product.IsVariable() && key.VariationID != nil:
		return nil, invalid("variation_id", "must be empty for Standard products")
	case key.VariationID != nil:
		v, err := s.varRepo.FindByID(ctx, *key.VariationID)
		if err != nil {
			return nil, lookupErr(err, "variation", *key.VariationID)
		}
		if v.ProductID != product.ID {
			return nil, invalid("variation_id", "does not belong to the product")
		}
	}
	return product, nil
}

func (s *stockService) GetStock(ctx context.Context, key repository.StockKey) (decimal.Decimal, error) {
	if _, err := s.checkKey(ctx, key); err != nil {
		return decimal.Zero, err
	}
	row, err := s.stockRepo.Find(ctx, key)
	if err != nil {
		return decimal.Zero, err
	}
	if row == nil {
		return decimal.Zero, nil
	}
	return row.Quantity, nil
}

func (s *stockService) AdjustStock(ctx context.Context, key repository.StockKey, delta decimal.Decimal, ref Reference, actor ws.Actor) (*model.StockMovement, error) {
	product, err := s.checkKey(ctx, key)
	if err != nil {
		return nil, err
	}
	return s.apply(ctx, product, key, delta, nil, delta, ref, actor)
}

func (s *stockService) AdjustStockInUnit(ctx context.Context, key repository.StockKey, unitID uuid.UUID, qty decimal.Decimal, ref Reference, actor ws.Actor) (*model.StockMovement, error) {
	product, err := s.checkKey(ctx, key)
	if err != nil {
		return nil, err
	}
	delta, err := s.units.ConvertToBase(ctx, product.ID, unitID, qty)
	if err != nil {
		return nil, err
	}
	return s.apply(ctx, product, key, delta, &unitID, qty, ref, actor)
}

func (s *stockService) Adjust(ctx context.Context, req *AdjustStockRequest, actor ws.Actor) (*model.StockMovement, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	if req.UnitID != nil {
		return s.AdjustStockInUnit(ctx, req.Key(), *req.UnitID, req.Quantity, req.Reference, actor)
	}
	return s.AdjustStock(ctx, req.Key(), req.Quantity, req.Reference, actor)
}

// apply upserts the stock row and logs the movement in one transaction. A
// result below zero rolls everything back.
func (s *stockService) apply(ctx context.Context, product *model.Product, key repository.StockKey, delta decimal.Decimal, unitID *uuid.UUID, unitQty decimal.Decimal, ref Reference, actor ws.Actor) (*model.StockMovement, error) {
	if delta.IsZero() {
		return nil, invalid("quantity", "must not be zero")
	}

	movement := &model.StockMovement{
		StoreID:        key.StoreID,
		ProductID:      key.ProductID,
		VariationID:    key.VariationID,
		Type:           model.MovementIn,
		UnitID:         unitID,
		UnitQuantity:   unitQty,
		QuantityChange: delta,
		ReferenceType:  ref.Type,
		ReferenceID:    ref.ID,
		Note:           ref.Note,
	}
	if delta.IsNegative() {
		movement.Type = model.MovementOut
	}
	movement.Stamp(actor.ID)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.stockRepo.WithTx(tx)
		row, err := repo.Add(ctx, key, delta, actor.ID)
		if err != nil {
			return err
		}
		if row.Quantity.IsNegative() {
			return ErrInsufficientStock
		}
		movement.QuantityAfter = row.Quantity
		movement.QuantityBefore = row.Quantity.Sub(delta)
		return repo.LogMovement(ctx, movement)
	})
	if err != nil {
		return nil, translate(err, nil)
	}

	s.log.Info("stock adjusted",
		zap.String("store_id", key.StoreID.String()),
		zap.String("product_id", key.ProductID.String()),
		zap.Stringer("delta", delta),
		zap.Stringer("quantity", movement.QuantityAfter))
	s.events.Publish(ws.Event{
		Type:   ws.EventStockUpdate,
		Action: "stock_adjusted",
		Data: map[string]any{
			"store_id":        key.StoreID,
			"product_id":      key.ProductID,
			"variation_id":    key.VariationID,
			"quantity_before": movement.QuantityBefore,
			"quantity_after":  movement.QuantityAfter,
			"quantity_change": delta,
		},
		User:    &actor,
		Message: fmt.Sprintf("%s adjusted stock of '%s' by %s", actor.Name, product.Name, delta.String()),
	})
	return movement, nil
}

func (s *stockService) ListStock(ctx context.Context, f repository.StockFilter) ([]model.Stock, error) {
	return s.stockRepo.List(ctx, f)
}

func (s *stockService) ListMovements(ctx context.Context, f repository.StockFilter, limit int) ([]model.StockMovement, error) {
	return s.stockRepo.ListMovements(ctx, f, limit)
}
