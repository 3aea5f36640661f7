package service

import (
	"context"
	"errors"

	"go-wholesale-inventory/internal/model"
	"go-wholesale-inventory/internal/repository"
	"go-wholesale-inventory/internal/ws"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var one = decimal.NewFromInt(1)

// UnitConfigInput is one row of a product's unit configuration:
// 1 UnitID = ConversionFactor x base unit.
type UnitConfigInput struct {
	UnitID           uuid.UUID       `json:"unit_id" validate:"uuid_required"`
	ConversionFactor decimal.Decimal `json:"conversion_factor" validate:"decimal_gt0"`
	IsPurchaseUnit   bool            `json:"is_purchase_unit"`
	IsSalesUnit      bool            `json:"is_sales_unit"`
}

type UpdateUnitConfigRequest struct {
	ConversionFactor decimal.Decimal `json:"conversion_factor" validate:"decimal_gt0"`
	IsPurchaseUnit   bool            `json:"is_purchase_unit"`
	IsSalesUnit      bool            `json:"is_sales_unit"`
}

type ProductUnitService interface {
	AddConfiguration(ctx context.Context, productID uuid.UUID, req *UnitConfigInput, actor ws.Actor) (*model.ProductUnit, error)
	UpdateConfiguration(ctx context.Context, productID, configID uuid.UUID, req *UpdateUnitConfigRequest, actor ws.Actor) (*model.ProductUnit, error)
	RemoveConfiguration(ctx context.Context, productID, configID uuid.UUID, actor ws.Actor) error
	ListConfigurations(ctx context.Context, productID uuid.UUID) ([]model.ProductUnit, error)
	// ConvertToBase returns qty expressed in the product's base unit.
	ConvertToBase(ctx context.Context, productID, unitID uuid.UUID, qty decimal.Decimal) (decimal.Decimal, error)
}

type productUnitService struct {
	productRepo repository.ProductRepository
	puRepo      repository.ProductUnitRepository
	unitRepo    repository.UnitRepository
	events      ws.Publisher
	log         *zap.Logger
}

func NewProductUnitService(
	productRepo repository.ProductRepository,
	puRepo repository.ProductUnitRepository,
	unitRepo repository.UnitRepository,
	events ws.Publisher,
	log *zap.Logger,
) ProductUnitService {
	return &productUnitService{
		productRepo: productRepo,
		puRepo:      puRepo,
		unitRepo:    unitRepo,
		events:      events,
		log:         log.Named("product_unit"),
	}
}

// checkFactor applies the per-row rules that do not need the database.
func checkFactor(baseUnitID, unitID uuid.UUID, factor decimal.Decimal) error {
	if unitID == uuid.Nil {
		return invalid("unit_id", "is required")
	}
	if !factor.IsPositive() {
		return invalid("conversion_factor", "must be greater than 0")
	}
	if unitID == baseUnitID && !factor.Equal(one) {
		return invalid("conversion_factor", "must be 1 for the base unit")
	}
	return nil
}

// checkConfigurations validates a whole configuration set for a product with
// the given base unit. The set must contain the base unit with factor 1.
func checkConfigurations(baseUnitID uuid.UUID, rows []UnitConfigInput) error {
	seen := make(map[uuid.UUID]struct{}, len(rows))
	hasBase := false
	for _, row := range rows {
		if row.UnitID == uuid.Nil {
			return invalid("unit_id", "is required")
		}
		if !row.ConversionFactor.IsPositive() {
			return invalid("conversion_factor", "must be greater than 0")
		}
		if _, dup := seen[row.UnitID]; dup {
			return ErrDuplicateConfiguration
		}
		seen[row.UnitID] = struct{}{}
		if row.UnitID == baseUnitID && row.ConversionFactor.Equal(one) {
			hasBase = true
		}
	}
	if !hasBase {
		return ErrMissingBaseUnitConfiguration
	}
	return nil
}

func (s *productUnitService) product(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	p, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, translate(err, nil)
	}
	return p, nil
}

func (s *productUnitService) config(ctx context.Context, productID, configID uuid.UUID) (*model.ProductUnit, error) {
	pu, err := s.puRepo.FindByID(ctx, configID)
	if err != nil {
		return nil, translate(err, nil)
	}
	if pu.ProductID != productID {
		return nil, ErrNotFound
	}
	return pu, nil
}

func (s *productUnitService) AddConfiguration(ctx context.Context, productID uuid.UUID, req *UnitConfigInput, actor ws.Actor) (*model.ProductUnit, error) {
	product, err := s.product(ctx, productID)
	if err != nil {
		return nil, err
	}
	if err := checkFactor(product.BaseUnitID, req.UnitID, req.ConversionFactor); err != nil {
		return nil, err
	}
	if _, err := s.unitRepo.FindByID(ctx, req.UnitID); err != nil {
		return nil, translate(err, nil)
	}
	if _, err := s.puRepo.FindByProductAndUnit(ctx, productID, req.UnitID); err == nil {
		return nil, ErrDuplicateConfiguration
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	pu := &model.ProductUnit{
		ProductID:        productID,
		UnitID:           req.UnitID,
		BaseUnitID:       product.BaseUnitID,
		ConversionFactor: req.ConversionFactor,
		IsPurchaseUnit:   req.IsPurchaseUnit,
		IsSalesUnit:      req.IsSalesUnit,
	}
	pu.Stamp(actor.ID)
	if err := s.puRepo.Create(ctx, pu); err != nil {
		return nil, translate(err, ErrDuplicateConfiguration)
	}

	s.log.Info("unit configuration added",
		zap.String("product_id", productID.String()),
		zap.String("unit_id", req.UnitID.String()),
		zap.String("factor", req.ConversionFactor.String()))
	s.events.Publish(ws.Event{Type: ws.EventCatalogUpdate, Action: "product_unit_added", Data: pu, User: &actor})
	return pu, nil
}

func (s *productUnitService) UpdateConfiguration(ctx context.Context, productID, configID uuid.UUID, req *UpdateUnitConfigRequest, actor ws.Actor) (*model.ProductUnit, error) {
	product, err := s.product(ctx, productID)
	if err != nil {
		return nil, err
	}
	pu, err := s.config(ctx, productID, configID)
	if err != nil {
		return nil, err
	}
	if err := checkFactor(product.BaseUnitID, pu.UnitID, req.ConversionFactor); err != nil {
		return nil, err
	}

	pu.ConversionFactor = req.ConversionFactor
	pu.IsPurchaseUnit = req.IsPurchaseUnit
	pu.IsSalesUnit = req.IsSalesUnit
	pu.UpdatedBy = actor.ID
	if err := s.puRepo.Update(ctx, pu); err != nil {
		return nil, translate(err, ErrDuplicateConfiguration)
	}
	s.events.Publish(ws.Event{Type: ws.EventCatalogUpdate, Action: "product_unit_updated", Data: pu, User: &actor})
	return pu, nil
}

func (s *productUnitService) RemoveConfiguration(ctx context.Context, productID, configID uuid.UUID, actor ws.Actor) error {
	product, err := s.product(ctx, productID)
	if err != nil {
		return err
	}
	pu, err := s.config(ctx, productID, configID)
	if err != nil {
		return err
	}
	if pu.MarksBase() || pu.UnitID == product.BaseUnitID {
		return ErrBaseUnitRemovalForbidden
	}
	if err := s.puRepo.Delete(ctx, configID); err != nil {
		return translate(err, nil)
	}
	s.events.Publish(ws.Event{Type: ws.EventCatalogUpdate, Action: "product_unit_removed", Data: idData(configID), User: &actor})
	return nil
}

func (s *productUnitService) ListConfigurations(ctx context.Context, productID uuid.UUID) ([]model.ProductUnit, error) {
	if _, err := s.product(ctx, productID); err != nil {
		return nil, err
	}
	return s.puRepo.FindByProduct(ctx, productID)
}

func (s *productUnitService) ConvertToBase(ctx context.Context, productID, unitID uuid.UUID, qty decimal.Decimal) (decimal.Decimal, error) {
	product, err := s.product(ctx, productID)
	if err != nil {
		return decimal.Zero, err
	}
	if unitID == product.BaseUnitID {
		return qty, nil
	}
	pu, err := s.puRepo.FindByProductAndUnit(ctx, productID, unitID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return decimal.Zero, invalid("unit_id", "is not configured for this product")
	}
	if err != nil {
		return decimal.Zero, err
	}
	return qty.Mul(pu.ConversionFactor), nil
}
