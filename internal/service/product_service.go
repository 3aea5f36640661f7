package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go-wholesale-inventory/internal/model"
	"go-wholesale-inventory/internal/repository"
	"go-wholesale-inventory/internal/variation"
	"go-wholesale-inventory/internal/ws"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// VariationInput is one variation of a product draft. Variations carrying an
// ID update the stored row; the rest are inserted. Nil prices inherit the
// product prices.
type VariationInput struct {
	ID             *uuid.UUID            `json:"id"`
	SKU            string                `json:"sku" validate:"required,max=50"`
	VariantName    string                `json:"variant_name" validate:"max=255"`
	Combination    variation.Combination `json:"combination"`
	CostPrice      *decimal.Decimal      `json:"cost_price"`
	RetailPrice    *decimal.Decimal      `json:"retail_price"`
	WholesalePrice *decimal.Decimal      `json:"wholesale_price"`
	Barcode        string                `json:"barcode" validate:"max=100"`
	IsActive       *bool                 `json:"is_active"`
}

// ProductRequest is the whole edit session of a product. It is saved
// atomically: product, unit configurations and variations.
type ProductRequest struct {
	Name           string            `json:"name" validate:"required,max=255"`
	SKU            string            `json:"sku" validate:"max=50"`
	Barcode        string            `json:"barcode" validate:"max=100"`
	BaseUnitID     uuid.UUID         `json:"base_unit_id" validate:"uuid_required"`
	ItemType       model.ItemType    `json:"item_type" validate:"required,oneof=Standard Variable"`
	CostPrice      decimal.Decimal   `json:"cost_price" validate:"decimal_gte0"`
	RetailPrice    decimal.Decimal   `json:"retail_price" validate:"decimal_gte0"`
	WholesalePrice decimal.Decimal   `json:"wholesale_price" validate:"decimal_gte0"`
	IsActive       *bool             `json:"is_active"`
	Units          []UnitConfigInput `json:"units" validate:"dive"`
	Variations     []VariationInput  `json:"variations" validate:"dive"`
}

// ProductDetail is a product with its configuration and variations.
type ProductDetail struct {
	model.Product
	Variations []model.VariationResponse `json:"variations"`
}

func newProductDetail(p *model.Product) *ProductDetail {
	d := &ProductDetail{Product: *p, Variations: make([]model.VariationResponse, len(p.Variations))}
	for i := range p.Variations {
		d.Variations[i] = p.Variations[i].ToResponse()
	}
	d.Product.Variations = nil
	return d
}

type ProductService interface {
	CreateProduct(ctx context.Context, req *ProductRequest, actor ws.Actor) (*ProductDetail, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, req *ProductRequest, actor ws.Actor) (*ProductDetail, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*ProductDetail, error)
	ListProducts(ctx context.Context) ([]model.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID, actor ws.Actor) error

	PreviewVariations(ctx context.Context, req *PreviewRequest) (*PreviewResponse, error)
	RegenerateVariations(ctx context.Context, productID uuid.UUID, req *GenerateRequest, actor ws.Actor) ([]model.VariationResponse, error)
	UpdateVariation(ctx context.Context, productID, variationID uuid.UUID, req *UpdateVariationRequest, actor ws.Actor) (*model.VariationResponse, error)
	DeleteVariation(ctx context.Context, productID, variationID uuid.UUID, actor ws.Actor) error
}

type productService struct {
	db            *gorm.DB
	productRepo   repository.ProductRepository
	puRepo        repository.ProductUnitRepository
	variationRepo repository.VariationRepository
	unitRepo      repository.UnitRepository
	attrRepo      repository.AttributeRepository
	stockRepo     repository.StockRepository
	events        ws.Publisher
	log           *zap.Logger
}

func NewProductService(
	db *gorm.DB,
	productRepo repository.ProductRepository,
	puRepo repository.ProductUnitRepository,
	variationRepo repository.VariationRepository,
	unitRepo repository.UnitRepository,
	attrRepo repository.AttributeRepository,
	stockRepo repository.StockRepository,
	events ws.Publisher,
	log *zap.Logger,
) ProductService {
	return &productService{
		db:            db,
		productRepo:   productRepo,
		puRepo:        puRepo,
		variationRepo: variationRepo,
		unitRepo:      unitRepo,
		attrRepo:      attrRepo,
		stockRepo:     stockRepo,
		events:        events,
		log:           log.Named("product"),
	}
}

// preparedVariation is a validated VariationInput with resolved value ids.
type preparedVariation struct {
	input    VariationInput
	valueIDs []uuid.UUID
}

func (r *ProductRequest) normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.SKU = strings.TrimSpace(r.SKU)
	r.Barcode = strings.TrimSpace(r.Barcode)
	for i := range r.Variations {
		r.Variations[i].SKU = strings.TrimSpace(r.Variations[i].SKU)
		r.Variations[i].VariantName = strings.TrimSpace(r.Variations[i].VariantName)
	}
}

func (r *ProductRequest) skuPtr() *string {
	if r.SKU == "" {
		return nil
	}
	sku := r.SKU
	return &sku
}

// prepare runs every check that does not write. self is uuid.Nil on create.
func (s *productService) prepare(ctx context.Context, self uuid.UUID, req *ProductRequest) ([]preparedVariation, error) {
	req.normalize()
	if err := validate(req); err != nil {
		return nil, err
	}
	if err := checkConfigurations(req.BaseUnitID, req.Units); err != nil {
		return nil, err
	}
	if req.ItemType == model.ItemStandard && len(req.Variations) > 0 {
		return nil, invalid("variations", "standard products cannot have variations")
	}

	skus := make([]string, len(req.Variations))
	for i, v := range req.Variations {
		skus[i] = v.SKU
	}
	if sku, dup := variation.FirstDuplicate(skus); dup {
		return nil, &DuplicateSkuError{SKU: sku}
	}

	for _, u := range req.Units {
		if _, err := s.unitRepo.FindByID(ctx, u.UnitID); err != nil {
			return nil, lookupErr(err, "unit", u.UnitID)
		}
	}

	if req.SKU != "" {
		existing, err := s.productRepo.FindBySKU(ctx, req.SKU)
		switch {
		case err == nil && existing.ID != self:
			return nil, ErrDuplicateSKU
		case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
			return nil, err
		}
	}
	taken, err := s.variationRepo.FindBySKUs(ctx, skus)
	if err != nil {
		return nil, err
	}
	for _, v := range taken {
		if v.ProductID != self {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateSKU, v.SKU)
		}
	}

	res, err := s.newResolver(ctx, req.Variations)
	if err != nil {
		return nil, err
	}
	prepared := make([]preparedVariation, len(req.Variations))
	combos := make(map[string]string, len(req.Variations))
	for i, v := range req.Variations {
		if len(v.Combination) == 0 {
			return nil, invalid("combination", "variation "+v.SKU+" has no attribute values")
		}
		ids, err := res.valueIDs(v.Combination)
		if err != nil {
			return nil, err
		}
		key := comboKey(ids)
		if other, dup := combos[key]; dup {
			return nil, invalid("combination", "variations "+other+" and "+v.SKU+" share a combination")
		}
		combos[key] = v.SKU
		prepared[i] = preparedVariation{input: v, valueIDs: ids}
	}
	return prepared, nil
}

func (s *productService) configRows(req *ProductRequest, actor ws.Actor) []model.ProductUnit {
	rows := make([]model.ProductUnit, len(req.Units))
	for i, u := range req.Units {
		rows[i] = model.ProductUnit{
			UnitID:           u.UnitID,
			BaseUnitID:       req.BaseUnitID,
			ConversionFactor: u.ConversionFactor,
			IsPurchaseUnit:   u.IsPurchaseUnit,
			IsSalesUnit:      u.IsSalesUnit,
		}
		rows[i].Stamp(actor.ID)
	}
	return rows
}

func orDefault(d *decimal.Decimal, fallback decimal.Decimal) decimal.Decimal {
	if d == nil {
		return fallback
	}
	return *d
}

func boolOr(b *bool, fallback bool) bool {
	if b == nil {
		return fallback
	}
	return *b
}

func (s *productService) apply(v *model.ProductVariation, in VariationInput, p *model.Product) {
	v.SKU = in.SKU
	v.VariantName = in.VariantName
	if v.VariantName == "" {
		v.VariantName = in.Combination.Label()
	}
	v.CostPrice = orDefault(in.CostPrice, p.CostPrice)
	v.RetailPrice = orDefault(in.RetailPrice, p.RetailPrice)
	v.WholesalePrice = orDefault(in.WholesalePrice, p.WholesalePrice)
	v.Barcode = strings.TrimSpace(in.Barcode)
	v.IsActive = boolOr(in.IsActive, true)
}

// syncVariations makes the stored variations of p equal to prepared:
// missing ones are deleted, ones with an ID are updated, the rest inserted.
func (s *productService) syncVariations(ctx context.Context, repo repository.VariationRepository, p *model.Product, prepared []preparedVariation, actor ws.Actor) error {
	existing, err := repo.FindByProduct(ctx, p.ID)
	if err != nil {
		return err
	}
	byID := make(map[uuid.UUID]*model.ProductVariation, len(existing))
	for i := range existing {
		byID[existing[i].ID] = &existing[i]
	}

	keep := make(map[uuid.UUID]struct{}, len(prepared))
	for _, pv := range prepared {
		if pv.input.ID == nil {
			continue
		}
		if _, ok := byID[*pv.input.ID]; !ok {
			return fmt.Errorf("%w: variation %s", ErrNotFound, *pv.input.ID)
		}
		keep[*pv.input.ID] = struct{}{}
	}
	var stale []uuid.UUID
	for id := range byID {
		if _, ok := keep[id]; !ok {
			stale = append(stale, id)
		}
	}
	if err := repo.Delete(ctx, stale...); err != nil {
		return err
	}

	// Kept rows changing SKU are parked on a unique placeholder first, so
	// SKUs can move between variations of the same product.
	for _, pv := range prepared {
		if pv.input.ID == nil {
			continue
		}
		v := byID[*pv.input.ID]
		if v.SKU == pv.input.SKU {
			continue
		}
		v.SKU = "~" + strings.ReplaceAll(v.ID.String(), "-", "")
		v.AttributeValues = nil
		if err := repo.Update(ctx, v); err != nil {
			return err
		}
	}

	for _, pv := range prepared {
		if pv.input.ID != nil {
			v := byID[*pv.input.ID]
			s.apply(v, pv.input, p)
			v.UpdatedBy = actor.ID
			v.AttributeValues = nil
			if err := repo.Update(ctx, v); err != nil {
				return err
			}
			if err := repo.ReplaceLinks(ctx, v.ID, pv.valueIDs); err != nil {
				return err
			}
			continue
		}
		v := &model.ProductVariation{ProductID: p.ID}
		s.apply(v, pv.input, p)
		v.Stamp(actor.ID)
		if err := repo.Create(ctx, v, pv.valueIDs); err != nil {
			return err
		}
	}
	return nil
}

func (s *productService) CreateProduct(ctx context.Context, req *ProductRequest, actor ws.Actor) (*ProductDetail, error) {
	prepared, err := s.prepare(ctx, uuid.Nil, req)
	if err != nil {
		return nil, err
	}
	for _, pv := range prepared {
		if pv.input.ID != nil {
			return nil, invalid("variations.id", "must be empty for a new product")
		}
	}

	product := &model.Product{
		Name:           req.Name,
		SKU:            req.skuPtr(),
		Barcode:        req.Barcode,
		BaseUnitID:     req.BaseUnitID,
		ItemType:       req.ItemType,
		CostPrice:      req.CostPrice,
		RetailPrice:    req.RetailPrice,
		WholesalePrice: req.WholesalePrice,
		IsActive:       boolOr(req.IsActive, true),
	}
	product.ID = uuid.New()
	product.Stamp(actor.ID)

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.productRepo.WithTx(tx).Create(ctx, product); err != nil {
			return err
		}
		if err := s.puRepo.WithTx(tx).ReplaceForProduct(ctx, product.ID, s.configRows(req, actor)); err != nil {
			return err
		}
		return s.syncVariations(ctx, s.variationRepo.WithTx(tx), product, prepared, actor)
	})
	if err != nil {
		return nil, translate(err, ErrDuplicateSKU)
	}

	detail, err := s.GetProduct(ctx, product.ID)
	if err != nil {
		return nil, err
	}
	s.log.Info("product created",
		zap.String("product_id", product.ID.String()),
		zap.String("item_type", string(product.ItemType)),
		zap.Int("units", len(req.Units)),
		zap.Int("variations", len(prepared)))
	s.events.Publish(ws.Event{
		Type:    ws.EventCatalogUpdate,
		Action:  "product_created",
		Data:    detail,
		User:    &actor,
		Message: fmt.Sprintf("%s created product '%s'", actor.Name, product.Name),
	})
	return detail, nil
}

func (s *productService) UpdateProduct(ctx context.Context, id uuid.UUID, req *ProductRequest, actor ws.Actor) (*ProductDetail, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, translate(err, nil)
	}
	prepared, err := s.prepare(ctx, id, req)
	if err != nil {
		return nil, err
	}

	reshaped := product.ItemType != req.ItemType || product.BaseUnitID != req.BaseUnitID

	product.Name = req.Name
	product.SKU = req.skuPtr()
	product.Barcode = req.Barcode
	product.BaseUnitID = req.BaseUnitID
	product.BaseUnit = nil
	product.ItemType = req.ItemType
	product.CostPrice = req.CostPrice
	product.RetailPrice = req.RetailPrice
	product.WholesalePrice = req.WholesalePrice
	product.IsActive = boolOr(req.IsActive, product.IsActive)
	product.UpdatedBy = actor.ID

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if reshaped {
			// Stock rows are keyed by item type and counted in the base unit.
			n, err := s.stockRepo.WithTx(tx).CountForProduct(ctx, id)
			if err != nil {
				return err
			}
			if n > 0 {
				return invalid("item_type", "item type and base unit cannot change while the product holds stock")
			}
		}
		if err := s.productRepo.WithTx(tx).Update(ctx, product); err != nil {
			return err
		}
		if err := s.puRepo.WithTx(tx).ReplaceForProduct(ctx, product.ID, s.configRows(req, actor)); err != nil {
			return err
		}
		return s.syncVariations(ctx, s.variationRepo.WithTx(tx), product, prepared, actor)
	})
	if err != nil {
		return nil, translate(err, ErrDuplicateSKU)
	}

	detail, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	s.log.Info("product updated", zap.String("product_id", id.String()), zap.Int("variations", len(prepared)))
	s.events.Publish(ws.Event{
		Type:    ws.EventCatalogUpdate,
		Action:  "product_updated",
		Data:    detail,
		User:    &actor,
		Message: fmt.Sprintf("%s updated product '%s'", actor.Name, product.Name),
	})
	return detail, nil
}

func (s *productService) GetProduct(ctx context.Context, id uuid.UUID) (*ProductDetail, error) {
	p, err := s.productRepo.FindDetail(ctx, id)
	if err != nil {
		return nil, translate(err, nil)
	}
	return newProductDetail(p), nil
}

func (s *productService) ListProducts(ctx context.Context) ([]model.Product, error) {
	return s.productRepo.FindAll(ctx)
}

func (s *productService) DeleteProduct(ctx context.Context, id uuid.UUID, actor ws.Actor) error {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return translate(err, nil)
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.productRepo.WithTx(tx).Delete(ctx, id)
	})
	if err != nil {
		return translate(err, nil)
	}

	s.log.Info("product deleted", zap.String("product_id", id.String()))
	s.events.Publish(ws.Event{
		Type:    ws.EventCatalogUpdate,
		Action:  "product_deleted",
		Data:    idData(id),
		User:    &actor,
		Message: fmt.Sprintf("%s deleted product '%s'", actor.Name, product.Name),
	})
	return nil
}
