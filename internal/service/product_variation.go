package service

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"go-wholesale-inventory/internal/model"
	"go-wholesale-inventory/internal/variation"
	"go-wholesale-inventory/internal/ws"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type PreviewRequest struct {
	ProductID  *uuid.UUID            `json:"product_id"`
	Name       string                `json:"name"`
	SKU        string                `json:"sku"`
	Attributes []variation.Selection `json:"attributes"`
}

type PreviewResponse struct {
	Identifier string                `json:"identifier"`
	Count      int                   `json:"count"`
	Variations []variation.Generated `json:"variations"`
}

type GenerateRequest struct {
	Attributes []variation.Selection `json:"attributes"`
}

type UpdateVariationRequest struct {
	SKU            string           `json:"sku" validate:"required,max=50"`
	VariantName    string           `json:"variant_name" validate:"max=255"`
	CostPrice      *decimal.Decimal `json:"cost_price"`
	RetailPrice    *decimal.Decimal `json:"retail_price"`
	WholesalePrice *decimal.Decimal `json:"wholesale_price"`
	Barcode        string           `json:"barcode" validate:"max=100"`
	IsActive       *bool            `json:"is_active"`
}

// resolver checks combinations and selections against the attribute registry.
type resolver struct {
	attrs map[uuid.UUID]*model.Attribute
}

func (s *productService) loadResolver(ctx context.Context, ids []uuid.UUID) (*resolver, error) {
	attrs, err := s.attrRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	r := &resolver{attrs: make(map[uuid.UUID]*model.Attribute, len(attrs))}
	for i := range attrs {
		r.attrs[attrs[i].ID] = &attrs[i]
	}
	return r, nil
}

func (s *productService) newResolver(ctx context.Context, inputs []VariationInput) (*resolver, error) {
	var ids []uuid.UUID
	for _, in := range inputs {
		for _, p := range in.Combination {
			ids = append(ids, p.AttributeID)
		}
	}
	return s.loadResolver(ctx, ids)
}

func (r *resolver) attribute(id uuid.UUID) (*model.Attribute, error) {
	attr, ok := r.attrs[id]
	if !ok {
		return nil, fmt.Errorf("%w: attribute %s", ErrNotFound, id)
	}
	return attr, nil
}

// valueIDs maps a combination to attribute value ids. Each attribute may
// appear once.
func (r *resolver) valueIDs(combo variation.Combination) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(combo))
	seen := make(map[uuid.UUID]struct{}, len(combo))
	for _, p := range combo {
		attr, err := r.attribute(p.AttributeID)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[attr.ID]; dup {
			return nil, invalid("combination", "attribute "+attr.Name+" appears twice")
		}
		seen[attr.ID] = struct{}{}
		value, ok := attr.FindValue(strings.TrimSpace(p.Value))
		if !ok {
			return nil, fmt.Errorf("%w: value %q of attribute %s", ErrNotFound, p.Value, attr.Name)
		}
		ids = append(ids, value.ID)
	}
	return ids, nil
}

// comboKey identifies a combination by its value ids regardless of order.
func comboKey(valueIDs []uuid.UUID) string {
	keys := make([]string, len(valueIDs))
	for i, id := range valueIDs {
		keys[i] = id.String()
	}
	slices.Sort(keys)
	return strings.Join(keys, ",")
}

// selections normalizes sel and replaces names with the registry names.
func (r *resolver) selections(sel []variation.Selection) ([]variation.Selection, error) {
	active := variation.Normalize(sel)
	seen := make(map[uuid.UUID]struct{}, len(active))
	for i, s := range active {
		attr, err := r.attribute(s.AttributeID)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[attr.ID]; dup {
			return nil, invalid("attributes", "attribute "+attr.Name+" is selected twice")
		}
		seen[attr.ID] = struct{}{}
		for _, v := range s.Values {
			if _, ok := attr.FindValue(v); !ok {
				return nil, fmt.Errorf("%w: value %q of attribute %s", ErrNotFound, v, attr.Name)
			}
		}
		active[i].Name = attr.Name
	}
	return active, nil
}

func (s *productService) resolveSelections(ctx context.Context, sel []variation.Selection) (*resolver, []variation.Selection, error) {
	ids := make([]uuid.UUID, len(sel))
	for i, x := range sel {
		ids[i] = x.AttributeID
	}
	r, err := s.loadResolver(ctx, ids)
	if err != nil {
		return nil, nil, err
	}
	active, err := r.selections(sel)
	if err != nil {
		return nil, nil, err
	}
	return r, active, nil
}

// PreviewVariations expands selections without writing anything. Unsaved
// drafts get a temporary identifier.
func (s *productService) PreviewVariations(ctx context.Context, req *PreviewRequest) (*PreviewResponse, error) {
	seed := strings.TrimSpace(req.SKU)
	if seed == "" {
		seed = strings.TrimSpace(req.Name)
	}
	var identifier string
	if req.ProductID != nil {
		product, err := s.productRepo.FindByID(ctx, *req.ProductID)
		if err != nil {
			return nil, translate(err, nil)
		}
		if seed == "" {
			seed = product.SKUOrName()
		}
		identifier = variation.Identifier(seed, product.ID)
	} else {
		if seed == "" {
			return nil, invalid("name", "is required to derive SKUs")
		}
		identifier = variation.TempIdentifier(seed)
	}

	_, active, err := s.resolveSelections(ctx, req.Attributes)
	if err != nil {
		return nil, err
	}
	generated := variation.Expand(identifier, active)
	if len(active) == 0 {
		generated = []variation.Generated{}
	}
	return &PreviewResponse{Identifier: identifier, Count: len(generated), Variations: generated}, nil
}

// RegenerateVariations replaces every stored variation of the product with
// the combinations of req. Manual edits to earlier variations are discarded.
func (s *productService) RegenerateVariations(ctx context.Context, productID uuid.UUID, req *GenerateRequest, actor ws.Actor) ([]model.VariationResponse, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, translate(err, nil)
	}
	if !product.IsVariable() {
		return nil, invalid("item_type", "variations require a Variable product")
	}
	res, active, err := s.resolveSelections(ctx, req.Attributes)
	if err != nil {
		return nil, err
	}
	if len(active) == 0 {
		return nil, invalid("attributes", "select at least one attribute value")
	}

	generated := variation.Expand(variation.Identifier(product.SKUOrName(), product.ID), active)
	skus := make([]string, len(generated))
	for i, g := range generated {
		skus[i] = g.SKU
	}
	if sku, dup := variation.FirstDuplicate(skus); dup {
		return nil, &DuplicateSkuError{SKU: sku}
	}
	taken, err := s.variationRepo.FindBySKUs(ctx, skus)
	if err != nil {
		return nil, err
	}
	for _, v := range taken {
		if v.ProductID != productID {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateSKU, v.SKU)
		}
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.variationRepo.WithTx(tx)
		if err := repo.DeleteByProduct(ctx, productID); err != nil {
			return err
		}
		for _, g := range generated {
			ids, err := res.valueIDs(g.Combination)
			if err != nil {
				return err
			}
			v := &model.ProductVariation{ProductID: productID}
			s.apply(v, VariationInput{SKU: g.SKU, VariantName: g.Name, Combination: g.Combination}, product)
			v.Stamp(actor.ID)
			if err := repo.Create(ctx, v, ids); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, translate(err, ErrDuplicateSKU)
	}

	stored, err := s.variationRepo.FindByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	out := make([]model.VariationResponse, len(stored))
	for i := range stored {
		out[i] = stored[i].ToResponse()
	}

	s.log.Info("variations regenerated",
		zap.String("product_id", productID.String()),
		zap.Int("attributes", len(active)),
		zap.Int("variations", len(out)))
	s.events.Publish(ws.Event{
		Type:    ws.EventCatalogUpdate,
		Action:  "variations_generated",
		Data:    map[string]any{"product_id": productID, "count": len(out)},
		User:    &actor,
		Message: fmt.Sprintf("%s generated %d variations for '%s'", actor.Name, len(out), product.Name),
	})
	return out, nil
}

func (s *productService) variation(ctx context.Context, productID, variationID uuid.UUID) (*model.ProductVariation, error) {
	v, err := s.variationRepo.FindByID(ctx, variationID)
	if err != nil {
		return nil, translate(err, nil)
	}
	if v.ProductID != productID {
		return nil, ErrNotFound
	}
	return v, nil
}

func (s *productService) UpdateVariation(ctx context.Context, productID, variationID uuid.UUID, req *UpdateVariationRequest, actor ws.Actor) (*model.VariationResponse, error) {
	req.SKU = strings.TrimSpace(req.SKU)
	if err := validate(req); err != nil {
		return nil, err
	}
	v, err := s.variation(ctx, productID, variationID)
	if err != nil {
		return nil, err
	}
	taken, err := s.variationRepo.FindBySKUs(ctx, []string{req.SKU})
	if err != nil {
		return nil, err
	}
	for _, other := range taken {
		if other.ID != variationID {
			return nil, ErrDuplicateSKU
		}
	}

	v.SKU = req.SKU
	if name := strings.TrimSpace(req.VariantName); name != "" {
		v.VariantName = name
	}
	v.CostPrice = orDefault(req.CostPrice, v.CostPrice)
	v.RetailPrice = orDefault(req.RetailPrice, v.RetailPrice)
	v.WholesalePrice = orDefault(req.WholesalePrice, v.WholesalePrice)
	v.Barcode = strings.TrimSpace(req.Barcode)
	v.IsActive = boolOr(req.IsActive, v.IsActive)
	v.UpdatedBy = actor.ID

	links := v.AttributeValues
	v.AttributeValues = nil
	if err := s.variationRepo.Update(ctx, v); err != nil {
		return nil, translate(err, ErrDuplicateSKU)
	}
	v.AttributeValues = links

	resp := v.ToResponse()
	s.events.Publish(ws.Event{Type: ws.EventCatalogUpdate, Action: "variation_updated", Data: resp, User: &actor})
	return &resp, nil
}

func (s *productService) DeleteVariation(ctx context.Context, productID, variationID uuid.UUID, actor ws.Actor) error {
	if _, err := s.variation(ctx, productID, variationID); err != nil {
		return err
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.variationRepo.WithTx(tx).Delete(ctx, variationID)
	})
	if err != nil {
		return translate(err, nil)
	}
	s.events.Publish(ws.Event{Type: ws.EventCatalogUpdate, Action: "variation_deleted", Data: idData(variationID), User: &actor})
	return nil
}
