package service

import (
	"errors"
	"testing"

	"go-wholesale-inventory/internal/model"
	"go-wholesale-inventory/internal/repository"
	"go-wholesale-inventory/internal/testutil"
	"go-wholesale-inventory/internal/variation"
)

func TestProductService_CreateStandard(t *testing.T) {
	f := newFixture(t)

	p, pcs, box := f.standardProduct(t, "Soap", "SOAP-01")
	if p.ItemType != model.ItemStandard || !p.IsActive {
		t.Errorf("item_type=%s is_active=%v", p.ItemType, p.IsActive)
	}
	if len(p.Units) != 2 {
		t.Fatalf("units = %d, want 2", len(p.Units))
	}
	for _, u := range p.Units {
		switch u.UnitID {
		case pcs.ID:
			if !u.IsBaseUnit {
				t.Error("Pcs row should be flagged as base unit")
			}
		case box.ID:
			if u.IsBaseUnit || !u.ConversionFactor.Equal(dec("12")) {
				t.Errorf("Box row: base=%v factor=%s", u.IsBaseUnit, u.ConversionFactor)
			}
		default:
			t.Errorf("unexpected unit %s", u.UnitID)
		}
	}
	if e, ok := f.events.Last("catalog_update"); !ok || e.Action != "product_created" {
		t.Errorf("last catalog event = %+v", e)
	}
}

func TestProductService_CreateRequiresBaseUnitRow(t *testing.T) {
	f := newFixture(t)
	pcs := testutil.SeedUnit(t, f.db, "Pcs")
	box := testutil.SeedUnit(t, f.db, "Box")

	cases := map[string][]UnitConfigInput{
		"no rows":       nil,
		"other only":    {{UnitID: box.ID, ConversionFactor: dec("12")}},
		"base factor 2": {{UnitID: pcs.ID, ConversionFactor: dec("2")}},
	}
	for name, units := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := f.products.CreateProduct(t.Context(), &ProductRequest{
				Name:       "Soap " + name,
				BaseUnitID: pcs.ID,
				ItemType:   model.ItemStandard,
				Units:      units,
			}, testutil.Actor())
			if !errors.Is(err, ErrMissingBaseUnitConfiguration) {
				t.Fatalf("got %v, want ErrMissingBaseUnitConfiguration", err)
			}
		})
	}
	if n := testutil.Count(t, f.db, &model.Product{}); n != 0 {
		t.Errorf("products persisted = %d, want 0", n)
	}
}

func TestProductService_CreateRejectsRepeatedUnit(t *testing.T) {
	f := newFixture(t)
	pcs := testutil.SeedUnit(t, f.db, "Pcs")

	_, err := f.products.CreateProduct(t.Context(), &ProductRequest{
		Name:       "Soap",
		BaseUnitID: pcs.ID,
		ItemType:   model.ItemStandard,
		Units: []UnitConfigInput{
			{UnitID: pcs.ID, ConversionFactor: dec("1")},
			{UnitID: pcs.ID, ConversionFactor: dec("1")},
		},
	}, testutil.Actor())
	if !errors.Is(err, ErrDuplicateConfiguration) {
		t.Fatalf("got %v, want ErrDuplicateConfiguration", err)
	}
}

func TestProductService_DuplicateVariationSKUPersistsNothing(t *testing.T) {
	f := newFixture(t)
	pcs := testutil.SeedUnit(t, f.db, "Pcs")
	size := testutil.SeedAttribute(t, f.db, "Size", "S", "M")

	_, err := f.products.CreateProduct(t.Context(), &ProductRequest{
		Name:       "Shirt",
		BaseUnitID: pcs.ID,
		ItemType:   model.ItemVariable,
		Units:      []UnitConfigInput{{UnitID: pcs.ID, ConversionFactor: dec("1")}},
		Variations: []VariationInput{
			{SKU: "SHIRT-X", Combination: combo(size, "S")},
			{SKU: "shirt-x", Combination: combo(size, "M")},
		},
	}, testutil.Actor())
	var dup *DuplicateSkuError
	if !errors.As(err, &dup) {
		t.Fatalf("got %v, want DuplicateSkuError", err)
	}
	if dup.SKU != "shirt-x" {
		t.Errorf("sku = %q, want shirt-x", dup.SKU)
	}
	if n := testutil.Count(t, f.db, &model.Product{}); n != 0 {
		t.Errorf("products = %d, want 0", n)
	}
	if n := testutil.Count(t, f.db, &model.ProductVariation{}); n != 0 {
		t.Errorf("variations = %d, want 0", n)
	}
}

func TestProductService_SKUTakenByAnotherProduct(t *testing.T) {
	f := newFixture(t)
	first, size := f.variableProduct(t, "Shirt", "SHIRT", "S")
	taken := first.Variations[0].SKU

	_, err := f.products.CreateProduct(t.Context(), &ProductRequest{
		Name:       "Shirt Copy",
		BaseUnitID: first.BaseUnitID,
		ItemType:   model.ItemVariable,
		Units:      []UnitConfigInput{{UnitID: first.BaseUnitID, ConversionFactor: dec("1")}},
		Variations: []VariationInput{{SKU: taken, Combination: combo(size, "S")}},
	}, testutil.Actor())
	if !errors.Is(err, ErrDuplicateSKU) {
		t.Fatalf("variation sku: got %v, want ErrDuplicateSKU", err)
	}

	_, err = f.products.CreateProduct(t.Context(), &ProductRequest{
		Name:       "Another Shirt",
		SKU:        "SHIRT",
		BaseUnitID: first.BaseUnitID,
		ItemType:   model.ItemStandard,
		Units:      []UnitConfigInput{{UnitID: first.BaseUnitID, ConversionFactor: dec("1")}},
	}, testutil.Actor())
	if !errors.Is(err, ErrDuplicateSKU) {
		t.Fatalf("product sku: got %v, want ErrDuplicateSKU", err)
	}
}

func TestProductService_StandardWithVariationsRejected(t *testing.T) {
	f := newFixture(t)
	pcs := testutil.SeedUnit(t, f.db, "Pcs")
	size := testutil.SeedAttribute(t, f.db, "Size", "S")

	_, err := f.products.CreateProduct(t.Context(), &ProductRequest{
		Name:       "Soap",
		BaseUnitID: pcs.ID,
		ItemType:   model.ItemStandard,
		Units:      []UnitConfigInput{{UnitID: pcs.ID, ConversionFactor: dec("1")}},
		Variations: []VariationInput{{SKU: "SOAP-S", Combination: combo(size, "S")}},
	}, testutil.Actor())
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Field != "variations" {
		t.Fatalf("got %v, want ValidationError on variations", err)
	}
}

func TestProductService_UpdateSyncsVariations(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()
	p, size := f.variableProduct(t, "Shirt", "SHIRT", "S", "M", "L")
	if len(p.Variations) != 3 {
		t.Fatalf("variations = %d, want 3", len(p.Variations))
	}
	kept := p.Variations[0]

	updated, err := f.products.UpdateProduct(ctx, p.ID, &ProductRequest{
		Name:        "Shirt v2",
		SKU:         "SHIRT",
		BaseUnitID:  p.BaseUnitID,
		ItemType:    model.ItemVariable,
		RetailPrice: dec("50000"),
		Units:       []UnitConfigInput{{UnitID: p.BaseUnitID, ConversionFactor: dec("1")}},
		Variations: []VariationInput{
			{ID: &kept.ID, SKU: kept.SKU, Combination: combo(size, "S"), RetailPrice: decPtr("45000")},
			{SKU: "SHIRT-XL-NEW", Combination: combo(size, "M")},
		},
	}, testutil.Actor())
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "Shirt v2" {
		t.Errorf("name = %q", updated.Name)
	}
	if len(updated.Variations) != 2 {
		t.Fatalf("variations = %d, want 2", len(updated.Variations))
	}
	byID := map[string]model.VariationResponse{}
	for _, v := range updated.Variations {
		byID[v.SKU] = v
	}
	if v, ok := byID[kept.SKU]; !ok || v.ID != kept.ID || !v.RetailPrice.Equal(dec("45000")) {
		t.Errorf("kept variation = %+v", v)
	}
	if v, ok := byID["SHIRT-XL-NEW"]; !ok || !v.RetailPrice.Equal(dec("50000")) {
		t.Errorf("new variation should inherit the product price, got %+v", v)
	} else if v.AttributeCombination[size.Name] != "M" {
		t.Errorf("combination = %v", v.AttributeCombination)
	}
}

func TestProductService_PreviewVariations(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()
	color := testutil.SeedAttribute(t, f.db, "Color", "Red", "Blue")
	size := testutil.SeedAttribute(t, f.db, "Size", "S", "M", "L")

	resp, err := f.products.PreviewVariations(ctx, &PreviewRequest{
		Name: "T Shirt",
		Attributes: []variation.Selection{
			{AttributeID: color.ID, Values: []string{"Red", "Blue"}},
			{AttributeID: size.ID, Values: []string{"S", "M", "L"}},
		},
	})
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	if resp.Count != 6 || len(resp.Variations) != 6 {
		t.Fatalf("count = %d, want 6", resp.Count)
	}
	first := resp.Variations[0]
	if first.Name != "Red / S" {
		t.Errorf("first name = %q, want Red / S", first.Name)
	}
	if first.SKU != resp.Identifier+"-RED-S" {
		t.Errorf("first sku = %q, identifier %q", first.SKU, resp.Identifier)
	}
	if n := testutil.Count(t, f.db, &model.ProductVariation{}); n != 0 {
		t.Errorf("preview wrote %d variations", n)
	}

	empty, err := f.products.PreviewVariations(ctx, &PreviewRequest{
		Name:       "T Shirt",
		Attributes: []variation.Selection{{AttributeID: color.ID, Values: []string{" "}}},
	})
	if err != nil {
		t.Fatalf("empty preview: %v", err)
	}
	if empty.Count != 0 {
		t.Errorf("empty selection count = %d, want 0", empty.Count)
	}

	_, err = f.products.PreviewVariations(ctx, &PreviewRequest{
		Name:       "T Shirt",
		Attributes: []variation.Selection{{AttributeID: color.ID, Values: []string{"Green"}}},
	})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown value: got %v, want ErrNotFound", err)
	}

	if _, err := f.products.PreviewVariations(ctx, &PreviewRequest{}); err == nil {
		t.Error("preview without name or product should fail")
	}
}

func TestProductService_RegenerateReplacesVariations(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()
	p, size := f.variableProduct(t, "Shirt", "SHIRT", "S", "M")
	color := testutil.SeedAttribute(t, f.db, "Color", "Red", "Blue", "Green")

	out, err := f.products.RegenerateVariations(ctx, p.ID, &GenerateRequest{
		Attributes: []variation.Selection{
			{AttributeID: color.ID, Values: []string{"Red", "Blue", "Green"}},
			{AttributeID: size.ID, Values: []string{"S"}},
		},
	}, testutil.Actor())
	if err != nil {
		t.Fatalf("regenerate: %v", err)
	}
	if len(out) != 3 {
		t.Fatalf("variations = %d, want 3", len(out))
	}
	for _, v := range p.Variations {
		for _, n := range out {
			if n.ID == v.ID {
				t.Errorf("old variation %s survived regeneration", v.SKU)
			}
		}
	}
	if n := testutil.Count(t, f.db, &model.ProductVariation{}); n != 3 {
		t.Errorf("stored variations = %d, want 3", n)
	}

	_, err = f.products.RegenerateVariations(ctx, p.ID, &GenerateRequest{}, testutil.Actor())
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Errorf("no selections: got %v, want ValidationError", err)
	}
}

func TestProductService_RegenerateNeedsVariableProduct(t *testing.T) {
	f := newFixture(t)
	p, _, _ := f.standardProduct(t, "Soap", "SOAP")
	color := testutil.SeedAttribute(t, f.db, "Color", "Red")

	_, err := f.products.RegenerateVariations(t.Context(), p.ID, &GenerateRequest{
		Attributes: []variation.Selection{{AttributeID: color.ID, Values: []string{"Red"}}},
	}, testutil.Actor())
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Field != "item_type" {
		t.Fatalf("got %v, want ValidationError on item_type", err)
	}
}

func TestProductService_UpdateAndDeleteVariation(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()
	p, _ := f.variableProduct(t, "Shirt", "SHIRT", "S", "M")
	s, m := p.Variations[0], p.Variations[1]

	if _, err := f.products.UpdateVariation(ctx, p.ID, s.ID, &UpdateVariationRequest{SKU: m.SKU}, testutil.Actor()); !errors.Is(err, ErrDuplicateSKU) {
		t.Errorf("rename onto sibling sku: got %v, want ErrDuplicateSKU", err)
	}
	resp, err := f.products.UpdateVariation(ctx, p.ID, s.ID, &UpdateVariationRequest{SKU: "SHIRT-SMALL", Barcode: "899"}, testutil.Actor())
	if err != nil {
		t.Fatalf("update variation: %v", err)
	}
	if resp.SKU != "SHIRT-SMALL" || resp.Barcode != "899" {
		t.Errorf("resp = %+v", resp)
	}
	if len(resp.AttributeCombination) != 1 {
		t.Errorf("combination lost on update: %v", resp.AttributeCombination)
	}

	if err := f.products.DeleteVariation(ctx, p.ID, m.ID, testutil.Actor()); err != nil {
		t.Fatalf("delete variation: %v", err)
	}
	detail, err := f.products.GetProduct(ctx, p.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(detail.Variations) != 1 {
		t.Errorf("variations after delete = %d, want 1", len(detail.Variations))
	}
}

func TestProductService_DeleteProduct(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()
	p, _ := f.variableProduct(t, "Shirt", "SHIRT", "S")

	if err := f.products.DeleteProduct(ctx, p.ID, testutil.Actor()); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := f.products.GetProduct(ctx, p.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("get deleted: got %v", err)
	}
	if n := testutil.Count(t, f.db, &model.ProductUnit{}); n != 0 {
		t.Errorf("unit configurations left = %d", n)
	}
	if n := testutil.Count(t, f.db, &model.ProductVariation{}); n != 0 {
		t.Errorf("variations left = %d", n)
	}
}

func TestProductService_RegenerateIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()
	p, size := f.variableProduct(t, "Shirt", "SHIRT", "S", "M")
	req := &GenerateRequest{Attributes: []variation.Selection{{AttributeID: size.ID, Values: []string{"S", "M"}}}}

	first, err := f.products.RegenerateVariations(ctx, p.ID, req, testutil.Actor())
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	second, err := f.products.RegenerateVariations(ctx, p.ID, req, testutil.Actor())
	if err != nil {
		t.Fatalf("second: %v", err)
	}
	if len(first) != len(second) {
		t.Fatalf("lengths differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].SKU != second[i].SKU {
			t.Errorf("sku[%d] = %s then %s", i, first[i].SKU, second[i].SKU)
		}
	}
}

func TestProductService_ItemTypeLockedWhileStocked(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()
	p, pcs, _ := f.standardProduct(t, "Soap", "SOAP")
	size := testutil.SeedAttribute(t, f.db, "Soap Size", "S")
	key := repository.StockKey{StoreID: mustStore(t, f, "JKT"), ProductID: p.ID}
	if _, err := f.stock.AdjustStock(ctx, key, dec("7"), Reference{}, testutil.Actor()); err != nil {
		t.Fatalf("stock in: %v", err)
	}

	_, err := f.products.UpdateProduct(ctx, p.ID, &ProductRequest{
		Name:       "Soap",
		SKU:        "SOAP",
		BaseUnitID: pcs.ID,
		ItemType:   model.ItemVariable,
		Units:      []UnitConfigInput{{UnitID: pcs.ID, ConversionFactor: dec("1")}},
		Variations: []VariationInput{{SKU: "SOAP-S", Combination: combo(size, "S")}},
	}, testutil.Actor())
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Field != "item_type" {
		t.Fatalf("got %v, want ValidationError on item_type", err)
	}

	got, err := f.products.GetProduct(ctx, p.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.ItemType != model.ItemStandard || len(got.Variations) != 0 {
		t.Errorf("product changed: item_type=%s variations=%d", got.ItemType, len(got.Variations))
	}
	if qty, err := f.stock.GetStock(ctx, key); err != nil || !qty.Equal(dec("7")) {
		t.Errorf("stock = %s, %v; want 7", qty, err)
	}
}

func TestProductService_BaseUnitLockedWhileStocked(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()
	p, _, box := f.standardProduct(t, "Soap", "SOAP")
	key := repository.StockKey{StoreID: mustStore(t, f, "JKT"), ProductID: p.ID}
	if _, err := f.stock.AdjustStock(ctx, key, dec("24"), Reference{}, testutil.Actor()); err != nil {
		t.Fatalf("stock in: %v", err)
	}

	_, err := f.products.UpdateProduct(ctx, p.ID, &ProductRequest{
		Name:       "Soap",
		SKU:        "SOAP",
		BaseUnitID: box.ID,
		ItemType:   model.ItemStandard,
		Units:      []UnitConfigInput{{UnitID: box.ID, ConversionFactor: dec("1")}},
	}, testutil.Actor())
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("got %v, want ValidationError", err)
	}
	got, err := f.products.GetProduct(ctx, p.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.BaseUnitID != p.BaseUnitID || len(got.Units) != 2 {
		t.Errorf("base unit = %s with %d units, want unchanged", got.BaseUnitID, len(got.Units))
	}
}

func TestProductService_ItemTypeChangesWithoutStock(t *testing.T) {
	f := newFixture(t)
	p, pcs, _ := f.standardProduct(t, "Soap", "SOAP")
	size := testutil.SeedAttribute(t, f.db, "Soap Size", "S")

	got, err := f.products.UpdateProduct(t.Context(), p.ID, &ProductRequest{
		Name:       "Soap",
		SKU:        "SOAP",
		BaseUnitID: pcs.ID,
		ItemType:   model.ItemVariable,
		Units:      []UnitConfigInput{{UnitID: pcs.ID, ConversionFactor: dec("1")}},
		Variations: []VariationInput{{SKU: "SOAP-S", Combination: combo(size, "S")}},
	}, testutil.Actor())
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.ItemType != model.ItemVariable || len(got.Variations) != 1 {
		t.Errorf("item_type=%s variations=%d", got.ItemType, len(got.Variations))
	}
}

func TestProductService_SwapVariationSKUs(t *testing.T) {
	f := newFixture(t)
	p, size := f.variableProduct(t, "Tee", "TEE", "S", "M")
	bySKU := map[string]model.VariationResponse{}
	for _, v := range p.Variations {
		bySKU[v.SKU] = v
	}
	small, medium := bySKU["TEE-S"], bySKU["TEE-M"]

	got, err := f.products.UpdateProduct(t.Context(), p.ID, &ProductRequest{
		Name:       "Tee",
		SKU:        "TEE",
		BaseUnitID: p.BaseUnitID,
		ItemType:   model.ItemVariable,
		Units:      []UnitConfigInput{{UnitID: p.BaseUnitID, ConversionFactor: dec("1")}},
		Variations: []VariationInput{
			{ID: &small.ID, SKU: "TEE-M", Combination: combo(size, "S")},
			{ID: &medium.ID, SKU: "TEE-S", Combination: combo(size, "M")},
		},
	}, testutil.Actor())
	if err != nil {
		t.Fatalf("swap: %v", err)
	}
	for _, v := range got.Variations {
		switch v.ID {
		case small.ID:
			if v.SKU != "TEE-M" || v.AttributeCombination[size.Name] != "S" {
				t.Errorf("small = %s %v", v.SKU, v.AttributeCombination)
			}
		case medium.ID:
			if v.SKU != "TEE-S" || v.AttributeCombination[size.Name] != "M" {
				t.Errorf("medium = %s %v", v.SKU, v.AttributeCombination)
			}
		default:
			t.Errorf("unexpected variation %s", v.SKU)
		}
	}
}

func TestProductService_RejectsBadCombinations(t *testing.T) {
	f := newFixture(t)
	pcs := testutil.SeedUnit(t, f.db, "Pcs")
	size := testutil.SeedAttribute(t, f.db, "Sz", "S", "M")

	tests := []struct {
		name       string
		variations []VariationInput
	}{
		{"same combination twice", []VariationInput{
			{SKU: "A", Combination: combo(size, "S")},
			{SKU: "B", Combination: combo(size, "S")},
		}},
		{"empty combination", []VariationInput{
			{SKU: "A", Combination: combo(size, "S")},
			{SKU: "B"},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.products.CreateProduct(t.Context(), &ProductRequest{
				Name:       "Cap",
				BaseUnitID: pcs.ID,
				ItemType:   model.ItemVariable,
				Units:      []UnitConfigInput{{UnitID: pcs.ID, ConversionFactor: dec("1")}},
				Variations: tt.variations,
			}, testutil.Actor())
			var verr *ValidationError
			if !errors.As(err, &verr) || verr.Field != "combination" {
				t.Fatalf("got %v, want ValidationError on combination", err)
			}
		})
	}
	if n := testutil.Count(t, f.db, &model.ProductVariation{}); n != 0 {
		t.Errorf("variations persisted = %d", n)
	}
}
