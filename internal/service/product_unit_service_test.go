package service

import (
	"errors"
	"testing"

	"go-wholesale-inventory/internal/model"
	"go-wholesale-inventory/internal/testutil"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func TestCheckConfigurations(t *testing.T) {
	base := uuid.New()
	box := uuid.New()

	tests := []struct {
		name string
		rows []UnitConfigInput
		want error
	}{
		{"base only", []UnitConfigInput{{UnitID: base, ConversionFactor: one}}, nil},
		{"base and box", []UnitConfigInput{{UnitID: base, ConversionFactor: one}, {UnitID: box, ConversionFactor: dec("12")}}, nil},
		{"empty", nil, ErrMissingBaseUnitConfiguration},
		{"base with factor 3", []UnitConfigInput{{UnitID: base, ConversionFactor: dec("3")}}, ErrMissingBaseUnitConfiguration},
		{"repeated unit", []UnitConfigInput{{UnitID: base, ConversionFactor: one}, {UnitID: base, ConversionFactor: one}}, ErrDuplicateConfiguration},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := checkConfigurations(base, tt.rows); !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}

	var verr *ValidationError
	err := checkConfigurations(base, []UnitConfigInput{{UnitID: box, ConversionFactor: decimal.Zero}})
	if !errors.As(err, &verr) || verr.Field != "conversion_factor" {
		t.Errorf("zero factor: got %v", err)
	}
	err = checkConfigurations(base, []UnitConfigInput{{ConversionFactor: one}})
	if !errors.As(err, &verr) || verr.Field != "unit_id" {
		t.Errorf("missing unit: got %v", err)
	}
}

func TestProductUnitService_AddUpdateRemove(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()
	p, pcs, box := f.standardProduct(t, "Soap", "SOAP")
	carton := testutil.SeedUnit(t, f.db, "Carton")

	pu, err := f.configs.AddConfiguration(ctx, p.ID, &UnitConfigInput{UnitID: carton.ID, ConversionFactor: dec("144"), IsPurchaseUnit: true}, testutil.Actor())
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if pu.BaseUnitID != pcs.ID {
		t.Errorf("base_unit_id = %s, want %s", pu.BaseUnitID, pcs.ID)
	}
	if _, err := f.configs.AddConfiguration(ctx, p.ID, &UnitConfigInput{UnitID: box.ID, ConversionFactor: dec("6")}, testutil.Actor()); !errors.Is(err, ErrDuplicateConfiguration) {
		t.Errorf("repeat unit: got %v, want ErrDuplicateConfiguration", err)
	}
	if _, err := f.configs.AddConfiguration(ctx, p.ID, &UnitConfigInput{UnitID: uuid.New(), ConversionFactor: dec("6")}, testutil.Actor()); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown unit: got %v, want ErrNotFound", err)
	}

	updated, err := f.configs.UpdateConfiguration(ctx, p.ID, pu.ID, &UpdateUnitConfigRequest{ConversionFactor: dec("120"), IsSalesUnit: true}, testutil.Actor())
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !updated.ConversionFactor.Equal(dec("120")) || !updated.IsSalesUnit || updated.IsPurchaseUnit {
		t.Errorf("updated = %+v", updated)
	}

	rows, err := f.configs.ListConfigurations(ctx, p.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(rows))
	}
	var baseRow model.ProductUnit
	for _, r := range rows {
		if r.IsBaseUnit {
			baseRow = r
		}
	}
	if baseRow.UnitID != pcs.ID {
		t.Fatalf("no base row flagged in %+v", rows)
	}

	var verr *ValidationError
	if _, err := f.configs.UpdateConfiguration(ctx, p.ID, baseRow.ID, &UpdateUnitConfigRequest{ConversionFactor: dec("2")}, testutil.Actor()); !errors.As(err, &verr) {
		t.Errorf("base factor change: got %v, want ValidationError", err)
	}
	if err := f.configs.RemoveConfiguration(ctx, p.ID, baseRow.ID, testutil.Actor()); !errors.Is(err, ErrBaseUnitRemovalForbidden) {
		t.Errorf("remove base: got %v, want ErrBaseUnitRemovalForbidden", err)
	}
	if err := f.configs.RemoveConfiguration(ctx, p.ID, pu.ID, testutil.Actor()); err != nil {
		t.Fatalf("remove carton: %v", err)
	}
	if err := f.configs.RemoveConfiguration(ctx, p.ID, pu.ID, testutil.Actor()); !errors.Is(err, ErrNotFound) {
		t.Errorf("remove twice: got %v, want ErrNotFound", err)
	}
}

func TestProductUnitService_ConvertToBase(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()
	p, pcs, box := f.standardProduct(t, "Soap", "SOAP")

	got, err := f.configs.ConvertToBase(ctx, p.ID, box.ID, dec("2.5"))
	if err != nil {
		t.Fatalf("convert box: %v", err)
	}
	if !got.Equal(dec("30")) {
		t.Errorf("2.5 box = %s pcs, want 30", got)
	}
	got, err = f.configs.ConvertToBase(ctx, p.ID, pcs.ID, dec("7"))
	if err != nil || !got.Equal(dec("7")) {
		t.Errorf("base unit: got %s, %v", got, err)
	}

	stray := testutil.SeedUnit(t, f.db, "Pallet")
	var verr *ValidationError
	if _, err := f.configs.ConvertToBase(ctx, p.ID, stray.ID, dec("1")); !errors.As(err, &verr) {
		t.Errorf("unconfigured unit: got %v, want ValidationError", err)
	}
	if _, err := f.configs.ConvertToBase(ctx, uuid.New(), box.ID, dec("1")); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown product: got %v, want ErrNotFound", err)
	}
}
