package service

import (
	"errors"
	"testing"

	"go-wholesale-inventory/internal/model"
	"go-wholesale-inventory/internal/repository"
	"go-wholesale-inventory/internal/testutil"
	"go-wholesale-inventory/internal/ws"

	"github.com/google/uuid"
)

func TestStockService_AdjustUpsertsSingleRow(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()
	p, _, _ := f.standardProduct(t, "Soap", "SOAP")
	key := repository.StockKey{StoreID: mustStore(t, f, "JKT"), ProductID: p.ID}

	qty, err := f.stock.GetStock(ctx, key)
	if err != nil || !qty.IsZero() {
		t.Fatalf("initial stock = %s, %v; want 0", qty, err)
	}

	m, err := f.stock.AdjustStock(ctx, key, dec("10"), Reference{Type: "purchase", ID: "PO-1"}, testutil.Actor())
	if err != nil {
		t.Fatalf("first adjust: %v", err)
	}
	if m.Type != model.MovementIn || !m.QuantityBefore.IsZero() || !m.QuantityAfter.Equal(dec("10")) {
		t.Errorf("movement = %+v", m)
	}
	if _, err := f.stock.AdjustStock(ctx, key, dec("10"), Reference{}, testutil.Actor()); err != nil {
		t.Fatalf("second adjust: %v", err)
	}

	qty, err = f.stock.GetStock(ctx, key)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !qty.Equal(dec("20")) {
		t.Errorf("stock = %s, want 20", qty)
	}
	if n := testutil.Count(t, f.db, &model.Stock{}); n != 1 {
		t.Errorf("stock rows = %d, want 1", n)
	}
	if n := testutil.Count(t, f.db, &model.StockMovement{}); n != 2 {
		t.Errorf("movements = %d, want 2", n)
	}
	if e, ok := f.events.Last(ws.EventStockUpdate); !ok || e.User == nil || e.User.ID != testutil.Actor().ID {
		t.Errorf("stock event = %+v", e)
	}
}

func TestStockService_InsufficientStockRollsBack(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()
	p, _, _ := f.standardProduct(t, "Soap", "SOAP")
	key := repository.StockKey{StoreID: mustStore(t, f, "JKT"), ProductID: p.ID}

	if _, err := f.stock.AdjustStock(ctx, key, dec("5"), Reference{}, testutil.Actor()); err != nil {
		t.Fatalf("stock in: %v", err)
	}
	_, err := f.stock.AdjustStock(ctx, key, dec("-8"), Reference{}, testutil.Actor())
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("got %v, want ErrInsufficientStock", err)
	}
	qty, _ := f.stock.GetStock(ctx, key)
	if !qty.Equal(dec("5")) {
		t.Errorf("stock after rejected outbound = %s, want 5", qty)
	}
	if n := testutil.Count(t, f.db, &model.StockMovement{}); n != 1 {
		t.Errorf("movements = %d, want 1", n)
	}

	m, err := f.stock.AdjustStock(ctx, key, dec("-5"), Reference{}, testutil.Actor())
	if err != nil {
		t.Fatalf("stock out to zero: %v", err)
	}
	if m.Type != model.MovementOut || !m.QuantityAfter.IsZero() {
		t.Errorf("movement = %+v", m)
	}

	var verr *ValidationError
	if _, err := f.stock.AdjustStock(ctx, key, dec("0"), Reference{}, testutil.Actor()); !errors.As(err, &verr) {
		t.Errorf("zero delta: got %v, want ValidationError", err)
	}
}

func TestStockService_AdjustInUnit(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()
	p, _, box := f.standardProduct(t, "Soap", "SOAP")
	key := repository.StockKey{StoreID: mustStore(t, f, "JKT"), ProductID: p.ID}

	m, err := f.stock.AdjustStockInUnit(ctx, key, box.ID, dec("3"), Reference{}, testutil.Actor())
	if err != nil {
		t.Fatalf("adjust in box: %v", err)
	}
	if !m.QuantityChange.Equal(dec("36")) || !m.UnitQuantity.Equal(dec("3")) {
		t.Errorf("movement change=%s unit_qty=%s", m.QuantityChange, m.UnitQuantity)
	}
	if m.UnitID == nil || *m.UnitID != box.ID {
		t.Errorf("unit_id = %v", m.UnitID)
	}

	m, err = f.stock.Adjust(ctx, &AdjustStockRequest{
		StoreID:   key.StoreID,
		ProductID: key.ProductID,
		UnitID:    &box.ID,
		Quantity:  dec("-1"),
	}, testutil.Actor())
	if err != nil {
		t.Fatalf("adjust request: %v", err)
	}
	if !m.QuantityAfter.Equal(dec("24")) {
		t.Errorf("after = %s, want 24", m.QuantityAfter)
	}
}

func TestStockService_VariationKeys(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()
	shirt, _ := f.variableProduct(t, "Shirt", "SHIRT", "S", "M")
	soap, _, _ := f.standardProduct(t, "Soap", "SOAP")
	store := mustStore(t, f, "JKT")
	s, m := shirt.Variations[0].ID, shirt.Variations[1].ID

	var verr *ValidationError
	if _, err := f.stock.AdjustStock(ctx, repository.StockKey{StoreID: store, ProductID: shirt.ID}, dec("1"), Reference{}, testutil.Actor()); !errors.As(err, &verr) {
		t.Errorf("variable without variation: got %v", err)
	}
	if _, err := f.stock.AdjustStock(ctx, repository.StockKey{StoreID: store, ProductID: soap.ID, VariationID: &s}, dec("1"), Reference{}, testutil.Actor()); !errors.As(err, &verr) {
		t.Errorf("standard with variation: got %v", err)
	}
	if _, err := f.stock.AdjustStock(ctx, repository.StockKey{StoreID: uuid.New(), ProductID: soap.ID}, dec("1"), Reference{}, testutil.Actor()); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown store: got %v, want ErrNotFound", err)
	}

	for _, id := range []uuid.UUID{s, s, m} {
		key := repository.StockKey{StoreID: store, ProductID: shirt.ID, VariationID: &id}
		if _, err := f.stock.AdjustStock(ctx, key, dec("4"), Reference{}, testutil.Actor()); err != nil {
			t.Fatalf("adjust variation: %v", err)
		}
	}
	rows, err := f.stock.ListStock(ctx, repository.StockFilter{ProductID: &shirt.ID})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want one per variation", len(rows))
	}
	for _, r := range rows {
		want := dec("4")
		if *r.VariationID == s {
			want = dec("8")
		}
		if !r.Quantity.Equal(want) {
			t.Errorf("variation %s = %s, want %s", r.VariationID, r.Quantity, want)
		}
	}

	movements, err := f.stock.ListMovements(ctx, repository.StockFilter{StoreID: &store}, 2)
	if err != nil {
		t.Fatalf("movements: %v", err)
	}
	if len(movements) != 2 {
		t.Errorf("limited movements = %d, want 2", len(movements))
	}
}

func TestDashboardService_Stats(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()
	p, _, _ := f.standardProduct(t, "Soap", "SOAP")
	f.variableProduct(t, "Shirt", "SHIRT", "S", "M")
	key := repository.StockKey{StoreID: mustStore(t, f, "JKT"), ProductID: p.ID}
	if _, err := f.stock.AdjustStock(ctx, key, dec("3"), Reference{}, testutil.Actor()); err != nil {
		t.Fatalf("adjust: %v", err)
	}

	stats, err := f.dashboard.GetDashboardStats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.TotalProducts != 2 || stats.TotalVariations != 2 || stats.TotalStores != 1 || stats.LowStockRows != 1 {
		t.Errorf("stats = %+v", stats)
	}
}
