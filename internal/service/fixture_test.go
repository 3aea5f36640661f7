package service

import (
	"testing"
	"time"

	"go-wholesale-inventory/internal/model"
	"go-wholesale-inventory/internal/repository"
	"go-wholesale-inventory/internal/testutil"
	"go-wholesale-inventory/internal/variation"
	"go-wholesale-inventory/pkg/jwt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fixture struct {
	db     *gorm.DB
	events *testutil.Recorder

	units      UnitService
	attributes AttributeService
	configs    ProductUnitService
	products   ProductService
	stores     StoreService
	stock      StockService
	users      UserService
	auth       *authService
	dashboard  DashboardService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.SetupTestDB(t)
	events := &testutil.Recorder{}
	log := zap.NewNop()

	userRepo := repository.NewUserRepo(db)
	storeRepo := repository.NewStoreRepo(db)
	unitRepo := repository.NewUnitRepo(db)
	attrRepo := repository.NewAttributeRepo(db)
	productRepo := repository.NewProductRepo(db)
	puRepo := repository.NewProductUnitRepo(db)
	variationRepo := repository.NewVariationRepo(db)
	stockRepo := repository.NewStockRepo(db)

	configs := NewProductUnitService(productRepo, puRepo, unitRepo, events, log)
	tokens := jwt.NewManager("test-secret", "test", time.Hour)

	return &fixture{
		db:         db,
		events:     events,
		units:      NewUnitService(unitRepo, events, log),
		attributes: NewAttributeService(attrRepo, events, log),
		configs:    configs,
		products:   NewProductService(db, productRepo, puRepo, variationRepo, unitRepo, attrRepo, stockRepo, events, log),
		stores:     NewStoreService(storeRepo, events, log),
		stock:      NewStockService(db, stockRepo, storeRepo, productRepo, variationRepo, configs, events, log),
		users:      NewUserService(userRepo, repository.NewPrivilegeRepo(db), repository.NewRoleRepo(db), storeRepo, log),
		auth:       NewAuthService(userRepo, tokens, 5*time.Minute, events, log).(*authService),
		dashboard:  NewDashboardService(productRepo, variationRepo, storeRepo, stockRepo, decimal.NewFromInt(10)),
	}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

// standardProduct creates a Standard product with Pcs as base and a Box of
// 12 as purchase unit.
func (f *fixture) standardProduct(t *testing.T, name, sku string) (*ProductDetail, *model.Unit, *model.Unit) {
	t.Helper()
	pcs := testutil.SeedUnit(t, f.db, name+" Pcs")
	box := testutil.SeedUnit(t, f.db, name+" Box")
	p, err := f.products.CreateProduct(t.Context(), &ProductRequest{
		Name:        name,
		SKU:         sku,
		BaseUnitID:  pcs.ID,
		ItemType:    model.ItemStandard,
		RetailPrice: dec("1500"),
		Units: []UnitConfigInput{
			{UnitID: pcs.ID, ConversionFactor: dec("1"), IsSalesUnit: true},
			{UnitID: box.ID, ConversionFactor: dec("12"), IsPurchaseUnit: true},
		},
	}, testutil.Actor())
	if err != nil {
		t.Fatalf("create product: %v", err)
	}
	return p, pcs, box
}

// variableProduct creates a Variable product with one variation per size.
func (f *fixture) variableProduct(t *testing.T, name, sku string, sizes ...string) (*ProductDetail, *model.Attribute) {
	t.Helper()
	pcs := testutil.SeedUnit(t, f.db, name+" Pcs")
	size := testutil.SeedAttribute(t, f.db, name+" Size", sizes...)
	req := &ProductRequest{
		Name:       name,
		SKU:        sku,
		BaseUnitID: pcs.ID,
		ItemType:   model.ItemVariable,
		Units:      []UnitConfigInput{{UnitID: pcs.ID, ConversionFactor: dec("1")}},
	}
	for _, s := range sizes {
		req.Variations = append(req.Variations, VariationInput{
			SKU:         sku + "-" + s,
			Combination: combo(size, s),
		})
	}
	p, err := f.products.CreateProduct(t.Context(), req, testutil.Actor())
	if err != nil {
		t.Fatalf("create variable product: %v", err)
	}
	return p, size
}

func combo(attr *model.Attribute, value string) variation.Combination {
	return variation.Combination{{AttributeID: attr.ID, Name: attr.Name, Value: value}}
}

func mustStore(t *testing.T, f *fixture, code string) uuid.UUID {
	t.Helper()
	return testutil.SeedStore(t, f.db, code, "Store "+code).ID
}
