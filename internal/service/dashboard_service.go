package service

import (
	"context"
	"time"

	"go-wholesale-inventory/internal/repository"

	"github.com/shopspring/decimal"
)

// DashboardStats are the headline counters of the back office.
type DashboardStats struct {
	TotalProducts   int64 `json:"total_products"`
	TotalVariations int64 `json:"total_variations"`
	TotalStores     int64 `json:"total_stores"`
	LowStockRows    int64 `json:"low_stock_rows"`
}

type DashboardService interface {
	GetStockMovement(ctx context.Context, days int) ([]repository.StockMovementData, error)
	GetDashboardStats(ctx context.Context) (*DashboardStats, error)
}

type dashboardService struct {
	productRepo   repository.ProductRepository
	variationRepo repository.VariationRepository
	storeRepo     repository.StoreRepository
	stockRepo     repository.StockRepository
	lowStock      decimal.Decimal
}

func NewDashboardService(
	productRepo repository.ProductRepository,
	variationRepo repository.VariationRepository,
	storeRepo repository.StoreRepository,
	stockRepo repository.StockRepository,
	lowStock decimal.Decimal,
) DashboardService {
	return &dashboardService{
		productRepo:   productRepo,
		variationRepo: variationRepo,
		storeRepo:     storeRepo,
		stockRepo:     stockRepo,
		lowStock:      lowStock,
	}
}

func (s *dashboardService) GetStockMovement(ctx context.Context, days int) ([]repository.StockMovementData, error) {
	if days <= 0 {
		days = 7
	}
	endDate := time.Now()
	startDate := endDate.AddDate(0, 0, -days)
	return s.stockRepo.GetStockMovement(ctx, startDate, endDate)
}

func (s *dashboardService) GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	var stats DashboardStats
	var err error
	if stats.TotalProducts, err = s.productRepo.Count(ctx); err != nil {
		return nil, err
	}
	if stats.TotalVariations, err = s.variationRepo.Count(ctx); err != nil {
		return nil, err
	}
	if stats.TotalStores, err = s.storeRepo.Count(ctx); err != nil {
		return nil, err
	}
	if stats.LowStockRows, err = s.stockRepo.CountBelow(ctx, s.lowStock); err != nil {
		return nil, err
	}
	return &stats, nil
}
