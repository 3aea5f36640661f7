package repository

import (
	"context"

	"go-wholesale-inventory/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProductUnitRepository interface {
	WithTx(tx *gorm.DB) ProductUnitRepository
	Create(ctx context.Context, pu *model.ProductUnit) error
	Update(ctx context.Context, pu *model.ProductUnit) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.ProductUnit, error)
	FindByProduct(ctx context.Context, productID uuid.UUID) ([]model.ProductUnit, error)
	FindByProductAndUnit(ctx context.Context, productID, unitID uuid.UUID) (*model.ProductUnit, error)
	// ReplaceForProduct swaps the whole configuration set of a product.
	ReplaceForProduct(ctx context.Context, productID uuid.UUID, units []model.ProductUnit) error
}

type productUnitRepo struct {
	db *gorm.DB
}

func NewProductUnitRepo(db *gorm.DB) ProductUnitRepository {
	return &productUnitRepo{db}
}

func (r *productUnitRepo) WithTx(tx *gorm.DB) ProductUnitRepository {
	return &productUnitRepo{tx}
}

func (r *productUnitRepo) Create(ctx context.Context, pu *model.ProductUnit) error {
	return r.db.WithContext(ctx).Omit("Unit", "BaseUnit").Create(pu).Error
}

func (r *productUnitRepo) Update(ctx context.Context, pu *model.ProductUnit) error {
	return r.db.WithContext(ctx).Omit("Unit", "BaseUnit").Save(pu).Error
}

func (r *productUnitRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.ProductUnit{}, "id = ?", id).Error
}

func (r *productUnitRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.ProductUnit, error) {
	var pu model.ProductUnit
	if err := r.db.WithContext(ctx).Preload("Unit").First(&pu, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &pu, nil
}

func (r *productUnitRepo) FindByProduct(ctx context.Context, productID uuid.UUID) ([]model.ProductUnit, error) {
	var units []model.ProductUnit
	err := r.db.WithContext(ctx).Preload("Unit").
		Where("product_id = ?", productID).
		Order("conversion_factor ASC").
		Find(&units).Error
	return units, err
}

func (r *productUnitRepo) FindByProductAndUnit(ctx context.Context, productID, unitID uuid.UUID) (*model.ProductUnit, error) {
	var pu model.ProductUnit
	err := r.db.WithContext(ctx).
		Where("product_id = ? AND unit_id = ?", productID, unitID).
		First(&pu).Error
	if err != nil {
		return nil, err
	}
	return &pu, nil
}

func (r *productUnitRepo) ReplaceForProduct(ctx context.Context, productID uuid.UUID, units []model.ProductUnit) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("product_id = ?", productID).Delete(&model.ProductUnit{}).Error; err != nil {
		return err
	}
	if len(units) == 0 {
		return nil
	}
	for i := range units {
		units[i].ProductID = productID
	}
	return db.Omit("Unit", "BaseUnit").Create(&units).Error
}
