package repository

import (
	"context"

	"go-wholesale-inventory/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProductRepository interface {
	WithTx(tx *gorm.DB) ProductRepository
	Create(ctx context.Context, product *model.Product) error
	Update(ctx context.Context, product *model.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindAll(ctx context.Context) ([]model.Product, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	// FindDetail loads the product with units and variations.
	FindDetail(ctx context.Context, id uuid.UUID) (*model.Product, error)
	FindBySKU(ctx context.Context, sku string) (*model.Product, error)
	Count(ctx context.Context) (int64, error)
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

func (r *productRepo) WithTx(tx *gorm.DB) ProductRepository {
	return &productRepo{tx}
}

// Associations are written by their own repositories.
func (r *productRepo) Create(ctx context.Context, product *model.Product) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(product).Error
}

func (r *productRepo) Update(ctx context.Context, product *model.Product) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(product).Error
}

// Delete removes the product and everything hanging off it. Children are
// removed explicitly so the result does not depend on ON DELETE support.
func (r *productRepo) Delete(ctx context.Context, id uuid.UUID) error {
	db := r.db.WithContext(ctx)
	variationIDs := db.Model(&model.ProductVariation{}).Select("id").Where("item_id = ?", id)

	if err := db.Where("item_id = ?", id).Delete(&model.Stock{}).Error; err != nil {
		return err
	}
	if err := db.Where("item_variation_id IN (?)", variationIDs).Delete(&model.VariationAttributeValue{}).Error; err != nil {
		return err
	}
	if err := db.Where("item_id = ?", id).Delete(&model.ProductVariation{}).Error; err != nil {
		return err
	}
	if err := db.Where("product_id = ?", id).Delete(&model.ProductUnit{}).Error; err != nil {
		return err
	}
	return db.Delete(&model.Product{}, "id = ?", id).Error
}

func (r *productRepo) FindAll(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).Preload("BaseUnit").Order("name ASC").Find(&products).Error
	return products, err
}

func (r *productRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	var product model.Product
	if err := r.db.WithContext(ctx).Preload("BaseUnit").First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepo) FindDetail(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	var product model.Product
	err := r.db.WithContext(ctx).
		Preload("BaseUnit").
		Preload("Units", func(db *gorm.DB) *gorm.DB { return db.Order("conversion_factor ASC") }).
		Preload("Units.Unit").
		Preload("Variations", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC, sku ASC") }).
		Preload("Variations.AttributeValues.AttributeValue.Attribute").
		First(&product, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepo) FindBySKU(ctx context.Context, sku string) (*model.Product, error) {
	var product model.Product
	if err := r.db.WithContext(ctx).First(&product, "sku = ?", sku).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Product{}).Count(&n).Error
	return n, err
}
