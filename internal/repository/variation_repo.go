package repository

import (
	"context"

	"go-wholesale-inventory/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type VariationRepository interface {
	WithTx(tx *gorm.DB) VariationRepository
	// Create inserts the variation and links it to the given attribute values.
	Create(ctx context.Context, v *model.ProductVariation, valueIDs []uuid.UUID) error
	Update(ctx context.Context, v *model.ProductVariation) error
	ReplaceLinks(ctx context.Context, variationID uuid.UUID, valueIDs []uuid.UUID) error
	Delete(ctx context.Context, ids ...uuid.UUID) error
	DeleteByProduct(ctx context.Context, productID uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.ProductVariation, error)
	FindByProduct(ctx context.Context, productID uuid.UUID) ([]model.ProductVariation, error)
	FindBySKUs(ctx context.Context, skus []string) ([]model.ProductVariation, error)
	Count(ctx context.Context) (int64, error)
}

type variationRepo struct {
	db *gorm.DB
}

func NewVariationRepo(db *gorm.DB) VariationRepository {
	return &variationRepo{db}
}

func (r *variationRepo) WithTx(tx *gorm.DB) VariationRepository {
	return &variationRepo{tx}
}

func withCombination(db *gorm.DB) *gorm.DB {
	return db.Preload("AttributeValues.AttributeValue.Attribute")
}

func links(variationID uuid.UUID, valueIDs []uuid.UUID) []model.VariationAttributeValue {
	out := make([]model.VariationAttributeValue, len(valueIDs))
	for i, id := range valueIDs {
		out[i] = model.VariationAttributeValue{ItemVariationID: variationID, AttributeValueID: id}
	}
	return out
}

func (r *variationRepo) Create(ctx context.Context, v *model.ProductVariation, valueIDs []uuid.UUID) error {
	db := r.db.WithContext(ctx)
	if err := db.Omit("AttributeValues").Create(v).Error; err != nil {
		return err
	}
	if len(valueIDs) == 0 {
		return nil
	}
	return db.Omit("AttributeValue").Create(links(v.ID, valueIDs)).Error
}

func (r *variationRepo) Update(ctx context.Context, v *model.ProductVariation) error {
	return r.db.WithContext(ctx).Omit("AttributeValues").Save(v).Error
}

func (r *variationRepo) ReplaceLinks(ctx context.Context, variationID uuid.UUID, valueIDs []uuid.UUID) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("item_variation_id = ?", variationID).Delete(&model.VariationAttributeValue{}).Error; err != nil {
		return err
	}
	if len(valueIDs) == 0 {
		return nil
	}
	return db.Omit("AttributeValue").Create(links(variationID, valueIDs)).Error
}

func (r *variationRepo) Delete(ctx context.Context, ids ...uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	db := r.db.WithContext(ctx)
	if err := db.Where("item_variation_id IN ?", ids).Delete(&model.Stock{}).Error; err != nil {
		return err
	}
	if err := db.Where("item_variation_id IN ?", ids).Delete(&model.VariationAttributeValue{}).Error; err != nil {
		return err
	}
	return db.Where("id IN ?", ids).Delete(&model.ProductVariation{}).Error
}

func (r *variationRepo) DeleteByProduct(ctx context.Context, productID uuid.UUID) error {
	var ids []uuid.UUID
	if err := r.db.WithContext(ctx).Model(&model.ProductVariation{}).
		Where("item_id = ?", productID).
		Pluck("id", &ids).Error; err != nil {
		return err
	}
	return r.Delete(ctx, ids...)
}

func (r *variationRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.ProductVariation, error) {
	var v model.ProductVariation
	if err := withCombination(r.db.WithContext(ctx)).First(&v, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *variationRepo) FindByProduct(ctx context.Context, productID uuid.UUID) ([]model.ProductVariation, error) {
	var vs []model.ProductVariation
	err := withCombination(r.db.WithContext(ctx)).
		Where("item_id = ?", productID).
		Order("created_at ASC, sku ASC").
		Find(&vs).Error
	return vs, err
}

func (r *variationRepo) FindBySKUs(ctx context.Context, skus []string) ([]model.ProductVariation, error) {
	var vs []model.ProductVariation
	if len(skus) == 0 {
		return vs, nil
	}
	err := r.db.WithContext(ctx).Where("sku IN ?", skus).Find(&vs).Error
	return vs, err
}

func (r *variationRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.ProductVariation{}).Count(&n).Error
	return n, err
}
