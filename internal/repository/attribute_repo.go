package repository

import (
	"context"
	"strings"

	"go-wholesale-inventory/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AttributeRepository interface {
	Create(ctx context.Context, attr *model.Attribute) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindAll(ctx context.Context) ([]model.Attribute, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Attribute, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Attribute, error)
	FindByName(ctx context.Context, name string) (*model.Attribute, error)

	AddValue(ctx context.Context, value *model.AttributeValue) error
	DeleteValue(ctx context.Context, id uuid.UUID) error
	FindValue(ctx context.Context, id uuid.UUID) (*model.AttributeValue, error)

	// CountVariationLinks counts variation links to the given values.
	CountVariationLinks(ctx context.Context, valueIDs ...uuid.UUID) (int64, error)
}

type attributeRepo struct {
	db *gorm.DB
}

func NewAttributeRepo(db *gorm.DB) AttributeRepository {
	return &attributeRepo{db}
}

func orderedValues(db *gorm.DB) *gorm.DB {
	return db.Order("attribute_values.created_at ASC, attribute_values.value ASC")
}

// Create inserts the attribute together with its Values.
func (r *attributeRepo) Create(ctx context.Context, attr *model.Attribute) error {
	return r.db.WithContext(ctx).Create(attr).Error
}

func (r *attributeRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&model.AttributeValue{}, "attribute_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Attribute{}, "id = ?", id).Error
	})
}

func (r *attributeRepo) FindAll(ctx context.Context) ([]model.Attribute, error) {
	var attrs []model.Attribute
	err := r.db.WithContext(ctx).Preload("Values", orderedValues).Order("name ASC").Find(&attrs).Error
	return attrs, err
}

func (r *attributeRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Attribute, error) {
	var attr model.Attribute
	if err := r.db.WithContext(ctx).Preload("Values", orderedValues).First(&attr, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &attr, nil
}

func (r *attributeRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Attribute, error) {
	var attrs []model.Attribute
	if len(ids) == 0 {
		return attrs, nil
	}
	err := r.db.WithContext(ctx).Preload("Values", orderedValues).Where("id IN ?", ids).Find(&attrs).Error
	return attrs, err
}

func (r *attributeRepo) FindByName(ctx context.Context, name string) (*model.Attribute, error) {
	var attr model.Attribute
	err := r.db.WithContext(ctx).
		Where("LOWER(name) = ?", strings.ToLower(strings.TrimSpace(name))).
		First(&attr).Error
	if err != nil {
		return nil, err
	}
	return &attr, nil
}

func (r *attributeRepo) AddValue(ctx context.Context, value *model.AttributeValue) error {
	return r.db.WithContext(ctx).Omit("Attribute").Create(value).Error
}

func (r *attributeRepo) DeleteValue(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.AttributeValue{}, "id = ?", id).Error
}

func (r *attributeRepo) FindValue(ctx context.Context, id uuid.UUID) (*model.AttributeValue, error) {
	var value model.AttributeValue
	if err := r.db.WithContext(ctx).Preload("Attribute").First(&value, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &value, nil
}

func (r *attributeRepo) CountVariationLinks(ctx context.Context, valueIDs ...uuid.UUID) (int64, error) {
	var count int64
	if len(valueIDs) == 0 {
		return 0, nil
	}
	err := r.db.WithContext(ctx).Model(&model.VariationAttributeValue{}).
		Where("attribute_value_id IN ?", valueIDs).
		Count(&count).Error
	return count, err
}
