package repository

import (
	"context"
	"strings"

	"go-wholesale-inventory/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UnitRepository interface {
	Create(ctx context.Context, unit *model.Unit) error
	Update(ctx context.Context, unit *model.Unit) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindAll(ctx context.Context) ([]model.Unit, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Unit, error)
	FindByName(ctx context.Context, name string) (*model.Unit, error)
	// CountReferences counts products and product unit rows pointing at the unit.
	CountReferences(ctx context.Context, id uuid.UUID) (int64, error)
}

type unitRepo struct {
	db *gorm.DB
}

func NewUnitRepo(db *gorm.DB) UnitRepository {
	return &unitRepo{db}
}

func (r *unitRepo) Create(ctx context.Context, unit *model.Unit) error {
	return r.db.WithContext(ctx).Create(unit).Error
}

func (r *unitRepo) Update(ctx context.Context, unit *model.Unit) error {
	return r.db.WithContext(ctx).Save(unit).Error
}

func (r *unitRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Unit{}, "id = ?", id).Error
}

func (r *unitRepo) FindAll(ctx context.Context) ([]model.Unit, error) {
	var units []model.Unit
	err := r.db.WithContext(ctx).Order("name ASC").Find(&units).Error
	return units, err
}

func (r *unitRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Unit, error) {
	var unit model.Unit
	if err := r.db.WithContext(ctx).First(&unit, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &unit, nil
}

func (r *unitRepo) FindByName(ctx context.Context, name string) (*model.Unit, error) {
	var unit model.Unit
	err := r.db.WithContext(ctx).
		Where("LOWER(name) = ?", strings.ToLower(strings.TrimSpace(name))).
		First(&unit).Error
	if err != nil {
		return nil, err
	}
	return &unit, nil
}

func (r *unitRepo) CountReferences(ctx context.Context, id uuid.UUID) (int64, error) {
	db := r.db.WithContext(ctx)

	var products int64
	if err := db.Model(&model.Product{}).Where("base_unit_id = ?", id).Count(&products).Error; err != nil {
		return 0, err
	}

	var configs int64
	if err := db.Model(&model.ProductUnit{}).
		Where("unit_id = ? OR base_unit_id = ?", id, id).
		Count(&configs).Error; err != nil {
		return 0, err
	}
	return products + configs, nil
}
