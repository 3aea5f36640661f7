package repository

import (
	"context"
	"strings"

	"go-wholesale-inventory/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StoreRepository interface {
	Create(ctx context.Context, store *model.Store) error
	Update(ctx context.Context, store *model.Store) error
	FindAll(ctx context.Context) ([]model.Store, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Store, error)
	// FindConflicting returns a store other than excludeID using the code or name.
	FindConflicting(ctx context.Context, code, name string, excludeID *uuid.UUID) (*model.Store, error)
	Count(ctx context.Context) (int64, error)
}

type storeRepo struct {
	db *gorm.DB
}

func NewStoreRepo(db *gorm.DB) StoreRepository {
	return &storeRepo{db}
}

func (r *storeRepo) Create(ctx context.Context, store *model.Store) error {
	return r.db.WithContext(ctx).Create(store).Error
}

func (r *storeRepo) Update(ctx context.Context, store *model.Store) error {
	return r.db.WithContext(ctx).Save(store).Error
}

func (r *storeRepo) FindAll(ctx context.Context) ([]model.Store, error) {
	var stores []model.Store
	err := r.db.WithContext(ctx).Order("code ASC").Find(&stores).Error
	return stores, err
}

func (r *storeRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Store, error) {
	var store model.Store
	if err := r.db.WithContext(ctx).First(&store, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &store, nil
}

func (r *storeRepo) FindConflicting(ctx context.Context, code, name string, excludeID *uuid.UUID) (*model.Store, error) {
	var store model.Store
	q := r.db.WithContext(ctx).
		Where("LOWER(code) = ? OR LOWER(name) = ?", strings.ToLower(code), strings.ToLower(name))
	if excludeID != nil {
		q = q.Where("id <> ?", *excludeID)
	}
	if err := q.First(&store).Error; err != nil {
		return nil, err
	}
	return &store, nil
}

func (r *storeRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Store{}).Count(&n).Error
	return n, err
}
