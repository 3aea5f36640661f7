package service

import (
	"context"
	"errors"
	"strings"

	"go-wholesale-inventory/internal/model"
	"go-wholesale-inventory/internal/repository"
	"go-wholesale-inventory/internal/ws"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type StoreRequest struct {
	Code     string `json:"code" validate:"required,max=20"`
	Name     string `json:"name" validate:"required,max=255"`
	Address  string `json:"address"`
	IsActive *bool  `json:"is_active"`
}

type StoreService interface {
	Create(ctx context.Context, req *StoreRequest, actor ws.Actor) (*model.Store, error)
	Update(ctx context.Context, id uuid.UUID, req *StoreRequest, actor ws.Actor) (*model.Store, error)
	List(ctx context.Context) ([]model.Store, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Store, error)
}

type storeService struct {
	storeRepo repository.StoreRepository
	events    ws.Publisher
	log       *zap.Logger
}

func NewStoreService(storeRepo repository.StoreRepository, events ws.Publisher, log *zap.Logger) StoreService {
	return &storeService{storeRepo: storeRepo, events: events, log: log.Named("store")}
}

func (r *StoreRequest) normalize() {
	r.Code = strings.ToUpper(strings.TrimSpace(r.Code))
	r.Name = strings.TrimSpace(r.Name)
	r.Address = strings.TrimSpace(r.Address)
}

func (s *storeService) checkUnique(ctx context.Context, req *StoreRequest, self *uuid.UUID) error {
	_, err := s.storeRepo.FindConflicting(ctx, req.Code, req.Name, self)
	if err == nil {
		return ErrDuplicateName
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	return err
}

func (s *storeService) Create(ctx context.Context, req *StoreRequest, actor ws.Actor) (*model.Store, error) {
	req.normalize()
	if err := validate(req); err != nil {
		return nil, err
	}
	if err := s.checkUnique(ctx, req, nil); err != nil {
		return nil, err
	}

	store := &model.Store{Code: req.Code, Name: req.Name, Address: req.Address, IsActive: boolOr(req.IsActive, true)}
	store.Stamp(actor.ID)
	if err := s.storeRepo.Create(ctx, store); err != nil {
		return nil, translate(err, ErrDuplicateName)
	}
	s.log.Info("store created", zap.String("store_id", store.ID.String()), zap.String("code", store.Code))
	s.events.Publish(ws.Event{Type: ws.EventCatalogUpdate, Action: "store_created", Data: store, User: &actor})
	return store, nil
}

func (s *storeService) Update(ctx context.Context, id uuid.UUID, req *StoreRequest, actor ws.Actor) (*model.Store, error) {
	req.normalize()
	if err := validate(req); err != nil {
		return nil, err
	}
	store, err := s.storeRepo.FindByID(ctx, id)
	if err != nil {
		return nil, translate(err, nil)
	}
	if err := s.checkUnique(ctx, req, &id); err != nil {
		return nil, err
	}

	store.Code = req.Code
	store.Name = req.Name
	store.Address = req.Address
	store.IsActive = boolOr(req.IsActive, store.IsActive)
	store.UpdatedBy = actor.ID
	if err := s.storeRepo.Update(ctx, store); err != nil {
		return nil, translate(err, ErrDuplicateName)
	}
	s.events.Publish(ws.Event{Type: ws.EventCatalogUpdate, Action: "store_updated", Data: store, User: &actor})
	return store, nil
}

func (s *storeService) List(ctx context.Context) ([]model.Store, error) {
	return s.storeRepo.FindAll(ctx)
}

func (s *storeService) Get(ctx context.Context, id uuid.UUID) (*model.Store, error) {
	store, err := s.storeRepo.FindByID(ctx, id)
	if err != nil {
		return nil, translate(err, nil)
	}
	return store, nil
}
