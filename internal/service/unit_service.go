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

type UnitRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

type UnitService interface {
	Create(ctx context.Context, req *UnitRequest, actor ws.Actor) (*model.Unit, error)
	Rename(ctx context.Context, id uuid.UUID, req *UnitRequest, actor ws.Actor) (*model.Unit, error)
	List(ctx context.Context) ([]model.Unit, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Unit, error)
	Delete(ctx context.Context, id uuid.UUID, actor ws.Actor) error
}

type unitService struct {
	unitRepo repository.UnitRepository
	events   ws.Publisher
	log      *zap.Logger
}

func NewUnitService(unitRepo repository.UnitRepository, events ws.Publisher, log *zap.Logger) UnitService {
	return &unitService{unitRepo: unitRepo, events: events, log: log.Named("unit")}
}

func (s *unitService) checkName(ctx context.Context, name string, self uuid.UUID) error {
	existing, err := s.unitRepo.FindByName(ctx, name)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if existing.ID != self {
		return ErrDuplicateName
	}
	return nil
}

func (s *unitService) Create(ctx context.Context, req *UnitRequest, actor ws.Actor) (*model.Unit, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := validate(req); err != nil {
		return nil, err
	}
	if err := s.checkName(ctx, req.Name, uuid.Nil); err != nil {
		return nil, err
	}

	unit := &model.Unit{Name: req.Name}
	unit.Stamp(actor.ID)
	if err := s.unitRepo.Create(ctx, unit); err != nil {
		return nil, translate(err, ErrDuplicateName)
	}

	s.log.Info("unit created", zap.String("unit_id", unit.ID.String()), zap.String("name", unit.Name))
	s.events.Publish(ws.Event{Type: ws.EventCatalogUpdate, Action: "unit_created", Data: unit, User: &actor})
	return unit, nil
}

func (s *unitService) Rename(ctx context.Context, id uuid.UUID, req *UnitRequest, actor ws.Actor) (*model.Unit, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := validate(req); err != nil {
		return nil, err
	}
	unit, err := s.unitRepo.FindByID(ctx, id)
	if err != nil {
		return nil, translate(err, ErrDuplicateName)
	}
	if err := s.checkName(ctx, req.Name, id); err != nil {
		return nil, err
	}

	unit.Name = req.Name
	unit.UpdatedBy = actor.ID
	if err := s.unitRepo.Update(ctx, unit); err != nil {
		return nil, translate(err, ErrDuplicateName)
	}
	s.events.Publish(ws.Event{Type: ws.EventCatalogUpdate, Action: "unit_updated", Data: unit, User: &actor})
	return unit, nil
}

func (s *unitService) List(ctx context.Context) ([]model.Unit, error) {
	return s.unitRepo.FindAll(ctx)
}

func (s *unitService) Get(ctx context.Context, id uuid.UUID) (*model.Unit, error) {
	unit, err := s.unitRepo.FindByID(ctx, id)
	if err != nil {
		return nil, translate(err, nil)
	}
	return unit, nil
}

// Delete refuses to remove a unit that any product or configuration uses.
func (s *unitService) Delete(ctx context.Context, id uuid.UUID, actor ws.Actor) error {
	unit, err := s.unitRepo.FindByID(ctx, id)
	if err != nil {
		return translate(err, nil)
	}
	refs, err := s.unitRepo.CountReferences(ctx, id)
	if err != nil {
		return err
	}
	if refs > 0 {
		return &ReferentialIntegrityError{Entity: "unit " + unit.Name, References: refs}
	}
	if err := s.unitRepo.Delete(ctx, id); err != nil {
		return translate(err, nil)
	}

	s.log.Info("unit deleted", zap.String("unit_id", id.String()))
	s.events.Publish(ws.Event{Type: ws.EventCatalogUpdate, Action: "unit_deleted", Data: idData(id), User: &actor})
	return nil
}
