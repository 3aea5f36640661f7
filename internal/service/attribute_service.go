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

type AttributeRequest struct {
	Name   string   `json:"name" validate:"required,max=100"`
	Values []string `json:"values" validate:"dive,max=100"`
}

type AttributeValueRequest struct {
	Value string `json:"value" validate:"required,max=100"`
}

type AttributeService interface {
	Create(ctx context.Context, req *AttributeRequest, actor ws.Actor) (*model.Attribute, error)
	List(ctx context.Context) ([]model.Attribute, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Attribute, error)
	Delete(ctx context.Context, id uuid.UUID, actor ws.Actor) error
	AddValue(ctx context.Context, attributeID uuid.UUID, req *AttributeValueRequest, actor ws.Actor) (*model.AttributeValue, error)
	DeleteValue(ctx context.Context, attributeID, valueID uuid.UUID, actor ws.Actor) error
}

type attributeService struct {
	attrRepo repository.AttributeRepository
	events   ws.Publisher
	log      *zap.Logger
}

func NewAttributeService(attrRepo repository.AttributeRepository, events ws.Publisher, log *zap.Logger) AttributeService {
	return &attributeService{attrRepo: attrRepo, events: events, log: log.Named("attribute")}
}

// cleanValues trims, drops blanks and removes repeats, keeping first occurrence order.
func cleanValues(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func (s *attributeService) Create(ctx context.Context, req *AttributeRequest, actor ws.Actor) (*model.Attribute, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Values = cleanValues(req.Values)
	if err := validate(req); err != nil {
		return nil, err
	}
	if _, err := s.attrRepo.FindByName(ctx, req.Name); err == nil {
		return nil, ErrDuplicateName
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	attr := &model.Attribute{Name: req.Name}
	attr.Stamp(actor.ID)
	for _, v := range req.Values {
		value := model.AttributeValue{Value: v}
		value.Stamp(actor.ID)
		attr.Values = append(attr.Values, value)
	}
	if err := s.attrRepo.Create(ctx, attr); err != nil {
		return nil, translate(err, ErrDuplicateName)
	}

	s.log.Info("attribute created", zap.String("attribute_id", attr.ID.String()), zap.Int("values", len(attr.Values)))
	s.events.Publish(ws.Event{Type: ws.EventCatalogUpdate, Action: "attribute_created", Data: attr, User: &actor})
	return attr, nil
}

func (s *attributeService) List(ctx context.Context) ([]model.Attribute, error) {
	return s.attrRepo.FindAll(ctx)
}

func (s *attributeService) Get(ctx context.Context, id uuid.UUID) (*model.Attribute, error) {
	attr, err := s.attrRepo.FindByID(ctx, id)
	if err != nil {
		return nil, translate(err, nil)
	}
	return attr, nil
}

// Delete removes the attribute and its values unless a variation uses one of them.
func (s *attributeService) Delete(ctx context.Context, id uuid.UUID, actor ws.Actor) error {
	attr, err := s.attrRepo.FindByID(ctx, id)
	if err != nil {
		return translate(err, nil)
	}
	ids := make([]uuid.UUID, len(attr.Values))
	for i, v := range attr.Values {
		ids[i] = v.ID
	}
	links, err := s.attrRepo.CountVariationLinks(ctx, ids...)
	if err != nil {
		return err
	}
	if links > 0 {
		return &ReferentialIntegrityError{Entity: "attribute " + attr.Name, References: links}
	}
	if err := s.attrRepo.Delete(ctx, id); err != nil {
		return translate(err, nil)
	}
	s.events.Publish(ws.Event{Type: ws.EventCatalogUpdate, Action: "attribute_deleted", Data: idData(id), User: &actor})
	return nil
}

func (s *attributeService) AddValue(ctx context.Context, attributeID uuid.UUID, req *AttributeValueRequest, actor ws.Actor) (*model.AttributeValue, error) {
	req.Value = strings.TrimSpace(req.Value)
	if err := validate(req); err != nil {
		return nil, err
	}
	attr, err := s.attrRepo.FindByID(ctx, attributeID)
	if err != nil {
		return nil, translate(err, nil)
	}
	if _, ok := attr.FindValue(req.Value); ok {
		return nil, ErrDuplicateName
	}

	value := &model.AttributeValue{AttributeID: attributeID, Value: req.Value}
	value.Stamp(actor.ID)
	if err := s.attrRepo.AddValue(ctx, value); err != nil {
		return nil, translate(err, ErrDuplicateName)
	}
	s.events.Publish(ws.Event{Type: ws.EventCatalogUpdate, Action: "attribute_value_added", Data: value, User: &actor})
	return value, nil
}

func (s *attributeService) DeleteValue(ctx context.Context, attributeID, valueID uuid.UUID, actor ws.Actor) error {
	value, err := s.attrRepo.FindValue(ctx, valueID)
	if err != nil {
		return translate(err, nil)
	}
	if value.AttributeID != attributeID {
		return ErrNotFound
	}
	links, err := s.attrRepo.CountVariationLinks(ctx, valueID)
	if err != nil {
		return err
	}
	if links > 0 {
		return &ReferentialIntegrityError{Entity: "attribute value " + value.Value, References: links}
	}
	if err := s.attrRepo.DeleteValue(ctx, valueID); err != nil {
		return translate(err, nil)
	}
	s.events.Publish(ws.Event{Type: ws.EventCatalogUpdate, Action: "attribute_value_deleted", Data: idData(valueID), User: &actor})
	return nil
}
