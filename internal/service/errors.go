package service

import (
	"errors"
	"fmt"

	"go-wholesale-inventory/pkg/validator"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrNotFound                     = errors.New("not found")
	ErrDuplicateName                = errors.New("name already exists")
	ErrDuplicateConfiguration       = errors.New("unit is already configured for this product")
	ErrDuplicateSKU                 = errors.New("SKU already exists")
	ErrInUse                        = errors.New("record is still referenced")
	ErrMissingBaseUnitConfiguration = errors.New("product must have a configuration for its base unit with conversion factor 1")
	ErrBaseUnitRemovalForbidden     = errors.New("the base unit configuration cannot be removed")
	ErrInsufficientStock            = errors.New("insufficient stock")
)

// ValidationError reports a rejected input field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation failed: " + e.Reason
	}
	return fmt.Sprintf("validation failed: %s %s", e.Field, e.Reason)
}

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// DuplicateSkuError names the first SKU that occurs twice in a submitted batch.
type DuplicateSkuError struct {
	SKU string
}

func (e *DuplicateSkuError) Error() string {
	return fmt.Sprintf("duplicate SKU %q in variations", e.SKU)
}

// ReferentialIntegrityError is returned when a delete would orphan rows.
// It matches ErrInUse with errors.Is.
type ReferentialIntegrityError struct {
	Entity     string
	References int64
}

func (e *ReferentialIntegrityError) Error() string {
	return fmt.Sprintf("%s is referenced by %d record(s)", e.Entity, e.References)
}

func (e *ReferentialIntegrityError) Is(target error) bool {
	return target == ErrInUse
}

func validate(req any) error {
	if r := validator.First(req); r != nil {
		return &ValidationError{Field: r.FailedField, Reason: "failed on '" + r.Tag + "'"}
	}
	return nil
}

// translate maps GORM errors to service errors. dup is returned for unique
// violations so callers pick the meaning of the collision.
func translate(err, dup error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey) && dup != nil:
		return dup
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return ErrInUse
	}
	return err
}

// lookupErr names the missing entity when a lookup finds nothing.
func lookupErr(err error, entity string, id uuid.UUID) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %s %s", ErrNotFound, entity, id)
	}
	return err
}
