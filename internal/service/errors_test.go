package service

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

func TestTranslate(t *testing.T) {
	tests := []struct {
		name string
		err  error
		dup  error
		want error
	}{
		{"nil", nil, ErrDuplicateName, nil},
		{"not found", gorm.ErrRecordNotFound, nil, ErrNotFound},
		{"duplicate", fmt.Errorf("insert: %w", gorm.ErrDuplicatedKey), ErrDuplicateSKU, ErrDuplicateSKU},
		{"duplicate without meaning", gorm.ErrDuplicatedKey, nil, gorm.ErrDuplicatedKey},
		{"foreign key", gorm.ErrForeignKeyViolated, nil, ErrInUse},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := translate(tt.err, tt.dup); !errors.Is(got, tt.want) {
				t.Errorf("translate = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLookupErrNamesEntity(t *testing.T) {
	id := uuid.New()
	err := lookupErr(gorm.ErrRecordNotFound, "store", id)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
	if want := "not found: store " + id.String(); err.Error() != want {
		t.Errorf("message = %q, want %q", err.Error(), want)
	}
	if lookupErr(nil, "store", id) != nil {
		t.Error("nil error should pass through")
	}
}

func TestReferentialIntegrityErrorIsInUse(t *testing.T) {
	err := fmt.Errorf("delete: %w", &ReferentialIntegrityError{Entity: "unit Pcs", References: 2})
	if !errors.Is(err, ErrInUse) {
		t.Error("ReferentialIntegrityError should match ErrInUse")
	}
}
