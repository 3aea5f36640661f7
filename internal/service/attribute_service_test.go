package service

import (
	"errors"
	"testing"

	"go-wholesale-inventory/internal/testutil"
)

func TestAttributeService_Create(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()

	attr, err := f.attributes.Create(ctx, &AttributeRequest{
		Name:   "Color",
		Values: []string{" Red", "Blue", "", "Red"},
	}, testutil.Actor())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if len(attr.Values) != 2 {
		t.Fatalf("values = %d, want 2 (trimmed, blanks and repeats dropped)", len(attr.Values))
	}
	if _, err := f.attributes.Create(ctx, &AttributeRequest{Name: "Color"}, testutil.Actor()); !errors.Is(err, ErrDuplicateName) {
		t.Errorf("duplicate: got %v, want ErrDuplicateName", err)
	}

	got, err := f.attributes.Get(ctx, attr.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if _, ok := got.FindValue("Blue"); !ok {
		t.Error("Blue missing after reload")
	}
}

func TestAttributeService_Values(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()
	attr := testutil.SeedAttribute(t, f.db, "Size", "S")

	v, err := f.attributes.AddValue(ctx, attr.ID, &AttributeValueRequest{Value: "M"}, testutil.Actor())
	if err != nil {
		t.Fatalf("add value: %v", err)
	}
	if _, err := f.attributes.AddValue(ctx, attr.ID, &AttributeValueRequest{Value: "M"}, testutil.Actor()); !errors.Is(err, ErrDuplicateName) {
		t.Errorf("repeat value: got %v, want ErrDuplicateName", err)
	}

	other := testutil.SeedAttribute(t, f.db, "Other")
	if err := f.attributes.DeleteValue(ctx, other.ID, v.ID, testutil.Actor()); !errors.Is(err, ErrNotFound) {
		t.Errorf("delete through wrong attribute: got %v, want ErrNotFound", err)
	}
	if err := f.attributes.DeleteValue(ctx, attr.ID, v.ID, testutil.Actor()); err != nil {
		t.Fatalf("delete value: %v", err)
	}
}

func TestAttributeService_DeleteInUse(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()
	_, size := f.variableProduct(t, "Shirt", "SHIRT", "S", "M")

	if err := f.attributes.Delete(ctx, size.ID, testutil.Actor()); !errors.Is(err, ErrInUse) {
		t.Fatalf("delete attribute in use: got %v, want ErrInUse", err)
	}
	if err := f.attributes.DeleteValue(ctx, size.ID, testutil.ValueID(t, size, "S"), testutil.Actor()); !errors.Is(err, ErrInUse) {
		t.Errorf("delete value in use: got %v, want ErrInUse", err)
	}

	unused := testutil.SeedAttribute(t, f.db, "Material", "Cotton")
	if err := f.attributes.Delete(ctx, unused.ID, testutil.Actor()); err != nil {
		t.Fatalf("delete unused: %v", err)
	}
	if _, err := f.attributes.Get(ctx, unused.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("get deleted: got %v", err)
	}
}
