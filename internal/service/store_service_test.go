package service

import (
	"errors"
	"testing"

	"go-wholesale-inventory/internal/testutil"
)

func TestStoreService(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()

	jkt, err := f.stores.Create(ctx, &StoreRequest{Code: " jkt01 ", Name: "Jakarta"}, testutil.Actor())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if jkt.Code != "JKT01" || !jkt.IsActive {
		t.Errorf("store = %+v", jkt)
	}
	if _, err := f.stores.Create(ctx, &StoreRequest{Code: "JKT01", Name: "Other"}, testutil.Actor()); !errors.Is(err, ErrDuplicateName) {
		t.Errorf("duplicate code: got %v", err)
	}
	if _, err := f.stores.Create(ctx, &StoreRequest{Code: "BDG", Name: "jakarta"}, testutil.Actor()); !errors.Is(err, ErrDuplicateName) {
		t.Errorf("duplicate name ignoring case: got %v", err)
	}

	inactive := false
	updated, err := f.stores.Update(ctx, jkt.ID, &StoreRequest{Code: "JKT01", Name: "Jakarta Pusat", IsActive: &inactive}, testutil.Actor())
	if err != nil {
		t.Fatalf("update own code: %v", err)
	}
	if updated.Name != "Jakarta Pusat" || updated.IsActive {
		t.Errorf("updated = %+v", updated)
	}

	stores, err := f.stores.List(ctx)
	if err != nil || len(stores) != 1 {
		t.Fatalf("list = %d, %v", len(stores), err)
	}
}
