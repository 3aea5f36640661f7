// Package testutil provides an in-memory database and event recorder for
// service and handler tests.
package testutil

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"go-wholesale-inventory/internal/model"
	"go-wholesale-inventory/internal/repository"
	"go-wholesale-inventory/internal/ws"
	"go-wholesale-inventory/pkg/database"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var dbSeq atomic.Int64

// SetupTestDB opens a private in-memory SQLite database with foreign keys on
// and the full schema migrated. It is closed when the test ends.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:test_%d?mode=memory&cache=shared&_foreign_keys=on", dbSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), database.GormConfig("silent"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := repository.Migrate(db); err != nil {
		t.Fatalf("Failed to migrate test tables: %v", err)
	}

	t.Cleanup(func() {
		sqlDB.Close()
	})
	return db
}

// Actor is the user stamped on rows written by tests.
func Actor() ws.Actor {
	return ws.Actor{ID: "test-user-001", Name: "Test Admin", Email: "admin@test.com"}
}

// Recorder is a ws.Publisher that keeps every event.
type Recorder struct {
	mu     sync.Mutex
	events []ws.Event
}

func (r *Recorder) Publish(e ws.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *Recorder) Events() []ws.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]ws.Event(nil), r.events...)
}

// Last returns the most recent event of the given type.
func (r *Recorder) Last(eventType string) (ws.Event, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.events) - 1; i >= 0; i-- {
		if r.events[i].Type == eventType {
			return r.events[i], true
		}
	}
	return ws.Event{}, false
}

// SeedUnit creates a unit directly in the database.
func SeedUnit(t *testing.T, db *gorm.DB, name string) *model.Unit {
	t.Helper()
	u := &model.Unit{Name: name}
	u.Stamp("system")
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("Failed to seed unit %s: %v", name, err)
	}
	return u
}

// SeedStore creates an active store.
func SeedStore(t *testing.T, db *gorm.DB, code, name string) *model.Store {
	t.Helper()
	s := &model.Store{Code: code, Name: name, IsActive: true}
	s.Stamp("system")
	if err := db.Create(s).Error; err != nil {
		t.Fatalf("Failed to seed store %s: %v", code, err)
	}
	return s
}

// SeedAttribute creates an attribute with its values.
func SeedAttribute(t *testing.T, db *gorm.DB, name string, values ...string) *model.Attribute {
	t.Helper()
	a := &model.Attribute{Name: name}
	a.Stamp("system")
	for _, v := range values {
		av := model.AttributeValue{Value: v}
		av.Stamp("system")
		a.Values = append(a.Values, av)
	}
	if err := db.Create(a).Error; err != nil {
		t.Fatalf("Failed to seed attribute %s: %v", name, err)
	}
	return a
}

// ValueID returns the id of the named value of a.
func ValueID(t *testing.T, a *model.Attribute, value string) uuid.UUID {
	t.Helper()
	v, ok := a.FindValue(value)
	if !ok {
		t.Fatalf("attribute %s has no value %s", a.Name, value)
	}
	return v.ID
}

// Count returns the number of rows of m.
func Count(t *testing.T, db *gorm.DB, m any) int64 {
	t.Helper()
	var n int64
	if err := db.Model(m).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}
