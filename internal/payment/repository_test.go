package payment

import (
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/rentora/rentora/internal/db"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	d, err := db.Open(path)
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() {
		if err := d.Close(); err != nil {
			t.Errorf("close test db: %v", err)
		}
	})
	return d
}

func insertTestUser(t *testing.T, d *sql.DB, name, email, role string) string {
	t.Helper()
	id := uuid.NewString()
	if _, err := d.Exec(
		"INSERT INTO users (id, name, email, password_hash, role, phone) VALUES (?, ?, ?, ?, ?, ?)",
		id, name, email, "hash", role, "555-0100",
	); err != nil {
		t.Fatalf("insert test user: %v", err)
	}
	return id
}

func insertTestProperty(t *testing.T, d *sql.DB, ownerID, title string) string {
	t.Helper()
	id := uuid.NewString()
	if _, err := d.Exec(
		`INSERT INTO properties (id, owner_id, title, description, location, rent, rooms, bathrooms)
			VALUES (?, ?, ?, 'desc', 'Springfield', 1200, 2, 1)`,
		id, ownerID, title,
	); err != nil {
		t.Fatalf("insert test property: %v", err)
	}
	return id
}

type testFixture struct {
	db         *sql.DB
	repo       *Repository
	ownerID    string
	tenantID   string
	propertyID string
}

func newFixture(t *testing.T) *testFixture {
	t.Helper()
	d := openTestDB(t)
	owner := insertTestUser(t, d, "Alice", "alice@example.com", "owner")
	tenant := insertTestUser(t, d, "Bob", "bob@example.com", "tenant")
	prop := insertTestProperty(t, d, owner, "Cozy Flat")
	return &testFixture{
		db:         d,
		repo:       NewRepository(d),
		ownerID:    owner,
		tenantID:   tenant,
		propertyID: prop,
	}
}

func (f *testFixture) newPayment(intentID string) *Payment {
	return &Payment{
		TenantID:        f.tenantID,
		PropertyID:      f.propertyID,
		OwnerID:         f.ownerID,
		Amount:          1200,
		PaymentIntentID: intentID,
		DueDate:         time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		Month:           "September",
		Year:            2026,
	}
}

func TestInsertAndGet(t *testing.T) {
	f := newFixture(t)

	created, err := f.repo.Insert(f.newPayment("pi_test_1"))
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	if created.ID == "" {
		t.Error("expected generated id")
	}
	if created.Status != StatusPending {
		t.Errorf("status = %q, want pending", created.Status)
	}
	if created.PaymentDate.IsZero() {
		t.Error("expected payment date to default to now")
	}
	if created.Property == nil || created.Property.Title != "Cozy Flat" {
		t.Errorf("property projection = %+v", created.Property)
	}
	if created.Tenant == nil || created.Tenant.Name != "Bob" {
		t.Errorf("tenant projection = %+v", created.Tenant)
	}
}

func TestInsertValidation(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name   string
		mutate func(*Payment)
	}{
		{"missing property", func(p *Payment) { p.PropertyID = "" }},
		{"missing owner", func(p *Payment) { p.OwnerID = "" }},
		{"negative amount", func(p *Payment) { p.Amount = -1 }},
		{"missing intent", func(p *Payment) { p.PaymentIntentID = "" }},
		{"missing month", func(p *Payment) { p.Month = "" }},
		{"missing year", func(p *Payment) { p.Year = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := f.newPayment("pi_test")
			tt.mutate(p)
			if _, err := f.repo.Insert(p); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}

func TestListScoping(t *testing.T) {
	f := newFixture(t)
	otherTenant := insertTestUser(t, f.db, "Carol", "carol@example.com", "tenant")

	if _, err := f.repo.Insert(f.newPayment("pi_1")); err != nil {
		t.Fatalf("insert: %v", err)
	}
	other := f.newPayment("pi_2")
	other.TenantID = otherTenant
	if _, err := f.repo.Insert(other); err != nil {
		t.Fatalf("insert other: %v", err)
	}

	got, err := f.repo.List(Filter{TenantID: f.tenantID})
	if err != nil {
		t.Fatalf("list by tenant: %v", err)
	}
	if len(got) != 1 || got[0].TenantID != f.tenantID {
		t.Errorf("tenant scope: got %d payments", len(got))
	}

	got, err = f.repo.List(Filter{OwnerID: f.ownerID})
	if err != nil {
		t.Fatalf("list by owner: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("owner scope: got %d payments, want 2", len(got))
	}
}

func TestListNewestPaymentFirst(t *testing.T) {
	f := newFixture(t)

	// Same-second inserts must come back in reverse payment order.
	var ids []string
	for i := 0; i < 5; i++ {
		created, err := f.repo.Insert(f.newPayment(fmt.Sprintf("pi_%d", i)))
		if err != nil {
			t.Fatalf("insert %d: %v", i, err)
		}
		ids = append(ids, created.ID)
	}

	got, err := f.repo.List(Filter{TenantID: f.tenantID})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 5 {
		t.Fatalf("got %d payments, want 5", len(got))
	}
	for i, p := range got {
		if want := ids[4-i]; p.ID != want {
			t.Errorf("position %d: got %q, want %q", i, p.ID, want)
		}
	}
}

func TestMarkCompletedByIntent(t *testing.T) {
	f := newFixture(t)

	created, err := f.repo.Insert(f.newPayment("pi_complete_me"))
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	untouched, err := f.repo.Insert(f.newPayment("pi_leave_me"))
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	if err := f.repo.MarkCompletedByIntent("pi_complete_me"); err != nil {
		t.Fatalf("mark completed: %v", err)
	}

	got, err := f.repo.GetByID(created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != StatusCompleted {
		t.Errorf("status = %q, want completed", got.Status)
	}

	got, err = f.repo.GetByID(untouched.ID)
	if err != nil {
		t.Fatalf("get untouched: %v", err)
	}
	if got.Status != StatusPending {
		t.Errorf("untouched status = %q, want pending", got.Status)
	}

	if err := f.repo.MarkCompletedByIntent("pi_unknown"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestListPending(t *testing.T) {
	f := newFixture(t)

	pending, err := f.repo.Insert(f.newPayment("pi_pending"))
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if _, err := f.repo.Insert(f.newPayment("pi_done")); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := f.repo.MarkCompletedByIntent("pi_done"); err != nil {
		t.Fatalf("mark completed: %v", err)
	}

	got, err := f.repo.ListPending()
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if len(got) != 1 || got[0].ID != pending.ID {
		t.Errorf("got %d pending payments", len(got))
	}
}
