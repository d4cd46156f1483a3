package payment

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when no payment matches the query predicate.
var ErrNotFound = errors.New("payment not found")

// Repository provides operations for rent payments.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a payment repository.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const selectFrom = `y.id, y.tenant_id, y.property_id, y.owner_id,
	y.amount, y.payment_intent_id, y.status,
	y.payment_date, y.due_date, y.month, y.year,
	p.title, p.location,
	t.name, t.email
	FROM payments y
	JOIN properties p ON p.id = y.property_id
	JOIN users t ON t.id = y.tenant_id`

// Insert adds a new pending payment and returns it with its joins.
func (r *Repository) Insert(p *Payment) (*Payment, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	// Payment time is stored explicitly: CURRENT_TIMESTAMP has only
	// one-second resolution, not enough to order same-second inserts.
	id := uuid.NewString()
	if _, err := r.db.Exec(
		`INSERT INTO payments (id, tenant_id, property_id, owner_id, amount, payment_intent_id, status, payment_date, due_date, month, year)
			VALUES (?, ?, ?, ?, ?, ?, 'pending', ?, ?, ?, ?)`,
		id, p.TenantID, p.PropertyID, p.OwnerID,
		p.Amount, p.PaymentIntentID, time.Now().UTC(), p.DueDate, p.Month, p.Year,
	); err != nil {
		return nil, fmt.Errorf("inserting payment: %w", err)
	}

	return r.GetByID(id)
}

// GetByID returns a payment by its ID with joined projections.
func (r *Repository) GetByID(id string) (*Payment, error) {
	row := r.db.QueryRow("SELECT "+selectFrom+" WHERE y.id = ?", id)

	p, err := scanPayment(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying payment %s: %w", id, err)
	}
	return p, nil
}

// Filter scopes a payment listing. Exactly one of OwnerID or TenantID
// is set by the caller, depending on the caller's role.
type Filter struct {
	OwnerID  string
	TenantID string
}

// List returns payments matching the filter, newest payment date first.
func (r *Repository) List(f Filter) ([]*Payment, error) {
	query := "SELECT " + selectFrom
	var args []interface{}
	var conditions []string

	if f.OwnerID != "" {
		conditions = append(conditions, "y.owner_id = ?")
		args = append(args, f.OwnerID)
	}
	if f.TenantID != "" {
		conditions = append(conditions, "y.tenant_id = ?")
		args = append(args, f.TenantID)
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY y.payment_date DESC, y.id"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing payments: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			err = fmt.Errorf("closing rows: %w", closeErr)
		}
	}()

	payments := []*Payment{}
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning payment: %w", err)
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

// MarkCompletedByIntent transitions the payment referencing the given
// processor intent id to completed. Returns ErrNotFound when no local
// payment references that intent.
func (r *Repository) MarkCompletedByIntent(intentID string) error {
	result, err := r.db.Exec(
		"UPDATE payments SET status = 'completed' WHERE payment_intent_id = ?", intentID,
	)
	if err != nil {
		return fmt.Errorf("updating payment: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking affected rows: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListPending returns pending payments with their joins, oldest due first.
// Used by the rent-reminder mailer.
func (r *Repository) ListPending() ([]*Payment, error) {
	rows, err := r.db.Query("SELECT " + selectFrom + " WHERE y.status = 'pending' ORDER BY y.due_date, y.id")
	if err != nil {
		return nil, fmt.Errorf("listing pending payments: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			err = fmt.Errorf("closing rows: %w", closeErr)
		}
	}()

	payments := []*Payment{}
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning payment: %w", err)
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}
