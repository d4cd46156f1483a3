package request

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when no request matches the query predicate,
// including status updates on a request owned by someone else.
var ErrNotFound = errors.New("request not found")

// Repository provides operations for rental requests.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a request repository.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const selectFrom = `r.id, r.property_id, r.tenant_id, r.owner_id,
	r.status, r.message, r.move_in_date, r.created_at, r.responded_at,
	p.title, p.location, p.rent, p.images,
	t.name, t.email, t.phone,
	o.name, o.email, o.phone
	FROM requests r
	JOIN properties p ON p.id = r.property_id
	JOIN users t ON t.id = r.tenant_id
	JOIN users o ON o.id = r.owner_id`

// HasActiveRequest reports whether the tenant already has a pending or
// approved request on the property. This existence check and the
// following Insert are not atomic; two concurrent creates can both pass.
func (r *Repository) HasActiveRequest(propertyID, tenantID string) (bool, error) {
	var count int
	err := r.db.QueryRow(
		`SELECT COUNT(*) FROM requests
			WHERE property_id = ? AND tenant_id = ? AND status IN ('pending', 'approved')`,
		propertyID, tenantID,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("checking active requests: %w", err)
	}
	return count > 0, nil
}

// Insert adds a new pending request and returns it with its joins.
func (r *Repository) Insert(rq *Request) (*Request, error) {
	if err := rq.Validate(); err != nil {
		return nil, err
	}

	// Creation time is stored explicitly: CURRENT_TIMESTAMP has only
	// one-second resolution, not enough to order same-second inserts.
	id := uuid.NewString()
	if _, err := r.db.Exec(
		`INSERT INTO requests (id, property_id, tenant_id, owner_id, status, message, move_in_date, created_at)
			VALUES (?, ?, ?, ?, 'pending', ?, ?, ?)`,
		id, rq.PropertyID, rq.TenantID, rq.OwnerID, rq.Message, rq.MoveInDate, time.Now().UTC(),
	); err != nil {
		return nil, fmt.Errorf("inserting request: %w", err)
	}

	return r.GetByID(id)
}

// GetByID returns a request by its ID with joined projections.
func (r *Repository) GetByID(id string) (*Request, error) {
	row := r.db.QueryRow("SELECT "+selectFrom+" WHERE r.id = ?", id)

	rq, err := scanRequest(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying request %s: %w", id, err)
	}
	return rq, nil
}

// Filter scopes a request listing. Exactly one of OwnerID or TenantID
// is set by the caller, depending on the caller's role.
type Filter struct {
	OwnerID  string
	TenantID string
	Status   string // optional exact match
}

// List returns requests matching the filter, newest-first.
func (r *Repository) List(f Filter) ([]*Request, error) {
	query := "SELECT " + selectFrom
	var args []interface{}
	var conditions []string

	if f.OwnerID != "" {
		conditions = append(conditions, "r.owner_id = ?")
		args = append(args, f.OwnerID)
	}
	if f.TenantID != "" {
		conditions = append(conditions, "r.tenant_id = ?")
		args = append(args, f.TenantID)
	}
	if f.Status != "" {
		conditions = append(conditions, "r.status = ?")
		args = append(args, f.Status)
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY r.created_at DESC, r.id"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing requests: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			err = fmt.Errorf("closing rows: %w", closeErr)
		}
	}()

	requests := []*Request{}
	for rows.Next() {
		rq, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning request: %w", err)
		}
		requests = append(requests, rq)
	}
	return requests, rows.Err()
}

// UpdateStatus sets the status and responded-at timestamp, scoped to
// (id, ownerID). Returns ErrNotFound when the id does not exist or the
// request belongs to a different owner.
func (r *Repository) UpdateStatus(id, ownerID string, status Status) (*Request, error) {
	result, err := r.db.Exec(
		"UPDATE requests SET status = ?, responded_at = ? WHERE id = ? AND owner_id = ?",
		string(status), time.Now().UTC(), id, ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("updating request: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("checking affected rows: %w", err)
	}
	if affected == 0 {
		return nil, ErrNotFound
	}

	return r.GetByID(id)
}
