package property

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when no property matches the query predicate.
// Ownership-scoped updates and deletes return it for both a missing id
// and a property owned by someone else, so existence is never leaked.
var ErrNotFound = errors.New("property not found")

// Repository provides CRUD operations for properties.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a property repository.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const selectColumns = `p.id, p.owner_id, p.title, p.description, p.location,
	p.rent, p.rooms, p.bathrooms, p.area,
	p.images, p.availability, p.amenities, p.created_at,
	u.name, u.email, u.phone`

const selectFrom = selectColumns + ` FROM properties p JOIN users u ON u.id = p.owner_id`

// Insert adds a new property and returns it with its owner projection.
func (r *Repository) Insert(p *Property) (*Property, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	images, err := json.Marshal(emptyIfNil(p.Images))
	if err != nil {
		return nil, fmt.Errorf("encoding images: %w", err)
	}
	amenities, err := json.Marshal(emptyIfNil(p.Amenities))
	if err != nil {
		return nil, fmt.Errorf("encoding amenities: %w", err)
	}

	// Creation time is stored explicitly: CURRENT_TIMESTAMP has only
	// one-second resolution, not enough to order same-second inserts.
	id := uuid.NewString()
	if _, err := r.db.Exec(
		`INSERT INTO properties
			(id, owner_id, title, description, location, rent, rooms, bathrooms, area, images, availability, amenities, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, p.OwnerID, p.Title, p.Description, p.Location,
		p.Rent, p.Rooms, p.Bathrooms, p.Area,
		string(images), p.Availability, string(amenities), time.Now().UTC(),
	); err != nil {
		return nil, fmt.Errorf("inserting property: %w", err)
	}

	return r.GetByID(id)
}

// GetByID returns a property by its ID with the owner projection.
func (r *Repository) GetByID(id string) (*Property, error) {
	row := r.db.QueryRow("SELECT "+selectFrom+" WHERE p.id = ?", id)

	p, err := scanProperty(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying property %s: %w", id, err)
	}
	return p, nil
}

// Filter controls the listing query. The zero value scopes the listing
// to available properties (the public view).
type Filter struct {
	Location string // case-insensitive substring match
	MinRent  *int64
	MaxRent  *int64
	Rooms    *int64
	OwnerID  string // when set, scope to this owner and skip the availability filter
}

// List returns properties matching the filter, newest-first.
func (r *Repository) List(f Filter) ([]*Property, error) {
	query := "SELECT " + selectFrom
	var args []interface{}
	var conditions []string

	if f.Location != "" {
		conditions = append(conditions, "p.location LIKE ? COLLATE NOCASE")
		args = append(args, "%"+f.Location+"%")
	}
	if f.MinRent != nil {
		conditions = append(conditions, "p.rent >= ?")
		args = append(args, *f.MinRent)
	}
	if f.MaxRent != nil {
		conditions = append(conditions, "p.rent <= ?")
		args = append(args, *f.MaxRent)
	}
	if f.Rooms != nil {
		conditions = append(conditions, "p.rooms = ?")
		args = append(args, *f.Rooms)
	}
	if f.OwnerID != "" {
		conditions = append(conditions, "p.owner_id = ?")
		args = append(args, f.OwnerID)
	} else {
		conditions = append(conditions, "p.availability = 1")
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY p.created_at DESC, p.id"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing properties: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			err = fmt.Errorf("closing rows: %w", closeErr)
		}
	}()

	properties := []*Property{}
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning property: %w", err)
		}
		properties = append(properties, p)
	}
	return properties, rows.Err()
}

// Update describes a partial property update. Only non-nil fields change.
type Update struct {
	Title        *string
	Description  *string
	Location     *string
	Rent         *int64
	Rooms        *int64
	Bathrooms    *int64
	Area         *int64
	Images       []string
	Availability *bool
	Amenities    []string
}

// Update applies the given changes scoped to (id, ownerID). Returns
// ErrNotFound when the id does not exist or belongs to a different owner.
func (r *Repository) Update(id, ownerID string, u Update) (*Property, error) {
	var sets []string
	var args []interface{}

	set := func(col string, v interface{}) {
		sets = append(sets, col+" = ?")
		args = append(args, v)
	}

	if u.Title != nil {
		set("title", *u.Title)
	}
	if u.Description != nil {
		set("description", *u.Description)
	}
	if u.Location != nil {
		set("location", *u.Location)
	}
	if u.Rent != nil {
		set("rent", *u.Rent)
	}
	if u.Rooms != nil {
		set("rooms", *u.Rooms)
	}
	if u.Bathrooms != nil {
		set("bathrooms", *u.Bathrooms)
	}
	if u.Area != nil {
		set("area", *u.Area)
	}
	if u.Images != nil {
		images, err := json.Marshal(u.Images)
		if err != nil {
			return nil, fmt.Errorf("encoding images: %w", err)
		}
		set("images", string(images))
	}
	if u.Availability != nil {
		set("availability", *u.Availability)
	}
	if u.Amenities != nil {
		amenities, err := json.Marshal(u.Amenities)
		if err != nil {
			return nil, fmt.Errorf("encoding amenities: %w", err)
		}
		set("amenities", string(amenities))
	}

	if len(sets) == 0 {
		// Nothing to change; still enforce the ownership predicate.
		return r.getOwned(id, ownerID)
	}

	args = append(args, id, ownerID)
	result, err := r.db.Exec(
		"UPDATE properties SET "+strings.Join(sets, ", ")+" WHERE id = ? AND owner_id = ?",
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("updating property: %w", err)
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

// Delete removes a property scoped to (id, ownerID).
func (r *Repository) Delete(id, ownerID string) error {
	result, err := r.db.Exec(
		"DELETE FROM properties WHERE id = ? AND owner_id = ?", id, ownerID,
	)
	if err != nil {
		return fmt.Errorf("deleting property: %w", err)
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

// SetAvailability flips the availability flag. Used as the approval
// side effect, unconditionally and without a wrapping transaction.
func (r *Repository) SetAvailability(id string, available bool) error {
	if _, err := r.db.Exec(
		"UPDATE properties SET availability = ? WHERE id = ?", available, id,
	); err != nil {
		return fmt.Errorf("updating availability: %w", err)
	}
	return nil
}

func (r *Repository) getOwned(id, ownerID string) (*Property, error) {
	p, err := r.GetByID(id)
	if err != nil {
		return nil, err
	}
	if p.OwnerID != ownerID {
		return nil, ErrNotFound
	}
	return p, nil
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
