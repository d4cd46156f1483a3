// Package property provides the rental-property domain model and data access.
package property

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// Contact is the projection of an owning account attached to reads.
type Contact struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}

// Property represents a listed rental unit.
type Property struct {
	ID           string    `json:"id"`
	OwnerID      string    `json:"ownerId"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Location     string    `json:"location"`
	Rent         int64     `json:"rent"`
	Rooms        int64     `json:"rooms"`
	Bathrooms    int64     `json:"bathrooms"`
	Area         *int64    `json:"area,omitempty"`
	Images       []string  `json:"images"`
	Availability bool      `json:"availability"`
	Amenities    []string  `json:"amenities"`
	CreatedAt    time.Time `json:"createdAt"`
	Owner        *Contact  `json:"owner,omitempty"`
}

// Validate checks the schema bounds for a new property.
func (p *Property) Validate() error {
	if p.Title == "" {
		return fmt.Errorf("please provide a title")
	}
	if len(p.Title) > 100 {
		return fmt.Errorf("title cannot be more than 100 characters")
	}
	if p.Description == "" {
		return fmt.Errorf("please provide a description")
	}
	if len(p.Description) > 1000 {
		return fmt.Errorf("description cannot be more than 1000 characters")
	}
	if p.Location == "" {
		return fmt.Errorf("please provide a location")
	}
	if p.Rent < 0 {
		return fmt.Errorf("rent cannot be negative")
	}
	if p.Rooms < 1 {
		return fmt.Errorf("property must have at least 1 room")
	}
	if p.Bathrooms < 1 {
		return fmt.Errorf("property must have at least 1 bathroom")
	}
	if p.Area != nil && *p.Area <= 0 {
		return fmt.Errorf("area must be positive")
	}
	return nil
}

// scanProperty scans a property joined with its owner projection.
func scanProperty(row interface{ Scan(...interface{}) error }) (*Property, error) {
	var p Property
	var area sql.NullInt64
	var images, amenities string
	var owner Contact
	var ownerPhone sql.NullString

	err := row.Scan(
		&p.ID, &p.OwnerID, &p.Title, &p.Description, &p.Location,
		&p.Rent, &p.Rooms, &p.Bathrooms, &area,
		&images, &p.Availability, &amenities, &p.CreatedAt,
		&owner.Name, &owner.Email, &ownerPhone,
	)
	if err != nil {
		return nil, err
	}

	if area.Valid {
		p.Area = &area.Int64
	}
	if err := json.Unmarshal([]byte(images), &p.Images); err != nil {
		return nil, fmt.Errorf("decoding images: %w", err)
	}
	if err := json.Unmarshal([]byte(amenities), &p.Amenities); err != nil {
		return nil, fmt.Errorf("decoding amenities: %w", err)
	}

	owner.ID = p.OwnerID
	if ownerPhone.Valid {
		owner.Phone = ownerPhone.String
	}
	p.Owner = &owner

	return &p, nil
}
