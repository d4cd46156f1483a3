// Package request provides the rental-application domain model and data access.
package request

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// Status represents where a rental request is in its lifecycle.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// ValidStatus returns true if s is a known request status.
func ValidStatus(s string) bool {
	switch Status(s) {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Party is the projection of a tenant or owner account attached to reads.
type Party struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}

// PropertySummary is the subset of property fields joined onto a request.
type PropertySummary struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Location string   `json:"location"`
	Rent     int64    `json:"rent"`
	Images   []string `json:"images"`
}

// Request represents a tenant's application to rent a property.
// OwnerID is denormalized from the property so ownership checks avoid
// a join; it is never updated after creation.
type Request struct {
	ID          string           `json:"id"`
	PropertyID  string           `json:"propertyId"`
	TenantID    string           `json:"tenantId"`
	OwnerID     string           `json:"ownerId"`
	Status      Status           `json:"status"`
	Message     string           `json:"message,omitempty"`
	MoveInDate  time.Time        `json:"moveInDate"`
	CreatedAt   time.Time        `json:"createdAt"`
	RespondedAt *time.Time       `json:"respondedAt,omitempty"`
	Property    *PropertySummary `json:"property,omitempty"`
	Tenant      *Party           `json:"tenant,omitempty"`
	Owner       *Party           `json:"owner,omitempty"`
}

// Validate checks the schema bounds for a new request.
func (rq *Request) Validate() error {
	if rq.PropertyID == "" {
		return fmt.Errorf("please provide a property")
	}
	if rq.OwnerID == "" {
		return fmt.Errorf("please provide the property owner")
	}
	if len(rq.Message) > 500 {
		return fmt.Errorf("message cannot be more than 500 characters")
	}
	if rq.MoveInDate.IsZero() {
		return fmt.Errorf("please provide preferred move-in date")
	}
	return nil
}

// scanRequest scans a request joined with its property subset and both
// party projections.
func scanRequest(row interface{ Scan(...interface{}) error }) (*Request, error) {
	var rq Request
	var respondedAt sql.NullTime
	var prop PropertySummary
	var images string
	var tenant, owner Party
	var tenantPhone, ownerPhone sql.NullString

	err := row.Scan(
		&rq.ID, &rq.PropertyID, &rq.TenantID, &rq.OwnerID,
		&rq.Status, &rq.Message, &rq.MoveInDate, &rq.CreatedAt, &respondedAt,
		&prop.Title, &prop.Location, &prop.Rent, &images,
		&tenant.Name, &tenant.Email, &tenantPhone,
		&owner.Name, &owner.Email, &ownerPhone,
	)
	if err != nil {
		return nil, err
	}

	if respondedAt.Valid {
		rq.RespondedAt = &respondedAt.Time
	}
	if err := json.Unmarshal([]byte(images), &prop.Images); err != nil {
		return nil, fmt.Errorf("decoding images: %w", err)
	}

	prop.ID = rq.PropertyID
	rq.Property = &prop

	tenant.ID = rq.TenantID
	if tenantPhone.Valid {
		tenant.Phone = tenantPhone.String
	}
	rq.Tenant = &tenant

	owner.ID = rq.OwnerID
	if ownerPhone.Valid {
		owner.Phone = ownerPhone.String
	}
	rq.Owner = &owner

	return &rq, nil
}
