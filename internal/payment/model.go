// Package payment provides the rent-payment domain model and data access.
package payment

import (
	"fmt"
	"time"
)

// Status represents a payment's lifecycle state. Payments are created
// pending and move to completed only via the processor webhook.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusRefunded  Status = "refunded"
)

// Party is the tenant projection attached to reads.
type Party struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// PropertySummary is the subset of property fields joined onto a payment.
type PropertySummary struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Location string `json:"location"`
}

// Payment represents one month's rent payment. OwnerID is denormalized
// from the property, mirroring the request model.
type Payment struct {
	ID              string           `json:"id"`
	TenantID        string           `json:"tenantId"`
	PropertyID      string           `json:"propertyId"`
	OwnerID         string           `json:"ownerId"`
	Amount          int64            `json:"amount"`
	PaymentIntentID string           `json:"paymentIntentId"`
	Status          Status           `json:"status"`
	PaymentDate     time.Time        `json:"paymentDate"`
	DueDate         time.Time        `json:"dueDate"`
	Month           string           `json:"month"`
	Year            int              `json:"year"`
	Property        *PropertySummary `json:"property,omitempty"`
	Tenant          *Party           `json:"tenant,omitempty"`
}

// Validate checks the schema bounds for a new payment.
func (p *Payment) Validate() error {
	if p.PropertyID == "" {
		return fmt.Errorf("please provide a property")
	}
	if p.OwnerID == "" {
		return fmt.Errorf("please provide the property owner")
	}
	if p.Amount < 0 {
		return fmt.Errorf("amount cannot be negative")
	}
	if p.PaymentIntentID == "" {
		return fmt.Errorf("missing payment intent")
	}
	if p.Month == "" {
		return fmt.Errorf("please provide the payment month")
	}
	if p.Year == 0 {
		return fmt.Errorf("please provide the payment year")
	}
	return nil
}

// scanPayment scans a payment joined with its property subset and
// tenant projection.
func scanPayment(row interface{ Scan(...interface{}) error }) (*Payment, error) {
	var p Payment
	var prop PropertySummary
	var tenant Party

	err := row.Scan(
		&p.ID, &p.TenantID, &p.PropertyID, &p.OwnerID,
		&p.Amount, &p.PaymentIntentID, &p.Status,
		&p.PaymentDate, &p.DueDate, &p.Month, &p.Year,
		&prop.Title, &prop.Location,
		&tenant.Name, &tenant.Email,
	)
	if err != nil {
		return nil, err
	}

	prop.ID = p.PropertyID
	p.Property = &prop

	tenant.ID = p.TenantID
	p.Tenant = &tenant

	return &p, nil
}
