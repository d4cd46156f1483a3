package web

import (
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/rentora/rentora/internal/auth"
	"github.com/rentora/rentora/internal/payment"
	"github.com/rentora/rentora/internal/stripe"
)

type createPaymentPayload struct {
	PropertyID string `json:"propertyId"`
	OwnerID    string `json:"ownerId"`
	Amount     int64  `json:"amount"`
	Month      string `json:"month"`
	Year       int    `json:"year"`
}

// handleCreatePayment creates a processor payment intent plus a local
// pending payment record, and returns the intent's client secret.
func (s *Server) handleCreatePayment(w http.ResponseWriter, r *http.Request) {
	user, err := s.authn.RequireRole(r, auth.RoleTenant)
	if err != nil {
		authError(w, err)
		return
	}

	var body createPaymentPayload
	if err := decodeJSON(r, &body); err != nil {
		apiError(w, err.Error(), http.StatusBadRequest)
		return
	}

	month, err := monthNumber(body.Month)
	if err != nil {
		apiError(w, "month must be a month number or name", http.StatusBadRequest)
		return
	}
	if body.Amount < 0 {
		apiError(w, "amount cannot be negative", http.StatusBadRequest)
		return
	}

	// The client-supplied amount is the source of truth for the charge,
	// converted to cents for the processor.
	intent, err := s.processor.CreateIntent(body.Amount*100, "usd", map[string]string{
		"tenantId":   user.ID,
		"propertyId": body.PropertyID,
		"month":      body.Month,
		"year":       strconv.Itoa(body.Year),
	})
	if err != nil {
		apiError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	created, err := s.payments.Insert(&payment.Payment{
		TenantID:        user.ID,
		PropertyID:      body.PropertyID,
		OwnerID:         body.OwnerID,
		Amount:          body.Amount,
		PaymentIntentID: intent.ID,
		Month:           body.Month,
		Year:            body.Year,
		DueDate:         time.Date(body.Year, month, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		apiError(w, err.Error(), http.StatusBadRequest)
		return
	}

	apiJSON(w, map[string]interface{}{
		"clientSecret": intent.ClientSecret,
		"payment":      created,
	}, http.StatusOK)
}

// handleListPayments lists payments scoped to the caller: tenants see
// their own, owners see payments on their properties.
func (s *Server) handleListPayments(w http.ResponseWriter, r *http.Request) {
	user, err := s.authn.Authenticate(r)
	if err != nil {
		authError(w, err)
		return
	}

	var filter payment.Filter
	if user.Role == auth.RoleTenant {
		filter.TenantID = user.ID
	} else {
		filter.OwnerID = user.ID
	}

	payments, err := s.payments.List(filter)
	if err != nil {
		apiError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	apiJSON(w, map[string]interface{}{"payments": payments}, http.StatusOK)
}

// handleWebhook reconciles processor events into local payment records.
// A bad signature is rejected before any database access. Persistence
// failures are logged but still acknowledged, so the processor does not
// retry; a lost reconciliation surfaces only in the logs.
func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		apiError(w, "reading payload failed", http.StatusBadRequest)
		return
	}

	event, err := stripe.ConstructEvent(body, r.Header.Get("Stripe-Signature"), s.webhookSecret, stripe.DefaultTolerance)
	if err != nil {
		apiError(w, err.Error(), http.StatusBadRequest)
		return
	}

	if event.Type == stripe.EventTypePaymentSucceeded {
		intent, err := event.IntentObject()
		if err != nil {
			slog.Warn("webhook: unusable payment event", "event", event.ID, "error", err)
		} else if err := s.payments.MarkCompletedByIntent(intent.ID); err != nil {
			slog.Warn("webhook: payment reconciliation failed", "intent", intent.ID, "error", err)
		}
	}

	apiJSON(w, map[string]bool{"received": true}, http.StatusOK)
}

// monthNumber resolves a month label like "5" or "May".
func monthNumber(s string) (time.Month, error) {
	if n, err := strconv.Atoi(s); err == nil && n >= 1 && n <= 12 {
		return time.Month(n), nil
	}
	t, err := time.Parse("January", s)
	if err != nil {
		return 0, err
	}
	return t.Month(), nil
}
