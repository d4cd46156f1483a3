package web

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/rentora/rentora/internal/auth"
	"github.com/rentora/rentora/internal/request"
)

// handleListRequests lists rental requests scoped to the caller: owners
// see requests on their properties, tenants see their own.
func (s *Server) handleListRequests(w http.ResponseWriter, r *http.Request) {
	user, err := s.authn.Authenticate(r)
	if err != nil {
		authError(w, err)
		return
	}

	filter := request.Filter{Status: r.URL.Query().Get("status")}
	if user.Role == auth.RoleOwner {
		filter.OwnerID = user.ID
	} else {
		filter.TenantID = user.ID
	}

	requests, err := s.requests.List(filter)
	if err != nil {
		apiError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	apiJSON(w, map[string]interface{}{"requests": requests}, http.StatusOK)
}

type createRequestPayload struct {
	PropertyID string `json:"propertyId"`
	OwnerID    string `json:"ownerId"`
	Message    string `json:"message"`
	MoveInDate string `json:"moveInDate"`
}

// handleCreateRequest files a rental request by the calling tenant.
// A tenant may hold at most one pending or approved request per
// property; the guard is a read-then-insert, not an atomic constraint.
func (s *Server) handleCreateRequest(w http.ResponseWriter, r *http.Request) {
	user, err := s.authn.RequireRole(r, auth.RoleTenant)
	if err != nil {
		authError(w, err)
		return
	}

	var body createRequestPayload
	if err := decodeJSON(r, &body); err != nil {
		apiError(w, err.Error(), http.StatusBadRequest)
		return
	}

	moveIn, err := parseDate(body.MoveInDate)
	if err != nil {
		apiError(w, "please provide preferred move-in date", http.StatusBadRequest)
		return
	}

	active, err := s.requests.HasActiveRequest(body.PropertyID, user.ID)
	if err != nil {
		apiError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if active {
		apiError(w, "You already have an active request for this property", http.StatusBadRequest)
		return
	}

	created, err := s.requests.Insert(&request.Request{
		PropertyID: body.PropertyID,
		TenantID:   user.ID,
		OwnerID:    body.OwnerID,
		Message:    body.Message,
		MoveInDate: moveIn,
	})
	if err != nil {
		apiError(w, err.Error(), http.StatusBadRequest)
		return
	}

	apiJSON(w, map[string]interface{}{
		"message": "Rental request created successfully",
		"request": created,
	}, http.StatusCreated)
}

type updateRequestPayload struct {
	Status string `json:"status"`
}

// handleUpdateRequest sets a request's status, scoped to the caller's
// denormalized ownership. Approval also marks the property unavailable;
// the two writes are not transactional and no reversal happens on a
// later rejection.
func (s *Server) handleUpdateRequest(w http.ResponseWriter, r *http.Request) {
	user, err := s.authn.RequireRole(r, auth.RoleOwner)
	if err != nil {
		authError(w, err)
		return
	}

	var body updateRequestPayload
	if err := decodeJSON(r, &body); err != nil {
		apiError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if !request.ValidStatus(body.Status) {
		apiError(w, "status must be pending, approved, or rejected", http.StatusBadRequest)
		return
	}

	updated, err := s.requests.UpdateStatus(chi.URLParam(r, "id"), user.ID, request.Status(body.Status))
	if err != nil {
		if errors.Is(err, request.ErrNotFound) {
			apiError(w, "request not found or unauthorized", http.StatusNotFound)
			return
		}
		apiError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	if updated.Status == request.StatusApproved {
		if err := s.props.SetAvailability(updated.PropertyID, false); err != nil {
			apiError(w, "internal server error", http.StatusInternalServerError)
			return
		}
	}

	apiJSON(w, map[string]interface{}{
		"message": "Request updated successfully",
		"request": updated,
	}, http.StatusOK)
}

// parseDate accepts RFC 3339 timestamps and bare dates.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}
