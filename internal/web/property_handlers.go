package web

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/rentora/rentora/internal/auth"
	"github.com/rentora/rentora/internal/property"
)

// handleListProperties lists properties matching the query filters.
// With no ownerId the listing is public and scoped to available units;
// ownerId=current resolves the caller's identity; any other ownerId is
// used as-is without authentication.
func (s *Server) handleListProperties(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var filter property.Filter
	filter.Location = q.Get("location")

	if v := q.Get("minRent"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			apiError(w, "minRent must be a number", http.StatusBadRequest)
			return
		}
		filter.MinRent = &n
	}
	if v := q.Get("maxRent"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			apiError(w, "maxRent must be a number", http.StatusBadRequest)
			return
		}
		filter.MaxRent = &n
	}
	if v := q.Get("rooms"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			apiError(w, "rooms must be a number", http.StatusBadRequest)
			return
		}
		filter.Rooms = &n
	}

	if ownerID := q.Get("ownerId"); ownerID != "" {
		if ownerID == "current" {
			user, err := s.authn.Authenticate(r)
			if err != nil {
				authError(w, err)
				return
			}
			filter.OwnerID = user.ID
		} else {
			filter.OwnerID = ownerID
		}
	}

	properties, err := s.props.List(filter)
	if err != nil {
		apiError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	apiJSON(w, map[string]interface{}{"properties": properties}, http.StatusOK)
}

// handleGetProperty returns one property. Public, no authentication.
func (s *Server) handleGetProperty(w http.ResponseWriter, r *http.Request) {
	p, err := s.props.GetByID(chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, property.ErrNotFound) {
			apiError(w, "property not found", http.StatusNotFound)
			return
		}
		apiError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	apiJSON(w, map[string]interface{}{"property": p}, http.StatusOK)
}

type propertyPayload struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Location     string   `json:"location"`
	Rent         int64    `json:"rent"`
	Rooms        int64    `json:"rooms"`
	Bathrooms    int64    `json:"bathrooms"`
	Area         *int64   `json:"area"`
	Images       []string `json:"images"`
	Amenities    []string `json:"amenities"`
	Availability *bool    `json:"availability"`
}

// handleCreateProperty creates a listing owned by the caller.
func (s *Server) handleCreateProperty(w http.ResponseWriter, r *http.Request) {
	user, err := s.authn.RequireRole(r, auth.RoleOwner)
	if err != nil {
		authError(w, err)
		return
	}

	var body propertyPayload
	if err := decodeJSON(r, &body); err != nil {
		apiError(w, err.Error(), http.StatusBadRequest)
		return
	}

	p := &property.Property{
		OwnerID:      user.ID,
		Title:        body.Title,
		Description:  body.Description,
		Location:     body.Location,
		Rent:         body.Rent,
		Rooms:        body.Rooms,
		Bathrooms:    body.Bathrooms,
		Area:         body.Area,
		Images:       body.Images,
		Amenities:    body.Amenities,
		Availability: true,
	}
	if p.Bathrooms == 0 {
		p.Bathrooms = 1
	}
	if body.Availability != nil {
		p.Availability = *body.Availability
	}

	created, err := s.props.Insert(p)
	if err != nil {
		// Insert validates the schema; failures carry a user-facing message.
		apiError(w, err.Error(), http.StatusBadRequest)
		return
	}

	apiJSON(w, map[string]interface{}{
		"message":  "Property created successfully",
		"property": created,
	}, http.StatusCreated)
}

type propertyUpdatePayload struct {
	Title        *string  `json:"title"`
	Description  *string  `json:"description"`
	Location     *string  `json:"location"`
	Rent         *int64   `json:"rent"`
	Rooms        *int64   `json:"rooms"`
	Bathrooms    *int64   `json:"bathrooms"`
	Area         *int64   `json:"area"`
	Images       []string `json:"images"`
	Amenities    []string `json:"amenities"`
	Availability *bool    `json:"availability"`
}

// handleUpdateProperty applies a partial update scoped to the caller's
// ownership. A miss is reported as not found whether the property is
// missing or owned by someone else.
func (s *Server) handleUpdateProperty(w http.ResponseWriter, r *http.Request) {
	user, err := s.authn.RequireRole(r, auth.RoleOwner)
	if err != nil {
		authError(w, err)
		return
	}

	var body propertyUpdatePayload
	if err := decodeJSON(r, &body); err != nil {
		apiError(w, err.Error(), http.StatusBadRequest)
		return
	}

	updated, err := s.props.Update(chi.URLParam(r, "id"), user.ID, property.Update{
		Title:        body.Title,
		Description:  body.Description,
		Location:     body.Location,
		Rent:         body.Rent,
		Rooms:        body.Rooms,
		Bathrooms:    body.Bathrooms,
		Area:         body.Area,
		Images:       body.Images,
		Amenities:    body.Amenities,
		Availability: body.Availability,
	})
	if err != nil {
		if errors.Is(err, property.ErrNotFound) {
			apiError(w, "property not found or unauthorized", http.StatusNotFound)
			return
		}
		apiError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	apiJSON(w, map[string]interface{}{
		"message":  "Property updated successfully",
		"property": updated,
	}, http.StatusOK)
}

// handleDeleteProperty removes a listing scoped to the caller's ownership.
func (s *Server) handleDeleteProperty(w http.ResponseWriter, r *http.Request) {
	user, err := s.authn.RequireRole(r, auth.RoleOwner)
	if err != nil {
		authError(w, err)
		return
	}

	if err := s.props.Delete(chi.URLParam(r, "id"), user.ID); err != nil {
		if errors.Is(err, property.ErrNotFound) {
			apiError(w, "property not found or unauthorized", http.StatusNotFound)
			return
		}
		apiError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	apiJSON(w, map[string]string{"message": "Property deleted successfully"}, http.StatusOK)
}
