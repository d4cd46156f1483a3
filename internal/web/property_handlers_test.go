package web

import (
	"fmt"
	"net/http"
	"testing"
)

type propertyJSON struct {
	ID           string   `json:"id"`
	OwnerID      string   `json:"ownerId"`
	Title        string   `json:"title"`
	Location     string   `json:"location"`
	Rent         int64    `json:"rent"`
	Rooms        int64    `json:"rooms"`
	Bathrooms    int64    `json:"bathrooms"`
	Images       []string `json:"images"`
	Amenities    []string `json:"amenities"`
	Availability bool     `json:"availability"`
	Owner        *struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	} `json:"owner"`
}

func listProperties(t *testing.T, e *testEnv, query string, cookie *http.Cookie) []propertyJSON {
	t.Helper()
	rec := e.do("GET", "/api/properties"+query, cookie, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list %q: status %d: %s", query, rec.Code, rec.Body.String())
	}
	var body struct {
		Properties []propertyJSON `json:"properties"`
	}
	decodeBody(t, rec, &body)
	return body.Properties
}

func TestCreateProperty(t *testing.T) {
	e := newTestEnv(t)
	ownerID, cookie := e.register("Alice", "alice@example.com", "owner")

	rec := e.do("POST", "/api/properties", cookie, map[string]interface{}{
		"title":       "Cozy Flat",
		"description": "A lovely place",
		"location":    "Springfield",
		"rent":        1200,
		"rooms":       2,
		"amenities":   []string{"Parking"},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Property propertyJSON `json:"property"`
	}
	decodeBody(t, rec, &body)
	p := body.Property

	if p.OwnerID != ownerID {
		t.Errorf("ownerId = %q, want caller %q", p.OwnerID, ownerID)
	}
	if p.Bathrooms != 1 {
		t.Errorf("bathrooms = %d, want default 1", p.Bathrooms)
	}
	if !p.Availability {
		t.Error("availability should default to true")
	}
	if p.Images == nil {
		t.Error("images should encode as an empty list, not null")
	}
	if p.Owner == nil || p.Owner.Name != "Alice" {
		t.Errorf("owner projection = %+v", p.Owner)
	}
}

func TestCreatePropertyAccess(t *testing.T) {
	e := newTestEnv(t)
	_, tenantCookie := e.register("Bob", "bob@example.com", "tenant")

	payload := map[string]interface{}{
		"title": "Cozy Flat", "description": "d", "location": "l", "rent": 1200, "rooms": 2,
	}

	rec := e.do("POST", "/api/properties", nil, payload)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("unauthenticated: status = %d, want 401", rec.Code)
	}

	rec = e.do("POST", "/api/properties", tenantCookie, payload)
	if rec.Code != http.StatusForbidden {
		t.Errorf("tenant: status = %d, want 403", rec.Code)
	}
}

func TestCreatePropertyValidation(t *testing.T) {
	e := newTestEnv(t)
	_, cookie := e.register("Alice", "alice@example.com", "owner")

	rec := e.do("POST", "/api/properties", cookie, map[string]interface{}{
		"description": "no title", "location": "l", "rent": 1200, "rooms": 2,
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400: %s", rec.Code, rec.Body.String())
	}
}

func TestGetProperty(t *testing.T) {
	e := newTestEnv(t)
	_, cookie := e.register("Alice", "alice@example.com", "owner")
	id := e.createProperty(cookie, "Cozy Flat", 1200)

	rec := e.do("GET", "/api/properties/"+id, nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Property propertyJSON `json:"property"`
	}
	decodeBody(t, rec, &body)
	if body.Property.Title != "Cozy Flat" {
		t.Errorf("title = %q", body.Property.Title)
	}

	rec = e.do("GET", "/api/properties/missing", nil, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing: status = %d, want 404", rec.Code)
	}
}

func TestListPropertiesFilters(t *testing.T) {
	e := newTestEnv(t)
	_, cookie := e.register("Alice", "alice@example.com", "owner")
	e.createProperty(cookie, "Cheap Flat", 800)
	e.createProperty(cookie, "Pricey Flat", 2000)

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"no filter", "", []string{"Cheap Flat", "Pricey Flat"}},
		{"min rent", "?minRent=1000", []string{"Pricey Flat"}},
		{"max rent", "?maxRent=1000", []string{"Cheap Flat"}},
		{"rent bounds inclusive at same value", "?minRent=800&maxRent=800", []string{"Cheap Flat"}},
		{"rooms exact", "?rooms=2", []string{"Cheap Flat", "Pricey Flat"}},
		{"rooms mismatch", "?rooms=3", []string{}},
		{"location substring", "?location=spring", []string{"Cheap Flat", "Pricey Flat"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := listProperties(t, e, tt.query, nil)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d properties, want %d", len(got), len(tt.want))
			}
			titles := map[string]bool{}
			for _, p := range got {
				titles[p.Title] = true
			}
			for _, w := range tt.want {
				if !titles[w] {
					t.Errorf("missing %q in results", w)
				}
			}
		})
	}
}

func TestListPropertiesBadFilters(t *testing.T) {
	e := newTestEnv(t)

	for _, q := range []string{"?minRent=abc", "?maxRent=abc", "?rooms=abc"} {
		rec := e.do("GET", "/api/properties"+q, nil, nil)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", q, rec.Code)
		}
	}
}

func TestListPropertiesOwnerScope(t *testing.T) {
	e := newTestEnv(t)
	ownerID, cookie := e.register("Alice", "alice@example.com", "owner")
	id := e.createProperty(cookie, "Taken Flat", 1200)

	// Mark it unavailable; the public listing hides it.
	rec := e.do("PUT", "/api/properties/"+id, cookie, map[string]interface{}{"availability": false})
	if rec.Code != http.StatusOK {
		t.Fatalf("update: status %d: %s", rec.Code, rec.Body.String())
	}

	if got := listProperties(t, e, "", nil); len(got) != 0 {
		t.Errorf("public listing: got %d, want 0", len(got))
	}

	// ownerId=current resolves the session and includes unavailable units.
	if got := listProperties(t, e, "?ownerId=current", cookie); len(got) != 1 {
		t.Errorf("ownerId=current: got %d, want 1", len(got))
	}

	// ownerId=current without a session is an auth failure.
	rec = e.do("GET", "/api/properties?ownerId=current", nil, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("ownerId=current unauthenticated: status = %d, want 401", rec.Code)
	}

	// A literal ownerId needs no session at all.
	if got := listProperties(t, e, "?ownerId="+ownerID, nil); len(got) != 1 {
		t.Errorf("literal ownerId: got %d, want 1", len(got))
	}
}

func TestUpdateProperty(t *testing.T) {
	e := newTestEnv(t)
	_, cookie := e.register("Alice", "alice@example.com", "owner")
	id := e.createProperty(cookie, "Cozy Flat", 1200)

	rec := e.do("PUT", "/api/properties/"+id, cookie, map[string]interface{}{"rent": 1400})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Property propertyJSON `json:"property"`
	}
	decodeBody(t, rec, &body)
	if body.Property.Rent != 1400 {
		t.Errorf("rent = %d, want 1400", body.Property.Rent)
	}
	if body.Property.Title != "Cozy Flat" {
		t.Errorf("partial update should not touch title, got %q", body.Property.Title)
	}
}

func TestUpdatePropertyNotOwned(t *testing.T) {
	e := newTestEnv(t)
	_, aliceCookie := e.register("Alice", "alice@example.com", "owner")
	_, malloryCookie := e.register("Mallory", "mallory@example.com", "owner")
	id := e.createProperty(aliceCookie, "Cozy Flat", 1200)

	rec := e.do("PUT", "/api/properties/"+id, malloryCookie, map[string]interface{}{"rent": 1})
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}

	// Unchanged for the real owner
	got := listProperties(t, e, "?ownerId=current", aliceCookie)
	if len(got) != 1 || got[0].Rent != 1200 {
		t.Errorf("property should be unchanged: %+v", got)
	}
}

func TestDeleteProperty(t *testing.T) {
	e := newTestEnv(t)
	_, aliceCookie := e.register("Alice", "alice@example.com", "owner")
	_, malloryCookie := e.register("Mallory", "mallory@example.com", "owner")
	id := e.createProperty(aliceCookie, "Cozy Flat", 1200)

	rec := e.do("DELETE", "/api/properties/"+id, malloryCookie, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("foreign delete: status = %d, want 404", rec.Code)
	}
	rec = e.do("GET", "/api/properties/"+id, nil, nil)
	if rec.Code != http.StatusOK {
		t.Errorf("property should survive foreign delete: status = %d", rec.Code)
	}

	rec = e.do("DELETE", "/api/properties/"+id, aliceCookie, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("owner delete: status = %d: %s", rec.Code, rec.Body.String())
	}
	rec = e.do("GET", "/api/properties/"+id, nil, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404 after delete", rec.Code)
	}
}

func TestListPropertiesNewestFirst(t *testing.T) {
	e := newTestEnv(t)
	_, cookie := e.register("Alice", "alice@example.com", "owner")
	for i := 0; i < 3; i++ {
		e.createProperty(cookie, fmt.Sprintf("Flat %d", i), 1000)
	}

	got := listProperties(t, e, "", nil)
	if len(got) != 3 {
		t.Fatalf("got %d properties, want 3", len(got))
	}
	for i, p := range got {
		want := fmt.Sprintf("Flat %d", 2-i)
		if p.Title != want {
			t.Errorf("position %d: got %q, want %q", i, p.Title, want)
		}
	}
}
