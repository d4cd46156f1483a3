package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func testAuthenticator(t *testing.T) (*Authenticator, *UserStore, *TokenManager) {
	t.Helper()
	d := openTestDB(t)
	users := NewUserStore(d)
	tokens, err := NewTokenManager("test-secret")
	if err != nil {
		t.Fatalf("new token manager: %v", err)
	}
	return NewAuthenticator(tokens, users), users, tokens
}

func requestWithToken(token string) *http.Request {
	r := httptest.NewRequest("GET", "/api/auth/me", nil)
	if token != "" {
		r.AddCookie(&http.Cookie{Name: "rentora_token", Value: token})
	}
	return r
}

func TestAuthenticateNoCookie(t *testing.T) {
	authn, _, _ := testAuthenticator(t)

	if _, err := authn.Authenticate(requestWithToken("")); !errors.Is(err, ErrNoToken) {
		t.Errorf("err = %v, want ErrNoToken", err)
	}
}

func TestAuthenticateInvalidToken(t *testing.T) {
	authn, _, _ := testAuthenticator(t)

	if _, err := authn.Authenticate(requestWithToken("not-a-jwt")); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("err = %v, want ErrInvalidToken", err)
	}
}

func TestAuthenticateUnknownUser(t *testing.T) {
	authn, _, tokens := testAuthenticator(t)

	token, err := tokens.Issue("no-such-user")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := authn.Authenticate(requestWithToken(token)); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("err = %v, want ErrUserNotFound", err)
	}
}

func TestAuthenticateSuccess(t *testing.T) {
	authn, users, tokens := testAuthenticator(t)

	created, err := users.Create(NewUser{
		Name: "Alice", Email: "alice@example.com", Password: "secret123", Role: "owner",
	})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	token, err := tokens.Issue(created.ID)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	u, err := authn.Authenticate(requestWithToken(token))
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if u.ID != created.ID {
		t.Errorf("id = %q, want %q", u.ID, created.ID)
	}
}

func TestRequireRole(t *testing.T) {
	authn, users, tokens := testAuthenticator(t)

	owner, err := users.Create(NewUser{
		Name: "Owner", Email: "owner@example.com", Password: "secret123", Role: "owner",
	})
	if err != nil {
		t.Fatalf("create owner: %v", err)
	}
	token, err := tokens.Issue(owner.ID)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	// Role in allow-list passes
	u, err := authn.RequireRole(requestWithToken(token), RoleOwner)
	if err != nil {
		t.Fatalf("require owner: %v", err)
	}
	if u.ID != owner.ID {
		t.Errorf("id = %q, want %q", u.ID, owner.ID)
	}

	// Role not in allow-list is forbidden
	if _, err := authn.RequireRole(requestWithToken(token), RoleTenant); !errors.Is(err, ErrForbidden) {
		t.Errorf("err = %v, want ErrForbidden", err)
	}

	// Resolver failures pass through verbatim
	if _, err := authn.RequireRole(requestWithToken(""), RoleOwner); !errors.Is(err, ErrNoToken) {
		t.Errorf("err = %v, want ErrNoToken", err)
	}
}

func TestValidRole(t *testing.T) {
	tests := []struct {
		role string
		want bool
	}{
		{"owner", true},
		{"tenant", true},
		{"admin", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := ValidRole(tt.role); got != tt.want {
			t.Errorf("ValidRole(%q) = %v, want %v", tt.role, got, tt.want)
		}
	}
}
