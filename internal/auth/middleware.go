package auth

import (
	"net/http"
)

// Authenticator resolves the account behind an inbound request's
// session cookie. It has no side effects.
type Authenticator struct {
	tokens *TokenManager
	users  *UserStore
}

// NewAuthenticator creates an authenticator.
func NewAuthenticator(tokens *TokenManager, users *UserStore) *Authenticator {
	return &Authenticator{tokens: tokens, users: users}
}

// Authenticate extracts and verifies the session token and loads the
// account it names. Returns ErrNoToken when the cookie is absent,
// ErrInvalidToken on a bad signature or expiry, and ErrUserNotFound
// when the token references a deleted account.
func (a *Authenticator) Authenticate(r *http.Request) (*User, error) {
	raw, err := tokenFromRequest(r)
	if err != nil {
		return nil, err
	}

	userID, err := a.tokens.Verify(raw)
	if err != nil {
		return nil, ErrInvalidToken
	}

	return a.users.GetByID(userID)
}

// RequireRole authenticates the request and checks the account's role
// against the allow-list. Authentication failures pass through verbatim;
// a known account with the wrong role gets ErrForbidden.
func (a *Authenticator) RequireRole(r *http.Request, allowed ...Role) (*User, error) {
	user, err := a.Authenticate(r)
	if err != nil {
		return nil, err
	}

	for _, role := range allowed {
		if user.Role == role {
			return user, nil
		}
	}
	return nil, ErrForbidden
}
