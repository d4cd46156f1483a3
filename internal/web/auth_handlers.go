package web

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/rentora/rentora/internal/auth"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
	Phone    string `json:"phone"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// handleRegister creates an account and starts a session.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var body registerRequest
	if err := decodeJSON(r, &body); err != nil {
		apiError(w, err.Error(), http.StatusBadRequest)
		return
	}

	user, err := s.users.Create(auth.NewUser{
		Name:     body.Name,
		Email:    body.Email,
		Password: body.Password,
		Role:     body.Role,
		Phone:    body.Phone,
	})
	if err != nil {
		apiError(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := s.startSession(w, user.ID); err != nil {
		apiError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	apiJSON(w, map[string]interface{}{
		"message": "Account created successfully",
		"user":    user,
	}, http.StatusCreated)
}

// handleLogin authenticates an email/password pair and starts a session.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body loginRequest
	if err := decodeJSON(r, &body); err != nil {
		apiError(w, err.Error(), http.StatusBadRequest)
		return
	}

	user, err := s.users.Authenticate(body.Email, body.Password)
	if err != nil {
		if errors.Is(err, auth.ErrBadCredentials) {
			apiError(w, err.Error(), http.StatusUnauthorized)
			return
		}
		apiError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	if err := s.startSession(w, user.ID); err != nil {
		apiError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	apiJSON(w, map[string]interface{}{
		"message": "Logged in successfully",
		"user":    user,
	}, http.StatusOK)
}

// handleLogout clears the session cookie.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	auth.ClearSessionCookie(w)
	apiJSON(w, map[string]string{"message": "Logged out successfully"}, http.StatusOK)
}

// handleMe returns the account behind the session.
func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	user, err := s.authn.Authenticate(r)
	if err != nil {
		authError(w, err)
		return
	}

	apiJSON(w, map[string]interface{}{"user": user}, http.StatusOK)
}

func (s *Server) startSession(w http.ResponseWriter, userID string) error {
	token, err := s.tokens.Issue(userID)
	if err != nil {
		slog.Error("issuing session token", "error", err)
		return err
	}
	auth.SetSessionCookie(w, token)
	return nil
}
