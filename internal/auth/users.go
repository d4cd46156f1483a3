// Package auth provides accounts, JWT session tokens, and role authorization.
package auth

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// bcryptCost matches the cost the rest of the product's tooling expects.
const bcryptCost = 12

// Role is an account role. The set is closed: every account is
// either a property owner or a tenant.
type Role string

const (
	RoleOwner  Role = "owner"
	RoleTenant Role = "tenant"
)

// ValidRole returns true if s is a known role.
func ValidRole(s string) bool {
	switch Role(s) {
	case RoleOwner, RoleTenant:
		return true
	}
	return false
}

// User represents an account. The password hash is never populated
// on values returned by read queries.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewUser holds the fields required to register an account.
type NewUser struct {
	Name     string
	Email    string
	Password string
	Role     string
	Phone    string
}

// UserStore manages accounts in SQLite.
type UserStore struct {
	db *sql.DB
}

// NewUserStore creates a user store.
func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

// Create registers a new account with a bcrypt-hashed password.
func (s *UserStore) Create(nu NewUser) (*User, error) {
	nu.Name = strings.TrimSpace(nu.Name)
	nu.Email = strings.ToLower(strings.TrimSpace(nu.Email))

	if nu.Name == "" || len(nu.Name) > 60 {
		return nil, fmt.Errorf("name is required and cannot be more than 60 characters")
	}
	if nu.Email == "" || !strings.Contains(nu.Email, "@") {
		return nil, fmt.Errorf("a valid email is required")
	}
	if len(nu.Password) < 6 {
		return nil, fmt.Errorf("password should be at least 6 characters")
	}
	if !ValidRole(nu.Role) {
		return nil, fmt.Errorf("role must be owner or tenant")
	}
	if len(nu.Phone) > 20 {
		return nil, fmt.Errorf("phone number cannot be more than 20 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(nu.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	id := uuid.NewString()
	if _, err := s.db.Exec(
		"INSERT INTO users (id, name, email, password_hash, role, phone) VALUES (?, ?, ?, ?, ?, ?)",
		id, nu.Name, nu.Email, string(hash), nu.Role, nu.Phone,
	); err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("creating user: %w", err)
	}

	return s.GetByID(id)
}

// Authenticate checks an email/password pair and returns the account.
func (s *UserStore) Authenticate(email, password string) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var id, hash string
	err := s.db.QueryRow(
		"SELECT id, password_hash FROM users WHERE email = ?", email,
	).Scan(&id, &hash)
	if err == sql.ErrNoRows {
		return nil, ErrBadCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("querying user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return nil, ErrBadCredentials
	}

	return s.GetByID(id)
}

// GetByID returns an account by ID. The password hash is excluded.
func (s *UserStore) GetByID(id string) (*User, error) {
	var u User
	err := s.db.QueryRow(
		"SELECT id, name, email, role, phone, created_at FROM users WHERE id = ?", id,
	).Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.Phone, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying user: %w", err)
	}
	return &u, nil
}

// GetByEmail returns an account by email. The password hash is excluded.
func (s *UserStore) GetByEmail(email string) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var u User
	err := s.db.QueryRow(
		"SELECT id, name, email, role, phone, created_at FROM users WHERE email = ?", email,
	).Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.Phone, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying user: %w", err)
	}
	return &u, nil
}
