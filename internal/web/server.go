// Package web provides the HTTP API server for rentora.
package web

import (
	"database/sql"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rentora/rentora/internal/auth"
	"github.com/rentora/rentora/internal/imagestore"
	"github.com/rentora/rentora/internal/logging"
	"github.com/rentora/rentora/internal/payment"
	"github.com/rentora/rentora/internal/property"
	"github.com/rentora/rentora/internal/request"
	"github.com/rentora/rentora/internal/stripe"
)

// Config holds the settings the server needs beyond the database.
type Config struct {
	JWTSecret           string
	StripeSecretKey     string
	StripeWebhookSecret string
	UploadURL           string
	UploadPreset        string
}

// Server is the JSON API HTTP server.
type Server struct {
	users    *auth.UserStore
	tokens   *auth.TokenManager
	authn    *auth.Authenticator
	props    *property.Repository
	requests *request.Repository
	payments *payment.Repository

	processor     *stripe.Client
	images        *imagestore.Client
	webhookSecret string

	router chi.Router
}

// NewServer creates an API server with the given database and config.
func NewServer(db *sql.DB, cfg Config) (*Server, error) {
	tokens, err := auth.NewTokenManager(cfg.JWTSecret)
	if err != nil {
		return nil, fmt.Errorf("creating token manager: %w", err)
	}

	processor, err := stripe.NewClient(cfg.StripeSecretKey)
	if err != nil {
		return nil, fmt.Errorf("creating payment client: %w", err)
	}

	images, err := imagestore.NewClient(cfg.UploadURL, cfg.UploadPreset)
	if err != nil {
		return nil, fmt.Errorf("creating image store client: %w", err)
	}

	users := auth.NewUserStore(db)

	s := &Server{
		users:         users,
		tokens:        tokens,
		authn:         auth.NewAuthenticator(tokens, users),
		props:         property.NewRepository(db),
		requests:      request.NewRepository(db),
		payments:      payment.NewRepository(db),
		processor:     processor,
		images:        images,
		webhookSecret: cfg.StripeWebhookSecret,
	}

	r := chi.NewRouter()
	r.Use(logging.RequestLogger)

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", s.handleRegister)
			r.Post("/login", s.handleLogin)
			r.Post("/logout", s.handleLogout)
			r.Get("/me", s.handleMe)
		})

		r.Route("/properties", func(r chi.Router) {
			r.Get("/", s.handleListProperties)
			r.Post("/", s.handleCreateProperty)
			r.Get("/{id}", s.handleGetProperty)
			r.Put("/{id}", s.handleUpdateProperty)
			r.Delete("/{id}", s.handleDeleteProperty)
		})

		r.Route("/requests", func(r chi.Router) {
			r.Get("/", s.handleListRequests)
			r.Post("/", s.handleCreateRequest)
			r.Put("/{id}", s.handleUpdateRequest)
		})

		r.Route("/payments", func(r chi.Router) {
			r.Get("/", s.handleListPayments)
			r.Post("/", s.handleCreatePayment)
			r.Post("/webhook", s.handleWebhook)
		})

		r.Post("/upload", s.handleUpload)
	})

	s.router = r
	return s, nil
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe(port int) error {
	addr := fmt.Sprintf(":%d", port)
	return http.ListenAndServe(addr, s)
}
