package web

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"

	"github.com/rentora/rentora/internal/db"
	"github.com/rentora/rentora/internal/stripe"
)

const testWebhookSecret = "whsec_test_secret"

// fakeProcessor stands in for the payment processor API.
type fakeProcessor struct {
	mu      sync.Mutex
	nextID  int
	failAll bool
}

func (f *fakeProcessor) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		if f.failAll {
			w.WriteHeader(http.StatusPaymentRequired)
			fmt.Fprint(w, `{"error": {"message": "Your card was declined."}}`)
			return
		}
		f.nextID++
		fmt.Fprintf(w, `{"id": "pi_test_%d", "client_secret": "pi_test_%d_secret"}`, f.nextID, f.nextID)
	})
}

func (f *fakeProcessor) setFail(fail bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failAll = fail
}

// fakeImageStore stands in for the image hosting upload endpoint.
type fakeImageStore struct {
	mu      sync.Mutex
	nextID  int
	failAll bool
}

func (f *fakeImageStore) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		if f.failAll {
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprint(w, `{"error": {"message": "Upload preset not found"}}`)
			return
		}
		f.nextID++
		fmt.Fprintf(w, `{"secure_url": "https://store.example/img/%d.jpg"}`, f.nextID)
	})
}

func (f *fakeImageStore) setFail(fail bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failAll = fail
}

type testEnv struct {
	t         *testing.T
	server    *Server
	db        *sql.DB
	processor *fakeProcessor
	images    *fakeImageStore
}

// newTestEnv builds a server over a temp database with both external
// services faked out.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	d, err := db.Open(path)
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() {
		if err := d.Close(); err != nil {
			t.Errorf("close test db: %v", err)
		}
	})

	processor := &fakeProcessor{}
	processorServer := httptest.NewServer(processor.handler())
	t.Cleanup(processorServer.Close)

	images := &fakeImageStore{}
	imageServer := httptest.NewServer(images.handler())
	t.Cleanup(imageServer.Close)

	server, err := NewServer(d, Config{
		JWTSecret:           "test-jwt-secret",
		StripeSecretKey:     "sk_test_123",
		StripeWebhookSecret: testWebhookSecret,
		UploadURL:           imageServer.URL,
		UploadPreset:        "rentora_unsigned",
	})
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	stripe.SetTestURL(server.processor, processorServer.URL)

	return &testEnv{
		t:         t,
		server:    server,
		db:        d,
		processor: processor,
		images:    images,
	}
}

// do runs a JSON request against the server, attaching the session
// cookie when given.
func (e *testEnv) do(method, path string, cookie *http.Cookie, body interface{}) *httptest.ResponseRecorder {
	e.t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			e.t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}

	rec := httptest.NewRecorder()
	e.server.ServeHTTP(rec, req)
	return rec
}

// decodeBody unmarshals a recorded JSON response.
func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
}

// errorMessage extracts the error envelope from a response.
func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
	}
	decodeBody(t, rec, &body)
	return body.Error
}

// sessionCookie pulls the session cookie out of a response.
func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == "rentora_token" {
			return c
		}
	}
	t.Fatal("no session cookie in response")
	return nil
}

// register creates an account and returns its id and session cookie.
func (e *testEnv) register(name, email, role string) (string, *http.Cookie) {
	e.t.Helper()

	rec := e.do("POST", "/api/auth/register", nil, map[string]string{
		"name":     name,
		"email":    email,
		"password": "password123",
		"role":     role,
		"phone":    "555-0100",
	})
	if rec.Code != http.StatusCreated {
		e.t.Fatalf("register %s: status %d: %s", email, rec.Code, rec.Body.String())
	}

	var body struct {
		User struct {
			ID string `json:"id"`
		} `json:"user"`
	}
	decodeBody(e.t, rec, &body)
	return body.User.ID, sessionCookie(e.t, rec)
}

// createProperty inserts a listing through the API as the given owner.
func (e *testEnv) createProperty(cookie *http.Cookie, title string, rent int64) string {
	e.t.Helper()

	rec := e.do("POST", "/api/properties", cookie, map[string]interface{}{
		"title":       title,
		"description": "A lovely place",
		"location":    "Springfield",
		"rent":        rent,
		"rooms":       2,
	})
	if rec.Code != http.StatusCreated {
		e.t.Fatalf("create property %q: status %d: %s", title, rec.Code, rec.Body.String())
	}

	var body struct {
		Property struct {
			ID string `json:"id"`
		} `json:"property"`
	}
	decodeBody(e.t, rec, &body)
	return body.Property.ID
}

// multipartUpload builds a multipart body with the given image files.
func multipartUpload(t *testing.T, field string, names []string) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, name := range names {
		fw, err := mw.CreateFormFile(field, name)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := fw.Write([]byte("fake-image-bytes")); err != nil {
			t.Fatalf("write form file: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}
	return &buf, mw.FormDataContentType()
}
