package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/techikansh/Kanban-Board/internal/app/system/auth"
	"github.com/techikansh/Kanban-Board/internal/domain/models"
)

// Errorer is the subset of testing.TB the assertion helpers need.
type Errorer interface {
	Helper()
	Errorf(format string, args ...any)
}

// WithUser adds u's identity to the request context for testing
// authenticated handlers. This bypasses the identity gate.
func WithUser(r *http.Request, u models.User) *http.Request {
	ctx := auth.WithPrincipal(r.Context(), auth.Principal{Subject: u.CredentialRef, Email: u.Email})
	ctx = auth.WithIdentity(ctx, auth.Identity{UserID: u.ID, Email: u.Email})
	return r.WithContext(ctx)
}

// WithPrincipal adds a verified but unregistered principal to the request.
func WithPrincipal(r *http.Request, p auth.Principal) *http.Request {
	return r.WithContext(auth.WithPrincipal(r.Context(), p))
}

// JSONBody encodes v for use as a request body.
func JSONBody(v any) io.Reader {
	if s, ok := v.(string); ok {
		return strings.NewReader(s)
	}
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return bytes.NewReader(b)
}

// NewRequest creates an HTTP request for testing.
func NewRequest(method, target string, body io.Reader) *http.Request {
	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

// NewAuthenticatedRequest creates an HTTP request with u in context.
func NewAuthenticatedRequest(method, target string, body io.Reader, u models.User) *http.Request {
	return WithUser(NewRequest(method, target, body), u)
}

// AssertStatus checks the response status code.
func AssertStatus(t Errorer, rec *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if rec.Code != expected {
		t.Errorf("status code: got %d, want %d (body: %s)", rec.Code, expected, rec.Body.String())
	}
}

// AssertContains checks if the response body contains the expected string.
func AssertContains(t Errorer, rec *httptest.ResponseRecorder, expected string) {
	t.Helper()
	if !strings.Contains(rec.Body.String(), expected) {
		t.Errorf("response body does not contain %q: %s", expected, rec.Body.String())
	}
}

// DecodeJSON unmarshals the response body into v.
func DecodeJSON(t interface {
	Helper()
	Fatalf(format string, args ...any)
}, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("failed to parse response JSON: %v (body: %s)", err, rec.Body.String())
	}
}
