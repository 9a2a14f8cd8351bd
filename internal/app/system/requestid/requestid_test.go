package requestid_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/techikansh/Kanban-Board/internal/app/system/requestid"
	"go.uber.org/zap"
)

func TestMiddleware_GeneratesID(t *testing.T) {
	var seen string
	h := requestid.Middleware(zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = requestid.FromContext(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/projects", nil))

	if _, err := uuid.Parse(seen); err != nil {
		t.Fatalf("expected generated uuid in context, got %q", seen)
	}
	if got := rec.Header().Get(requestid.Header); got != seen {
		t.Errorf("response header: got %q, want %q", got, seen)
	}
}

func TestMiddleware_HonorsInboundID(t *testing.T) {
	var seen string
	h := requestid.Middleware(zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = requestid.FromContext(r.Context())
		w.WriteHeader(http.StatusNotFound)
	}))

	req := httptest.NewRequest("GET", "/projects", nil)
	req.Header.Set(requestid.Header, "trace-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if seen != "trace-123" {
		t.Errorf("context id: got %q, want %q", seen, "trace-123")
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusNotFound)
	}
}
