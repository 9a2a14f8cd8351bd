package auth_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	fbauth "firebase.google.com/go/v4/auth"
	"github.com/techikansh/Kanban-Board/internal/app/system/auth"
	"github.com/techikansh/Kanban-Board/internal/testutil"
	"go.uber.org/zap"
)

const testKey = "test-session-key-must-be-32-chars-long"

func newSessionVerifier(t *testing.T) *auth.SessionVerifier {
	t.Helper()
	store, err := auth.NewSessionStore(testKey, "", false, zap.NewNop())
	if err != nil {
		t.Fatalf("failed to create session store: %v", err)
	}
	return auth.NewSessionVerifier(store, "test-session", zap.NewNop())
}

// issueCookie returns a request carrying a session cookie for p.
func issueCookie(t *testing.T, v *auth.SessionVerifier, p auth.Principal) *http.Request {
	t.Helper()
	rec := httptest.NewRecorder()
	if err := v.Issue(rec, httptest.NewRequest("GET", "/", nil), p); err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	req := httptest.NewRequest("GET", "/projects", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	return req
}

// probe records the identity the gate resolved.
type probe struct {
	called   bool
	identity auth.Identity
	hasID    bool
}

func (p *probe) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p.called = true
		p.identity, p.hasID = auth.CurrentIdentity(r)
		w.WriteHeader(http.StatusOK)
	})
}

func TestNewSessionStore_EmptyKey(t *testing.T) {
	if _, err := auth.NewSessionStore("", "", false, zap.NewNop()); err == nil {
		t.Fatal("expected error for empty session key")
	}
}

func TestGate_SessionResolvesByCredentialRef(t *testing.T) {
	mem := testutil.NewMemStore()
	u := mem.SeedUser("alice@example.com")
	v := newSessionVerifier(t)
	gate := auth.NewGate(v, mem.Set().Users, zap.NewNop())

	req := issueCookie(t, v, auth.Principal{Subject: u.CredentialRef, Email: "stale@example.com"})
	p := &probe{}
	rec := httptest.NewRecorder()
	gate.Load(auth.RequireIdentity(p.handler())).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	if !p.hasID || p.identity.UserID != u.ID {
		t.Errorf("identity: got %+v, want user %s", p.identity, u.ID.Hex())
	}
	if p.identity.Email != "alice@example.com" {
		t.Errorf("identity email: got %q", p.identity.Email)
	}
}

func TestGate_EmailFallbackForUnboundUser(t *testing.T) {
	mem := testutil.NewMemStore()
	u := mem.SeedUnboundUser("alice@example.com")
	v := newSessionVerifier(t)
	gate := auth.NewGate(v, mem.Set().Users, zap.NewNop())

	req := issueCookie(t, v, auth.Principal{Subject: "unknown-subject", Email: "Alice@Example.com"})
	p := &probe{}
	gate.Load(p.handler()).ServeHTTP(httptest.NewRecorder(), req)

	if !p.hasID || p.identity.UserID != u.ID {
		t.Errorf("expected email fallback to resolve %s, got %+v", u.ID.Hex(), p.identity)
	}
}

func TestGate_EmailFallbackRefusedForBoundUser(t *testing.T) {
	mem := testutil.NewMemStore()
	victim := mem.SeedUser("victim@example.com")
	v := newSessionVerifier(t)
	gate := auth.NewGate(v, mem.Set().Users, zap.NewNop())

	tests := []struct {
		name      string
		principal auth.Principal
	}{
		{"other subject", auth.Principal{Subject: "attacker-uid", Email: "victim@example.com"}},
		{"no subject", auth.Principal{Email: "victim@example.com"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &probe{}
			var principal auth.Principal
			var hasPrincipal bool
			h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				principal, hasPrincipal = auth.CurrentPrincipal(r)
				p.handler().ServeHTTP(w, r)
			})
			rec := httptest.NewRecorder()
			gate.Load(h).ServeHTTP(rec, issueCookie(t, v, tt.principal))

			if rec.Code != http.StatusOK {
				t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
			}
			if p.hasID {
				t.Errorf("principal resolved to %s, which is bound to %q", p.identity.UserID.Hex(), victim.CredentialRef)
			}
			if !hasPrincipal || principal != tt.principal {
				t.Errorf("principal should still be in context, got %+v", principal)
			}
		})
	}
}

func TestGate_OwnSubjectStillMatchesByEmail(t *testing.T) {
	mem := testutil.NewMemStore()
	u := mem.SeedUser("bob@example.com")
	v := newSessionVerifier(t)
	gate := auth.NewGate(v, mem.Set().Users, zap.NewNop())

	p := &probe{}
	gate.Load(p.handler()).ServeHTTP(httptest.NewRecorder(),
		issueCookie(t, v, auth.Principal{Subject: u.CredentialRef, Email: "bob@example.com"}))
	if !p.hasID || p.identity.UserID != u.ID {
		t.Errorf("expected %s, got %+v", u.ID.Hex(), p.identity)
	}
}

func TestGate_NoCookie_Returns401(t *testing.T) {
	mem := testutil.NewMemStore()
	gate := auth.NewGate(newSessionVerifier(t), mem.Set().Users, zap.NewNop())

	p := &probe{}
	rec := httptest.NewRecorder()
	gate.Load(auth.RequireIdentity(p.handler())).ServeHTTP(rec, httptest.NewRequest("GET", "/projects", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected status %d, got %d", http.StatusUnauthorized, rec.Code)
	}
	if p.called {
		t.Error("protected handler must not run")
	}
	testutil.AssertContains(t, rec, `"error":"unauthenticated"`)
}

func TestGate_TamperedCookie_Returns401(t *testing.T) {
	mem := testutil.NewMemStore()
	mem.SeedUser("alice@example.com")
	v := newSessionVerifier(t)

	other, _ := auth.NewSessionStore("another-session-key-that-is-32-chars!!", "", false, zap.NewNop())
	forger := auth.NewSessionVerifier(other, "test-session", zap.NewNop())
	req := issueCookie(t, forger, auth.Principal{Email: "alice@example.com"})

	rec := httptest.NewRecorder()
	gate := auth.NewGate(v, mem.Set().Users, zap.NewNop())
	gate.Load(auth.RequireIdentity((&probe{}).handler())).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected status %d, got %d", http.StatusUnauthorized, rec.Code)
	}
}

func TestGate_UnregisteredPrincipal(t *testing.T) {
	mem := testutil.NewMemStore()
	v := newSessionVerifier(t)
	gate := auth.NewGate(v, mem.Set().Users, zap.NewNop())
	principal := auth.Principal{Subject: "sub-1", Email: "new@example.com"}

	// Registration only needs the principal.
	var seen auth.Principal
	reg := auth.RequirePrincipal(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = auth.CurrentPrincipal(r)
	}))
	rec := httptest.NewRecorder()
	gate.Load(reg).ServeHTTP(rec, issueCookie(t, v, principal))
	if rec.Code != http.StatusOK || seen != principal {
		t.Errorf("RequirePrincipal: status %d, principal %+v", rec.Code, seen)
	}

	rec = httptest.NewRecorder()
	gate.Load(auth.RequireIdentity((&probe{}).handler())).ServeHTTP(rec, issueCookie(t, v, principal))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("RequireIdentity: expected %d, got %d", http.StatusUnauthorized, rec.Code)
	}
}

func TestGate_DirectoryFailure_Returns500(t *testing.T) {
	mem := testutil.NewMemStore()
	mem.Fail["FindByEmail"] = errors.New("mongo down")
	v := newSessionVerifier(t)
	gate := auth.NewGate(v, mem.Set().Users, zap.NewNop())

	p := &probe{}
	rec := httptest.NewRecorder()
	gate.Load(p.handler()).ServeHTTP(rec, issueCookie(t, v, auth.Principal{Email: "alice@example.com"}))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected status %d, got %d", http.StatusInternalServerError, rec.Code)
	}
	if p.called {
		t.Error("handler must not run when the directory fails")
	}
}

type fakeTokens map[string]*fbauth.Token

func (f fakeTokens) VerifyIDToken(_ context.Context, tok string) (*fbauth.Token, error) {
	if t, ok := f[tok]; ok {
		return t, nil
	}
	return nil, errors.New("invalid token")
}

func TestFirebaseVerifier(t *testing.T) {
	v := &auth.FirebaseVerifier{
		Tokens: fakeTokens{
			"good":       {UID: "fb-uid", Claims: map[string]interface{}{"email": "bob@example.com", "email_verified": true}},
			"unverified": {UID: "fb-uid", Claims: map[string]interface{}{"email": "victim@example.com", "email_verified": false}},
			"no-claim":   {UID: "fb-uid", Claims: map[string]interface{}{"email": "victim@example.com"}},
		},
		Log:    zap.NewNop(),
	}

	tests := []struct {
		name    string
		header  string
		want    auth.Principal
		wantErr bool
		noCreds bool
	}{
		{"valid", "Bearer good", auth.Principal{Subject: "fb-uid", Email: "bob@example.com"}, false, false},
		{"lowercase scheme", "bearer good", auth.Principal{Subject: "fb-uid", Email: "bob@example.com"}, false, false},
		{"unverified email dropped", "Bearer unverified", auth.Principal{Subject: "fb-uid"}, false, false},
		{"missing verified claim", "Bearer no-claim", auth.Principal{Subject: "fb-uid"}, false, false},
		{"missing header", "", auth.Principal{}, true, true},
		{"wrong scheme", "Basic Zm9vOmJhcg==", auth.Principal{}, true, true},
		{"bad token", "Bearer forged", auth.Principal{}, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			got, err := v.Verify(req)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				if tt.noCreds != errors.Is(err, auth.ErrNoCredentials) {
					t.Errorf("ErrNoCredentials: got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Verify failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestFirebaseVerifier_ThroughGate(t *testing.T) {
	mem := testutil.NewMemStore()
	u := mem.SeedUser("bob@example.com")
	v := &auth.FirebaseVerifier{
		Tokens: fakeTokens{"good": {UID: u.CredentialRef}},
		Log:    zap.NewNop(),
	}
	gate := auth.NewGate(v, mem.Set().Users, zap.NewNop())

	req := httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", "Bearer good")
	p := &probe{}
	gate.Load(p.handler()).ServeHTTP(httptest.NewRecorder(), req)

	if !p.hasID || p.identity.UserID != u.ID {
		t.Errorf("expected identity for %s, got %+v", u.ID.Hex(), p.identity)
	}
}

func TestCurrentIdentity_NoIdentity(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	if _, ok := auth.CurrentIdentity(req); ok {
		t.Error("expected ok to be false when no identity in context")
	}
}
