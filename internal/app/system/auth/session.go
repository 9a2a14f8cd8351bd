package auth

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

const (
	DefaultSessionName = "kanban-session"

	isAuthKey = "is_authenticated"
	userIDKey = "user_id"
	userEmail = "user_email"
)

// SessionVerifier reads the principal from a signed cookie issued by the
// login service that shares the session key.
type SessionVerifier struct {
	Store sessions.Store
	Name  string
	Log   *zap.Logger
}

// NewSessionStore builds the cookie store. The `secure` flag controls whether
// cookies are marked Secure and which SameSite mode is used.
func NewSessionStore(sessionKey, domain string, secure bool, logger *zap.Logger) (*sessions.CookieStore, error) {
	if sessionKey == "" {
		return nil, fmt.Errorf("session key is empty; provide ≥32 random chars")
	}
	if len(sessionKey) < 32 {
		logger.Warn("session key is short; 32+ chars recommended",
			zap.Int("length", len(sessionKey)))
	}

	store := sessions.NewCookieStore([]byte(sessionKey))
	opts := &sessions.Options{
		Domain:   domain,
		Path:     "/",
		Secure:   secure,
		HttpOnly: true,
	}
	if secure {
		opts.SameSite = http.SameSiteNoneMode
	} else {
		opts.SameSite = http.SameSiteLaxMode
	}
	store.Options = opts

	logger.Info("session store initialized",
		zap.Bool("secure", secure),
		zap.String("domain", domain))
	return store, nil
}

// NewSessionVerifier returns a verifier reading cookie name from store.
func NewSessionVerifier(store sessions.Store, name string, logger *zap.Logger) *SessionVerifier {
	if name == "" {
		name = DefaultSessionName
	}
	return &SessionVerifier{Store: store, Name: name, Log: logger}
}

func (v *SessionVerifier) Verify(r *http.Request) (Principal, error) {
	sess, err := v.Store.Get(r, v.Name)
	if err != nil {
		var scErr securecookie.Error
		if errors.As(err, &scErr) && scErr.IsDecode() {
			// Tampered, expired or signed with a rotated key.
			v.Log.Debug("session cookie rejected", zap.Error(err))
			return Principal{}, ErrNoCredentials
		}
		return Principal{}, err
	}

	if isAuth, _ := sess.Values[isAuthKey].(bool); !isAuth {
		return Principal{}, ErrNoCredentials
	}
	p := Principal{
		Subject: getString(sess, userIDKey),
		Email:   getString(sess, userEmail),
	}
	if p.Subject == "" && p.Email == "" {
		return Principal{}, ErrNoCredentials
	}
	return p, nil
}

// Issue writes a session cookie for p. The production login flow lives in
// the external identity service; this is its contract.
func (v *SessionVerifier) Issue(w http.ResponseWriter, r *http.Request, p Principal) error {
	sess, _ := v.Store.Get(r, v.Name)
	sess.Values[isAuthKey] = true
	sess.Values[userIDKey] = p.Subject
	sess.Values[userEmail] = p.Email
	return sess.Save(r, w)
}

// getString safely extracts a string from a session value.
func getString(s *sessions.Session, key string) string {
	if v, ok := s.Values[key].(string); ok {
		return v
	}
	return ""
}
