package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/techikansh/Kanban-Board/internal/app/system/apierr"
	"github.com/techikansh/Kanban-Board/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

/*─────────────────────────────────────────────────────────────────────────────*
| Principal & Identity                                                       |
*─────────────────────────────────────────────────────────────────────────────*/

// Principal is what the external identity provider vouches for: a stable
// subject and the email it was issued to.
type Principal struct {
	Subject string
	Email   string
}

// Identity is a principal resolved to a registered user.
type Identity struct {
	UserID primitive.ObjectID
	Email  string
}

// ErrNoCredentials means the request carried nothing to verify.
var ErrNoCredentials = errors.New("no credentials")

// Verifier extracts and checks the caller's credentials.
type Verifier interface {
	Verify(r *http.Request) (Principal, error)
}

// Directory maps a principal to a local user. Both lookups return
// mongo.ErrNoDocuments on a miss.
type Directory interface {
	FindByCredentialRef(ctx context.Context, ref string) (models.User, error)
	FindByEmail(ctx context.Context, email string) (models.User, error)
}

type ctxKey string

const (
	principalKey ctxKey = "principal"
	identityKey  ctxKey = "identity"
)

// WithPrincipal returns ctx carrying p.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// WithIdentity returns ctx carrying id.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// CurrentPrincipal returns the verified principal & "found?" flag.
func CurrentPrincipal(r *http.Request) (Principal, bool) {
	p, ok := r.Context().Value(principalKey).(Principal)
	return p, ok
}

// CurrentIdentity returns the resolved identity & "found?" flag.
func CurrentIdentity(r *http.Request) (Identity, bool) {
	id, ok := r.Context().Value(identityKey).(Identity)
	return id, ok && !id.UserID.IsZero()
}

/*─────────────────────────────────────────────────────────────────────────────*
| Gate                                                                       |
*─────────────────────────────────────────────────────────────────────────────*/

// Gate resolves each request to an identity before any handler runs.
type Gate struct {
	Verifier Verifier
	Users    Directory
	Log      *zap.Logger
}

// NewGate builds a Gate.
func NewGate(v Verifier, users Directory, logger *zap.Logger) *Gate {
	return &Gate{Verifier: v, Users: users, Log: logger}
}

// Load puts the principal and, when the user is registered, the identity
// into the request context. It never rejects; see RequireIdentity.
func (g *Gate) Load(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, err := g.Verifier.Verify(r)
		if err != nil {
			if !errors.Is(err, ErrNoCredentials) {
				g.Log.Debug("credential verification failed", zap.Error(err))
			}
			next.ServeHTTP(w, r)
			return
		}

		ctx := WithPrincipal(r.Context(), p)
		u, err := g.resolve(ctx, p)
		switch {
		case err == nil:
			ctx = WithIdentity(ctx, Identity{UserID: u.ID, Email: u.Email})
		case errors.Is(err, mongo.ErrNoDocuments):
			// verified but not registered yet
		default:
			apierr.Write(w, r, g.Log, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (g *Gate) resolve(ctx context.Context, p Principal) (models.User, error) {
	if p.Subject != "" {
		u, err := g.Users.FindByCredentialRef(ctx, p.Subject)
		if err == nil || !errors.Is(err, mongo.ErrNoDocuments) {
			return u, err
		}
	}
	if p.Email == "" {
		return models.User{}, mongo.ErrNoDocuments
	}
	u, err := g.Users.FindByEmail(ctx, p.Email)
	if err != nil {
		return models.User{}, err
	}
	// An email match only counts when the account is not bound to another subject.
	if u.CredentialRef != "" && u.CredentialRef != p.Subject {
		g.Log.Warn("email belongs to a user bound to another subject",
			zap.String("user_id", u.ID.Hex()))
		return models.User{}, mongo.ErrNoDocuments
	}
	return u, nil
}

// RequireIdentity rejects requests without a registered identity with 401.
func RequireIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentIdentity(r); !ok {
			apierr.Write(w, r, nil, apierr.ErrUnauthenticated)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequirePrincipal rejects requests without verified credentials with 401.
// Used by registration, where no local user exists yet.
func RequirePrincipal(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentPrincipal(r); !ok {
			apierr.Write(w, r, nil, apierr.ErrUnauthenticated)
			return
		}
		next.ServeHTTP(w, r)
	})
}
