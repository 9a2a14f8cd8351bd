package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	firebase "firebase.google.com/go/v4"
	fbauth "firebase.google.com/go/v4/auth"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// TokenVerifier checks a Firebase ID token. *fbauth.Client satisfies it.
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*fbauth.Token, error)
}

// FirebaseVerifier authenticates `Authorization: Bearer <ID token>` requests.
type FirebaseVerifier struct {
	Tokens TokenVerifier
	Log    *zap.Logger
}

// NewFirebaseVerifier initializes the Admin SDK from a service account file.
func NewFirebaseVerifier(ctx context.Context, credentialsPath, projectID string, logger *zap.Logger) (*FirebaseVerifier, error) {
	var cfg *firebase.Config
	if projectID != "" {
		cfg = &firebase.Config{ProjectID: projectID}
	}
	app, err := firebase.NewApp(ctx, cfg, option.WithCredentialsFile(credentialsPath))
	if err != nil {
		return nil, fmt.Errorf("firebase app: %w", err)
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("firebase auth client: %w", err)
	}
	logger.Info("firebase token verifier initialized", zap.String("project_id", projectID))
	return &FirebaseVerifier{Tokens: client, Log: logger}, nil
}

// Verify checks the bearer token. The email claim is only carried over when
// the provider marks it verified.
func (v *FirebaseVerifier) Verify(r *http.Request) (Principal, error) {
	tok := bearerToken(r)
	if tok == "" {
		return Principal{}, ErrNoCredentials
	}
	decoded, err := v.Tokens.VerifyIDToken(r.Context(), tok)
	if err != nil {
		return Principal{}, fmt.Errorf("verify id token: %w", err)
	}
	p := Principal{Subject: decoded.UID}
	if verified, _ := decoded.Claims["email_verified"].(bool); verified {
		p.Email, _ = decoded.Claims["email"].(string)
	}
	return p, nil
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "Bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}
