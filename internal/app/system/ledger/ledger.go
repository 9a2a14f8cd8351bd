// Package ledger maintains project membership. It trusts its caller for
// authorization: only call it after projectpolicy.Load with Manage.
package ledger

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/techikansh/Kanban-Board/internal/app/policy/projectpolicy"
	"github.com/techikansh/Kanban-Board/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrAlreadyMember = errors.New("user is already a member of this project")
)

// UserDirectory resolves an email to a registered user, returning
// mongo.ErrNoDocuments when nobody has that email.
type UserDirectory interface {
	FindByEmail(ctx context.Context, email string) (models.User, error)
}

// MemberStore performs the atomic membership writes.
type MemberStore interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (models.Project, error)
	AddMember(ctx context.Context, projectID primitive.ObjectID, m models.Membership) (bool, error)
	RemoveMember(ctx context.Context, projectID, userID primitive.ObjectID) (bool, error)
}

type Ledger struct {
	Users   UserDirectory
	Members MemberStore
	Now     func() time.Time
	Log     *zap.Logger
}

func New(users UserDirectory, members MemberStore, logger *zap.Logger) *Ledger {
	return &Ledger{Users: users, Members: members, Now: time.Now, Log: logger}
}

// AddMember grants role on p to the user registered under email.
// The owner counts as already present.
func (l *Ledger) AddMember(ctx context.Context, p models.Project, email string, role models.MemberRole) (models.Membership, error) {
	if role != models.MemberViewer && role != models.MemberEditor {
		return models.Membership{}, models.ErrInvalidRole
	}

	u, err := l.Users.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Membership{}, ErrUserNotFound
		}
		return models.Membership{}, err
	}
	if u.ID == p.OwnerID {
		return models.Membership{}, ErrAlreadyMember
	}
	if _, ok := p.Member(u.ID); ok {
		return models.Membership{}, ErrAlreadyMember
	}

	m := models.Membership{
		UserID:  u.ID,
		Email:   u.Email,
		Role:    role,
		AddedAt: l.Now().UTC(),
	}
	added, err := l.Members.AddMember(ctx, p.ID, m)
	if err != nil {
		return models.Membership{}, err
	}
	if !added {
		// Either a concurrent add for the same user won, or the project is gone.
		if _, err := l.Members.GetByID(ctx, p.ID); err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return models.Membership{}, projectpolicy.ErrNotFound
			}
			return models.Membership{}, err
		}
		return models.Membership{}, ErrAlreadyMember
	}
	l.Log.Info("member added",
		zap.String("project_id", p.ID.Hex()),
		zap.String("user_id", m.UserID.Hex()),
		zap.String("role", string(m.Role)))
	return m, nil
}

// RemoveMember revokes userID's membership. Removing a non-member succeeds
// and reports false.
func (l *Ledger) RemoveMember(ctx context.Context, projectID, userID primitive.ObjectID) (bool, error) {
	removed, err := l.Members.RemoveMember(ctx, projectID, userID)
	if err != nil {
		return false, err
	}
	if removed {
		l.Log.Info("member removed",
			zap.String("project_id", projectID.Hex()),
			zap.String("user_id", userID.Hex()))
	}
	return removed, nil
}
