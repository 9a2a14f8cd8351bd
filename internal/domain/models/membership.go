// internal/domain/models/membership.go
package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemberRole is the closed set of roles a non-owner can hold on a project.
type MemberRole string

const (
	MemberViewer MemberRole = "viewer"
	MemberEditor MemberRole = "editor"
)

// ParseMemberRole validates a role string. Blank defaults to viewer.
func ParseMemberRole(s string) (MemberRole, error) {
	switch MemberRole(strings.ToLower(strings.TrimSpace(s))) {
	case "", MemberViewer:
		return MemberViewer, nil
	case MemberEditor:
		return MemberEditor, nil
	}
	return "", ErrInvalidRole
}

// Membership is embedded in Project.Members, one entry per user.
// Email is a snapshot taken when the member was added and is not kept in
// sync with the user's current email.
type Membership struct {
	UserID  primitive.ObjectID `bson:"user_id" json:"userId"`
	Email   string             `bson:"email" json:"email"`
	Role    MemberRole         `bson:"role" json:"role"`
	AddedAt time.Time          `bson:"added_at" json:"addedAt"`
}
