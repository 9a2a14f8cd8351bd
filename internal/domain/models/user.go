// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is a registered account. Credentials live with the identity provider;
// CredentialRef is the provider's subject for this account (Firebase uid or
// the external login service's id) and is never a secret.
//
// Users are never deleted. Email is stored as entered; EmailCI is the folded
// form used for lookups and the unique index.
type User struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email         string             `bson:"email" json:"email"`
	EmailCI       string             `bson:"email_ci" json:"-"`
	CredentialRef string             `bson:"credential_ref,omitempty" json:"-"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}
