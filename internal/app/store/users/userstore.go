// internal/app/store/users/userstore.go
package userstore

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/techikansh/Kanban-Board/internal/app/system/normalize"
	"github.com/techikansh/Kanban-Board/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MinSearchLen is the shortest query SearchByEmail will run.
const MinSearchLen = 3

// SearchLimit caps the number of users SearchByEmail returns.
const SearchLimit = 5

var (
	// ErrDuplicateEmail is returned when attempting to create a user with an email that already exists.
	ErrDuplicateEmail = errors.New("a user with this email already exists")
	// ErrInvalidEmail is returned by Create for malformed addresses.
	ErrInvalidEmail = errors.New("email is not a valid address")
	// ErrAlreadyRegistered is returned when the credential ref already has a user.
	ErrAlreadyRegistered = errors.New("account is already registered")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

// GetByID loads a user by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		return models.User{}, err
	}
	return u, nil
}

// FindByEmail looks up a user by case-insensitive email. Returns mongo.ErrNoDocuments if not found.
func (s *Store) FindByEmail(ctx context.Context, email string) (models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"email_ci": text.Fold(normalize.Email(email))}).Decode(&u); err != nil {
		return models.User{}, err
	}
	return u, nil
}

// FindByCredentialRef looks up the user linked to an identity-provider subject.
func (s *Store) FindByCredentialRef(ctx context.Context, ref string) (models.User, error) {
	if ref == "" {
		return models.User{}, mongo.ErrNoDocuments
	}
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"credential_ref": ref}).Decode(&u); err != nil {
		return models.User{}, err
	}
	return u, nil
}

// Create inserts a new user. credentialRef may be empty when the identity
// provider does not expose a stable subject.
func (s *Store) Create(ctx context.Context, email, credentialRef string) (models.User, error) {
	if !normalize.ValidEmail(email) {
		return models.User{}, ErrInvalidEmail
	}
	now := time.Now().UTC()
	u := models.User{
		ID:            primitive.NewObjectID(),
		Email:         normalize.Email(email),
		CredentialRef: credentialRef,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	u.EmailCI = text.Fold(u.Email)

	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			if strings.Contains(err.Error(), "credential_ref") {
				return models.User{}, ErrAlreadyRegistered
			}
			return models.User{}, ErrDuplicateEmail
		}
		return models.User{}, err
	}
	return u, nil
}

// SearchByEmail returns up to SearchLimit users whose email contains q,
// case-insensitively, skipping excludeEmail (normally the caller). Queries
// shorter than MinSearchLen return no results.
func (s *Store) SearchByEmail(ctx context.Context, q, excludeEmail string) ([]models.User, error) {
	q = normalize.Email(q)
	if len([]rune(q)) < MinSearchLen {
		return []models.User{}, nil
	}

	filter := bson.M{
		"email_ci": bson.M{"$regex": regexp.QuoteMeta(text.Fold(q)), "$options": "i"},
	}
	if ex := normalize.Email(excludeEmail); ex != "" {
		filter["email_ci"].(bson.M)["$ne"] = text.Fold(ex)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "email_ci", Value: 1}}).
		SetLimit(SearchLimit).
		SetProjection(bson.M{"_id": 1, "email": 1, "email_ci": 1})

	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make([]models.User, 0, SearchLimit)
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
