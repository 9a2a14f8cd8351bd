package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"github.com/techikansh/Kanban-Board/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		rctx = chi.NewRouteContext()
		r = r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
	}
	rctx.URLParams.Add(key, value)
	return r
}

// Fixtures provides helper methods for creating test data directly in a
// test database, bypassing the stores.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser inserts a user with the given email.
func (f *Fixtures) CreateUser(ctx context.Context, email string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	u := models.User{
		ID:            primitive.NewObjectID(),
		Email:         email,
		EmailCI:       text.Fold(email),
		CredentialRef: "ext-" + primitive.NewObjectID().Hex(),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if _, err := f.db.Collection("users").InsertOne(ctx, u); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return u
}

// CreateProject inserts a project owned by ownerID with no members.
func (f *Fixtures) CreateProject(ctx context.Context, title string, ownerID primitive.ObjectID) models.Project {
	f.t.Helper()

	now := time.Now().UTC()
	p := models.Project{
		ID:        primitive.NewObjectID(),
		Title:     title,
		TitleCI:   text.Fold(title),
		OwnerID:   ownerID,
		Members:   []models.Membership{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := f.db.Collection("projects").InsertOne(ctx, p); err != nil {
		f.t.Fatalf("failed to create test project: %v", err)
	}
	return p
}

// AddMember pushes a membership onto an existing project document.
func (f *Fixtures) AddMember(ctx context.Context, projectID primitive.ObjectID, u models.User, role models.MemberRole) models.Membership {
	f.t.Helper()

	m := models.Membership{UserID: u.ID, Email: u.Email, Role: role, AddedAt: time.Now().UTC()}
	_, err := f.db.Collection("projects").UpdateByID(ctx, projectID, bson.M{"$push": bson.M{"members": m}})
	if err != nil {
		f.t.Fatalf("failed to add test member: %v", err)
	}
	return m
}

// CreateTask inserts a task in projectID.
func (f *Fixtures) CreateTask(ctx context.Context, projectID, ownerID primitive.ObjectID, txt string, status models.TaskStatus) models.Task {
	f.t.Helper()

	now := time.Now().UTC()
	t := models.Task{
		ID:        primitive.NewObjectID(),
		Text:      txt,
		TextCI:    text.Fold(txt),
		Status:    status,
		ProjectID: projectID,
		OwnerID:   ownerID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := f.db.Collection("todos").InsertOne(ctx, t); err != nil {
		f.t.Fatalf("failed to create test task: %v", err)
	}
	return t
}
