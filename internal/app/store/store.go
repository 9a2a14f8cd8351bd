// Package store groups the persistence contracts the HTTP features depend
// on. The Mongo-backed implementations live in the subpackages.
package store

import (
	"context"

	projectstore "github.com/techikansh/Kanban-Board/internal/app/store/projects"
	taskstore "github.com/techikansh/Kanban-Board/internal/app/store/tasks"
	userstore "github.com/techikansh/Kanban-Board/internal/app/store/users"
	"github.com/techikansh/Kanban-Board/internal/app/system/queryfilter"
	"github.com/techikansh/Kanban-Board/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Projects is implemented by projectstore.Store.
type Projects interface {
	Create(ctx context.Context, p models.Project) (models.Project, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (models.Project, error)
	ListForUser(ctx context.Context, userID primitive.ObjectID, f queryfilter.ProjectFilter) ([]models.Project, error)
	Update(ctx context.Context, p models.Project, in models.ProjectInput) (models.Project, error)
	AddMember(ctx context.Context, projectID primitive.ObjectID, m models.Membership) (bool, error)
	RemoveMember(ctx context.Context, projectID, userID primitive.ObjectID) (bool, error)
	Delete(ctx context.Context, id primitive.ObjectID) (int64, error)
	ExistingIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]bool, error)
}

// Tasks is implemented by taskstore.Store.
type Tasks interface {
	Create(ctx context.Context, t models.Task) (models.Task, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (models.Task, error)
	ListByProject(ctx context.Context, projectID primitive.ObjectID, f queryfilter.TaskFilter) ([]models.Task, error)
	Update(ctx context.Context, t models.Task) (models.Task, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.TaskStatus) (models.Task, error)
	Delete(ctx context.Context, id primitive.ObjectID) (int64, error)
	DeleteByProject(ctx context.Context, projectID primitive.ObjectID) (int64, error)
	ProjectIDs(ctx context.Context) ([]primitive.ObjectID, error)
}

// Users is implemented by userstore.Store.
type Users interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (models.User, error)
	FindByEmail(ctx context.Context, email string) (models.User, error)
	FindByCredentialRef(ctx context.Context, ref string) (models.User, error)
	Create(ctx context.Context, email, credentialRef string) (models.User, error)
	SearchByEmail(ctx context.Context, q, excludeEmail string) ([]models.User, error)
}

// Set bundles one implementation of each store.
type Set struct {
	Projects Projects
	Tasks    Tasks
	Users    Users
}

// NewMongo returns the Mongo-backed Set for db.
func NewMongo(db *mongo.Database) Set {
	return Set{
		Projects: projectstore.New(db),
		Tasks:    taskstore.New(db),
		Users:    userstore.New(db),
	}
}
