// internal/app/system/board/board.go
//
// Package board is the task-column state machine. Every status can move to
// every other status; there is no terminal column.
package board

import (
	"context"
	"errors"

	"github.com/techikansh/Kanban-Board/internal/app/policy/projectpolicy"
	"github.com/techikansh/Kanban-Board/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// ErrTaskNotFound covers a missing task and one whose project the caller
// cannot see.
var ErrTaskNotFound = errors.New("task not found")

// CanTransition reports whether a task may move from one column to another.
func CanTransition(from, to models.TaskStatus) bool {
	return valid(from) && valid(to)
}

func valid(s models.TaskStatus) bool {
	for _, st := range models.Statuses {
		if s == st {
			return true
		}
	}
	return false
}

// TaskGetter loads a task, returning mongo.ErrNoDocuments when absent.
type TaskGetter interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (models.Task, error)
}

// TaskStore is the slice of the task store the machine needs.
type TaskStore interface {
	TaskGetter
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.TaskStatus) (models.Task, error)
}

// Machine persists column moves after checking the actor may edit tasks.
type Machine struct {
	Projects projectpolicy.Getter
	Tasks    TaskStore
}

func NewMachine(projects projectpolicy.Getter, tasks TaskStore) *Machine {
	return &Machine{Projects: projects, Tasks: tasks}
}

// LoadTask fetches taskID and its project, checking actor holds need on the
// project. A task whose project is gone is reported as not found.
func LoadTask(ctx context.Context, projects projectpolicy.Getter, tasks TaskGetter, taskID, actor primitive.ObjectID, need projectpolicy.Capability) (models.Task, models.Project, error) {
	t, err := tasks.GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Task{}, models.Project{}, ErrTaskNotFound
		}
		return models.Task{}, models.Project{}, err
	}
	p, _, err := projectpolicy.Load(ctx, projects, actor, t.ProjectID, need)
	if err != nil {
		if errors.Is(err, projectpolicy.ErrNotFound) {
			return models.Task{}, models.Project{}, ErrTaskNotFound
		}
		return models.Task{}, models.Project{}, err
	}
	return t, p, nil
}

// MoveTask sets taskID's status to `to` on behalf of actor. Owners and
// editors may make any move; viewers get projectpolicy.ErrForbidden.
func (m *Machine) MoveTask(ctx context.Context, taskID primitive.ObjectID, to models.TaskStatus, actor primitive.ObjectID) (models.Task, error) {
	if !valid(to) {
		return models.Task{}, models.ErrInvalidStatus
	}
	t, _, err := LoadTask(ctx, m.Projects, m.Tasks, taskID, actor, projectpolicy.EditTasks)
	if err != nil {
		return models.Task{}, err
	}
	updated, err := m.Tasks.UpdateStatus(ctx, t.ID, to)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Task{}, ErrTaskNotFound
		}
		return models.Task{}, err
	}
	return updated, nil
}
