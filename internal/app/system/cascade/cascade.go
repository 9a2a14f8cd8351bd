// internal/app/system/cascade/cascade.go
//
// Package cascade deletes a project and its tasks as two ordered,
// independently idempotent steps. The store offers no cross-document
// transaction, so a failure between the steps leaves orphaned tasks.
// Those are unreachable (tasks are only read through their project) and
// SweepOrphans removes them later.
package cascade

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// ErrTasksPending means the project is gone but deleting its tasks failed.
// Retrying the delete, or running the orphan sweep, finishes the job.
var ErrTasksPending = errors.New("project deleted; tasks pending cleanup")

// ProjectDeleter is step one.
type ProjectDeleter interface {
	Delete(ctx context.Context, id primitive.ObjectID) (int64, error)
	ExistingIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]bool, error)
}

// TaskDeleter is step two.
type TaskDeleter interface {
	DeleteByProject(ctx context.Context, projectID primitive.ObjectID) (int64, error)
	ProjectIDs(ctx context.Context) ([]primitive.ObjectID, error)
}

// Result reports what each step removed.
type Result struct {
	ProjectDeleted bool  `json:"projectDeleted"`
	TasksDeleted   int64 `json:"tasksDeleted"`
}

type Deleter struct {
	Projects ProjectDeleter
	Tasks    TaskDeleter
	Log      *zap.Logger
}

func New(projects ProjectDeleter, tasks TaskDeleter, logger *zap.Logger) *Deleter {
	return &Deleter{Projects: projects, Tasks: tasks, Log: logger}
}

// DeleteProject removes the project document, then every task that points
// at it. Authorization is the caller's job. Calling it again for the same
// id is a no-op that still clears any leftover tasks.
func (d *Deleter) DeleteProject(ctx context.Context, projectID primitive.ObjectID) (Result, error) {
	var res Result

	n, err := d.Projects.Delete(ctx, projectID)
	if err != nil {
		return res, fmt.Errorf("delete project: %w", err)
	}
	res.ProjectDeleted = n > 0

	res.TasksDeleted, err = d.Tasks.DeleteByProject(ctx, projectID)
	if err != nil {
		d.Log.Error("cascade: task cleanup failed after project delete",
			zap.String("project_id", projectID.Hex()),
			zap.Error(err))
		return res, fmt.Errorf("%w: %v", ErrTasksPending, err)
	}

	d.Log.Info("project deleted",
		zap.String("project_id", projectID.Hex()),
		zap.Bool("project_deleted", res.ProjectDeleted),
		zap.Int64("tasks_deleted", res.TasksDeleted))
	return res, nil
}

// SweepReport summarizes an orphan sweep.
type SweepReport struct {
	Orphans      []primitive.ObjectID
	TasksDeleted int64
}

// SweepOrphans finds project ids referenced by tasks whose project no longer
// exists and, unless dryRun, deletes those tasks.
func (d *Deleter) SweepOrphans(ctx context.Context, dryRun bool) (SweepReport, error) {
	var rep SweepReport

	ids, err := d.Tasks.ProjectIDs(ctx)
	if err != nil {
		return rep, fmt.Errorf("list task project ids: %w", err)
	}
	if len(ids) == 0 {
		return rep, nil
	}
	live, err := d.Projects.ExistingIDs(ctx, ids)
	if err != nil {
		return rep, fmt.Errorf("check projects: %w", err)
	}
	for _, id := range ids {
		if !live[id] {
			rep.Orphans = append(rep.Orphans, id)
		}
	}
	if dryRun {
		return rep, nil
	}

	for _, id := range rep.Orphans {
		n, err := d.Tasks.DeleteByProject(ctx, id)
		if err != nil {
			return rep, fmt.Errorf("delete orphans of %s: %w", id.Hex(), err)
		}
		rep.TasksDeleted += n
	}
	d.Log.Info("orphan sweep complete",
		zap.Int("orphaned_projects", len(rep.Orphans)),
		zap.Int64("tasks_deleted", rep.TasksDeleted))
	return rep, nil
}
