package board

import (
	"context"
	"errors"
	"sync"

	"github.com/techikansh/Kanban-Board/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrNotOnBoard is returned when a view is asked to move a task it does not
// hold.
var ErrNotOnBoard = errors.New("task is not on this board")

// Persister stores a column move. Machine.Persister adapts MoveTask.
type Persister interface {
	Persist(ctx context.Context, taskID primitive.ObjectID, to models.TaskStatus) (models.Task, error)
}

// PersistFunc adapts a function to Persister.
type PersistFunc func(ctx context.Context, taskID primitive.ObjectID, to models.TaskStatus) (models.Task, error)

func (f PersistFunc) Persist(ctx context.Context, taskID primitive.ObjectID, to models.TaskStatus) (models.Task, error) {
	return f(ctx, taskID, to)
}

// Persister binds the machine to actor for use with View.Commit.
func (m *Machine) Persister(actor primitive.ObjectID) Persister {
	return PersistFunc(func(ctx context.Context, taskID primitive.ObjectID, to models.TaskStatus) (models.Task, error) {
		return m.MoveTask(ctx, taskID, to, actor)
	})
}

// Snapshot is the state of one task immediately before an optimistic move.
type Snapshot struct {
	prev models.Task
	gen  uint64
}

// Task returns the pre-move task.
func (s Snapshot) Task() models.Task { return s.prev }

// View is a local copy of a board that applies moves before they are
// persisted and rolls them back when persistence fails.
type View struct {
	mu    sync.Mutex
	order []primitive.ObjectID
	tasks map[primitive.ObjectID]models.Task
	gen   map[primitive.ObjectID]uint64
	next  uint64
}

// NewView builds a view over tasks, keeping their order.
func NewView(tasks []models.Task) *View {
	v := &View{
		tasks: make(map[primitive.ObjectID]models.Task, len(tasks)),
		gen:   make(map[primitive.ObjectID]uint64, len(tasks)),
	}
	for _, t := range tasks {
		if _, dup := v.tasks[t.ID]; !dup {
			v.order = append(v.order, t.ID)
		}
		v.tasks[t.ID] = t
	}
	return v
}

// Tasks returns the current local state in board order.
func (v *View) Tasks() []models.Task {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]models.Task, 0, len(v.order))
	for _, id := range v.order {
		out = append(out, v.tasks[id])
	}
	return out
}

// Task returns the local state of one task.
func (v *View) Task(id primitive.ObjectID) (models.Task, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	t, ok := v.tasks[id]
	return t, ok
}

// Columns groups the local state by status.
func (v *View) Columns() []Column {
	return Summarize(v.Tasks()).Columns
}

// ApplyOptimistic moves taskID locally. The snapshot is taken under the
// same lock as the mutation, so it reflects the state the move replaced.
func (v *View) ApplyOptimistic(taskID primitive.ObjectID, to models.TaskStatus) (Snapshot, error) {
	if !valid(to) {
		return Snapshot{}, models.ErrInvalidStatus
	}
	v.mu.Lock()
	defer v.mu.Unlock()

	cur, ok := v.tasks[taskID]
	if !ok {
		return Snapshot{}, ErrNotOnBoard
	}
	v.next++
	snap := Snapshot{prev: cur, gen: v.next}
	v.gen[taskID] = v.next

	cur.Status = to
	v.tasks[taskID] = cur
	return snap, nil
}

// Revert restores the task captured in s. It reports false and leaves the
// view alone when a later move of the same task has superseded s.
func (v *View) Revert(s Snapshot) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.gen[s.prev.ID] != s.gen {
		return false
	}
	v.tasks[s.prev.ID] = s.prev
	return true
}

// confirm replaces the optimistic task with the persisted one unless a later
// move has superseded s.
func (v *View) confirm(s Snapshot, t models.Task) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.gen[s.prev.ID] == s.gen {
		v.tasks[t.ID] = t
	}
}

// Commit applies the move locally, persists it through p, and reverts to the
// pre-move snapshot if persistence fails.
func (v *View) Commit(ctx context.Context, p Persister, taskID primitive.ObjectID, to models.TaskStatus) (models.Task, error) {
	snap, err := v.ApplyOptimistic(taskID, to)
	if err != nil {
		return models.Task{}, err
	}
	saved, err := p.Persist(ctx, taskID, to)
	if err != nil {
		v.Revert(snap)
		return models.Task{}, err
	}
	v.confirm(snap, saved)
	return saved, nil
}
