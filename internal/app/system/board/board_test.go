package board_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/techikansh/Kanban-Board/internal/app/policy/projectpolicy"
	"github.com/techikansh/Kanban-Board/internal/app/system/board"
	"github.com/techikansh/Kanban-Board/internal/domain/models"
	"github.com/techikansh/Kanban-Board/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type scenario struct {
	mem     *testutil.MemStore
	machine *board.Machine
	a, b, c models.User
	v       models.User
	project models.Project
	task    models.Task
}

// newScenario: A owns P, B is an editor, V a viewer, C a stranger; T sits
// in Backlog.
func newScenario(t *testing.T) scenario {
	t.Helper()
	mem := testutil.NewMemStore()
	s := scenario{mem: mem}
	s.a = mem.SeedUser("a@example.com")
	s.b = mem.SeedUser("b@example.com")
	s.c = mem.SeedUser("c@example.com")
	s.v = mem.SeedUser("v@example.com")
	s.project = mem.SeedProject("P", s.a.ID,
		models.Membership{UserID: s.b.ID, Email: s.b.Email, Role: models.MemberEditor},
		models.Membership{UserID: s.v.ID, Email: s.v.Email, Role: models.MemberViewer},
	)
	s.task = mem.SeedTask(s.project.ID, s.a.ID, "T", models.StatusBacklog)
	set := mem.Set()
	s.machine = board.NewMachine(set.Projects, set.Tasks)
	return s
}

func TestCanTransition_FullyConnected(t *testing.T) {
	for _, from := range models.Statuses {
		for _, to := range models.Statuses {
			assert.True(t, board.CanTransition(from, to), "%s -> %s", from, to)
		}
	}
	assert.False(t, board.CanTransition(models.StatusBacklog, "Archived"))
	assert.False(t, board.CanTransition("", models.StatusDone))
}

func TestMoveTask_EditorMovesBacklogToDone(t *testing.T) {
	s := newScenario(t)
	ctx := context.Background()

	got, err := s.machine.MoveTask(ctx, s.task.ID, models.StatusDone, s.b.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusDone, got.Status)
	assert.False(t, got.UpdatedAt.Before(s.task.UpdatedAt))

	stored, _ := s.mem.Task(s.task.ID)
	assert.Equal(t, models.StatusDone, stored.Status)
}

func TestMoveTask_StrangerRejectedAsNotFound(t *testing.T) {
	s := newScenario(t)
	ctx := context.Background()

	_, err := s.machine.MoveTask(ctx, s.task.ID, models.StatusDone, s.c.ID)
	assert.ErrorIs(t, err, board.ErrTaskNotFound)

	_, _, err = projectpolicy.Load(ctx, s.mem.Set().Projects, s.c.ID, s.project.ID, projectpolicy.View)
	assert.ErrorIs(t, err, projectpolicy.ErrNotFound)

	stored, _ := s.mem.Task(s.task.ID)
	assert.Equal(t, models.StatusBacklog, stored.Status)
}

func TestMoveTask_ViewerRejectedButCanRead(t *testing.T) {
	s := newScenario(t)
	ctx := context.Background()

	_, err := s.machine.MoveTask(ctx, s.task.ID, models.StatusDoing, s.v.ID)
	assert.ErrorIs(t, err, projectpolicy.ErrForbidden)

	task, p, err := board.LoadTask(ctx, s.mem.Set().Projects, s.mem.Set().Tasks, s.task.ID, s.v.ID, projectpolicy.View)
	require.NoError(t, err)
	assert.Equal(t, s.task.ID, task.ID)
	assert.Equal(t, s.project.ID, p.ID)
}

func TestMoveTask_AnyStatusForOwnerAndEditor(t *testing.T) {
	s := newScenario(t)
	ctx := context.Background()

	for _, actor := range []models.User{s.a, s.b} {
		for _, from := range models.Statuses {
			for _, to := range models.Statuses {
				_, err := s.machine.MoveTask(ctx, s.task.ID, from, actor.ID)
				require.NoError(t, err)
				got, err := s.machine.MoveTask(ctx, s.task.ID, to, actor.ID)
				require.NoError(t, err, "%s: %s -> %s", actor.Email, from, to)
				assert.Equal(t, to, got.Status)
			}
		}
	}
}

func TestMoveTask_Errors(t *testing.T) {
	s := newScenario(t)
	ctx := context.Background()

	_, err := s.machine.MoveTask(ctx, primitive.NewObjectID(), models.StatusDone, s.a.ID)
	assert.ErrorIs(t, err, board.ErrTaskNotFound)

	_, err = s.machine.MoveTask(ctx, s.task.ID, "Blocked", s.a.ID)
	assert.ErrorIs(t, err, models.ErrInvalidStatus)

	orphan := s.mem.SeedTask(primitive.NewObjectID(), s.a.ID, "left behind", models.StatusDoing)
	_, err = s.machine.MoveTask(ctx, orphan.ID, models.StatusDone, s.a.ID)
	assert.ErrorIs(t, err, board.ErrTaskNotFound)

	boom := errors.New("write conflict")
	s.mem.Fail["UpdateStatus"] = boom
	_, err = s.machine.MoveTask(ctx, s.task.ID, models.StatusDone, s.a.ID)
	assert.ErrorIs(t, err, boom)
}

func TestView_CommitPersists(t *testing.T) {
	s := newScenario(t)
	view := board.NewView([]models.Task{s.task})

	saved, err := view.Commit(context.Background(), s.machine.Persister(s.b.ID), s.task.ID, models.StatusDoing)
	require.NoError(t, err)
	assert.Equal(t, models.StatusDoing, saved.Status)

	local, _ := view.Task(s.task.ID)
	assert.Equal(t, models.StatusDoing, local.Status)
	assert.Equal(t, 1, board.Summarize(view.Tasks()).Count(models.StatusDoing))
}

func TestView_CommitFailureRevertsToFreshSnapshot(t *testing.T) {
	s := newScenario(t)
	ctx := context.Background()
	view := board.NewView([]models.Task{s.task})

	// First move succeeds: Backlog -> Doing.
	_, err := view.Commit(ctx, s.machine.Persister(s.a.ID), s.task.ID, models.StatusDoing)
	require.NoError(t, err)

	// Second move fails: the view must return to Doing, not the
	// Backlog state the view was built with.
	boom := errors.New("network down")
	failing := board.PersistFunc(func(context.Context, primitive.ObjectID, models.TaskStatus) (models.Task, error) {
		return models.Task{}, boom
	})
	_, err = view.Commit(ctx, failing, s.task.ID, models.StatusDone)
	assert.ErrorIs(t, err, boom)

	local, _ := view.Task(s.task.ID)
	assert.Equal(t, models.StatusDoing, local.Status)
}

func TestView_ViewerCommitReverts(t *testing.T) {
	s := newScenario(t)
	view := board.NewView([]models.Task{s.task})

	_, err := view.Commit(context.Background(), s.machine.Persister(s.v.ID), s.task.ID, models.StatusDone)
	assert.ErrorIs(t, err, projectpolicy.ErrForbidden)

	local, _ := view.Task(s.task.ID)
	assert.Equal(t, models.StatusBacklog, local.Status)
}

func TestView_RevertSupersededSnapshotIsNoop(t *testing.T) {
	task := models.Task{ID: primitive.NewObjectID(), Text: "T", Status: models.StatusBacklog}
	view := board.NewView([]models.Task{task})

	first, err := view.ApplyOptimistic(task.ID, models.StatusDoing)
	require.NoError(t, err)
	assert.Equal(t, models.StatusBacklog, first.Task().Status)

	second, err := view.ApplyOptimistic(task.ID, models.StatusDone)
	require.NoError(t, err)
	assert.Equal(t, models.StatusDoing, second.Task().Status)

	assert.False(t, view.Revert(first), "older snapshot must not clobber a newer move")
	local, _ := view.Task(task.ID)
	assert.Equal(t, models.StatusDone, local.Status)

	assert.True(t, view.Revert(second))
	local, _ = view.Task(task.ID)
	assert.Equal(t, models.StatusDoing, local.Status)
}

func TestView_ApplyErrors(t *testing.T) {
	view := board.NewView(nil)
	_, err := view.ApplyOptimistic(primitive.NewObjectID(), models.StatusDone)
	assert.ErrorIs(t, err, board.ErrNotOnBoard)

	_, err = view.ApplyOptimistic(primitive.NewObjectID(), "Later")
	assert.ErrorIs(t, err, models.ErrInvalidStatus)
}

func TestSummarize(t *testing.T) {
	pid := primitive.NewObjectID()
	tasks := []models.Task{
		{ID: primitive.NewObjectID(), ProjectID: pid, Status: models.StatusBacklog},
		{ID: primitive.NewObjectID(), ProjectID: pid, Status: models.StatusDone},
		{ID: primitive.NewObjectID(), ProjectID: pid, Status: models.StatusDone},
	}
	sum := board.Summarize(tasks)

	assert.Equal(t, 3, sum.Total)
	require.Len(t, sum.Columns, 3)
	assert.Equal(t, models.StatusBacklog, sum.Columns[0].Status)
	assert.Equal(t, 1, sum.Count(models.StatusBacklog))
	assert.Equal(t, 0, sum.Count(models.StatusDoing))
	assert.NotNil(t, sum.Columns[1].Tasks)
	assert.Equal(t, 2, sum.Count(models.StatusDone))
}
