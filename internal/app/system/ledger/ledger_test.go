package ledger_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/techikansh/Kanban-Board/internal/app/policy/projectpolicy"
	"github.com/techikansh/Kanban-Board/internal/app/system/ledger"
	"github.com/techikansh/Kanban-Board/internal/domain/models"
	"github.com/techikansh/Kanban-Board/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func newLedger(mem *testutil.MemStore) *ledger.Ledger {
	set := mem.Set()
	l := ledger.New(set.Users, set.Projects, zap.NewNop())
	l.Now = func() time.Time { return time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC) }
	return l
}

func TestAddMember(t *testing.T) {
	ctx := context.Background()
	mem := testutil.NewMemStore()
	owner := mem.SeedUser("owner@example.com")
	bob := mem.SeedUser("bob@example.com")
	p := mem.SeedProject("Launch", owner.ID)
	l := newLedger(mem)

	m, err := l.AddMember(ctx, p, "  BOB@example.com ", models.MemberEditor)
	require.NoError(t, err)
	assert.Equal(t, bob.ID, m.UserID)
	assert.Equal(t, "bob@example.com", m.Email)
	assert.Equal(t, models.MemberEditor, m.Role)
	assert.Equal(t, 2025, m.AddedAt.Year())

	got, _ := mem.Project(p.ID)
	require.Len(t, got.Members, 1)
	assert.Equal(t, bob.ID, got.Members[0].UserID)
}

func TestAddMember_TwiceFailsAndLeavesCount(t *testing.T) {
	ctx := context.Background()
	mem := testutil.NewMemStore()
	owner := mem.SeedUser("owner@example.com")
	mem.SeedUser("bob@example.com")
	p := mem.SeedProject("Launch", owner.ID)
	l := newLedger(mem)

	_, err := l.AddMember(ctx, p, "bob@example.com", models.MemberViewer)
	require.NoError(t, err)

	// Stale snapshot: the conditional store write still refuses the duplicate.
	_, err = l.AddMember(ctx, p, "bob@example.com", models.MemberEditor)
	assert.ErrorIs(t, err, ledger.ErrAlreadyMember)

	fresh, _ := mem.Project(p.ID)
	_, err = l.AddMember(ctx, fresh, "bob@example.com", models.MemberEditor)
	assert.ErrorIs(t, err, ledger.ErrAlreadyMember)

	fresh, _ = mem.Project(p.ID)
	require.Len(t, fresh.Members, 1)
	assert.Equal(t, models.MemberViewer, fresh.Members[0].Role)
}

func TestAddMember_Rejections(t *testing.T) {
	ctx := context.Background()
	mem := testutil.NewMemStore()
	owner := mem.SeedUser("owner@example.com")
	mem.SeedUser("bob@example.com")
	p := mem.SeedProject("Launch", owner.ID)
	l := newLedger(mem)

	_, err := l.AddMember(ctx, p, "nobody@example.com", models.MemberViewer)
	assert.ErrorIs(t, err, ledger.ErrUserNotFound)

	_, err = l.AddMember(ctx, p, "owner@example.com", models.MemberEditor)
	assert.ErrorIs(t, err, ledger.ErrAlreadyMember, "owner is never stored as a member")

	_, err = l.AddMember(ctx, p, "bob@example.com", models.MemberRole("admin"))
	assert.ErrorIs(t, err, models.ErrInvalidRole)

	got, _ := mem.Project(p.ID)
	assert.Empty(t, got.Members)
}

func TestAddMember_StoreFailure(t *testing.T) {
	mem := testutil.NewMemStore()
	owner := mem.SeedUser("owner@example.com")
	mem.SeedUser("bob@example.com")
	p := mem.SeedProject("Launch", owner.ID)
	boom := errors.New("write failed")
	mem.Fail["AddMember"] = boom

	_, err := newLedger(mem).AddMember(context.Background(), p, "bob@example.com", models.MemberViewer)
	assert.ErrorIs(t, err, boom)
}

func TestRemoveMember_Idempotent(t *testing.T) {
	ctx := context.Background()
	mem := testutil.NewMemStore()
	owner := mem.SeedUser("owner@example.com")
	bob := mem.SeedUser("bob@example.com")
	p := mem.SeedProject("Launch", owner.ID,
		models.Membership{UserID: bob.ID, Email: bob.Email, Role: models.MemberViewer})
	l := newLedger(mem)

	removed, err := l.RemoveMember(ctx, p.ID, primitive.NewObjectID())
	require.NoError(t, err)
	assert.False(t, removed)
	got, _ := mem.Project(p.ID)
	assert.Len(t, got.Members, 1)

	removed, err = l.RemoveMember(ctx, p.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = l.RemoveMember(ctx, p.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, removed)
	got, _ = mem.Project(p.ID)
	assert.Empty(t, got.Members)
}

func TestAddMember_ProjectDeletedMeanwhile(t *testing.T) {
	ctx := context.Background()
	mem := testutil.NewMemStore()
	owner := mem.SeedUser("owner@example.com")
	mem.SeedUser("bob@example.com")
	p := mem.SeedProject("Launch", owner.ID)
	l := newLedger(mem)

	// p was loaded and authorized before the delete landed.
	_, err := mem.Set().Projects.Delete(ctx, p.ID)
	require.NoError(t, err)

	_, err = l.AddMember(ctx, p, "bob@example.com", models.MemberViewer)
	assert.ErrorIs(t, err, projectpolicy.ErrNotFound)
	assert.NotErrorIs(t, err, ledger.ErrAlreadyMember)
}

func TestLedger_LogsMembershipChanges(t *testing.T) {
	ctx := context.Background()
	mem := testutil.NewMemStore()
	owner := mem.SeedUser("owner@example.com")
	bob := mem.SeedUser("bob@example.com")
	p := mem.SeedProject("Launch", owner.ID)

	core, logs := observer.New(zap.InfoLevel)
	set := mem.Set()
	l := ledger.New(set.Users, set.Projects, zap.New(core))

	_, err := l.AddMember(ctx, p, "bob@example.com", models.MemberEditor)
	require.NoError(t, err)
	removed, err := l.RemoveMember(ctx, p.ID, bob.ID)
	require.NoError(t, err)
	require.True(t, removed)
	removed, err = l.RemoveMember(ctx, p.ID, bob.ID)
	require.NoError(t, err)
	require.False(t, removed)

	assert.Equal(t, 1, logs.FilterMessage("member added").Len())
	assert.Equal(t, 1, logs.FilterMessage("member removed").Len(), "no-op removals are not logged")
	entry := logs.FilterMessage("member added").All()[0]
	assert.Equal(t, bob.ID.Hex(), entry.ContextMap()["user_id"])
}
