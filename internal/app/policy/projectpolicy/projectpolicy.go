// internal/app/policy/projectpolicy/projectpolicy.go
package projectpolicy

import (
	"context"
	"errors"

	"github.com/techikansh/Kanban-Board/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Role is a user's effective standing on one project.
type Role int

const (
	RoleNone Role = iota
	RoleViewer
	RoleEditor
	RoleOwner
)

func (r Role) String() string {
	switch r {
	case RoleOwner:
		return "owner"
	case RoleEditor:
		return "editor"
	case RoleViewer:
		return "viewer"
	}
	return "none"
}

// CanView reports whether the role may read the project and its tasks.
func (r Role) CanView() bool { return r != RoleNone }

// CanEditTasks reports whether the role may create, edit, move or delete tasks.
func (r Role) CanEditTasks() bool { return r == RoleOwner || r == RoleEditor }

// CanManage reports whether the role may edit or delete the project itself
// and add or remove members.
func (r Role) CanManage() bool { return r == RoleOwner }

// EffectiveRole derives userID's role on p. The owner check comes first, so
// a stray member entry for the owner never downgrades them.
func EffectiveRole(userID primitive.ObjectID, p models.Project) Role {
	if userID.IsZero() {
		return RoleNone
	}
	if p.OwnerID == userID {
		return RoleOwner
	}
	m, ok := p.Member(userID)
	if !ok {
		return RoleNone
	}
	switch m.Role {
	case models.MemberEditor:
		return RoleEditor
	case models.MemberViewer:
		return RoleViewer
	}
	return RoleNone
}

// Capability names what a caller needs from a project.
type Capability int

const (
	View Capability = iota
	EditTasks
	Manage
)

// Allows reports whether r grants c.
func (r Role) Allows(c Capability) bool {
	switch c {
	case View:
		return r.CanView()
	case EditTasks:
		return r.CanEditTasks()
	case Manage:
		return r.CanManage()
	}
	return false
}

var (
	// ErrNotFound covers both a missing project and one the caller cannot see.
	ErrNotFound = errors.New("project not found")
	// ErrForbidden means the caller can see the project but lacks the
	// capability. The HTTP layer reports it exactly like ErrNotFound.
	ErrForbidden = errors.New("project not found")
)

// Getter loads a project by id, returning mongo.ErrNoDocuments when absent.
type Getter interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (models.Project, error)
}

// Load fetches projectID and checks userID holds need on it. Every project
// read and write goes through here so that "absent" and "not yours" look
// the same to the caller.
func Load(ctx context.Context, g Getter, userID, projectID primitive.ObjectID, need Capability) (models.Project, Role, error) {
	p, err := g.GetByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Project{}, RoleNone, ErrNotFound
		}
		return models.Project{}, RoleNone, err
	}

	role := EffectiveRole(userID, p)
	if !role.CanView() {
		return models.Project{}, RoleNone, ErrNotFound
	}
	if !role.Allows(need) {
		return models.Project{}, role, ErrForbidden
	}
	return p, role, nil
}
