package projects

import (
	"github.com/techikansh/Kanban-Board/internal/app/policy/projectpolicy"
	"github.com/techikansh/Kanban-Board/internal/app/system/board"
	"github.com/techikansh/Kanban-Board/internal/app/system/cascade"
	"github.com/techikansh/Kanban-Board/internal/domain/models"
)

// projectView is a project plus the caller's role on it.
type projectView struct {
	models.Project
	Role string `json:"role"`
}

func viewOf(p models.Project, role projectpolicy.Role) projectView {
	if p.Members == nil {
		p.Members = []models.Membership{}
	}
	return projectView{Project: p, Role: role.String()}
}

type boardResponse struct {
	Project projectView `json:"project"`
	board.Summary
}

type deleteResponse struct {
	ID string `json:"id"`
	cascade.Result
}
