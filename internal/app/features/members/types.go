package members

import "github.com/techikansh/Kanban-Board/internal/domain/models"

type addRequest struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

type addResponse struct {
	Member  models.Membership `json:"member"`
	Project models.Project    `json:"project"`
}

type removeResponse struct {
	Removed bool           `json:"removed"`
	Project models.Project `json:"project"`
}
