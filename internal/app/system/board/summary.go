package board

import "github.com/techikansh/Kanban-Board/internal/domain/models"

// Column is one board column with its tasks.
type Column struct {
	Status models.TaskStatus `json:"status"`
	Count  int               `json:"count"`
	Tasks  []models.Task     `json:"tasks"`
}

// Summary is a project's board: every column, always in display order,
// even when empty.
type Summary struct {
	Total   int      `json:"total"`
	Columns []Column `json:"columns"`
}

// Summarize groups tasks by status. Tasks with an unknown status land in
// Backlog.
func Summarize(tasks []models.Task) Summary {
	idx := make(map[models.TaskStatus]int, len(models.Statuses))
	s := Summary{Columns: make([]Column, len(models.Statuses))}
	for i, st := range models.Statuses {
		idx[st] = i
		s.Columns[i] = Column{Status: st, Tasks: []models.Task{}}
	}
	for _, t := range tasks {
		i, ok := idx[t.Status]
		if !ok {
			i = idx[models.StatusBacklog]
		}
		s.Columns[i].Tasks = append(s.Columns[i].Tasks, t)
		s.Columns[i].Count++
		s.Total++
	}
	return s
}

// Count returns the number of tasks in status.
func (s Summary) Count(status models.TaskStatus) int {
	for _, c := range s.Columns {
		if c.Status == status {
			return c.Count
		}
	}
	return 0
}
