// internal/domain/models/task.go
package models

import (
	"strings"
	"time"

	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TaskStatus is the board column a task sits in.
type TaskStatus string

const (
	StatusBacklog TaskStatus = "Backlog"
	StatusDoing   TaskStatus = "Doing"
	StatusDone    TaskStatus = "Done"
)

// Statuses lists the board columns in display order.
var Statuses = []TaskStatus{StatusBacklog, StatusDoing, StatusDone}

// ParseStatus validates a status name, case-insensitively. Blank is invalid;
// only NewTask falls back to Backlog.
func ParseStatus(s string) (TaskStatus, error) {
	s = strings.TrimSpace(s)
	for _, st := range Statuses {
		if strings.EqualFold(s, string(st)) {
			return st, nil
		}
	}
	return "", ErrInvalidStatus
}

// Task is a card on a project board (stored in the todos collection).
// ProjectID and OwnerID are fixed at creation.
type Task struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Text        string             `bson:"text" json:"text"`
	TextCI      string             `bson:"text_ci" json:"-"`
	Description string             `bson:"description" json:"description"`
	Status      TaskStatus         `bson:"status" json:"status"`
	ProjectID   primitive.ObjectID `bson:"project_id" json:"projectId"`
	OwnerID     primitive.ObjectID `bson:"owner_id" json:"ownerId"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// TaskInput is the set of client-editable task fields.
type TaskInput struct {
	Text        *string `json:"text"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
}

// NewTask validates in and builds a task in projectID created by ownerID.
func NewTask(projectID, ownerID primitive.ObjectID, in TaskInput) (Task, error) {
	t := Task{ProjectID: projectID, OwnerID: ownerID, Status: StatusBacklog}
	fe := fieldErrors{kind: ErrInvalidTask}
	if projectID.IsZero() {
		fe.add("projectId", "required")
	}
	if ownerID.IsZero() {
		fe.add("ownerId", "required")
	}
	if in.Text == nil {
		fe.add("text", "required")
	}
	if in.Status != nil && strings.TrimSpace(*in.Status) == "" {
		in.Status = nil
	}
	t = t.merge(in, &fe)
	if err := fe.err(); err != nil {
		return Task{}, err
	}
	return t, nil
}

// Apply returns a copy of t with the non-nil fields of in applied.
func (t Task) Apply(in TaskInput) (Task, error) {
	fe := fieldErrors{kind: ErrInvalidTask}
	out := t.merge(in, &fe)
	if err := fe.err(); err != nil {
		return Task{}, err
	}
	return out, nil
}

func (t Task) merge(in TaskInput, fe *fieldErrors) Task {
	if in.Text != nil {
		s := strings.TrimSpace(*in.Text)
		if s == "" {
			fe.add("text", "must not be empty")
		}
		t.Text = s
		t.TextCI = text.Fold(s)
	}
	if in.Description != nil {
		t.Description = strings.TrimSpace(*in.Description)
	}
	if in.Status != nil {
		st, err := ParseStatus(*in.Status)
		if err != nil {
			fe.add("status", err.Error())
		}
		t.Status = st
	}
	return t
}
