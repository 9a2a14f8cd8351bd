// internal/domain/models/project.go
package models

import (
	"math"
	"strings"
	"time"

	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Project is a shared board. The owner is fixed at creation and is never
// listed in Members; access for everyone else comes from Members.
type Project struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title         string             `bson:"title" json:"title"`
	TitleCI       string             `bson:"title_ci" json:"-"`
	Description   string             `bson:"description" json:"description"`
	DueDate       *time.Time         `bson:"due_date,omitempty" json:"dueDate,omitempty"`
	ClientPayment float64            `bson:"client_payment" json:"clientPayment"`
	StoryPoints   int                `bson:"story_points" json:"storyPoints"`
	OwnerID       primitive.ObjectID `bson:"owner_id" json:"ownerId"`
	Members       []Membership       `bson:"members" json:"members"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// Member returns the membership for userID, if any.
func (p Project) Member(userID primitive.ObjectID) (Membership, bool) {
	for _, m := range p.Members {
		if m.UserID == userID {
			return m, true
		}
	}
	return Membership{}, false
}

// ProjectInput is the set of client-editable fields. Nil fields are left
// unchanged by Apply; for DueDate an empty string clears the date.
type ProjectInput struct {
	Title         *string  `json:"title"`
	Description   *string  `json:"description"`
	DueDate       *string  `json:"dueDate"`
	ClientPayment *float64 `json:"clientPayment"`
	StoryPoints   *float64 `json:"storyPoints"`
}

// NewProject validates in and builds a project owned by ownerID with an
// empty member list. ID and timestamps are assigned by the store.
func NewProject(ownerID primitive.ObjectID, in ProjectInput) (Project, error) {
	p := Project{OwnerID: ownerID, Members: []Membership{}}
	fe := fieldErrors{kind: ErrInvalidProject}
	if ownerID.IsZero() {
		fe.add("ownerId", "required")
	}
	if in.Title == nil {
		fe.add("title", "required")
	}
	p = p.merge(in, &fe)
	if err := fe.err(); err != nil {
		return Project{}, err
	}
	return p, nil
}

// Apply returns a copy of p with the non-nil fields of in applied, enforcing
// the same rules as NewProject. Owner and members are never touched.
func (p Project) Apply(in ProjectInput) (Project, error) {
	fe := fieldErrors{kind: ErrInvalidProject}
	out := p.merge(in, &fe)
	if err := fe.err(); err != nil {
		return Project{}, err
	}
	return out, nil
}

func (p Project) merge(in ProjectInput, fe *fieldErrors) Project {
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			fe.add("title", "must not be empty")
		}
		p.Title = title
		p.TitleCI = text.Fold(title)
	}
	if in.Description != nil {
		p.Description = strings.TrimSpace(*in.Description)
	}
	if in.DueDate != nil {
		due, err := ParseDate(*in.DueDate)
		if err != nil {
			fe.add("dueDate", "must be YYYY-MM-DD or RFC 3339")
		}
		p.DueDate = due
	}
	if in.ClientPayment != nil {
		v := *in.ClientPayment
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			fe.add("clientPayment", "must be a non-negative number")
		}
		p.ClientPayment = v
	}
	if in.StoryPoints != nil {
		v := *in.StoryPoints
		if v < 0 || v != math.Trunc(v) || v > math.MaxInt32 {
			fe.add("storyPoints", "must be a non-negative integer")
		} else {
			p.StoryPoints = int(v)
		}
	}
	return p
}

// ParseDate accepts a calendar date (2006-01-02) or an RFC 3339 timestamp.
// Blank input yields nil.
func ParseDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, err
	}
	t = t.UTC()
	return &t, nil
}
