// Package queryfilter turns list-endpoint query parameters into Mongo
// predicates. Every filter also has an in-memory Matches twin so the same
// rules apply to any store implementation.
package queryfilter

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/techikansh/Kanban-Board/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
)

// ErrInvalidFilter is returned for unparseable query parameters.
var ErrInvalidFilter = errors.New("invalid filter")

const dateLayout = "2006-01-02"

// DateRange is an inclusive calendar-day range; either end may be open.
type DateRange struct {
	From *time.Time
	To   *time.Time
}

// IsZero reports whether neither end is set.
func (d DateRange) IsZero() bool { return d.From == nil && d.To == nil }

func (d DateRange) bson() bson.M {
	m := bson.M{}
	if d.From != nil {
		m["$gte"] = *d.From
	}
	if d.To != nil {
		m["$lt"] = d.To.AddDate(0, 0, 1)
	}
	return m
}

// Contains reports whether t falls inside the range. A nil t never matches
// a non-empty range.
func (d DateRange) Contains(t *time.Time) bool {
	if d.IsZero() {
		return true
	}
	if t == nil {
		return false
	}
	if d.From != nil && t.Before(*d.From) {
		return false
	}
	if d.To != nil && !t.Before(d.To.AddDate(0, 0, 1)) {
		return false
	}
	return true
}

func parseRange(r *http.Request, fromKey, toKey string) (DateRange, error) {
	var d DateRange
	for _, k := range []struct {
		key string
		dst **time.Time
	}{{fromKey, &d.From}, {toKey, &d.To}} {
		v := query.Get(r, k.key)
		if v == "" {
			continue
		}
		t, err := time.Parse(dateLayout, v)
		if err != nil {
			return DateRange{}, fmt.Errorf("%w: %s must be YYYY-MM-DD", ErrInvalidFilter, k.key)
		}
		*k.dst = &t
	}
	if d.From != nil && d.To != nil && d.To.Before(*d.From) {
		return DateRange{}, fmt.Errorf("%w: %s is before %s", ErrInvalidFilter, toKey, fromKey)
	}
	return d, nil
}

func prefixPredicate(field, q string) (bson.M, bool) {
	lo, hi := text.PrefixRange(q)
	if lo == "" {
		return nil, false
	}
	return bson.M{field: bson.M{"$gte": lo, "$lt": hi}}, true
}

func hasFoldedPrefix(folded, q string) bool {
	q = strings.TrimSpace(q)
	return q == "" || strings.HasPrefix(folded, text.Fold(q))
}

// ProjectFilter narrows GET /projects.
type ProjectFilter struct {
	Search string
	Due    DateRange
}

// ParseProjectFilter reads q, due_from and due_to.
func ParseProjectFilter(r *http.Request) (ProjectFilter, error) {
	due, err := parseRange(r, "due_from", "due_to")
	if err != nil {
		return ProjectFilter{}, err
	}
	return ProjectFilter{Search: query.Search(r, "q"), Due: due}, nil
}

// BSON returns the predicates to AND with the caller's scope filter.
func (f ProjectFilter) BSON() bson.M {
	and := bson.A{}
	if p, ok := prefixPredicate("title_ci", f.Search); ok {
		and = append(and, p)
	}
	if !f.Due.IsZero() {
		and = append(and, bson.M{"due_date": f.Due.bson()})
	}
	if len(and) == 0 {
		return bson.M{}
	}
	return bson.M{"$and": and}
}

// Matches applies the filter to p in memory.
func (f ProjectFilter) Matches(p models.Project) bool {
	return hasFoldedPrefix(p.TitleCI, f.Search) && f.Due.Contains(p.DueDate)
}

// TaskFilter narrows GET /todos for one project.
type TaskFilter struct {
	Search  string
	Status  models.TaskStatus
	Created DateRange
}

// ParseTaskFilter reads q, status, created_from and created_to.
func ParseTaskFilter(r *http.Request) (TaskFilter, error) {
	f := TaskFilter{Search: query.Search(r, "q")}
	if s := query.Get(r, "status"); s != "" {
		st, err := models.ParseStatus(s)
		if err != nil {
			return TaskFilter{}, fmt.Errorf("%w: %v", ErrInvalidFilter, err)
		}
		f.Status = st
	}
	created, err := parseRange(r, "created_from", "created_to")
	if err != nil {
		return TaskFilter{}, err
	}
	f.Created = created
	return f, nil
}

// BSON returns the predicates to AND with the project scope.
func (f TaskFilter) BSON() bson.M {
	and := bson.A{}
	if p, ok := prefixPredicate("text_ci", f.Search); ok {
		and = append(and, p)
	}
	if f.Status != "" {
		and = append(and, bson.M{"status": f.Status})
	}
	if !f.Created.IsZero() {
		and = append(and, bson.M{"created_at": f.Created.bson()})
	}
	if len(and) == 0 {
		return bson.M{}
	}
	return bson.M{"$and": and}
}

// Matches applies the filter to t in memory.
func (f TaskFilter) Matches(t models.Task) bool {
	if f.Status != "" && t.Status != f.Status {
		return false
	}
	created := t.CreatedAt
	return hasFoldedPrefix(t.TextCI, f.Search) && f.Created.Contains(&created)
}
