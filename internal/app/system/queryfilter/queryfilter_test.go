package queryfilter_test

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/techikansh/Kanban-Board/internal/app/system/queryfilter"
	"github.com/techikansh/Kanban-Board/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
)

func day(s string) *time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return &t
}

func TestParseProjectFilter(t *testing.T) {
	r := httptest.NewRequest("GET", "/projects?q=Laun&due_from=2025-01-01&due_to=2025-01-31", nil)
	f, err := queryfilter.ParseProjectFilter(r)
	require.NoError(t, err)
	assert.Equal(t, "laun", strings.ToLower(f.Search))
	require.NotNil(t, f.Due.From)
	require.NotNil(t, f.Due.To)

	m := f.BSON()
	and, ok := m["$and"].(bson.A)
	require.True(t, ok, "expected $and clause, got %v", m)
	assert.Len(t, and, 2)
}

func TestParseProjectFilter_Empty(t *testing.T) {
	f, err := queryfilter.ParseProjectFilter(httptest.NewRequest("GET", "/projects", nil))
	require.NoError(t, err)
	assert.Empty(t, f.BSON())
	assert.True(t, f.Matches(models.Project{Title: "anything"}))
}

func TestParseProjectFilter_Invalid(t *testing.T) {
	for _, target := range []string{
		"/projects?due_from=tomorrow",
		"/projects?due_to=2025-13-01",
		"/projects?due_from=2025-02-01&due_to=2025-01-01",
	} {
		_, err := queryfilter.ParseProjectFilter(httptest.NewRequest("GET", target, nil))
		assert.ErrorIs(t, err, queryfilter.ErrInvalidFilter, target)
	}
}

func TestProjectFilter_Matches(t *testing.T) {
	f := queryfilter.ProjectFilter{
		Search: "laun",
		Due:    queryfilter.DateRange{From: day("2025-01-01"), To: day("2025-01-31")},
	}

	inRange := day("2025-01-31")
	*inRange = inRange.Add(23 * time.Hour)

	assert.True(t, f.Matches(models.Project{TitleCI: "launch", DueDate: inRange}))
	assert.False(t, f.Matches(models.Project{TitleCI: "launch", DueDate: day("2025-02-01")}))
	assert.False(t, f.Matches(models.Project{TitleCI: "launch"}), "no due date never matches a range")
	assert.False(t, f.Matches(models.Project{TitleCI: "relaunch", DueDate: inRange}))
}

func TestParseTaskFilter(t *testing.T) {
	r := httptest.NewRequest("GET", "/todos?projectId=x&status=doing&created_from=2025-01-01", nil)
	f, err := queryfilter.ParseTaskFilter(r)
	require.NoError(t, err)
	assert.Equal(t, models.StatusDoing, f.Status)

	created := *day("2025-01-02")
	assert.True(t, f.Matches(models.Task{Status: models.StatusDoing, CreatedAt: created}))
	assert.False(t, f.Matches(models.Task{Status: models.StatusDone, CreatedAt: created}))
	assert.False(t, f.Matches(models.Task{Status: models.StatusDoing, CreatedAt: *day("2024-12-31")}))

	_, err = queryfilter.ParseTaskFilter(httptest.NewRequest("GET", "/todos?status=Archived", nil))
	assert.ErrorIs(t, err, queryfilter.ErrInvalidFilter)
}
