package payload_test

import (
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/techikansh/Kanban-Board/internal/app/system/payload"
	"github.com/techikansh/Kanban-Board/internal/domain/models"
)

func decode(t *testing.T, schema payload.Schema, body string, dst any) error {
	t.Helper()
	req := httptest.NewRequest("POST", "/", strings.NewReader(body))
	return payload.Decode(req, schema, dst)
}

func fieldsOf(t *testing.T, err error) map[string]string {
	t.Helper()
	var ve *models.ValidationError
	require.True(t, errors.As(err, &ve), "expected ValidationError, got %v", err)
	assert.ErrorIs(t, err, payload.ErrInvalidPayload)
	return ve.Fields
}

func TestMustLoad(t *testing.T) {
	assert.NotPanics(t, payload.MustLoad)
}

func TestDecode_ProjectCreate(t *testing.T) {
	var in models.ProjectInput
	err := decode(t, payload.ProjectCreate, `{"title":"Launch","clientPayment":1500.5,"storyPoints":8,"dueDate":"2025-03-01"}`, &in)
	require.NoError(t, err)
	require.NotNil(t, in.Title)
	assert.Equal(t, "Launch", *in.Title)
	assert.Equal(t, 1500.5, *in.ClientPayment)
	assert.Equal(t, float64(8), *in.StoryPoints)
	assert.Nil(t, in.Description)
}

func TestDecode_TypeErrors(t *testing.T) {
	var in models.ProjectInput
	fields := fieldsOf(t, decode(t, payload.ProjectCreate, `{"title":"Launch","clientPayment":"lots"}`, &in))
	assert.Contains(t, fields, "clientPayment")

	fields = fieldsOf(t, decode(t, payload.ProjectCreate, `{"description":"no title"}`, &in))
	assert.Contains(t, fields["body"], "title")
}

func TestDecode_TaskCreateRejectsBadProjectID(t *testing.T) {
	var in struct {
		ProjectID string `json:"projectId"`
	}
	fields := fieldsOf(t, decode(t, payload.TaskCreate, `{"projectId":"nope","text":"x"}`, &in))
	assert.Contains(t, fields, "projectId")
}

func TestDecode_UpdateNeedsAField(t *testing.T) {
	var in models.TaskInput
	fieldsOf(t, decode(t, payload.TaskUpdate, `{}`, &in))

	require.NoError(t, decode(t, payload.TaskUpdate, `{"status":"Done"}`, &in))
	assert.Equal(t, "Done", *in.Status)
}

func TestDecode_MalformedAndEmpty(t *testing.T) {
	var in models.TaskInput
	assert.Equal(t, "malformed JSON", fieldsOf(t, decode(t, payload.TaskMove, `{"status":`, &in))["body"])
	assert.Equal(t, "required", fieldsOf(t, decode(t, payload.TaskMove, "  ", &in))["body"])
}

func TestDecode_TooLarge(t *testing.T) {
	big := `{"text":"` + strings.Repeat("a", payload.MaxBodyBytes) + `"}`
	var in models.TaskInput
	assert.Equal(t, "too large", fieldsOf(t, decode(t, payload.TaskUpdate, big, &in))["body"])
}

func TestDecode_UnknownSchema(t *testing.T) {
	var in any
	err := decode(t, payload.Schema("nope"), `{}`, &in)
	require.Error(t, err)
	assert.NotErrorIs(t, err, payload.ErrInvalidPayload)
}
