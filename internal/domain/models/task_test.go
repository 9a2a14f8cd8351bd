package models_test

import (
	"errors"
	"testing"

	"github.com/techikansh/Kanban-Board/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestNewTask_DefaultsToBacklog(t *testing.T) {
	task, err := models.NewTask(primitive.NewObjectID(), primitive.NewObjectID(), models.TaskInput{
		Text: strPtr("Write copy"),
	})
	if err != nil {
		t.Fatalf("NewTask failed: %v", err)
	}
	if task.Status != models.StatusBacklog {
		t.Errorf("Status: got %q, want %q", task.Status, models.StatusBacklog)
	}
	if task.TextCI != "write copy" {
		t.Errorf("TextCI: got %q", task.TextCI)
	}
}

func TestNewTask_Rejects(t *testing.T) {
	pid, uid := primitive.NewObjectID(), primitive.NewObjectID()

	tests := []struct {
		name  string
		pid   primitive.ObjectID
		in    models.TaskInput
		field string
	}{
		{"empty text", pid, models.TaskInput{Text: strPtr(" ")}, "text"},
		{"missing text", pid, models.TaskInput{}, "text"},
		{"unknown status", pid, models.TaskInput{Text: strPtr("x"), Status: strPtr("Archived")}, "status"},
		{"missing project", primitive.NilObjectID, models.TaskInput{Text: strPtr("x")}, "projectId"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := models.NewTask(tt.pid, uid, tt.in)
			var ve *models.ValidationError
			if !errors.As(err, &ve) || !errors.Is(err, models.ErrInvalidTask) {
				t.Fatalf("expected task ValidationError, got %v", err)
			}
			if _, ok := ve.Fields[tt.field]; !ok {
				t.Errorf("expected field %q in %v", tt.field, ve.Fields)
			}
		})
	}
}

func TestParseStatus(t *testing.T) {
	for _, s := range []string{"Backlog", "doing", "DONE"} {
		if _, err := models.ParseStatus(s); err != nil {
			t.Errorf("ParseStatus(%q) failed: %v", s, err)
		}
	}
	for _, s := range []string{"Blocked", "", "  "} {
		if _, err := models.ParseStatus(s); !errors.Is(err, models.ErrInvalidStatus) {
			t.Errorf("ParseStatus(%q): expected ErrInvalidStatus, got %v", s, err)
		}
	}
}

func TestNewTask_BlankStatusDefaultsToBacklog(t *testing.T) {
	task, err := models.NewTask(primitive.NewObjectID(), primitive.NewObjectID(), models.TaskInput{
		Text: strPtr("Write copy"), Status: strPtr(""),
	})
	if err != nil {
		t.Fatalf("NewTask failed: %v", err)
	}
	if task.Status != models.StatusBacklog {
		t.Errorf("Status: got %q, want %q", task.Status, models.StatusBacklog)
	}
}

func TestTaskApply_RejectsBlankStatus(t *testing.T) {
	task := models.Task{Text: "Ship", Status: models.StatusDone}
	_, err := task.Apply(models.TaskInput{Status: strPtr("")})
	var ve *models.ValidationError
	if !errors.As(err, &ve) || !errors.Is(err, models.ErrInvalidTask) {
		t.Fatalf("expected task ValidationError, got %v", err)
	}
	if _, ok := ve.Fields["status"]; !ok {
		t.Errorf("expected status field error, got %v", ve.Fields)
	}
}
