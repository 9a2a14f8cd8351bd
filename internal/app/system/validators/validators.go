// internal/app/system/validators/validators.go
package validators

import (
	"context"
	"errors"
	"strings"

	"github.com/techikansh/Kanban-Board/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// EnsureAll creates the users, projects and todos collections (if missing)
// and attaches $jsonSchema validators. Servers without collMod validator
// support are logged and skipped.
func EnsureAll(ctx context.Context, db *mongo.Database, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	var problems []string

	for _, coll := range []string{"users", "projects", "todos"} {
		log := logger.With(zap.String("collection", coll))
		if err := ensureCollection(ctx, db, coll, log); err != nil {
			problems = append(problems, coll+": "+err.Error())
			continue
		}
		if err := setValidator(ctx, db, coll, Schema(coll)); err != nil {
			if isUnsupported(err) {
				log.Info("validator skipped (unsupported)")
				continue
			}
			problems = append(problems, coll+": "+err.Error())
			continue
		}
		log.Info("validator ensured")
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

/* ---------------------- collection helpers ---------------------- */

func ensureCollection(ctx context.Context, db *mongo.Database, name string, log *zap.Logger) error {
	names, err := db.ListCollectionNames(ctx, bson.M{"name": name})
	if err == nil && len(names) > 0 {
		log.Debug("collection exists")
		return nil
	}
	// Listing failed or came back empty; create and tolerate a race.
	if err := db.CreateCollection(ctx, name); err != nil {
		if isNamespaceExists(err) {
			return nil
		}
		log.Warn("createCollection failed", zap.Error(err))
		return err
	}
	log.Info("created collection")
	return nil
}

func setValidator(ctx context.Context, db *mongo.Database, name string, validator bson.M) error {
	cmd := bson.D{
		{Key: "collMod", Value: name},
		{Key: "validator", Value: validator},
		{Key: "validationLevel", Value: "moderate"},
		{Key: "validationAction", Value: "error"},
	}
	return db.RunCommand(ctx, cmd).Err()
}

/* ------------------------- error helpers ------------------------- */

func commandCode(err error) (int32, string) {
	var ce mongo.CommandError
	if errors.As(err, &ce) {
		return ce.Code, strings.ToLower(ce.Message)
	}
	return 0, strings.ToLower(err.Error())
}

func isNamespaceExists(err error) bool {
	code, msg := commandCode(err)
	return code == 48 || strings.Contains(msg, "already exists") || strings.Contains(msg, "namespace exists")
}

// isUnsupported covers "no such command" (59) and "not implemented" (115),
// as returned by some DocumentDB versions.
func isUnsupported(err error) bool {
	code, msg := commandCode(err)
	return code == 59 || code == 115 ||
		strings.Contains(msg, "no such command") ||
		strings.Contains(msg, "not implemented") ||
		strings.Contains(msg, "not supported")
}

/* ------------------------- JSON-Schema docs ---------------------- */

var nonBlank = bson.M{"bsonType": "string", "minLength": 1, "pattern": ".*\\S.*"}

// Schema returns the $jsonSchema validator for a collection, or nil.
func Schema(coll string) bson.M {
	var s bson.M
	switch coll {
	case "users":
		s = bson.M{
			"bsonType": "object",
			"required": bson.A{"email", "email_ci", "created_at"},
			"properties": bson.M{
				"email":          nonBlank,
				"email_ci":       nonBlank,
				"credential_ref": bson.M{"bsonType": "string"},
				"created_at":     bson.M{"bsonType": "date"},
			},
		}
	case "projects":
		s = bson.M{
			"bsonType": "object",
			"required": bson.A{"title", "title_ci", "owner_id", "members"},
			"properties": bson.M{
				"title":          nonBlank,
				"title_ci":       nonBlank,
				"owner_id":       bson.M{"bsonType": "objectId"},
				"client_payment": bson.M{"bsonType": bson.A{"double", "int", "long", "decimal"}, "minimum": 0},
				"story_points":   bson.M{"bsonType": bson.A{"int", "long"}, "minimum": 0},
				"due_date":       bson.M{"bsonType": bson.A{"date", "null"}},
				"members": bson.M{
					"bsonType": "array",
					"items": bson.M{
						"bsonType": "object",
						"required": bson.A{"user_id", "role"},
						"properties": bson.M{
							"user_id": bson.M{"bsonType": "objectId"},
							"email":   bson.M{"bsonType": "string"},
							"role":    bson.M{"enum": bson.A{string(models.MemberViewer), string(models.MemberEditor)}},
						},
					},
				},
			},
		}
	case "todos":
		statuses := bson.A{}
		for _, st := range models.Statuses {
			statuses = append(statuses, string(st))
		}
		s = bson.M{
			"bsonType": "object",
			"required": bson.A{"text", "status", "project_id", "owner_id"},
			"properties": bson.M{
				"text":       nonBlank,
				"text_ci":    bson.M{"bsonType": "string"},
				"status":     bson.M{"enum": statuses},
				"project_id": bson.M{"bsonType": "objectId"},
				"owner_id":   bson.M{"bsonType": "objectId"},
			},
		}
	default:
		return nil
	}
	return bson.M{"$jsonSchema": s}
}
