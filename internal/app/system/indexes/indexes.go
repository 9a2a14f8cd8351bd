// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

/*
EnsureAll is called at startup and by `kanbanctl ensure-indexes`. Each
collection's set is reconciled idempotently; problems are aggregated so every
one is visible and startup can fail fast.
*/
func EnsureAll(ctx context.Context, db *mongo.Database, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	var problems []string
	for _, coll := range []string{"users", "projects", "todos"} {
		r := reconciler{coll: db.Collection(coll), log: logger.With(zap.String("collection", coll))}
		if err := r.ensure(ctx, Desired(coll)); err != nil {
			problems = append(problems, coll+": "+err.Error())
		}
	}
	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

// Desired returns the index set for a collection.
func Desired(coll string) []mongo.IndexModel {
	switch coll {
	case "users":
		return []mongo.IndexModel{
			// Lookups and the uniqueness guarantee both use the folded email.
			{
				Keys:    bson.D{{Key: "email_ci", Value: 1}},
				Options: options.Index().SetUnique(true).SetName("uniq_users_email"),
			},
			// One local user per provider subject; users without one are skipped.
			{
				Keys:    bson.D{{Key: "credential_ref", Value: 1}},
				Options: options.Index().SetUnique(true).SetSparse(true).SetName("idx_users_credential_ref"),
			},
		}
	case "projects":
		return []mongo.IndexModel{
			// "My projects" is owner_id OR members.user_id, newest first.
			{
				Keys:    bson.D{{Key: "owner_id", Value: 1}, {Key: "created_at", Value: -1}},
				Options: options.Index().SetName("idx_projects_owner"),
			},
			{
				Keys:    bson.D{{Key: "members.user_id", Value: 1}, {Key: "created_at", Value: -1}},
				Options: options.Index().SetName("idx_projects_members_user"),
			},
			{
				Keys:    bson.D{{Key: "title_ci", Value: 1}, {Key: "_id", Value: 1}},
				Options: options.Index().SetName("idx_projects_title_ci"),
			},
		}
	case "todos":
		return []mongo.IndexModel{
			// Board loads and cascade deletes scan by project_id prefix.
			{
				Keys: bson.D{
					{Key: "project_id", Value: 1},
					{Key: "status", Value: 1},
					{Key: "created_at", Value: 1},
				},
				Options: options.Index().SetName("idx_todos_project_status"),
			},
			{
				Keys:    bson.D{{Key: "project_id", Value: 1}, {Key: "text_ci", Value: 1}},
				Options: options.Index().SetName("idx_todos_project_text_ci"),
			},
		}
	}
	return nil
}

/* -------------------------------------------------------------------------- */
/* Reconcile a set of desired indexes for one collection                      */
/* -------------------------------------------------------------------------- */

type existingIndex struct {
	Name   string `bson:"name"`
	Key    bson.D `bson:"key"`
	Unique *bool  `bson:"unique,omitempty"`
	Sparse *bool  `bson:"sparse,omitempty"`
}

func keySig(keys bson.D) string {
	parts := make([]string, 0, len(keys))
	for _, kv := range keys {
		parts = append(parts, fmt.Sprintf("%s:%v", kv.Key, kv.Value))
	}
	return strings.Join(parts, ", ")
}

func boolOf(p *bool) bool { return p != nil && *p }

// action is what reconcile decided for one desired index.
type action int

const (
	actCreate action = iota
	actReuse
	actRename
	actRecreate
)

func (a action) String() string {
	switch a {
	case actReuse:
		return "reuse"
	case actRename:
		return "rename"
	case actRecreate:
		return "recreate"
	}
	return "create"
}

// plan compares one desired index to what exists. An index with the same key
// pattern but different options is recreated; one that differs only by name
// is renamed (dropped and recreated under the desired name).
func plan(existing map[string]existingIndex, m mongo.IndexModel) (action, existingIndex) {
	ex, ok := existing[keySig(m.Keys.(bson.D))]
	if !ok {
		return actCreate, existingIndex{}
	}
	var name string
	var unique, sparse *bool
	if m.Options != nil {
		if m.Options.Name != nil {
			name = *m.Options.Name
		}
		unique, sparse = m.Options.Unique, m.Options.Sparse
	}
	if boolOf(unique) != boolOf(ex.Unique) || boolOf(sparse) != boolOf(ex.Sparse) {
		return actRecreate, ex
	}
	if name != "" && ex.Name != name {
		return actRename, ex
	}
	return actReuse, ex
}

type reconciler struct {
	coll *mongo.Collection
	log  *zap.Logger
}

func (r reconciler) list(ctx context.Context) (map[string]existingIndex, error) {
	cur, err := r.coll.Indexes().List(ctx)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := map[string]existingIndex{}
	for cur.Next(ctx) {
		var idx existingIndex
		if err := cur.Decode(&idx); err != nil {
			r.log.Warn("failed to decode existing index", zap.Error(err))
			continue
		}
		out[keySig(idx.Key)] = idx
	}
	return out, cur.Err()
}

func (r reconciler) ensure(ctx context.Context, desired []mongo.IndexModel) error {
	var errs []string

	for _, m := range desired {
		start := time.Now()
		name := *m.Options.Name
		sig := keySig(m.Keys.(bson.D))

		// A collection that does not exist yet lists as empty.
		existing, err := r.list(ctx)
		if err != nil {
			existing = map[string]existingIndex{}
		}

		act, ex := plan(existing, m)
		switch act {
		case actReuse:
			r.log.Debug("reusing existing index", zap.String("name", ex.Name), zap.String("keys", sig))
			continue
		case actRename, actRecreate:
			if _, err := r.coll.Indexes().DropOne(ctx, ex.Name); err != nil {
				errs = append(errs, fmt.Sprintf("%s: %s drop failed: %v", name, act, err))
				continue
			}
		}

		if _, err := r.coll.Indexes().CreateOne(ctx, m); err != nil {
			if wafflemongo.IsDup(err) && boolOf(m.Options.Unique) {
				errs = append(errs, fmt.Sprintf("%s: cannot create unique index (duplicates present on %s)", name, sig))
			} else {
				errs = append(errs, fmt.Sprintf("%s: %v", name, err))
			}
			r.log.Warn("index ensure failed", zap.String("name", name), zap.String("keys", sig), zap.Error(err))
			continue
		}
		r.log.Info("index ensured",
			zap.String("name", name),
			zap.String("keys", sig),
			zap.String("action", act.String()),
			zap.Duration("took", time.Since(start)))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}
