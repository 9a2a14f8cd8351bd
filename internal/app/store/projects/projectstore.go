// internal/app/store/projects/projectstore.go
package projectstore

import (
	"context"
	"time"

	"github.com/techikansh/Kanban-Board/internal/app/system/queryfilter"
	"github.com/techikansh/Kanban-Board/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("projects")}
}

// Create inserts p with a fresh id and timestamps.
func (s *Store) Create(ctx context.Context, p models.Project) (models.Project, error) {
	now := time.Now().UTC()
	p.ID = primitive.NewObjectID()
	if p.Members == nil {
		p.Members = []models.Membership{}
	}
	p.CreatedAt = now
	p.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, p); err != nil {
		return models.Project{}, err
	}
	return p, nil
}

// GetByID returns mongo.ErrNoDocuments when the project does not exist.
// It does no access checks; go through projectpolicy.Load for that.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Project, error) {
	var p models.Project
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		return models.Project{}, err
	}
	return p, nil
}

// ListForUser returns projects the user owns or is a member of, newest first.
func (s *Store) ListForUser(ctx context.Context, userID primitive.ObjectID, f queryfilter.ProjectFilter) ([]models.Project, error) {
	filter := bson.M{
		"$or": bson.A{
			bson.M{"owner_id": userID},
			bson.M{"members.user_id": userID},
		},
	}
	if extra := f.BSON(); len(extra) > 0 {
		filter = bson.M{"$and": bson.A{filter, extra}}
	}

	cur, err := s.c.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Project{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Update writes only the fields present in in, taking their values from p
// (already validated by Apply). Absent fields keep what is stored.
func (s *Store) Update(ctx context.Context, p models.Project, in models.ProjectInput) (models.Project, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	update := bson.M{"$set": set}
	if in.Title != nil {
		set["title"] = p.Title
		set["title_ci"] = p.TitleCI
	}
	if in.Description != nil {
		set["description"] = p.Description
	}
	if in.DueDate != nil {
		if p.DueDate != nil {
			set["due_date"] = *p.DueDate
		} else {
			update["$unset"] = bson.M{"due_date": ""}
		}
	}
	if in.ClientPayment != nil {
		set["client_payment"] = p.ClientPayment
	}
	if in.StoryPoints != nil {
		set["story_points"] = p.StoryPoints
	}

	var out models.Project
	err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": p.ID}, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&out)
	if err != nil {
		return models.Project{}, err
	}
	return out, nil
}

// AddMember appends m unless a member with the same user id is already
// present. The check and the push are one atomic update, so concurrent adds
// for the same user cannot both succeed. Returns false when nothing was
// added (already a member, or the project is gone).
func (s *Store) AddMember(ctx context.Context, projectID primitive.ObjectID, m models.Membership) (bool, error) {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": projectID, "members.user_id": bson.M{"$ne": m.UserID}},
		bson.M{
			"$push": bson.M{"members": m},
			"$set":  bson.M{"updated_at": time.Now().UTC()},
		},
	)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount > 0, nil
}

// RemoveMember pulls userID from the member list. Removing someone who is
// not a member is not an error; the bool reports whether anything changed.
func (s *Store) RemoveMember(ctx context.Context, projectID, userID primitive.ObjectID) (bool, error) {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": projectID, "members.user_id": userID},
		bson.M{
			"$pull": bson.M{"members": bson.M{"user_id": userID}},
			"$set":  bson.M{"updated_at": time.Now().UTC()},
		},
	)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount > 0, nil
}

// Delete removes a project by ID. Returns the number of documents deleted (0 or 1).
// Tasks are not touched; see cascade.DeleteProject.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// ExistingIDs reports which of ids still have a project document.
func (s *Store) ExistingIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]bool, error) {
	out := make(map[primitive.ObjectID]bool, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	cur, err := s.c.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	for cur.Next(ctx) {
		var doc struct {
			ID primitive.ObjectID `bson:"_id"`
		}
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out[doc.ID] = true
	}
	return out, cur.Err()
}
