// internal/app/store/plans/planstore.go
package planstore

import (
	"context"
	"errors"
	"time"

	"github.com/gmgapp/gmg/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

var ErrNotFound = errors.New("no plan for this meeting")

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("plans")}
}

// Upsert stores the plan for its meeting, replacing any earlier plan.
func (s *Store) Upsert(ctx context.Context, p models.Plan) (models.Plan, error) {
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	p.CreatedAt = time.Now().UTC()

	// keep the original _id when a plan already exists
	var existing struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	err := s.c.FindOne(ctx, bson.M{"meeting_id": p.MeetingID},
		options.FindOne().SetProjection(bson.M{"_id": 1})).Decode(&existing)
	switch {
	case err == nil:
		p.ID = existing.ID
	case !errors.Is(err, mongo.ErrNoDocuments):
		return models.Plan{}, err
	}

	_, err = s.c.ReplaceOne(ctx, bson.M{"meeting_id": p.MeetingID}, p, options.Replace().SetUpsert(true))
	if err != nil {
		return models.Plan{}, err
	}
	return p, nil
}

func (s *Store) GetByMeeting(ctx context.Context, meetingID primitive.ObjectID) (models.Plan, error) {
	var p models.Plan
	err := s.c.FindOne(ctx, bson.M{"meeting_id": meetingID}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Plan{}, ErrNotFound
	}
	if err != nil {
		return models.Plan{}, err
	}
	return p, nil
}

// ListByMeetings returns the plans of the given meetings keyed by meeting ID.
func (s *Store) ListByMeetings(ctx context.Context, meetingIDs []primitive.ObjectID) (map[primitive.ObjectID]models.Plan, error) {
	out := make(map[primitive.ObjectID]models.Plan)
	if len(meetingIDs) == 0 {
		return out, nil
	}
	cur, err := s.c.Find(ctx, bson.M{"meeting_id": bson.M{"$in": meetingIDs}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	for cur.Next(ctx) {
		var p models.Plan
		if err := cur.Decode(&p); err != nil {
			return nil, err
		}
		out[p.MeetingID] = p
	}
	return out, cur.Err()
}

func (s *Store) DeleteByMeetings(ctx context.Context, meetingIDs []primitive.ObjectID) (int64, error) {
	if len(meetingIDs) == 0 {
		return 0, nil
	}
	res, err := s.c.DeleteMany(ctx, bson.M{"meeting_id": bson.M{"$in": meetingIDs}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
