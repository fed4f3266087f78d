// internal/app/store/participants/participantstore.go
package participantstore

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/gmgapp/gmg/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

var (
	ErrNotFound         = errors.New("participant not found")
	ErrDuplicateName    = errors.New("a participant with this name already joined")
	ErrInvalidMonthKey  = errors.New("invalid month key")
	ErrMissingMeetingID = errors.New("participant missing meeting_id")
	ErrConflict         = errors.New("availability changed since it was read")
)

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("participants")}
}

// Create inserts a participant. Names are unique per meeting after folding.
func (s *Store) Create(ctx context.Context, p models.Participant) (models.Participant, error) {
	if p.MeetingID.IsZero() {
		return models.Participant{}, ErrMissingMeetingID
	}
	now := time.Now().UTC()
	p.ID = primitive.NewObjectID()
	p.NameCI = text.Fold(p.Name)
	p.CreatedAt = now
	p.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, p); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Participant{}, ErrDuplicateName
		}
		return models.Participant{}, fmt.Errorf("insert participant: %w", err)
	}
	return p, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Participant, error) {
	return s.findOne(ctx, bson.M{"_id": id})
}

// GetByName finds a participant of a meeting by (folded) name.
func (s *Store) GetByName(ctx context.Context, meetingID primitive.ObjectID, name string) (models.Participant, error) {
	return s.findOne(ctx, bson.M{"meeting_id": meetingID, "name_ci": text.Fold(name)})
}

func (s *Store) findOne(ctx context.Context, filter bson.M) (models.Participant, error) {
	var p models.Participant
	err := s.c.FindOne(ctx, filter).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Participant{}, ErrNotFound
	}
	if err != nil {
		return models.Participant{}, err
	}
	return p, nil
}

// ListByMeeting returns participants in join order.
func (s *Store) ListByMeeting(ctx context.Context, meetingID primitive.ObjectID) ([]models.Participant, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{"meeting_id": meetingID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []models.Participant
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) CountByMeeting(ctx context.Context, meetingID primitive.ObjectID) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"meeting_id": meetingID})
}

// SetMonthAvailability replaces the selected days of one month. Days are
// stored sorted and de-duplicated; an empty list clears the month.
func (s *Store) SetMonthAvailability(ctx context.Context, id primitive.ObjectID, monthKey string, days []int) error {
	if _, _, err := models.ParseMonthKey(monthKey); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidMonthKey, err)
	}
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, monthUpdate(monthKey, days))
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// SwapMonthAvailability is SetMonthAvailability guarded by the days the
// caller read: the write only lands while the month still holds prev.
// Otherwise it returns ErrConflict and nothing changes.
func (s *Store) SwapMonthAvailability(ctx context.Context, id primitive.ObjectID, monthKey string, prev, days []int) error {
	if _, _, err := models.ParseMonthKey(monthKey); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidMonthKey, err)
	}
	field := "availability." + monthKey
	filter := bson.M{"_id": id}
	if old := normalizeDays(prev); len(old) == 0 {
		filter["$or"] = bson.A{
			bson.M{field: bson.M{"$exists": false}},
			bson.M{field: bson.M{"$size": 0}},
		}
	} else {
		filter[field] = old
	}

	res, err := s.c.UpdateOne(ctx, filter, monthUpdate(monthKey, days))
	if err != nil {
		return err
	}
	if res.MatchedCount > 0 {
		return nil
	}
	n, err := s.c.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return ErrConflict
}

func monthUpdate(monthKey string, days []int) bson.M {
	field := "availability." + monthKey
	now := time.Now().UTC()
	clean := normalizeDays(days)
	if len(clean) == 0 {
		return bson.M{
			"$unset": bson.M{field: ""},
			"$set":   bson.M{"updated_at": now},
		}
	}
	return bson.M{"$set": bson.M{field: clean, "updated_at": now}}
}

func normalizeDays(days []int) []int {
	clean := slices.Clone(days)
	slices.Sort(clean)
	return slices.Compact(clean)
}

// Preferences are the planning inputs a participant can edit.
type Preferences struct {
	Departure  models.Location
	Transport  string
	Categories []string
}

func (s *Store) UpdatePreferences(ctx context.Context, id primitive.ObjectID, prefs Preferences) error {
	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"departure":  prefs.Departure,
		"transport":  prefs.Transport,
		"categories": prefs.Categories,
		"updated_at": time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteByMeetings removes every participant of the given meetings.
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
