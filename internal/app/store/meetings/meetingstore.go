// internal/app/store/meetings/meetingstore.go
package meetingstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/gmgapp/gmg/internal/domain/models"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

var (
	ErrNotFound            = errors.New("meeting not found")
	ErrDuplicateInviteCode = errors.New("invite code already in use")
	ErrBadWindow           = errors.New("window end is before window start")
)

// inviteAttempts bounds the retries when a generated invite code collides.
const inviteAttempts = 3

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("meetings")}
}

// NewInviteCode returns a short, URL-safe code derived from a random UUID.
func NewInviteCode() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:10])
}

// Create inserts a meeting, assigning ID, invite code, folded name, status and
// timestamps. A caller-supplied InviteCode is kept; a generated one is retried
// on collision.
func (s *Store) Create(ctx context.Context, m models.Meeting) (models.Meeting, error) {
	if m.WindowEnd.Before(m.WindowStart) {
		return models.Meeting{}, ErrBadWindow
	}
	now := time.Now().UTC()
	m.ID = primitive.NewObjectID()
	m.NameCI = text.Fold(m.Name)
	m.WindowStart = models.DateOf(m.WindowStart)
	m.WindowEnd = models.DateOf(m.WindowEnd)
	if m.Status == "" {
		m.Status = models.MeetingCollecting
	}
	m.CreatedAt = now
	m.UpdatedAt = now

	generated := m.InviteCode == ""
	for attempt := 0; ; attempt++ {
		if generated {
			m.InviteCode = NewInviteCode()
		}
		_, err := s.c.InsertOne(ctx, m)
		if err == nil {
			return m, nil
		}
		if !wafflemongo.IsDup(err) {
			return models.Meeting{}, fmt.Errorf("insert meeting: %w", err)
		}
		if !generated || attempt+1 >= inviteAttempts {
			return models.Meeting{}, ErrDuplicateInviteCode
		}
	}
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Meeting, error) {
	return s.findOne(ctx, bson.M{"_id": id})
}

// GetByInviteCode looks a meeting up by its invite code (case-insensitive).
func (s *Store) GetByInviteCode(ctx context.Context, code string) (models.Meeting, error) {
	return s.findOne(ctx, bson.M{"invite_code": strings.ToUpper(strings.TrimSpace(code))})
}

func (s *Store) findOne(ctx context.Context, filter bson.M) (models.Meeting, error) {
	var m models.Meeting
	err := s.c.FindOne(ctx, filter).Decode(&m)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Meeting{}, ErrNotFound
	}
	if err != nil {
		return models.Meeting{}, err
	}
	return m, nil
}

// ListByIDs loads the given meetings ordered by window start.
func (s *Store) ListByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Meeting, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	opts := options.Find().SetSort(bson.D{{Key: "window_start", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []models.Meeting
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SetStatus changes the meeting status and refreshes UpdatedAt.
func (s *Store) SetStatus(ctx context.Context, id primitive.ObjectID, status string) error {
	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"status":     status,
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

// SetBlockedDates replaces the dates the host blocked.
func (s *Store) SetBlockedDates(ctx context.Context, id primitive.ObjectID, dates []string) error {
	if dates == nil {
		dates = []string{}
	}
	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"blocked_dates": dates,
		"updated_at":    time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ExpiredIDs returns the meetings whose window ended before cutoff.
func (s *Store) ExpiredIDs(ctx context.Context, cutoff time.Time) ([]primitive.ObjectID, error) {
	opts := options.Find().SetProjection(bson.M{"_id": 1})
	cur, err := s.c.Find(ctx, bson.M{"window_end": bson.M{"$lt": cutoff}}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var rows []struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}
	ids := make([]primitive.ObjectID, len(rows))
	for i, r := range rows {
		ids[i] = r.ID
	}
	return ids, nil
}

// DeleteByIDs removes meetings and returns how many were deleted.
func (s *Store) DeleteByIDs(ctx context.Context, ids []primitive.ObjectID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res, err := s.c.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
