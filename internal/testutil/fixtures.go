package testutil

import (
	"testing"
	"time"

	meetingstore "github.com/gmgapp/gmg/internal/app/store/meetings"
	participantstore "github.com/gmgapp/gmg/internal/app/store/participants"
	"github.com/gmgapp/gmg/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

// Date parses "2006-01-02" and fails the test on a bad value.
func Date(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := models.ParseDateKey(s)
	if err != nil {
		t.Fatalf("bad fixture date %q: %v", s, err)
	}
	return d
}

// CreateMeeting inserts a collecting meeting with the given window.
func CreateMeeting(t *testing.T, db *mongo.Database, name, start, end string) models.Meeting {
	t.Helper()
	ctx, cancel := TestContext()
	defer cancel()

	m, err := meetingstore.New(db).Create(ctx, models.Meeting{
		Name:        name,
		HostName:    "Host",
		WindowStart: Date(t, start),
		WindowEnd:   Date(t, end),
	})
	if err != nil {
		t.Fatalf("failed to create meeting fixture: %v", err)
	}
	return m
}

// CreateParticipant inserts a participant of meetingID. A non-empty passcode
// is stored hashed the way the join flow stores it.
func CreateParticipant(t *testing.T, db *mongo.Database, meetingID primitive.ObjectID, name, passcode string, host bool) models.Participant {
	t.Helper()
	ctx, cancel := TestContext()
	defer cancel()

	p := models.Participant{MeetingID: meetingID, Name: name, IsHost: host}
	if passcode != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(passcode), bcrypt.MinCost)
		if err != nil {
			t.Fatalf("failed to hash passcode: %v", err)
		}
		p.PasscodeHash = hash
	}
	p, err := participantstore.New(db).Create(ctx, p)
	if err != nil {
		t.Fatalf("failed to create participant fixture: %v", err)
	}
	return p
}

// SetAvailability stores days for one month of a participant.
func SetAvailability(t *testing.T, db *mongo.Database, participantID primitive.ObjectID, month string, days ...int) {
	t.Helper()
	ctx, cancel := TestContext()
	defer cancel()

	if err := participantstore.New(db).SetMonthAvailability(ctx, participantID, month, days); err != nil {
		t.Fatalf("failed to set availability fixture: %v", err)
	}
}
