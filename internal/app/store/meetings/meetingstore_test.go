package meetingstore_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	meetingstore "github.com/gmgapp/gmg/internal/app/store/meetings"
	"github.com/gmgapp/gmg/internal/domain/models"
	"github.com/gmgapp/gmg/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_Create(t *testing.T) {
	db := testutil.SetupIndexedDB(t)
	store := meetingstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.Meeting{
		Name:        "Friday Dinner",
		HostName:    "Mina",
		WindowStart: time.Date(2025, 10, 20, 15, 4, 0, 0, time.UTC),
		WindowEnd:   time.Date(2025, 10, 31, 23, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if created.ID == primitive.NilObjectID {
		t.Error("expected ID to be assigned")
	}
	if created.NameCI != "friday dinner" {
		t.Errorf("NameCI: got %q", created.NameCI)
	}
	if len(created.InviteCode) != 10 {
		t.Errorf("InviteCode: got %q, want 10 characters", created.InviteCode)
	}
	if created.Status != models.MeetingCollecting {
		t.Errorf("Status: got %q, want %q", created.Status, models.MeetingCollecting)
	}
	if !created.WindowStart.Equal(testutil.Date(t, "2025-10-20")) {
		t.Errorf("WindowStart not truncated to the date: %v", created.WindowStart)
	}

	got, err := store.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Name != "Friday Dinner" || got.InviteCode != created.InviteCode {
		t.Errorf("GetByID: got %+v", got)
	}
}

func TestStore_Create_BadWindow(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := meetingstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := store.Create(ctx, models.Meeting{
		Name:        "Backwards",
		WindowStart: testutil.Date(t, "2025-10-20"),
		WindowEnd:   testutil.Date(t, "2025-10-19"),
	})
	if !errors.Is(err, meetingstore.ErrBadWindow) {
		t.Errorf("expected ErrBadWindow, got %v", err)
	}
}

func TestStore_Create_DuplicateInviteCode(t *testing.T) {
	db := testutil.SetupIndexedDB(t)
	store := meetingstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	m := models.Meeting{
		Name:        "One",
		InviteCode:  "FIXEDCODE1",
		WindowStart: testutil.Date(t, "2025-10-20"),
		WindowEnd:   testutil.Date(t, "2025-10-21"),
	}
	if _, err := store.Create(ctx, m); err != nil {
		t.Fatalf("first Create failed: %v", err)
	}
	m.Name = "Two"
	if _, err := store.Create(ctx, m); !errors.Is(err, meetingstore.ErrDuplicateInviteCode) {
		t.Errorf("expected ErrDuplicateInviteCode, got %v", err)
	}
}

func TestStore_GetByInviteCode(t *testing.T) {
	db := testutil.SetupIndexedDB(t)
	store := meetingstore.New(db)
	m := testutil.CreateMeeting(t, db, "Lunch", "2025-10-20", "2025-10-24")
	ctx, cancel := testutil.TestContext()
	defer cancel()

	got, err := store.GetByInviteCode(ctx, "  "+strings.ToLower(m.InviteCode)+" ")
	if err != nil {
		t.Fatalf("GetByInviteCode failed: %v", err)
	}
	if got.ID != m.ID {
		t.Errorf("got meeting %v, want %v", got.ID, m.ID)
	}

	if _, err := store.GetByInviteCode(ctx, "NOPE"); !errors.Is(err, meetingstore.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_ListByIDs(t *testing.T) {
	db := testutil.SetupIndexedDB(t)
	store := meetingstore.New(db)
	late := testutil.CreateMeeting(t, db, "Late", "2025-12-01", "2025-12-05")
	early := testutil.CreateMeeting(t, db, "Early", "2025-10-01", "2025-10-05")
	testutil.CreateMeeting(t, db, "Other", "2025-11-01", "2025-11-05")
	ctx, cancel := testutil.TestContext()
	defer cancel()

	got, err := store.ListByIDs(ctx, []primitive.ObjectID{late.ID, early.ID})
	if err != nil {
		t.Fatalf("ListByIDs failed: %v", err)
	}
	if len(got) != 2 || got[0].ID != early.ID || got[1].ID != late.ID {
		t.Errorf("ListByIDs: got %d meetings in wrong order", len(got))
	}

	if got, err := store.ListByIDs(ctx, nil); err != nil || got != nil {
		t.Errorf("ListByIDs(nil) = %v, %v", got, err)
	}
}

func TestStore_SetStatus(t *testing.T) {
	db := testutil.SetupIndexedDB(t)
	store := meetingstore.New(db)
	m := testutil.CreateMeeting(t, db, "Lunch", "2025-10-20", "2025-10-24")
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := store.SetStatus(ctx, m.ID, models.MeetingPlanned); err != nil {
		t.Fatalf("SetStatus failed: %v", err)
	}
	got, _ := store.GetByID(ctx, m.ID)
	if got.Status != models.MeetingPlanned {
		t.Errorf("Status: got %q", got.Status)
	}
	if err := store.SetStatus(ctx, primitive.NewObjectID(), models.MeetingPlanned); !errors.Is(err, meetingstore.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_SetBlockedDates(t *testing.T) {
	db := testutil.SetupIndexedDB(t)
	store := meetingstore.New(db)
	m := testutil.CreateMeeting(t, db, "Lunch", "2025-10-20", "2025-10-24")
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := store.SetBlockedDates(ctx, m.ID, []string{"2025-10-21"}); err != nil {
		t.Fatalf("SetBlockedDates failed: %v", err)
	}
	got, _ := store.GetByID(ctx, m.ID)
	if !got.IsBlocked(testutil.Date(t, "2025-10-21")) {
		t.Errorf("BlockedDates: got %v", got.BlockedDates)
	}

	if err := store.SetBlockedDates(ctx, m.ID, nil); err != nil {
		t.Fatalf("clearing failed: %v", err)
	}
	got, _ = store.GetByID(ctx, m.ID)
	if len(got.BlockedDates) != 0 {
		t.Errorf("BlockedDates after clear: %v", got.BlockedDates)
	}
	if err := store.SetBlockedDates(ctx, primitive.NewObjectID(), nil); !errors.Is(err, meetingstore.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_ExpiredAndDelete(t *testing.T) {
	db := testutil.SetupIndexedDB(t)
	store := meetingstore.New(db)
	old := testutil.CreateMeeting(t, db, "Old", "2025-01-01", "2025-01-10")
	current := testutil.CreateMeeting(t, db, "Current", "2025-10-01", "2025-10-30")
	ctx, cancel := testutil.TestContext()
	defer cancel()

	ids, err := store.ExpiredIDs(ctx, testutil.Date(t, "2025-06-01"))
	if err != nil {
		t.Fatalf("ExpiredIDs failed: %v", err)
	}
	if len(ids) != 1 || ids[0] != old.ID {
		t.Fatalf("ExpiredIDs: got %v, want [%v]", ids, old.ID)
	}

	n, err := store.DeleteByIDs(ctx, ids)
	if err != nil || n != 1 {
		t.Fatalf("DeleteByIDs = %d, %v", n, err)
	}
	if _, err := store.GetByID(ctx, old.ID); !errors.Is(err, meetingstore.ErrNotFound) {
		t.Errorf("old meeting still present: %v", err)
	}
	if _, err := store.GetByID(ctx, current.ID); err != nil {
		t.Errorf("current meeting deleted: %v", err)
	}
}

func TestNewInviteCode(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		c := meetingstore.NewInviteCode()
		if len(c) != 10 || c != strings.ToUpper(c) {
			t.Fatalf("bad code %q", c)
		}
		if seen[c] {
			t.Fatalf("duplicate code %q", c)
		}
		seen[c] = true
	}
}
