package services

import (
	"context"
	"testing"

	"github.com/talesoul/talesoul-api/apperror"
	"github.com/talesoul/talesoul-api/models"
	"github.com/talesoul/talesoul-api/repository"
)

func TestSlotInputValidation(t *testing.T) {
	cases := []struct {
		name string
		in   SlotInput
		ok   bool
	}{
		{"valid", SlotInput{DayOfWeek: 1, StartTime: "09:00", EndTime: "10:30"}, true},
		{"single digit hour", SlotInput{DayOfWeek: 0, StartTime: "9:00", EndTime: "9:30"}, true},
		{"day too large", SlotInput{DayOfWeek: 7, StartTime: "09:00", EndTime: "10:00"}, false},
		{"negative day", SlotInput{DayOfWeek: -1, StartTime: "09:00", EndTime: "10:00"}, false},
		{"bad format", SlotInput{DayOfWeek: 2, StartTime: "9am", EndTime: "10:00"}, false},
		{"hour out of range", SlotInput{DayOfWeek: 2, StartTime: "24:00", EndTime: "24:30"}, false},
		{"end equals start", SlotInput{DayOfWeek: 3, StartTime: "10:00", EndTime: "10:00"}, false},
		{"end before start", SlotInput{DayOfWeek: 3, StartTime: "11:00", EndTime: "10:00"}, false},
	}
	for _, tc := range cases {
		err := tc.in.validate()
		if tc.ok && err != nil {
			t.Errorf("%s: unexpected error %v", tc.name, err)
		}
		if !tc.ok && !apperror.Is(err, apperror.KindBadRequest) {
			t.Errorf("%s: got %v, want BadRequest", tc.name, err)
		}
	}
}

func TestAvailabilitySlots(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	approvedUser := env.users.add(t, "approved@test.io", models.RoleMentor)
	pendingUser := env.users.add(t, "pending@test.io", models.RoleMentor)
	student := env.users.add(t, "student@test.io", models.RoleUser)
	approved := env.mentors.add(t, approvedUser, 50, models.MentorApproved)
	env.mentors.add(t, pendingUser, 50, models.MentorPending)
	in := SlotInput{DayOfWeek: 1, StartTime: "09:00", EndTime: "10:00"}

	if _, err := env.mentorSvc.CreateSlot(ctx, student, in); !apperror.Is(err, apperror.KindForbidden) {
		t.Fatalf("student: got %v, want Forbidden", err)
	}
	if _, err := env.mentorSvc.CreateSlot(ctx, pendingUser, in); !apperror.Is(err, apperror.KindForbidden) {
		t.Fatalf("pending mentor: got %v, want Forbidden", err)
	}
	slot, err := env.mentorSvc.CreateSlot(ctx, approvedUser, in)
	if err != nil {
		t.Fatalf("CreateSlot: %v", err)
	}
	if slot.MentorID != approved.ID || !slot.IsAvailable {
		t.Fatalf("unexpected slot %+v", slot)
	}

	slots, err := env.mentorSvc.ListSlots(ctx, approved.ID)
	if err != nil || len(slots) != 1 {
		t.Fatalf("ListSlots = %d, %v", len(slots), err)
	}
	if _, err := env.mentorSvc.ListSlots(ctx, approved.ID+100); !apperror.Is(err, apperror.KindNotFound) {
		t.Fatalf("unknown mentor: got %v, want NotFound", err)
	}

	if err := env.mentorSvc.DeleteSlot(ctx, student, slot.ID); !apperror.Is(err, apperror.KindForbidden) {
		t.Fatalf("student delete: got %v, want Forbidden", err)
	}
	if err := env.mentorSvc.DeleteSlot(ctx, pendingUser, slot.ID); !apperror.Is(err, apperror.KindForbidden) {
		t.Fatalf("other mentor delete: got %v, want Forbidden", err)
	}
	if err := env.mentorSvc.DeleteSlot(ctx, approvedUser, slot.ID); err != nil {
		t.Fatalf("DeleteSlot: %v", err)
	}
	if err := env.mentorSvc.DeleteSlot(ctx, approvedUser, slot.ID); !apperror.Is(err, apperror.KindNotFound) {
		t.Fatalf("second delete: got %v, want NotFound", err)
	}
}

func TestMentorDirectoryShowsApprovedOnly(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a := env.users.add(t, "a@test.io", models.RoleMentor)
	b := env.users.add(t, "b@test.io", models.RoleMentor)
	env.mentors.add(t, a, 40, models.MentorApproved)
	env.mentors.add(t, b, 40, models.MentorRejected)

	list, err := env.mentorSvc.ListApproved(ctx, repository.Page{})
	if err != nil || len(list) != 1 || list[0].UserID != a.ID {
		t.Fatalf("ListApproved = %+v, %v", list, err)
	}
	if list[0].User.Email != "a@test.io" {
		t.Fatalf("mentor user not loaded: %+v", list[0].User)
	}
	if _, err := env.mentorSvc.GetApproved(ctx, b.ID); !apperror.Is(err, apperror.KindNotFound) {
		t.Fatalf("rejected mentor: got %v, want NotFound", err)
	}
	if _, err := env.mentorSvc.GetApproved(ctx, a.ID); err != nil {
		t.Fatalf("GetApproved: %v", err)
	}
}
