package services

import (
	"testing"

	"github.com/pageturners/bookclub/backend/internal/models"
	"github.com/pageturners/bookclub/backend/pkg/response"
)

func TestMemberService_ListNewestFirst(t *testing.T) {
	db := testDB(t)
	service := NewMemberService(db)

	veteran := createMember(t, db, "Veteran", "veteran@example.com", false)
	veteran.CreatedAt = daysAgo(100)
	if err := db.Save(veteran).Error; err != nil {
		t.Fatalf("failed to backdate member: %v", err)
	}
	createMember(t, db, "Newcomer", "newcomer@example.com", false)

	members, err := service.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(members) != 2 {
		t.Fatalf("member count = %d, expected 2", len(members))
	}
	if members[0].Name != "Newcomer" {
		t.Errorf("members[0] = %q, expected the newest account first", members[0].Name)
	}
}

func TestMemberService_Promote(t *testing.T) {
	db := testDB(t)
	admin := createMember(t, db, "Admin", "admin@example.com", true)
	regular := createMember(t, db, "Grace", "grace@example.com", false)
	service := NewMemberService(db)

	promoted, err := service.Promote(regular.ID, admin.ID)
	if err != nil {
		t.Fatalf("Promote failed: %v", err)
	}
	if !promoted.IsAdmin {
		t.Error("member should be an admin after promotion")
	}

	entry := lastAuditEntry(t, db)
	if entry.Action != "promote_admin" {
		t.Errorf("audit action = %q, expected %q", entry.Action, "promote_admin")
	}
	if entry.ActorID == nil || *entry.ActorID != admin.ID {
		t.Errorf("audit actor = %v, expected %d", entry.ActorID, admin.ID)
	}

	// Promoting again conflicts.
	_, err = service.Promote(regular.ID, admin.ID)
	wantAppError(t, err, response.KindConflict, "Grace is already an admin")
}

func TestMemberService_PromoteUnknownMember(t *testing.T) {
	db := testDB(t)
	admin := createMember(t, db, "Admin", "admin@example.com", true)
	service := NewMemberService(db)

	_, err := service.Promote(9999, admin.ID)
	wantAppError(t, err, response.KindNotFound, "User not found")
}

func TestMemberService_Demote(t *testing.T) {
	db := testDB(t)
	first := createMember(t, db, "First", "first@example.com", true)
	second := createMember(t, db, "Second", "second@example.com", true)
	service := NewMemberService(db)

	demoted, err := service.Demote(second.ID, first.ID)
	if err != nil {
		t.Fatalf("Demote failed: %v", err)
	}
	if demoted.IsAdmin {
		t.Error("member should no longer be an admin after demotion")
	}

	entry := lastAuditEntry(t, db)
	if entry.Action != "demote_admin" {
		t.Errorf("audit action = %q, expected %q", entry.Action, "demote_admin")
	}
}

func TestMemberService_DemoteGuards(t *testing.T) {
	db := testDB(t)
	admin := createMember(t, db, "Admin", "admin@example.com", true)
	regular := createMember(t, db, "Grace", "grace@example.com", false)
	service := NewMemberService(db)

	t.Run("self-demotion", func(t *testing.T) {
		_, err := service.Demote(admin.ID, admin.ID)
		wantAppError(t, err, response.KindConflict, "You cannot demote yourself. Ask another admin to do this.")
	})

	t.Run("unknown member", func(t *testing.T) {
		_, err := service.Demote(9999, admin.ID)
		wantAppError(t, err, response.KindNotFound, "User not found")
	})

	t.Run("not an admin", func(t *testing.T) {
		_, err := service.Demote(regular.ID, admin.ID)
		wantAppError(t, err, response.KindConflict, "Grace is not an admin")
	})

	t.Run("last admin", func(t *testing.T) {
		// A second admin demoting the only other admin would leave the
		// club with one; demoting THE last one must fail even for a peer.
		other := createMember(t, db, "Other", "other@example.com", false)
		_, err := service.Demote(admin.ID, other.ID)
		wantAppError(t, err, response.KindConflict, "Cannot demote the last admin. Promote another user to admin first.")

		var reloaded models.Member
		if err := db.First(&reloaded, admin.ID).Error; err != nil {
			t.Fatalf("reload failed: %v", err)
		}
		if !reloaded.IsAdmin {
			t.Error("the last admin must keep admin rights")
		}
	})
}

func TestMemberService_AdminStats(t *testing.T) {
	db := testDB(t)

	veteran := createMember(t, db, "Veteran", "veteran@example.com", true)
	veteran.CreatedAt = daysAgo(45)
	if err := db.Save(veteran).Error; err != nil {
		t.Fatalf("failed to backdate member: %v", err)
	}
	fresh := createMember(t, db, "Fresh", "fresh@example.com", false)
	tracker := createMember(t, db, "Tracker", "tracker@example.com", false)

	createSuggestion(t, db, fresh.ID, "Pending One", models.SuggestionPending)
	createSuggestion(t, db, fresh.ID, "Decided", models.SuggestionApproved)

	book := createBook(t, db, "Clean Code", models.BookCurrent)
	createProgress(t, db, veteran.ID, book.ID, 2)
	createProgress(t, db, fresh.ID, book.ID, 3)
	createProgress(t, db, tracker.ID, book.ID, models.ChapterNotStarted)

	service := NewMemberService(db)
	stats, err := service.AdminStats()
	if err != nil {
		t.Fatalf("AdminStats failed: %v", err)
	}

	if stats.TotalMembers != 3 {
		t.Errorf("TotalMembers = %d, expected 3", stats.TotalMembers)
	}
	if stats.NewMembersThisMonth != 2 {
		t.Errorf("NewMembersThisMonth = %d, expected 2", stats.NewMembersThisMonth)
	}
	if stats.PendingSuggestions != 1 {
		t.Errorf("PendingSuggestions = %d, expected 1", stats.PendingSuggestions)
	}

	eng := stats.CurrentBookEngagement
	if eng.BookTitle == nil || *eng.BookTitle != "Clean Code" {
		t.Errorf("BookTitle = %v, expected Clean Code", eng.BookTitle)
	}
	if eng.TrackingProgress != 3 {
		t.Errorf("TrackingProgress = %d, expected 3", eng.TrackingProgress)
	}
	// Only members actually mid-book count toward the average: (2+3)/2.
	if eng.AverageChapter != 2.5 {
		t.Errorf("AverageChapter = %v, expected 2.5", eng.AverageChapter)
	}
}

func TestMemberService_AdminStatsWithoutCurrentBook(t *testing.T) {
	db := testDB(t)
	createMember(t, db, "Admin", "admin@example.com", true)

	service := NewMemberService(db)
	stats, err := service.AdminStats()
	if err != nil {
		t.Fatalf("AdminStats failed: %v", err)
	}

	eng := stats.CurrentBookEngagement
	if eng.BookTitle != nil {
		t.Errorf("BookTitle = %v, expected nil when nothing is being read", *eng.BookTitle)
	}
	if eng.TrackingProgress != 0 || eng.AverageChapter != 0 {
		t.Errorf("engagement = %+v, expected zeroes", eng)
	}
}
