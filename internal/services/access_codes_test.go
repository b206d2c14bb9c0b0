package services

import (
	"testing"

	"github.com/pageturners/bookclub/backend/internal/models"
)

func TestAccessCodeService_Verify(t *testing.T) {
	db := testDB(t)
	if err := db.Create(&models.AccessCode{Code: "TW2024DEC"}).Error; err != nil {
		t.Fatalf("failed to seed access code: %v", err)
	}
	service := NewAccessCodeService(db)

	tests := []struct {
		name     string
		supplied string
		want     bool
	}{
		{"exact match", "TW2024DEC", true},
		{"lowercase matches", "tw2024dec", true},
		{"mixed case matches", "Tw2024Dec", true},
		{"surrounding whitespace is trimmed", "  TW2024DEC  ", true},
		{"wrong code", "WRONG", false},
		{"empty input", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := service.Verify(tt.supplied)
			if err != nil {
				t.Fatalf("Verify failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("Verify(%q) = %v, expected %v", tt.supplied, got, tt.want)
			}
		})
	}
}

func TestAccessCodeService_VerifyNoCodeStored(t *testing.T) {
	db := testDB(t)
	service := NewAccessCodeService(db)

	ok, err := service.Verify("ANYTHING")
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if ok {
		t.Error("verification must fail when no code is stored")
	}
}

func TestAccessCodeService_Update(t *testing.T) {
	db := testDB(t)
	admin := createMember(t, db, "Admin", "admin@example.com", true)
	service := NewAccessCodeService(db)

	// First update creates the row.
	code, err := service.Update("SPRING25", admin.ID)
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if code.Code != "SPRING25" {
		t.Errorf("Code = %q, expected %q", code.Code, "SPRING25")
	}

	// Second update overwrites in place rather than adding a row.
	if _, err := service.Update("SUMMER25", admin.ID); err != nil {
		t.Fatalf("second Update failed: %v", err)
	}
	if got := countRows(t, db, &models.AccessCode{}); got != 1 {
		t.Errorf("access code rows = %d, expected 1", got)
	}

	ok, err := service.Verify("summer25")
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if !ok {
		t.Error("new code should verify")
	}
	ok, err = service.Verify("SPRING25")
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if ok {
		t.Error("old code must stop working after an update")
	}

	entry := lastAuditEntry(t, db)
	if entry.Action != "update_access_code" {
		t.Errorf("audit action = %q, expected %q", entry.Action, "update_access_code")
	}
	if entry.ActorID == nil || *entry.ActorID != admin.ID {
		t.Errorf("audit actor = %v, expected %d", entry.ActorID, admin.ID)
	}
}
