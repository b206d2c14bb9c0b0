package services

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/pageturners/bookclub/backend/internal/models"
	"github.com/pageturners/bookclub/backend/pkg/response"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

func createMember(t *testing.T, db *gorm.DB, name, email string, isAdmin bool) *models.Member {
	t.Helper()
	member := &models.Member{
		Name:         name,
		Email:        email,
		PasswordHash: "not-a-real-hash",
		IsAdmin:      isAdmin,
	}
	if err := db.Create(member).Error; err != nil {
		t.Fatalf("failed to create member: %v", err)
	}
	return member
}

func createBook(t *testing.T, db *gorm.DB, title string, status models.BookStatus) *models.Book {
	t.Helper()
	book := &models.Book{
		Title:  title,
		PDFURL: "https://example.com/" + strings.ReplaceAll(strings.ToLower(title), " ", "-") + ".pdf",
		Status: status,
	}
	if err := db.Create(book).Error; err != nil {
		t.Fatalf("failed to create book: %v", err)
	}
	return book
}

func createProgress(t *testing.T, db *gorm.DB, memberID, bookID uint, chapter int) *models.ReadingProgress {
	t.Helper()
	progress := &models.ReadingProgress{MemberID: memberID, BookID: bookID, Chapter: chapter}
	if err := db.Create(progress).Error; err != nil {
		t.Fatalf("failed to create progress row: %v", err)
	}
	return progress
}

func createSuggestion(t *testing.T, db *gorm.DB, memberID uint, title string, status models.SuggestionStatus) *models.Suggestion {
	t.Helper()
	suggestion := &models.Suggestion{
		Title:    title,
		PDFURL:   "https://example.com/suggested.pdf",
		Status:   status,
		MemberID: memberID,
	}
	if err := db.Create(suggestion).Error; err != nil {
		t.Fatalf("failed to create suggestion: %v", err)
	}
	return suggestion
}

// wantAppError asserts that err is an AppError of the given kind whose
// message contains msg.
func wantAppError(t *testing.T, err error, kind response.Kind, msg string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected an error containing %q, got nil", msg)
	}
	var appErr *response.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *response.AppError, got %T: %v", err, err)
	}
	if appErr.Kind != kind {
		t.Errorf("error kind = %d, expected %d (message: %s)", appErr.Kind, kind, appErr.Message)
	}
	if !strings.Contains(appErr.Message, msg) {
		t.Errorf("error message = %q, expected it to contain %q", appErr.Message, msg)
	}
}

func countRows(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()
	var count int64
	if err := db.Model(model).Count(&count).Error; err != nil {
		t.Fatalf("failed to count rows: %v", err)
	}
	return count
}

func lastAuditEntry(t *testing.T, db *gorm.DB) *models.AuditEntry {
	t.Helper()
	var entry models.AuditEntry
	if err := db.Order("id DESC").First(&entry).Error; err != nil {
		t.Fatalf("expected an audit entry: %v", err)
	}
	return &entry
}

func daysAgo(d int) time.Time {
	return time.Now().UTC().AddDate(0, 0, -d)
}
