package main

import (
	"fmt"
	"os"
	"time"

	"github.com/pageturners/bookclub/backend/internal/config"
	"github.com/pageturners/bookclub/backend/internal/models"
	"github.com/pageturners/bookclub/backend/internal/services"
	"github.com/pageturners/bookclub/backend/internal/utils"
	"gorm.io/gorm"
)

// Seeds a development database with the bootstrap rows plus demo content:
// a test member, a current book, two queued books, one finished book and a
// scheduled meeting. Safe to run repeatedly; existing rows are left alone.
func main() {
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	db, err := models.InitDB(&cfg.Database)
	if err != nil {
		fmt.Printf("Failed to connect to database: %v\n", err)
		os.Exit(1)
	}

	if err := models.AutoMigrate(db); err != nil {
		fmt.Printf("Failed to migrate database: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Seeding demo data...")

	if err := models.SeedDefaultData(db, &cfg.Seed); err != nil {
		fmt.Printf("Failed to seed access code: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("  access code: %s\n", cfg.Seed.AccessCode)

	if err := services.NewAuthService(db).CreateAdminIfNotExists(cfg.Seed.AdminEmail, cfg.Seed.AdminPassword); err != nil {
		fmt.Printf("Failed to seed admin: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("  admin: %s / %s\n", cfg.Seed.AdminEmail, cfg.Seed.AdminPassword)

	if err := seedTestMember(db); err != nil {
		fmt.Printf("Failed to seed test member: %v\n", err)
		os.Exit(1)
	}

	if err := seedBooks(db); err != nil {
		fmt.Printf("Failed to seed books: %v\n", err)
		os.Exit(1)
	}

	if err := seedMeeting(db); err != nil {
		fmt.Printf("Failed to seed meeting: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Done. Change the admin password before deploying anywhere real.")
}

func seedTestMember(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Member{}).Where("email = ?", "test@example.com").Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		fmt.Println("  test member already exists, skipping")
		return nil
	}

	hash, err := utils.HashPassword("password123")
	if err != nil {
		return err
	}
	member := models.Member{
		Name:         "Test User",
		Email:        "test@example.com",
		PasswordHash: hash,
	}
	if err := db.Create(&member).Error; err != nil {
		return err
	}
	fmt.Println("  test member: test@example.com / password123")
	return nil
}

func intPtr(n int) *int { return &n }

func seedBooks(db *gorm.DB) error {
	completed := time.Date(2024, 11, 15, 0, 0, 0, 0, time.UTC)
	books := []models.Book{
		{
			Title:           "The Pragmatic Programmer",
			PDFURL:          "https://example.com/pragmatic-programmer.pdf",
			Status:          models.BookCurrent,
			CurrentChapters: "Chapters 1-2",
			TotalChapters:   intPtr(10),
		},
		{
			Title:         "Clean Code",
			PDFURL:        "https://example.com/clean-code.pdf",
			Status:        models.BookQueued,
			TotalChapters: intPtr(15),
		},
		{
			Title:         "Atomic Habits",
			PDFURL:        "https://example.com/atomic-habits.pdf",
			Status:        models.BookQueued,
			TotalChapters: intPtr(12),
		},
		{
			Title:         "Thinking, Fast and Slow",
			PDFURL:        "https://example.com/thinking-fast-slow.pdf",
			Status:        models.BookCompleted,
			TotalChapters: intPtr(8),
			CompletedDate: &completed,
		},
	}

	// A second current book would break the single-current invariant, so
	// skip it when one is already set.
	var currentCount int64
	if err := db.Model(&models.Book{}).Where("status = ?", models.BookCurrent).Count(&currentCount).Error; err != nil {
		return err
	}

	for _, book := range books {
		if book.Status == models.BookCurrent && currentCount > 0 {
			fmt.Println("  a current book already exists, skipping", book.Title)
			continue
		}

		var count int64
		if err := db.Model(&models.Book{}).Where("title = ? AND status = ?", book.Title, book.Status).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			fmt.Printf("  book already exists, skipping %s\n", book.Title)
			continue
		}
		if err := db.Create(&book).Error; err != nil {
			return err
		}
		fmt.Printf("  book: %s (%s)\n", book.Title, book.Status)
	}
	return nil
}

func seedMeeting(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Meeting{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		fmt.Println("  meeting already exists, skipping")
		return nil
	}

	meeting := models.Meeting{
		StartAt:  time.Now().UTC().AddDate(0, 0, 14).Truncate(time.Hour),
		MeetLink: "https://meet.google.com/abc-defg-hij",
	}
	if err := db.Create(&meeting).Error; err != nil {
		return err
	}
	fmt.Printf("  meeting: %s\n", meeting.StartAt.Format("2006-01-02 15:04"))
	return nil
}
