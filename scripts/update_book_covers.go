package main

import (
	"fmt"
	"os"

	"github.com/pageturners/bookclub/backend/internal/config"
	"github.com/pageturners/bookclub/backend/internal/models"
)

type Book struct {
	ID            uint   `gorm:"primaryKey"`
	Title         string `gorm:"size:200"`
	CoverImageURL string `gorm:"size:500"`
}

func (Book) TableName() string { return "books" }

// Covers for books seeded before the cover_image_url column existed.
var knownCovers = map[string]string{
	"The Pragmatic Programmer": "https://covers.openlibrary.org/b/isbn/9780135957059-M.jpg",
	"Clean Code":               "https://covers.openlibrary.org/b/isbn/9780132350884-M.jpg",
	"Atomic Habits":            "https://covers.openlibrary.org/b/isbn/9780735211292-M.jpg",
	"Thinking, Fast and Slow":  "https://covers.openlibrary.org/b/isbn/9780374533557-M.jpg",
}

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

	var books []Book
	if err := db.Where("cover_image_url = '' OR cover_image_url IS NULL").Order("id").Find(&books).Error; err != nil {
		fmt.Printf("Failed to read books: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Found %d books without a cover:\n\n", len(books))
	for _, b := range books {
		cover, ok := knownCovers[b.Title]
		if !ok {
			cover = "(no known cover)"
		}
		fmt.Printf("  ID %d: %s -> %s\n", b.ID, b.Title, cover)
	}

	if len(os.Args) > 1 && os.Args[1] == "--update" {
		fmt.Println("\n>>> Backfilling covers...")

		for _, b := range books {
			cover, ok := knownCovers[b.Title]
			if !ok {
				fmt.Printf("Skipped book ID %d (no known cover): %s\n", b.ID, b.Title)
				continue
			}
			if err := db.Model(&Book{}).Where("id = ?", b.ID).Update("cover_image_url", cover).Error; err != nil {
				fmt.Printf("Failed to update book %d: %v\n", b.ID, err)
			} else {
				fmt.Printf("Updated book ID %d: %s\n", b.ID, b.Title)
			}
		}

		fmt.Println("\n>>> Done!")
	} else {
		fmt.Println("\nTo backfill covers, run: go run scripts/update_book_covers.go --update")
	}
}
