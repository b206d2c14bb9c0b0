package services

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/pageturners/bookclub/backend/internal/models"
	"github.com/pageturners/bookclub/backend/pkg/response"
	"gorm.io/gorm"
)

type ProgressService struct {
	db *gorm.DB
}

func NewProgressService(db *gorm.DB) *ProgressService {
	return &ProgressService{db: db}
}

type ProgressUpdateRequest struct {
	BookID  uint `form:"book_id" json:"book_id" binding:"required"`
	Chapter *int `form:"chapter" json:"chapter" binding:"required"`
}

// MyProgress pairs a member's progress row with the current book. Both are
// null when no book is current.
type MyProgress struct {
	Progress *models.ReadingProgress `json:"progress"`
	Book     *models.Book            `json:"book"`
}

type ChapterBucket struct {
	ChapterRange string  `json:"chapter_range"`
	MemberCount  int     `json:"member_count"`
	Percentage   float64 `json:"percentage"`
}

type CommunityProgress struct {
	Stats        []ChapterBucket `json:"stats"`
	TotalMembers int             `json:"total_members"`
	Book         *models.Book    `json:"book"`
}

// Set upserts the member's marker for a book: updates in place when a row
// for the (member, book) pair exists, inserts otherwise. Chapter -1 means
// completed, 0 not started, positive the chapter currently being read.
// There is deliberately no upper-bound check against the book's chapter
// count.
func (s *ProgressService) Set(memberID uint, req *ProgressUpdateRequest) (*models.ReadingProgress, error) {
	if *req.Chapter < models.ChapterCompleted {
		return nil, response.Validation(fmt.Sprintf("chapter must be -1, 0, or a positive number, got %d", *req.Chapter))
	}

	var progress models.ReadingProgress
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Book{}).Where("id = ?", req.BookID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return response.NotFound("Book not found")
		}

		err := tx.Where("member_id = ? AND book_id = ?", memberID, req.BookID).First(&progress).Error
		if err == nil {
			progress.Chapter = *req.Chapter
			return tx.Save(&progress).Error
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		progress = models.ReadingProgress{
			MemberID: memberID,
			BookID:   req.BookID,
			Chapter:  *req.Chapter,
		}
		return tx.Create(&progress).Error
	})
	if err != nil {
		return nil, err
	}
	return &progress, nil
}

// MyCurrent returns the member's marker for the current book.
func (s *ProgressService) MyCurrent(memberID uint) (*MyProgress, error) {
	var book models.Book
	if err := s.db.Where("status = ?", models.BookCurrent).First(&book).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &MyProgress{}, nil
		}
		return nil, err
	}

	var progress models.ReadingProgress
	err := s.db.Where("member_id = ? AND book_id = ?", memberID, book.ID).First(&progress).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &MyProgress{Book: &book}, nil
		}
		return nil, err
	}
	return &MyProgress{Progress: &progress, Book: &book}, nil
}

// Bucket display positions. The fixed ranges occupy 0-4; dynamic
// per-chapter buckets reuse their chapter number (always ≥ 9), landing
// between the fixed ranges and Completed ordered by chapter.
const (
	orderNotStarted = 0
	orderCompleted  = 1000000
)

// CommunityStats partitions every progress row for the current book into
// labeled buckets with counts and percentages of the total, one decimal
// place. Empty buckets are omitted. Chapters past 8 each get their own
// "Chapter N+" bucket rather than a shared range.
func (s *ProgressService) CommunityStats() (*CommunityProgress, error) {
	var book models.Book
	if err := s.db.Where("status = ?", models.BookCurrent).First(&book).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &CommunityProgress{Stats: []ChapterBucket{}}, nil
		}
		return nil, err
	}

	rows := []models.ReadingProgress{}
	if err := s.db.Where("book_id = ?", book.ID).Find(&rows).Error; err != nil {
		return nil, err
	}

	total := len(rows)
	if total == 0 {
		return &CommunityProgress{Stats: []ChapterBucket{}, Book: &book}, nil
	}

	counts := map[string]int{}
	order := map[string]int{}
	for _, p := range rows {
		label, pos := bucketFor(p.Chapter)
		counts[label]++
		order[label] = pos
	}

	stats := make([]ChapterBucket, 0, len(counts))
	for label, count := range counts {
		stats = append(stats, ChapterBucket{
			ChapterRange: label,
			MemberCount:  count,
			Percentage:   math.Round(float64(count)/float64(total)*1000) / 10,
		})
	}
	sort.Slice(stats, func(i, j int) bool {
		return order[stats[i].ChapterRange] < order[stats[j].ChapterRange]
	})

	return &CommunityProgress{Stats: stats, TotalMembers: total, Book: &book}, nil
}

func bucketFor(chapter int) (string, int) {
	switch {
	case chapter == models.ChapterCompleted:
		return "Completed", orderCompleted
	case chapter == models.ChapterNotStarted:
		return "Not Started", orderNotStarted
	case chapter <= 2:
		return "Chapters 1-2", 1
	case chapter <= 4:
		return "Chapters 3-4", 2
	case chapter <= 6:
		return "Chapters 5-6", 3
	case chapter <= 8:
		return "Chapters 7-8", 4
	default:
		// One bucket per distinct chapter, e.g. "Chapter 12+".
		return fmt.Sprintf("Chapter %d+", chapter), chapter
	}
}
