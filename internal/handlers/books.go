package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/pageturners/bookclub/backend/internal/middleware"
	"github.com/pageturners/bookclub/backend/internal/services"
	"github.com/pageturners/bookclub/backend/pkg/response"
)

type BookHandler struct {
	bookService       *services.BookService
	meetingService    *services.MeetingService
	suggestionService *services.SuggestionService
	progressService   *services.ProgressService
}

func NewBookHandler(db *gorm.DB) *BookHandler {
	return &BookHandler{
		bookService:       services.NewBookService(db),
		meetingService:    services.NewMeetingService(db),
		suggestionService: services.NewSuggestionService(db),
		progressService:   services.NewProgressService(db),
	}
}

// Current returns the book being read and the next meeting, both nullable.
// GET /api/books/current
func (h *BookHandler) Current(c *gin.Context) {
	book, err := h.bookService.Current()
	if err != nil {
		response.Abort(c, err)
		return
	}

	meeting, err := h.meetingService.Get()
	if err != nil {
		response.Abort(c, err)
		return
	}

	response.Data(c, gin.H{"book": book, "meeting": meeting})
}

// Queue lists approved books waiting to be read, oldest first.
// GET /api/books/queue
func (h *BookHandler) Queue(c *gin.Context) {
	books, err := h.bookService.Queue()
	if err != nil {
		response.Abort(c, err)
		return
	}
	response.Data(c, books)
}

// Past lists completed books, most recently finished first.
// GET /api/books/past
func (h *BookHandler) Past(c *gin.Context) {
	books, err := h.bookService.Past()
	if err != nil {
		response.Abort(c, err)
		return
	}
	response.Data(c, books)
}

// CreateSuggestion submits a book proposal for admin review.
// POST /api/books/suggestions
func (h *BookHandler) CreateSuggestion(c *gin.Context) {
	var req services.SuggestionCreateRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Abort(c, response.BindError(err))
		return
	}

	member := middleware.GetMember(c)
	suggestion, err := h.suggestionService.Create(member.ID, &req)
	if err != nil {
		response.Abort(c, err)
		return
	}
	response.Data(c, suggestion)
}

// MySuggestions lists the member's own proposals in every status.
// GET /api/books/suggestions/my
func (h *BookHandler) MySuggestions(c *gin.Context) {
	member := middleware.GetMember(c)
	suggestions, err := h.suggestionService.Mine(member.ID)
	if err != nil {
		response.Abort(c, err)
		return
	}
	response.Data(c, suggestions)
}

// UpdateProgress upserts the member's chapter marker for a book.
// PUT /api/books/progress
func (h *BookHandler) UpdateProgress(c *gin.Context) {
	var req services.ProgressUpdateRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Abort(c, response.BindError(err))
		return
	}

	member := middleware.GetMember(c)
	progress, err := h.progressService.Set(member.ID, &req)
	if err != nil {
		response.Abort(c, err)
		return
	}
	response.Data(c, progress)
}

// MyProgress returns the member's marker for the current book.
// GET /api/books/progress/my
func (h *BookHandler) MyProgress(c *gin.Context) {
	member := middleware.GetMember(c)
	progress, err := h.progressService.MyCurrent(member.ID)
	if err != nil {
		response.Abort(c, err)
		return
	}
	response.Data(c, progress)
}

// CommunityProgress returns cohort reading statistics for the current book.
// GET /api/books/progress/community
func (h *BookHandler) CommunityProgress(c *gin.Context) {
	stats, err := h.progressService.CommunityStats()
	if err != nil {
		response.Abort(c, err)
		return
	}
	response.Data(c, stats)
}
