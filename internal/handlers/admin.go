package handlers

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/pageturners/bookclub/backend/internal/middleware"
	"github.com/pageturners/bookclub/backend/internal/services"
	"github.com/pageturners/bookclub/backend/pkg/response"
)

type AdminHandler struct {
	codeService       *services.AccessCodeService
	bookService       *services.BookService
	meetingService    *services.MeetingService
	suggestionService *services.SuggestionService
	memberService     *services.MemberService
	auditService      *services.AuditService
}

func NewAdminHandler(db *gorm.DB) *AdminHandler {
	return &AdminHandler{
		codeService:       services.NewAccessCodeService(db),
		bookService:       services.NewBookService(db),
		meetingService:    services.NewMeetingService(db),
		suggestionService: services.NewSuggestionService(db),
		memberService:     services.NewMemberService(db),
		auditService:      services.NewAuditService(db),
	}
}

type updateCodeRequest struct {
	NewCode string `form:"new_code" json:"new_code" binding:"required"`
}

// GetAccessCode returns the shared guest code for admin display.
// GET /api/admin/code
func (h *AdminHandler) GetAccessCode(c *gin.Context) {
	code, err := h.codeService.Get()
	if err != nil {
		response.Abort(c, err)
		return
	}
	response.Data(c, code)
}

// UpdateAccessCode replaces the shared guest code.
// PUT /api/admin/code
func (h *AdminHandler) UpdateAccessCode(c *gin.Context) {
	var req updateCodeRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Abort(c, response.BindError(err))
		return
	}

	admin := middleware.GetMember(c)
	code, err := h.codeService.Update(req.NewCode, admin.ID)
	if err != nil {
		response.Abort(c, err)
		return
	}

	response.OK(c, fmt.Sprintf("Access code updated to: %s. Remember to post it in the WhatsApp group!", code.Code))
}

// UpdateCurrentBook applies a partial edit to the current book.
// PUT /api/admin/books/current
func (h *AdminHandler) UpdateCurrentBook(c *gin.Context) {
	var req services.UpdateCurrentBookRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Abort(c, response.BindError(err))
		return
	}

	admin := middleware.GetMember(c)
	if _, err := h.bookService.UpdateCurrent(&req, admin.ID); err != nil {
		response.Abort(c, err)
		return
	}

	response.OK(c, "Current book updated successfully")
}

// SetCurrentBook promotes a queued book to current.
// POST /api/admin/books/:id/set-current
func (h *AdminHandler) SetCurrentBook(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.Abort(c, response.Validation("invalid book id"))
		return
	}

	var req services.SetCurrentBookRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Abort(c, response.BindError(err))
		return
	}

	admin := middleware.GetMember(c)
	book, err := h.bookService.SetCurrent(uint(id), &req, admin.ID)
	if err != nil {
		response.Abort(c, err)
		return
	}

	response.OK(c, fmt.Sprintf("'%s' is now the current book", book.Title))
}

// CompleteBook archives the current book and closes out stale progress.
// POST /api/admin/books/complete
func (h *AdminHandler) CompleteBook(c *gin.Context) {
	admin := middleware.GetMember(c)
	book, err := h.bookService.Complete(admin.ID)
	if err != nil {
		response.Abort(c, err)
		return
	}

	response.OK(c, fmt.Sprintf("'%s' marked as completed. You can now set a new current book.", book.Title))
}

// GetMeeting returns the next meeting, or null when none is scheduled.
// GET /api/admin/meeting
func (h *AdminHandler) GetMeeting(c *gin.Context) {
	meeting, err := h.meetingService.Get()
	if err != nil {
		response.Abort(c, err)
		return
	}
	response.Data(c, meeting)
}

// UpdateMeeting replaces the meeting details.
// PUT /api/admin/meeting
func (h *AdminHandler) UpdateMeeting(c *gin.Context) {
	var req services.MeetingUpdateRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Abort(c, response.BindError(err))
		return
	}

	admin := middleware.GetMember(c)
	if _, err := h.meetingService.Update(&req, admin.ID); err != nil {
		response.Abort(c, err)
		return
	}

	response.OK(c, "Meeting updated successfully")
}

// PendingSuggestions lists proposals awaiting review with submitter info.
// GET /api/admin/suggestions/pending
func (h *AdminHandler) PendingSuggestions(c *gin.Context) {
	suggestions, err := h.suggestionService.Pending()
	if err != nil {
		response.Abort(c, err)
		return
	}
	response.Data(c, suggestions)
}

// ApproveSuggestion approves a proposal and queues the book.
// PUT /api/admin/suggestions/:id/approve
func (h *AdminHandler) ApproveSuggestion(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.Abort(c, response.Validation("invalid suggestion id"))
		return
	}

	// The cover image is optional; an absent or empty body is fine.
	var req services.ApproveSuggestionRequest
	_ = c.ShouldBind(&req)

	admin := middleware.GetMember(c)
	suggestion, err := h.suggestionService.Approve(uint(id), &req, admin.ID)
	if err != nil {
		response.Abort(c, err)
		return
	}

	response.OK(c, fmt.Sprintf("'%s' approved and added to queue", suggestion.Title))
}

// RejectSuggestion rejects a proposal.
// PUT /api/admin/suggestions/:id/reject
func (h *AdminHandler) RejectSuggestion(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.Abort(c, response.Validation("invalid suggestion id"))
		return
	}

	admin := middleware.GetMember(c)
	if _, err := h.suggestionService.Reject(uint(id), admin.ID); err != nil {
		response.Abort(c, err)
		return
	}

	response.OK(c, "Suggestion rejected")
}

// Stats returns the admin dashboard numbers.
// GET /api/admin/stats
func (h *AdminHandler) Stats(c *gin.Context) {
	stats, err := h.memberService.AdminStats()
	if err != nil {
		response.Abort(c, err)
		return
	}
	response.Data(c, stats)
}

// Users lists every member, newest account first.
// GET /api/admin/users
func (h *AdminHandler) Users(c *gin.Context) {
	members, err := h.memberService.List()
	if err != nil {
		response.Abort(c, err)
		return
	}
	response.Data(c, members)
}

// PromoteUser grants admin rights to a member.
// PUT /api/admin/users/:id/promote
func (h *AdminHandler) PromoteUser(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.Abort(c, response.Validation("invalid user id"))
		return
	}

	admin := middleware.GetMember(c)
	member, err := h.memberService.Promote(uint(id), admin.ID)
	if err != nil {
		response.Abort(c, err)
		return
	}

	response.OK(c, fmt.Sprintf("✅ %s has been promoted to admin", member.Name))
}

// DemoteUser revokes a member's admin rights.
// PUT /api/admin/users/:id/demote
func (h *AdminHandler) DemoteUser(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.Abort(c, response.Validation("invalid user id"))
		return
	}

	admin := middleware.GetMember(c)
	member, err := h.memberService.Demote(uint(id), admin.ID)
	if err != nil {
		response.Abort(c, err)
		return
	}

	response.OK(c, fmt.Sprintf("⚠️ %s has been demoted to regular member", member.Name))
}

// AuditLog returns the most recent admin actions.
// GET /api/admin/audit-log?limit=20
func (h *AdminHandler) AuditLog(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	entries, err := h.auditService.Recent(limit)
	if err != nil {
		response.Abort(c, err)
		return
	}
	response.Data(c, entries)
}
