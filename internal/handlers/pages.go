package handlers

import (
	"io/fs"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/pageturners/bookclub/backend/internal/middleware"
	"github.com/pageturners/bookclub/backend/internal/models"
)

// PageHandler serves the embedded HTML shells and enforces the page-level
// gates with redirects. All data flows through the JSON API; the shells
// only bootstrap the browser UI.
type PageHandler struct {
	db     *gorm.DB
	static fs.FS
}

func NewPageHandler(db *gorm.DB, static fs.FS) *PageHandler {
	return &PageHandler{db: db, static: static}
}

func (h *PageHandler) serve(c *gin.Context, name string) {
	data, err := fs.ReadFile(h.static, name)
	if err != nil {
		c.String(http.StatusNotFound, "%s not found", name)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", data)
}

// hasAccess reports whether the session clears the guest bar: a verified
// code or a member id.
func hasAccess(c *gin.Context) bool {
	sess := middleware.GetSession(c)
	return sess.CodeVerified || sess.MemberID != nil
}

// resolveMember re-reads the session member from the database, returning
// nil for guests and for ids that no longer resolve.
func (h *PageHandler) resolveMember(c *gin.Context) *models.Member {
	sess := middleware.GetSession(c)
	if sess.MemberID == nil {
		return nil
	}
	var member models.Member
	if err := h.db.First(&member, *sess.MemberID).Error; err != nil {
		return nil
	}
	return &member
}

// Home is the landing page with the access-code prompt. Visitors who
// already have access land on the dashboard instead.
// GET /
func (h *PageHandler) Home(c *gin.Context) {
	if hasAccess(c) {
		c.Redirect(http.StatusFound, "/dashboard")
		return
	}
	h.serve(c, "index.html")
}

// Login serves the login page, skipping it for logged-in members.
// GET /login
func (h *PageHandler) Login(c *gin.Context) {
	if middleware.GetSession(c).MemberID != nil {
		c.Redirect(http.StatusFound, "/dashboard")
		return
	}
	h.serve(c, "login.html")
}

// Register serves the registration page. The access code must be verified
// first.
// GET /register
func (h *PageHandler) Register(c *gin.Context) {
	sess := middleware.GetSession(c)
	if sess.MemberID != nil {
		c.Redirect(http.StatusFound, "/dashboard")
		return
	}
	if !sess.CodeVerified {
		c.Redirect(http.StatusFound, "/?error=verify_code_first")
		return
	}
	h.serve(c, "register.html")
}

// Dashboard serves the club dashboard for guests and members alike.
// GET /dashboard
func (h *PageHandler) Dashboard(c *gin.Context) {
	if !hasAccess(c) {
		c.Redirect(http.StatusFound, "/?error=access_required")
		return
	}
	h.serve(c, "dashboard.html")
}

// Profile serves the member profile page.
// GET /profile
func (h *PageHandler) Profile(c *gin.Context) {
	if h.resolveMember(c) == nil {
		c.Redirect(http.StatusFound, "/login?error=login_required")
		return
	}
	h.serve(c, "profile.html")
}

// Admin serves the admin panel, members only and admins only.
// GET /admin
func (h *PageHandler) Admin(c *gin.Context) {
	member := h.resolveMember(c)
	if member == nil {
		c.Redirect(http.StatusFound, "/login?error=login_required")
		return
	}
	if !member.IsAdmin {
		c.Redirect(http.StatusFound, "/dashboard?error=admin_required")
		return
	}
	h.serve(c, "admin.html")
}
