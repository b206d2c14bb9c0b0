package handlers

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/pageturners/bookclub/backend/internal/middleware"
	"github.com/pageturners/bookclub/backend/internal/services"
	"github.com/pageturners/bookclub/backend/internal/utils"
	"github.com/pageturners/bookclub/backend/pkg/response"
)

type AuthHandler struct {
	authService *services.AuthService
	codeService *services.AccessCodeService
}

func NewAuthHandler(db *gorm.DB) *AuthHandler {
	return &AuthHandler{
		authService: services.NewAuthService(db),
		codeService: services.NewAccessCodeService(db),
	}
}

type verifyCodeRequest struct {
	Code string `form:"code" json:"code" binding:"required"`
}

// StatusResponse reports what the session grants without requiring any of
// it. Member fields come from a fresh row read, never from token claims.
type StatusResponse struct {
	Authenticated bool    `json:"authenticated"`
	CodeVerified  bool    `json:"code_verified"`
	IsAdmin       bool    `json:"is_admin"`
	UserName      *string `json:"user_name"`
}

// VerifyCode checks the shared access code and marks the session as a
// guest on success.
// POST /auth/verify-code
func (h *AuthHandler) VerifyCode(c *gin.Context) {
	var req verifyCodeRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Abort(c, response.BindError(err))
		return
	}

	ok, err := h.codeService.Verify(req.Code)
	if err != nil {
		response.Abort(c, err)
		return
	}
	if !ok {
		response.Abort(c, response.Invalid("Invalid access code. Please check the code and try again."))
		return
	}

	sess := middleware.GetSession(c)
	if sess.MemberID == nil {
		sess = utils.NewGuestSession()
	} else {
		sess.CodeVerified = true
	}
	if err := middleware.WriteSession(c, sess); err != nil {
		response.Abort(c, err)
		return
	}

	response.OK(c, "Code verified successfully! You can now access the book club.")
}

// Register creates a member account and logs it in. A verified access
// code (or an existing login) is required first.
// POST /auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	sess := middleware.GetSession(c)
	if !sess.CodeVerified && sess.MemberID == nil {
		response.Abort(c, response.Forbidden("Please verify access code first"))
		return
	}

	var req services.RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Abort(c, response.BindError(err))
		return
	}

	member, err := h.authService.Register(&req)
	if err != nil {
		response.Abort(c, err)
		return
	}

	// Fresh token: nothing survives the privilege change except an
	// already-true code_verified flag.
	if err := middleware.WriteSession(c, utils.NewMemberSession(member.ID, sess.CodeVerified)); err != nil {
		response.Abort(c, err)
		return
	}

	response.Data(c, member)
}

// Login authenticates a member and replaces the session.
// POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req services.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Abort(c, response.BindError(err))
		return
	}

	member, err := h.authService.Login(&req)
	if err != nil {
		response.Abort(c, err)
		return
	}

	sess := middleware.GetSession(c)
	if err := middleware.WriteSession(c, utils.NewMemberSession(member.ID, sess.CodeVerified)); err != nil {
		response.Abort(c, err)
		return
	}

	response.OK(c, fmt.Sprintf("Welcome back, %s!", member.Name))
}

// Logout clears the session. Safe to call without one.
// POST /auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	middleware.ClearSession(c)
	response.OK(c, "Logged out successfully")
}

// Me returns the authenticated member.
// GET /auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	response.Data(c, middleware.GetMember(c))
}

// Status reports the capability level of the current session.
// GET /auth/status
func (h *AuthHandler) Status(c *gin.Context) {
	sess := middleware.GetSession(c)
	status := StatusResponse{CodeVerified: sess.CodeVerified}

	if sess.MemberID != nil {
		if member, err := h.authService.MemberByID(*sess.MemberID); err == nil {
			status.Authenticated = true
			status.CodeVerified = true
			status.IsAdmin = member.IsAdmin
			status.UserName = &member.Name
		}
	}

	response.Data(c, status)
}
