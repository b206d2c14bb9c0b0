package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/pageturners/bookclub/backend/internal/middleware"
	"github.com/pageturners/bookclub/backend/internal/services"
	"github.com/pageturners/bookclub/backend/pkg/response"
)

type ProfileHandler struct {
	profileService *services.ProfileService
}

func NewProfileHandler(db *gorm.DB) *ProfileHandler {
	return &ProfileHandler{
		profileService: services.NewProfileService(db),
	}
}

// Stats returns the member's reading statistics.
// GET /api/profile/stats
func (h *ProfileHandler) Stats(c *gin.Context) {
	member := middleware.GetMember(c)
	stats, err := h.profileService.Stats(member)
	if err != nil {
		response.Abort(c, err)
		return
	}
	response.Data(c, stats)
}

// UpdateName renames the member.
// PUT /api/profile/name
func (h *ProfileHandler) UpdateName(c *gin.Context) {
	var req services.UpdateNameRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Abort(c, response.BindError(err))
		return
	}

	member := middleware.GetMember(c)
	message, err := h.profileService.UpdateName(member, &req)
	if err != nil {
		response.Abort(c, err)
		return
	}
	response.OK(c, message)
}

// ChangePassword replaces the member's password and ends the session, so
// every device has to log in again with the new one.
// PUT /api/profile/password
func (h *ProfileHandler) ChangePassword(c *gin.Context) {
	var req services.ChangePasswordRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Abort(c, response.BindError(err))
		return
	}

	member := middleware.GetMember(c)
	if err := h.profileService.ChangePassword(member, &req); err != nil {
		response.Abort(c, err)
		return
	}

	middleware.ClearSession(c)
	response.OK(c, "Password changed successfully. Logging out for security...")
}

// DeleteAccount removes the member after password and phrase confirmation.
// DELETE /api/profile/account
func (h *ProfileHandler) DeleteAccount(c *gin.Context) {
	var req services.DeleteAccountRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Abort(c, response.BindError(err))
		return
	}

	member := middleware.GetMember(c)
	if err := h.profileService.DeleteAccount(member, &req); err != nil {
		response.Abort(c, err)
		return
	}

	middleware.ClearSession(c)
	response.OK(c, "Account deleted successfully. You will be redirected to the home page.")
}
