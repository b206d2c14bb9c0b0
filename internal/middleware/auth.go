package middleware

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/pageturners/bookclub/backend/internal/models"
	"github.com/pageturners/bookclub/backend/pkg/response"
)

const (
	// ContextMember holds the *models.Member resolved by AuthRequired or
	// OptionalMember.
	ContextMember = "member"
)

// CodeRequired admits guests and members: the session must carry a
// verified access code or a member id.
func CodeRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := GetSession(c)
		if !sess.CodeVerified && sess.MemberID == nil {
			response.Abort(c, response.Forbidden("Access code verification required. Please enter the access code."))
			return
		}
		c.Next()
	}
}

// AuthRequired resolves the session to a live member row, re-read from the
// database on every request — nothing beyond the id is trusted from the
// token. The session must also be younger than the absolute timeout.
// Every failure clears the session cookie.
func AuthRequired(db *gorm.DB, timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := GetSession(c)
		if sess.MemberID == nil {
			response.Abort(c, response.Unauthenticated("Not authenticated. Please login."))
			return
		}

		if sess.SessionCreatedAt == 0 {
			// Tokens from before the timeout rule carry no creation time;
			// stamp them now instead of expiring everyone at once.
			sess.SessionCreatedAt = time.Now().Unix()
			if err := WriteSession(c, sess); err != nil {
				response.Abort(c, err)
				return
			}
		} else if timeout > 0 && time.Since(sess.CreatedTime()) > timeout {
			ClearSession(c)
			response.Abort(c, response.Unauthenticated("Your session has expired. Please log in again."))
			return
		}

		var member models.Member
		if err := db.First(&member, *sess.MemberID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				ClearSession(c)
				response.Abort(c, response.Unauthenticated("User not found. Please login again."))
				return
			}
			response.Abort(c, err)
			return
		}

		c.Set(ContextMember, &member)
		c.Next()
	}
}

// AdminRequired gates admin-only routes. Must run after AuthRequired.
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		member := GetMember(c)
		if member == nil || !member.IsAdmin {
			response.Abort(c, response.Forbidden("Admin access required"))
			return
		}
		c.Next()
	}
}

// OptionalMember resolves the member when the session carries an id that
// still exists, without failing the request otherwise. For routes serving
// guests and members alike.
func OptionalMember(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := GetSession(c)
		if sess.MemberID != nil {
			var member models.Member
			if err := db.First(&member, *sess.MemberID).Error; err == nil {
				c.Set(ContextMember, &member)
			}
		}
		c.Next()
	}
}

// GetMember returns the member resolved for this request, or nil.
func GetMember(c *gin.Context) *models.Member {
	if v, exists := c.Get(ContextMember); exists {
		if m, ok := v.(*models.Member); ok {
			return m
		}
	}
	return nil
}
