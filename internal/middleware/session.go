package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pageturners/bookclub/backend/internal/utils"
)

const (
	// ContextSession holds the parsed *utils.SessionClaims for the request.
	ContextSession = "session"

	contextSessionOpts = "session_opts"
)

// SessionOptions controls the session cookie.
type SessionOptions struct {
	CookieName string
	MaxAge     time.Duration
	Secure     bool
}

// Sessions parses the session cookie into the request context. An absent,
// malformed, or badly signed cookie yields an empty session — the request
// proceeds and the auth tiers decide what is required.
func Sessions(opts SessionOptions) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := &utils.SessionClaims{}
		if raw, err := c.Cookie(opts.CookieName); err == nil && raw != "" {
			if claims, parseErr := utils.ParseSessionToken(raw); parseErr == nil {
				sess = claims
			}
		}

		c.Set(ContextSession, sess)
		c.Set(contextSessionOpts, opts)
		c.Next()
	}
}

// GetSession returns the request's session claims. Never nil once Sessions
// has run.
func GetSession(c *gin.Context) *utils.SessionClaims {
	if v, exists := c.Get(ContextSession); exists {
		if claims, ok := v.(*utils.SessionClaims); ok {
			return claims
		}
	}
	return &utils.SessionClaims{}
}

// WriteSession signs the claims and sets the replacement cookie. Must be
// called before the response body is written.
func WriteSession(c *gin.Context, claims *utils.SessionClaims) error {
	opts := sessionOpts(c)
	token, err := utils.GenerateSessionToken(claims, opts.MaxAge)
	if err != nil {
		return err
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(opts.CookieName, token, int(opts.MaxAge.Seconds()), "/", "", opts.Secure, true)
	c.Set(ContextSession, claims)
	return nil
}

// ClearSession expires the cookie and empties the context session.
func ClearSession(c *gin.Context) {
	opts := sessionOpts(c)
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(opts.CookieName, "", -1, "/", "", opts.Secure, true)
	c.Set(ContextSession, &utils.SessionClaims{})
}

func sessionOpts(c *gin.Context) SessionOptions {
	if v, exists := c.Get(contextSessionOpts); exists {
		if opts, ok := v.(SessionOptions); ok {
			return opts
		}
	}
	return SessionOptions{CookieName: "bookclub_session", MaxAge: 30 * 24 * time.Hour}
}
