package main

import (
	"io/fs"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pageturners/bookclub/backend/internal/config"
	"github.com/pageturners/bookclub/backend/internal/handlers"
	"github.com/pageturners/bookclub/backend/internal/middleware"
	"github.com/pageturners/bookclub/backend/pkg/logger"
	"github.com/pageturners/bookclub/backend/pkg/response"
)

// registerRoutes sets up middleware and all HTTP routes on the engine.
func registerRoutes(r *gin.Engine, app *appState, cfg *config.Config, staticFS fs.FS) {
	r.RedirectTrailingSlash = false
	r.RedirectFixedPath = false

	r.Use(middleware.RequestID())
	r.Use(logger.GinLogger(), logger.GinRecovery())
	r.Use(middleware.CORS(cfg.Server.AllowOrigins))
	r.Use(middleware.Sessions(middleware.SessionOptions{
		CookieName: cfg.Session.CookieName,
		MaxAge:     time.Duration(cfg.Session.CookieMaxAgeDays) * 24 * time.Hour,
		Secure:     cfg.Server.Mode == "release",
	}))

	sessionTimeout := time.Duration(cfg.Session.AbsoluteTimeoutDays) * 24 * time.Hour

	healthHandler := handlers.NewHealthHandler(app.db)
	r.GET("/health", healthHandler.Check)

	// Auth endpoints, rate limited against code and password guessing.
	authHandler := handlers.NewAuthHandler(app.db)
	auth := r.Group("/auth", middleware.RateLimit(5, 10))
	{
		auth.POST("/verify-code", authHandler.VerifyCode)
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/logout", authHandler.Logout)
		auth.GET("/status", authHandler.Status)
		auth.GET("/me", middleware.AuthRequired(app.db, sessionTimeout), authHandler.Me)
	}

	api := r.Group("/api")
	{
		bookHandler := handlers.NewBookHandler(app.db)
		books := api.Group("/books")
		{
			// Browsing needs the access code or a login.
			guest := books.Group("", middleware.CodeRequired())
			{
				guest.GET("/current", bookHandler.Current)
				guest.GET("/queue", bookHandler.Queue)
				guest.GET("/past", bookHandler.Past)
				guest.GET("/progress/community", bookHandler.CommunityProgress)
			}

			// Suggesting and tracking progress needs an account.
			member := books.Group("", middleware.AuthRequired(app.db, sessionTimeout))
			{
				member.POST("/suggestions", bookHandler.CreateSuggestion)
				member.GET("/suggestions/my", bookHandler.MySuggestions)
				member.PUT("/progress", bookHandler.UpdateProgress)
				member.GET("/progress/my", bookHandler.MyProgress)
			}
		}

		adminHandler := handlers.NewAdminHandler(app.db)
		admin := api.Group("/admin", middleware.AuthRequired(app.db, sessionTimeout), middleware.AdminRequired())
		{
			admin.GET("/code", adminHandler.GetAccessCode)
			admin.PUT("/code", adminHandler.UpdateAccessCode)
			admin.PUT("/books/current", adminHandler.UpdateCurrentBook)
			admin.POST("/books/:id/set-current", adminHandler.SetCurrentBook)
			admin.POST("/books/complete", adminHandler.CompleteBook)
			admin.GET("/meeting", adminHandler.GetMeeting)
			admin.PUT("/meeting", adminHandler.UpdateMeeting)
			admin.GET("/suggestions/pending", adminHandler.PendingSuggestions)
			admin.PUT("/suggestions/:id/approve", adminHandler.ApproveSuggestion)
			admin.PUT("/suggestions/:id/reject", adminHandler.RejectSuggestion)
			admin.GET("/stats", adminHandler.Stats)
			admin.GET("/users", adminHandler.Users)
			admin.PUT("/users/:id/promote", adminHandler.PromoteUser)
			admin.PUT("/users/:id/demote", adminHandler.DemoteUser)
			admin.GET("/audit-log", adminHandler.AuditLog)
		}

		profileHandler := handlers.NewProfileHandler(app.db)
		profile := api.Group("/profile", middleware.AuthRequired(app.db, sessionTimeout))
		{
			profile.GET("/stats", profileHandler.Stats)
			profile.PUT("/name", profileHandler.UpdateName)
			profile.PUT("/password", profileHandler.ChangePassword)
			profile.DELETE("/account", profileHandler.DeleteAccount)
		}

		// Feedback accepts guests and members alike.
		feedbackHandler := handlers.NewFeedbackHandler(app.db)
		api.POST("/feedback", middleware.OptionalMember(app.db), feedbackHandler.Submit)
	}

	// Browser pages: embedded shells with redirect gating.
	pageHandler := handlers.NewPageHandler(app.db, staticFS)
	r.GET("/", pageHandler.Home)
	r.GET("/login", pageHandler.Login)
	r.GET("/register", pageHandler.Register)
	r.GET("/dashboard", pageHandler.Dashboard)
	r.GET("/profile", pageHandler.Profile)
	r.GET("/admin", pageHandler.Admin)

	r.NoRoute(func(c *gin.Context) {
		response.Abort(c, response.NotFound("Endpoint not found"))
	})
}
