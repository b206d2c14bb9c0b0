package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/pageturners/bookclub/backend/internal/middleware"
	"github.com/pageturners/bookclub/backend/internal/models"
	"github.com/pageturners/bookclub/backend/internal/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
	utils.SetSessionSecret("test-secret-for-handler-testing")
}

const testCookieName = "bookclub_session"

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

// authRouter mounts the auth endpoints the way cmd/server does, minus the
// rate limiter.
func authRouter(db *gorm.DB) *gin.Engine {
	router := gin.New()
	router.Use(middleware.Sessions(middleware.SessionOptions{
		CookieName: testCookieName,
		MaxAge:     30 * 24 * time.Hour,
	}))

	h := NewAuthHandler(db)
	auth := router.Group("/auth")
	auth.POST("/verify-code", h.VerifyCode)
	auth.POST("/register", h.Register)
	auth.POST("/login", h.Login)
	auth.POST("/logout", h.Logout)
	auth.GET("/status", h.Status)
	auth.GET("/me", middleware.AuthRequired(db, 7*24*time.Hour), h.Me)
	return router
}

func postJSON(router *gin.Engine, path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	router.ServeHTTP(w, req)
	return w
}

// sessionFromResponse extracts and parses the session cookie set by a
// response.
func sessionFromResponse(t *testing.T, w *httptest.ResponseRecorder) (*http.Cookie, *utils.SessionClaims) {
	t.Helper()
	res := http.Response{Header: w.Header()}
	for _, cookie := range res.Cookies() {
		if cookie.Name == testCookieName && cookie.Value != "" {
			claims, err := utils.ParseSessionToken(cookie.Value)
			if err != nil {
				t.Fatalf("session cookie does not parse: %v", err)
			}
			return cookie, claims
		}
	}
	t.Fatal("no session cookie in response")
	return nil, nil
}

func seedAccessCode(t *testing.T, db *gorm.DB, code string) {
	t.Helper()
	if err := db.Create(&models.AccessCode{Code: code}).Error; err != nil {
		t.Fatalf("failed to seed access code: %v", err)
	}
}

func TestVerifyCode(t *testing.T) {
	db := testDB(t)
	seedAccessCode(t, db, "TEST2024")
	router := authRouter(db)

	t.Run("case-insensitive match verifies", func(t *testing.T) {
		w := postJSON(router, "/auth/verify-code", `{"code": "test2024"}`)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
		}
		if !strings.Contains(w.Body.String(), "Code verified successfully") {
			t.Errorf("body = %s", w.Body.String())
		}

		_, claims := sessionFromResponse(t, w)
		if !claims.CodeVerified {
			t.Error("session should carry code_verified")
		}
		if claims.MemberID != nil {
			t.Error("guest session should carry no member id")
		}
	})

	t.Run("wrong code is rejected", func(t *testing.T) {
		w := postJSON(router, "/auth/verify-code", `{"code": "WRONG"}`)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400: %s", w.Code, w.Body.String())
		}
		if !strings.Contains(w.Body.String(), `"success":false`) {
			t.Errorf("body = %s", w.Body.String())
		}
	})

	t.Run("missing code fails binding", func(t *testing.T) {
		w := postJSON(router, "/auth/verify-code", `{}`)
		if w.Code != http.StatusUnprocessableEntity {
			t.Errorf("status = %d, want 422", w.Code)
		}
	})
}

func TestRegister(t *testing.T) {
	db := testDB(t)
	seedAccessCode(t, db, "TEST2024")
	router := authRouter(db)

	guestCookie := func(t *testing.T) *http.Cookie {
		w := postJSON(router, "/auth/verify-code", `{"code": "TEST2024"}`)
		cookie, _ := sessionFromResponse(t, w)
		return cookie
	}

	t.Run("requires a verified code", func(t *testing.T) {
		w := postJSON(router, "/auth/register",
			`{"name": "New User", "email": "newuser@example.com", "password": "longenough"}`)
		if w.Code != http.StatusForbidden {
			t.Fatalf("status = %d, want 403: %s", w.Code, w.Body.String())
		}
		if !strings.Contains(w.Body.String(), "verify access code") {
			t.Errorf("body = %s", w.Body.String())
		}
	})

	t.Run("short password is rejected", func(t *testing.T) {
		w := postJSON(router, "/auth/register",
			`{"name": "New User", "email": "newuser@example.com", "password": "short"}`,
			guestCookie(t))
		if w.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400: %s", w.Code, w.Body.String())
		}
		if !strings.Contains(w.Body.String(), "at least 8 characters") {
			t.Errorf("body = %s", w.Body.String())
		}
	})

	t.Run("valid registration returns the member and a session", func(t *testing.T) {
		w := postJSON(router, "/auth/register",
			`{"name": "New User", "email": "NewUser@Example.com", "password": "longenough"}`,
			guestCookie(t))
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
		}

		var member models.Member
		if err := json.Unmarshal(w.Body.Bytes(), &member); err != nil {
			t.Fatalf("response is not a member entity: %v", err)
		}
		if member.Email != "newuser@example.com" {
			t.Errorf("Email = %q, expected it lowercased", member.Email)
		}
		if strings.Contains(w.Body.String(), "password") {
			t.Error("response leaks the password hash")
		}

		_, claims := sessionFromResponse(t, w)
		if claims.MemberID == nil || *claims.MemberID != member.ID {
			t.Errorf("session member id = %v, expected %d", claims.MemberID, member.ID)
		}
		if !claims.CodeVerified {
			t.Error("code_verified should survive the privilege change")
		}
	})

	t.Run("duplicate email is rejected", func(t *testing.T) {
		w := postJSON(router, "/auth/register",
			`{"name": "Again", "email": "newuser@example.com", "password": "longenough"}`,
			guestCookie(t))
		if w.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400: %s", w.Code, w.Body.String())
		}
		if !strings.Contains(w.Body.String(), "already registered") {
			t.Errorf("body = %s", w.Body.String())
		}
	})
}

func TestLoginAndStatus(t *testing.T) {
	db := testDB(t)
	seedAccessCode(t, db, "TEST2024")
	router := authRouter(db)

	// Register a member first.
	w := postJSON(router, "/auth/verify-code", `{"code": "TEST2024"}`)
	guest, _ := sessionFromResponse(t, w)
	w = postJSON(router, "/auth/register",
		`{"name": "Reader", "email": "reader@example.com", "password": "longenough"}`, guest)
	if w.Code != http.StatusOK {
		t.Fatalf("registration failed: %s", w.Body.String())
	}

	t.Run("wrong credentials are indistinguishable", func(t *testing.T) {
		for _, body := range []string{
			`{"email": "reader@example.com", "password": "wrongpass1"}`,
			`{"email": "nobody@example.com", "password": "longenough"}`,
		} {
			w := postJSON(router, "/auth/login", body)
			if w.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want 401", w.Code)
			}
			if !strings.Contains(w.Body.String(), "Invalid email or password") {
				t.Errorf("body = %s", w.Body.String())
			}
		}
	})

	t.Run("login greets by name and sets a session", func(t *testing.T) {
		w := postJSON(router, "/auth/login", `{"email": "READER@example.com", "password": "longenough"}`)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
		}
		if !strings.Contains(w.Body.String(), "Welcome back, Reader!") {
			t.Errorf("body = %s", w.Body.String())
		}

		cookie, claims := sessionFromResponse(t, w)
		if claims.MemberID == nil {
			t.Fatal("session carries no member id")
		}

		// Status reads the member row, not the token.
		req, _ := http.NewRequest("GET", "/auth/status", nil)
		req.AddCookie(cookie)
		sw := httptest.NewRecorder()
		router.ServeHTTP(sw, req)

		var status struct {
			Authenticated bool    `json:"authenticated"`
			CodeVerified  bool    `json:"code_verified"`
			IsAdmin       bool    `json:"is_admin"`
			UserName      *string `json:"user_name"`
		}
		if err := json.Unmarshal(sw.Body.Bytes(), &status); err != nil {
			t.Fatalf("status response: %v", err)
		}
		if !status.Authenticated || !status.CodeVerified || status.IsAdmin {
			t.Errorf("status = %+v", status)
		}
		if status.UserName == nil || *status.UserName != "Reader" {
			t.Errorf("user_name = %v, want Reader", status.UserName)
		}
	})

	t.Run("logout clears the cookie", func(t *testing.T) {
		w := postJSON(router, "/auth/logout", ``)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", w.Code)
		}
		cleared := false
		for _, sc := range w.Header().Values("Set-Cookie") {
			if strings.HasPrefix(sc, testCookieName+"=") && strings.Contains(sc, "Max-Age=0") {
				cleared = true
			}
		}
		if !cleared {
			t.Error("expected an expired session cookie")
		}
	})
}

func TestStatusAnonymous(t *testing.T) {
	db := testDB(t)
	router := authRouter(db)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/auth/status", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"authenticated":false`) {
		t.Errorf("body = %s", w.Body.String())
	}
}
