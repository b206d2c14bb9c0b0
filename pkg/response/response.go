package response

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/pageturners/bookclub/backend/pkg/logger"
)

// Kind classifies an application error. Services return kinds; the HTTP
// status is decided once, in Abort.
type Kind int

const (
	KindInternal Kind = iota
	KindUnauthenticated
	KindForbidden
	KindNotFound
	KindConflict
	KindInvalid
	KindValidation
)

// AppError is a business-rule failure raised at the point of detection.
type AppError struct {
	Kind    Kind
	Message string
}

func (e *AppError) Error() string {
	return e.Message
}

// HTTPStatus maps an error kind to its transport status code.
// Conflict and Invalid both surface as 400: state violations and rejected
// values are client errors, not resource-level 409s.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict, KindInvalid:
		return http.StatusBadRequest
	case KindValidation:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// redirectCode is the query-string error code used on browser-page paths.
func (k Kind) redirectCode() string {
	switch k {
	case KindUnauthenticated:
		return "login_required"
	case KindForbidden:
		return "access_required"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindInvalid, KindValidation:
		return "invalid"
	default:
		return "server_error"
	}
}

// Error constructors, one per kind.

func Unauthenticated(msg string) *AppError {
	return &AppError{Kind: KindUnauthenticated, Message: msg}
}

func Forbidden(msg string) *AppError {
	return &AppError{Kind: KindForbidden, Message: msg}
}

func NotFound(msg string) *AppError {
	return &AppError{Kind: KindNotFound, Message: msg}
}

func Conflict(msg string) *AppError {
	return &AppError{Kind: KindConflict, Message: msg}
}

func Invalid(msg string) *AppError {
	return &AppError{Kind: KindInvalid, Message: msg}
}

func Validation(msg string) *AppError {
	return &AppError{Kind: KindValidation, Message: msg}
}

func Internal(msg string) *AppError {
	return &AppError{Kind: KindInternal, Message: msg}
}

// BindError converts a gin binding failure into a Validation error with
// the field-level messages joined into one string.
func BindError(err error) *AppError {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		parts := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			parts = append(parts, fmt.Sprintf("%s failed on '%s'", strings.ToLower(fe.Field()), fe.Tag()))
		}
		return Validation(strings.Join(parts, "; "))
	}
	return Validation(err.Error())
}

// Ack is the envelope for mutations and for all error bodies.
type Ack struct {
	Message string `json:"message"`
	Success bool   `json:"success"`
}

// OK sends a 200 mutation acknowledgement.
func OK(c *gin.Context, message string) {
	c.JSON(http.StatusOK, Ack{Message: message, Success: true})
}

// Data sends a 200 entity payload as-is.
func Data(c *gin.Context, payload interface{}) {
	c.JSON(http.StatusOK, payload)
}

// Abort is the single error translator. API paths (/api, /auth, /health)
// get a status code and a JSON body; browser-page paths get a redirect
// carrying a query-string error code. Unknown errors are logged with full
// detail and surfaced as a generic 500.
func Abort(c *gin.Context, err error) {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		logger.Error().
			Err(err).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Str("request_id", c.GetString("request_id")).
			Msg("unexpected error")
		appErr = &AppError{Kind: KindInternal, Message: "Something went wrong. Please try again later."}
	}

	if isAPIPath(c.Request.URL.Path) {
		c.AbortWithStatusJSON(appErr.Kind.HTTPStatus(), Ack{Message: appErr.Message, Success: false})
		return
	}

	c.Redirect(http.StatusFound, redirectTarget(appErr.Kind))
	c.Abort()
}

func isAPIPath(path string) bool {
	return strings.HasPrefix(path, "/api/") ||
		strings.HasPrefix(path, "/auth/") ||
		path == "/health"
}

func redirectTarget(k Kind) string {
	if k == KindUnauthenticated {
		return "/login?error=" + k.redirectCode()
	}
	return "/?error=" + k.redirectCode()
}
