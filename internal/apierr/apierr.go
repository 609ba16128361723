// Package apierr defines the error envelope every API error is rendered as:
//
//	{"error": {"code": "...", "message": "...", "details": "..."}}
package apierr

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	CodeAuthentication     = "AUTHENTICATION_ERROR"
	CodeAuthorization      = "AUTHORIZATION_ERROR"
	CodeNotFound           = "NOT_FOUND"
	CodeValidation         = "VALIDATION_ERROR"
	CodeConflict           = "CONFLICT"
	CodeInternal           = "INTERNAL_ERROR"
	CodeCredentialsMissing = "CREDENTIALS_MISSING"
	CodeTooEarly           = "TOO_EARLY"
)

type Detail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

type Envelope struct {
	Error Detail `json:"error"`
}

func write(c *gin.Context, status int, code, message, details string) {
	c.AbortWithStatusJSON(status, Envelope{Error: Detail{
		Code:    code,
		Message: message,
		Details: details,
	}})
}

func Authentication(c *gin.Context, message string) {
	if message == "" {
		message = "Nicht angemeldet"
	}
	write(c, http.StatusUnauthorized, CodeAuthentication, message, "")
}

func Authorization(c *gin.Context, message string) {
	if message == "" {
		message = "Zugriff verweigert"
	}
	write(c, http.StatusForbidden, CodeAuthorization, message, "")
}

func NotFound(c *gin.Context, message string) {
	if message == "" {
		message = "Nicht gefunden"
	}
	write(c, http.StatusNotFound, CodeNotFound, message, "")
}

func Validation(c *gin.Context, message, details string) {
	if message == "" {
		message = "Ungültige Eingabe"
	}
	write(c, http.StatusBadRequest, CodeValidation, message, details)
}

func Conflict(c *gin.Context, message string) {
	if message == "" {
		message = "Ressource existiert bereits"
	}
	write(c, http.StatusConflict, CodeConflict, message, "")
}

func Internal(c *gin.Context, message string) {
	if message == "" {
		message = "Interner Server-Fehler"
	}
	write(c, http.StatusInternalServerError, CodeInternal, message, "")
}

// CredentialsMissing is returned when an operation needs stored DFBnet
// credentials but the user has none. The frontend redirects to the settings
// page on this code.
func CredentialsMissing(c *gin.Context) {
	write(c, http.StatusBadRequest, CodeCredentialsMissing,
		"Keine DFB-Credentials gespeichert",
		"Bitte speichere deine DFB-Credentials unter /api/auth/dfb-credentials")
}

// TooEarly signals that the requested documents are still being generated.
func TooEarly(c *gin.Context, message string) {
	write(c, http.StatusTooEarly, CodeTooEarly, message, "")
}
