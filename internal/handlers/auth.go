package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/JanVogt06/dfb-spesen-generator/internal/apierr"
	"github.com/JanVogt06/dfb-spesen-generator/internal/auth"
	"github.com/JanVogt06/dfb-spesen-generator/internal/cryptox"
	"github.com/JanVogt06/dfb-spesen-generator/internal/database"
	"github.com/JanVogt06/dfb-spesen-generator/internal/middleware"
	"github.com/JanVogt06/dfb-spesen-generator/internal/models"
)

type AuthHandler struct {
	db            *database.Client
	jwtSecret     []byte
	tokenValidity time.Duration
	encryptionKey []byte
}

func NewAuthHandler(db *database.Client, jwtSecret []byte, tokenValidity time.Duration, encryptionKey []byte) *AuthHandler {
	return &AuthHandler{
		db:            db,
		jwtSecret:     jwtSecret,
		tokenValidity: tokenValidity,
		encryptionKey: encryptionKey,
	}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierr.Validation(c, "", err.Error())
		return
	}

	if _, err := h.db.GetUserByEmail(req.Email); err == nil {
		apierr.Conflict(c, "Email bereits registriert")
		return
	} else if !errors.Is(err, database.ErrNotFound) {
		apierr.Internal(c, "")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		apierr.Internal(c, "")
		return
	}

	userID, err := h.db.CreateUser(req.Email, hash)
	if err != nil {
		apierr.Internal(c, "")
		return
	}

	token, err := auth.GenerateToken(userID, h.jwtSecret, h.tokenValidity)
	if err != nil {
		apierr.Internal(c, "")
		return
	}

	c.JSON(http.StatusCreated, models.AuthResponse{
		AccessToken: token,
		TokenType:   "bearer",
		UserID:      userID,
		Email:       req.Email,
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierr.Validation(c, "", err.Error())
		return
	}

	user, err := h.db.GetUserByEmail(req.Email)
	if err != nil || !auth.VerifyPassword(req.Password, user.PasswordHash) {
		apierr.Authentication(c, "Falsche Email oder Passwort")
		return
	}

	token, err := auth.GenerateToken(user.ID, h.jwtSecret, h.tokenValidity)
	if err != nil {
		apierr.Internal(c, "")
		return
	}

	c.JSON(http.StatusOK, models.AuthResponse{
		AccessToken: token,
		TokenType:   "bearer",
		UserID:      user.ID,
		Email:       user.Email,
	})
}

func (h *AuthHandler) Me(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, models.UserInfo{
		UserID: user.ID,
		Email:  user.Email,
	})
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	var req models.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierr.Validation(c, "", err.Error())
		return
	}

	if !auth.VerifyPassword(req.OldPassword, user.PasswordHash) {
		apierr.Authentication(c, "Altes Passwort ist falsch")
		return
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		apierr.Internal(c, "")
		return
	}

	if err := h.db.UpdatePasswordHash(user.ID, hash); err != nil {
		apierr.Internal(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// SetDFBCredentials encrypts and stores the caller's DFBnet login. The
// plaintext exists only for the duration of this request.
func (h *AuthHandler) SetDFBCredentials(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	var req models.DFBCredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierr.Validation(c, "", err.Error())
		return
	}

	usernameEnc, err := cryptox.EncryptCredential(req.DFBUsername, h.encryptionKey)
	if err != nil {
		apierr.Internal(c, "")
		return
	}
	passwordEnc, err := cryptox.EncryptCredential(req.DFBPassword, h.encryptionKey)
	if err != nil {
		apierr.Internal(c, "")
		return
	}

	if err := h.db.UpdateDFBCredentials(user.ID, usernameEnc, passwordEnc); err != nil {
		apierr.Internal(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// DFBCredentialsStatus only ever exposes whether credentials exist, never
// the credentials themselves.
func (h *AuthHandler) DFBCredentialsStatus(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, models.DFBCredentialsStatus{
		HasCredentials: user.HasDFBCredentials(),
	})
}

func (h *AuthHandler) currentUser(c *gin.Context) (*models.User, bool) {
	userID, ok := middleware.UserID(c)
	if !ok {
		apierr.Authentication(c, "")
		return nil, false
	}

	user, err := h.db.GetUserByID(userID)
	if err != nil {
		apierr.Authentication(c, "User nicht gefunden")
		return nil, false
	}
	return user, true
}
