package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/JanVogt06/dfb-spesen-generator/internal/apierr"
	"github.com/JanVogt06/dfb-spesen-generator/internal/database"
	"github.com/JanVogt06/dfb-spesen-generator/internal/generation"
	"github.com/JanVogt06/dfb-spesen-generator/internal/middleware"
	"github.com/JanVogt06/dfb-spesen-generator/internal/models"
)

type GenerateHandler struct {
	db      *database.Client
	service *generation.Service
}

func NewGenerateHandler(db *database.Client, service *generation.Service) *GenerateHandler {
	return &GenerateHandler{db: db, service: service}
}

// Generate starts a scrape-and-generate run for the caller and returns
// immediately. The session id in the response is what clients poll.
func (h *GenerateHandler) Generate(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		apierr.Authentication(c, "")
		return
	}

	user, err := h.db.GetUserByID(userID)
	if err != nil {
		apierr.Authentication(c, "User nicht gefunden")
		return
	}

	session, err := h.service.Launch(c.Request.Context(), user)
	if errors.Is(err, generation.ErrCredentialsMissing) {
		apierr.CredentialsMissing(c)
		return
	}
	if err != nil {
		apierr.Internal(c, "Generierung konnte nicht gestartet werden")
		return
	}

	c.JSON(http.StatusOK, models.SessionResponse{
		SessionID: session.SessionID,
		Status:    session.Status,
		Files:     []models.SessionFile{},
		CreatedAt: session.CreatedAt.UTC().Format(time.RFC3339),
	})
}
