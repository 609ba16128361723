package handlers

import (
	"net/http"
	"os"
	"sort"

	"github.com/gin-gonic/gin"

	"github.com/JanVogt06/dfb-spesen-generator/internal/apierr"
	"github.com/JanVogt06/dfb-spesen-generator/internal/database"
	"github.com/JanVogt06/dfb-spesen-generator/internal/middleware"
	"github.com/JanVogt06/dfb-spesen-generator/internal/workspace"
)

type MatchesHandler struct {
	db         *database.Client
	workspaces *workspace.Manager
}

func NewMatchesHandler(db *database.Client, workspaces *workspace.Manager) *MatchesHandler {
	return &MatchesHandler{db: db, workspaces: workspaces}
}

// List returns every match the caller has ever scraped as a bare array,
// deduplicated across sessions and sorted newest match date first. Matches
// whose document has since been pruned from disk are dropped.
func (h *MatchesHandler) List(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		apierr.Authentication(c, "")
		return
	}

	sessions, err := h.db.ListUserSessions(userID)
	if err != nil {
		apierr.Internal(c, "")
		return
	}

	matches := aggregateMatches(h.workspaces, sessions)

	available := matches[:0]
	for _, match := range matches {
		path, err := h.workspaces.FilePath(match.SessionID, match.Filename)
		if err != nil {
			continue
		}
		if _, err := os.Stat(path); err != nil {
			continue
		}
		available = append(available, match)
	}
	matches = available

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Datum != matches[j].Datum {
			return matches[i].Datum > matches[j].Datum
		}
		return matches[i].SpielInfo.HeimTeam < matches[j].SpielInfo.HeimTeam
	})

	c.JSON(http.StatusOK, matches)
}
