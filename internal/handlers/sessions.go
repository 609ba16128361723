package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/JanVogt06/dfb-spesen-generator/internal/apierr"
	"github.com/JanVogt06/dfb-spesen-generator/internal/database"
	"github.com/JanVogt06/dfb-spesen-generator/internal/matchutil"
	"github.com/JanVogt06/dfb-spesen-generator/internal/middleware"
	"github.com/JanVogt06/dfb-spesen-generator/internal/models"
	"github.com/JanVogt06/dfb-spesen-generator/internal/workspace"
)

type SessionsHandler struct {
	db         *database.Client
	workspaces *workspace.Manager
}

func NewSessionsHandler(db *database.Client, workspaces *workspace.Manager) *SessionsHandler {
	return &SessionsHandler{db: db, workspaces: workspaces}
}

// ownedSession loads the session named in the URL and enforces that the
// caller owns it. A foreign session is a 403, a missing one a 404.
func ownedSession(c *gin.Context, db *database.Client) (*models.Session, bool) {
	userID, ok := middleware.UserID(c)
	if !ok {
		apierr.Authentication(c, "")
		return nil, false
	}

	session, err := db.GetSession(c.Param("session_id"))
	if errors.Is(err, database.ErrNotFound) {
		apierr.NotFound(c, "Session nicht gefunden")
		return nil, false
	}
	if err != nil {
		apierr.Internal(c, "")
		return nil, false
	}
	if session.UserID != userID {
		apierr.Authorization(c, "Diese Session gehört einem anderen User")
		return nil, false
	}
	return session, true
}

// List returns the caller's sessions as a bare array, newest first. Sessions
// whose workspace has been pruned from disk are omitted.
func (h *SessionsHandler) List(c *gin.Context) {
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

	responses := make([]models.SessionResponse, 0, len(sessions))
	for i := range sessions {
		resp, err := h.sessionResponse(&sessions[i])
		if err != nil {
			continue
		}
		responses = append(responses, resp)
	}

	c.JSON(http.StatusOK, responses)
}

// Get returns the current state of one session. A session whose workspace is
// gone from disk is reported as missing files, not served from the database
// row alone.
func (h *SessionsHandler) Get(c *gin.Context) {
	session, ok := ownedSession(c, h.db)
	if !ok {
		return
	}

	resp, err := h.sessionResponse(session)
	if errors.Is(err, workspace.ErrNotFound) {
		apierr.NotFound(c, "Session-Dateien nicht gefunden")
		return
	}
	if err != nil {
		apierr.Internal(c, "")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Matches returns the scraped match data of one session as a bare array. A
// session without a data file yields an empty array; a pruned workspace is a
// 404.
func (h *SessionsHandler) Matches(c *gin.Context) {
	session, ok := ownedSession(c, h.db)
	if !ok {
		return
	}

	matches, err := h.workspaces.ReadMatches(session.SessionID)
	if errors.Is(err, workspace.ErrNotFound) {
		apierr.NotFound(c, "Session nicht gefunden")
		return
	}
	if err != nil {
		apierr.Internal(c, "")
		return
	}

	scrapedAt := session.CreatedAt.UTC().Format(time.RFC3339)
	for i := range matches {
		matches[i].SessionID = session.SessionID
		matches[i].Datum = matchutil.ISODateFromAnpfiff(matches[i].SpielInfo.Anpfiff)
		matches[i].CreatedAt = scrapedAt
		matches[i].Filename = matchutil.FilenameFromMatch(&matches[i])
	}

	c.JSON(http.StatusOK, matches)
}

// sessionResponse merges the database row with the workspace metadata. The
// metadata carries the fresher status and progress while a run is active. A
// pruned workspace surfaces as workspace.ErrNotFound.
func (h *SessionsHandler) sessionResponse(session *models.Session) (models.SessionResponse, error) {
	resp := models.SessionResponse{
		SessionID: session.SessionID,
		Status:    session.Status,
		Files:     []models.SessionFile{},
		CreatedAt: session.CreatedAt.UTC().Format(time.RFC3339),
	}

	if _, err := h.workspaces.Resolve(session.SessionID); err != nil {
		return models.SessionResponse{}, err
	}

	// A present workspace without metadata.json still gets served.
	if meta, err := h.workspaces.ReadMetadata(session.SessionID); err == nil {
		if models.StatusRank(meta.Status) > models.StatusRank(resp.Status) {
			resp.Status = meta.Status
		}
		resp.Progress = meta.Progress
	}

	if files, err := h.workspaces.Files(session.SessionID); err == nil {
		resp.Files = files
	}

	if resp.Status == models.StatusCompleted && len(resp.Files) > 0 {
		resp.DownloadAllURL = "/api/download/" + session.SessionID + "/all"
	}

	return resp, nil
}

// aggregateMatches collects the matches of all given sessions, deduplicated
// by (home team, guest team, date). When the same fixture appears in several
// sessions the most recently scraped copy wins.
func aggregateMatches(workspaces *workspace.Manager, sessions []models.Session) []models.MatchData {
	type matchKey struct {
		heim, gast, datum string
	}

	latest := make(map[matchKey]models.MatchData)
	for i := range sessions {
		session := &sessions[i]
		matches, err := workspaces.ReadMatches(session.SessionID)
		if err != nil {
			continue
		}
		scrapedAt := session.CreatedAt.UTC().Format(time.RFC3339)
		for _, match := range matches {
			if match.SpielInfo.HeimTeam == "" || match.SpielInfo.GastTeam == "" {
				continue
			}
			match.SessionID = session.SessionID
			match.Datum = matchutil.ISODateFromAnpfiff(match.SpielInfo.Anpfiff)
			match.CreatedAt = scrapedAt
			match.Filename = matchutil.FilenameFromMatch(&match)

			key := matchKey{match.SpielInfo.HeimTeam, match.SpielInfo.GastTeam, match.Datum}
			if existing, ok := latest[key]; ok && existing.CreatedAt >= match.CreatedAt {
				continue
			}
			latest[key] = match
		}
	}

	result := make([]models.MatchData, 0, len(latest))
	for _, match := range latest {
		result = append(result, match)
	}
	return result
}
