package handlers

import (
	"archive/zip"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/JanVogt06/dfb-spesen-generator/internal/apierr"
	"github.com/JanVogt06/dfb-spesen-generator/internal/database"
	"github.com/JanVogt06/dfb-spesen-generator/internal/models"
	"github.com/JanVogt06/dfb-spesen-generator/internal/workspace"
)

const docxContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

type DownloadHandler struct {
	db         *database.Client
	workspaces *workspace.Manager
}

func NewDownloadHandler(db *database.Client, workspaces *workspace.Manager) *DownloadHandler {
	return &DownloadHandler{db: db, workspaces: workspaces}
}

// Download serves one generated file, or a zip of all documents when the
// filename segment is the literal "all". Gin cannot register a static path
// below a parameter, so the branch happens here instead of in the router.
func (h *DownloadHandler) Download(c *gin.Context) {
	session, ok := ownedSession(c, h.db)
	if !ok {
		return
	}

	status := h.effectiveStatus(session)
	if models.IsRunning(status) {
		apierr.TooEarly(c, "Session läuft noch, Dateien sind noch nicht fertig")
		return
	}
	if status == models.StatusFailed {
		apierr.Internal(c, "Session ist fehlgeschlagen, keine Dateien verfügbar")
		return
	}

	filename := c.Param("filename")
	if filename == "all" {
		h.downloadAll(c, session)
		return
	}

	path, err := h.workspaces.FilePath(session.SessionID, filename)
	if err != nil {
		apierr.NotFound(c, "Datei nicht gefunden")
		return
	}
	if _, err := os.Stat(path); err != nil {
		apierr.NotFound(c, "Datei nicht gefunden")
		return
	}

	c.Header("Content-Type", contentTypeFor(filename))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.File(path)
}

// downloadAll streams all documents of the session as one zip archive.
func (h *DownloadHandler) downloadAll(c *gin.Context, session *models.Session) {
	names, err := h.workspaces.DocumentNames(session.SessionID)
	if err != nil || len(names) == 0 {
		apierr.NotFound(c, "Keine Dokumente in dieser Session")
		return
	}

	c.Header("Content-Type", "application/zip")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", zipName(session.SessionID)))
	c.Status(http.StatusOK)

	zw := zip.NewWriter(c.Writer)
	defer zw.Close()

	for _, name := range names {
		path, err := h.workspaces.FilePath(session.SessionID, name)
		if err != nil {
			continue
		}
		if err := addToZip(zw, path, name); err != nil {
			// Headers are already out; all we can do is stop writing.
			return
		}
	}
}

func addToZip(zw *zip.Writer, path, name string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w, err := zw.Create(name)
	if err != nil {
		return err
	}
	_, err = io.Copy(w, f)
	return err
}

// effectiveStatus prefers the workspace metadata status when it is further
// along than the database row, matching what session polling reports.
func (h *DownloadHandler) effectiveStatus(session *models.Session) string {
	status := session.Status
	if meta, err := h.workspaces.ReadMetadata(session.SessionID); err == nil {
		if models.StatusRank(meta.Status) > models.StatusRank(status) {
			status = meta.Status
		}
	}
	return status
}

// zipName derives the archive name from the session folder name, e.g.
// session_20250817_153000_a1b2c3d4 becomes spesen_20250817.zip.
func zipName(sessionID string) string {
	parts := strings.Split(sessionID, "_")
	if len(parts) >= 2 && len(parts[1]) == 8 {
		return "spesen_" + parts[1] + ".zip"
	}
	return "spesen_" + sessionID + ".zip"
}

func contentTypeFor(filename string) string {
	switch filepath.Ext(filename) {
	case ".docx":
		return docxContentType
	case ".json":
		return "application/json"
	default:
		return "application/octet-stream"
	}
}
