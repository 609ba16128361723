// Package generation orchestrates one scrape-and-generate run: fetch the
// referee's assignments from DFBnet, snapshot them into the session
// workspace and render one expense document per match. Run state is written
// to both the database and the workspace metadata so clients can poll it.
package generation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/JanVogt06/dfb-spesen-generator/internal/cryptox"
	"github.com/JanVogt06/dfb-spesen-generator/internal/database"
	"github.com/JanVogt06/dfb-spesen-generator/internal/models"
	"github.com/JanVogt06/dfb-spesen-generator/internal/workspace"
)

var (
	ErrCredentialsMissing = errors.New("no dfbnet credentials stored")
	ErrNoMatches          = errors.New("keine Spiele gefunden")
)

// MatchSource fetches a referee's assigned matches from the portal.
type MatchSource interface {
	Scrape(ctx context.Context, username, password string) ([]models.MatchData, error)
}

// Renderer produces one document per match into the given directory and
// returns the generated filename.
type Renderer interface {
	Render(match *models.MatchData, outputDir string) (string, error)
}

type Service struct {
	db         *database.Client
	workspaces *workspace.Manager
	source     MatchSource
	renderer   Renderer
	key        []byte
	logger     *slog.Logger
}

func NewService(
	db *database.Client,
	workspaces *workspace.Manager,
	source MatchSource,
	renderer Renderer,
	encryptionKey []byte,
	logger *slog.Logger,
) *Service {
	return &Service{
		db:         db,
		workspaces: workspaces,
		source:     source,
		renderer:   renderer,
		key:        encryptionKey,
		logger:     logger,
	}
}

// Launch creates a session for the user and starts the run in the
// background. The run deliberately outlives the triggering request, so it is
// detached from the request context's cancellation.
func (s *Service) Launch(ctx context.Context, user *models.User) (*models.Session, error) {
	session, username, password, err := s.prepare(user)
	if err != nil {
		return nil, err
	}

	go s.run(context.WithoutCancel(ctx), session.SessionID, username, password)
	return session, nil
}

// RunForUser creates a session for the user and runs it synchronously. The
// scheduler uses this so its semaphore actually bounds concurrent runs.
func (s *Service) RunForUser(ctx context.Context, user *models.User) (*models.Session, error) {
	session, username, password, err := s.prepare(user)
	if err != nil {
		return nil, err
	}

	s.run(ctx, session.SessionID, username, password)
	return session, nil
}

func (s *Service) prepare(user *models.User) (*models.Session, string, string, error) {
	if !user.HasDFBCredentials() {
		return nil, "", "", ErrCredentialsMissing
	}

	username, err := cryptox.DecryptCredential(user.DFBUsernameEncrypted.String, s.key)
	if err != nil {
		return nil, "", "", fmt.Errorf("failed to decrypt dfbnet username: %w", err)
	}
	password, err := cryptox.DecryptCredential(user.DFBPasswordEncrypted.String, s.key)
	if err != nil {
		return nil, "", "", fmt.Errorf("failed to decrypt dfbnet password: %w", err)
	}

	sessionID, err := s.workspaces.Create()
	if err != nil {
		return nil, "", "", err
	}

	session, err := s.db.CreateSession(sessionID, user.ID)
	if err != nil {
		return nil, "", "", err
	}

	return session, username, password, nil
}

func (s *Service) run(ctx context.Context, sessionID, username, password string) {
	logger := s.logger.With("session_id", sessionID)

	err := s.runPipeline(ctx, sessionID, username, password, logger)
	if err == nil {
		logger.Info("generation run completed")
		return
	}

	logger.Error("generation run failed", "error", err)
	s.setStatus(sessionID, models.StatusFailed, &models.Progress{Step: err.Error()}, logger)
}

func (s *Service) runPipeline(ctx context.Context, sessionID, username, password string, logger *slog.Logger) error {
	s.setStatus(sessionID, models.StatusScraping,
		&models.Progress{Step: "Scraping gestartet..."}, logger)

	matches, err := s.source.Scrape(ctx, username, password)
	if err != nil {
		return fmt.Errorf("scraping failed: %w", err)
	}
	if len(matches) == 0 {
		return ErrNoMatches
	}

	if err := s.workspaces.WriteMatches(sessionID, matches); err != nil {
		return err
	}

	s.setStatus(sessionID, models.StatusGenerating,
		&models.Progress{Total: len(matches), Step: "Erstelle Dokumente..."}, logger)

	path, err := s.workspaces.Resolve(sessionID)
	if err != nil {
		return err
	}

	var generated []string
	for i := range matches {
		filename, err := s.renderer.Render(&matches[i], path)
		if err != nil {
			logger.Error("failed to render document", "index", i, "error", err)
			continue
		}
		generated = append(generated, filename)

		s.updateProgress(sessionID, &models.Progress{
			Current: i + 1,
			Total:   len(matches),
			Step:    fmt.Sprintf("Generiere Dokument %d/%d", i+1, len(matches)),
		}, logger)
	}

	if len(generated) == 0 {
		return fmt.Errorf("no documents generated for %d matches", len(matches))
	}

	if err := s.workspaces.UpdateMetadata(sessionID, workspace.Update{
		Status: models.StatusCompleted,
		Files:  generated,
		Progress: &models.Progress{
			Current: len(generated),
			Total:   len(matches),
			Step:    "Abgeschlossen",
		},
	}); err != nil {
		logger.Error("failed to update workspace metadata", "error", err)
	}
	if err := s.db.UpdateSessionStatus(sessionID, models.StatusCompleted); err != nil {
		logger.Error("failed to update session status", "status", models.StatusCompleted, "error", err)
	}

	return nil
}

func (s *Service) setStatus(sessionID, status string, progress *models.Progress, logger *slog.Logger) {
	if err := s.workspaces.UpdateMetadata(sessionID, workspace.Update{
		Status:   status,
		Progress: progress,
	}); err != nil {
		logger.Error("failed to update workspace metadata", "error", err)
	}
	if err := s.db.UpdateSessionStatus(sessionID, status); err != nil {
		logger.Error("failed to update session status", "status", status, "error", err)
	}
}

func (s *Service) updateProgress(sessionID string, progress *models.Progress, logger *slog.Logger) {
	if err := s.workspaces.UpdateMetadata(sessionID, workspace.Update{Progress: progress}); err != nil {
		logger.Error("failed to update progress", "error", err)
	}
}
