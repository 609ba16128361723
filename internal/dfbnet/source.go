package dfbnet

import (
	"context"
	"log/slog"

	"github.com/JanVogt06/dfb-spesen-generator/internal/models"
)

// PortalSource scrapes the live portal. Every run gets its own client so
// concurrent runs for different referees never share a login session.
type PortalSource struct {
	baseURL string
	logger  *slog.Logger
}

func NewPortalSource(baseURL string, logger *slog.Logger) *PortalSource {
	return &PortalSource{baseURL: baseURL, logger: logger}
}

func (p *PortalSource) Scrape(ctx context.Context, username, password string) ([]models.MatchData, error) {
	client := NewClient(p.baseURL, p.logger)
	if err := client.Login(ctx, username, password); err != nil {
		return nil, err
	}
	return client.FetchAssignments(ctx)
}
