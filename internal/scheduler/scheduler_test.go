package scheduler_test

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JanVogt06/dfb-spesen-generator/internal/cryptox"
	"github.com/JanVogt06/dfb-spesen-generator/internal/database"
	"github.com/JanVogt06/dfb-spesen-generator/internal/generation"
	"github.com/JanVogt06/dfb-spesen-generator/internal/matchutil"
	"github.com/JanVogt06/dfb-spesen-generator/internal/models"
	"github.com/JanVogt06/dfb-spesen-generator/internal/scheduler"
	"github.com/JanVogt06/dfb-spesen-generator/internal/workspace"
)

var testKey = []byte("0123456789abcdef0123456789abcdef")

type stubSource struct{}

func (stubSource) Scrape(context.Context, string, string) ([]models.MatchData, error) {
	return []models.MatchData{
		{SpielInfo: models.SpielInfo{
			HeimTeam: "SV Jena", GastTeam: "FC Erfurt",
			Anpfiff: "Samstag · 08.11.2025 · 13:00 Uhr",
		}},
	}, nil
}

type stubRenderer struct{}

func (stubRenderer) Render(match *models.MatchData, outputDir string) (string, error) {
	filename := matchutil.FilenameFromMatch(match)
	return filename, os.WriteFile(filepath.Join(outputDir, filename), []byte("docx"), 0o644)
}

func newTestScheduler(t *testing.T, hour int) (*scheduler.Scheduler, *database.Client) {
	t.Helper()

	db, err := database.NewClient(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	require.NoError(t, database.NewMigrator(db.DB(), logger).Run())

	workspaces, err := workspace.NewManager(t.TempDir())
	require.NoError(t, err)

	service := generation.NewService(db, workspaces, stubSource{}, stubRenderer{}, testKey, logger)
	return scheduler.New(db, service, hour, 2, logger), db
}

func createUser(t *testing.T, db *database.Client, email string, withCredentials bool) int64 {
	t.Helper()

	userID, err := db.CreateUser(email, "salt$hash")
	require.NoError(t, err)

	if withCredentials {
		usernameEnc, err := cryptox.EncryptCredential("dfb-user", testKey)
		require.NoError(t, err)
		passwordEnc, err := cryptox.EncryptCredential("dfb-pass", testKey)
		require.NoError(t, err)
		require.NoError(t, db.UpdateDFBCredentials(userID, usernameEnc, passwordEnc))
	}
	return userID
}

func TestRunAll_SkipsUsersWithoutCredentials(t *testing.T) {
	sched, db := newTestScheduler(t, 3)

	withCreds := createUser(t, db, "alice@example.com", true)
	withoutCreds := createUser(t, db, "bob@example.com", false)

	sched.RunAll(context.Background())

	sessions, err := db.ListUserSessions(withCreds)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, models.StatusCompleted, sessions[0].Status)

	sessions, err = db.ListUserSessions(withoutCreds)
	require.NoError(t, err)
	assert.Empty(t, sessions)
}

func TestRunAll_NoUsers(t *testing.T) {
	sched, _ := newTestScheduler(t, 3)
	// Must not panic or block.
	sched.RunAll(context.Background())
}

func TestStartStop(t *testing.T) {
	sched, _ := newTestScheduler(t, 3)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	assert.False(t, sched.Running())
	sched.Start(ctx)
	assert.True(t, sched.Running())

	next := sched.NextRun()
	assert.True(t, next.After(time.Now()))
	assert.Equal(t, 3, next.Hour())
	assert.Equal(t, 0, next.Minute())

	sched.Stop()
	assert.Eventually(t, func() bool { return !sched.Running() }, time.Second, 10*time.Millisecond)
}

func TestStart_Idempotent(t *testing.T) {
	sched, _ := newTestScheduler(t, 3)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sched.Start(ctx)
	first := sched.NextRun()
	sched.Start(ctx)
	assert.Equal(t, first, sched.NextRun())

	sched.Stop()
}
