package database_test

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JanVogt06/dfb-spesen-generator/internal/database"
	"github.com/JanVogt06/dfb-spesen-generator/internal/models"
)

func newTestClient(t *testing.T) *database.Client {
	t.Helper()

	client, err := database.NewClient(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	require.NoError(t, database.NewMigrator(client.DB(), logger).Run())

	return client
}

func TestCreateUser_GetByEmail(t *testing.T) {
	client := newTestClient(t)

	userID, err := client.CreateUser("schiri@example.com", "salt$hash")
	require.NoError(t, err)
	assert.Greater(t, userID, int64(0))

	user, err := client.GetUserByEmail("schiri@example.com")
	require.NoError(t, err)
	assert.Equal(t, userID, user.ID)
	assert.Equal(t, "salt$hash", user.PasswordHash)
	assert.False(t, user.HasDFBCredentials())
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	client := newTestClient(t)

	_, err := client.CreateUser("schiri@example.com", "salt$hash")
	require.NoError(t, err)

	_, err = client.CreateUser("schiri@example.com", "salt$hash")
	assert.Error(t, err)
}

func TestGetUser_NotFound(t *testing.T) {
	client := newTestClient(t)

	_, err := client.GetUserByEmail("niemand@example.com")
	assert.ErrorIs(t, err, database.ErrNotFound)

	_, err = client.GetUserByID(999)
	assert.ErrorIs(t, err, database.ErrNotFound)
}

func TestUpdateDFBCredentials(t *testing.T) {
	client := newTestClient(t)

	userID, err := client.CreateUser("schiri@example.com", "salt$hash")
	require.NoError(t, err)

	require.NoError(t, client.UpdateDFBCredentials(userID, "enc-user", "enc-pass"))

	user, err := client.GetUserByID(userID)
	require.NoError(t, err)
	assert.True(t, user.HasDFBCredentials())
	assert.Equal(t, "enc-user", user.DFBUsernameEncrypted.String)
	assert.Equal(t, "enc-pass", user.DFBPasswordEncrypted.String)
}

func TestUpdatePasswordHash(t *testing.T) {
	client := newTestClient(t)

	userID, err := client.CreateUser("schiri@example.com", "old$hash")
	require.NoError(t, err)

	require.NoError(t, client.UpdatePasswordHash(userID, "new$hash"))

	user, err := client.GetUserByID(userID)
	require.NoError(t, err)
	assert.Equal(t, "new$hash", user.PasswordHash)
}

func TestCreateSession_Get(t *testing.T) {
	client := newTestClient(t)

	userID, err := client.CreateUser("schiri@example.com", "salt$hash")
	require.NoError(t, err)

	session, err := client.CreateSession("session_20250817_153000_a1b2c3d4", userID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, session.Status)

	got, err := client.GetSession(session.SessionID)
	require.NoError(t, err)
	assert.Equal(t, userID, got.UserID)
	assert.Equal(t, models.StatusPending, got.Status)
}

func TestListUserSessions_OnlyOwn(t *testing.T) {
	client := newTestClient(t)

	aliceID, err := client.CreateUser("alice@example.com", "salt$hash")
	require.NoError(t, err)
	bobID, err := client.CreateUser("bob@example.com", "salt$hash")
	require.NoError(t, err)

	_, err = client.CreateSession("session_a", aliceID)
	require.NoError(t, err)
	_, err = client.CreateSession("session_b", bobID)
	require.NoError(t, err)

	sessions, err := client.ListUserSessions(aliceID)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, "session_a", sessions[0].SessionID)
}

func TestUpdateSessionStatus_Forward(t *testing.T) {
	client := newTestClient(t)

	userID, err := client.CreateUser("schiri@example.com", "salt$hash")
	require.NoError(t, err)
	session, err := client.CreateSession("session_a", userID)
	require.NoError(t, err)

	for _, status := range []string{
		models.StatusInProgress,
		models.StatusScraping,
		models.StatusGenerating,
		models.StatusCompleted,
	} {
		require.NoError(t, client.UpdateSessionStatus(session.SessionID, status))
	}

	got, err := client.GetSession(session.SessionID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, got.Status)
}

func TestUpdateSessionStatus_NoRegression(t *testing.T) {
	client := newTestClient(t)

	userID, err := client.CreateUser("schiri@example.com", "salt$hash")
	require.NoError(t, err)
	session, err := client.CreateSession("session_a", userID)
	require.NoError(t, err)

	require.NoError(t, client.UpdateSessionStatus(session.SessionID, models.StatusScraping))

	err = client.UpdateSessionStatus(session.SessionID, models.StatusPending)
	assert.ErrorIs(t, err, database.ErrStatusRegression)

	got, err := client.GetSession(session.SessionID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusScraping, got.Status)
}

func TestUpdateSessionStatus_TerminalIsFinal(t *testing.T) {
	client := newTestClient(t)

	userID, err := client.CreateUser("schiri@example.com", "salt$hash")
	require.NoError(t, err)
	session, err := client.CreateSession("session_a", userID)
	require.NoError(t, err)

	require.NoError(t, client.UpdateSessionStatus(session.SessionID, models.StatusFailed))

	err = client.UpdateSessionStatus(session.SessionID, models.StatusCompleted)
	assert.ErrorIs(t, err, database.ErrStatusRegression)
}

func TestUpdateSessionStatus_UnknownStatus(t *testing.T) {
	client := newTestClient(t)

	userID, err := client.CreateUser("schiri@example.com", "salt$hash")
	require.NoError(t, err)
	session, err := client.CreateSession("session_a", userID)
	require.NoError(t, err)

	assert.Error(t, client.UpdateSessionStatus(session.SessionID, "exploded"))
}

func TestUpdateSessionStatus_MissingSession(t *testing.T) {
	client := newTestClient(t)

	err := client.UpdateSessionStatus("session_missing", models.StatusScraping)
	assert.ErrorIs(t, err, database.ErrNotFound)
}
