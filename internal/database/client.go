package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/JanVogt06/dfb-spesen-generator/internal/models"
)

var (
	ErrNotFound = errors.New("not found")

	// ErrStatusRegression is returned when an update would move a session
	// status backwards or change a terminal status. Statuses only ever move
	// forward through pending -> in_progress -> scraping -> generating ->
	// completed|failed.
	ErrStatusRegression = errors.New("session status may not regress")
)

type Client struct {
	db *sql.DB
}

func NewClient(path string) (*Client, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Client{db: db}, nil
}

func (c *Client) DB() *sql.DB {
	return c.db
}

func (c *Client) Close() error {
	return c.db.Close()
}

// ===== Users =====

func (c *Client) CreateUser(email, passwordHash string) (int64, error) {
	res, err := c.db.Exec(`
		INSERT INTO users (email, password_hash, created_at)
		VALUES (?, ?, ?)
	`, email, passwordHash, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to create user: %w", err)
	}
	return res.LastInsertId()
}

func (c *Client) GetUserByEmail(email string) (*models.User, error) {
	return c.scanUser(c.db.QueryRow(`
		SELECT id, email, password_hash, dfb_username_encrypted, dfb_password_encrypted, created_at
		FROM users
		WHERE email = ?
	`, email))
}

func (c *Client) GetUserByID(userID int64) (*models.User, error) {
	return c.scanUser(c.db.QueryRow(`
		SELECT id, email, password_hash, dfb_username_encrypted, dfb_password_encrypted, created_at
		FROM users
		WHERE id = ?
	`, userID))
}

func (c *Client) ListUsers() ([]models.User, error) {
	rows, err := c.db.Query(`
		SELECT id, email, password_hash, dfb_username_encrypted, dfb_password_encrypted, created_at
		FROM users
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Email, &u.PasswordHash,
			&u.DFBUsernameEncrypted, &u.DFBPasswordEncrypted, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (c *Client) UpdatePasswordHash(userID int64, passwordHash string) error {
	_, err := c.db.Exec(`
		UPDATE users
		SET password_hash = ?
		WHERE id = ?
	`, passwordHash, userID)
	return err
}

func (c *Client) UpdateDFBCredentials(userID int64, usernameEncrypted, passwordEncrypted string) error {
	_, err := c.db.Exec(`
		UPDATE users
		SET dfb_username_encrypted = ?, dfb_password_encrypted = ?
		WHERE id = ?
	`, usernameEncrypted, passwordEncrypted, userID)
	return err
}

func (c *Client) scanUser(row *sql.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash,
		&u.DFBUsernameEncrypted, &u.DFBPasswordEncrypted, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &u, nil
}

// ===== Sessions =====

func (c *Client) CreateSession(sessionID string, userID int64) (*models.Session, error) {
	createdAt := time.Now().UTC()
	res, err := c.db.Exec(`
		INSERT INTO sessions (session_id, user_id, status, created_at)
		VALUES (?, ?, ?, ?)
	`, sessionID, userID, models.StatusPending, createdAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	return &models.Session{
		ID:        id,
		SessionID: sessionID,
		UserID:    userID,
		Status:    models.StatusPending,
		CreatedAt: createdAt,
	}, nil
}

func (c *Client) GetSession(sessionID string) (*models.Session, error) {
	var s models.Session
	err := c.db.QueryRow(`
		SELECT id, session_id, user_id, status, created_at
		FROM sessions
		WHERE session_id = ?
	`, sessionID).Scan(&s.ID, &s.SessionID, &s.UserID, &s.Status, &s.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return &s, nil
}

func (c *Client) ListUserSessions(userID int64) ([]models.Session, error) {
	rows, err := c.db.Query(`
		SELECT id, session_id, user_id, status, created_at
		FROM sessions
		WHERE user_id = ?
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []models.Session
	for rows.Next() {
		var s models.Session
		if err := rows.Scan(&s.ID, &s.SessionID, &s.UserID, &s.Status, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

// UpdateSessionStatus advances a session's status. Attempts to move the
// status backwards, or off a terminal state, fail with ErrStatusRegression.
func (c *Client) UpdateSessionStatus(sessionID, status string) error {
	if models.StatusRank(status) < 0 {
		return fmt.Errorf("unknown session status %q", status)
	}

	tx, err := c.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var current string
	err = tx.QueryRow(`SELECT status FROM sessions WHERE session_id = ?`, sessionID).Scan(&current)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to read session status: %w", err)
	}

	if models.IsTerminal(current) || models.StatusRank(status) < models.StatusRank(current) {
		return ErrStatusRegression
	}

	if _, err := tx.Exec(`
		UPDATE sessions
		SET status = ?
		WHERE session_id = ?
	`, status, sessionID); err != nil {
		return fmt.Errorf("failed to update session status: %w", err)
	}

	return tx.Commit()
}
