// Package dfbnet fetches a referee's match assignments from the DFBnet
// portal ("Schiriansetzung > Eigene Daten") and extracts match, referee and
// venue details from the returned HTML.
package dfbnet

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"
)

const (
	loginPath       = "/auth/login"
	assignmentsPath = "/sria/matches"
)

var ErrLoginFailed = errors.New("dfbnet login failed")

// Client drives the portal over plain HTTP with a cookie-backed session.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

func NewClient(baseURL string, logger *slog.Logger) *Client {
	jar, _ := cookiejar.New(nil)
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
			Jar:     jar,
		},
		logger: logger,
	}
}

// Login authenticates against the portal's login form. A response that still
// carries the login form means the credentials were rejected.
func (c *Client) Login(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return fmt.Errorf("%w: username and password are required", ErrLoginFailed)
	}

	form := url.Values{
		"username": {username},
		"password": {password},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+loginPath, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("login request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return ErrLoginFailed
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusFound {
		return fmt.Errorf("login returned unexpected status %d", resp.StatusCode)
	}

	loggedIn, err := loginSucceeded(resp)
	if err != nil {
		return err
	}
	if !loggedIn {
		return ErrLoginFailed
	}

	c.logger.Info("dfbnet login successful", "user", username)
	return nil
}

// FetchAssignments downloads the referee's assignment list and parses every
// match with its referee contacts and venue.
func (c *Client) FetchAssignments(ctx context.Context) ([]Assignment, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+assignmentsPath, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create assignments request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("assignments request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("assignments returned unexpected status %d", resp.StatusCode)
	}

	assignments, err := ParseAssignments(resp.Body)
	if err != nil {
		return nil, err
	}

	c.logger.Info("fetched assignments", "count", len(assignments))
	return assignments, nil
}
