// Package workspace manages the on-disk session folders. Each generation run
// owns one folder under the base output directory, named
// session_<YYYYMMDD_HHMMSS>_<hex8>, holding metadata.json, the scraped
// spesen_data.json and the generated documents.
package workspace

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/JanVogt06/dfb-spesen-generator/internal/models"
)

const (
	MetadataFile = "metadata.json"
	MatchesFile  = "spesen_data.json"
)

var ErrNotFound = errors.New("session workspace not found")

// Metadata is the poll-visible state of a run, persisted as metadata.json.
type Metadata struct {
	SessionID string           `json:"session_id"`
	CreatedAt string           `json:"created_at"`
	UpdatedAt string           `json:"updated_at,omitempty"`
	Status    string           `json:"status"`
	Files     []string         `json:"files"`
	Progress  *models.Progress `json:"progress,omitempty"`
}

type Manager struct {
	baseDir string
}

func NewManager(baseDir string) (*Manager, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	return &Manager{baseDir: baseDir}, nil
}

func (m *Manager) BaseDir() string {
	return m.baseDir
}

// Create makes a fresh session folder with initial metadata and returns its id.
func (m *Manager) Create() (string, error) {
	timestamp := time.Now().Format("20060102_150405")
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	sessionID := fmt.Sprintf("session_%s_%s", timestamp, suffix)

	path := filepath.Join(m.baseDir, sessionID)
	if err := os.MkdirAll(path, 0o755); err != nil {
		return "", fmt.Errorf("failed to create session directory: %w", err)
	}

	meta := Metadata{
		SessionID: sessionID,
		CreatedAt: time.Now().Format(time.RFC3339),
		Status:    models.StatusPending,
		Files:     []string{},
		Progress:  &models.Progress{Step: "Initialisierung..."},
	}
	if err := m.writeMetadata(path, &meta); err != nil {
		return "", err
	}

	return sessionID, nil
}

// Resolve maps a session id to its folder. Ids containing path separators or
// pointing outside the base directory are rejected.
func (m *Manager) Resolve(sessionID string) (string, error) {
	if sessionID == "" || sessionID != filepath.Base(sessionID) || strings.Contains(sessionID, "..") {
		return "", ErrNotFound
	}

	path := filepath.Join(m.baseDir, sessionID)
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return "", ErrNotFound
	}
	return path, nil
}

func (m *Manager) ReadMetadata(sessionID string) (*Metadata, error) {
	path, err := m.Resolve(sessionID)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filepath.Join(path, MetadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read metadata: %w", err)
	}

	var meta Metadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("failed to parse metadata: %w", err)
	}
	return &meta, nil
}

// Update is a partial metadata update: empty status, nil files and nil
// progress leave the stored values untouched.
type Update struct {
	Status   string
	Files    []string
	Progress *models.Progress
}

func (m *Manager) UpdateMetadata(sessionID string, update Update) error {
	path, err := m.Resolve(sessionID)
	if err != nil {
		return err
	}

	meta, err := m.ReadMetadata(sessionID)
	if err != nil {
		return err
	}

	if update.Status != "" {
		meta.Status = update.Status
	}
	if update.Files != nil {
		meta.Files = update.Files
	}
	if update.Progress != nil {
		meta.Progress = update.Progress
	}
	meta.UpdatedAt = time.Now().Format(time.RFC3339)

	return m.writeMetadata(path, meta)
}

func (m *Manager) writeMetadata(path string, meta *Metadata) error {
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}
	if err := os.WriteFile(filepath.Join(path, MetadataFile), data, 0o644); err != nil {
		return fmt.Errorf("failed to write metadata: %w", err)
	}
	return nil
}

// Files lists the downloadable files of a session: the generated documents
// plus the scraped data file, sorted by name.
func (m *Manager) Files(sessionID string) ([]models.SessionFile, error) {
	path, err := m.Resolve(sessionID)
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("failed to list session files: %w", err)
	}

	files := []models.SessionFile{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, ".docx") && name != MatchesFile {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}

		files = append(files, models.SessionFile{
			Name:      name,
			Path:      filepath.Join(sessionID, name),
			Size:      info.Size(),
			CreatedAt: info.ModTime().Format(time.RFC3339),
		})
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return files, nil
}

// DocumentNames returns the generated .docx filenames of a session.
func (m *Manager) DocumentNames(sessionID string) ([]string, error) {
	files, err := m.Files(sessionID)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, f := range files {
		if strings.HasSuffix(f.Name, ".docx") {
			names = append(names, f.Name)
		}
	}
	return names, nil
}

// FilePath resolves a filename inside a session, rejecting traversal.
func (m *Manager) FilePath(sessionID, filename string) (string, error) {
	path, err := m.Resolve(sessionID)
	if err != nil {
		return "", err
	}

	if filename == "" || filename != filepath.Base(filename) || strings.Contains(filename, "..") {
		return "", ErrNotFound
	}

	full := filepath.Join(path, filename)
	if _, err := os.Stat(full); err != nil {
		return "", ErrNotFound
	}
	return full, nil
}

// WriteMatches persists the scraped match snapshot as spesen_data.json.
func (m *Manager) WriteMatches(sessionID string, matches []models.MatchData) error {
	path, err := m.Resolve(sessionID)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(matches, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal matches: %w", err)
	}
	if err := os.WriteFile(filepath.Join(path, MatchesFile), data, 0o644); err != nil {
		return fmt.Errorf("failed to write matches: %w", err)
	}
	return nil
}

// ReadMatches loads spesen_data.json. A session with no data file returns an
// empty slice, not an error.
func (m *Manager) ReadMatches(sessionID string) ([]models.MatchData, error) {
	path, err := m.Resolve(sessionID)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filepath.Join(path, MatchesFile))
	if os.IsNotExist(err) {
		return []models.MatchData{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read matches: %w", err)
	}

	var matches []models.MatchData
	if err := json.Unmarshal(data, &matches); err != nil {
		return nil, fmt.Errorf("failed to parse matches: %w", err)
	}
	return matches, nil
}
