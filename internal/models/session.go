package models

import "time"

// Session statuses. A session's status only ever moves forward through this
// order and never reverts; Completed and Failed are terminal.
const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusScraping   = "scraping"
	StatusGenerating = "generating"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

var statusRank = map[string]int{
	StatusPending:    0,
	StatusInProgress: 1,
	StatusScraping:   2,
	StatusGenerating: 3,
	StatusCompleted:  4,
	StatusFailed:     4,
}

// StatusRank returns the ordering rank of a status, with unknown statuses
// ranked below pending so they can never displace a known one.
func StatusRank(status string) int {
	if rank, ok := statusRank[status]; ok {
		return rank
	}
	return -1
}

// IsRunning reports whether the session is still being worked on.
func IsRunning(status string) bool {
	switch status {
	case StatusPending, StatusInProgress, StatusScraping, StatusGenerating:
		return true
	}
	return false
}

// IsTerminal reports whether no further status change is possible.
func IsTerminal(status string) bool {
	return status == StatusCompleted || status == StatusFailed
}

type Session struct {
	ID        int64
	SessionID string
	UserID    int64
	Status    string
	CreatedAt time.Time
}

// Progress describes how far a generation run has come.
type Progress struct {
	Current int    `json:"current"`
	Total   int    `json:"total"`
	Step    string `json:"step"`
}

// SessionFile describes one generated file inside a session workspace.
type SessionFile struct {
	Name      string `json:"name"`
	Path      string `json:"path"`
	Size      int64  `json:"size"`
	CreatedAt string `json:"created_at"`
}
