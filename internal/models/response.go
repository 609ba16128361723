package models

type AuthResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	UserID      int64  `json:"user_id"`
	Email       string `json:"email"`
}

type UserInfo struct {
	UserID int64  `json:"user_id"`
	Email  string `json:"email"`
}

type DFBCredentialsStatus struct {
	HasCredentials bool `json:"has_credentials"`
}

type SessionResponse struct {
	SessionID      string        `json:"session_id"`
	Status         string        `json:"status"`
	Files          []SessionFile `json:"files"`
	DownloadAllURL string        `json:"download_all_url"`
	CreatedAt      string        `json:"created_at"`
	Progress       *Progress     `json:"progress,omitempty"`
}

type SchedulerStatusResponse struct {
	Running bool   `json:"running"`
	NextRun string `json:"next_run,omitempty"`
	JobID   string `json:"job_id,omitempty"`
	JobName string `json:"job_name,omitempty"`
}

type TriggerResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Note    string `json:"note,omitempty"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Service   string `json:"service"`
	Version   string `json:"version"`
	OutputDir string `json:"output_dir"`
}
