package model

import "time"

// Status is the lifecycle state of a session. A session starts in
// StatusProcessing and moves exactly once to StatusCompleted or StatusFailed.
type Status string

const (
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// Terminal reports whether no further transition is allowed.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Session is a model of the persistency layer
type Session struct {
	ID          string         `json:"id"`
	UDID        string         `json:"udid"`
	BundleID    string         `json:"bundle_id"`
	AppName     string         `json:"app_name,omitempty"`
	OSVersion   string         `json:"ios_version,omitempty"`
	Status      Status         `json:"status"`
	Method      string         `json:"method,omitempty"`
	Result      map[string]any `json:"result,omitempty"`
	Error       string         `json:"error,omitempty"`
	StartedAt   time.Time      `json:"started_at"`
	CompletedAt *time.Time     `json:"completed_at,omitempty"`
}
