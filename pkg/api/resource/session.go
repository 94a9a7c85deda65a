package resource

import (
	"sort"

	"github.com/sidejit/jitd/pkg/model"
)

// EnableRequest is the wire representation of a JIT enablement request
type EnableRequest struct {
	BundleID   string            `json:"bundle_id"`
	IOSVersion string            `json:"ios_version"`
	AppInfo    map[string]string `json:"app_info"`
}

// EnableResponse reports a successful enablement attempt
type EnableResponse struct {
	Status       string         `json:"status"`
	SessionID    string         `json:"session_id"`
	Message      string         `json:"message"`
	Token        string         `json:"token,omitempty"`
	Method       string         `json:"method,omitempty"`
	Instructions map[string]any `json:"instructions,omitempty"`
}

// SessionResource is the wire representation of a single session lookup
type SessionResource struct {
	Status      string `json:"status"`
	StartedAt   int64  `json:"started_at"`
	CompletedAt *int64 `json:"completed_at,omitempty"`
	BundleID    string `json:"bundle_id"`
	Method      string `json:"method,omitempty"`
}

type SessionListEntry struct {
	ID          string `json:"id"`
	BundleID    string `json:"bundle_id"`
	AppName     string `json:"app_name,omitempty"`
	Status      string `json:"status"`
	StartedAt   int64  `json:"started_at"`
	CompletedAt *int64 `json:"completed_at,omitempty"`
}

type SessionListResource struct {
	Sessions []*SessionListEntry `json:"sessions"`
}

func NewSession(m *model.Session) (out *SessionResource) {
	out = &SessionResource{
		Status:    string(m.Status),
		StartedAt: m.StartedAt.Unix(),
		BundleID:  m.BundleID,
		Method:    m.Method,
	}

	if m.CompletedAt != nil {
		out.CompletedAt = new(int64)
		*out.CompletedAt = m.CompletedAt.Unix()
	}

	return // out
}

func NewSessionList(models []model.Session) (out *SessionListResource) {
	out = &SessionListResource{
		Sessions: make([]*SessionListEntry, 0, len(models)),
	}

	for i := range models {
		m := &models[i]
		entry := &SessionListEntry{
			ID:        m.ID,
			BundleID:  m.BundleID,
			AppName:   m.AppName,
			Status:    string(m.Status),
			StartedAt: m.StartedAt.Unix(),
		}
		if m.CompletedAt != nil {
			entry.CompletedAt = new(int64)
			*entry.CompletedAt = m.CompletedAt.Unix()
		}
		out.Sessions = append(out.Sessions, entry)
	}

	// Most recent attempts first, ID as tie-breaker for a stable order
	sort.Slice(out.Sessions, func(i, j int) bool {
		if out.Sessions[i].StartedAt != out.Sessions[j].StartedAt {
			return out.Sessions[i].StartedAt > out.Sessions[j].StartedAt
		}
		return out.Sessions[i].ID < out.Sessions[j].ID
	})

	return // out
}
