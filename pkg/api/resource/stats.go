package resource

import "github.com/sidejit/jitd/pkg/model"

// StatsResource carries aggregate counts only, never per-device or
// per-session detail
type StatsResource struct {
	RegisteredDevices int `json:"registered_devices"`
	TotalSessions     int `json:"total_sessions"`
	ActiveSessions    int `json:"active_sessions"`
	CompletedSessions int `json:"completed_sessions"`
	FailedSessions    int `json:"failed_sessions"`
}

func NewStats(devices map[string]model.Device, sessions map[string]model.Session) (out *StatsResource) {
	out = &StatsResource{
		RegisteredDevices: len(devices),
		TotalSessions:     len(sessions),
	}

	for _, m := range sessions {
		switch m.Status {
		case model.StatusProcessing:
			out.ActiveSessions++
		case model.StatusCompleted:
			out.CompletedSessions++
		case model.StatusFailed:
			out.FailedSessions++
		}
	}

	return // out
}
