package memory

import "github.com/sidejit/jitd/pkg/storage"

// Store contains all memory-based sub-stores for managing the persistent models
type store struct {
	devices  *deviceStore
	sessions *sessionStore
}

// NewStore creates a new memory-based Storage interface
func NewStore() storage.Interface {
	return &store{
		devices:  newDeviceStore(),
		sessions: newSessionStore(),
	}
}

// Devices returns a sub-store for managing the Device model
func (s *store) Devices() storage.DeviceStore {
	return s.devices
}

// Sessions returns a sub-store for managing the Session model
func (s *store) Sessions() storage.SessionStore {
	return s.sessions
}
