// Package document implements the storage interface on top of a
// document-granular blob backend. Devices and sessions each live in one JSON
// document keyed by their identifier. The backend has no atomic partial
// update, so every mutation is a full read-modify-write cycle guarded by one
// mutex per document.
package document

import (
	"github.com/sidejit/jitd/pkg/blobstore"
	"github.com/sidejit/jitd/pkg/storage"
)

const (
	devicesDocument  = "devices.json"
	sessionsDocument = "sessions.json"
)

// Store contains all document-based sub-stores for managing the models
type store struct {
	devices  *deviceStore
	sessions *sessionStore
}

// NewStore creates a new document-based Storage interface on top of the
// given blob client
func NewStore(client blobstore.Client) storage.Interface {
	return &store{
		devices:  newDeviceStore(client),
		sessions: newSessionStore(client),
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
