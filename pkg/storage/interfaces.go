package storage

import (
	"time"

	"github.com/sidejit/jitd/pkg/model"
)

// Interface is implemented by the storage
type Interface interface {
	Devices() DeviceStore
	Sessions() SessionStore
}

// DeviceStore is responsible for managing the Device model
type DeviceStore interface {
	// Save upserts a device record. RegisteredAt of an existing record is
	// preserved, everything else is overwritten and LastActiveAt refreshed.
	Save(m *model.Device) error
	FindByUDID(udid string) (*model.Device, error)
	// Touch refreshes LastActiveAt. Returns ErrNotFound for unknown devices.
	Touch(udid string) error
	FetchAll() (map[string]model.Device, error)
	Delete(udid string) error
}

// SessionStore is responsible for managing the Session model
type SessionStore interface {
	// Create allocates a fresh session ID and stores the record with status
	// processing and StartedAt set to now.
	Create(m *model.Session) error
	FindByID(id string) (*model.Session, error)
	// Complete transitions processing -> completed. Any other starting state
	// returns ErrInvalidTransition.
	Complete(id, method string, result map[string]any) error
	// Fail transitions processing -> failed, recording the error detail.
	Fail(id, detail string) error
	FetchAllByUDID(udid string) ([]model.Session, error)
	FetchAll() (map[string]model.Session, error)
	// DeleteExpired removes every session started more than maxAge ago,
	// regardless of status, and returns the number of deleted sessions.
	DeleteExpired(maxAge time.Duration) (int, error)
}
