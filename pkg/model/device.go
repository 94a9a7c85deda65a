package model

import "time"

// Device is a model of the persistency layer
type Device struct {
	UDID         string    `json:"udid"`
	Name         string    `json:"device_name"`
	Model        string    `json:"device_model"`
	OSVersion    string    `json:"ios_version"`
	RegisteredAt time.Time `json:"registered_at"`
	LastActiveAt time.Time `json:"last_active"`
}
