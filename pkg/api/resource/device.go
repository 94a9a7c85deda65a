package resource

import "fmt"

// RegisterRequest is the wire representation of a device registration
type RegisterRequest struct {
	UDID        string `json:"udid"`
	DeviceName  string `json:"device_name"`
	DeviceModel string `json:"device_model"`
	IOSVersion  string `json:"ios_version"`
}

// RegisterResponse carries the issued bearer token back to the device
type RegisterResponse struct {
	Token   string `json:"token"`
	Message string `json:"message"`
}

// ValidateRegister checks the request and fills client-friendly defaults
func ValidateRegister(r *RegisterRequest) error {
	if r.UDID == "" {
		return fmt.Errorf("UDID required")
	}

	if r.DeviceName == "" {
		r.DeviceName = "Unknown Device"
	}

	return nil
}
