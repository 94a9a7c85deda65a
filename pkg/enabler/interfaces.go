// Package enabler defines the external device enablement capability. The core
// never talks to a device directly; it hands a request to an implementation of
// Interface and interprets the error result.
package enabler

import "context"

// Request describes one JIT enablement attempt against a device
type Request struct {
	UDID      string            `json:"udid"`
	BundleID  string            `json:"bundle_id"`
	OSVersion string            `json:"ios_version,omitempty"`
	AppInfo   map[string]string `json:"app_info,omitempty"`
}

// Interface is implemented by the device enablement backends
type Interface interface {
	// EnableJIT performs the enablement on the device. It blocks until the
	// device interaction finished, failed, or ctx expired.
	EnableJIT(ctx context.Context, req *Request) error
}
