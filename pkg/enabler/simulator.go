package enabler

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
)

// Simulator is a local stand-in for the real device control channel. It
// pretends every enablement succeeds after a short processing delay.
type Simulator struct {
	// Latency simulates the device round trip.
	Latency time.Duration

	// Err, when set, makes every attempt fail. Used in tests.
	Err error
}

// NewSimulator creates a simulator with a one second processing delay,
// matching the behavior of a fast local device interaction.
func NewSimulator() *Simulator {
	return &Simulator{Latency: time.Second}
}

func (s *Simulator) EnableJIT(ctx context.Context, req *Request) error {
	log.WithFields(log.Fields{
		"udid":      req.UDID,
		"bundle_id": req.BundleID,
	}).Info("Simulating JIT enablement")

	select {
	case <-time.After(s.Latency):
	case <-ctx.Done():
		return ctx.Err()
	}

	return s.Err
}
