package jit

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/sidejit/jitd/pkg/enabler"
)

// Outcome is the structured result of one enablement attempt. A failed
// attempt is a regular outcome, never an error.
type Outcome struct {
	Success      bool
	Method       string
	Token        string
	Instructions map[string]any
	Error        string
}

// Selector picks a strategy per attempt and delegates the device work to the
// enablement capability with a bounded timeout.
type Selector struct {
	enabler enabler.Interface
	secret  []byte
	timeout time.Duration
}

// NewSelector creates a selector. A zero timeout defaults to 30 seconds so a
// hung device interaction can never pin a worker indefinitely.
func NewSelector(e enabler.Interface, secret []byte, timeout time.Duration) *Selector {
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &Selector{
		enabler: e,
		secret:  secret,
		timeout: timeout,
	}
}

// Enable runs one enablement attempt. All capability failures, including the
// timeout, are converted into an unsuccessful outcome.
func (s *Selector) Enable(ctx context.Context, udid, bundleID, osVersion string, appInfo map[string]string) *Outcome {
	strat := SelectStrategy(osVersion)

	log.WithFields(log.Fields{
		"udid":      udid,
		"bundle_id": bundleID,
		"method":    strat.Method,
	}).Info("Running JIT enablement")

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	err := s.enabler.EnableJIT(ctx, &enabler.Request{
		UDID:      udid,
		BundleID:  bundleID,
		OSVersion: osVersion,
		AppInfo:   appInfo,
	})
	if err != nil {
		detail := err.Error()
		if ctx.Err() == context.DeadlineExceeded {
			detail = "timeout"
		}

		log.Warnf("JIT enablement for device %s failed: %s", udid, detail)

		return &Outcome{
			Success: false,
			Method:  strat.Method,
			Error:   detail,
		}
	}

	return &Outcome{
		Success:      true,
		Method:       strat.Method,
		Token:        s.attemptToken(udid, bundleID),
		Instructions: strat.Instructions(),
	}
}

// attemptToken derives the per-attempt authentication token every strategy
// shares. It is method metadata for the client, the core never verifies it.
func (s *Selector) attemptToken(udid, bundleID string) string {
	mac := hmac.New(sha256.New, s.secret)
	fmt.Fprintf(mac, "%s|%s|%d", udid, bundleID, time.Now().Unix())

	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}
