// Package natsio implements the enablement capability over a NATS
// request/reply channel. A device agent subscribed to its enable subject
// performs the actual on-device work and answers with a reply document.
package natsio

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	nats "github.com/nats-io/nats.go"
	"github.com/pkg/errors"

	"github.com/sidejit/jitd/pkg/enabler"
)

// Config contains the NATS connection settings
type Config struct {
	URL         string
	BaseSubject string
	Timeout     time.Duration
}

type reply struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

type natsEnabler struct {
	cfg *Config
	nc  *nats.Conn
}

// New connects to NATS and returns an enabler backed by it
func New(cfg *Config) (enabler.Interface, error) {
	if cfg.BaseSubject == "" {
		cfg.BaseSubject = "jit.v1"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}

	nc, err := nats.Connect(cfg.URL, nats.DrainTimeout(10*time.Second))
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to nats")
	}

	return &natsEnabler{
		cfg: cfg,
		nc:  nc,
	}, nil
}

func (e *natsEnabler) EnableJIT(ctx context.Context, req *enabler.Request) error {
	data, err := json.Marshal(req)
	if err != nil {
		return errors.Wrap(err, "failed to encode enable request")
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.cfg.Timeout)
		defer cancel()
	}

	subj := fmt.Sprintf("%s.device.%s.enable", e.cfg.BaseSubject, req.UDID)
	msg, err := e.nc.RequestWithContext(ctx, subj, data)
	if err != nil {
		return errors.Wrapf(err, "enable request to device %s failed", req.UDID)
	}

	var r reply
	if err := json.Unmarshal(msg.Data, &r); err != nil {
		return errors.Wrap(err, "failed to decode enable reply")
	}

	if !r.Success {
		if r.Error == "" {
			r.Error = "device reported failure"
		}
		return errors.New(r.Error)
	}

	return nil
}
