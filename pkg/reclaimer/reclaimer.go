// Package reclaimer sweeps abandoned sessions out of the store on a fixed
// period, independent of request traffic.
package reclaimer

import (
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/sidejit/jitd/pkg/storage"
)

// Reclaimer deletes sessions older than the retention window. A session still
// in processing after the window is treated as abandoned and reclaimed too.
type Reclaimer struct {
	store    storage.Interface
	interval time.Duration
	maxAge   time.Duration
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// New creates a reclaimer. Zero interval and maxAge fall back to an hourly
// sweep with a 24 hour retention window.
func New(store storage.Interface, interval, maxAge time.Duration) *Reclaimer {
	if interval == 0 {
		interval = time.Hour
	}
	if maxAge == 0 {
		maxAge = 24 * time.Hour
	}

	return &Reclaimer{
		store:    store,
		interval: interval,
		maxAge:   maxAge,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start runs the periodic sweep loop in a background goroutine
func (r *Reclaimer) Start() {
	go r.run()
}

// Stop terminates the sweep loop and waits for it to finish
func (r *Reclaimer) Stop() {
	close(r.stopCh)
	<-r.doneCh
}

func (r *Reclaimer) run() {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.Sweep()
		case <-r.stopCh:
			r.doneCh <- struct{}{}
			return
		}
	}
}

// Sweep runs a single reclamation pass. Errors are logged and swallowed so
// one failed sweep never prevents the next.
func (r *Reclaimer) Sweep() {
	count, err := r.store.Sessions().DeleteExpired(r.maxAge)
	if err != nil {
		log.Errorf("session sweep failed: %v", err)
		return
	}

	if count > 0 {
		log.Infof("Cleaned up %d old sessions", count)
	}
}
