package postgres

import (
	"database/sql"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/sidejit/jitd/pkg/blobstore"
)

// Client is a PostgreSQL-backed blob client. Every document lives in a single
// row of the blobs table and is read and overwritten as a whole.
type Client struct {
	db       *sqlx.DB
	stopCh   chan struct{}
	stopOnce sync.Once
}

// New connects to PostgreSQL and verifies the connection
func New(url string) (*Client, error) {
	db, err := sqlx.Open("postgres", url)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open database connection")
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to ping database")
	}

	return &Client{
		db:     db,
		stopCh: make(chan struct{}),
	}, nil
}

func (c *Client) Read(path string) ([]byte, error) {
	var data []byte
	err := c.db.Get(&data, "SELECT data FROM blobs WHERE path = $1", path)
	if err == sql.ErrNoRows {
		return nil, blobstore.ErrNotExist
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read blob %s", path)
	}

	return data, nil
}

func (c *Client) Write(path string, data []byte) error {
	query := `INSERT INTO blobs (path, data, updated_at) VALUES ($1, $2, $3)
		ON CONFLICT (path) DO UPDATE SET data = $2, updated_at = $3`

	if _, err := c.db.Exec(query, path, data, time.Now().UTC()); err != nil {
		return errors.Wrapf(err, "failed to write blob %s", path)
	}

	return nil
}

// Maintain periodically verifies the backend connection so stale credentials
// or dropped connections are renewed outside of request traffic. A failed
// check is logged and retried on the next cycle.
func (c *Client) Maintain(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := c.db.Ping(); err != nil {
				log.Errorf("blob backend keepalive failed: %v", err)
				continue
			}
			log.Debug("blob backend keepalive successful")
		case <-c.stopCh:
			return
		}
	}
}

// Close stops the maintain loop and closes the database connection
func (c *Client) Close() error {
	c.stopOnce.Do(func() { close(c.stopCh) })
	return c.db.Close()
}
