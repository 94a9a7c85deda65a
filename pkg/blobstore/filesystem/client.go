package filesystem

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/sidejit/jitd/pkg/blobstore"
)

type client struct {
	dir string
}

// New creates a filesystem-backed blob client rooted at dir
func New(dir string) (blobstore.Client, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "failed to create data directory %s", dir)
	}

	return &client{dir: dir}, nil
}

func (c *client) Read(path string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(c.dir, path))
	if os.IsNotExist(err) {
		return nil, blobstore.ErrNotExist
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read blob %s", path)
	}

	return data, nil
}

func (c *client) Write(path string, data []byte) error {
	target := filepath.Join(c.dir, path)

	// Write to a temporary file first so a crashed write never leaves a
	// truncated document behind.
	tmp, err := os.CreateTemp(c.dir, ".blob-*")
	if err != nil {
		return errors.Wrapf(err, "failed to create temporary file for blob %s", path)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return errors.Wrapf(err, "failed to write blob %s", path)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return errors.Wrapf(err, "failed to close blob %s", path)
	}

	if err := os.Rename(tmp.Name(), target); err != nil {
		os.Remove(tmp.Name())
		return errors.Wrapf(err, "failed to replace blob %s", path)
	}

	return nil
}
