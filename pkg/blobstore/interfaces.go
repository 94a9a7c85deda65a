// Package blobstore defines the document-granular persistence backend used by
// the document storage implementation. Backends offer whole-document reads and
// overwrites only; there is no partial update and no native locking, so
// serializing concurrent read-modify-write cycles is the caller's job.
package blobstore

// Client is implemented by document blob backends
type Client interface {
	Read(path string) ([]byte, error)
	Write(path string, data []byte) error
}

type blobError string

// ErrNotExist is returned by Read when no document exists at the given path.
const ErrNotExist = blobError("blob does not exist")

func (e blobError) Error() string {
	return string(e)
}
