package storage

type storageError string

const (
	ErrNotFound          = storageError("not found")
	ErrInvalidTransition = storageError("invalid session state transition")
)

func (e storageError) Error() string {
	return string(e)
}
