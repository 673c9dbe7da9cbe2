package storage

import (
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when the named file does not exist.
	ErrNotFound = errors.New("storage: file not found")
	// ErrInvalidName is returned when a file name would escape the
	// store's base directory.
	ErrInvalidName = errors.New("storage: invalid file name")
)

// FileStore is the persistence contract shared by the harvesters and the
// read services. Implementations are single-file atomic; there are no
// cross-file transactions.
type FileStore interface {
	Read(name string) ([]byte, error)
	Write(name string, data []byte) error
	Exists(name string) (bool, error)
	Delete(name string) error
	LastModified(name string) (time.Time, error)
}
