// Package backend selects and constructs the record store.
package backend

import (
	"context"

	"moneypilot/internal/ports"
)

type CleanupFunc func() error

// BackendResult is a ready store plus the function releasing its resources.
type BackendResult struct {
	Store   ports.Store
	Cleanup CleanupFunc
	// Ping reports store health; nil for stores that are always available.
	Ping func(context.Context) error
}

// Close runs Cleanup when present.
func (r *BackendResult) Close() error {
	if r == nil || r.Cleanup == nil {
		return nil
	}
	return r.Cleanup()
}

type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

type Config struct {
	Type BackendType

	// sqlite
	SQLiteDBPath string

	// memory: directory holding the optional seed.json
	DataDirectory string
}

type BackendType string

const (
	SQLiteBackend BackendType = "sqlite"
	MemoryBackend BackendType = "memory"
)

func (bt BackendType) String() string {
	return string(bt)
}

func (bt BackendType) IsValid() bool {
	switch bt {
	case SQLiteBackend, MemoryBackend:
		return true
	default:
		return false
	}
}
