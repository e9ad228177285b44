// Package db defines the connection-level contract of a search backend.
package db

import (
	"context"
	"time"

	"github.com/kailas-cloud/ftkit/pkg/ft"
)

// Store is a connected backend that executes search commands.
type Store interface {
	ft.Executor
	Pinger
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}
