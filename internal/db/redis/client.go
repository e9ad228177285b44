// Package redis executes search commands over rueidis.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/rueidis"
	"go.uber.org/zap"

	"github.com/kailas-cloud/ftkit/internal/db"
	"github.com/kailas-cloud/ftkit/internal/metrics"
	"github.com/kailas-cloud/ftkit/pkg/reply"
)

// Compile-time check: Store implements db.Store.
var _ db.Store = (*Store)(nil)

// Config holds connection parameters for a Redis store.
type Config struct {
	Addrs    []string
	Username string
	Password string
	DB       int
}

// Store implements db.Store via rueidis.
type Store struct {
	client rueidis.Client
	log    *zap.Logger
}

// NewStore creates a Redis store via rueidis.
func NewStore(cfg Config, log *zap.Logger) (*Store, error) {
	if len(cfg.Addrs) == 0 {
		return nil, fmt.Errorf("addrs is required")
	}
	if log == nil {
		log = zap.NewNop()
	}

	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress:  cfg.Addrs,
		Username:     cfg.Username,
		Password:     cfg.Password,
		SelectDB:     cfg.DB,
		DisableCache: true,
		AlwaysRESP2:  true, // reply decoders expect RESP2 label/value arrays
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	return &Store{client: client, log: log}, nil
}

// Do sends args as one command. Server error replies are returned as
// *reply.ServerError; a nil reply is returned as a nil node.
func (s *Store) Do(ctx context.Context, args ...string) (reply.Node, error) {
	if len(args) == 0 {
		return reply.Node{}, errors.New("command is required")
	}

	start := time.Now()
	cmd := s.client.B().Arbitrary(args[0]).Args(args[1:]...).Build()
	msg, err := s.client.Do(ctx, cmd).ToMessage()
	elapsed := time.Since(start)

	if err != nil {
		if rueidis.IsRedisNil(err) {
			metrics.ObserveCommand(args[0], metrics.StatusOK, elapsed)
			return reply.Nil(), nil
		}
		if re, ok := rueidis.IsRedisErr(err); ok {
			metrics.ObserveCommand(args[0], metrics.StatusServerError, elapsed)
			return reply.Node{}, &reply.ServerError{Message: re.Error()}
		}
		metrics.ObserveCommand(args[0], metrics.StatusError, elapsed)
		return reply.Node{}, fmt.Errorf("%s: %w", args[0], err)
	}

	metrics.ObserveCommand(args[0], metrics.StatusOK, elapsed)
	n, err := toNode(&msg)
	if err != nil {
		return reply.Node{}, fmt.Errorf("%s: convert reply: %w", args[0], err)
	}
	return n, nil
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	cmd := s.client.B().Ping().Build()
	if err := s.client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Close shuts down the client.
func (s *Store) Close() {
	s.client.Close()
}

// WaitForReady polls Ping until the store responds or timeout expires.
func (s *Store) WaitForReady(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("timeout waiting for database: %w", ctx.Err())
		case <-ticker.C:
			if err := s.Ping(ctx); err == nil {
				s.log.Info("database ready")
				return nil
			}
		}
	}
}
