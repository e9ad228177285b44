// Package ftkit is the typed entry point: it connects to a search server and
// binds Go struct types to indexes whose schema is inferred from struct tags.
package ftkit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	dbRedis "github.com/kailas-cloud/ftkit/internal/db/redis"
	"github.com/kailas-cloud/ftkit/pkg/ft"
	"github.com/kailas-cloud/ftkit/pkg/mapper"
)

const defaultReadinessTimeout = 10 * time.Second

// Client is the ftkit SDK entry point. It embeds the full command surface of
// ft.Client.
type Client struct {
	*ft.Client
	exec     ft.Executor
	store    *dbRedis.Store
	registry *mapper.Registry
}

// Connect creates a Client backed by a Redis connection and waits until the
// server answers.
func Connect(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := newClientConfig(opts)
	if len(cfg.addrs) == 0 {
		return nil, errors.New("ftkit: server address required (use WithRedis)")
	}

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.addrs,
		Username: cfg.username,
		Password: cfg.password,
		DB:       cfg.db,
	}, cfg.logger)
	if err != nil {
		return nil, fmt.Errorf("ftkit: create redis store: %w", err)
	}

	if err := store.WaitForReady(ctx, cfg.readinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("ftkit: server not ready: %w", err)
	}

	c := newClient(store, cfg)
	c.store = store
	return c, nil
}

// NewClient creates a Client over any Executor. The caller owns the
// executor's lifecycle.
func NewClient(exec ft.Executor, opts ...Option) *Client {
	return newClient(exec, newClientConfig(opts))
}

func newClientConfig(opts []Option) *clientConfig {
	cfg := &clientConfig{readinessTimeout: defaultReadinessTimeout}
	for _, o := range opts {
		o(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = zap.NewNop()
	}
	if cfg.registry == nil {
		cfg.registry = mapper.NewRegistry()
	}
	return cfg
}

func newClient(exec ft.Executor, cfg *clientConfig) *Client {
	return &Client{
		Client:   ft.New(exec, ft.WithLogger(cfg.logger)),
		exec:     exec,
		registry: cfg.registry,
	}
}

// Registry returns the mapping registry used by typed indexes.
func (c *Client) Registry() *mapper.Registry {
	return c.registry
}

// Executor returns the underlying executor for commands outside the search
// command set, such as JSON.SET.
func (c *Client) Executor() ft.Executor {
	return c.exec
}

// Close releases the connection opened by Connect. It is a no-op for clients
// built with NewClient.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks server connectivity.
func (c *Client) Ping(ctx context.Context) error {
	if c.store == nil {
		return errors.New("ftkit: ping requires a client created by Connect")
	}
	if err := c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}
