// Package ft issues search commands through an injected Executor and decodes
// their replies.
package ft

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/ftkit/pkg/reply"
)

// Executor sends one command and returns its reply tree. Server error replies
// must be returned as *reply.ServerError so they can be told apart from
// transport failures.
type Executor interface {
	Do(ctx context.Context, args ...string) (reply.Node, error)
}

// Client exposes the search command set.
type Client struct {
	exec Executor
	log  *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the command logger. Commands are logged at debug level.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// New creates a Client over exec.
func New(exec Executor, opts ...Option) *Client {
	c := &Client{exec: exec, log: zap.NewNop()}
	for _, o := range opts {
		o(c)
	}
	return c
}

// do runs op (which may be a two-word command) with args. target names the
// index or key for logging.
func (c *Client) do(ctx context.Context, op, target string, args ...string) (reply.Node, error) {
	cmd := strings.Fields(op)
	full := make([]string, 0, len(cmd)+len(args))
	full = append(full, cmd...)
	full = append(full, args...)

	c.log.Debug("ft command",
		zap.String("command", op),
		zap.String("target", target),
		zap.Int("args", len(args)),
	)

	n, err := c.exec.Do(ctx, full...)
	if err != nil {
		if se, ok := reply.IsServerError(err); ok {
			c.log.Warn("ft command rejected",
				zap.String("command", op),
				zap.String("target", target),
				zap.String("error", se.Message),
			)
		}
		return reply.Node{}, err
	}
	return n, nil
}

// run executes op and classifies any failure.
func (c *Client) run(ctx context.Context, op, target string, args ...string) (reply.Node, error) {
	n, err := c.do(ctx, op, target, args...)
	if err != nil {
		return reply.Node{}, classify(op, err)
	}
	return n, nil
}

// runOK executes op and expects an "OK" status reply.
func (c *Client) runOK(ctx context.Context, op, target string, args ...string) error {
	n, err := c.run(ctx, op, target, args...)
	if err != nil {
		return err
	}
	return expectOK(op, n)
}

func expectOK(op string, n reply.Node) error {
	if !n.IsOK() {
		return &Error{Op: op, Err: fmt.Errorf("%w: %s", ErrUnexpectedReply, n)}
	}
	return nil
}

func decodeErr(op string, err error) error {
	return &Error{Op: op, Err: err}
}
