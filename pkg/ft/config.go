package ft

import (
	"context"

	"github.com/kailas-cloud/ftkit/pkg/reply"
	"github.com/kailas-cloud/ftkit/pkg/result"
)

// ConfigGet returns runtime configuration values. option "*" returns all of them.
func (c *Client) ConfigGet(ctx context.Context, option string) (map[string]string, error) {
	n, err := c.do(ctx, OpConfigGet, option, option)
	if err != nil {
		return nil, configErr(OpConfigGet, option, "", err)
	}
	cfg, err := result.DecodeConfig(n)
	if err != nil {
		return nil, decodeErr(OpConfigGet, err)
	}
	return cfg, nil
}

// ConfigSet sets a runtime configuration option.
func (c *Client) ConfigSet(ctx context.Context, option, value string) error {
	n, err := c.do(ctx, OpConfigSet, option, option, value)
	if err != nil {
		return configErr(OpConfigSet, option, value, err)
	}
	return expectOK(OpConfigSet, n)
}

func configErr(op, option, value string, err error) error {
	if _, ok := reply.IsServerError(err); ok {
		return &ConfigError{Option: option, Value: value, Err: err}
	}
	return &Error{Op: op, Err: err}
}
