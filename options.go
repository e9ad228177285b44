package ftkit

import (
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/ftkit/pkg/mapper"
	"github.com/kailas-cloud/ftkit/pkg/schema"
)

// Option configures a Client.
type Option func(*clientConfig)

type clientConfig struct {
	addrs            []string
	username         string
	password         string
	db               int
	readinessTimeout time.Duration
	logger           *zap.Logger
	registry         *mapper.Registry
}

// WithRedis sets the server addresses and password.
func WithRedis(password string, addrs ...string) Option {
	return func(c *clientConfig) {
		c.addrs = addrs
		c.password = password
	}
}

// WithUsername sets the ACL username.
func WithUsername(username string) Option {
	return func(c *clientConfig) {
		c.username = username
	}
}

// WithDB selects the logical database.
func WithDB(db int) Option {
	return func(c *clientConfig) {
		c.db = db
	}
}

// WithReadinessTimeout bounds how long Connect waits for the server.
func WithReadinessTimeout(d time.Duration) Option {
	return func(c *clientConfig) {
		c.readinessTimeout = d
	}
}

// WithLogger sets the logger for the connection and the command client.
func WithLogger(l *zap.Logger) Option {
	return func(c *clientConfig) {
		c.logger = l
	}
}

// WithRegistry shares a mapping registry between clients.
func WithRegistry(r *mapper.Registry) Option {
	return func(c *clientConfig) {
		c.registry = r
	}
}

// IndexOption configures a TypedIndex.
type IndexOption func(*indexConfig)

type indexConfig struct {
	prefix  string
	fields  []schema.Field
	dialect int
}

// WithPrefix overrides the key prefix, which defaults to "<name>:".
func WithPrefix(prefix string) IndexOption {
	return func(c *indexConfig) {
		c.prefix = prefix
	}
}

// WithFields appends fields that cannot be inferred from struct tags, such as
// vector fields. Tag the matching struct field `ft:"-"`.
func WithFields(fields ...schema.Field) IndexOption {
	return func(c *indexConfig) {
		c.fields = append(c.fields, fields...)
	}
}

// WithDialect sets the query dialect used by the index's searches.
func WithDialect(n int) IndexOption {
	return func(c *indexConfig) {
		c.dialect = n
	}
}
