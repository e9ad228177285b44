package ft

import (
	"errors"
	"strings"

	"github.com/kailas-cloud/ftkit/pkg/reply"
)

// Sentinel errors for search commands.
var (
	ErrIndexNotFound   = errors.New("ft: index not found")
	ErrIndexExists     = errors.New("ft: index already exists")
	ErrUnexpectedReply = errors.New("ft: unexpected reply")
)

// Op constants are the command names used for error context.
const (
	OpCreate      = "FT.CREATE"
	OpAlter       = "FT.ALTER"
	OpDropIndex   = "FT.DROPINDEX"
	OpInfo        = "FT.INFO"
	OpList        = "FT._LIST"
	OpSearch      = "FT.SEARCH"
	OpAggregate   = "FT.AGGREGATE"
	OpCursorRead  = "FT.CURSOR READ"
	OpCursorDel   = "FT.CURSOR DEL"
	OpExplain     = "FT.EXPLAIN"
	OpAliasAdd    = "FT.ALIASADD"
	OpAliasUpdate = "FT.ALIASUPDATE"
	OpAliasDel    = "FT.ALIASDEL"
	OpTagVals     = "FT.TAGVALS"
	OpSugAdd      = "FT.SUGADD"
	OpSugGet      = "FT.SUGGET"
	OpSugDel      = "FT.SUGDEL"
	OpSugLen      = "FT.SUGLEN"
	OpSynUpdate   = "FT.SYNUPDATE"
	OpSynDump     = "FT.SYNDUMP"
	OpSpellCheck  = "FT.SPELLCHECK"
	OpDictAdd     = "FT.DICTADD"
	OpDictDel     = "FT.DICTDEL"
	OpDictDump    = "FT.DICTDUMP"
	OpConfigGet   = "FT.CONFIG GET"
	OpConfigSet   = "FT.CONFIG SET"
)

// Error wraps an underlying error with the command name for diagnostics.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }

// ConfigError is a server rejection of a runtime configuration option or value.
type ConfigError struct {
	Option string
	Value  string
	Err    error
}

func (e *ConfigError) Error() string {
	if e.Value == "" {
		return "ft: config " + e.Option + ": " + e.Err.Error()
	}
	return "ft: config " + e.Option + "=" + e.Value + ": " + e.Err.Error()
}

func (e *ConfigError) Unwrap() error { return e.Err }

// isServerErr checks if err is a server error containing substr (case-insensitive).
func isServerErr(err error, substr string) bool {
	se, ok := reply.IsServerError(err)
	if !ok {
		return false
	}
	return strings.Contains(strings.ToLower(se.Message), substr)
}

// classify maps well-known server errors onto sentinels and wraps the rest.
func classify(op string, err error) error {
	switch {
	case isServerErr(err, "unknown index name"), isServerErr(err, "no such index"):
		return ErrIndexNotFound
	case isServerErr(err, "index already exists"):
		return ErrIndexExists
	default:
		return &Error{Op: op, Err: err}
	}
}
