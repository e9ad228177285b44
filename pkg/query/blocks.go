package query

import (
	"strconv"
	"sync"

	"github.com/kailas-cloud/ftkit/internal/args"
)

// Summarize configures the SUMMARIZE block. Zero values omit their clause.
// The compiled arguments are cached after the first call to Args, so the
// value must not be changed afterwards.
type Summarize struct {
	Fields    []string
	Frags     int
	Len       int
	Separator string

	once sync.Once
	args []string
}

// Args returns the SUMMARIZE block arguments.
func (s *Summarize) Args() []string {
	s.once.Do(func() {
		n := 1 +
			args.Flag(len(s.Fields) > 0, 2+len(s.Fields)) +
			args.Flag(s.Frags > 0, 2) +
			args.Flag(s.Len > 0, 2) +
			args.Flag(s.Separator != "", 2)

		b := args.New(n)
		b.Put("SUMMARIZE")
		if len(s.Fields) > 0 {
			b.Put("FIELDS")
			b.PutCounted(s.Fields)
		}
		if s.Frags > 0 {
			b.Put("FRAGS", strconv.Itoa(s.Frags))
		}
		if s.Len > 0 {
			b.Put("LEN", strconv.Itoa(s.Len))
		}
		if s.Separator != "" {
			b.Put("SEPARATOR", s.Separator)
		}
		s.args = b.Done()
	})
	return s.args
}

// Highlight configures the HIGHLIGHT block. Tags are emitted only when both
// are set. Args is cached like Summarize.
type Highlight struct {
	Fields   []string
	OpenTag  string
	CloseTag string

	once sync.Once
	args []string
}

func (h *Highlight) tagged() bool { return h.OpenTag != "" && h.CloseTag != "" }

// Args returns the HIGHLIGHT block arguments.
func (h *Highlight) Args() []string {
	h.once.Do(func() {
		n := 1 +
			args.Flag(len(h.Fields) > 0, 2+len(h.Fields)) +
			args.Flag(h.tagged(), 3)

		b := args.New(n)
		b.Put("HIGHLIGHT")
		if len(h.Fields) > 0 {
			b.Put("FIELDS")
			b.PutCounted(h.Fields)
		}
		if h.tagged() {
			b.Put("TAGS", h.OpenTag, h.CloseTag)
		}
		h.args = b.Done()
	})
	return h.args
}
