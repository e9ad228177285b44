// Package args provides a fixed-size argument buffer for command compilers.
//
// Callers compute the exact argument count up front, allocate once with New,
// and fill slots by index. Done panics if the count was wrong, which always
// indicates a bug in the caller's length formula.
package args

import (
	"fmt"
	"strconv"
)

// Buffer is a pre-sized argument slice with a write cursor.
type Buffer struct {
	buf []string
	pos int
}

// New allocates a buffer holding exactly n arguments.
func New(n int) *Buffer {
	return &Buffer{buf: make([]string, n)}
}

// Put writes values into the next slots.
func (b *Buffer) Put(values ...string) {
	for _, v := range values {
		b.buf[b.pos] = v
		b.pos++
	}
}

// PutInt writes an integer argument.
func (b *Buffer) PutInt(v int) {
	b.Put(strconv.Itoa(v))
}

// PutCounted writes len(values) followed by the values.
func (b *Buffer) PutCounted(values []string) {
	b.PutInt(len(values))
	b.Put(values...)
}

// Done returns the filled slice.
func (b *Buffer) Done() []string {
	if b.pos != len(b.buf) {
		panic(fmt.Sprintf("args: wrote %d of %d slots", b.pos, len(b.buf)))
	}
	return b.buf
}

// Flag returns n when on is true, else 0. Used in closed-form length sums.
func Flag(on bool, n int) int {
	if on {
		return n
	}
	return 0
}

// Float formats f in the shortest form that round-trips.
func Float(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
