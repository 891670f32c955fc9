// Package elementpath builds dotted element paths and keeps them unique within a
// single document.
package elementpath

import (
	"strconv"
	"sync"
	"unicode"
	"unicode/utf8"
)

// Builder builds path strings in a reusable byte buffer.
type Builder struct {
	buf []byte
}

var builderPool = sync.Pool{
	New: func() any {
		return &Builder{
			buf: make([]byte, 0, 128),
		}
	},
}

// AcquireBuilder gets a Builder from the pool.
// Call Release() when done to return it to the pool.
func AcquireBuilder() *Builder {
	b := builderPool.Get().(*Builder)
	b.Reset()
	return b
}

// Release returns the Builder to the pool.
func (b *Builder) Release() {
	if b == nil {
		return
	}
	// Don't return oversized buffers to the pool
	if cap(b.buf) <= 4096 {
		builderPool.Put(b)
	}
}

// Reset clears the buffer without deallocating.
func (b *Builder) Reset() {
	b.buf = b.buf[:0]
}

// Len returns the current length of the path.
func (b *Builder) Len() int {
	return len(b.buf)
}

// WriteString appends s verbatim.
func (b *Builder) WriteString(s string) {
	b.buf = append(b.buf, s...)
}

// AppendSegment appends a segment with a leading dot if the buffer is not empty.
func (b *Builder) AppendSegment(seg string) {
	if len(b.buf) > 0 {
		b.buf = append(b.buf, '.')
	}
	b.buf = append(b.buf, seg...)
}

// AppendSuffix appends a numeric collision suffix.
func (b *Builder) AppendSuffix(n int) {
	b.buf = strconv.AppendInt(b.buf, int64(n), 10)
}

// Truncate shortens the buffer to n bytes.
func (b *Builder) Truncate(n int) {
	if n < len(b.buf) {
		b.buf = b.buf[:n]
	}
}

// String returns the built path.
func (b *Builder) String() string {
	return string(b.buf)
}

// Join returns parent + "." + seg, or seg when parent is empty.
func Join(parent, seg string) string {
	if parent == "" {
		return seg
	}
	b := AcquireBuilder()
	defer b.Release()
	b.WriteString(parent)
	b.AppendSegment(seg)
	return b.String()
}

// LowerCamel lower-cases the first character of name.
func LowerCamel(name string) string {
	r, size := utf8.DecodeRuneInString(name)
	if r == utf8.RuneError || unicode.IsLower(r) {
		return name
	}
	return string(unicode.ToLower(r)) + name[size:]
}
