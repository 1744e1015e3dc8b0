package rak811

import (
	"fmt"

	"i4.energy/across/rak811gw/at"
)

// BufferSize is the capacity of the parse buffer in bytes.
const BufferSize = 256

// buffer accumulates received bytes until they form a complete reply.
type buffer struct {
	data [BufferSize]byte
	n    int
}

// append adds one byte, failing rather than dropping it when full.
func (b *buffer) append(c byte) error {
	if b.n == len(b.data) {
		return fmt.Errorf("%w: %w", ErrRead, ErrBufferFull)
	}
	b.data[b.n] = c
	b.n++
	return nil
}

// parse decodes the first buffered message without consuming it. n is the
// length to pass to consume once the caller has taken the message, or the
// length of a malformed line to drop on a syntax error. ErrIncomplete means
// more bytes are needed.
func (b *buffer) parse() (resp at.Response, n int, err error) {
	return at.Parse(b.data[:b.n])
}

// consume drops the first n bytes and moves any remainder, the start of the
// next message, to the front.
func (b *buffer) consume(n int) {
	b.n = copy(b.data[:], b.data[n:b.n])
}

func (b *buffer) len() int { return b.n }

func (b *buffer) reset() { b.n = 0 }
