package rak811

import (
	"errors"
	"fmt"

	"i4.energy/across/rak811gw/at"
)

var (
	// ErrWrite is returned when the transport rejects a command byte, either
	// with an error or by staying busy after a flush.
	ErrWrite = errors.New("rak811: write error")

	// ErrRead is returned when reading from the module fails: a transport
	// read error, a full parse buffer or a full response queue. The
	// underlying cause is wrapped alongside it.
	ErrRead = errors.New("rak811: read error")

	// ErrNotInitialized is returned when the module does not announce itself
	// with its post-reset banner.
	ErrNotInitialized = errors.New("rak811: module not initialized")

	// ErrWouldBlock is returned by a Transport when no byte can be read or
	// written right now. It is routine flow control, never a failure.
	ErrWouldBlock = errors.New("rak811: operation would block")

	// ErrBufferFull is wrapped in ErrRead when the parse buffer cannot take
	// another byte.
	ErrBufferFull = errors.New("rak811: parse buffer full")

	// ErrQueueFull is wrapped in ErrRead when a decoded reply cannot be
	// queued. Nothing is lost: the reply stays buffered until the queue is
	// drained.
	ErrQueueFull = errors.New("rak811: response queue full")

	// ErrPayloadTooLarge is returned by Send for payloads longer than
	// at.MaxPayload, and wrapped in ErrRead by TryRecv when a downlink does
	// not fit the caller's buffer.
	ErrPayloadTooLarge = errors.New("rak811: payload too large")

	// ErrNoTransport is returned when a Driver is constructed without a
	// Transport.
	ErrNoTransport = errors.New("rak811: no transport configured")

	// ErrNoPortName is returned when a serial connection is requested
	// without a port name.
	ErrNoPortName = errors.New("rak811: serial port name is required")
)

// UnexpectedResponseError is returned when the module answers an operation
// with a reply of the wrong shape.
type UnexpectedResponseError struct {
	// Op names the driver operation that was waiting.
	Op string
	// Response is what the module sent instead.
	Response at.Response
}

func (e *UnexpectedResponseError) Error() string {
	return fmt.Sprintf("rak811: %s: unexpected response %v", e.Op, e.Response)
}

func unexpected(op string, resp at.Response) error {
	return &UnexpectedResponseError{Op: op, Response: resp}
}
