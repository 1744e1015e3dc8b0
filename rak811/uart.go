package rak811

import (
	"tinygo.org/x/drivers"
)

// UART is a Transport over an on-target UART, such as tinygo's
// *machine.UART.
type UART struct {
	bus drivers.UART
	one [1]byte
}

// NewUART wraps bus.
func NewUART(bus drivers.UART) *UART {
	return &UART{bus: bus}
}

// ReadByte implements Transport.
func (u *UART) ReadByte() (byte, error) {
	if u.bus.Buffered() == 0 {
		return 0, ErrWouldBlock
	}
	n, err := u.bus.Read(u.one[:])
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, ErrWouldBlock
	}
	return u.one[0], nil
}

// WriteByte implements Transport. UART writes go straight to the
// peripheral.
func (u *UART) WriteByte(c byte) error {
	u.one[0] = c
	_, err := u.bus.Write(u.one[:])
	return err
}

// Flush implements Transport. Writes are not buffered, so there is nothing
// to push.
func (u *UART) Flush() error {
	return nil
}
