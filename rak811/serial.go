package rak811

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.bug.st/serial"
)

// SerialDialer opens a RAK811 module attached to a host serial port.
type SerialDialer struct {
	PortName string
	BaudRate int
	// Mode overrides BaudRate and the 8N1 framing when set.
	Mode *serial.Mode
	// ReadTimeout bounds how long a read may wait on the port when nothing
	// is buffered. It defaults to one millisecond.
	ReadTimeout time.Duration
}

// Dial opens the port. The returned SerialPort is both the Transport and,
// through the DTR line, the ResetPin.
func (d SerialDialer) Dial(ctx context.Context) (*SerialPort, error) {
	if d.PortName == "" {
		return nil, ErrNoPortName
	}
	if ctx == nil {
		return nil, errors.New("rak811: context is nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	mode := d.Mode
	if mode == nil {
		baud := d.BaudRate
		if baud == 0 {
			baud = 115200
		}
		mode = &serial.Mode{
			BaudRate: baud,
			DataBits: 8,
			Parity:   serial.NoParity,
			StopBits: serial.OneStopBit,
		}
	}
	timeout := d.ReadTimeout
	if timeout <= 0 {
		timeout = time.Millisecond
	}

	port, err := serial.Open(d.PortName, mode)
	if err != nil {
		return nil, fmt.Errorf("open serial port %s: %w", d.PortName, err)
	}
	if err := port.SetReadTimeout(timeout); err != nil {
		port.Close()
		return nil, fmt.Errorf("set read timeout on %s: %w", d.PortName, err)
	}
	return newSerialPort(port), nil
}

// serialLine is the part of serial.Port a SerialPort uses.
type serialLine interface {
	io.ReadWriteCloser
	Drain() error
	SetDTR(dtr bool) error
}

// SerialPort is a Transport over a serial line. Reads are served from a
// small receive buffer refilled by short, timed port reads; writes are
// buffered until Flush.
type SerialPort struct {
	line serialLine

	rx    [64]byte
	rxPos int
	rxLen int

	tx    [64]byte
	txLen int
}

func newSerialPort(line serialLine) *SerialPort {
	return &SerialPort{line: line}
}

// ReadByte implements Transport.
func (p *SerialPort) ReadByte() (byte, error) {
	if p.rxPos == p.rxLen {
		n, err := p.line.Read(p.rx[:])
		if err != nil {
			return 0, err
		}
		if n == 0 {
			return 0, ErrWouldBlock
		}
		p.rxPos, p.rxLen = 0, n
	}
	c := p.rx[p.rxPos]
	p.rxPos++
	return c, nil
}

// WriteByte implements Transport.
func (p *SerialPort) WriteByte(c byte) error {
	if p.txLen == len(p.tx) {
		return ErrWouldBlock
	}
	p.tx[p.txLen] = c
	p.txLen++
	return nil
}

// Flush implements Transport. It returns once the port has transmitted
// everything.
func (p *SerialPort) Flush() error {
	for written := 0; written < p.txLen; {
		n, err := p.line.Write(p.tx[written:p.txLen])
		if err != nil {
			return err
		}
		written += n
	}
	p.txLen = 0
	return p.line.Drain()
}

// SetLow implements ResetPin. Asserting DTR pulls the adapter's DTR output,
// wired to the module's reset, low.
func (p *SerialPort) SetLow() error {
	return p.line.SetDTR(true)
}

// SetHigh implements ResetPin.
func (p *SerialPort) SetHigh() error {
	return p.line.SetDTR(false)
}

// Close closes the port.
func (p *SerialPort) Close() error {
	return p.line.Close()
}
