package rak811

//go:generate go tool mockgen -source=transport.go -destination=mock_transport.go -package=rak811

// Transport is a non-blocking byte link to a RAK811 module.
//
// ReadByte and WriteByte never wait: when nothing can be transferred right
// now they return ErrWouldBlock, any other error is a genuine transport
// failure. Typical implementations include host serial ports, on-target UARTs
// and in-memory fakes used for testing.
type Transport interface {
	// ReadByte returns the next received byte, or ErrWouldBlock when none is
	// ready.
	ReadByte() (byte, error)

	// WriteByte queues c for transmission, or returns ErrWouldBlock when the
	// transmit side is full and needs a Flush.
	WriteByte(c byte) error

	// Flush pushes all queued bytes out to the module.
	Flush() error
}

// ResetPin is the digital output wired to the module's reset line. The
// module is held in reset while the line is low.
type ResetPin interface {
	SetHigh() error
	SetLow() error
}

// DigitalOutput is a pin with infallible level setters. tinygo's
// machine.Pin satisfies it.
type DigitalOutput interface {
	High()
	Low()
}

type outputPin struct {
	pin DigitalOutput
}

// OutputPin adapts a DigitalOutput, such as a tinygo machine.Pin configured
// as output, to a ResetPin.
func OutputPin(pin DigitalOutput) ResetPin {
	return outputPin{pin: pin}
}

func (p outputPin) SetHigh() error {
	p.pin.High()
	return nil
}

func (p outputPin) SetLow() error {
	p.pin.Low()
	return nil
}
