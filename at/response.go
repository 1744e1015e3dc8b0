package at

import "fmt"

// Response is a decoded module reply. A nil Response means no complete
// message is available yet.
type Response interface {
	fmt.Stringer
	response()
}

// Ok is the bare "OK" acknowledgement.
type Ok struct{}

// Error is an "ERROR<code>" reply.
type Error struct {
	Code int8
}

// FirmwareInfo is the reply to QueryFirmwareInfo.
type FirmwareInfo struct {
	Major uint8
	Minor uint8
	Patch uint8
	Build uint8
}

// LoraBand is the reply to GetBand.
type LoraBand struct {
	Region Region
}

// Initialized is the banner the module prints after a reset.
type Initialized struct {
	Region Region
	// Version is the LoRaWAN specification version from the banner.
	Version string
}

// Recv is an asynchronous at+recv notification: a join or transmit outcome,
// or inbound application data.
type Recv struct {
	Event EventCode
	Port  uint8
	// RSSI and SNR are only reported alongside downlink data.
	RSSI int16
	SNR  int8
	// Len is the payload length announced on the wire.
	Len     uint8
	Payload []byte
}

// Value is an "OK<text>" reply carrying a configuration value.
type Value struct {
	Text string
}

func (Ok) response()           {}
func (Error) response()        {}
func (FirmwareInfo) response() {}
func (LoraBand) response()     {}
func (Initialized) response()  {}
func (Recv) response()         {}
func (Value) response()        {}

func (Ok) String() string { return OK }

func (e Error) String() string { return fmt.Sprintf("ERROR(%d)", e.Code) }

func (f FirmwareInfo) String() string {
	return fmt.Sprintf("%d.%d.%d.%d", f.Major, f.Minor, f.Patch, f.Build)
}

func (b LoraBand) String() string { return "LoraBand(" + b.Region.String() + ")" }

func (i Initialized) String() string { return "Initialized(" + i.Region.String() + ")" }

func (r Recv) String() string {
	return fmt.Sprintf("Recv(%s, port %d, %d bytes)", r.Event, r.Port, r.Len)
}

func (v Value) String() string { return fmt.Sprintf("Value(%q)", v.Text) }

// IsDownlink reports whether r is inbound application data.
func IsDownlink(r Response) bool {
	recv, ok := r.(Recv)
	return ok && recv.Event == RecvData
}
