package at

import (
	"strconv"

	"github.com/brocaar/lorawan"
)

// Region is a LoRaWAN regional frequency plan.
type Region uint8

const (
	EU868 Region = iota
	US915
	AU915
	KR920
	AS923
	IN865
	// RegionUnknown represents a region token the driver does not know.
	RegionUnknown
)

var regionTokens = [...]string{
	EU868: "EU868",
	US915: "US915",
	AU915: "AU915",
	KR920: "KR920",
	AS923: "AS923",
	IN865: "IN865",
}

// String returns the wire token of the region.
func (r Region) String() string {
	if r < RegionUnknown {
		return regionTokens[r]
	}
	return "UNKNOWN"
}

// ParseRegion maps a wire token to a Region. Tokens outside the table map to
// RegionUnknown.
func ParseRegion(token string) Region {
	for r, t := range regionTokens {
		if t == token {
			return Region(r)
		}
	}
	return RegionUnknown
}

// MarshalText implements encoding.TextMarshaler.
func (r Region) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *Region) UnmarshalText(text []byte) error {
	*r = ParseRegion(string(text))
	return nil
}

// Mode selects between LoRaWAN and point-to-point operation.
type Mode uint8

const (
	ModeWAN Mode = 0
	ModeP2P Mode = 1
)

func (m Mode) String() string {
	if m == ModeP2P {
		return "P2P"
	}
	return "WAN"
}

// ConnectMode is the network activation method.
type ConnectMode uint8

const (
	OTAA ConnectMode = iota
	ABP
)

func (c ConnectMode) String() string {
	if c == ABP {
		return "abp"
	}
	return "otaa"
}

// ParseConnectMode maps "abp" to ABP and anything else to OTAA.
func ParseConnectMode(token string) ConnectMode {
	if token == "abp" {
		return ABP
	}
	return OTAA
}

// MarshalText implements encoding.TextMarshaler.
func (c ConnectMode) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *ConnectMode) UnmarshalText(text []byte) error {
	*c = ParseConnectMode(string(text))
	return nil
}

// ResetMode selects what the module does on a software reset.
type ResetMode uint8

const (
	Restart ResetMode = 0
	Reload  ResetMode = 1
)

func (m ResetMode) String() string {
	if m == Reload {
		return "reload"
	}
	return "restart"
}

// QoS is the uplink delivery guarantee.
type QoS uint8

const (
	Unconfirmed QoS = 0
	Confirmed   QoS = 1
)

func (q QoS) String() string {
	if q == Confirmed {
		return "confirmed"
	}
	return "unconfirmed"
}

// EventCode tags an at+recv notification.
type EventCode uint8

const (
	RecvData         EventCode = 0
	TxConfirmed      EventCode = 1
	TxUnconfirmed    EventCode = 2
	JoinedSuccess    EventCode = 3
	JoinedFailed     EventCode = 4
	TxTimeout        EventCode = 5
	Rx2Timeout       EventCode = 6
	DownlinkRepeated EventCode = 7
	WakeUp           EventCode = 8
	P2PTxComplete    EventCode = 9
	EventUnknown     EventCode = 100
)

var eventNames = map[EventCode]string{
	RecvData:         "RecvData",
	TxConfirmed:      "TxConfirmed",
	TxUnconfirmed:    "TxUnconfirmed",
	JoinedSuccess:    "JoinedSuccess",
	JoinedFailed:     "JoinedFailed",
	TxTimeout:        "TxTimeout",
	Rx2Timeout:       "Rx2Timeout",
	DownlinkRepeated: "DownlinkRepeated",
	WakeUp:           "WakeUp",
	P2PTxComplete:    "P2PTxComplete",
}

func (e EventCode) String() string {
	if name, ok := eventNames[e]; ok {
		return name
	}
	return "Unknown(" + strconv.Itoa(int(e)) + ")"
}

// eventCode maps a numeric wire code to an EventCode.
func eventCode(n uint8) EventCode {
	if _, ok := eventNames[EventCode(n)]; ok {
		return EventCode(n)
	}
	return EventUnknown
}

// ConfigKey names a module configuration entry.
type ConfigKey uint8

const (
	KeyDevAddr ConfigKey = iota
	KeyDevEUI
	KeyAppEUI
	KeyAppKey
	KeyNwkSKey
	KeyAppSKey
)

var configKeyTokens = [...]string{
	KeyDevAddr: "dev_addr",
	KeyDevEUI:  "dev_eui",
	KeyAppEUI:  "app_eui",
	KeyAppKey:  "app_key",
	KeyNwkSKey: "nwks_key",
	KeyAppSKey: "apps_key",
}

// String returns the wire token of the key.
func (k ConfigKey) String() string {
	if int(k) < len(configKeyTokens) {
		return configKeyTokens[k]
	}
	return "unknown"
}

// ParseConfigKey maps a wire token to a ConfigKey.
func ParseConfigKey(token string) (ConfigKey, bool) {
	for k, t := range configKeyTokens {
		if t == token {
			return ConfigKey(k), true
		}
	}
	return 0, false
}

// ConfigOption is a configuration key together with its fixed-width value.
// The value is copied in, so the caller's array may be reused right away.
type ConfigOption struct {
	key   ConfigKey
	n     uint8
	value [16]byte
}

func newOption(key ConfigKey, b []byte) ConfigOption {
	o := ConfigOption{key: key, n: uint8(len(b))}
	copy(o.value[:], b)
	return o
}

// DevAddr returns the option setting the 4 byte device address.
func DevAddr(addr lorawan.DevAddr) ConfigOption { return newOption(KeyDevAddr, addr[:]) }

// DevEUI returns the option setting the 8 byte device EUI.
func DevEUI(eui lorawan.EUI64) ConfigOption { return newOption(KeyDevEUI, eui[:]) }

// AppEUI returns the option setting the 8 byte application EUI.
func AppEUI(eui lorawan.EUI64) ConfigOption { return newOption(KeyAppEUI, eui[:]) }

// AppKey returns the option setting the 16 byte OTAA application key.
func AppKey(key lorawan.AES128Key) ConfigOption { return newOption(KeyAppKey, key[:]) }

// NwkSKey returns the option setting the 16 byte ABP network session key.
func NwkSKey(key lorawan.AES128Key) ConfigOption { return newOption(KeyNwkSKey, key[:]) }

// AppSKey returns the option setting the 16 byte ABP application session key.
func AppSKey(key lorawan.AES128Key) ConfigOption { return newOption(KeyAppSKey, key[:]) }

// Key reports which entry the option sets.
func (o ConfigOption) Key() ConfigKey { return o.key }

// Bytes returns the option value, most significant byte first.
func (o ConfigOption) Bytes() []byte { return o.value[:o.n] }
