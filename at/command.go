package at

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Command is a typed AT command. The set of commands is closed; use Encode
// to render one into a CommandBuffer.
type Command interface {
	encode(b *CommandBuffer)
}

// QueryFirmwareInfo asks the module for its firmware version.
type QueryFirmwareInfo struct{}

// SetBand selects the regional frequency plan.
type SetBand struct {
	Region Region
}

// GetBand asks the module for the active frequency plan.
type GetBand struct{}

// SetMode selects LoRaWAN or point-to-point operation.
type SetMode struct {
	Mode Mode
}

// Join starts network activation.
type Join struct {
	Mode ConnectMode
}

// SetConfig writes one configuration entry.
type SetConfig struct {
	Option ConfigOption
}

// GetConfig reads one configuration entry.
type GetConfig struct {
	Key ConfigKey
}

// Reset restarts the module or reloads its default configuration.
type Reset struct {
	Mode ResetMode
}

// Send transmits an uplink on the given application port.
type Send struct {
	QoS     QoS
	Port    uint8
	Payload []byte
}

func (QueryFirmwareInfo) encode(b *CommandBuffer) {
	b.WriteString(CmdVersion)
}

func (c SetBand) encode(b *CommandBuffer) {
	b.WriteString(CmdBand + "=")
	b.WriteString(c.Region.String())
}

func (GetBand) encode(b *CommandBuffer) {
	b.WriteString(CmdBand)
}

func (c SetMode) encode(b *CommandBuffer) {
	b.WriteString(CmdMode + "=")
	b.writeUint(uint8(c.Mode))
}

func (c Join) encode(b *CommandBuffer) {
	b.WriteString(CmdJoin + "=")
	b.WriteString(c.Mode.String())
}

func (c SetConfig) encode(b *CommandBuffer) {
	b.WriteString(CmdSetConfig + "=")
	b.WriteString(c.Option.Key().String())
	b.writeByte(':')
	b.writeHex(c.Option.Bytes())
}

func (c GetConfig) encode(b *CommandBuffer) {
	b.WriteString(CmdGetConfig + "=")
	b.WriteString(c.Key.String())
}

func (c Reset) encode(b *CommandBuffer) {
	b.WriteString(CmdReset + "=")
	b.writeUint(uint8(c.Mode))
}

func (c Send) encode(b *CommandBuffer) {
	b.WriteString(CmdSend + "=")
	b.writeUint(uint8(c.QoS))
	b.writeByte(',')
	b.writeUint(c.Port)
	b.writeByte(',')
	b.writeHex(c.Payload)
}

// Encode renders cmd into b, replacing its previous contents. The body has
// no terminator. Encode panics if the body would not fit in CommandSize-1
// bytes; a truncated command must never reach the module.
func Encode(cmd Command, b *CommandBuffer) {
	b.Reset()
	cmd.encode(b)
}

// CommandBuffer is a fixed-capacity buffer holding one encoded command.
type CommandBuffer struct {
	buf [CommandSize]byte
	n   int
}

// WriteString appends s, panicking on overflow.
func (b *CommandBuffer) WriteString(s string) {
	b.grow(len(s))
	b.n += copy(b.buf[b.n:], s)
}

func (b *CommandBuffer) writeByte(c byte) {
	b.grow(1)
	b.buf[b.n] = c
	b.n++
}

// writeHex appends p as two lowercase hex digits per byte.
func (b *CommandBuffer) writeHex(p []byte) {
	b.grow(hex.EncodedLen(len(p)))
	b.n += hex.Encode(b.buf[b.n:], p)
}

func (b *CommandBuffer) writeUint(v uint8) {
	var tmp [3]byte
	digits := strconv.AppendUint(tmp[:0], uint64(v), 10)
	b.grow(len(digits))
	b.n += copy(b.buf[b.n:], digits)
}

func (b *CommandBuffer) grow(n int) {
	if b.n+n >= CommandSize {
		panic(fmt.Sprintf("at: command body exceeds %d bytes", CommandSize-1))
	}
}

// Bytes returns the encoded body. It aliases the buffer and is valid until
// the next write.
func (b *CommandBuffer) Bytes() []byte { return b.buf[:b.n] }

func (b *CommandBuffer) String() string { return string(b.buf[:b.n]) }

// Len returns the number of encoded bytes.
func (b *CommandBuffer) Len() int { return b.n }

// Reset empties the buffer.
func (b *CommandBuffer) Reset() { b.n = 0 }

// ErrMalformedCommand is returned by ParseCommand for lines that are not an
// AT command body.
var ErrMalformedCommand = errors.New("at: malformed command")

// CommandLine is an encoded command split into its name and arguments.
// "at+set_config=dev_eui:0011" splits into name "at+set_config" and
// arguments "dev_eui", "0011".
type CommandLine struct {
	Name string
	Args []string
}

// ParseCommand splits an encoded command body. A trailing CRLF is ignored.
func ParseCommand(line string) (CommandLine, error) {
	line = strings.TrimSuffix(line, CRLF)
	if !strings.HasPrefix(line, "at+") || strings.ContainsAny(line, "\r\n") {
		return CommandLine{}, fmt.Errorf("%w: %q", ErrMalformedCommand, line)
	}

	name, rest, hasArgs := strings.Cut(line, "=")
	cl := CommandLine{Name: name}
	if !hasArgs {
		return cl, nil
	}
	for _, field := range strings.Split(rest, ",") {
		if k, v, ok := strings.Cut(field, ":"); ok {
			cl.Args = append(cl.Args, k, v)
			continue
		}
		cl.Args = append(cl.Args, field)
	}
	return cl, nil
}
