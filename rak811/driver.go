// Package rak811 drives a RAK811 LoRaWAN module over a non-blocking byte
// transport.
//
// A Driver is owned by exactly one execution context. It has no internal
// locking; callers sharing it between goroutines must serialize access
// themselves.
package rak811

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/brocaar/lorawan"
	"i4.energy/across/rak811gw/at"
)

// state tracks where the in-flight operation is.
type state uint8

const (
	stateIdle state = iota
	stateCommandSent
	stateAwaitingReply
)

func (s state) String() string {
	switch s {
	case stateCommandSent:
		return "command-sent"
	case stateAwaitingReply:
		return "awaiting-reply"
	default:
		return "idle"
	}
}

// Driver speaks the RAK811 AT protocol. Its operations write one command and
// then poll the transport until the module answers.
//
// Waiting has no timeout: if the module never replies, the call never
// returns. Callers that need bounded latency must wrap the driver.
type Driver struct {
	transport  Transport
	reset      ResetPin
	logger     *slog.Logger
	pollBudget int
	resetHold  time.Duration
	idle       func()

	buf   buffer
	queue queue
	cmd   at.CommandBuffer
	state state

	mode        at.Mode
	connectMode at.ConnectMode
	band        at.Region
}

// New returns a Driver talking over transport. reset may be nil, in which
// case Initialize falls back to a software restart.
func New(transport Transport, reset ResetPin, config Config) (*Driver, error) {
	if transport == nil {
		return nil, ErrNoTransport
	}
	if err := config.validate(); err != nil {
		return nil, err
	}
	config.setDefaults()

	return &Driver{
		transport:  transport,
		reset:      reset,
		logger:     config.logger,
		pollBudget: config.pollBudget,
		resetHold:  config.resetHold,
		idle:       config.idle,
		band:       at.RegionUnknown,
	}, nil
}

// Band returns the frequency plan last acknowledged or announced by the
// module.
func (d *Driver) Band() at.Region { return d.band }

// Mode returns the last acknowledged operating mode.
func (d *Driver) Mode() at.Mode { return d.mode }

// ConnectMode returns the activation method of the last successful join.
func (d *Driver) ConnectMode() at.ConnectMode { return d.connectMode }

// Pending returns the number of decoded replies waiting in the queue.
func (d *Driver) Pending() int { return d.queue.len() }

// Initialize pulses the reset line and waits for the module's start-up
// banner, which also reports the active frequency plan.
func (d *Driver) Initialize() error {
	if d.reset == nil {
		return d.Reset(at.Restart)
	}

	d.buf.reset()
	d.queue.reset()
	if err := d.reset.SetLow(); err != nil {
		return fmt.Errorf("drive reset low: %w", err)
	}
	if d.resetHold > 0 {
		time.Sleep(d.resetHold)
	}
	if err := d.reset.SetHigh(); err != nil {
		return fmt.Errorf("release reset: %w", err)
	}
	return d.awaitBanner("initialize")
}

// Reset restarts the module in software and waits for its start-up banner.
func (d *Driver) Reset(mode at.ResetMode) error {
	if err := d.expectOK("reset", at.Reset{Mode: mode}); err != nil {
		return err
	}
	return d.awaitBanner("reset")
}

func (d *Driver) awaitBanner(op string) error {
	resp, err := d.recvResponse()
	if err != nil {
		return err
	}
	banner, ok := resp.(at.Initialized)
	if !ok {
		return fmt.Errorf("%w: %w", ErrNotInitialized, unexpected(op, resp))
	}
	d.band = banner.Region
	d.logger.Info("Module initialized", "band", banner.Region, "lorawan", banner.Version)
	return nil
}

// FirmwareInfo queries the module firmware version.
func (d *Driver) FirmwareInfo() (at.FirmwareInfo, error) {
	resp, err := d.SendCommand(at.QueryFirmwareInfo{})
	if err != nil {
		return at.FirmwareInfo{}, err
	}
	info, ok := resp.(at.FirmwareInfo)
	if !ok {
		return at.FirmwareInfo{}, unexpected("firmware info", resp)
	}
	return info, nil
}

// SetBand selects the regional frequency plan.
func (d *Driver) SetBand(region at.Region) error {
	if err := d.expectOK("set band", at.SetBand{Region: region}); err != nil {
		return err
	}
	d.band = region
	return nil
}

// QueryBand asks the module for its active frequency plan.
func (d *Driver) QueryBand() (at.Region, error) {
	resp, err := d.SendCommand(at.GetBand{})
	if err != nil {
		return at.RegionUnknown, err
	}
	band, ok := resp.(at.LoraBand)
	if !ok {
		return at.RegionUnknown, unexpected("get band", resp)
	}
	d.band = band.Region
	return band.Region, nil
}

// SetMode selects LoRaWAN or point-to-point operation.
func (d *Driver) SetMode(mode at.Mode) error {
	if err := d.expectOK("set mode", at.SetMode{Mode: mode}); err != nil {
		return err
	}
	d.mode = mode
	return nil
}

// SetDeviceAddress sets the ABP device address.
func (d *Driver) SetDeviceAddress(addr lorawan.DevAddr) error {
	return d.setConfig("set device address", at.DevAddr(addr))
}

// SetDeviceEUI sets the device EUI used for OTAA.
func (d *Driver) SetDeviceEUI(eui lorawan.EUI64) error {
	return d.setConfig("set device EUI", at.DevEUI(eui))
}

// SetAppEUI sets the application EUI used for OTAA.
func (d *Driver) SetAppEUI(eui lorawan.EUI64) error {
	return d.setConfig("set app EUI", at.AppEUI(eui))
}

// SetAppKey sets the OTAA application key.
func (d *Driver) SetAppKey(key lorawan.AES128Key) error {
	return d.setConfig("set app key", at.AppKey(key))
}

// SetNetworkSessionKey sets the ABP network session key.
func (d *Driver) SetNetworkSessionKey(key lorawan.AES128Key) error {
	return d.setConfig("set network session key", at.NwkSKey(key))
}

// SetAppSessionKey sets the ABP application session key.
func (d *Driver) SetAppSessionKey(key lorawan.AES128Key) error {
	return d.setConfig("set app session key", at.AppSKey(key))
}

func (d *Driver) setConfig(op string, opt at.ConfigOption) error {
	return d.expectOK(op, at.SetConfig{Option: opt})
}

// GetConfig reads a configuration entry and returns it as the module
// prints it.
func (d *Driver) GetConfig(key at.ConfigKey) (string, error) {
	resp, err := d.SendCommand(at.GetConfig{Key: key})
	if err != nil {
		return "", err
	}
	value, ok := resp.(at.Value)
	if !ok {
		return "", unexpected("get config", resp)
	}
	return value.Text, nil
}

// Join activates the device on the network and waits for the join outcome.
func (d *Driver) Join(mode at.ConnectMode) error {
	if err := d.expectOK("join", at.Join{Mode: mode}); err != nil {
		return err
	}
	if err := d.expectEvent("join", at.JoinedSuccess); err != nil {
		return err
	}
	d.connectMode = mode
	d.logger.Info("Joined network", "mode", mode)
	return nil
}

// Send transmits payload on port and waits for the transmit outcome matching
// qos.
func (d *Driver) Send(qos at.QoS, port uint8, payload []byte) error {
	if len(payload) > at.MaxPayload {
		return fmt.Errorf("%w: %d bytes, limit is %d", ErrPayloadTooLarge, len(payload), at.MaxPayload)
	}
	if err := d.expectOK("send", at.Send{QoS: qos, Port: port, Payload: payload}); err != nil {
		return err
	}
	want := at.TxUnconfirmed
	if qos == at.Confirmed {
		want = at.TxConfirmed
	}
	return d.expectEvent("send", want)
}

// Downlink describes a downlink taken by TryRecvAny.
type Downlink struct {
	Port uint8
	N    int
	RSSI int16
	SNR  int8
}

// TryRecv copies the payload of the oldest queued downlink for port into
// buf. It decodes at most one buffered message and never waits; it returns 0
// when no downlink for port is queued. An empty downlink is taken as well and
// also returns 0; use TryRecvAny to tell the two apart.
//
// Entries skipped while scanning are moved to the back of the queue, so the
// relative order of queued replies changes when a downlink is taken. A
// downlink larger than buf stays queued and ErrRead is returned.
func (d *Driver) TryRecv(port uint8, buf []byte) (int, error) {
	if err := d.Digest(); err != nil && !errors.Is(err, ErrQueueFull) {
		return 0, err
	}

	for i, n := 0, d.queue.len(); i < n; i++ {
		resp, _ := d.queue.dequeue()
		recv, ok := resp.(at.Recv)
		if !ok || recv.Event != at.RecvData || recv.Port != port {
			_ = d.queue.enqueue(resp)
			continue
		}
		if len(recv.Payload) > len(buf) {
			_ = d.queue.enqueue(resp)
			return 0, fmt.Errorf("%w: %w: %d byte downlink, %d byte buffer", ErrRead, ErrPayloadTooLarge, len(recv.Payload), len(buf))
		}
		if len(recv.Payload) == 0 {
			d.logger.Debug("Empty downlink taken", "port", port)
		}
		return copy(buf, recv.Payload), nil
	}
	return 0, nil
}

// TryRecvAny takes the oldest queued downlink on any port and copies its
// payload into buf. It reports false when no downlink is queued. Unlike
// TryRecv it leaves the order of the other queued replies untouched.
func (d *Driver) TryRecvAny(buf []byte) (Downlink, bool, error) {
	if err := d.Digest(); err != nil && !errors.Is(err, ErrQueueFull) {
		return Downlink{}, false, err
	}

	i, resp := d.queue.find(at.IsDownlink)
	if i < 0 {
		return Downlink{}, false, nil
	}
	recv := resp.(at.Recv)
	if len(recv.Payload) > len(buf) {
		return Downlink{}, false, fmt.Errorf("%w: %w: %d byte downlink, %d byte buffer", ErrRead, ErrPayloadTooLarge, len(recv.Payload), len(buf))
	}
	d.queue.remove(i)
	return Downlink{
		Port: recv.Port,
		N:    copy(buf, recv.Payload),
		RSSI: recv.RSSI,
		SNR:  recv.SNR,
	}, true, nil
}

// Process moves every byte the transport has ready into the parse buffer.
// It returns as soon as the transport would block.
func (d *Driver) Process() error {
	for {
		c, err := d.transport.ReadByte()
		if errors.Is(err, ErrWouldBlock) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("%w: %w", ErrRead, err)
		}
		if err := d.buf.append(c); err != nil {
			return err
		}
	}
}

// Digest decodes at most one complete message from the parse buffer and
// queues it. An unrecognized line is dropped. When the queue is full the
// message stays buffered and ErrRead wrapping ErrQueueFull is returned.
func (d *Driver) Digest() error {
	resp, n, err := d.buf.parse()
	switch {
	case errors.Is(err, at.ErrIncomplete):
		return nil
	case errors.Is(err, at.ErrSyntax):
		d.logger.Warn("Dropping unrecognized line", "error", err)
		d.buf.consume(n)
		return nil
	case err != nil:
		return fmt.Errorf("%w: %w", ErrRead, err)
	}

	if d.queue.full() {
		return fmt.Errorf("%w: %w", ErrRead, ErrQueueFull)
	}
	d.buf.consume(n)
	d.logger.Debug("RX", "response", resp.String(), "buffered", d.buf.len())
	return d.queue.enqueue(resp)
}

// SendCommand writes cmd and returns the first reply that is not a queued
// downlink. It panics if cmd does not fit a command buffer.
func (d *Driver) SendCommand(cmd at.Command) (at.Response, error) {
	at.Encode(cmd, &d.cmd)
	d.logger.Debug("TX", "command", d.cmd.String(), "length", d.cmd.Len())

	for _, c := range d.cmd.Bytes() {
		if err := d.write(c); err != nil {
			return nil, err
		}
	}
	for i := 0; i < len(at.CRLF); i++ {
		if err := d.write(at.CRLF[i]); err != nil {
			return nil, err
		}
	}
	if err := d.transport.Flush(); err != nil {
		return nil, fmt.Errorf("%w: flush: %w", ErrWrite, err)
	}
	d.setState(stateCommandSent)

	return d.recvResponse()
}

// write sends one byte. A busy transport is flushed once before giving up.
func (d *Driver) write(c byte) error {
	err := d.transport.WriteByte(c)
	if errors.Is(err, ErrWouldBlock) {
		if ferr := d.transport.Flush(); ferr != nil {
			return fmt.Errorf("%w: flush: %w", ErrWrite, ferr)
		}
		err = d.transport.WriteByte(c)
	}
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	return nil
}

// recvResponse polls until a reply other than a downlink is queued.
// Downlinks stay queued for TryRecv.
func (d *Driver) recvResponse() (at.Response, error) {
	d.setState(stateAwaitingReply)
	defer d.setState(stateIdle)

	for {
		if resp, ok := d.queue.take(isReply); ok {
			return resp, nil
		}
		for i := 0; i < d.pollBudget; i++ {
			if err := d.Process(); err != nil {
				return nil, err
			}
		}
		if err := d.Digest(); err != nil {
			return nil, err
		}
		d.idle()
	}
}

func isReply(r at.Response) bool { return !at.IsDownlink(r) }

func (d *Driver) expectOK(op string, cmd at.Command) error {
	resp, err := d.SendCommand(cmd)
	if err != nil {
		return err
	}
	if _, ok := resp.(at.Ok); !ok {
		return unexpected(op, resp)
	}
	return nil
}

func (d *Driver) expectEvent(op string, event at.EventCode) error {
	resp, err := d.recvResponse()
	if err != nil {
		return err
	}
	if recv, ok := resp.(at.Recv); !ok || recv.Event != event {
		return unexpected(op, resp)
	}
	return nil
}

func (d *Driver) setState(s state) {
	if d.state != s {
		d.logger.Debug("State change", "from", d.state, "to", s)
		d.state = s
	}
}
