package main

import (
	"encoding/hex"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"i4.energy/across/rak811gw/at"
	"i4.energy/across/rak811gw/rak811"
)

// Radio is the module surface the HTTP server and the console use.
type Radio interface {
	FirmwareInfo() (at.FirmwareInfo, error)
	QueryBand() (at.Region, error)
	SetBand(region at.Region) error
	Join(mode at.ConnectMode) error
	Send(qos at.QoS, port uint8, payload []byte) error
	TryRecv(port uint8, buf []byte) (int, error)
	GetConfig(key at.ConfigKey) (string, error)
	Reset(mode at.ResetMode) error
	Status() Status
}

// Status is a snapshot of the module state.
type Status struct {
	Band        at.Region      `json:"band"`
	Mode        string         `json:"mode"`
	ConnectMode at.ConnectMode `json:"connect_mode"`
	Firmware    string         `json:"firmware,omitempty"`
	Pending     int            `json:"pending"`
}

// Downlink is a received application payload.
type Downlink struct {
	Port    uint8  `json:"port"`
	Payload string `json:"payload"`
}

// session serializes access to a single-owner driver.
type session struct {
	mu       sync.Mutex
	driver   *rak811.Driver
	logger   *slog.Logger
	firmware at.FirmwareInfo
	buf      [rak811.BufferSize]byte
}

func newSession(driver *rak811.Driver, logger *slog.Logger) *session {
	return &session{driver: driver, logger: logger}
}

// bringUp resets the module, applies the identities for the configured join
// mode and joins the network.
func (s *session) bringUp(cfg LoRaConfig, logger *slog.Logger) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	d := s.driver
	if err := d.Initialize(); err != nil {
		return fmt.Errorf("initialize: %w", err)
	}
	info, err := d.FirmwareInfo()
	if err != nil {
		return fmt.Errorf("query firmware: %w", err)
	}
	s.firmware = info
	logger.Info("Module ready", "firmware", info.String(), "band", d.Band())

	if err := d.SetMode(at.ModeWAN); err != nil {
		return fmt.Errorf("set mode: %w", err)
	}
	if err := d.SetBand(cfg.Region); err != nil {
		return fmt.Errorf("set band: %w", err)
	}

	switch cfg.JoinMode {
	case at.ABP:
		if err := d.SetDeviceAddress(cfg.DevAddr); err != nil {
			return err
		}
		if err := d.SetNetworkSessionKey(cfg.NwkSKey); err != nil {
			return err
		}
		if err := d.SetAppSessionKey(cfg.AppSKey); err != nil {
			return err
		}
	default:
		if err := d.SetDeviceEUI(cfg.DevEUI); err != nil {
			return err
		}
		if err := d.SetAppEUI(cfg.AppEUI); err != nil {
			return err
		}
		if err := d.SetAppKey(cfg.AppKey); err != nil {
			return err
		}
	}

	logger.Info("Joining network", "mode", cfg.JoinMode, "band", cfg.Region)
	if err := d.Join(cfg.JoinMode); err != nil {
		return fmt.Errorf("join: %w", err)
	}
	return nil
}

// poll drains the transport and takes every queued downlink. Downlinks for
// ports are returned in arrival order; those for other ports are logged and
// dropped so they cannot fill the driver queue.
func (s *session) poll(ports []uint8) ([]Downlink, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.driver.Process(); err != nil {
		return nil, err
	}
	var out []Downlink
	for {
		dl, ok, err := s.driver.TryRecvAny(s.buf[:])
		if err != nil {
			return out, err
		}
		if !ok {
			return out, nil
		}
		if !slices.Contains(ports, dl.Port) {
			s.logger.Warn("Dropping downlink on unsubscribed port", "port", dl.Port, "length", dl.N)
			continue
		}
		out = append(out, Downlink{Port: dl.Port, Payload: hex.EncodeToString(s.buf[:dl.N])})
	}
}

func (s *session) FirmwareInfo() (at.FirmwareInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	info, err := s.driver.FirmwareInfo()
	if err == nil {
		s.firmware = info
	}
	return info, err
}

func (s *session) QueryBand() (at.Region, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.driver.QueryBand()
}

func (s *session) SetBand(region at.Region) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.driver.SetBand(region)
}

func (s *session) Join(mode at.ConnectMode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.driver.Join(mode)
}

func (s *session) Send(qos at.QoS, port uint8, payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.driver.Send(qos, port, payload)
}

func (s *session) TryRecv(port uint8, buf []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.driver.Process(); err != nil {
		return 0, err
	}
	return s.driver.TryRecv(port, buf)
}

func (s *session) GetConfig(key at.ConfigKey) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.driver.GetConfig(key)
}

func (s *session) Reset(mode at.ResetMode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.driver.Reset(mode)
}

func (s *session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := Status{
		Band:        s.driver.Band(),
		Mode:        s.driver.Mode().String(),
		ConnectMode: s.driver.ConnectMode(),
		Pending:     s.driver.Pending(),
	}
	if s.firmware != (at.FirmwareInfo{}) {
		st.Firmware = s.firmware.String()
	}
	return st
}
