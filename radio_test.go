package main

import (
	"i4.energy/across/rak811gw/at"
)

// stubRadio records calls and returns canned results.
type stubRadio struct {
	firmware at.FirmwareInfo
	band     at.Region
	status   Status
	err      error

	downlinks map[uint8][]byte
	config    map[at.ConfigKey]string

	sent   []sentUplink
	joined []at.ConnectMode
	bands  []at.Region
	resets []at.ResetMode
}

type sentUplink struct {
	qos     at.QoS
	port    uint8
	payload []byte
}

func (r *stubRadio) FirmwareInfo() (at.FirmwareInfo, error) { return r.firmware, r.err }

func (r *stubRadio) QueryBand() (at.Region, error) { return r.band, r.err }

func (r *stubRadio) SetBand(region at.Region) error {
	r.bands = append(r.bands, region)
	return r.err
}

func (r *stubRadio) Join(mode at.ConnectMode) error {
	r.joined = append(r.joined, mode)
	return r.err
}

func (r *stubRadio) Send(qos at.QoS, port uint8, payload []byte) error {
	r.sent = append(r.sent, sentUplink{qos: qos, port: port, payload: payload})
	return r.err
}

func (r *stubRadio) TryRecv(port uint8, buf []byte) (int, error) {
	if r.err != nil {
		return 0, r.err
	}
	p, ok := r.downlinks[port]
	if !ok {
		return 0, nil
	}
	delete(r.downlinks, port)
	return copy(buf, p), nil
}

func (r *stubRadio) GetConfig(key at.ConfigKey) (string, error) {
	return r.config[key], r.err
}

func (r *stubRadio) Reset(mode at.ResetMode) error {
	r.resets = append(r.resets, mode)
	return r.err
}

func (r *stubRadio) Status() Status { return r.status }
