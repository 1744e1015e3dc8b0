package main

import (
	"log/slog"
	"slices"
	"strings"
	"testing"

	"github.com/brocaar/lorawan"
	"i4.energy/across/rak811gw/at"
	"i4.energy/across/rak811gw/rak811"
)

type exchange struct {
	command string
	reply   string
}

// scriptedModule answers each flushed command with the next scripted reply.
type scriptedModule struct {
	t      *testing.T
	script []exchange
	line   strings.Builder
	rx     []byte
	seen   []string
}

func (m *scriptedModule) ReadByte() (byte, error) {
	if len(m.rx) == 0 {
		return 0, rak811.ErrWouldBlock
	}
	c := m.rx[0]
	m.rx = m.rx[1:]
	return c, nil
}

func (m *scriptedModule) WriteByte(c byte) error {
	m.line.WriteByte(c)
	return nil
}

func (m *scriptedModule) Flush() error {
	cmd := strings.TrimSuffix(m.line.String(), "\r\n")
	m.line.Reset()
	m.seen = append(m.seen, cmd)
	if len(m.script) == 0 || m.script[0].command != cmd {
		m.t.Fatalf("unexpected command %q", cmd)
	}
	m.rx = append(m.rx, m.script[0].reply...)
	m.script = m.script[1:]
	return nil
}

const testBanner = "Welcome to RAK811\r\n\r\nSelected LoraWAN 1.0.2 Region: EU868\r\n"

func newTestSession(t *testing.T, script []exchange) (*session, *scriptedModule) {
	t.Helper()
	module := &scriptedModule{t: t, script: script}
	driver, err := rak811.New(module, nil, rak811.Config{})
	if err != nil {
		t.Fatalf("unexpected error from New(): %v", err)
	}
	return newSession(driver, slog.New(slog.DiscardHandler)), module
}

func TestSessionBringUp(t *testing.T) {
	t.Run("OTAA", func(t *testing.T) {
		sess, module := newTestSession(t, []exchange{
			{"at+reset=0", "OK\r\n" + testBanner},
			{"at+version", "OK2.0.3.0\r\n"},
			{"at+mode=0", "OK\r\n"},
			{"at+band=US915", "OK\r\n"},
			{"at+set_config=dev_eui:fffedeadc0deffff", "OK\r\n"},
			{"at+set_config=app_eui:70b3d57ed003b184", "OK\r\n"},
			{"at+set_config=app_key:000102030405060708090a0b0c0d0e0f", "OK\r\n"},
			{"at+join=otaa", "OK\r\nat+recv=3,0,0\r\n"},
		})
		cfg := LoRaConfig{
			Region:   at.US915,
			JoinMode: at.OTAA,
			DevEUI:   lorawan.EUI64{0xff, 0xfe, 0xde, 0xad, 0xc0, 0xde, 0xff, 0xff},
			AppEUI:   lorawan.EUI64{0x70, 0xb3, 0xd5, 0x7e, 0xd0, 0x03, 0xb1, 0x84},
			AppKey:   lorawan.AES128Key{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15},
		}

		if err := sess.bringUp(cfg, slog.New(slog.DiscardHandler)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := len(module.seen); got != 8 {
			t.Errorf("sent %d commands, want 8: %v", got, module.seen)
		}
		st := sess.Status()
		if st.Band != at.US915 || st.Firmware != "2.0.3.0" || st.Mode != "WAN" {
			t.Errorf("unexpected status: %+v", st)
		}
	})

	t.Run("ABP join rejected", func(t *testing.T) {
		sess, _ := newTestSession(t, []exchange{
			{"at+reset=0", "OK\r\n" + testBanner},
			{"at+version", "OK2.0.3.0\r\n"},
			{"at+mode=0", "OK\r\n"},
			{"at+band=EU868", "OK\r\n"},
			{"at+set_config=dev_addr:26011bda", "OK\r\n"},
			{"at+set_config=nwks_key:00000000000000000000000000000000", "OK\r\n"},
			{"at+set_config=apps_key:00000000000000000000000000000000", "OK\r\n"},
			{"at+join=abp", "OK\r\nat+recv=4,0,0\r\n"},
		})
		cfg := LoRaConfig{
			Region:   at.EU868,
			JoinMode: at.ABP,
			DevAddr:  lorawan.DevAddr{0x26, 0x01, 0x1b, 0xda},
		}

		err := sess.bringUp(cfg, slog.New(slog.DiscardHandler))
		if err == nil || !strings.Contains(err.Error(), "join") {
			t.Errorf("expected join error, got: %v", err)
		}
	})
}

func TestSessionPoll(t *testing.T) {
	sess, module := newTestSession(t, nil)
	module.rx = []byte("at+recv=0,2,1:aa\r\nat+recv=0,5,2:beef\r\nat+recv=0,2,1:bb\r\n")

	var got []Downlink
	for i := 0; i < 3 && len(got) < 3; i++ {
		dl, err := sess.poll([]uint8{2, 5})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		got = append(got, dl...)
	}

	want := map[string]uint8{"aa": 2, "beef": 5, "bb": 2}
	if len(got) != len(want) {
		t.Fatalf("got %d downlinks, want %d: %v", len(got), len(want), got)
	}
	for _, dl := range got {
		if want[dl.Payload] != dl.Port {
			t.Errorf("downlink %+v on unexpected port", dl)
		}
	}
}

func TestSessionPollDropsUnsubscribedPorts(t *testing.T) {
	sess, module := newTestSession(t, []exchange{{"at+mode=0", "OK\r\n"}})
	module.rx = []byte(strings.Repeat("at+recv=0,2,1:aa\r\n", rak811.QueueSize))

	for i := 0; i < 2; i++ {
		dl, err := sess.poll([]uint8{1})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(dl) != 0 {
			t.Errorf("got downlinks for unsubscribed port: %v", dl)
		}
	}
	if got := sess.Status().Pending; got != 0 {
		t.Fatalf("pending = %d after polling, want 0", got)
	}
	if err := sess.driver.SetMode(at.ModeWAN); err != nil {
		t.Errorf("driver wedged after dropped downlinks: %v", err)
	}
}

func TestSessionPollEmptyDownlink(t *testing.T) {
	sess, module := newTestSession(t, nil)
	module.rx = []byte("at+recv=0,1,0\r\nat+recv=0,1,1:01\r\n")

	got, err := sess.poll([]uint8{1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []Downlink{{Port: 1, Payload: ""}, {Port: 1, Payload: "01"}}
	if !slices.Equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}
