package rak811_test

import (
	"strings"
	"testing"

	"i4.energy/across/rak811gw/rak811"
)

// exchange is one scripted command and the bytes the module answers with.
type exchange struct {
	command string
	reply   string
}

// fakeModule is a scripted RAK811. Each flushed command line is checked
// against the next exchange and its reply becomes readable.
type fakeModule struct {
	t      *testing.T
	script []exchange

	line    []byte
	rx      []byte
	written []string

	// drip hands out one byte per Process call so replies trickle in over
	// several poll cycles.
	drip    bool
	blocked bool

	readErr error
}

func newFakeModule(t *testing.T, script ...exchange) *fakeModule {
	t.Helper()
	f := &fakeModule{t: t, script: script}
	t.Cleanup(func() {
		if len(f.script) > 0 {
			t.Errorf("unused script entries: %v", f.script)
		}
	})
	return f
}

// push makes s readable as if the module had sent it unprompted.
func (f *fakeModule) push(s string) {
	f.rx = append(f.rx, s...)
}

func (f *fakeModule) ReadByte() (byte, error) {
	if f.readErr != nil {
		return 0, f.readErr
	}
	if len(f.rx) == 0 {
		return 0, rak811.ErrWouldBlock
	}
	if f.drip {
		f.blocked = !f.blocked
		if f.blocked {
			return 0, rak811.ErrWouldBlock
		}
	}
	c := f.rx[0]
	f.rx = f.rx[1:]
	return c, nil
}

func (f *fakeModule) WriteByte(c byte) error {
	f.line = append(f.line, c)
	return nil
}

func (f *fakeModule) Flush() error {
	for {
		line, rest, ok := strings.Cut(string(f.line), "\r\n")
		if !ok {
			return nil
		}
		f.line = []byte(rest)
		f.written = append(f.written, line)

		if len(f.script) == 0 {
			f.t.Fatalf("unexpected command %q", line)
		}
		next := f.script[0]
		f.script = f.script[1:]
		if line != next.command {
			f.t.Fatalf("command = %q, want %q", line, next.command)
		}
		f.push(next.reply)
	}
}

const banner = "Welcome to RAK811\r\n\r\nSelected LoraWAN 1.0.2 Region: EU868\r\n"
