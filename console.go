package main

import (
	"bufio"
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/shlex"
	"i4.energy/across/rak811gw/at"
)

var errQuit = errors.New("quit")

const consoleHelp = `commands:
  version                                  firmware version
  band [REGION]                            query or set the frequency plan
  join otaa|abp                            join the network
  send <port> confirmed|unconfirmed <text> transmit an uplink
  recv <port>                              take a queued downlink
  config <key>                             read a configuration value
  reset restart|reload                     software reset
  status                                   module state
  quit`

// runConsole reads commands from in until EOF, quit or ctx is done.
func runConsole(ctx context.Context, in io.Reader, out io.Writer, radio Radio) error {
	scanner := bufio.NewScanner(in)
	fmt.Fprint(out, "> ")
	for scanner.Scan() {
		if ctx.Err() != nil {
			return nil
		}
		args, err := shlex.Split(scanner.Text())
		if err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
		} else if len(args) > 0 {
			err = runCommand(out, radio, args)
			if errors.Is(err, errQuit) {
				return nil
			}
			if err != nil {
				fmt.Fprintf(out, "error: %v\n", err)
			}
		}
		fmt.Fprint(out, "> ")
	}
	return scanner.Err()
}

func runCommand(out io.Writer, radio Radio, args []string) error {
	switch args[0] {
	case "version":
		info, err := radio.FirmwareInfo()
		if err != nil {
			return err
		}
		fmt.Fprintln(out, info)

	case "band":
		if len(args) == 1 {
			band, err := radio.QueryBand()
			if err != nil {
				return err
			}
			fmt.Fprintln(out, band)
			return nil
		}
		region := at.ParseRegion(strings.ToUpper(args[1]))
		if region == at.RegionUnknown {
			return fmt.Errorf("unknown region %q", args[1])
		}
		if err := radio.SetBand(region); err != nil {
			return err
		}
		fmt.Fprintln(out, "OK")

	case "join":
		if len(args) != 2 || (args[1] != "otaa" && args[1] != "abp") {
			return errors.New("usage: join otaa|abp")
		}
		if err := radio.Join(at.ParseConnectMode(args[1])); err != nil {
			return err
		}
		fmt.Fprintln(out, "joined")

	case "send":
		if len(args) != 4 {
			return errors.New("usage: send <port> confirmed|unconfirmed <text>")
		}
		port, err := parsePort(args[1])
		if err != nil {
			return err
		}
		var qos at.QoS
		switch args[2] {
		case "confirmed":
			qos = at.Confirmed
		case "unconfirmed":
			qos = at.Unconfirmed
		default:
			return fmt.Errorf("unknown delivery %q", args[2])
		}
		if err := radio.Send(qos, port, []byte(args[3])); err != nil {
			return err
		}
		fmt.Fprintln(out, "sent")

	case "recv":
		if len(args) != 2 {
			return errors.New("usage: recv <port>")
		}
		port, err := parsePort(args[1])
		if err != nil {
			return err
		}
		var buf [at.MaxPayload]byte
		n, err := radio.TryRecv(port, buf[:])
		if err != nil {
			return err
		}
		if n == 0 {
			fmt.Fprintln(out, "nothing queued")
			return nil
		}
		fmt.Fprintf(out, "%s %q\n", hex.EncodeToString(buf[:n]), buf[:n])

	case "config":
		if len(args) != 2 {
			return errors.New("usage: config <key>")
		}
		key, ok := at.ParseConfigKey(strings.ToLower(args[1]))
		if !ok {
			return fmt.Errorf("unknown config key %q", args[1])
		}
		value, err := radio.GetConfig(key)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, value)

	case "reset":
		mode := at.Restart
		if len(args) == 2 && args[1] == "reload" {
			mode = at.Reload
		} else if len(args) != 2 || args[1] != "restart" {
			return errors.New("usage: reset restart|reload")
		}
		if err := radio.Reset(mode); err != nil {
			return err
		}
		fmt.Fprintln(out, "module restarted")

	case "status":
		st := radio.Status()
		fmt.Fprintf(out, "band=%s mode=%s connect=%s firmware=%s pending=%d\n",
			st.Band, st.Mode, st.ConnectMode, st.Firmware, st.Pending)

	case "help":
		fmt.Fprintln(out, consoleHelp)

	case "quit", "exit":
		return errQuit

	default:
		return fmt.Errorf("unknown command %q, try help", args[0])
	}
	return nil
}

func parsePort(s string) (uint8, error) {
	p, err := strconv.ParseUint(s, 10, 8)
	if err != nil {
		return 0, fmt.Errorf("invalid port %q", s)
	}
	return uint8(p), nil
}
