package at

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrIncomplete means the input is not yet a complete message. More bytes
	// may complete it; it is never a failure.
	ErrIncomplete = errors.New("at: incomplete response")

	// ErrSyntax is matched by every *SyntaxError.
	ErrSyntax = errors.New("at: syntax error")
)

// SyntaxError reports a complete line that matches no reply alternative.
type SyntaxError struct {
	Line   string
	Reason string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("at: %s: %q", e.Reason, e.Line)
}

func (e *SyntaxError) Unwrap() error { return ErrSyntax }

var crlf = []byte(CRLF)

// Parse decodes the first message in data. It returns the response and the
// number of bytes the message spans, leading blank lines included; bytes
// after that belong to the next message.
//
// When data holds only part of a message Parse returns ErrIncomplete and
// n == 0. When the first complete line matches nothing, or matches with
// malformed fields, Parse returns a *SyntaxError and n covers that line so
// the caller can drop it.
//
// The returned response does not alias data: each decoded line and payload
// is copied to the heap.
func Parse(data []byte) (resp Response, n int, err error) {
	start := skipCRLF(data, 0)
	line, end, ok := nextLine(data, start)
	if !ok {
		return nil, 0, ErrIncomplete
	}

	switch {
	case line == Welcome:
		return parseInitialized(data, end)
	case strings.HasPrefix(line, OK):
		resp, err = parseOK(line[len(OK):])
	case strings.HasPrefix(line, ERROR):
		resp, err = parseError(line[len(ERROR):])
	case strings.HasPrefix(line, RecvPrefix):
		resp, err = parseRecv(line[len(RecvPrefix):])
	default:
		err = errors.New("unrecognized line")
	}
	if err != nil {
		return nil, end, &SyntaxError{Line: line, Reason: err.Error()}
	}
	return resp, end, nil
}

func skipCRLF(data []byte, i int) int {
	for bytes.HasPrefix(data[i:], crlf) {
		i += len(crlf)
	}
	return i
}

// nextLine returns the line starting at data[start:] and the offset just
// past its terminator.
func nextLine(data []byte, start int) (string, int, bool) {
	i := bytes.Index(data[start:], crlf)
	if i < 0 {
		return "", 0, false
	}
	return string(data[start : start+i]), start + i + len(crlf), true
}

func parseOK(text string) (Response, error) {
	switch {
	case text == "":
		return Ok{}, nil
	case isDigit(text[0]) && strings.Contains(text, "."):
		return parseFirmware(text)
	case isRegionToken(text):
		return LoraBand{Region: ParseRegion(text)}, nil
	default:
		return Value{Text: text}, nil
	}
}

func parseFirmware(text string) (Response, error) {
	parts := strings.Split(text, ".")
	if len(parts) != 4 {
		return nil, fmt.Errorf("firmware version needs 4 fields, got %d", len(parts))
	}
	var v [4]uint8
	for i, p := range parts {
		n, err := parseU8(p)
		if err != nil {
			return nil, fmt.Errorf("firmware version field %d: %w", i, err)
		}
		v[i] = n
	}
	return FirmwareInfo{Major: v[0], Minor: v[1], Patch: v[2], Build: v[3]}, nil
}

func parseError(text string) (Response, error) {
	digits := strings.TrimPrefix(text, "-")
	if !allDigits(digits) {
		return nil, fmt.Errorf("error code %q is not a number", text)
	}
	code, err := strconv.ParseInt(text, 10, 8)
	if err != nil {
		return nil, fmt.Errorf("error code %q out of range", text)
	}
	return Error{Code: int8(code)}, nil
}

// parseRecv decodes "<event>,<port>,<len>" or
// "<event>,<port>,<rssi>,<snr>,<len>", each optionally followed by
// ":<hex payload>".
func parseRecv(text string) (Response, error) {
	head, data, hasData := strings.Cut(text, ":")
	fields := strings.Split(head, ",")
	if len(fields) != 3 && len(fields) != 5 {
		return nil, fmt.Errorf("recv needs 3 or 5 fields, got %d", len(fields))
	}

	event, err := parseU8(fields[0])
	if err != nil {
		return nil, fmt.Errorf("recv event: %w", err)
	}
	port, err := parseU8(fields[1])
	if err != nil {
		return nil, fmt.Errorf("recv port: %w", err)
	}
	r := Recv{Event: eventCode(event), Port: port}

	if len(fields) == 5 {
		rssi, err := strconv.ParseInt(fields[2], 10, 16)
		if err != nil {
			return nil, fmt.Errorf("recv rssi %q: %w", fields[2], err)
		}
		snr, err := strconv.ParseInt(fields[3], 10, 8)
		if err != nil {
			return nil, fmt.Errorf("recv snr %q: %w", fields[3], err)
		}
		r.RSSI, r.SNR = int16(rssi), int8(snr)
	}

	if r.Len, err = parseU8(fields[len(fields)-1]); err != nil {
		return nil, fmt.Errorf("recv length: %w", err)
	}

	switch {
	case hasData:
		if len(data) != hex.EncodedLen(int(r.Len)) {
			return nil, fmt.Errorf("recv payload has %d hex digits, want %d", len(data), hex.EncodedLen(int(r.Len)))
		}
		if r.Payload, err = hex.DecodeString(data); err != nil {
			return nil, fmt.Errorf("recv payload: %w", err)
		}
	case r.Len != 0:
		return nil, fmt.Errorf("recv announces %d bytes without payload", r.Len)
	}
	return r, nil
}

// parseInitialized decodes the post-reset banner. data[:afterWelcome] is the
// "Welcome to RAK811" line; the region line follows after blank lines.
func parseInitialized(data []byte, afterWelcome int) (Response, int, error) {
	start := skipCRLF(data, afterWelcome)
	line, end, ok := nextLine(data, start)
	if !ok {
		return nil, 0, ErrIncomplete
	}

	version, region, found := strings.Cut(strings.TrimPrefix(line, BannerPrefix), BannerRegion)
	region = strings.TrimSpace(region)
	if !strings.HasPrefix(line, BannerPrefix) || !found || region == "" {
		return nil, afterWelcome, &SyntaxError{Line: Welcome, Reason: "banner without region line"}
	}
	return Initialized{Region: ParseRegion(region), Version: version}, end, nil
}

func parseU8(s string) (uint8, error) {
	if !allDigits(s) {
		return 0, fmt.Errorf("%q is not a number", s)
	}
	n, err := strconv.ParseUint(s, 10, 8)
	if err != nil {
		return 0, fmt.Errorf("%q out of range", s)
	}
	return uint8(n), nil
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isDigit(s[i]) {
			return false
		}
	}
	return true
}

func isDigit(c byte) bool { return '0' <= c && c <= '9' }

// isRegionToken matches two uppercase letters followed by three digits.
func isRegionToken(s string) bool {
	if len(s) != 5 {
		return false
	}
	for i := 0; i < 2; i++ {
		if s[i] < 'A' || s[i] > 'Z' {
			return false
		}
	}
	return allDigits(s[2:])
}
