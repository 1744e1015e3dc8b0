// Package at implements the RAK811 AT command vocabulary: typed commands and
// their wire encoding, and the incremental grammar that decodes module replies.
package at

const (
	// Terminal Control
	CRLF = "\r\n"

	// Response Codes
	OK    = "OK"
	ERROR = "ERROR"

	// Unsolicited lines
	RecvPrefix   = "at+recv="
	Welcome      = "Welcome to RAK811"
	BannerPrefix = "Selected LoraWAN "
	BannerRegion = " Region: "

	// Command prefixes
	CmdVersion   = "at+version"
	CmdBand      = "at+band"
	CmdMode      = "at+mode"
	CmdJoin      = "at+join"
	CmdSetConfig = "at+set_config"
	CmdGetConfig = "at+get_config"
	CmdReset     = "at+reset"
	CmdSend      = "at+send"
)

const (
	// CommandSize bounds an encoded command body, terminator excluded. A
	// body must stay strictly shorter than CommandSize.
	CommandSize = 128

	// MaxPayload is the largest payload a Send command can carry: the
	// longest header "at+send=1,255," leaves room for this many hex pairs.
	MaxPayload = (CommandSize - 1 - len(CmdSend+"=1,255,")) / 2
)
