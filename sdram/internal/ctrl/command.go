// Package ctrl implements the command and timing state machine that
// sequences an SDRAM device through initialization, row activation, column
// access, precharge, and refresh.
package ctrl

// A Command is an operation that the controller issues to the memory device.
type Command int

// Commands that the controller can issue.
const (
	CommandNop Command = iota
	CommandActive
	CommandRead
	CommandWrite
	CommandPrecharge
	CommandRefresh
	CommandLoadMode
	CommandInhibit
)

// WireBits returns the command encoded on the four control lines, packed as
// {CS#, RAS#, CAS#, WE#} from bit 3 down to bit 0. All lines are active low.
func (c Command) WireBits() uint8 {
	switch c {
	case CommandNop:
		return 0b0111
	case CommandActive:
		return 0b0011
	case CommandRead:
		return 0b0101
	case CommandWrite:
		return 0b0100
	case CommandPrecharge:
		return 0b0010
	case CommandRefresh:
		return 0b0001
	case CommandLoadMode:
		return 0b0000
	case CommandInhibit:
		return 0b1111
	}

	panic("unknown command")
}

func (c Command) String() string {
	switch c {
	case CommandNop:
		return "NOP"
	case CommandActive:
		return "ACTIVE"
	case CommandRead:
		return "READ"
	case CommandWrite:
		return "WRITE"
	case CommandPrecharge:
		return "PRECHARGE"
	case CommandRefresh:
		return "REFRESH"
	case CommandLoadMode:
		return "LOADMODE"
	case CommandInhibit:
		return "INHIBIT"
	}

	return "UNKNOWN"
}
