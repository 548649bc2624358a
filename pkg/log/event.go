package log

import "time"

// Event is a single captured console event.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// SessionID identifies one harness run (UUID).
	SessionID string `cbor:"2,keyasint"`

	// Direction indicates traffic flow relative to the device.
	Direction Direction `cbor:"3,keyasint"`

	// Category classifies the event type.
	Category Category `cbor:"4,keyasint"`

	// Port is the serial endpoint the session was opened on.
	Port string `cbor:"5,keyasint,omitempty"`

	// Type-specific payload (one of these will be set).
	Command *CommandEvent   `cbor:"10,keyasint,omitempty"`
	Line    *LineEvent      `cbor:"11,keyasint,omitempty"`
	Phase   *PhaseEvent     `cbor:"12,keyasint,omitempty"`
	Error   *ErrorEventData `cbor:"13,keyasint,omitempty"`
}

// Direction indicates the direction of console traffic.
type Direction uint8

const (
	// DirectionLocal marks harness events that never crossed the wire,
	// such as phases and run errors.
	DirectionLocal Direction = 0
	// DirectionIn is output read from the device.
	DirectionIn Direction = 1
	// DirectionOut is input sent to the device.
	DirectionOut Direction = 2
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case DirectionLocal:
		return "LOCAL"
	case DirectionIn:
		return "IN"
	case DirectionOut:
		return "OUT"
	default:
		return "UNKNOWN"
	}
}

// Category classifies the event type.
type Category uint8

const (
	// CategoryCommand is a command line sent to the device.
	CategoryCommand Category = 0
	// CategoryLine is a response line received from the device.
	CategoryLine Category = 1
	// CategoryPhase marks the start of a run step.
	CategoryPhase Category = 2
	// CategoryError records the failure that aborted a run.
	CategoryError Category = 3
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryCommand:
		return "COMMAND"
	case CategoryLine:
		return "LINE"
	case CategoryPhase:
		return "PHASE"
	case CategoryError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// CommandKind identifies which console command was sent.
type CommandKind uint8

const (
	// CommandRaw is free-form input typed by an operator.
	CommandRaw CommandKind = 0
	// CommandWrite is "settings write <key> <value>".
	CommandWrite CommandKind = 1
	// CommandFreeSpace is "matter_settings free".
	CommandFreeSpace CommandKind = 2
	// CommandFactoryReset is "matter device factoryreset".
	CommandFactoryReset CommandKind = 3
	// CommandList is "settings list".
	CommandList CommandKind = 4
)

// String returns the command kind name.
func (k CommandKind) String() string {
	switch k {
	case CommandRaw:
		return "RAW"
	case CommandWrite:
		return "WRITE"
	case CommandFreeSpace:
		return "FREE_SPACE"
	case CommandFactoryReset:
		return "FACTORY_RESET"
	case CommandList:
		return "LIST"
	default:
		return "UNKNOWN"
	}
}

// CommandEvent captures a command sent to the device.
type CommandEvent struct {
	// Kind of command.
	Kind CommandKind `cbor:"1,keyasint"`

	// Text is the command line without its terminator.
	Text string `cbor:"2,keyasint"`
}

// LineEvent captures a line of device output.
type LineEvent struct {
	// Text is the decoded line (lossy when Invalid is set).
	Text string `cbor:"1,keyasint"`

	// Raw holds the undecoded bytes, only set when Invalid.
	Raw []byte `cbor:"2,keyasint,omitempty"`

	// Invalid indicates the line was not valid UTF-8.
	Invalid bool `cbor:"3,keyasint,omitempty"`
}

// Phase identifies a step of a harness run.
type Phase uint8

const (
	PhaseStart        Phase = 0
	PhaseWriteCycle   Phase = 1
	PhaseFreeSpace    Phase = 2
	PhaseFactoryReset Phase = 3
	PhaseList         Phase = 4
	PhaseDone         Phase = 5
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseStart:
		return "START"
	case PhaseWriteCycle:
		return "WRITE_CYCLE"
	case PhaseFreeSpace:
		return "FREE_SPACE"
	case PhaseFactoryReset:
		return "FACTORY_RESET"
	case PhaseList:
		return "LIST"
	case PhaseDone:
		return "DONE"
	default:
		return "UNKNOWN"
	}
}

// PhaseEvent marks the start of a run step.
type PhaseEvent struct {
	Phase Phase `cbor:"1,keyasint"`

	// Iteration is the zero-based write cycle index (PhaseWriteCycle only).
	Iteration int `cbor:"2,keyasint,omitempty"`
}

// ErrorEventData captures the error that aborted a run.
type ErrorEventData struct {
	// Message is the error message.
	Message string `cbor:"1,keyasint"`

	// Context describes what operation was being performed.
	Context string `cbor:"2,keyasint,omitempty"`
}
