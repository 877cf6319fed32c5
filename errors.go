package lollipop

import "fmt"

// Kind enumerates the error taxonomy from spec §7.
type Kind int

const (
	NoKeyboardDevice Kind = iota
	OpenDeviceHandle
	InvalidModifier
	InvalidTimeout
	InvalidFuzz
	InvalidConfigLine
	FailedReadingConfig
	TransportIOError
)

func (k Kind) String() string {
	switch k {
	case NoKeyboardDevice:
		return "no keyboard device"
	case OpenDeviceHandle:
		return "open device handle"
	case InvalidModifier:
		return "invalid modifier"
	case InvalidTimeout:
		return "invalid timeout"
	case InvalidFuzz:
		return "invalid fuzz"
	case InvalidConfigLine:
		return "invalid config line"
	case FailedReadingConfig:
		return "failed reading config"
	case TransportIOError:
		return "transport I/O error"
	default:
		return "unknown error"
	}
}

// Error is the single error type for every kind in the taxonomy; the fields
// populated depend on Kind. Mirrors original_source's one-variant-per-kind
// enum, reshaped as a Go struct since Go has no sum types.
type Error struct {
	Kind  Kind
	Path  string // OpenDeviceHandle, FailedReadingConfig
	Name  string // InvalidModifier
	Raw   string // InvalidTimeout, InvalidFuzz
	Line  string // InvalidConfigLine
	Cause error  // NoKeyboardDevice, OpenDeviceHandle, FailedReadingConfig, TransportIOError
}

func (e *Error) Error() string {
	switch e.Kind {
	case NoKeyboardDevice:
		return "no keyboard device available to augment input keypresses of"
	case OpenDeviceHandle:
		return fmt.Sprintf("failed to open a handle to keyboard device at path %q: %v", e.Path, e.Cause)
	case InvalidModifier:
		return fmt.Sprintf("invalid modifier %q supplied in config, valid modifiers are: "+
			"leftshift, rightshift, leftctrl, rightctrl, leftalt, rightalt, compose, leftmeta, fn, capslock, rightmeta", e.Name)
	case InvalidTimeout:
		return fmt.Sprintf("invalid locking timeout %q supplied, must be a non-negative integer for the number of milliseconds", e.Raw)
	case InvalidFuzz:
		return fmt.Sprintf("invalid fuzz %q supplied, must be a non-negative integer", e.Raw)
	case InvalidConfigLine:
		return fmt.Sprintf("invalid line in encountered config: %q", e.Line)
	case FailedReadingConfig:
		return fmt.Sprintf("failed to read config file %q: %v", e.Path, e.Cause)
	case TransportIOError:
		return fmt.Sprintf("transport I/O error: %v", e.Cause)
	default:
		return "lollipop: unknown error"
	}
}

func (e *Error) Unwrap() error { return e.Cause }
