package console

import (
	"fmt"
	"io"
	"time"

	"go.bug.st/serial"
)

// Default line settings of the device shell UART.
const (
	DefaultBaudRate    = 115200
	DefaultReadTimeout = 150 * time.Millisecond
)

// Port is the byte stream to a device console.
// A go.bug.st/serial port satisfies it; tests use in-memory fakes.
type Port interface {
	io.ReadWriteCloser

	// SetReadTimeout bounds how long Read waits for data. A Read that times
	// out returns 0, nil.
	SetReadTimeout(timeout time.Duration) error

	// ResetInputBuffer discards any buffered input data.
	ResetInputBuffer() error
}

// Config configures a console connection.
type Config struct {
	// BaudRate of the serial line (default 115200).
	BaudRate int

	// ReadTimeout for a single read (default 150ms).
	ReadTimeout time.Duration
}

// DefaultConfig returns the device shell defaults.
func DefaultConfig() Config {
	return Config{
		BaudRate:    DefaultBaudRate,
		ReadTimeout: DefaultReadTimeout,
	}
}

// openPort is a variable to allow tests to replace the serial driver.
var openPort = func(path string, mode *serial.Mode) (Port, error) {
	return serial.Open(path, mode)
}

// Open opens the serial device at path and wraps it in a Console.
func Open(path string, cfg Config) (*Console, error) {
	mode := &serial.Mode{
		BaudRate: cfg.BaudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}

	port, err := openPort(path, mode)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}

	c, err := New(port, cfg)
	if err != nil {
		port.Close()
		return nil, fmt.Errorf("failed to configure %s: %w", path, err)
	}
	c.path = path
	return c, nil
}
