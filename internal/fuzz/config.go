package fuzz

import (
	"errors"
	"fmt"
	"time"

	"github.com/LuDuda/settings-fuzz/pkg/console"
)

// KeyLength is the number of digits in a generated settings key.
const KeyLength = 6

// Run defaults.
const (
	DefaultIterations  = 500
	DefaultValueLength = 200
	DefaultKeyPrefix   = "mt/"
)

// Delays are the fixed waits that stand in for device acknowledgements.
type Delays struct {
	// Settle is the pause around every write and before the final listing.
	Settle time.Duration

	// FreeSpace is the wait for the device to compute free storage.
	FreeSpace time.Duration

	// FactoryReset is the wait for the device to erase and reboot.
	FactoryReset time.Duration
}

// DefaultDelays returns the delays the device shell is known to need.
func DefaultDelays() Delays {
	return Delays{
		Settle:       150 * time.Millisecond,
		FreeSpace:    3 * time.Second,
		FactoryReset: 6 * time.Second,
	}
}

// Config holds the parameters of one run. It is built once at startup and
// not modified afterwards.
type Config struct {
	// Port is the serial device path (required).
	Port string

	// Iterations is the number of write cycles.
	Iterations int

	// ValueLength is the digit count of each generated value.
	ValueLength int

	// FactoryReset enables the factory reset after the write cycles.
	FactoryReset bool

	// FreeSpace enables the free-space query after the write cycles.
	FreeSpace bool

	// KeyPrefix is prepended to every generated key.
	KeyPrefix string

	// BaudRate and ReadTimeout configure the serial line.
	BaudRate    int
	ReadTimeout time.Duration

	Delays Delays

	// Seed for key/value generation. Zero picks a time based seed.
	Seed int64

	// LenientLoop decodes write cycle output leniently instead of failing
	// on malformed bytes. The final listing is always lenient.
	LenientLoop bool
}

// DefaultConfig returns a Config with every default applied and no port.
func DefaultConfig() Config {
	return Config{
		Iterations:  DefaultIterations,
		ValueLength: DefaultValueLength,
		KeyPrefix:   DefaultKeyPrefix,
		BaudRate:    console.DefaultBaudRate,
		ReadTimeout: console.DefaultReadTimeout,
		Delays:      DefaultDelays(),
	}
}

// Validate checks the configuration for values a run cannot use.
func (c Config) Validate() error {
	var errs []error
	if c.Port == "" {
		errs = append(errs, errors.New("port is required"))
	}
	if c.Iterations < 0 {
		errs = append(errs, fmt.Errorf("iterations must be >= 0, got %d", c.Iterations))
	}
	if c.ValueLength < 0 {
		errs = append(errs, fmt.Errorf("value length must be >= 0, got %d", c.ValueLength))
	}
	if c.BaudRate <= 0 {
		errs = append(errs, fmt.Errorf("baud rate must be > 0, got %d", c.BaudRate))
	}
	if c.ReadTimeout <= 0 {
		errs = append(errs, fmt.Errorf("read timeout must be > 0, got %s", c.ReadTimeout))
	}
	if c.Delays.Settle < 0 || c.Delays.FreeSpace < 0 || c.Delays.FactoryReset < 0 {
		errs = append(errs, errors.New("delays must not be negative"))
	}
	return errors.Join(errs...)
}

// ConsoleConfig returns the serial settings for console.Open.
func (c Config) ConsoleConfig() console.Config {
	return console.Config{
		BaudRate:    c.BaudRate,
		ReadTimeout: c.ReadTimeout,
	}
}

// loopMode is the decode mode used for write cycle and free-space output.
func (c Config) loopMode() console.DecodeMode {
	if c.LenientLoop {
		return console.Lenient
	}
	return console.Strict
}
