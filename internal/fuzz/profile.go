package fuzz

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Profile is a YAML run profile. Unset fields leave the Config untouched.
//
//	port: /dev/ttyACM0
//	iterations: 2000
//	single_chunk: 64
//	free_space: true
//	delays:
//	  settle: 200ms
type Profile struct {
	Port         *string   `yaml:"port"`
	Iterations   *int      `yaml:"iterations"`
	SingleChunk  *int      `yaml:"single_chunk"`
	FactoryReset *bool     `yaml:"factory_reset"`
	FreeSpace    *bool     `yaml:"free_space"`
	KeyPrefix    *string   `yaml:"key_prefix"`
	BaudRate     *int      `yaml:"baud_rate"`
	ReadTimeout  *Duration `yaml:"read_timeout"`
	Seed         *int64    `yaml:"seed"`
	Lenient      *bool     `yaml:"lenient"`

	Delays struct {
		Settle       *Duration `yaml:"settle"`
		FreeSpace    *Duration `yaml:"free_space"`
		FactoryReset *Duration `yaml:"factory_reset"`
	} `yaml:"delays"`
}

// Duration is a time.Duration written as a Go duration string ("150ms").
type Duration time.Duration

// UnmarshalYAML parses a duration string.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*d = Duration(parsed)
	return nil
}

// ProfileError reports a profile that could not be loaded.
type ProfileError struct {
	// File is the path of the profile, empty when parsed from bytes.
	File string

	// Message describes the error.
	Message string

	// Cause is the underlying error, if any.
	Cause error
}

func (e *ProfileError) Error() string {
	msg := e.Message
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	if e.File == "" {
		return msg
	}
	return e.File + ": " + msg
}

func (e *ProfileError) Unwrap() error {
	return e.Cause
}

// ParseProfile parses a profile from YAML bytes. Unknown keys are rejected.
func ParseProfile(data []byte) (*Profile, error) {
	var p Profile

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil && !errors.Is(err, io.EOF) {
		return nil, &ProfileError{Message: "failed to parse YAML", Cause: err}
	}
	return &p, nil
}

// LoadProfile loads a profile from a file.
func LoadProfile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ProfileError{File: path, Message: "failed to read file", Cause: err}
	}

	p, err := ParseProfile(data)
	if err != nil {
		var pe *ProfileError
		if errors.As(err, &pe) {
			pe.File = path
		}
		return nil, err
	}
	return p, nil
}

// Apply overlays the profile's set fields onto cfg.
func (p *Profile) Apply(cfg *Config) {
	if p.Port != nil {
		cfg.Port = *p.Port
	}
	if p.Iterations != nil {
		cfg.Iterations = *p.Iterations
	}
	if p.SingleChunk != nil {
		cfg.ValueLength = *p.SingleChunk
	}
	if p.FactoryReset != nil {
		cfg.FactoryReset = *p.FactoryReset
	}
	if p.FreeSpace != nil {
		cfg.FreeSpace = *p.FreeSpace
	}
	if p.KeyPrefix != nil {
		cfg.KeyPrefix = *p.KeyPrefix
	}
	if p.BaudRate != nil {
		cfg.BaudRate = *p.BaudRate
	}
	if p.ReadTimeout != nil {
		cfg.ReadTimeout = time.Duration(*p.ReadTimeout)
	}
	if p.Seed != nil {
		cfg.Seed = *p.Seed
	}
	if p.Lenient != nil {
		cfg.LenientLoop = *p.Lenient
	}
	if p.Delays.Settle != nil {
		cfg.Delays.Settle = time.Duration(*p.Delays.Settle)
	}
	if p.Delays.FreeSpace != nil {
		cfg.Delays.FreeSpace = time.Duration(*p.Delays.FreeSpace)
	}
	if p.Delays.FactoryReset != nil {
		cfg.Delays.FactoryReset = time.Duration(*p.Delays.FactoryReset)
	}
}
