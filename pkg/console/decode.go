package console

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"
)

// ErrInvalidUTF8 is returned by strict decoding of malformed device output.
var ErrInvalidUTF8 = errors.New("invalid UTF-8 in device output")

// DecodeMode selects how device output bytes become text.
type DecodeMode uint8

const (
	// Strict fails on the first malformed byte sequence.
	Strict DecodeMode = iota
	// Lenient drops malformed byte sequences.
	Lenient
)

// String returns the mode name.
func (m DecodeMode) String() string {
	switch m {
	case Strict:
		return "strict"
	case Lenient:
		return "lenient"
	default:
		return "unknown"
	}
}

// Decode converts one raw line to text according to mode.
func Decode(raw []byte, mode DecodeMode) (string, error) {
	if mode == Lenient {
		return strings.ToValidUTF8(string(raw), ""), nil
	}

	out, _, err := transform.Bytes(encoding.UTF8Validator, raw)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidUTF8, raw)
	}
	return string(out), nil
}

// valid reports whether raw decodes without loss.
func valid(raw []byte) bool {
	return utf8.Valid(raw)
}
