package console

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/LuDuda/settings-fuzz/pkg/log"
)

// Console errors.
var (
	ErrClosed     = errors.New("console closed")
	ErrShortWrite = errors.New("short write to console")
)

// readChunkSize is the size of a single port read.
const readChunkSize = 256

// Console sends commands to and reads lines from a device shell.
// A Console is owned by one goroutine; it is not safe for concurrent use.
type Console struct {
	port   Port
	path   string
	closed bool

	// Capture support (optional)
	logger    log.Logger
	sessionID string
}

// New wraps an open port and applies cfg.ReadTimeout.
func New(port Port, cfg Config) (*Console, error) {
	if cfg.ReadTimeout > 0 {
		if err := port.SetReadTimeout(cfg.ReadTimeout); err != nil {
			return nil, fmt.Errorf("failed to set read timeout: %w", err)
		}
	}
	return &Console{port: port}, nil
}

// Path returns the device path the console was opened on, if known.
func (c *Console) Path() string {
	return c.path
}

// SetLogger configures capture for this console.
// Pass nil to disable capture.
func (c *Console) SetLogger(logger log.Logger, sessionID string) {
	c.logger = logger
	c.sessionID = sessionID
}

// Send transmits cmd followed by a newline in a single write.
func (c *Console) Send(cmd Command) error {
	if c.closed {
		return ErrClosed
	}

	line := []byte(cmd.Line())
	n, err := c.port.Write(line)
	if err != nil {
		return fmt.Errorf("failed to send %q: %w", cmd.Text, err)
	}
	if n != len(line) {
		return fmt.Errorf("%w: sent %d of %d bytes of %q", ErrShortWrite, n, len(line), cmd.Text)
	}

	if c.logger != nil {
		c.logger.Log(c.event(log.DirectionOut, log.CategoryCommand, func(e *log.Event) {
			e.Command = &log.CommandEvent{Kind: cmd.Kind, Text: cmd.Text}
		}))
	}
	return nil
}

// ReadLines reads until the device stays silent for one read timeout and
// returns the received lines with their terminators removed. A final line
// without a terminator is returned as is.
func (c *Console) ReadLines() ([][]byte, error) {
	if c.closed {
		return nil, ErrClosed
	}

	var data []byte
	chunk := make([]byte, readChunkSize)
	for {
		n, err := c.port.Read(chunk)
		if n > 0 {
			data = append(data, chunk[:n]...)
		}
		if err != nil && err != io.EOF {
			return nil, fmt.Errorf("failed to read from console: %w", err)
		}
		if n == 0 || err == io.EOF {
			break
		}
	}

	return splitLines(data), nil
}

// Drain reads all pending lines and decodes them with mode.
// With Strict, lines decoded before the first malformed line are returned
// together with an error wrapping ErrInvalidUTF8.
func (c *Console) Drain(mode DecodeMode) ([]string, error) {
	raw, err := c.ReadLines()
	if err != nil {
		return nil, err
	}

	lines := make([]string, 0, len(raw))
	for _, r := range raw {
		text, err := Decode(r, mode)
		c.logLine(r)
		if err != nil {
			return lines, err
		}
		lines = append(lines, text)
	}
	return lines, nil
}

// Flush discards input the device printed before we started listening.
func (c *Console) Flush() error {
	if c.closed {
		return ErrClosed
	}
	return c.port.ResetInputBuffer()
}

// Close closes the underlying port.
// It is safe to call Close multiple times.
func (c *Console) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	return c.port.Close()
}

func (c *Console) logLine(raw []byte) {
	if c.logger == nil {
		return
	}
	c.logger.Log(c.event(log.DirectionIn, log.CategoryLine, func(e *log.Event) {
		e.Line = &log.LineEvent{Text: strings.ToValidUTF8(string(raw), "")}
		if !valid(raw) {
			e.Line.Invalid = true
			e.Line.Raw = bytes.Clone(raw)
		}
	}))
}

func (c *Console) event(dir log.Direction, cat log.Category, fill func(*log.Event)) log.Event {
	e := log.Event{
		Timestamp: time.Now(),
		SessionID: c.sessionID,
		Direction: dir,
		Category:  cat,
		Port:      c.path,
	}
	fill(&e)
	return e
}

// splitLines splits on '\n' and strips one trailing '\r' from each line.
func splitLines(data []byte) [][]byte {
	if len(data) == 0 {
		return nil
	}

	var lines [][]byte
	for len(data) > 0 {
		i := bytes.IndexByte(data, '\n')
		var line []byte
		if i < 0 {
			line, data = data, nil
		} else {
			line, data = data[:i], data[i+1:]
		}
		lines = append(lines, bytes.TrimSuffix(line, []byte{'\r'}))
	}
	return lines
}
