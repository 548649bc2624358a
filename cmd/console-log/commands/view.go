// Package commands implements the console-log CLI commands.
package commands

import (
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"github.com/LuDuda/settings-fuzz/pkg/log"
)

const timestampLayout = "2006-01-02T15:04:05.000000Z"

// formatEvent writes a human-readable representation of the event to w.
func formatEvent(w io.Writer, event log.Event) {
	// Header line: timestamp [session:id] DIRECTION CATEGORY Label
	ts := event.Timestamp.UTC().Format(timestampLayout)
	session := shortenSessionID(event.SessionID)

	fmt.Fprintf(w, "%s [session:%s] %-3s %s %s\n",
		ts, session, event.Direction.String(), event.Category.String(), eventLabel(event))

	switch {
	case event.Command != nil:
		fmt.Fprintf(w, "  > %s\n", event.Command.Text)
	case event.Line != nil:
		formatLineDetails(w, event.Line)
	case event.Phase != nil:
		formatPhaseDetails(w, event.Phase)
	case event.Error != nil:
		formatErrorDetails(w, event.Error)
	}
	if event.Port != "" && event.Phase != nil && event.Phase.Phase == log.PhaseStart {
		fmt.Fprintf(w, "  Port: %s\n", event.Port)
	}

	fmt.Fprintln(w)
}

// eventLabel names the payload of an event.
func eventLabel(event log.Event) string {
	switch {
	case event.Command != nil:
		return event.Command.Kind.String()
	case event.Line != nil:
		if event.Line.Invalid {
			return "Line (invalid)"
		}
		return "Line"
	case event.Phase != nil:
		return event.Phase.Phase.String()
	case event.Error != nil:
		return "Error"
	default:
		return "Unknown"
	}
}

// shortenSessionID returns the first 8 characters of the session ID.
func shortenSessionID(id string) string {
	if len(id) >= 8 {
		return id[:8]
	}
	return id
}

func formatLineDetails(w io.Writer, line *log.LineEvent) {
	fmt.Fprintf(w, "  < %s\n", line.Text)
	if len(line.Raw) > 0 {
		fmt.Fprintf(w, "  Raw: %s\n", hex.EncodeToString(line.Raw))
	}
}

func formatPhaseDetails(w io.Writer, phase *log.PhaseEvent) {
	if phase.Phase == log.PhaseWriteCycle {
		fmt.Fprintf(w, "  Iteration: %d\n", phase.Iteration)
	}
}

func formatErrorDetails(w io.Writer, err *log.ErrorEventData) {
	fmt.Fprintf(w, "  Message: %s\n", err.Message)
	if err.Context != "" {
		fmt.Fprintf(w, "  Context: %s\n", err.Context)
	}
}

// ParseDirectionFlag parses a direction string from command-line flag (case-insensitive).
func ParseDirectionFlag(s string) (log.Direction, error) {
	switch strings.ToLower(s) {
	case "local":
		return log.DirectionLocal, nil
	case "in":
		return log.DirectionIn, nil
	case "out":
		return log.DirectionOut, nil
	default:
		return 0, fmt.Errorf("invalid direction: %s (must be in, out, or local)", s)
	}
}

// ParseCategoryFlag parses a category string from command-line flag (case-insensitive).
func ParseCategoryFlag(s string) (log.Category, error) {
	switch strings.ToLower(s) {
	case "command":
		return log.CategoryCommand, nil
	case "line":
		return log.CategoryLine, nil
	case "phase":
		return log.CategoryPhase, nil
	case "error":
		return log.CategoryError, nil
	default:
		return 0, fmt.Errorf("invalid category: %s (must be command, line, phase, or error)", s)
	}
}

// RunView prints the events of a capture file that match filter.
func RunView(path string, filter log.Filter, output io.Writer) error {
	reader, err := log.NewFilteredReader(path, filter)
	if err != nil {
		return fmt.Errorf("failed to open capture file: %w", err)
	}
	defer reader.Close()

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}

		formatEvent(output, event)
	}

	return nil
}
