// Package log provides structured capture of device console traffic.
//
// This package defines the Logger interface and Event types for recording
// everything the harness sends to and receives from a device console. It is
// separate from operational logging (the standard log package) - a capture is
// a complete machine-readable trace for post-mortem analysis of a run that
// crashed or corrupted the settings store.
//
// # Basic Usage
//
//	// For development: log to console via slog
//	logger := log.NewSlogAdapter(slog.Default())
//
//	// For soak runs: write to a binary capture file
//	logger, _ := log.NewFileLogger("/tmp/settings.clog")
//
//	// Both: use MultiLogger
//	logger := log.NewMultiLogger(
//	    log.NewSlogAdapter(slog.Default()),
//	    fileLogger,
//	)
//
// # Event Types
//
//   - Command: a command line sent to the device (CommandEvent)
//   - Line: a response line read back (LineEvent)
//   - Phase: a step of the run started (PhaseEvent)
//   - Error: the run aborted (ErrorEventData)
//
// # File Format
//
// Capture files are a sequence of CBOR-encoded events, conventionally with a
// .clog extension. The console-log tool views, filters and exports them.
package log
