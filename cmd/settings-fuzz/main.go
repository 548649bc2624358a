// Command settings-fuzz stress-tests the persistent settings store of an
// embedded device through its serial shell.
//
// It writes random digit strings under random keys, then optionally queries
// free space and factory resets the device, and finally lists what the store
// contains. All device output is printed as it is read.
//
// Usage:
//
//	settings-fuzz -p PORT [flags]
//
// Flags:
//
//	-p, --port string        Serial port of the device console (required)
//	-i, --iterations int     Number of write cycles (default 500)
//	--single_chunk int       Length of each written value (default 200)
//	-f, --factoryreset       Factory reset after writing
//	-s, --freespace          Query free settings space after writing
//	-seed int                Random seed (0 picks one from the clock)
//	-lenient                 Drop malformed bytes in write-cycle output
//	-config string           YAML run profile
//	-capture string          File path for console capture (CBOR format)
//	-log-level string        Log level: debug, info, warn, error
//	-interactive             Open a manual console instead of fuzzing
//
// Examples:
//
//	# 500 writes of 200 digits each
//	settings-fuzz -p /dev/ttyACM0
//
//	# Short soak with free space check and factory reset, captured to a file
//	settings-fuzz -p /dev/ttyACM0 -i 50 -s -f -capture run.clog
//
//	# Replay a run with the seed it logged
//	settings-fuzz -p /dev/ttyACM0 -seed 1718000000
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"

	"github.com/LuDuda/settings-fuzz/cmd/settings-fuzz/interactive"
	"github.com/LuDuda/settings-fuzz/internal/fuzz"
	"github.com/LuDuda/settings-fuzz/pkg/console"
	clog "github.com/LuDuda/settings-fuzz/pkg/log"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("settings-fuzz", flag.ContinueOnError)
	opts, err := parseFlags(fs, args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		// The flag package already reported parse errors.
		if errors.Is(err, errArgs) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		return 1
	}

	cfg, err := opts.config()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fs.Usage()
		return 1
	}

	setupLogging(opts.logLevel)

	capture, closeCapture, err := setupCapture(opts.capture, opts.logLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create capture: %v\n", err)
		return 1
	}
	defer closeCapture()
	if opts.capture != "" {
		log.Printf("Capture to: %s", opts.capture)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if opts.interactive {
		err = runInteractive(ctx, cfg, capture)
	} else {
		err = runFuzz(ctx, cfg, capture)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func runFuzz(ctx context.Context, cfg fuzz.Config, capture clog.Logger) error {
	d := fuzz.New(cfg, fuzz.SerialOpener(cfg), fuzz.WithLogger(capture))

	log.Printf("Port: %s", cfg.Port)
	log.Printf("Iterations: %d, value length: %d", cfg.Iterations, cfg.ValueLength)
	log.Printf("Seed: %d", d.Seed())
	log.Printf("Session: %s", d.SessionID())

	sum, err := d.Run(ctx)
	if err != nil {
		return err
	}

	log.Printf("Done: %d writes, %d lines read (free space: %v, factory reset: %v)",
		sum.Writes, sum.Lines, sum.FreeSpace, sum.FactoryReset)
	return nil
}

func runInteractive(ctx context.Context, cfg fuzz.Config, capture clog.Logger) error {
	con, err := console.Open(cfg.Port, cfg.ConsoleConfig())
	if err != nil {
		return err
	}
	defer con.Close()

	sessionID := uuid.NewString()
	con.SetLogger(capture, sessionID)

	sess, err := interactive.New(con, cfg.Delays)
	if err != nil {
		return err
	}
	log.SetOutput(sess.Stdout())
	defer log.SetOutput(os.Stderr)

	log.Printf("Connected to %s (session %s)", con.Path(), sessionID)
	return sess.Run(ctx)
}

func setupLogging(level string) {
	log.SetFlags(log.Ltime | log.Lmicroseconds)

	switch level {
	case "debug":
		log.SetFlags(log.Ltime | log.Lmicroseconds | log.Lshortfile)
	case "warn", "error":
		log.SetFlags(log.Ltime)
	}
}

// setupCapture combines the capture file and, at debug level, a text trace
// of console events on stderr.
func setupCapture(path, level string) (clog.Logger, func(), error) {
	var loggers []clog.Logger
	closeFn := func() {}

	if path != "" {
		fl, err := clog.NewFileLogger(path)
		if err != nil {
			return nil, nil, err
		}
		loggers = append(loggers, fl)
		closeFn = func() {
			if err := fl.Close(); err != nil {
				log.Printf("Error closing capture: %v", err)
			}
		}
	}

	if level == "debug" {
		handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})
		loggers = append(loggers, clog.NewSlogAdapter(slog.New(handler)))
	}

	return clog.NewMultiLogger(loggers...), closeFn, nil
}
