// Package interactive provides a manual readline console to a device shell,
// sharing the serial settings and capture of settings-fuzz.
package interactive

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/chzyer/readline"

	"github.com/LuDuda/settings-fuzz/internal/fuzz"
	"github.com/LuDuda/settings-fuzz/pkg/console"
)

// Console is the device console used by the session.
// Implemented by *console.Console.
type Console interface {
	Send(cmd console.Command) error
	Drain(mode console.DecodeMode) ([]string, error)
	Flush() error
}

// Session handles interactive mode for settings-fuzz.
type Session struct {
	con    Console
	delays fuzz.Delays
	rl     *readline.Instance
	out    io.Writer
	sleep  fuzz.SleepFunc
}

// New creates a session on an open console.
func New(con Console, delays fuzz.Delays) (*Session, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "console> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}

	return &Session{
		con:    con,
		delays: delays,
		rl:     rl,
		out:    rl.Stdout(),
		sleep:  fuzz.Sleep,
	}, nil
}

// Stdout returns a writer that coordinates with the readline prompt.
// Use this for log output to avoid interfering with the command prompt.
func (s *Session) Stdout() io.Writer {
	return s.out
}

// Run reads operator input until EOF, .exit or ctx is done.
func (s *Session) Run(ctx context.Context) error {
	defer s.rl.Close()

	if err := s.con.Flush(); err != nil {
		return fmt.Errorf("failed to flush console: %w", err)
	}
	s.printHelp()

	for {
		if ctx.Err() != nil {
			return nil
		}

		line, err := s.rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			}
			fmt.Fprintln(s.out, "Exiting...")
			return nil
		}

		quit, err := s.handle(ctx, line)
		if err != nil {
			return err
		}
		if quit {
			fmt.Fprintln(s.out, "Exiting...")
			return nil
		}
	}
}

// handle executes one input line. Console errors end the session.
func (s *Session) handle(ctx context.Context, line string) (quit bool, err error) {
	input := strings.TrimSpace(line)
	if input == "" {
		return false, nil
	}

	switch strings.ToLower(input) {
	case ".help", ".?":
		s.printHelp()
		return false, nil
	case ".exit", ".quit", ".q":
		return true, nil
	case ".list":
		return false, s.exchange(ctx, console.ListSettings(), s.delays.Settle)
	case ".free":
		return false, s.exchange(ctx, console.FreeSpace(), s.delays.FreeSpace)
	}

	if strings.HasPrefix(input, ".") {
		fmt.Fprintf(s.out, "Unknown command: %s (type '.help' for commands)\n", input)
		return false, nil
	}
	return false, s.exchange(ctx, console.Raw(input), s.delays.Settle)
}

// exchange sends cmd, waits wait and prints everything the device answered.
func (s *Session) exchange(ctx context.Context, cmd console.Command, wait time.Duration) error {
	if err := s.con.Send(cmd); err != nil {
		return err
	}
	if err := s.sleep(ctx, wait); err != nil {
		return err
	}

	lines, err := s.con.Drain(console.Lenient)
	if err != nil {
		return err
	}
	for _, l := range lines {
		fmt.Fprintln(s.out, l)
	}
	return nil
}

func (s *Session) printHelp() {
	fmt.Fprintln(s.out, `
Device console. Lines are sent to the device shell as typed.

  Shortcuts:
    .list    - settings list
    .free    - matter_settings free (waits for the device to compute)

  General:
    .help    - Show this help
    .exit    - Leave the console (Ctrl-D works too)`)
}
