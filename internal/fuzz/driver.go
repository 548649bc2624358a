package fuzz

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/LuDuda/settings-fuzz/pkg/console"
	"github.com/LuDuda/settings-fuzz/pkg/log"
)

// Console is the part of a device console a run needs.
// Implemented by *console.Console.
type Console interface {
	// Send transmits one command line.
	Send(cmd console.Command) error

	// Drain reads and decodes all pending output lines.
	Drain(mode console.DecodeMode) ([]string, error)

	// Close releases the console.
	Close() error
}

// captureSetter is implemented by consoles that can report their traffic.
type captureSetter interface {
	SetLogger(logger log.Logger, sessionID string)
}

// OpenFunc acquires the console for a run.
type OpenFunc func(ctx context.Context) (Console, error)

// SerialOpener returns an OpenFunc that opens cfg.Port with go.bug.st/serial.
func SerialOpener(cfg Config) OpenFunc {
	return func(ctx context.Context) (Console, error) {
		c, err := console.Open(cfg.Port, cfg.ConsoleConfig())
		if err != nil {
			return nil, err
		}
		return c, nil
	}
}

// SleepFunc waits for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Summary counts what a run did.
type Summary struct {
	// Writes is the number of write commands sent.
	Writes int

	// Lines is the number of device output lines printed.
	Lines int

	FreeSpace    bool
	FactoryReset bool
	Listed       bool
}

// Driver executes a stress run.
type Driver struct {
	cfg       Config
	open      OpenFunc
	out       io.Writer
	logger    log.Logger
	sleep     SleepFunc
	gen       *Generator
	sessionID string
}

// Option customises a Driver.
type Option func(*Driver)

// WithOutput sets where device output is echoed (default os.Stdout).
func WithOutput(w io.Writer) Option {
	return func(d *Driver) { d.out = w }
}

// WithLogger sets the capture logger.
func WithLogger(l log.Logger) Option {
	return func(d *Driver) {
		if l != nil {
			d.logger = l
		}
	}
}

// WithSleep replaces the context-aware sleep, mainly for tests.
func WithSleep(s SleepFunc) Option {
	return func(d *Driver) { d.sleep = s }
}

// WithGenerator replaces the seeded generator.
func WithGenerator(g *Generator) Option {
	return func(d *Driver) { d.gen = g }
}

// New creates a Driver for cfg that acquires its console through open.
func New(cfg Config, open OpenFunc, opts ...Option) *Driver {
	d := &Driver{
		cfg:       cfg,
		open:      open,
		out:       os.Stdout,
		logger:    log.NoopLogger{},
		sleep:     Sleep,
		sessionID: uuid.NewString(),
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.gen == nil {
		d.gen = NewGenerator(cfg.Seed)
	}
	return d
}

// SessionID identifies this run in capture files.
func (d *Driver) SessionID() string {
	return d.sessionID
}

// Seed returns the generator seed of this run.
func (d *Driver) Seed() int64 {
	return d.gen.Seed()
}

// Run executes the write cycles and the enabled maintenance steps, then
// lists the device settings. The console is closed before Run returns.
// The first error aborts every remaining step.
func (d *Driver) Run(ctx context.Context) (sum Summary, err error) {
	fmt.Fprintln(d.out, "Start testing...")
	fmt.Fprintln(d.out)

	c, err := d.open(ctx)
	if err != nil {
		return sum, d.fail(err, "open")
	}
	defer func() {
		if cerr := c.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close console: %w", cerr)
		}
	}()
	if cs, ok := c.(captureSetter); ok {
		cs.SetLogger(d.logger, d.sessionID)
	}

	d.phase(log.PhaseStart, 0)

	for i := 0; i < d.cfg.Iterations; i++ {
		if err := d.writeCycle(ctx, c, i, &sum); err != nil {
			return sum, d.fail(err, fmt.Sprintf("write cycle %d", i))
		}
	}

	if d.cfg.FreeSpace {
		if err := d.freeSpace(ctx, c, &sum); err != nil {
			return sum, d.fail(err, "free space")
		}
	}

	if d.cfg.FactoryReset {
		if err := d.factoryReset(ctx, c, &sum); err != nil {
			return sum, d.fail(err, "factory reset")
		}
	}

	if err := d.list(ctx, c, &sum); err != nil {
		return sum, d.fail(err, "settings list")
	}

	d.phase(log.PhaseDone, 0)
	return sum, nil
}

func (d *Driver) writeCycle(ctx context.Context, c Console, i int, sum *Summary) error {
	d.phase(log.PhaseWriteCycle, i)
	fmt.Fprintf(d.out, "\nWriting. %d\n", i)

	// Stale output is read and dropped, never printed.
	if _, err := c.Drain(console.Lenient); err != nil {
		return err
	}

	key := d.cfg.KeyPrefix + d.gen.Key()
	value := d.gen.Value(d.cfg.ValueLength)

	if err := d.sleep(ctx, d.cfg.Delays.Settle); err != nil {
		return err
	}
	if err := c.Send(console.WriteSetting(key, value)); err != nil {
		return err
	}
	sum.Writes++

	if err := d.sleep(ctx, d.cfg.Delays.Settle); err != nil {
		return err
	}
	if err := d.echo(c, d.cfg.loopMode(), sum); err != nil {
		return err
	}
	return d.sleep(ctx, d.cfg.Delays.Settle)
}

func (d *Driver) freeSpace(ctx context.Context, c Console, sum *Summary) error {
	d.phase(log.PhaseFreeSpace, 0)

	if err := c.Send(console.FreeSpace()); err != nil {
		return err
	}
	sum.FreeSpace = true

	if err := d.sleep(ctx, d.cfg.Delays.FreeSpace); err != nil {
		return err
	}
	return d.echo(c, d.cfg.loopMode(), sum)
}

// factoryReset does not drain: the device is rebooting.
func (d *Driver) factoryReset(ctx context.Context, c Console, sum *Summary) error {
	d.phase(log.PhaseFactoryReset, 0)
	fmt.Fprintln(d.out, "\nPerforming Factory Reset.")

	if err := c.Send(console.FactoryReset()); err != nil {
		return err
	}
	sum.FactoryReset = true

	return d.sleep(ctx, d.cfg.Delays.FactoryReset)
}

func (d *Driver) list(ctx context.Context, c Console, sum *Summary) error {
	d.phase(log.PhaseList, 0)
	fmt.Fprintln(d.out, "\nContent of the settings.")

	if err := c.Send(console.ListSettings()); err != nil {
		return err
	}
	sum.Listed = true

	if err := d.sleep(ctx, d.cfg.Delays.Settle); err != nil {
		return err
	}
	return d.echo(c, console.Lenient, sum)
}

// echo drains the console and prints every line, including the lines
// decoded before a strict decode failure.
func (d *Driver) echo(c Console, mode console.DecodeMode, sum *Summary) error {
	lines, err := c.Drain(mode)
	for _, line := range lines {
		fmt.Fprintln(d.out, line)
	}
	sum.Lines += len(lines)
	return err
}

func (d *Driver) phase(p log.Phase, iteration int) {
	d.logger.Log(log.Event{
		Timestamp: time.Now(),
		SessionID: d.sessionID,
		Direction: log.DirectionLocal,
		Category:  log.CategoryPhase,
		Port:      d.cfg.Port,
		Phase:     &log.PhaseEvent{Phase: p, Iteration: iteration},
	})
}

func (d *Driver) fail(err error, step string) error {
	d.logger.Log(log.Event{
		Timestamp: time.Now(),
		SessionID: d.sessionID,
		Direction: log.DirectionLocal,
		Category:  log.CategoryError,
		Port:      d.cfg.Port,
		Error:     &log.ErrorEventData{Message: err.Error(), Context: step},
	})
	return fmt.Errorf("%s: %w", step, err)
}

// Sleep waits for d or until ctx is done. Non-positive durations return at
// once.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
