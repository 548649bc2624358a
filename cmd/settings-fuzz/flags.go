package main

import (
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/LuDuda/settings-fuzz/internal/fuzz"
)

// options holds the parsed command line.
type options struct {
	port         string
	iterations   int
	singleChunk  int
	factoryReset bool
	freeSpace    bool
	seed         int64
	lenient      bool

	configFile  string
	capture     string
	logLevel    string
	interactive bool

	// set records the flags given explicitly, by canonical name.
	set map[string]bool
}

// errArgs reports positional arguments, which the command does not take.
var errArgs = errors.New("unexpected arguments")

// aliases maps short flag names to their long form.
var aliases = map[string]string{
	"p": "port",
	"i": "iterations",
	"f": "factoryreset",
	"s": "freespace",
}

// parseFlags registers the command line on fs and parses args.
func parseFlags(fs *flag.FlagSet, args []string) (*options, error) {
	def := fuzz.DefaultConfig()
	o := &options{set: make(map[string]bool)}

	fs.StringVar(&o.port, "p", "", "Serial port of the device console (shorthand)")
	fs.StringVar(&o.port, "port", "", "Serial port of the device console, e.g. /dev/ttyACM0")
	fs.IntVar(&o.iterations, "i", def.Iterations, "Number of write cycles (shorthand)")
	fs.IntVar(&o.iterations, "iterations", def.Iterations, "Number of write cycles")
	fs.IntVar(&o.singleChunk, "single_chunk", def.ValueLength, "Length of each written value in digits")
	fs.BoolVar(&o.factoryReset, "f", false, "Factory reset after writing (shorthand)")
	fs.BoolVar(&o.factoryReset, "factoryreset", false, "Factory reset after writing")
	fs.BoolVar(&o.freeSpace, "s", false, "Query free settings space after writing (shorthand)")
	fs.BoolVar(&o.freeSpace, "freespace", false, "Query free settings space after writing")
	fs.Int64Var(&o.seed, "seed", 0, "Random seed (0 picks one from the clock)")
	fs.BoolVar(&o.lenient, "lenient", false, "Drop malformed bytes in write-cycle output instead of failing")

	fs.StringVar(&o.configFile, "config", "", "YAML run profile")
	fs.StringVar(&o.capture, "capture", "", "File path for console capture (CBOR format)")
	fs.StringVar(&o.logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	fs.BoolVar(&o.interactive, "interactive", false, "Open a manual console instead of fuzzing")

	fs.Usage = func() { usage(fs) }

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("%w: %v", errArgs, fs.Args())
	}

	fs.Visit(func(f *flag.Flag) {
		name := f.Name
		if long, ok := aliases[name]; ok {
			name = long
		}
		o.set[name] = true
	})
	return o, nil
}

// config builds the run configuration: defaults, then the profile, then
// flags given on the command line.
func (o *options) config() (fuzz.Config, error) {
	cfg := fuzz.DefaultConfig()

	if o.configFile != "" {
		p, err := fuzz.LoadProfile(o.configFile)
		if err != nil {
			return cfg, err
		}
		p.Apply(&cfg)
	}

	if o.set["port"] {
		cfg.Port = o.port
	}
	if o.set["iterations"] {
		cfg.Iterations = o.iterations
	}
	if o.set["single_chunk"] {
		cfg.ValueLength = o.singleChunk
	}
	if o.set["factoryreset"] {
		cfg.FactoryReset = o.factoryReset
	}
	if o.set["freespace"] {
		cfg.FreeSpace = o.freeSpace
	}
	if o.set["seed"] {
		cfg.Seed = o.seed
	}
	if o.set["lenient"] {
		cfg.LenientLoop = o.lenient
	}
	return cfg, nil
}

func usage(fs *flag.FlagSet) {
	w := fs.Output()
	fmt.Fprintf(w, "Usage: %s -p PORT [flags]\n\n", fs.Name())
	fmt.Fprintln(w, "Writes random values under random keys to a device settings store")
	fmt.Fprintln(w, "over its serial shell, then optionally queries free space, factory")
	fmt.Fprintln(w, "resets and lists what remains.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	printDefaults(w, fs)
}

// printDefaults prints flags without repeating the short aliases.
func printDefaults(w io.Writer, fs *flag.FlagSet) {
	short := make(map[string]string, len(aliases))
	for s, long := range aliases {
		short[long] = s
	}

	fs.VisitAll(func(f *flag.Flag) {
		if _, ok := aliases[f.Name]; ok {
			return
		}
		name := "-" + f.Name
		if s, ok := short[f.Name]; ok {
			name = "-" + s + ", --" + f.Name
		}
		def := ""
		if f.DefValue != "" && f.DefValue != "false" && f.DefValue != "0" {
			def = fmt.Sprintf(" (default %s)", f.DefValue)
		}
		fmt.Fprintf(w, "  %-22s %s%s\n", name, f.Usage, def)
	})
}
