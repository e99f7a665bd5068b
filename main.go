// system-graph prints minimal sparkline graphs of system resources.
//
// Every invocation takes one sample of the host counters, adds it to a
// small history file and prints one line rendered from a template.
//
// Usage:
//
//	system-graph [flags]
//
// Flags:
//
//	-file string        History file (default: $TMPDIR/.<uid>.system-graph)
//	-max-points int     Data points per series (default: 25)
//	-format string      Template of the printed line
//	-config string      Path to configuration file (default: ~/.config/system-graph/config.yaml)
//	-provider string    Sample provider (proc|gopsutil|mock)
//	-color string       Color mode (auto|always|never)
//	-no-save            Do not add the new sample to the history file
//	-verbose            Enable debug logging
//	-help-format        Print the template language reference
//	-shell string       Print prompt integration for a shell (bash|zsh|fish|nushell)
//	-man                Print man page to stdout in roff format
//	-version            Print version and exit
//
// Arguments stored one per line in $XDG_CONFIG_HOME/system-graph/system-graphrc
// or ~/.system-graphrc are read before the command line.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"

	"gitlab.com/tinyland/lab/system-graph/cache"
	"gitlab.com/tinyland/lab/system-graph/collectors"
	"gitlab.com/tinyland/lab/system-graph/collectors/psutil"
	"gitlab.com/tinyland/lab/system-graph/collectors/sysmetrics"
	"gitlab.com/tinyland/lab/system-graph/config"
	"gitlab.com/tinyland/lab/system-graph/display/color"
	"gitlab.com/tinyland/lab/system-graph/docs/manpage"
	"gitlab.com/tinyland/lab/system-graph/graph"
	"gitlab.com/tinyland/lab/system-graph/history"
	"gitlab.com/tinyland/lab/system-graph/shell"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	cancel()
	os.Exit(code)
}

// options holds the parsed command line.
type options struct {
	file       string
	maxPoints  int
	format     string
	configPath string
	provider   string
	color      string
	noSave     bool
	verbose    bool
	helpFormat bool
	shellName  string
	showMan    bool
	version    bool

	// set records the flags given explicitly.
	set map[string]bool
}

// parseArgs parses rc-file arguments followed by the command line, so
// flags on the command line win over the rc file.
func parseArgs(args []string, stderr io.Writer) (*options, error) {
	opts := &options{set: make(map[string]bool)}

	fs := flag.NewFlagSet("system-graph", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.file, "file", "", "History file (default: $TMPDIR/.<uid>.system-graph)")
	fs.IntVar(&opts.maxPoints, "max-points", history.DefaultMaxPoints, "Data points per series")
	fs.StringVar(&opts.format, "format", graph.DefaultFormat, "Template of the printed line (see -help-format)")
	fs.StringVar(&opts.configPath, "config", "", "Path to configuration file (default: "+config.DefaultPath()+")")
	fs.StringVar(&opts.provider, "provider", "", "Sample provider ("+strings.Join(config.Providers, "|")+")")
	fs.StringVar(&opts.color, "color", "", "Color mode ("+strings.Join(config.ColorModes, "|")+")")
	fs.BoolVar(&opts.noSave, "no-save", false, "Do not add the new sample to the history file")
	fs.BoolVar(&opts.verbose, "verbose", false, "Enable debug logging")
	fs.BoolVar(&opts.helpFormat, "help-format", false, "Print the template language reference")
	fs.StringVar(&opts.shellName, "shell", "", "Print prompt integration for a shell ("+strings.Join(shell.Names, "|")+")")
	fs.BoolVar(&opts.showMan, "man", false, "Print man page to stdout in roff format")
	fs.BoolVar(&opts.version, "version", false, "Print version and exit")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected argument %q", fs.Arg(0))
	}
	fs.Visit(func(f *flag.Flag) { opts.set[f.Name] = true })
	return opts, nil
}

// apply overrides cfg with the flags given explicitly.
func (o *options) apply(cfg *config.Config) {
	if o.set["file"] {
		cfg.General.File = o.file
	}
	if o.set["max-points"] {
		cfg.General.MaxPoints = o.maxPoints
	}
	if o.set["format"] {
		cfg.General.Format = o.format
	}
	if o.set["provider"] {
		cfg.Collector.Provider = o.provider
	}
	if o.set["color"] {
		cfg.Display.Color = o.color
	}
	if o.verbose {
		cfg.Log.Level = "debug"
	}
}

// newRegistry registers every sample provider the binary ships.
func newRegistry(logger *slog.Logger) *collectors.Registry {
	reg := collectors.NewRegistry()
	reg.Register(sysmetrics.NewProcProvider(logger))
	reg.Register(psutil.New(logger))
	reg.Register(&collectors.MockProvider{})
	return reg
}

// run executes one invocation and returns the exit status.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	rcArgs, rcPath, err := config.ReadRC(config.RCPaths())
	if err != nil {
		fmt.Fprintf(stderr, "system-graph: %v\n", err)
		return 1
	}

	opts, err := parseArgs(append(rcArgs, args...), stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(stderr, "system-graph: %v\n", err)
		return 2
	}

	// ---------------------------------------------------------------
	// Commands that don't require config
	// ---------------------------------------------------------------

	if opts.version {
		fmt.Fprintf(stdout, "system-graph %s (%s) built %s\n", version, commit, date)
		return 0
	}
	if opts.helpFormat {
		fmt.Fprint(stdout, manpage.FormatHelp)
		return 0
	}
	if opts.shellName != "" {
		sh, err := shell.ParseShell(opts.shellName)
		if err != nil {
			fmt.Fprintf(stderr, "system-graph: %v\n", err)
			return 2
		}
		integration := shell.DefaultIntegrationConfig()
		integration.ConfigPath = opts.configPath
		fmt.Fprint(stdout, shell.GenerateIntegration(sh, integration))
		return 0
	}
	if opts.showMan {
		fmt.Fprint(stdout, manpage.Generate(version, commit, date, newRegistry(nil).All()))
		return 0
	}

	// ---------------------------------------------------------------
	// Configuration: defaults < yaml < env < rc file < flags
	// ---------------------------------------------------------------

	configPath := opts.configPath
	if configPath == "" {
		configPath = config.DefaultPath()
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		fmt.Fprintf(stderr, "system-graph: %v\n", err)
		return 1
	}
	if err := config.LoadEnvFile(config.DefaultEnvFile()); err != nil {
		fmt.Fprintf(stderr, "system-graph: %v\n", err)
		return 1
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		fmt.Fprintf(stderr, "system-graph: %v\n", err)
		return 1
	}
	opts.apply(cfg)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "system-graph: invalid configuration: %v\n", err)
		return 1
	}

	logger, closeLog, err := newLogger(cfg.Log, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "system-graph: %v\n", err)
		return 1
	}
	defer closeLog()
	if rcPath != "" {
		logger.Debug("read rc file", "path", rcPath, "args", len(rcArgs))
	}

	// Compile before sampling so a bad template never touches the history.
	tmpl, err := graph.Compile(cfg.General.Format)
	if err != nil {
		fmt.Fprintf(stderr, "system-graph: %v\n", err)
		return 1
	}

	store, err := cache.NewStore(cfg.General.File, logger)
	if err != nil {
		fmt.Fprintf(stderr, "system-graph: %v\n", err)
		return 1
	}
	hist := loadHistory(store, cfg.General.MaxPoints, logger)

	timeout, _ := cfg.Timeout()
	res, err := newRegistry(logger).Sample(ctx, cfg.Collector.Provider, timeout)
	if err != nil {
		fmt.Fprintf(stderr, "system-graph: %v\n", err)
		return 1
	}
	for _, w := range res.Warnings {
		logger.Warn("sample warning", "provider", res.Provider, "warning", w)
	}
	hist.Push(res.Sample)

	series := history.Build(hist, runtime.NumCPU())
	line, err := tmpl.Execute(series)
	if err != nil {
		fmt.Fprintf(stderr, "system-graph: %v\n", err)
		return 1
	}

	mode, _ := color.ParseMode(cfg.Display.Color)
	if color.Apply(mode) {
		line = color.Style(line, cfg.Display.Foreground)
	}
	fmt.Fprintln(stdout, line)

	if opts.noSave {
		return 0
	}
	if err := cache.SaveTyped(store, hist.ToFile()); err != nil {
		logger.Error("failed to save history", "path", store.Path(), "error", err)
		return 1
	}
	logger.Debug("history saved", "path", store.Path(), "samples", hist.Len())
	return 0
}

// loadHistory reads the stored history. An unreadable or unsupported file
// starts a fresh history.
func loadHistory(store *cache.Store, maxPoints int, logger *slog.Logger) *history.History {
	file, err := cache.LoadTyped[history.File](store)
	if err != nil {
		logger.Warn("cannot read history, starting fresh", "path", store.Path(), "error", err)
		return history.New(maxPoints, nil)
	}
	hist, err := history.FromFile(file, maxPoints)
	if err != nil {
		logger.Warn("discarding history", "path", store.Path(), "error", err)
		return history.New(maxPoints, nil)
	}
	logger.Debug("history loaded", "path", store.Path(), "samples", hist.Len())
	return hist
}

// newLogger builds the text logger for cfg. Logs go to stderr unless a log
// file is configured; stdout carries only the rendered line.
func newLogger(cfg config.LogConfig, stderr io.Writer) (*slog.Logger, func(), error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		return nil, nil, fmt.Errorf("log.level: %w", err)
	}

	out := stderr
	closeFn := func() {}
	if cfg.File != "" {
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		out = f
		closeFn = func() { _ = f.Close() }
	}

	logger := slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: level}))
	return logger, closeFn, nil
}
