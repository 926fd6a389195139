package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	charmlog "github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/bamsammich/cachefinder/internal/archive"
	"github.com/bamsammich/cachefinder/internal/config"
	"github.com/bamsammich/cachefinder/internal/engine"
	"github.com/bamsammich/cachefinder/internal/event"
	"github.com/bamsammich/cachefinder/internal/output"
	"github.com/bamsammich/cachefinder/internal/pattern"
	"github.com/bamsammich/cachefinder/internal/stats"
	"github.com/bamsammich/cachefinder/internal/ui"
)

var version = "dev"

func main() {
	os.Exit(run())
}

// patternFlag is a custom pflag.Value that keeps repeated --exclude and
// --mask-path values in command-line order.
type patternFlag struct {
	patterns *[]string
}

var _ pflag.Value = (*patternFlag)(nil)

func (*patternFlag) String() string { return "" }
func (*patternFlag) Type() string   { return "regex" }

func (f *patternFlag) Set(val string) error {
	*f.patterns = append(*f.patterns, val)
	return nil
}

type options struct {
	verbose     bool
	quiet       bool
	noTrailer   bool
	noProgress  bool
	showVersion bool
	compress    string
	bwLimit     string
	logFile     string
	configFile  string
	excludeFrom string
	maskFrom    string
	excludes    []string
	masks       []string
}

func run() int {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		var exitErr *exitError
		if errors.As(err, &exitErr) {
			return exitErr.code
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	var opts options

	rootCmd := &cobra.Command{
		Use:   "cachefinder [flags] <search_path> <output_path>",
		Short: "Find RuneScape client cache files and pack them into a tar archive",
		Long: `cachefinder walks search_path looking for directories and files left
behind by RuneScape game clients and writes them to a new tar archive at
output_path. Folder names above the cache are replaced by numbered
placeholders, and --mask-path hides any name that matches.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if opts.showVersion {
				return nil
			}
			return cobra.ExactArgs(2)(cmd, args)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.showVersion {
				fmt.Fprintf(cmd.OutOrStdout(), "cachefinder %s\n", version)
				return nil
			}
			return runScan(cmd, &opts, args[0], args[1])
		},
	}

	flags := rootCmd.Flags()
	flags.BoolVar(&opts.showVersion, "version", false, "print version and exit")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "report every directory scanned, excluded or archived")
	flags.BoolVarP(&opts.quiet, "quiet", "q", false, "suppress all output except errors")
	flags.Var(&patternFlag{patterns: &opts.excludes}, "exclude",
		"skip directories whose name matches REGEX (repeatable)")
	flags.Var(&patternFlag{patterns: &opts.masks}, "mask-path",
		"replace folder names matching REGEX with 'folder' (repeatable)")
	flags.StringVar(&opts.excludeFrom, "exclude-from", "", "read exclude patterns from FILE, one per line")
	flags.StringVar(&opts.maskFrom, "mask-from", "", "read mask patterns from FILE, one per line")
	flags.StringVar(&opts.compress, "compress", "none", "compress the archive: none, gzip, zstd or lz4")
	flags.StringVar(&opts.bwLimit, "bwlimit", "", "limit source read rate (e.g. 50M, 1GiB)")
	flags.BoolVar(&opts.noTrailer, "no-trailer", false, "omit the end-of-archive blocks")
	flags.StringVar(&opts.logFile, "log", "", "write structured JSON log to FILE")
	flags.StringVar(&opts.configFile, "config", "", "read configuration from FILE instead of the default location")
	flags.BoolVar(&opts.noProgress, "no-progress", false, "disable periodic progress lines")
	rootCmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	rootCmd.AddCommand(newLsCmd())
	rootCmd.AddCommand(newPatternsCmd())
	rootCmd.AddCommand(newDocsCmd())
	return rootCmd
}

//nolint:revive // cognitive-complexity: CLI entry point wires every component
func runScan(cmd *cobra.Command, opts *options, searchPath, outputPath string) error {
	cfg, err := loadConfig(opts.configFile)
	if err != nil {
		return err
	}
	applyConfigDefaults(cmd, cfg.Defaults, opts)

	closeLog, err := setupLogging(opts, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer closeLog()

	sets, err := buildSets(cfg.Patterns, opts)
	if err != nil {
		return err
	}

	compression, err := output.ParseCompression(opts.compress)
	if err != nil {
		return fmt.Errorf("invalid --compress: %w", err)
	}

	var writerOpts []archive.Option
	if opts.bwLimit != "" {
		n, err := config.ParseSize(opts.bwLimit)
		if err != nil {
			return fmt.Errorf("invalid --bwlimit: %w", err)
		}
		if n > 0 {
			writerOpts = append(writerOpts, archive.WithLimiter(archive.NewBWLimiter(n)))
		}
	}
	if !opts.noTrailer {
		writerOpts = append(writerOpts, archive.WithTrailer())
	}

	root, err := engine.ValidateRoot(searchPath)
	if err != nil {
		return err
	}
	sink, err := output.Create(outputPath, compression)
	if err != nil {
		return err
	}
	outAbs, err := filepath.Abs(outputPath)
	if err != nil {
		outAbs = outputPath
	}

	slog.Debug("starting scan",
		"root", root,
		"output", outAbs,
		"compress", string(compression),
		"bwlimit", opts.bwLimit,
		"trailer", !opts.noTrailer,
		"excludes", sets.Excludes.Len(),
		"masks", sets.Masks.Len(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	collector := stats.NewCollector()
	events := make(chan event.Event, 256)

	// When --log is set, tee events through a logging goroutine that
	// writes structured records before forwarding to the presenter.
	presenterEvents := (<-chan event.Event)(events)
	if opts.logFile != "" {
		presenterEvents = logEvents(events)
	}

	interval := 5 * time.Second
	if ui.IsTTY(os.Stderr.Fd()) {
		interval = time.Second
	}
	presenter := ui.NewPresenter(ui.Config{
		Writer:     cmd.OutOrStdout(),
		ErrWriter:  cmd.ErrOrStderr(),
		Stats:      collector,
		Interval:   interval,
		Quiet:      opts.quiet,
		Verbose:    opts.verbose,
		NoProgress: opts.noProgress,
	})

	aw := archive.NewWriter(sink, writerOpts...)

	var presenterErr error
	var presenterWg sync.WaitGroup
	presenterWg.Add(1)
	go func() {
		defer presenterWg.Done()
		presenterErr = presenter.Run(presenterEvents)
	}()

	result := engine.Run(ctx, engine.Config{
		Root:    root,
		Sets:    sets,
		Archive: aw,
		Events:  events,
		Stats:   collector,
		Skip:    outAbs,
	})
	stop()
	close(events)
	presenterWg.Wait()
	if presenterErr != nil {
		slog.Warn("presenter failed", "error", presenterErr)
	}

	closeErr := finish(aw, sink, result.Err)

	if !opts.quiet {
		if summary := presenter.Summary(); summary != "" {
			fmt.Fprintln(cmd.ErrOrStderr(), summary)
		}
	}
	for _, w := range result.Warnings {
		slog.Debug("skipped", "error", w)
	}
	if n := len(result.Warnings); n > 0 {
		slog.Warn("some entries were skipped", "count", n)
	}

	if result.Err != nil {
		slog.Error("scan failed", "error", result.Err, "archived", result.Stats.FilesArchived)
		return &exitError{code: 1}
	}
	if closeErr != nil {
		slog.Error("finish archive", "error", closeErr)
		return &exitError{code: 1}
	}
	slog.Info("archive written",
		"path", outAbs,
		"files", result.Stats.FilesArchived,
		"bytes", result.Stats.BytesArchived,
		"written", aw.Written(),
	)
	return nil
}

// finish writes the trailer and closes the output. After an archive write
// failure the stream is closed as it stands.
func finish(aw *archive.Writer, sink *output.Sink, scanErr error) error {
	var errs []error
	if !archive.IsFatal(scanErr) {
		if err := aw.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := sink.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close %s: %w", sink.Path(), err))
	}
	return errors.Join(errs...)
}

// loadConfig reads --config or, without it, the default config file. Only
// a missing default file is ignored; an unreadable or invalid one fails
// the scan before anything is written.
func loadConfig(path string) (config.Config, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	return config.Load()
}

// applyConfigDefaults applies config file defaults for flags not explicitly set on the CLI.
func applyConfigDefaults(cmd *cobra.Command, defaults config.DefaultsConfig, opts *options) {
	flags := cmd.Flags()
	if !flags.Changed("verbose") && !flags.Changed("quiet") && defaults.Verbose != nil {
		opts.verbose = *defaults.Verbose
	}
	if !flags.Changed("compress") && defaults.Compress != nil {
		opts.compress = *defaults.Compress
	}
	if !flags.Changed("bwlimit") && defaults.BWLimit != nil {
		opts.bwLimit = *defaults.BWLimit
	}
	if !flags.Changed("no-trailer") && defaults.Trailer != nil {
		opts.noTrailer = !*defaults.Trailer
	}
}

// buildSets compiles the pattern sets. Config patterns come first, then
// pattern files, then patterns given as flags.
func buildSets(cfg config.PatternsConfig, opts *options) (*pattern.Sets, error) {
	excludes := append([]string(nil), cfg.Exclude...)
	masks := append([]string(nil), cfg.MaskPath...)

	if opts.excludeFrom != "" {
		ps, err := pattern.LoadFile(opts.excludeFrom)
		if err != nil {
			return nil, err
		}
		excludes = append(excludes, ps...)
	}
	if opts.maskFrom != "" {
		ps, err := pattern.LoadFile(opts.maskFrom)
		if err != nil {
			return nil, err
		}
		masks = append(masks, ps...)
	}
	excludes = append(excludes, opts.excludes...)
	masks = append(masks, opts.masks...)

	return pattern.NewSets(pattern.Options{ExtraExcludes: excludes, Masks: masks})
}

// setupLogging installs the default slog logger: a console handler on
// stderr and, with --log, a JSON handler on the log file. Every record
// carries the run id.
func setupLogging(opts *options, stderr io.Writer) (func(), error) {
	level := charmlog.InfoLevel
	switch {
	case opts.verbose:
		level = charmlog.DebugLevel
	case opts.quiet:
		level = charmlog.WarnLevel
	}
	console := charmlog.NewWithOptions(stderr, charmlog.Options{
		Level:           level,
		Prefix:          "cachefinder",
		ReportTimestamp: opts.verbose,
	})

	var handler slog.Handler = console
	closeFn := func() {}
	if opts.logFile != "" {
		lf, err := os.Create(opts.logFile)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		closeFn = func() { lf.Close() } //nolint:errcheck // log file close is best-effort
		jsonHandler := slog.NewJSONHandler(lf, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})
		handler = ui.NewMultiHandler(console, jsonHandler)
	}

	logger := slog.New(handler).With("run", uuid.NewString())
	slog.SetDefault(logger)
	return closeFn, nil
}

// logEvents writes one structured record per event and forwards the
// event. The returned channel closes when in does.
func logEvents(in <-chan event.Event) <-chan event.Event {
	out := make(chan event.Event, cap(in))
	go func() {
		defer close(out)
		for ev := range in {
			attrs := []slog.Attr{
				slog.String("type", ev.Type.String()),
				slog.String("path", ev.Path),
			}
			if ev.Name != "" {
				attrs = append(attrs, slog.String("name", ev.Name))
			}
			if ev.Reason != "" {
				attrs = append(attrs, slog.String("reason", ev.Reason))
			}
			if ev.Size > 0 {
				attrs = append(attrs, slog.Int64("size", ev.Size))
			}
			if ev.Unit > 0 {
				attrs = append(attrs, slog.Int64("unit", ev.Unit))
			}
			if ev.Error != nil {
				attrs = append(attrs, slog.String("error", ev.Error.Error()))
			}
			slog.LogAttrs(context.Background(), slog.LevelDebug, "scan.event", attrs...)
			out <- ev
		}
	}()
	return out
}

type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit code %d", e.code)
}
