package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/toyz/measuregen/internal/cli"
	"github.com/toyz/measuregen/internal/utils"
)

// errReported marks a failure that was already printed
var errReported = errors.New("reported")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := newRootCmd(stdout, stderr)
	root.SetArgs(args)

	if err := root.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintf(stderr, "Error: %v\n", err)
		}
		return 1
	}
	return 0
}

// options holds the raw flag values shared by every command
type options struct {
	configFile string
	flags      cli.Config
	stdout     io.Writer
	stderr     io.Writer
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	o := &options{stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:   "measuregen [directories...]",
		Short: "Generate timing wrappers for methods marked //measure::measured",
		Long: `measuregen scans Go packages for methods whose doc comment carries the
//measure::measured annotation and writes a Measured<Type> wrapper next to
each type. Wrapped calls print "<method> from <Type> took <ms> ms".

Directories ending in /... are scanned recursively, e.g. ./... or ./internal/...`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          o.runGenerate,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	flags := root.PersistentFlags()
	flags.StringVar(&o.configFile, "config", "", "YAML config file (default "+cli.DefaultConfigFile+" when present)")
	flags.StringVar(&o.flags.ModuleName, "module", "", "Custom module name for imports (defaults to go.mod module)")
	flags.BoolVarP(&o.flags.Verbose, "verbose", "v", false, "Enable verbose output and detailed error reporting")
	flags.BoolVarP(&o.flags.Quiet, "quiet", "q", false, "Only show errors and final results")
	flags.StringArrayVar(&o.flags.Exclude, "exclude", nil, "Doublestar pattern of directories to skip (repeatable)")
	flags.IntVar(&o.flags.Workers, "workers", 0, "Types generated in parallel (0 means one per CPU)")
	flags.BoolVar(&o.flags.DryRun, "dry-run", false, "Show what would be written or removed without touching files")

	root.AddCommand(
		&cobra.Command{
			Use:   "generate [directories...]",
			Short: "Generate wrappers (the default command)",
			Args:  cobra.ArbitraryArgs,
			RunE:  o.runGenerate,
		},
		&cobra.Command{
			Use:   "clean [directories...]",
			Short: "Delete generated autogen_measured_*.go files",
			Args:  cobra.ArbitraryArgs,
			RunE:  o.runClean,
		},
		&cobra.Command{
			Use:   "watch [directories...]",
			Short: "Regenerate whenever a Go source file changes",
			Args:  cobra.ArbitraryArgs,
			RunE:  o.runWatch,
		},
	)

	return root
}

// config layers flags that were set explicitly over the config file
func (o *options) config(cmd *cobra.Command, args []string) (cli.Config, error) {
	path := o.configFile
	if path == "" {
		if _, err := os.Stat(cli.DefaultConfigFile); err == nil {
			path = cli.DefaultConfigFile
		}
	}

	var cfg cli.Config
	if path != "" {
		loaded, err := cli.LoadConfig(path)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("module") {
		cfg.ModuleName = o.flags.ModuleName
	}
	if flags.Changed("verbose") {
		cfg.Verbose = o.flags.Verbose
	}
	if flags.Changed("quiet") {
		cfg.Quiet = o.flags.Quiet
	}
	if flags.Changed("exclude") {
		cfg.Exclude = o.flags.Exclude
	}
	if flags.Changed("workers") {
		cfg.Workers = o.flags.Workers
	}
	cfg.DryRun = o.flags.DryRun
	if len(args) > 0 {
		cfg.Directories = args
	}

	return cfg, cfg.Validate()
}

func (o *options) setup(cmd *cobra.Command, args []string) (cli.Config, *utils.DiagnosticSystem, *cli.DiagnosticReporter, error) {
	cfg, err := o.config(cmd, args)
	if err != nil {
		return cfg, nil, nil, err
	}

	d := cfg.Diagnostics()
	if o.stdout != os.Stdout || o.stderr != os.Stderr {
		d.SetOutput(o.stdout, o.stderr)
	}
	reporter := cli.NewDiagnosticReporter(cfg.Verbose)
	reporter.SetOutput(o.stderr)

	d.Debug("Configuration: %+v", cfg)
	return cfg, d, reporter, nil
}

func (o *options) runGenerate(cmd *cobra.Command, args []string) error {
	cfg, d, reporter, err := o.setup(cmd, args)
	if err != nil {
		return err
	}

	d.Header("Generating measured wrappers")
	summary, err := cli.NewGenerator(d).Run(cmd.Context(), cfg)
	if summary != nil && summary.TypesFound+summary.Failures > 0 {
		d.Summary("Run "+summary.RunID, summary.Stats())
	}
	if err != nil {
		reporter.ReportError(err)
		return errReported
	}

	if summary.TypesFound == 0 {
		d.Warn("No methods marked //measure::measured were found")
	}
	d.GenerationComplete()
	return nil
}

func (o *options) runClean(cmd *cobra.Command, args []string) error {
	cfg, d, reporter, err := o.setup(cmd, args)
	if err != nil {
		return err
	}

	scanner, err := cli.NewDirectoryScanner(cfg.Exclude...)
	if err != nil {
		return err
	}

	d.Header("Cleaning generated wrappers")
	if cfg.DryRun {
		files, err := scanner.GeneratedFiles(cfg.Targets())
		if err != nil {
			return err
		}
		for _, file := range files {
			d.List("would remove %s", file)
		}
		return nil
	}

	result, err := cli.NewCleaner(scanner).CleanGeneratedFiles(cfg.Targets())
	if err != nil {
		d.Error("Clean operation failed: %v", err)
		return errReported
	}

	for _, file := range result.Removed {
		d.PhaseItem("Removed " + file)
	}
	for _, file := range result.Skipped {
		reporter.ReportWarning(fmt.Sprintf("%s has no generated-code header, left in place", file))
	}
	d.Success("Removed %d generated files", len(result.Removed))
	return nil
}

func (o *options) runWatch(cmd *cobra.Command, args []string) error {
	cfg, d, reporter, err := o.setup(cmd, args)
	if err != nil {
		return err
	}

	scanner, err := cli.NewDirectoryScanner(cfg.Exclude...)
	if err != nil {
		return err
	}

	generator := cli.NewGenerator(d)
	watcher := cli.NewWatcher(scanner, func(ctx context.Context) (*cli.GenerationSummary, error) {
		return generator.Run(ctx, cfg)
	}, d, cli.DefaultDebounce)

	watcher.OnRun = func(summary *cli.GenerationSummary, err error) {
		if errors.Is(err, context.Canceled) {
			return
		}
		if err != nil {
			reporter.ReportError(err)
		}
		if summary != nil {
			d.Summary("Run "+summary.RunID, summary.Stats())
		}
	}

	d.Header("Watching for changes (Ctrl+C to stop)")
	return watcher.Watch(cmd.Context(), cfg.Targets())
}
