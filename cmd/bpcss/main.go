package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"bpcss/breakpoints"
	"bpcss/config"
	"bpcss/css"
	"bpcss/misc"
)

// env carries per-invocation application state through the command context.
type env struct {
	Cfg *config.Config
	Log *zap.Logger
}

type envKeyType int

const envKey envKeyType = 0

func envFromContext(ctx context.Context) *env {
	if e, ok := ctx.Value(envKey).(*env); ok {
		return e
	}
	return &env{}
}

// initializeAppContext prepares application context before command execution
// but after command line has been parsed.
func initializeAppContext(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	e := &env{}

	var err error
	if e.Cfg, err = config.LoadConfiguration(cmd.String("config")); err != nil {
		return ctx, fmt.Errorf("unable to prepare configuration: %w", err)
	}
	if cmd.Bool("debug") {
		e.Cfg.Logging.Console.Level = "debug"
	}
	if e.Log, err = e.Cfg.Logging.Prepare(); err != nil {
		return ctx, fmt.Errorf("unable to prepare logs: %w", err)
	}
	e.Log.Debug("Program started",
		zap.Strings("args", os.Args),
		zap.String("ver", misc.GetVersion()),
		zap.String("runtime", runtime.Version()))
	return context.WithValue(ctx, envKey, e), nil
}

func destroyAppContext(ctx context.Context, cmd *cli.Command) error {
	e := envFromContext(ctx)
	if e.Log != nil {
		e.Log.Debug("Program ended", zap.Strings("parsed args", cmd.Args().Slice()))
		e.Log.Sync() //nolint:errcheck
	}
	return nil
}

var errWasHandled bool

func exitErrHandler(ctx context.Context, _ *cli.Command, err error) {
	e := envFromContext(ctx)
	if e.Log != nil && err != nil {
		e.Log.Error("Program ended with error", zap.Error(err))
		errWasHandled = true
	}
}

func usageErrorHandler(_ context.Context, _ *cli.Command, err error, _ bool) error {
	return err
}

// runProcess transforms every SOURCE stylesheet. Failing files do not stop
// processing of the remaining ones; all failures are reported together.
func runProcess(ctx context.Context, cmd *cli.Command) error {
	e := envFromContext(ctx)

	sources := cmd.Args().Slice()
	if len(sources) == 0 {
		return errors.New("nothing to do, no input files specified")
	}

	outDir := cmd.String("output")
	if outDir != "" {
		if err := os.MkdirAll(outDir, 0o755); err != nil {
			return fmt.Errorf("unable to create output directory: %w", err)
		}
	}

	parser := css.NewParser(e.Log)
	transformer := breakpoints.New(e.Cfg.Transform.Options(), e.Log)

	var errs error
	for _, src := range sources {
		if err := processFile(e, parser, transformer, src, outDir, cmd.Bool("overwrite")); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", src, err))
		}
	}
	return errs
}

func processFile(e *env, parser *css.Parser, transformer *breakpoints.Transformer, src, outDir string, overwrite bool) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}

	sheet := parser.Parse(data, src)
	for _, w := range sheet.Warnings {
		e.Log.Warn("Parser warning", zap.String("source", src), zap.String("warning", w))
	}

	if err := transformer.Transform(sheet); err != nil {
		return err
	}

	if outDir == "" {
		fmt.Print(sheet.String())
		return nil
	}

	dst := filepath.Join(outDir, filepath.Base(src))
	if !overwrite {
		if _, err := os.Stat(dst); err == nil {
			return fmt.Errorf("destination %q already exists (use --overwrite)", dst)
		}
	}
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()
	if _, err := sheet.WriteTo(out); err != nil {
		return err
	}
	e.Log.Info("Processed stylesheet", zap.String("source", src), zap.String("destination", dst))
	return nil
}

// outputConfiguration dumps the active configuration (defaults overlaid with
// the configuration file, if any).
func outputConfiguration(ctx context.Context, cmd *cli.Command) error {
	e := envFromContext(ctx)

	cfg := e.Cfg
	if cmd.Bool("default") {
		cfg = config.Default()
	}
	data, err := config.Dump(cfg)
	if err != nil {
		return err
	}
	if dst := cmd.Args().First(); dst != "" {
		return os.WriteFile(dst, data, 0o644)
	}
	_, err = os.Stdout.Write(data)
	return err
}

func main() {

	// allow graceful shutdown on interrupt
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	app := &cli.Command{
		Name:            misc.GetAppName(),
		Usage:           "breakpoint preprocessor for CSS stylesheets",
		Version:         misc.GetVersion() + " (" + runtime.Version() + ") : " + misc.GetGitHash(),
		HideHelpCommand: true,
		Before:          initializeAppContext,
		After:           destroyAppContext,
		OnUsageError:    usageErrorHandler,
		ExitErrHandler:  exitErrHandler,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, DefaultText: "", Usage: "load configuration from `FILE` (YAML)"},
			&cli.BoolFlag{Name: "debug", Aliases: []string{"d"}, Usage: "enable debug logging"},
		},
		Commands: []*cli.Command{
			{
				Name:         "process",
				Usage:        "Rewrites named @media breakpoints in CSS file(s)",
				OnUsageError: usageErrorHandler,
				Action:       runProcess,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "output", Aliases: []string{"o"},
						Usage: "write results to `DIRECTORY` instead of STDOUT, keeping input file names"},
					&cli.BoolFlag{Name: "overwrite", Aliases: []string{"ow"},
						Usage: "continue even if destination exists, overwrite files"},
				},
				ArgsUsage: "SOURCE...",
			},
			{
				Name:  "dumpconfig",
				Usage: "Dumps either default or actual configuration (YAML)",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "default", Usage: "output default embedded configuration"},
				},
				OnUsageError: usageErrorHandler,
				Action:       outputConfiguration,
				ArgsUsage:    "DESTINATION",
			},
		},
	}

	err := app.Run(ctx, os.Args)
	stop()
	if err != nil {
		if !errWasHandled {
			fmt.Fprintf(os.Stderr, "ERROR %s\n", err.Error())
		}
		os.Exit(1)
	}
}
