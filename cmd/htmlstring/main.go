package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	flag "github.com/spf13/pflag"

	"github.com/hyperifyio/htmlstring/internal/app"
	"github.com/hyperifyio/htmlstring/internal/convert"
)

// errVersion stops parsing after --version has been printed.
var errVersion = errors.New("version requested")

func main() {
	// Logging setup
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := parseArgs(os.Args[1:], os.Stdout)
	if errors.Is(err, errVersion) {
		return
	}
	if err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			log.Error().Err(err).Msg("invalid arguments")
		}
		os.Exit(2)
	}
	setupLogging(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		os.Exit(exitCode(err))
	}
}

// parseArgs layers configuration: defaults, then the config file, then
// environment, then flags the user set explicitly.
func parseArgs(args []string, stdout io.Writer) (app.Config, error) {
	fs := flag.NewFlagSet("htmlstring", flag.ContinueOnError)
	var (
		mode        string
		configPath  string
		watch       bool
		strictPerms bool
		verbose     bool
		logJSON     bool
		version     bool
	)
	fs.StringVarP(&mode, "mode", "m", app.DefaultMode, "Output mode: json (<name>.json) or base64 (<name>.b64)")
	fs.StringVar(&configPath, "config", os.Getenv(app.EnvConfig), "Path to a YAML or JSON config file")
	fs.BoolVarP(&watch, "watch", "w", false, "Convert again whenever an input file changes")
	fs.BoolVar(&strictPerms, "strict-perms", false, "Write artifacts with 0600 permissions")
	fs.BoolVarP(&verbose, "verbose", "v", false, "Verbose logging")
	fs.BoolVar(&logJSON, "log.json", false, "Log JSON lines instead of console output")
	fs.BoolVar(&version, "version", false, "Print version and exit")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: htmlstring [flags] <file.html>...\n\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return app.Config{}, err
	}
	if version {
		fmt.Fprintln(stdout, app.VersionString())
		return app.Config{}, errVersion
	}

	cfg := app.DefaultConfig()
	if configPath != "" {
		fc, err := app.LoadConfigFile(configPath)
		if err != nil {
			return app.Config{}, fmt.Errorf("load config %s: %w", configPath, err)
		}
		app.ApplyFileConfig(&cfg, fc)
	}
	app.ApplyEnvOverrides(&cfg)

	if fs.Changed("mode") {
		cfg.Mode = mode
	}
	if fs.Changed("strict-perms") {
		cfg.StrictPerms = strictPerms
	}
	if fs.Changed("verbose") {
		cfg.Verbose = verbose
	}
	if fs.Changed("log.json") {
		cfg.LogJSON = logJSON
	}
	cfg.Watch = watch
	cfg.Inputs = fs.Args()

	if err := app.ValidateConfig(cfg); err != nil {
		return app.Config{}, err
	}
	return cfg, nil
}

func setupLogging(cfg app.Config) {
	if cfg.LogJSON {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}
	if cfg.Verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

func run(ctx context.Context, cfg app.Config) error {
	a, err := app.New(cfg, nil)
	if err != nil {
		return fmt.Errorf("init app: %w", err)
	}
	return a.Run(ctx)
}

// exitCode maps run errors: 2 when an input was not an HTML file, 1 for
// read, compaction or write failures.
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, app.ErrConversionFailed):
		return 1
	case errors.Is(err, convert.ErrNotHTML):
		return 2
	}
	return 1
}
