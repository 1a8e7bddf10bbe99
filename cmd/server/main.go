package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	_ "time/tzdata" // IANA zones for minimal container images

	"github.com/jessevdk/go-flags"

	"github.com/preston-bernstein/football-data-sensor/internal/config"
	"github.com/preston-bernstein/football-data-sensor/internal/logging"
	"github.com/preston-bernstein/football-data-sensor/internal/server"
)

const serviceName = "football-data-sensor"

var revision = "dev"

// options are the command line flags. Everything else is configured through
// the environment or the YAML file.
type options struct {
	Config    string `short:"c" long:"config" env:"SENSOR_CONFIG" description:"YAML sensor config file"`
	LogLevel  string `long:"log-level" env:"LOG_LEVEL" default:"info" description:"debug, info, warn or error"`
	LogFormat string `long:"log-format" env:"LOG_FORMAT" default:"text" description:"text or json"`
	Version   bool   `short:"V" long:"version" description:"print version and exit"`
}

func main() {
	if os.Getenv("SKIP_SERVER_RUN") == "1" {
		return
	}

	opts, err := parseOptions(os.Args[1:])
	if err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(2)
	}
	if opts.Version {
		fmt.Printf("%s %s (%s)\n", serviceName, revision, runtime.Version())
		return
	}

	logger := logging.NewLogger(logging.Config{
		Level:   opts.LogLevel,
		Format:  opts.LogFormat,
		Service: serviceName,
		Version: revision,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, stop, opts, logger); err != nil {
		logger.Error("startup failed", slog.Any(logging.FieldError, err))
		stop()
		os.Exit(1)
	}
}

func parseOptions(args []string) (options, error) {
	var opts options
	_, err := flags.NewParser(&opts, flags.Default).ParseArgs(args)
	return opts, err
}

func run(ctx context.Context, stop context.CancelFunc, opts options, logger *slog.Logger) error {
	srv, err := build(opts, logger)
	if err != nil {
		return err
	}
	srv.Run(ctx, stop)
	return nil
}

// build loads and validates configuration and wires the server without starting it.
func build(opts options, logger *slog.Logger) (*server.Server, error) {
	cfg, err := config.LoadWithFile(opts.Config)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return server.New(cfg, logger)
}
