// Package main implements the programmer daemon. It serves the command
// protocol on a serial port and drives either a GPIO attached memory or an
// in-memory simulation.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/moffa90/go-eeprom/config"
	"github.com/moffa90/go-eeprom/engine"
	"github.com/moffa90/go-eeprom/internal/logging"
	"github.com/moffa90/go-eeprom/link"
	"github.com/moffa90/go-eeprom/programmer"
	"github.com/retroenv/retrogolib/app"
	"github.com/retroenv/retrogolib/log"
)

type options struct {
	config string
	port   string
	debug  bool
	quiet  bool
}

func parseFlags() options {
	var opts options
	flags := flag.NewFlagSet("eepromd", flag.ExitOnError)
	flags.StringVar(&opts.config, "config", "", "YAML configuration file (defaults apply when empty)")
	flags.StringVar(&opts.port, "port", "", "serial port, overrides the configuration")
	flags.BoolVar(&opts.debug, "debug", false, "enable debug logging")
	flags.BoolVar(&opts.quiet, "quiet", false, "log errors only")
	flags.Usage = func() {
		fmt.Fprintf(flags.Output(), "usage: eepromd [options]\n\n")
		flags.PrintDefaults()
	}
	_ = flags.Parse(os.Args[1:])
	return opts
}

func main() {
	ctx := app.Context()
	opts := parseFlags()

	logger := logging.CreateLogger(opts.debug, opts.quiet)

	cfg, err := loadConfig(opts)
	if err != nil {
		logger.Fatal("Loading configuration failed", log.Err(err))
	}

	// Flags win over the configured level.
	if !opts.debug && !opts.quiet {
		logger = logging.CreateLogger(cfg.Log.Level == config.LevelDebug, cfg.Log.Level == config.LevelError)
	}

	if err := run(ctx, logger, cfg); err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Info("Shutting down")
			return
		}
		logger.Fatal("Programmer stopped", log.Err(err))
	}
}

func loadConfig(opts options) (*config.Config, error) {
	cfg := &config.Config{}
	if opts.config != "" {
		var err error
		if cfg, err = config.Load(opts.config); err != nil {
			return nil, err
		}
	}
	if opts.port != "" {
		cfg.Serial.Port = opts.port
	}

	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	config.Normalize(cfg)
	return cfg, nil
}

func run(ctx context.Context, logger *log.Logger, cfg *config.Config) error {
	b, closeBus, err := openBus(logger, cfg)
	if err != nil {
		return err
	}
	defer closeBus()

	port, err := link.Open(cfg.LinkConfig())
	if err != nil {
		return err
	}
	defer func() { _ = port.Close() }()

	adapter := logging.NewAdapter(logger)

	engineOpts := append(cfg.EngineOptions(),
		engine.WithLogger(adapter),
		engine.WithFlushCallback(func(f engine.Flush) {
			logger.Debug("Page written",
				log.Hex("start", f.Start),
				log.Int("count", f.Count),
				log.Int("polls", f.Polls))
		}),
	)
	eng := engine.New(b, engineOpts...)

	sessionOpts := append(cfg.SessionOptions(), programmer.WithLogger(adapter))
	session := programmer.NewSession(eng, port, sessionOpts...)

	logger.Info("Programmer ready",
		log.String("port", port.Name()),
		log.Int("baud_rate", cfg.Serial.BaudRate),
		log.String("backend", cfg.Bus.Backend))

	err = session.Run(ctx)

	st := session.Stats()
	logger.Info("Session summary",
		log.Int("bytes_in", st.BytesIn),
		log.Int("reads", st.Reads),
		log.Int("writes", st.Writes),
		log.Int("load_bytes", st.LoadBytes),
		log.Int("dump_bytes", st.DumpBytes),
		log.Int("page_flushes", st.PageFlushes),
		log.Int("erases", st.Erases),
		log.Int("invalid_commands", st.InvalidCommands),
		log.Int("verify_failures", st.VerifyFailures),
		log.Int("dropped", st.Dropped),
		log.Int("discarded", st.Discarded))

	return err
}
