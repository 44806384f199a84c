package main

import (
	"bank-ledger/internal/app"
	"bank-ledger/internal/config"
	"bank-ledger/internal/infrastructure/logging"
	"bank-ledger/internal/teller"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to load configuration:", err)
		os.Exit(1)
	}

	// Diagnostics go to stderr so they never interleave with the menu.
	logger := logging.NewLoggerTo(os.Stderr, config.LoggerConfig{Level: cfg.Teller.LogLevel, Encoding: "text"})
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("Teller session ended with error", slog.Any("error", err))
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	ledgerApp, err := app.OpenLedger(ctx, cfg, logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to load the ledger:", err)
		return err
	}
	defer ledgerApp.Close()

	var opts []teller.Option
	if fd := int(os.Stdin.Fd()); teller.IsTerminal(fd) {
		opts = append(opts, teller.WithPasswordReader(teller.NewTerminalPasswordReader(fd, os.Stdout)))
	}

	return teller.New(ledgerApp.Service, os.Stdin, os.Stdout, logger, opts...).Run(ctx)
}
