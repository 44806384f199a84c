package app

import (
	"bank-ledger/internal/config"
	"bank-ledger/internal/domain/ledger"
	"bank-ledger/internal/event"
	"bank-ledger/internal/infrastructure/storage"
	"bank-ledger/internal/pkg/apperrors"
	"context"
	"fmt"
	"log/slog"
	"strings"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/shopspring/decimal"
)

// Ledger is a loaded ledger together with the resources backing it.
type Ledger struct {
	Service ledger.LedgerService
	closers []func()
}

// Close releases the store and broker connections in reverse order.
func (l *Ledger) Close() {
	for i := len(l.closers) - 1; i >= 0; i-- {
		l.closers[i]()
	}
}

// OpenLedger opens the configured store, connects the event publisher when
// RabbitMQ is enabled and loads the ledger.
func OpenLedger(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Ledger, error) {
	opts, err := LedgerOptions(cfg.Ledger)
	if err != nil {
		return nil, err
	}

	store, closeStore, err := storage.Open(ctx, cfg.Storage, cfg.Database, logger)
	if err != nil {
		return nil, err
	}
	l := &Ledger{closers: []func(){closeStore}}

	var publisher event.Publisher
	if cfg.RabbitMQ.Enabled {
		conn, err := connectRabbitMQ(cfg.RabbitMQ, logger)
		if err != nil {
			l.Close()
			return nil, err
		}
		l.closers = append(l.closers, func() {
			if err := conn.Close(); err != nil {
				logger.Warn("Failed to close RabbitMQ connection", slog.Any("error", err))
			}
		})

		rabbitPublisher, err := event.NewRabbitMQEventPublisher(conn, cfg.RabbitMQ.ExchangeName, logger)
		if err != nil {
			l.Close()
			return nil, fmt.Errorf("failed to create event publisher: %w", err)
		}
		publisher = rabbitPublisher
	}

	svc, err := ledger.NewLedgerService(ctx, store, publisher, logger, opts...)
	if err != nil {
		l.Close()
		return nil, err
	}
	l.Service = svc
	return l, nil
}

// LedgerOptions turns the configured defaults into ledger options. Blank
// values keep the built-in defaults.
func LedgerOptions(cfg config.LedgerConfig) ([]ledger.Option, error) {
	var opts []ledger.Option

	if s := strings.TrimSpace(cfg.DefaultInterestRate); s != "" {
		rate, err := decimal.NewFromString(s)
		if err != nil || rate.IsNegative() {
			return nil, fmt.Errorf("%w: invalid default interest rate %q", apperrors.ErrInvalidArgument, cfg.DefaultInterestRate)
		}
		opts = append(opts, ledger.WithDefaultInterestRate(rate))
	}

	if s := strings.TrimSpace(cfg.DefaultOverdraftLimit); s != "" {
		limit, err := decimal.NewFromString(s)
		if err != nil || limit.IsNegative() {
			return nil, fmt.Errorf("%w: invalid default overdraft limit %q", apperrors.ErrInvalidArgument, cfg.DefaultOverdraftLimit)
		}
		opts = append(opts, ledger.WithDefaultOverdraftLimit(limit))
	}

	return opts, nil
}

func connectRabbitMQ(cfg config.RabbitMQConfig, logger *slog.Logger) (*amqp.Connection, error) {
	logger.Info("Connecting to RabbitMQ", "host", cfg.Host, "port", cfg.Port)
	uri := fmt.Sprintf("amqp://%s:%s@%s:%d/",
		cfg.Username,
		cfg.Password,
		cfg.Host,
		cfg.Port,
	)

	conn, err := amqp.Dial(uri)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	logger.Info("RabbitMQ connection established.")

	go func() {
		errChan := conn.NotifyClose(make(chan *amqp.Error, 1))
		if err, ok := <-errChan; ok && err != nil {
			logger.Error("RabbitMQ connection closed unexpectedly", slog.Any("error", err))
		}
	}()

	return conn, nil
}
