package monitoring

import (
	"bank-ledger/internal/pkg/apperrors"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	OutcomeSuccess           = "success"
	OutcomeNotFound          = "not_found"
	OutcomeRejected          = "rejected"
	OutcomeAuthFailed        = "auth_failed"
	OutcomeLocked            = "locked"
	OutcomeCancelled         = "cancelled"
	OutcomePersistenceFailed = "persistence_failed"
	OutcomeError             = "error"
)

type LedgerMetrics struct {
	OperationsTotal *prometheus.CounterVec
	LockoutsTotal   prometheus.Counter
}

type StorageMetrics struct {
	SnapshotSaveDuration *prometheus.HistogramVec
}

type DBMetrics struct {
	QueryDuration *prometheus.HistogramVec
}

var (
	Ledger = LedgerMetrics{
		OperationsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bank_ledger_operations_total",
				Help: "Total number of ledger operations by outcome.",
			},
			[]string{"operation", "outcome"},
		),
		LockoutsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "bank_ledger_account_lockouts_total",
				Help: "Total number of accounts locked after repeated failed password attempts.",
			},
		),
	}

	Storage = StorageMetrics{
		SnapshotSaveDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bank_ledger_snapshot_save_duration_seconds",
				Help:    "Histogram of ledger snapshot save latencies.",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"status"},
		),
	}

	DB = DBMetrics{
		QueryDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bank_ledger_db_query_duration_seconds",
				Help:    "Histogram of database query latencies.",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"query_name", "status"},
		),
	}
)

func RecordLedgerOperation(operation, outcome string) {
	Ledger.OperationsTotal.WithLabelValues(operation, outcome).Inc()
}

func RecordLockout() {
	Ledger.LockoutsTotal.Inc()
}

func RecordSnapshotSave(status string, duration time.Duration) {
	Storage.SnapshotSaveDuration.WithLabelValues(status).Observe(duration.Seconds())
}

func RecordDBQuery(queryName, status string, duration time.Duration) {
	DB.QueryDuration.WithLabelValues(queryName, status).Observe(duration.Seconds())
}

// OutcomeFor maps an operation result onto a low-cardinality label.
func OutcomeFor(err error) string {
	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.Is(err, apperrors.ErrPersistence):
		return OutcomePersistenceFailed
	case errors.Is(err, apperrors.ErrNotFound):
		return OutcomeNotFound
	case errors.Is(err, apperrors.ErrAccountLocked):
		return OutcomeLocked
	case errors.Is(err, apperrors.ErrAuthenticationFailed):
		return OutcomeAuthFailed
	case errors.Is(err, apperrors.ErrCancelled):
		return OutcomeCancelled
	case errors.Is(err, apperrors.ErrInvalidAmount),
		errors.Is(err, apperrors.ErrInvalidArgument),
		errors.Is(err, apperrors.ErrValidation),
		errors.Is(err, apperrors.ErrInsufficientFunds),
		errors.Is(err, apperrors.ErrOverdraftExceeded),
		errors.Is(err, apperrors.ErrAlreadyExists),
		errors.Is(err, apperrors.ErrUnsupportedAccountType):
		return OutcomeRejected
	default:
		return OutcomeError
	}
}
