package ledger

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const accountNumberLength = 8

type Option func(*ledgerServiceImpl)

// WithIDGenerator replaces the account number generator. Generated numbers
// that already exist are retried.
func WithIDGenerator(gen func() string) Option {
	return func(s *ledgerServiceImpl) {
		if gen != nil {
			s.newAccountNumber = gen
		}
	}
}

func WithDefaultInterestRate(rate decimal.Decimal) Option {
	return func(s *ledgerServiceImpl) {
		s.defaultInterestRate = rate
	}
}

func WithDefaultOverdraftLimit(limit decimal.Decimal) Option {
	return func(s *ledgerServiceImpl) {
		s.defaultOverdraftLimit = limit
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *ledgerServiceImpl) {
		if now != nil {
			s.now = now
		}
	}
}

func randomAccountNumber() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:accountNumberLength]
}
