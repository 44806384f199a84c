package ledger

import (
	"bank-ledger/internal/domain/account"
	"bank-ledger/internal/domain/customer"
	"bank-ledger/internal/infrastructure/monitoring"
	"bank-ledger/internal/pkg/apperrors"
	"context"
	"errors"
	"log/slog"
	"time"
)

// checkpoint is a detached copy of the ledger as the store last saw it.
type checkpoint struct {
	customers map[string]*customer.Customer
	accounts  map[string]savedAccount
}

type savedAccount struct {
	live  account.Account
	state account.State
}

// checkpoint must be taken with s.mu held.
func (s *ledgerServiceImpl) checkpoint() *checkpoint {
	cp := &checkpoint{
		customers: make(map[string]*customer.Customer, len(s.customers)),
		accounts:  make(map[string]savedAccount, len(s.accounts)),
	}
	for id, c := range s.customers {
		cp.customers[id] = c.Clone()
	}
	for number, acc := range s.accounts {
		cp.accounts[number] = savedAccount{live: acc, state: acc.State()}
	}
	return cp
}

// restore puts the ledger back to cp. Accounts whose state did not change
// keep their live value.
func (s *ledgerServiceImpl) restore(ctx context.Context, cp *checkpoint) {
	customers := make(map[string]*customer.Customer, len(cp.customers))
	for id, c := range cp.customers {
		customers[id] = c.Clone()
	}

	accounts := make(map[string]account.Account, len(cp.accounts))
	for number, saved := range cp.accounts {
		if sameState(saved.live.State(), saved.state) {
			accounts[number] = saved.live
			continue
		}
		acc, err := account.FromState(saved.state)
		if err != nil {
			s.logger.ErrorContext(ctx, "Failed to restore account after save failure", "accountNumber", number, slog.Any("error", err))
			accounts[number] = saved.live
			continue
		}
		accounts[number] = acc
	}

	s.customers = customers
	s.accounts = accounts
}

// persist saves the whole ledger. On success cp is advanced to the saved
// state; on failure the ledger is rolled back to cp so memory never runs
// ahead of the store.
func (s *ledgerServiceImpl) persist(ctx context.Context, cp *checkpoint) error {
	start := time.Now()
	err := s.store.Save(ctx, &Snapshot{Customers: s.customers, Accounts: s.accounts})
	if err != nil {
		monitoring.RecordSnapshotSave("failure", time.Since(start))
		s.logger.ErrorContext(ctx, "Failed to save ledger snapshot, rolling back", slog.Any("error", err))
		s.restore(ctx, cp)
		if errors.Is(err, apperrors.ErrPersistence) {
			return err
		}
		return apperrors.WrapStorageError(err, "failed to save ledger snapshot")
	}
	monitoring.RecordSnapshotSave("success", time.Since(start))
	*cp = *s.checkpoint()
	return nil
}

func sameState(a, b account.State) bool {
	return a.Number == b.Number &&
		a.OwnerID == b.OwnerID &&
		a.Type == b.Type &&
		a.Balance.Equal(b.Balance) &&
		a.PasswordHash == b.PasswordHash &&
		a.FailedAttempts == b.FailedAttempts &&
		a.Locked == b.Locked &&
		a.InterestRate.Equal(b.InterestRate) &&
		a.OverdraftLimit.Equal(b.OverdraftLimit)
}
