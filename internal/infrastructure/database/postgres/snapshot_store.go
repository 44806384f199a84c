package postgres

import (
	"bank-ledger/internal/domain/account"
	"bank-ledger/internal/domain/customer"
	"bank-ledger/internal/domain/ledger"
	"bank-ledger/internal/infrastructure/monitoring"
	"bank-ledger/internal/pkg/apperrors"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const (
	createCustomersTable = `
	CREATE TABLE IF NOT EXISTS customers (
		customer_id     TEXT PRIMARY KEY,
		name            TEXT NOT NULL,
		address         TEXT NOT NULL DEFAULT '',
		account_numbers TEXT[] NOT NULL DEFAULT '{}'
	)`

	createAccountsTable = `
	CREATE TABLE IF NOT EXISTS accounts (
		account_number    TEXT PRIMARY KEY,
		account_holder_id TEXT NOT NULL,
		account_type      TEXT NOT NULL,
		balance           NUMERIC NOT NULL,
		password_hash     TEXT NOT NULL DEFAULT '',
		failed_attempts   INTEGER NOT NULL DEFAULT 0,
		is_locked         BOOLEAN NOT NULL DEFAULT FALSE,
		interest_rate     NUMERIC,
		overdraft_limit   NUMERIC
	)`

	selectCustomers = `
	SELECT customer_id, name, address, account_numbers
	FROM customers
	ORDER BY customer_id`

	selectAccounts = `
	SELECT account_number, account_holder_id, account_type, balance::text, password_hash,
		failed_attempts, is_locked, COALESCE(interest_rate::text, ''), COALESCE(overdraft_limit::text, '')
	FROM accounts
	ORDER BY account_number`

	deleteAccounts  = `DELETE FROM accounts`
	deleteCustomers = `DELETE FROM customers`

	insertCustomer = `
	INSERT INTO customers (customer_id, name, address, account_numbers)
	VALUES ($1, $2, $3, $4)`

	insertAccount = `
	INSERT INTO accounts (account_number, account_holder_id, account_type, balance, password_hash,
		failed_attempts, is_locked, interest_rate, overdraft_limit)
	VALUES ($1, $2, $3, CAST($4 AS NUMERIC), $5, $6, $7, CAST(NULLIF($8, '') AS NUMERIC), CAST(NULLIF($9, '') AS NUMERIC))`
)

// SnapshotStore keeps the ledger in two tables and rewrites both on every
// save inside one transaction.
type SnapshotStore struct {
	db     DBPool
	logger *slog.Logger
}

var _ ledger.Store = (*SnapshotStore)(nil)

func NewSnapshotStore(db DBPool, logger *slog.Logger) *SnapshotStore {
	if db == nil {
		panic("DBPool cannot be nil for SnapshotStore")
	}
	return &SnapshotStore{db: db, logger: logger.With("component", "SnapshotStore")}
}

func (s *SnapshotStore) EnsureSchema(ctx context.Context) error {
	for _, stmt := range []string{createCustomersTable, createAccountsTable} {
		if _, err := s.db.Exec(ctx, stmt); err != nil {
			s.logger.ErrorContext(ctx, "Failed to create schema", slog.Any("error", err))
			return translateDBError(err, s.logger)
		}
	}
	s.logger.InfoContext(ctx, "Ledger schema is ready")
	return nil
}

func (s *SnapshotStore) Load(ctx context.Context) (*ledger.Snapshot, error) {
	snapshot := ledger.NewSnapshot()

	if err := s.loadCustomers(ctx, snapshot); err != nil {
		return nil, err
	}
	if err := s.loadAccounts(ctx, snapshot); err != nil {
		return nil, err
	}

	s.logger.DebugContext(ctx, "Loaded ledger snapshot", "customers", len(snapshot.Customers), "accounts", len(snapshot.Accounts))
	return snapshot, nil
}

func (s *SnapshotStore) loadCustomers(ctx context.Context, snapshot *ledger.Snapshot) (err error) {
	start := time.Now()
	defer func() { monitoring.RecordDBQuery("LoadCustomers", queryStatus(err), time.Since(start)) }()

	rows, err := s.db.Query(ctx, selectCustomers)
	if err != nil {
		return translateDBError(err, s.logger)
	}
	defer rows.Close()

	for rows.Next() {
		var id, name, address string
		var numbers []string
		if err := rows.Scan(&id, &name, &address, &numbers); err != nil {
			s.logger.ErrorContext(ctx, "Failed to scan customer row", slog.Any("error", err))
			return translateDBError(err, s.logger)
		}
		snapshot.Customers[id] = customer.Restore(id, name, address, numbers)
	}
	if err := rows.Err(); err != nil {
		return translateDBError(err, s.logger)
	}
	return nil
}

func (s *SnapshotStore) loadAccounts(ctx context.Context, snapshot *ledger.Snapshot) (err error) {
	start := time.Now()
	defer func() { monitoring.RecordDBQuery("LoadAccounts", queryStatus(err), time.Since(start)) }()

	rows, err := s.db.Query(ctx, selectAccounts)
	if err != nil {
		return translateDBError(err, s.logger)
	}
	defer rows.Close()

	for rows.Next() {
		var st account.State
		var accType, balance, rate, limit string
		var failedAttempts int
		if err := rows.Scan(&st.Number, &st.OwnerID, &accType, &balance, &st.PasswordHash,
			&failedAttempts, &st.Locked, &rate, &limit); err != nil {
			s.logger.ErrorContext(ctx, "Failed to scan account row", slog.Any("error", err))
			return translateDBError(err, s.logger)
		}
		st.Type = account.Type(accType)
		st.FailedAttempts = failedAttempts

		if st.Balance, err = parseDecimal(balance, decimal.Zero); err != nil {
			return apperrors.WrapDatabaseError(err, fmt.Sprintf("invalid balance for account %s", st.Number))
		}
		if st.InterestRate, err = parseDecimal(rate, account.DefaultInterestRate); err != nil {
			return apperrors.WrapDatabaseError(err, fmt.Sprintf("invalid interest rate for account %s", st.Number))
		}
		if st.OverdraftLimit, err = parseDecimal(limit, account.DefaultOverdraftLimit); err != nil {
			return apperrors.WrapDatabaseError(err, fmt.Sprintf("invalid overdraft limit for account %s", st.Number))
		}

		acc, convErr := account.FromState(st)
		if convErr != nil {
			s.logger.WarnContext(ctx, "Skipping account with unknown type", "accountNumber", st.Number, "type", accType)
			continue
		}
		snapshot.Accounts[st.Number] = acc
	}
	if err := rows.Err(); err != nil {
		return translateDBError(err, s.logger)
	}
	return nil
}

func (s *SnapshotStore) Save(ctx context.Context, snapshot *ledger.Snapshot) (err error) {
	start := time.Now()
	defer func() { monitoring.RecordDBQuery("SaveSnapshot", queryStatus(err), time.Since(start)) }()

	tx, err := s.db.Begin(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to begin transaction", slog.Any("error", err))
		return fmt.Errorf("%w: failed to begin transaction: %w", apperrors.ErrDatabase, err)
	}
	defer func() {
		if err == nil {
			return
		}
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			s.logger.ErrorContext(ctx, "Failed to rollback transaction", slog.Any("error", rbErr))
		}
	}()

	for _, stmt := range []string{deleteAccounts, deleteCustomers} {
		if _, err := tx.Exec(ctx, stmt); err != nil {
			return translateDBError(err, s.logger)
		}
	}

	for _, id := range sortedKeys(snapshot.Customers) {
		c := snapshot.Customers[id]
		numbers := c.AccountNumbers()
		if numbers == nil {
			numbers = []string{}
		}
		if _, err := tx.Exec(ctx, insertCustomer, c.CustomerID, c.Name, c.Address, numbers); err != nil {
			s.logger.ErrorContext(ctx, "Failed to insert customer", "customerID", c.CustomerID, slog.Any("error", err))
			return translateDBError(err, s.logger)
		}
	}

	for _, number := range sortedKeys(snapshot.Accounts) {
		st := snapshot.Accounts[number].State()
		rate, limit := "", ""
		switch st.Type {
		case account.TypeSavings:
			rate = st.InterestRate.String()
		case account.TypeChecking:
			limit = st.OverdraftLimit.String()
		}
		if _, err := tx.Exec(ctx, insertAccount, st.Number, st.OwnerID, string(st.Type), st.Balance.String(),
			st.PasswordHash, st.FailedAttempts, st.Locked, rate, limit); err != nil {
			s.logger.ErrorContext(ctx, "Failed to insert account", "accountNumber", st.Number, slog.Any("error", err))
			return translateDBError(err, s.logger)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		s.logger.ErrorContext(ctx, "Failed to commit transaction", slog.Any("error", err))
		return fmt.Errorf("%w: failed to commit transaction: %w", apperrors.ErrDatabase, err)
	}

	s.logger.DebugContext(ctx, "Ledger snapshot saved", "customers", len(snapshot.Customers), "accounts", len(snapshot.Accounts))
	return nil
}

func parseDecimal(v string, fallback decimal.Decimal) (decimal.Decimal, error) {
	if v == "" {
		return fallback, nil
	}
	return decimal.NewFromString(v)
}

func queryStatus(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
