package jsonfile

import (
	"bank-ledger/internal/domain/account"
	"bank-ledger/internal/domain/ledger"
	"bank-ledger/internal/pkg/apperrors"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
)

const filePerm = 0o644

// Store persists the ledger as two JSON documents keyed by id.
type Store struct {
	customerFile string
	accountFile  string
	logger       *slog.Logger
}

var _ ledger.Store = (*Store)(nil)

func NewStore(customerFile, accountFile string, logger *slog.Logger) *Store {
	return &Store{
		customerFile: customerFile,
		accountFile:  accountFile,
		logger:       logger.With("component", "JSONFileStore"),
	}
}

func (s *Store) Load(ctx context.Context) (*ledger.Snapshot, error) {
	snapshot := ledger.NewSnapshot()

	var customers map[string]customerRecord
	if err := s.readFile(ctx, s.customerFile, &customers); err != nil {
		return nil, err
	}
	for id, rec := range customers {
		if rec.CustomerID == "" {
			rec.CustomerID = id
		}
		snapshot.Customers[rec.CustomerID] = rec.toDomain()
	}

	var accounts map[string]accountRecord
	if err := s.readFile(ctx, s.accountFile, &accounts); err != nil {
		return nil, err
	}
	for number, rec := range accounts {
		if rec.AccountNumber == "" {
			rec.AccountNumber = number
		}
		st, err := rec.toState()
		if err != nil {
			return nil, apperrors.WrapStorageError(err, fmt.Sprintf("failed to decode account %s", rec.AccountNumber))
		}
		acc, err := account.FromState(st)
		if err != nil {
			s.logger.WarnContext(ctx, "Skipping account with unknown type", "accountNumber", rec.AccountNumber, "type", rec.Type)
			continue
		}
		snapshot.Accounts[rec.AccountNumber] = acc
	}

	s.logger.DebugContext(ctx, "Loaded ledger files", "customers", len(snapshot.Customers), "accounts", len(snapshot.Accounts))
	return snapshot, nil
}

func (s *Store) Save(ctx context.Context, snapshot *ledger.Snapshot) error {
	customers := make(map[string]customerRecord, len(snapshot.Customers))
	for id, c := range snapshot.Customers {
		customers[id] = toCustomerRecord(c)
	}
	accounts := make(map[string]accountRecord, len(snapshot.Accounts))
	for number, acc := range snapshot.Accounts {
		accounts[number] = toAccountRecord(acc.State())
	}

	if err := s.writeFile(ctx, s.customerFile, customers); err != nil {
		return err
	}
	return s.writeFile(ctx, s.accountFile, accounts)
}

func (s *Store) readFile(ctx context.Context, path string, v any) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		s.logger.InfoContext(ctx, "Ledger file not found, starting empty", "path", path)
		return nil
	}
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to read ledger file", "path", path, slog.Any("error", err))
		return apperrors.WrapStorageError(err, fmt.Sprintf("failed to read %s", path))
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		s.logger.ErrorContext(ctx, "Failed to decode ledger file", "path", path, slog.Any("error", err))
		return apperrors.WrapStorageError(err, fmt.Sprintf("failed to decode %s", path))
	}
	return nil
}

// writeFile replaces path atomically through a temp file in the same
// directory.
func (s *Store) writeFile(ctx context.Context, path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return apperrors.WrapStorageError(err, fmt.Sprintf("failed to encode %s", path))
	}
	data = append(data, '\n')

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to create temp file", "path", path, slog.Any("error", err))
		return apperrors.WrapStorageError(err, fmt.Sprintf("failed to write %s", path))
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		cleanup()
		return apperrors.WrapStorageError(err, fmt.Sprintf("failed to write %s", path))
	}
	if err := tmp.Chmod(filePerm); err != nil {
		tmp.Close()
		cleanup()
		return apperrors.WrapStorageError(err, fmt.Sprintf("failed to write %s", path))
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return apperrors.WrapStorageError(err, fmt.Sprintf("failed to write %s", path))
	}
	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		s.logger.ErrorContext(ctx, "Failed to replace ledger file", "path", path, slog.Any("error", err))
		return apperrors.WrapStorageError(err, fmt.Sprintf("failed to replace %s", path))
	}

	s.logger.DebugContext(ctx, "Ledger file written", "path", path, "bytes", len(data))
	return nil
}
