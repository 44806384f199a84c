package ledger

import (
	"bank-ledger/internal/domain/account"
	"bank-ledger/internal/domain/customer"
	"bank-ledger/internal/event"
	"bank-ledger/internal/infrastructure/monitoring"
	"bank-ledger/internal/pkg/apperrors"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

const maxAccountNumberAttempts = 16

type CreateAccountRequest struct {
	CustomerID     string
	Type           string
	InitialBalance decimal.Decimal
	Password       string
	InterestRate   *decimal.Decimal
	OverdraftLimit *decimal.Decimal
}

type TransferReceipt struct {
	From   account.State
	To     account.State
	Amount decimal.Decimal
}

type LedgerService interface {
	AddCustomer(ctx context.Context, cust *customer.Customer) (*customer.Customer, error)

	UpdateCustomerAddress(ctx context.Context, customerID, address string) (*customer.Customer, error)

	RemoveCustomer(ctx context.Context, customerID string, confirmer Confirmer) error

	GetCustomer(ctx context.Context, customerID string) (*customer.Customer, error)

	ListCustomers(ctx context.Context) ([]*customer.Customer, error)

	CreateAccount(ctx context.Context, req CreateAccountRequest) (account.State, error)

	GetAccount(ctx context.Context, accountNumber string) (account.State, error)

	ListAccounts(ctx context.Context) ([]account.State, error)

	GetCustomerAccounts(ctx context.Context, customerID string) ([]account.State, error)

	Deposit(ctx context.Context, accountNumber string, amount decimal.Decimal) (account.State, error)

	Withdraw(ctx context.Context, accountNumber string, amount decimal.Decimal, secrets SecretSource) (account.State, error)

	TransferFunds(ctx context.Context, fromAccount, toAccount string, amount decimal.Decimal, secrets SecretSource) (TransferReceipt, error)

	ApplyAllInterest(ctx context.Context) (int, error)
}

type ledgerServiceImpl struct {
	mu sync.Mutex

	store     Store
	publisher event.Publisher
	logger    *slog.Logger

	customers map[string]*customer.Customer
	accounts  map[string]account.Account

	newAccountNumber      func() string
	defaultInterestRate   decimal.Decimal
	defaultOverdraftLimit decimal.Decimal
	now                   func() time.Time
}

// NewLedgerService loads the current snapshot from store and returns a
// service owning it. Every mutating call saves the full snapshot before it
// returns.
func NewLedgerService(ctx context.Context, store Store, publisher event.Publisher, logger *slog.Logger, opts ...Option) (LedgerService, error) {
	if store == nil {
		return nil, fmt.Errorf("%w: ledger store cannot be nil", apperrors.ErrInvalidArgument)
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	if publisher == nil {
		publisher = event.NopPublisher{}
	}

	s := &ledgerServiceImpl{
		store:                 store,
		publisher:             publisher,
		logger:                logger.With("component", "LedgerService"),
		newAccountNumber:      randomAccountNumber,
		defaultInterestRate:   account.DefaultInterestRate,
		defaultOverdraftLimit: account.DefaultOverdraftLimit,
		now:                   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	snapshot, err := store.Load(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to load ledger snapshot", slog.Any("error", err))
		return nil, fmt.Errorf("failed to load ledger: %w", err)
	}
	if snapshot == nil {
		snapshot = NewSnapshot()
	}
	s.customers = snapshot.Customers
	s.accounts = snapshot.Accounts
	if s.customers == nil {
		s.customers = make(map[string]*customer.Customer)
	}
	if s.accounts == nil {
		s.accounts = make(map[string]account.Account)
	}

	s.logger.InfoContext(ctx, "Ledger loaded", "customers", len(s.customers), "accounts", len(s.accounts))
	return s, nil
}

func (s *ledgerServiceImpl) AddCustomer(ctx context.Context, cust *customer.Customer) (_ *customer.Customer, err error) {
	defer s.record("add_customer", &err)
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := s.checkpoint()

	if cust == nil {
		return nil, fmt.Errorf("%w: customer cannot be nil", apperrors.ErrInvalidArgument)
	}
	// Accounts are attached through CreateAccount only.
	created := customer.NewCustomer(cust.CustomerID, cust.Name, cust.Address)
	if err := created.Validate(); err != nil {
		s.logger.WarnContext(ctx, "Invalid customer", slog.Any("error", err))
		return nil, err
	}
	if _, exists := s.customers[created.CustomerID]; exists {
		s.logger.WarnContext(ctx, "Customer already exists", "customerID", created.CustomerID)
		return nil, fmt.Errorf("%w: customer with ID %s already exists", apperrors.ErrAlreadyExists, created.CustomerID)
	}

	s.customers[created.CustomerID] = created
	if err := s.persist(ctx, cp); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "Customer added", "customerID", created.CustomerID)
	return created.Clone(), nil
}

func (s *ledgerServiceImpl) UpdateCustomerAddress(ctx context.Context, customerID, address string) (_ *customer.Customer, err error) {
	defer s.record("update_customer_address", &err)
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := s.checkpoint()

	cust, err := s.customer(ctx, customerID)
	if err != nil {
		return nil, err
	}

	cust.UpdateAddress(address)
	if err := s.persist(ctx, cp); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "Customer address updated", "customerID", customerID)
	return cust.Clone(), nil
}

func (s *ledgerServiceImpl) RemoveCustomer(ctx context.Context, customerID string, confirmer Confirmer) (err error) {
	defer s.record("remove_customer", &err)
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := s.checkpoint()

	cust, err := s.customer(ctx, customerID)
	if err != nil {
		return err
	}

	owned := s.ownedStates(cust)
	if len(cust.AccountNumbers()) > 0 {
		if confirmer == nil {
			s.logger.WarnContext(ctx, "Customer owns accounts and no confirmation is available", "customerID", customerID)
			return fmt.Errorf("%w: customer %s owns accounts and removal was not confirmed", apperrors.ErrCancelled, customerID)
		}

		proceed, err := confirmer.ConfirmClosure(ctx, cust.Clone(), owned)
		if err != nil {
			s.logger.WarnContext(ctx, "Closure confirmation failed", "customerID", customerID, slog.Any("error", err))
			return fmt.Errorf("%w: closure confirmation: %w", apperrors.ErrCancelled, err)
		}
		if !proceed {
			s.logger.InfoContext(ctx, "Customer removal cancelled", "customerID", customerID)
			return fmt.Errorf("%w: removal of customer %s cancelled", apperrors.ErrCancelled, customerID)
		}

		if funded := withBalance(owned); len(funded) > 0 {
			token, err := confirmer.ConfirmBalanceLoss(ctx, funded)
			if err != nil {
				s.logger.WarnContext(ctx, "Balance loss confirmation failed", "customerID", customerID, slog.Any("error", err))
				return fmt.Errorf("%w: balance loss confirmation: %w", apperrors.ErrCancelled, err)
			}
			if token != BalanceLossToken {
				s.logger.InfoContext(ctx, "Customer removal cancelled at balance loss confirmation", "customerID", customerID)
				return fmt.Errorf("%w: removal of customer %s requires typing %s", apperrors.ErrCancelled, customerID, BalanceLossToken)
			}
		}
	}

	discarded := decimal.Zero
	closed := make([]string, 0, len(owned))
	for _, st := range owned {
		delete(s.accounts, st.Number)
		discarded = discarded.Add(st.Balance)
		closed = append(closed, st.Number)
	}
	delete(s.customers, customerID)

	if err := s.persist(ctx, cp); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "Customer removed", "customerID", customerID, "closedAccounts", len(closed))
	s.publishCustomerRemoved(ctx, event.CustomerRemovedEvent{
		CustomerID:       customerID,
		ClosedAccounts:   closed,
		DiscardedBalance: discarded.StringFixed(2),
		Timestamp:        s.now(),
	})
	return nil
}

func (s *ledgerServiceImpl) GetCustomer(ctx context.Context, customerID string) (*customer.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cust, err := s.customer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	return cust.Clone(), nil
}

func (s *ledgerServiceImpl) ListCustomers(ctx context.Context) ([]*customer.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := make([]*customer.Customer, 0, len(s.customers))
	for _, cust := range s.customers {
		list = append(list, cust.Clone())
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CustomerID < list[j].CustomerID })
	return list, nil
}

func (s *ledgerServiceImpl) CreateAccount(ctx context.Context, req CreateAccountRequest) (_ account.State, err error) {
	defer s.record("create_account", &err)
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := s.checkpoint()

	cust, err := s.customer(ctx, req.CustomerID)
	if err != nil {
		return account.State{}, err
	}

	accType, err := account.ParseType(req.Type)
	if err != nil {
		s.logger.WarnContext(ctx, "Unsupported account type", "customerID", req.CustomerID, "type", req.Type)
		return account.State{}, err
	}

	number, err := s.generateAccountNumber()
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to generate account number", slog.Any("error", err))
		return account.State{}, err
	}

	rate, limit := req.InterestRate, req.OverdraftLimit
	if rate == nil {
		rate = &s.defaultInterestRate
	}
	if limit == nil {
		limit = &s.defaultOverdraftLimit
	}

	acc, err := account.New(account.Params{
		Number:         number,
		OwnerID:        cust.CustomerID,
		Type:           accType,
		InitialBalance: req.InitialBalance,
		Password:       req.Password,
		InterestRate:   rate,
		OverdraftLimit: limit,
	})
	if err != nil {
		s.logger.WarnContext(ctx, "Account rejected", "customerID", req.CustomerID, slog.Any("error", err))
		return account.State{}, err
	}

	s.accounts[number] = acc
	cust.AddAccountNumber(number)
	if err := s.persist(ctx, cp); err != nil {
		return account.State{}, err
	}

	s.logger.InfoContext(ctx, "Account created", "customerID", cust.CustomerID, "accountNumber", number, "type", accType)
	return acc.State(), nil
}

func (s *ledgerServiceImpl) GetAccount(ctx context.Context, accountNumber string) (account.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc, err := s.account(ctx, accountNumber)
	if err != nil {
		return account.State{}, err
	}
	return acc.State(), nil
}

func (s *ledgerServiceImpl) ListAccounts(ctx context.Context) ([]account.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := make([]account.State, 0, len(s.accounts))
	for _, number := range s.sortedAccountNumbers() {
		list = append(list, s.accounts[number].State())
	}
	return list, nil
}

func (s *ledgerServiceImpl) GetCustomerAccounts(ctx context.Context, customerID string) ([]account.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cust, err := s.customer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	return s.ownedStates(cust), nil
}

func (s *ledgerServiceImpl) Deposit(ctx context.Context, accountNumber string, amount decimal.Decimal) (_ account.State, err error) {
	defer s.record("deposit", &err)
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := s.checkpoint()

	acc, err := s.account(ctx, accountNumber)
	if err != nil {
		return account.State{}, err
	}
	if err := acc.Deposit(amount); err != nil {
		s.logger.WarnContext(ctx, "Deposit rejected", "accountNumber", accountNumber, slog.Any("error", err))
		return account.State{}, err
	}
	if err := s.persist(ctx, cp); err != nil {
		return account.State{}, err
	}

	s.logger.InfoContext(ctx, "Deposit completed", "accountNumber", accountNumber, "amount", amount.String())
	return acc.State(), nil
}

func (s *ledgerServiceImpl) Withdraw(ctx context.Context, accountNumber string, amount decimal.Decimal, secrets SecretSource) (_ account.State, err error) {
	defer s.record("withdraw", &err)
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := s.checkpoint()

	acc, err := s.account(ctx, accountNumber)
	if err != nil {
		return account.State{}, err
	}
	if err := requirePositive(amount); err != nil {
		return account.State{}, err
	}
	if err := s.authorize(ctx, acc, secrets, cp); err != nil {
		return account.State{}, err
	}

	if err := acc.Withdraw(amount); err != nil {
		s.logger.WarnContext(ctx, "Withdrawal rejected", "accountNumber", accountNumber, slog.Any("error", err))
		return account.State{}, err
	}
	if err := s.persist(ctx, cp); err != nil {
		return account.State{}, err
	}

	s.logger.InfoContext(ctx, "Withdrawal completed", "accountNumber", accountNumber, "amount", amount.String())
	return acc.State(), nil
}

func (s *ledgerServiceImpl) TransferFunds(ctx context.Context, fromAccount, toAccount string, amount decimal.Decimal, secrets SecretSource) (_ TransferReceipt, err error) {
	defer s.record("transfer", &err)
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := s.checkpoint()

	src, err := s.account(ctx, fromAccount)
	if err != nil {
		return TransferReceipt{}, err
	}
	dst, err := s.account(ctx, toAccount)
	if err != nil {
		return TransferReceipt{}, err
	}
	if fromAccount == toAccount {
		return TransferReceipt{}, fmt.Errorf("%w: cannot transfer from account %s to itself", apperrors.ErrInvalidArgument, fromAccount)
	}
	if err := requirePositive(amount); err != nil {
		return TransferReceipt{}, err
	}
	if err := s.authorize(ctx, src, secrets, cp); err != nil {
		return TransferReceipt{}, err
	}

	if err := src.Withdraw(amount); err != nil {
		s.logger.WarnContext(ctx, "Transfer rejected by source account", "from", fromAccount, "to", toAccount, slog.Any("error", err))
		return TransferReceipt{}, err
	}
	if err := dst.Deposit(amount); err != nil {
		if rbErr := src.Deposit(amount); rbErr != nil {
			s.logger.ErrorContext(ctx, "Failed to roll back transfer withdrawal", "from", fromAccount, slog.Any("error", rbErr))
			return TransferReceipt{}, fmt.Errorf("%w: transfer rollback failed for account %s: %w", apperrors.ErrInternalServer, fromAccount, errors.Join(err, rbErr))
		}
		s.logger.WarnContext(ctx, "Transfer rolled back after deposit failure", "from", fromAccount, "to", toAccount, slog.Any("error", err))
		return TransferReceipt{}, fmt.Errorf("transfer to %s failed and was rolled back: %w", toAccount, err)
	}
	if err := s.persist(ctx, cp); err != nil {
		return TransferReceipt{}, err
	}

	s.logger.InfoContext(ctx, "Transfer completed", "from", fromAccount, "to", toAccount, "amount", amount.String())
	return TransferReceipt{From: src.State(), To: dst.State(), Amount: amount}, nil
}

func (s *ledgerServiceImpl) ApplyAllInterest(ctx context.Context) (_ int, err error) {
	defer s.record("apply_interest", &err)
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := s.checkpoint()

	credited := 0
	for _, number := range s.sortedAccountNumbers() {
		bearer, ok := s.accounts[number].(account.InterestBearer)
		if !ok {
			continue
		}
		interest := bearer.ApplyInterest()
		credited++
		s.logger.DebugContext(ctx, "Interest applied", "accountNumber", number, "interest", interest.String())
	}
	if err := s.persist(ctx, cp); err != nil {
		return 0, err
	}

	s.logger.InfoContext(ctx, "Interest applied to savings accounts", "accounts", credited)
	return credited, nil
}

// authorize runs one password check against acc. The outcome is saved
// whether or not the password matched.
func (s *ledgerServiceImpl) authorize(ctx context.Context, acc account.Account, secrets SecretSource, cp *checkpoint) error {
	number := acc.Number()
	if acc.IsLocked() {
		s.logger.WarnContext(ctx, "Operation refused on locked account", "accountNumber", number)
		return &apperrors.AuthError{AccountNumber: number, Locked: true}
	}
	if secrets == nil {
		return fmt.Errorf("%w: no password source for account %s", apperrors.ErrInvalidArgument, number)
	}

	secret, err := secrets.Secret(ctx, number)
	if err != nil {
		s.logger.WarnContext(ctx, "Password input failed", "accountNumber", number, slog.Any("error", err))
		return fmt.Errorf("%w: password input for account %s: %w", apperrors.ErrCancelled, number, err)
	}

	verified := acc.VerifyPassword(secret)
	if err := s.persist(ctx, cp); err != nil {
		return err
	}
	if verified {
		return nil
	}

	if acc.IsLocked() {
		s.logger.WarnContext(ctx, "Account locked after repeated failed password attempts", "accountNumber", number)
		monitoring.RecordLockout()
		s.publishAccountLocked(ctx, acc)
		return &apperrors.AuthError{AccountNumber: number, Locked: true}
	}

	s.logger.WarnContext(ctx, "Incorrect password", "accountNumber", number, "remainingAttempts", acc.RemainingAttempts())
	return &apperrors.AuthError{AccountNumber: number, RemainingAttempts: acc.RemainingAttempts()}
}

func (s *ledgerServiceImpl) customer(ctx context.Context, customerID string) (*customer.Customer, error) {
	cust, ok := s.customers[customerID]
	if !ok {
		s.logger.WarnContext(ctx, "Customer not found", "customerID", customerID)
		return nil, fmt.Errorf("%w: customer with ID %s not found", apperrors.ErrNotFound, customerID)
	}
	return cust, nil
}

func (s *ledgerServiceImpl) account(ctx context.Context, accountNumber string) (account.Account, error) {
	acc, ok := s.accounts[accountNumber]
	if !ok {
		s.logger.WarnContext(ctx, "Account not found", "accountNumber", accountNumber)
		return nil, fmt.Errorf("%w: account %s not found", apperrors.ErrNotFound, accountNumber)
	}
	return acc, nil
}

// ownedStates returns the customer's accounts in stored order. Numbers with
// no matching account are skipped.
func (s *ledgerServiceImpl) ownedStates(cust *customer.Customer) []account.State {
	numbers := cust.AccountNumbers()
	states := make([]account.State, 0, len(numbers))
	for _, number := range numbers {
		if acc, ok := s.accounts[number]; ok {
			states = append(states, acc.State())
		}
	}
	return states
}

func (s *ledgerServiceImpl) sortedAccountNumbers() []string {
	numbers := make([]string, 0, len(s.accounts))
	for number := range s.accounts {
		numbers = append(numbers, number)
	}
	slices.Sort(numbers)
	return numbers
}

func (s *ledgerServiceImpl) generateAccountNumber() (string, error) {
	for range maxAccountNumberAttempts {
		number := s.newAccountNumber()
		if number == "" {
			continue
		}
		if _, taken := s.accounts[number]; !taken {
			return number, nil
		}
	}
	return "", fmt.Errorf("%w: could not allocate a unique account number after %d attempts", apperrors.ErrInternalServer, maxAccountNumberAttempts)
}

func (s *ledgerServiceImpl) publishAccountLocked(ctx context.Context, acc account.Account) {
	err := s.publisher.PublishAccountLocked(ctx, event.AccountLockedEvent{
		AccountNumber:  acc.Number(),
		CustomerID:     acc.OwnerID(),
		FailedAttempts: acc.FailedAttempts(),
		Timestamp:      s.now(),
	})
	if err != nil {
		s.logger.WarnContext(ctx, "Failed to publish account locked event", "accountNumber", acc.Number(), slog.Any("error", err))
	}
}

func (s *ledgerServiceImpl) publishCustomerRemoved(ctx context.Context, evt event.CustomerRemovedEvent) {
	if err := s.publisher.PublishCustomerRemoved(ctx, evt); err != nil {
		s.logger.WarnContext(ctx, "Failed to publish customer removed event", "customerID", evt.CustomerID, slog.Any("error", err))
	}
}

func (s *ledgerServiceImpl) record(operation string, err *error) {
	monitoring.RecordLedgerOperation(operation, monitoring.OutcomeFor(*err))
}

func requirePositive(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: amount must be positive, got %s", apperrors.ErrInvalidAmount, amount.String())
	}
	return nil
}

func withBalance(states []account.State) []account.State {
	var funded []account.State
	for _, st := range states {
		if !st.Balance.IsZero() {
			funded = append(funded, st)
		}
	}
	return funded
}
