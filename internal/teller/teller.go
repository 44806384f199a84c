package teller

import (
	"bank-ledger/internal/domain/account"
	"bank-ledger/internal/domain/customer"
	"bank-ledger/internal/domain/ledger"
	"bank-ledger/internal/pkg/apperrors"
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"
)

const minPasswordLength = 4

const menu = `
Banking System Menu:
1. Add Customer
2. Remove Customer
3. Create Account
4. Deposit
5. Withdraw
6. Transfer Funds
7. View Customer Accounts
8. Apply Interest to Savings Accounts
9. Display All Customers
10. Display All Accounts
11. Exit
`

// Teller is the interactive menu over a ledger. It answers the ledger's
// password and confirmation prompts from the operator's input.
type Teller struct {
	ledger    ledger.LedgerService
	lines     *lineReader
	out       io.Writer
	passwords PasswordReader
	logger    *slog.Logger
}

var _ ledger.Confirmer = (*Teller)(nil)

type Option func(*Teller)

// WithPasswordReader replaces the default, which reads passwords as plain
// lines from the menu input.
func WithPasswordReader(r PasswordReader) Option {
	return func(t *Teller) {
		if r != nil {
			t.passwords = r
		}
	}
}

func New(svc ledger.LedgerService, in io.Reader, out io.Writer, logger *slog.Logger, opts ...Option) *Teller {
	lines := &lineReader{scanner: bufio.NewScanner(in), out: out}
	t := &Teller{
		ledger:    svc,
		lines:     lines,
		out:       out,
		passwords: lines,
		logger:    logger.With("component", "Teller"),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Run shows the menu until the operator exits or input ends. Only a failure
// to persist the ledger is returned.
func (t *Teller) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		fmt.Fprint(t.out, menu)
		choice, err := t.lines.readLine("Enter your choice (1-11): ")
		if errors.Is(err, errNoInput) {
			t.println("\nExiting the banking system. Goodbye!")
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read menu choice: %w", err)
		}

		var opErr error
		switch strings.TrimSpace(choice) {
		case "1":
			opErr = t.addCustomer(ctx)
		case "2":
			opErr = t.removeCustomer(ctx)
		case "3":
			opErr = t.createAccount(ctx)
		case "4":
			opErr = t.deposit(ctx)
		case "5":
			opErr = t.withdraw(ctx)
		case "6":
			opErr = t.transfer(ctx)
		case "7":
			opErr = t.viewCustomerAccounts(ctx)
		case "8":
			opErr = t.applyInterest(ctx)
		case "9":
			opErr = t.displayCustomers(ctx)
		case "10":
			opErr = t.displayAccounts(ctx)
		case "11":
			t.println("Exiting the banking system. Goodbye!")
			return nil
		default:
			t.println("Invalid choice. Please enter a number between 1 and 11.")
			continue
		}

		if opErr == nil {
			continue
		}
		if errors.Is(opErr, errNoInput) {
			t.println("\nExiting the banking system. Goodbye!")
			return nil
		}
		if errors.Is(opErr, apperrors.ErrPersistence) {
			t.logger.ErrorContext(ctx, "Ledger could not be saved", slog.Any("error", opErr))
			t.println("Fatal: the ledger could not be saved. " + opErr.Error())
			return opErr
		}
		t.println(describeError(opErr))
	}
}

func (t *Teller) addCustomer(ctx context.Context) error {
	id, err := t.lines.readLine("Enter customer ID: ")
	if err != nil {
		return err
	}
	name, err := t.lines.readLine("Enter customer name: ")
	if err != nil {
		return err
	}
	address, err := t.lines.readLine("Enter customer address: ")
	if err != nil {
		return err
	}

	if _, err := t.ledger.AddCustomer(ctx, customer.NewCustomer(id, name, address)); err != nil {
		return err
	}
	t.println("Customer added successfully.")
	return nil
}

func (t *Teller) removeCustomer(ctx context.Context) error {
	id, err := t.lines.readLine("Enter customer ID to remove: ")
	if err != nil {
		return err
	}
	id = strings.TrimSpace(id)
	if err := t.ledger.RemoveCustomer(ctx, id, t); err != nil {
		if errors.Is(err, apperrors.ErrCancelled) {
			t.println("Customer removal cancelled.")
			return nil
		}
		return err
	}
	t.printf("Customer '%s' has been removed successfully.\n", id)
	return nil
}

// ConfirmClosure asks whether a customer's accounts may be closed.
func (t *Teller) ConfirmClosure(_ context.Context, cust *customer.Customer, accounts []account.State) (bool, error) {
	t.printf("Customer '%s' has %d active account(s).\n", cust.CustomerID, len(accounts))
	if len(accounts) > 0 {
		t.println("Account details:")
		for _, st := range accounts {
			t.printf("  - %s\n", st.Describe())
		}
	}
	t.println("\nOptions:")
	t.println("1. Cancel removal (keep customer and accounts)")
	t.println("2. Remove customer and close all accounts (balances will be lost)")

	choice, err := t.lines.readLine("Enter your choice (1-2): ")
	if err != nil {
		return false, err
	}
	switch strings.TrimSpace(choice) {
	case "2":
		return true, nil
	case "1":
		return false, nil
	default:
		t.println("Invalid choice.")
		return false, nil
	}
}

// ConfirmBalanceLoss lists the funded accounts and returns the line the
// operator typed, untrimmed.
func (t *Teller) ConfirmBalanceLoss(_ context.Context, accounts []account.State) (string, error) {
	t.println("\nWarning: The following accounts have non-zero balances:")
	for _, st := range accounts {
		t.printf("  - Account %s: ₹%s\n", st.Number, st.Balance.StringFixed(2))
	}
	return t.lines.readLine(fmt.Sprintf("Type '%s' to proceed with removal (balances will be lost): ", ledger.BalanceLossToken))
}

func (t *Teller) createAccount(ctx context.Context) error {
	id, err := t.lines.readLine("Enter customer ID: ")
	if err != nil {
		return err
	}
	id = strings.TrimSpace(id)
	if _, err := t.ledger.GetCustomer(ctx, id); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			t.printf("Error: Customer ID '%s' not found. Please add the customer first.\n", id)
			return nil
		}
		return err
	}

	typeInput, err := t.lines.readLine("Enter account type (savings/checking): ")
	if err != nil {
		return err
	}
	accType, err := account.ParseType(typeInput)
	if err != nil {
		t.println("Invalid account type.")
		return nil
	}

	balanceInput, err := t.lines.readLine("Enter initial balance: ")
	if err != nil {
		return err
	}
	balance, ok := parseDecimal(balanceInput)
	if !ok {
		t.println("Invalid balance amount.")
		return nil
	}

	password, err := t.passwords.ReadPassword("Set a password for the account: ")
	if err != nil {
		return err
	}
	confirm, err := t.passwords.ReadPassword("Confirm password: ")
	if err != nil {
		return err
	}
	if password != confirm {
		t.println("Passwords do not match. Account creation cancelled.")
		return nil
	}
	if len(password) < minPasswordLength {
		t.printf("Password must be at least %d characters long.\n", minPasswordLength)
		return nil
	}

	req := ledger.CreateAccountRequest{
		CustomerID:     id,
		Type:           string(accType),
		InitialBalance: balance,
		Password:       password,
	}
	switch accType {
	case account.TypeSavings:
		rate, ok, err := t.optionalDecimal("Enter interest rate (e.g., 0.01 for 1%): ")
		if err != nil {
			return err
		}
		if !ok {
			t.println("Invalid interest rate.")
			return nil
		}
		req.InterestRate = rate
	case account.TypeChecking:
		limit, ok, err := t.optionalDecimal("Enter overdraft limit: ")
		if err != nil {
			return err
		}
		if !ok {
			t.println("Invalid overdraft limit.")
			return nil
		}
		req.OverdraftLimit = limit
	}

	st, err := t.ledger.CreateAccount(ctx, req)
	if err != nil {
		return err
	}
	t.printf("Account created successfully. Account Number: %s\n", st.Number)
	return nil
}

func (t *Teller) deposit(ctx context.Context) error {
	number, err := t.lines.readLine("Enter account number: ")
	if err != nil {
		return err
	}
	amount, ok, err := t.readAmount("Enter amount to deposit: ")
	if err != nil || !ok {
		return err
	}

	if _, err := t.ledger.Deposit(ctx, strings.TrimSpace(number), amount); err != nil {
		return err
	}
	t.println("Deposit successful.")
	return nil
}

func (t *Teller) withdraw(ctx context.Context) error {
	number, err := t.lines.readLine("Enter account number: ")
	if err != nil {
		return err
	}
	amount, ok, err := t.readAmount("Enter amount to withdraw: ")
	if err != nil || !ok {
		return err
	}

	secrets := ledger.SecretFunc(func(context.Context, string) (string, error) {
		return t.passwords.ReadPassword("Enter account password: ")
	})
	if _, err := t.ledger.Withdraw(ctx, strings.TrimSpace(number), amount, secrets); err != nil {
		return err
	}
	t.println("Withdrawal successful.")
	return nil
}

func (t *Teller) transfer(ctx context.Context) error {
	from, err := t.lines.readLine("Enter source account number: ")
	if err != nil {
		return err
	}
	to, err := t.lines.readLine("Enter destination account number: ")
	if err != nil {
		return err
	}
	amount, ok, err := t.readAmount("Enter amount to transfer: ")
	if err != nil || !ok {
		return err
	}

	secrets := ledger.SecretFunc(func(_ context.Context, accountNumber string) (string, error) {
		return t.passwords.ReadPassword(fmt.Sprintf("Enter password for source account %s: ", accountNumber))
	})
	if _, err := t.ledger.TransferFunds(ctx, strings.TrimSpace(from), strings.TrimSpace(to), amount, secrets); err != nil {
		return err
	}
	t.println("Transfer successful.")
	return nil
}

func (t *Teller) viewCustomerAccounts(ctx context.Context) error {
	id, err := t.lines.readLine("Enter customer ID: ")
	if err != nil {
		return err
	}
	id = strings.TrimSpace(id)
	states, err := t.ledger.GetCustomerAccounts(ctx, id)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return err
	}
	if len(states) == 0 {
		t.println("No accounts found or customer does not exist.")
		return nil
	}
	t.printf("\nAccounts for customer %s:\n", id)
	for _, st := range states {
		t.println(st.Describe())
	}
	return nil
}

func (t *Teller) applyInterest(ctx context.Context) error {
	credited, err := t.ledger.ApplyAllInterest(ctx)
	if err != nil {
		return err
	}
	t.printf("Interest applied to %d savings account(s).\n", credited)
	return nil
}

func (t *Teller) displayCustomers(ctx context.Context) error {
	customers, err := t.ledger.ListCustomers(ctx)
	if err != nil {
		return err
	}
	t.println("\nAll Customers:")
	if len(customers) == 0 {
		t.println("No customers found.")
		return nil
	}
	for _, cust := range customers {
		t.println(cust.Describe())
	}
	return nil
}

func (t *Teller) displayAccounts(ctx context.Context) error {
	states, err := t.ledger.ListAccounts(ctx)
	if err != nil {
		return err
	}
	t.println("\nAll Accounts:")
	if len(states) == 0 {
		t.println("No accounts found.")
		return nil
	}
	for _, st := range states {
		t.println(st.Describe())
	}
	return nil
}

// readAmount prints "Invalid amount." and reports ok=false for input that is
// not a number. Sign checks are left to the ledger.
func (t *Teller) readAmount(prompt string) (decimal.Decimal, bool, error) {
	input, err := t.lines.readLine(prompt)
	if err != nil {
		return decimal.Zero, false, err
	}
	amount, ok := parseDecimal(input)
	if !ok {
		t.println("Invalid amount.")
	}
	return amount, ok, nil
}

// optionalDecimal returns nil for blank input so the ledger default applies.
func (t *Teller) optionalDecimal(prompt string) (*decimal.Decimal, bool, error) {
	input, err := t.lines.readLine(prompt)
	if err != nil {
		return nil, false, err
	}
	if strings.TrimSpace(input) == "" {
		return nil, true, nil
	}
	d, ok := parseDecimal(input)
	if !ok {
		return nil, false, nil
	}
	return &d, true, nil
}

func (t *Teller) println(s string) {
	fmt.Fprintln(t.out, s)
}

func (t *Teller) printf(format string, args ...any) {
	fmt.Fprintf(t.out, format, args...)
}

func parseDecimal(s string) (decimal.Decimal, bool) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

func describeError(err error) string {
	var authErr *apperrors.AuthError
	switch {
	case errors.As(err, &authErr) && authErr.Locked:
		return fmt.Sprintf("Error: Account %s is locked due to multiple failed password attempts.", authErr.AccountNumber)
	case errors.As(err, &authErr):
		return fmt.Sprintf("Incorrect password. %d attempts remaining.", authErr.RemainingAttempts)
	case errors.Is(err, apperrors.ErrAlreadyExists):
		return "Error: Customer ID already exists."
	default:
		return "Error: " + err.Error()
	}
}
