package account

import (
	"bank-ledger/internal/pkg/apperrors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

type Type string

const (
	TypeSavings  Type = "savings"
	TypeChecking Type = "checking"
)

var (
	DefaultInterestRate   = decimal.RequireFromString("0.01")
	DefaultOverdraftLimit = decimal.Zero
)

func ParseType(s string) (Type, error) {
	switch Type(strings.ToLower(strings.TrimSpace(s))) {
	case TypeSavings:
		return TypeSavings, nil
	case TypeChecking:
		return TypeChecking, nil
	default:
		return "", fmt.Errorf("%w: %q", apperrors.ErrUnsupportedAccountType, s)
	}
}

// Account is the capability set shared by every account variant.
type Account interface {
	Number() string
	OwnerID() string
	Type() Type
	Balance() decimal.Decimal
	// Floor is the lowest balance a withdrawal may leave behind.
	Floor() decimal.Decimal

	Deposit(amount decimal.Decimal) error
	Withdraw(amount decimal.Decimal) error

	Describe() string
	State() State

	IsLocked() bool
	FailedAttempts() int
	RemainingAttempts() int
	VerifyPassword(plaintext string) bool
	RecordFailedAttempt()
}

// InterestBearer is implemented by accounts that accrue interest.
type InterestBearer interface {
	ApplyInterest() decimal.Decimal
}

// Params describes a new account. A nil InterestRate or OverdraftLimit falls
// back to the package defaults.
type Params struct {
	Number         string
	OwnerID        string
	Type           Type
	InitialBalance decimal.Decimal
	Password       string
	InterestRate   *decimal.Decimal
	OverdraftLimit *decimal.Decimal
}

func New(p Params) (Account, error) {
	if strings.TrimSpace(p.Number) == "" {
		return nil, apperrors.NewValidationError("accountNumber", "cannot be empty")
	}
	if strings.TrimSpace(p.OwnerID) == "" {
		return nil, apperrors.NewValidationError("customerId", "cannot be empty")
	}

	var acc Account
	switch p.Type {
	case TypeSavings:
		rate := DefaultInterestRate
		if p.InterestRate != nil {
			rate = *p.InterestRate
		}
		if rate.IsNegative() {
			return nil, apperrors.NewValidationError("interestRate", "must not be negative")
		}
		acc = NewSavings(p.Number, p.OwnerID, p.InitialBalance, p.Password, rate)
	case TypeChecking:
		limit := DefaultOverdraftLimit
		if p.OverdraftLimit != nil {
			limit = *p.OverdraftLimit
		}
		if limit.IsNegative() {
			return nil, apperrors.NewValidationError("overdraftLimit", "must not be negative")
		}
		acc = NewChecking(p.Number, p.OwnerID, p.InitialBalance, p.Password, limit)
	default:
		return nil, fmt.Errorf("%w: %q", apperrors.ErrUnsupportedAccountType, p.Type)
	}

	if p.InitialBalance.LessThan(acc.Floor()) {
		return nil, fmt.Errorf("%w: initial balance %s is below the account floor %s",
			apperrors.ErrInvalidAmount, p.InitialBalance.StringFixed(2), acc.Floor().StringFixed(2))
	}
	return acc, nil
}

// FromState rebuilds an account from its persisted record.
func FromState(s State) (Account, error) {
	cred := RestoreCredential(s.PasswordHash, s.FailedAttempts, s.Locked)
	switch s.Type {
	case TypeSavings:
		return &Savings{
			base:         base{number: s.Number, ownerID: s.OwnerID, balance: s.Balance, credential: cred},
			interestRate: s.InterestRate,
		}, nil
	case TypeChecking:
		return &Checking{
			base:           base{number: s.Number, ownerID: s.OwnerID, balance: s.Balance, credential: cred},
			overdraftLimit: s.OverdraftLimit,
		}, nil
	default:
		return nil, fmt.Errorf("%w: %q for account %s", apperrors.ErrUnsupportedAccountType, s.Type, s.Number)
	}
}

type base struct {
	number     string
	ownerID    string
	balance    decimal.Decimal
	credential Credential
}

func (b *base) Number() string           { return b.number }
func (b *base) OwnerID() string          { return b.ownerID }
func (b *base) Balance() decimal.Decimal { return b.balance }

func (b *base) IsLocked() bool         { return b.credential.IsLocked() }
func (b *base) FailedAttempts() int    { return b.credential.FailedAttempts() }
func (b *base) RemainingAttempts() int { return b.credential.RemainingAttempts() }
func (b *base) RecordFailedAttempt()   { b.credential.RecordFailedAttempt() }

func (b *base) VerifyPassword(plaintext string) bool {
	return b.credential.Verify(plaintext)
}

func (b *base) deposit(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: deposit amount must be positive, got %s", apperrors.ErrInvalidAmount, amount.String())
	}
	b.balance = b.balance.Add(amount)
	return nil
}

func (b *base) state(t Type) State {
	return State{
		Number:         b.number,
		OwnerID:        b.ownerID,
		Type:           t,
		Balance:        b.balance,
		PasswordHash:   b.credential.Hash(),
		FailedAttempts: b.credential.FailedAttempts(),
		Locked:         b.credential.IsLocked(),
	}
}
