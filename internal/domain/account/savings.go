package account

import (
	"bank-ledger/internal/pkg/apperrors"
	"fmt"

	"github.com/shopspring/decimal"
)

type Savings struct {
	base
	interestRate decimal.Decimal
}

var (
	_ Account        = (*Savings)(nil)
	_ InterestBearer = (*Savings)(nil)
)

func NewSavings(number, ownerID string, initialBalance decimal.Decimal, password string, interestRate decimal.Decimal) *Savings {
	return &Savings{
		base: base{
			number:     number,
			ownerID:    ownerID,
			balance:    initialBalance,
			credential: NewCredential(password),
		},
		interestRate: interestRate,
	}
}

func (s *Savings) Type() Type { return TypeSavings }

func (s *Savings) Floor() decimal.Decimal { return decimal.Zero }

func (s *Savings) InterestRate() decimal.Decimal { return s.interestRate }

func (s *Savings) Deposit(amount decimal.Decimal) error {
	return s.deposit(amount)
}

func (s *Savings) Withdraw(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: withdrawal amount must be positive, got %s", apperrors.ErrInvalidAmount, amount.String())
	}
	if s.balance.LessThan(amount) {
		return fmt.Errorf("%w: account %s has %s, requested %s",
			apperrors.ErrInsufficientFunds, s.number, s.balance.StringFixed(2), amount.StringFixed(2))
	}
	s.balance = s.balance.Sub(amount)
	return nil
}

// InterestPlaces bounds the scale of credited interest so repeated runs do
// not grow the stored balance's digits.
const InterestPlaces int32 = 8

// ApplyInterest credits balance * rate, rounded half away from zero to
// InterestPlaces decimals, and returns the credited amount.
func (s *Savings) ApplyInterest() decimal.Decimal {
	interest := s.balance.Mul(s.interestRate).Round(InterestPlaces)
	s.balance = s.balance.Add(interest)
	return interest
}

func (s *Savings) State() State {
	st := s.state(TypeSavings)
	st.InterestRate = s.interestRate
	return st
}

func (s *Savings) Describe() string {
	return s.State().Describe()
}
