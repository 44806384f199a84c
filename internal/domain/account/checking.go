package account

import (
	"bank-ledger/internal/pkg/apperrors"
	"fmt"

	"github.com/shopspring/decimal"
)

type Checking struct {
	base
	overdraftLimit decimal.Decimal
}

var _ Account = (*Checking)(nil)

func NewChecking(number, ownerID string, initialBalance decimal.Decimal, password string, overdraftLimit decimal.Decimal) *Checking {
	return &Checking{
		base: base{
			number:     number,
			ownerID:    ownerID,
			balance:    initialBalance,
			credential: NewCredential(password),
		},
		overdraftLimit: overdraftLimit,
	}
}

func (c *Checking) Type() Type { return TypeChecking }

func (c *Checking) Floor() decimal.Decimal { return c.overdraftLimit.Neg() }

func (c *Checking) OverdraftLimit() decimal.Decimal { return c.overdraftLimit }

func (c *Checking) Deposit(amount decimal.Decimal) error {
	return c.deposit(amount)
}

func (c *Checking) Withdraw(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: withdrawal amount must be positive, got %s", apperrors.ErrInvalidAmount, amount.String())
	}
	if c.balance.Sub(amount).LessThan(c.Floor()) {
		return fmt.Errorf("%w: account %s has %s with overdraft limit %s, requested %s",
			apperrors.ErrOverdraftExceeded, c.number, c.balance.StringFixed(2), c.overdraftLimit.StringFixed(2), amount.StringFixed(2))
	}
	c.balance = c.balance.Sub(amount)
	return nil
}

func (c *Checking) State() State {
	st := c.state(TypeChecking)
	st.OverdraftLimit = c.overdraftLimit
	return st
}

func (c *Checking) Describe() string {
	return c.State().Describe()
}
