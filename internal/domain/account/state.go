package account

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// State is a detached copy of every persisted account field. Only the rate
// or limit matching Type is meaningful.
type State struct {
	Number         string
	OwnerID        string
	Type           Type
	Balance        decimal.Decimal
	PasswordHash   string
	FailedAttempts int
	Locked         bool
	InterestRate   decimal.Decimal
	OverdraftLimit decimal.Decimal
}

func (s State) Floor() decimal.Decimal {
	if s.Type == TypeChecking {
		return s.OverdraftLimit.Neg()
	}
	return decimal.Zero
}

func (s State) Describe() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Acc No: %s, Balance: ₹%s", s.Number, s.Balance.StringFixed(2))
	switch s.Type {
	case TypeSavings:
		fmt.Fprintf(&b, ", Type: Savings, Interest Rate: %s%%", s.InterestRate.Mul(decimal.NewFromInt(100)).StringFixed(2))
	case TypeChecking:
		fmt.Fprintf(&b, ", Type: Checking, Overdraft Limit: ₹%s", s.OverdraftLimit.StringFixed(2))
	}
	if s.Locked {
		b.WriteString(", Status: Locked")
	}
	return b.String()
}
