package account_test

import (
	"bank-ledger/internal/domain/account"
	"bank-ledger/internal/pkg/apperrors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertBalance(t *testing.T, expected string, acc account.Account) {
	t.Helper()
	assert.True(t, d(expected).Equal(acc.Balance()), "expected balance %s, got %s", expected, acc.Balance().String())
}

func TestParseType(t *testing.T) {
	tests := []struct {
		input    string
		expected account.Type
		wantErr  bool
	}{
		{input: "savings", expected: account.TypeSavings},
		{input: " Checking ", expected: account.TypeChecking},
		{input: "SAVINGS", expected: account.TypeSavings},
		{input: "brokerage", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := account.ParseType(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, apperrors.ErrUnsupportedAccountType)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestSavings_ApplyInterest(t *testing.T) {
	acc := account.NewSavings("s1", "c1", d("100"), "pw", d("0.01"))

	credited := acc.ApplyInterest()

	assertBalance(t, "101", acc)
	assert.True(t, d("1").Equal(credited))

	zeroRate := account.NewSavings("s2", "c1", d("100"), "pw", decimal.Zero)
	zeroRate.ApplyInterest()
	assertBalance(t, "100", zeroRate)
}

func TestSavings_ApplyInterestKeepsScaleBounded(t *testing.T) {
	acc := account.NewSavings("s1", "c1", d("100.37"), "pw", d("0.0137"))

	for i := 0; i < 50; i++ {
		credited := acc.ApplyInterest()
		assert.GreaterOrEqual(t, credited.Exponent(), -account.InterestPlaces)
	}

	assert.GreaterOrEqual(t, acc.Balance().Exponent(), -account.InterestPlaces)
	// 100.37 * 1.0137 = 101.745069, rounded at the eighth place stays exact.
	first := account.NewSavings("s2", "c1", d("100.37"), "pw", d("0.0137"))
	first.ApplyInterest()
	assertBalance(t, "101.745069", first)
}

func TestSavings_DepositWithdraw(t *testing.T) {
	t.Run("Deposit positive amount", func(t *testing.T) {
		acc := account.NewSavings("s1", "c1", d("10"), "pw", d("0.01"))
		assert.NoError(t, acc.Deposit(d("5.25")))
		assertBalance(t, "15.25", acc)
	})

	t.Run("Reject non-positive amounts without mutation", func(t *testing.T) {
		acc := account.NewSavings("s1", "c1", d("10"), "pw", d("0.01"))
		for _, amount := range []string{"0", "-5"} {
			assert.ErrorIs(t, acc.Deposit(d(amount)), apperrors.ErrInvalidAmount)
			assert.ErrorIs(t, acc.Withdraw(d(amount)), apperrors.ErrInvalidAmount)
		}
		assertBalance(t, "10", acc)
	})

	t.Run("Withdraw down to zero", func(t *testing.T) {
		acc := account.NewSavings("s1", "c1", d("10"), "pw", d("0.01"))
		assert.NoError(t, acc.Withdraw(d("10")))
		assertBalance(t, "0", acc)
	})

	t.Run("Withdraw beyond balance fails", func(t *testing.T) {
		acc := account.NewSavings("s1", "c1", d("10"), "pw", d("0.01"))
		err := acc.Withdraw(d("10.01"))
		assert.ErrorIs(t, err, apperrors.ErrInsufficientFunds)
		assertBalance(t, "10", acc)
	})
}

func TestChecking_Overdraft(t *testing.T) {
	acc := account.NewChecking("c1", "owner", d("50"), "pw", d("20"))

	require.NoError(t, acc.Withdraw(d("60")))
	assertBalance(t, "-10", acc)

	err := acc.Withdraw(d("20"))
	assert.ErrorIs(t, err, apperrors.ErrOverdraftExceeded)
	assertBalance(t, "-10", acc)

	require.NoError(t, acc.Withdraw(d("10")))
	assertBalance(t, "-20", acc)
	assert.True(t, d("-20").Equal(acc.Floor()))
}

func TestWithdrawNeverCrossesFloor(t *testing.T) {
	accounts := []account.Account{
		account.NewSavings("s", "o", d("35"), "pw", d("0.01")),
		account.NewChecking("c", "o", d("35"), "pw", d("15")),
	}
	amounts := []string{"10", "7.5", "30", "0.01", "12", "100", "3"}

	for _, acc := range accounts {
		for _, amount := range amounts {
			_ = acc.Withdraw(d(amount))
			assert.False(t, acc.Balance().LessThan(acc.Floor()),
				"%s balance %s crossed floor %s", acc.Type(), acc.Balance(), acc.Floor())
		}
	}
}

func TestNew(t *testing.T) {
	t.Run("Savings defaults", func(t *testing.T) {
		acc, err := account.New(account.Params{Number: "n1", OwnerID: "c1", Type: account.TypeSavings, InitialBalance: d("5"), Password: "pass"})
		require.NoError(t, err)
		savings, ok := acc.(*account.Savings)
		require.True(t, ok)
		assert.True(t, account.DefaultInterestRate.Equal(savings.InterestRate()))
	})

	t.Run("Checking defaults", func(t *testing.T) {
		acc, err := account.New(account.Params{Number: "n1", OwnerID: "c1", Type: account.TypeChecking})
		require.NoError(t, err)
		checking, ok := acc.(*account.Checking)
		require.True(t, ok)
		assert.True(t, checking.OverdraftLimit().IsZero())
	})

	t.Run("Negative parameters rejected", func(t *testing.T) {
		neg := d("-0.5")
		_, err := account.New(account.Params{Number: "n1", OwnerID: "c1", Type: account.TypeSavings, InterestRate: &neg})
		assert.ErrorIs(t, err, apperrors.ErrValidation)

		_, err = account.New(account.Params{Number: "n1", OwnerID: "c1", Type: account.TypeChecking, OverdraftLimit: &neg})
		assert.ErrorIs(t, err, apperrors.ErrValidation)
	})

	t.Run("Initial balance below floor rejected", func(t *testing.T) {
		_, err := account.New(account.Params{Number: "n1", OwnerID: "c1", Type: account.TypeSavings, InitialBalance: d("-1")})
		assert.ErrorIs(t, err, apperrors.ErrInvalidAmount)

		limit := d("100")
		acc, err := account.New(account.Params{Number: "n2", OwnerID: "c1", Type: account.TypeChecking, InitialBalance: d("-50"), OverdraftLimit: &limit})
		assert.NoError(t, err)
		assertBalance(t, "-50", acc)
	})

	t.Run("Unsupported type", func(t *testing.T) {
		_, err := account.New(account.Params{Number: "n1", OwnerID: "c1", Type: "brokerage"})
		assert.ErrorIs(t, err, apperrors.ErrUnsupportedAccountType)
	})
}

func TestStateRoundTrip(t *testing.T) {
	original := account.NewChecking("c1", "owner", d("42.5"), "secret", d("20"))
	original.VerifyPassword("wrong")

	restored, err := account.FromState(original.State())
	require.NoError(t, err)

	assert.Equal(t, original.State(), restored.State())
	assert.Equal(t, 1, restored.FailedAttempts())
	assert.True(t, restored.VerifyPassword("secret"))

	_, err = account.FromState(account.State{Number: "x", Type: "gold"})
	assert.ErrorIs(t, err, apperrors.ErrUnsupportedAccountType)
}

func TestDescribe(t *testing.T) {
	savings := account.NewSavings("ab12cd34", "c1", d("100"), "pw", d("0.01"))
	assert.Equal(t, "Acc No: ab12cd34, Balance: ₹100.00, Type: Savings, Interest Rate: 1.00%", savings.Describe())

	checking := account.NewChecking("ef56gh78", "c1", d("-10"), "pw", d("20"))
	assert.Equal(t, "Acc No: ef56gh78, Balance: ₹-10.00, Type: Checking, Overdraft Limit: ₹20.00", checking.Describe())

	for i := 0; i < account.MaxFailedAttempts; i++ {
		checking.VerifyPassword("nope")
	}
	assert.Contains(t, checking.Describe(), "Status: Locked")
}
