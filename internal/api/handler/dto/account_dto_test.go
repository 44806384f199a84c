package dto

import (
	"bank-ledger/internal/domain/account"
	"bank-ledger/internal/domain/ledger"
	"bank-ledger/internal/pkg/apperrors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"Integer", "100", "100", false},
		{"Fraction", " 12.345 ", "12.345", false},
		{"Zero", "0", "", true},
		{"Negative", "-5", "", true},
		{"Not a number", "ten", "", true},
		{"Empty", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAmount("amount", tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, apperrors.ErrInvalidAmount)
				var vErr *apperrors.ValidationError
				assert.ErrorAs(t, err, &vErr)
				assert.Equal(t, "amount", vErr.Field)
				return
			}
			require.NoError(t, err)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)))
		})
	}
}

func TestCreateAccountRequestToDomain(t *testing.T) {
	t.Run("Savings with explicit rate", func(t *testing.T) {
		req := CreateAccountRequest{CustomerID: "C001", Type: "Savings", InitialBalance: "100.50", Password: "pw", InterestRate: strPtr("0.02")}
		got, err := req.ToDomain()
		require.NoError(t, err)

		assert.Equal(t, "C001", got.CustomerID)
		assert.Equal(t, "Savings", got.Type)
		assert.Equal(t, "pw", got.Password)
		assert.True(t, got.InitialBalance.Equal(decimal.RequireFromString("100.5")))
		require.NotNil(t, got.InterestRate)
		assert.True(t, got.InterestRate.Equal(decimal.RequireFromString("0.02")))
		assert.Nil(t, got.OverdraftLimit)
	})

	t.Run("Empty initial balance defaults to zero", func(t *testing.T) {
		req := CreateAccountRequest{CustomerID: "C001", Type: "checking", OverdraftLimit: strPtr("50")}
		got, err := req.ToDomain()
		require.NoError(t, err)
		assert.True(t, got.InitialBalance.IsZero())
		require.NotNil(t, got.OverdraftLimit)
		assert.True(t, got.OverdraftLimit.Equal(decimal.NewFromInt(50)))
	})

	t.Run("Invalid inputs", func(t *testing.T) {
		tests := []struct {
			name string
			req  CreateAccountRequest
			want error
		}{
			{"Missing customer", CreateAccountRequest{Type: "savings"}, apperrors.ErrValidation},
			{"Missing type", CreateAccountRequest{CustomerID: "C001"}, apperrors.ErrValidation},
			{"Bad balance", CreateAccountRequest{CustomerID: "C001", Type: "savings", InitialBalance: "lots"}, apperrors.ErrInvalidAmount},
			{"Bad rate", CreateAccountRequest{CustomerID: "C001", Type: "savings", InterestRate: strPtr("1%")}, apperrors.ErrInvalidAmount},
			{"Bad limit", CreateAccountRequest{CustomerID: "C001", Type: "checking", OverdraftLimit: strPtr("")}, apperrors.ErrInvalidAmount},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := tt.req.ToDomain()
				assert.ErrorIs(t, err, tt.want)
			})
		}
	})
}

func TestTransferRequestValidate(t *testing.T) {
	assert.NoError(t, (&TransferRequest{FromAccount: "a", ToAccount: "b"}).Validate())
	assert.ErrorIs(t, (&TransferRequest{ToAccount: "b"}).Validate(), apperrors.ErrValidation)
	assert.ErrorIs(t, (&TransferRequest{FromAccount: "a"}).Validate(), apperrors.ErrValidation)
}

func TestNewAccountResponse(t *testing.T) {
	t.Run("Savings", func(t *testing.T) {
		st := account.State{
			Number:         "sav00001",
			OwnerID:        "C001",
			Type:           account.TypeSavings,
			Balance:        decimal.RequireFromString("101"),
			FailedAttempts: 1,
			InterestRate:   decimal.RequireFromString("0.01"),
		}
		resp := NewAccountResponse(st)

		assert.Equal(t, "sav00001", resp.AccountNumber)
		assert.Equal(t, "C001", resp.CustomerID)
		assert.Equal(t, "savings", resp.Type)
		assert.Equal(t, "101.00", resp.Balance)
		assert.Equal(t, 2, resp.RemainingAttempts)
		require.NotNil(t, resp.InterestRate)
		assert.Equal(t, "0.01", *resp.InterestRate)
		assert.Nil(t, resp.OverdraftLimit)
		assert.Equal(t, st.Describe(), resp.Summary)
	})

	t.Run("Locked checking", func(t *testing.T) {
		st := account.State{
			Number:         "chk00001",
			OwnerID:        "C001",
			Type:           account.TypeChecking,
			Balance:        decimal.RequireFromString("-10"),
			FailedAttempts: 3,
			Locked:         true,
			OverdraftLimit: decimal.RequireFromString("20"),
		}
		resp := NewAccountResponse(st)

		assert.Equal(t, "-10.00", resp.Balance)
		assert.True(t, resp.Locked)
		assert.Zero(t, resp.RemainingAttempts)
		require.NotNil(t, resp.OverdraftLimit)
		assert.Equal(t, "20.00", *resp.OverdraftLimit)
		assert.Nil(t, resp.InterestRate)
	})
}

func TestNewTransferResponse(t *testing.T) {
	receipt := ledger.TransferReceipt{
		From:   account.State{Number: "a", Type: account.TypeSavings, Balance: decimal.NewFromInt(70)},
		To:     account.State{Number: "b", Type: account.TypeChecking, Balance: decimal.NewFromInt(30)},
		Amount: decimal.NewFromInt(30),
	}
	resp := NewTransferResponse(receipt)

	assert.Equal(t, "a", resp.From.AccountNumber)
	assert.Equal(t, "70.00", resp.From.Balance)
	assert.Equal(t, "30.00", resp.To.Balance)
	assert.Equal(t, "30.00", resp.Amount)
}
