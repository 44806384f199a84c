package dto

import (
	"bank-ledger/internal/domain/account"
	"bank-ledger/internal/domain/ledger"
	"bank-ledger/internal/pkg/apperrors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

type CreateAccountRequest struct {
	CustomerID     string  `json:"customerId"`
	Type           string  `json:"type"`
	InitialBalance string  `json:"initialBalance"`
	Password       string  `json:"password"`
	InterestRate   *string `json:"interestRate,omitempty"`
	OverdraftLimit *string `json:"overdraftLimit,omitempty"`
}

// ToDomain validates the request and converts its decimal strings. An empty
// initial balance means zero.
func (r *CreateAccountRequest) ToDomain() (ledger.CreateAccountRequest, error) {
	if strings.TrimSpace(r.CustomerID) == "" {
		return ledger.CreateAccountRequest{}, apperrors.NewValidationError("customerId", "cannot be empty")
	}
	if strings.TrimSpace(r.Type) == "" {
		return ledger.CreateAccountRequest{}, apperrors.NewValidationError("type", "cannot be empty")
	}

	balance := decimal.Zero
	if strings.TrimSpace(r.InitialBalance) != "" {
		var err error
		if balance, err = parseDecimal("initialBalance", r.InitialBalance); err != nil {
			return ledger.CreateAccountRequest{}, err
		}
	}

	req := ledger.CreateAccountRequest{
		CustomerID:     strings.TrimSpace(r.CustomerID),
		Type:           r.Type,
		InitialBalance: balance,
		Password:       r.Password,
	}
	if r.InterestRate != nil {
		rate, err := parseDecimal("interestRate", *r.InterestRate)
		if err != nil {
			return ledger.CreateAccountRequest{}, err
		}
		req.InterestRate = &rate
	}
	if r.OverdraftLimit != nil {
		limit, err := parseDecimal("overdraftLimit", *r.OverdraftLimit)
		if err != nil {
			return ledger.CreateAccountRequest{}, err
		}
		req.OverdraftLimit = &limit
	}
	return req, nil
}

type AmountRequest struct {
	Amount string `json:"amount"`
}

func (r *AmountRequest) ParseAmount() (decimal.Decimal, error) {
	return ParseAmount("amount", r.Amount)
}

type WithdrawRequest struct {
	Amount   string `json:"amount"`
	Password string `json:"password"`
}

func (r *WithdrawRequest) ParseAmount() (decimal.Decimal, error) {
	return ParseAmount("amount", r.Amount)
}

type TransferRequest struct {
	FromAccount string `json:"fromAccount"`
	ToAccount   string `json:"toAccount"`
	Amount      string `json:"amount"`
	Password    string `json:"password"`
}

func (r *TransferRequest) Validate() error {
	if strings.TrimSpace(r.FromAccount) == "" {
		return apperrors.NewValidationError("fromAccount", "cannot be empty")
	}
	if strings.TrimSpace(r.ToAccount) == "" {
		return apperrors.NewValidationError("toAccount", "cannot be empty")
	}
	return nil
}

func (r *TransferRequest) ParseAmount() (decimal.Decimal, error) {
	return ParseAmount("amount", r.Amount)
}

type AccountResponse struct {
	AccountNumber     string  `json:"accountNumber"`
	CustomerID        string  `json:"customerId"`
	Type              string  `json:"type"`
	Balance           string  `json:"balance"`
	FailedAttempts    int     `json:"failedAttempts"`
	RemainingAttempts int     `json:"remainingAttempts"`
	Locked            bool    `json:"locked"`
	InterestRate      *string `json:"interestRate,omitempty"`
	OverdraftLimit    *string `json:"overdraftLimit,omitempty"`
	Summary           string  `json:"summary"`
}

func NewAccountResponse(st account.State) AccountResponse {
	remaining := account.MaxFailedAttempts - st.FailedAttempts
	if st.Locked || remaining < 0 {
		remaining = 0
	}
	resp := AccountResponse{
		AccountNumber:     st.Number,
		CustomerID:        st.OwnerID,
		Type:              string(st.Type),
		Balance:           formatMoney(st.Balance),
		FailedAttempts:    st.FailedAttempts,
		RemainingAttempts: remaining,
		Locked:            st.Locked,
		Summary:           st.Describe(),
	}
	switch st.Type {
	case account.TypeSavings:
		rate := st.InterestRate.String()
		resp.InterestRate = &rate
	case account.TypeChecking:
		limit := formatMoney(st.OverdraftLimit)
		resp.OverdraftLimit = &limit
	}
	return resp
}

func NewAccountResponses(states []account.State) []AccountResponse {
	resp := make([]AccountResponse, len(states))
	for i, st := range states {
		resp[i] = NewAccountResponse(st)
	}
	return resp
}

type TransferResponse struct {
	From   AccountResponse `json:"from"`
	To     AccountResponse `json:"to"`
	Amount string          `json:"amount"`
}

func NewTransferResponse(receipt ledger.TransferReceipt) TransferResponse {
	return TransferResponse{
		From:   NewAccountResponse(receipt.From),
		To:     NewAccountResponse(receipt.To),
		Amount: formatMoney(receipt.Amount),
	}
}

type InterestResponse struct {
	AccountsCredited int `json:"accountsCredited"`
}

// ParseAmount parses a money amount that must be strictly positive.
func ParseAmount(field, s string) (decimal.Decimal, error) {
	amount, err := parseDecimal(field, s)
	if err != nil {
		return decimal.Zero, err
	}
	if !amount.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: %w", apperrors.ErrInvalidAmount,
			&apperrors.ValidationError{Field: field, Message: "must be greater than zero"})
	}
	return amount, nil
}

func parseDecimal(field, s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %w", apperrors.ErrInvalidAmount,
			&apperrors.ValidationError{Field: field, Message: fmt.Sprintf("%q is not a valid decimal number", s)})
	}
	return d, nil
}

func formatMoney(d decimal.Decimal) string {
	return d.StringFixed(2)
}
