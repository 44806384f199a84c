package jsonfile

import (
	"bank-ledger/internal/domain/account"
	"bank-ledger/internal/domain/customer"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

type customerRecord struct {
	CustomerID     string   `json:"customer_id"`
	Name           string   `json:"name"`
	Address        string   `json:"address"`
	AccountNumbers []string `json:"account_numbers"`
}

type accountRecord struct {
	AccountNumber   string       `json:"account_number"`
	AccountHolderID string       `json:"account_holder_id"`
	Balance         json.Number  `json:"balance"`
	PasswordHash    string       `json:"password_hash"`
	FailedAttempts  int          `json:"failed_attempts"`
	IsLocked        bool         `json:"is_locked"`
	Type            account.Type `json:"type"`
	InterestRate    *json.Number `json:"interest_rate,omitempty"`
	OverdraftLimit  *json.Number `json:"overdraft_limit,omitempty"`
}

func toCustomerRecord(c *customer.Customer) customerRecord {
	numbers := c.AccountNumbers()
	if numbers == nil {
		numbers = []string{}
	}
	return customerRecord{
		CustomerID:     c.CustomerID,
		Name:           c.Name,
		Address:        c.Address,
		AccountNumbers: numbers,
	}
}

func (r customerRecord) toDomain() *customer.Customer {
	return customer.Restore(r.CustomerID, r.Name, r.Address, r.AccountNumbers)
}

func toAccountRecord(st account.State) accountRecord {
	rec := accountRecord{
		AccountNumber:   st.Number,
		AccountHolderID: st.OwnerID,
		Balance:         number(st.Balance),
		PasswordHash:    st.PasswordHash,
		FailedAttempts:  st.FailedAttempts,
		IsLocked:        st.Locked,
		Type:            st.Type,
	}
	switch st.Type {
	case account.TypeSavings:
		n := number(st.InterestRate)
		rec.InterestRate = &n
	case account.TypeChecking:
		n := number(st.OverdraftLimit)
		rec.OverdraftLimit = &n
	}
	return rec
}

func (r accountRecord) toState() (account.State, error) {
	balance, err := parseNumber("balance", r.Balance)
	if err != nil {
		return account.State{}, err
	}
	st := account.State{
		Number:         r.AccountNumber,
		OwnerID:        r.AccountHolderID,
		Type:           r.Type,
		Balance:        balance,
		PasswordHash:   r.PasswordHash,
		FailedAttempts: r.FailedAttempts,
		Locked:         r.IsLocked,
	}

	switch r.Type {
	case account.TypeSavings:
		st.InterestRate = account.DefaultInterestRate
		if r.InterestRate != nil {
			if st.InterestRate, err = parseNumber("interest_rate", *r.InterestRate); err != nil {
				return account.State{}, err
			}
		}
	case account.TypeChecking:
		st.OverdraftLimit = account.DefaultOverdraftLimit
		if r.OverdraftLimit != nil {
			if st.OverdraftLimit, err = parseNumber("overdraft_limit", *r.OverdraftLimit); err != nil {
				return account.State{}, err
			}
		}
	}
	return st, nil
}

func number(v decimal.Decimal) json.Number {
	return json.Number(v.String())
}

func parseNumber(field string, n json.Number) (decimal.Decimal, error) {
	if n == "" {
		return decimal.Zero, nil
	}
	v, err := decimal.NewFromString(n.String())
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s %q: %w", field, n, err)
	}
	return v, nil
}
