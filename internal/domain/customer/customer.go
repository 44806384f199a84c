package customer

import (
	"bank-ledger/internal/pkg/apperrors"
	"fmt"
	"slices"
	"strings"
)

type Customer struct {
	CustomerID     string
	Name           string
	Address        string
	accountNumbers []string
}

func NewCustomer(customerID, name, address string) *Customer {
	return &Customer{
		CustomerID: strings.TrimSpace(customerID),
		Name:       strings.TrimSpace(name),
		Address:    strings.TrimSpace(address),
	}
}

// Restore rebuilds a persisted customer. Duplicate account numbers are
// collapsed, keeping the first occurrence.
func Restore(customerID, name, address string, accountNumbers []string) *Customer {
	c := &Customer{CustomerID: customerID, Name: name, Address: address}
	for _, n := range accountNumbers {
		c.AddAccountNumber(n)
	}
	return c
}

func (c *Customer) Validate() error {
	if c.CustomerID == "" {
		return apperrors.NewValidationError("customerId", "cannot be empty")
	}
	if c.Name == "" {
		return apperrors.NewValidationError("name", "cannot be empty")
	}
	return nil
}

// AccountNumbers returns the owned account numbers in insertion order.
func (c *Customer) AccountNumbers() []string {
	return slices.Clone(c.accountNumbers)
}

func (c *Customer) HasAccount(accountNumber string) bool {
	return slices.Contains(c.accountNumbers, accountNumber)
}

func (c *Customer) AddAccountNumber(accountNumber string) {
	if accountNumber == "" || c.HasAccount(accountNumber) {
		return
	}
	c.accountNumbers = append(c.accountNumbers, accountNumber)
}

func (c *Customer) RemoveAccountNumber(accountNumber string) {
	c.accountNumbers = slices.DeleteFunc(c.accountNumbers, func(n string) bool {
		return n == accountNumber
	})
}

func (c *Customer) UpdateAddress(address string) {
	c.Address = strings.TrimSpace(address)
}

func (c *Customer) Clone() *Customer {
	if c == nil {
		return nil
	}
	cp := *c
	cp.accountNumbers = slices.Clone(c.accountNumbers)
	return &cp
}

func (c *Customer) Describe() string {
	return fmt.Sprintf("Customer ID: %s, Name: %s, Address: %s, Accounts: %d",
		c.CustomerID, c.Name, c.Address, len(c.accountNumbers))
}
