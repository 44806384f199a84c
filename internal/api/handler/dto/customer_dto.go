package dto

import (
	"bank-ledger/internal/domain/customer"
	"bank-ledger/internal/pkg/apperrors"
	"strings"
)

type CreateCustomerRequest struct {
	CustomerID string `json:"customerId"`
	Name       string `json:"name"`
	Address    string `json:"address"`
}

func (r *CreateCustomerRequest) Validate() error {
	if strings.TrimSpace(r.CustomerID) == "" {
		return apperrors.NewValidationError("customerId", "cannot be empty")
	}
	if strings.TrimSpace(r.Name) == "" {
		return apperrors.NewValidationError("name", "cannot be empty")
	}
	return nil
}

func (r *CreateCustomerRequest) ToDomain() *customer.Customer {
	return customer.NewCustomer(r.CustomerID, r.Name, r.Address)
}

type UpdateCustomerAddressRequest struct {
	Address string `json:"address"`
}

func (r *UpdateCustomerAddressRequest) Validate() error {
	if strings.TrimSpace(r.Address) == "" {
		return apperrors.NewValidationError("address", "cannot be empty")
	}
	return nil
}

// RemoveCustomerRequest carries the operator's answers to the closure
// prompts. CloseAccounts must be true for a customer owning accounts, and
// Confirmation must hold the literal token when any balance is non-zero.
type RemoveCustomerRequest struct {
	CloseAccounts bool   `json:"closeAccounts"`
	Confirmation  string `json:"confirmation"`
}

type CustomerResponse struct {
	CustomerID     string   `json:"customerId"`
	Name           string   `json:"name"`
	Address        string   `json:"address"`
	AccountNumbers []string `json:"accountNumbers"`
}

func NewCustomerResponse(cust *customer.Customer) CustomerResponse {
	if cust == nil {
		return CustomerResponse{AccountNumbers: []string{}}
	}
	numbers := cust.AccountNumbers()
	if numbers == nil {
		numbers = []string{}
	}
	return CustomerResponse{
		CustomerID:     cust.CustomerID,
		Name:           cust.Name,
		Address:        cust.Address,
		AccountNumbers: numbers,
	}
}
