package handler_test

import (
	"bank-ledger/internal/domain/account"
	"bank-ledger/internal/domain/customer"
	"bank-ledger/internal/domain/ledger"
	"context"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

type MockLedgerService struct {
	mock.Mock
}

var _ ledger.LedgerService = (*MockLedgerService)(nil)

func (_m *MockLedgerService) AddCustomer(ctx context.Context, cust *customer.Customer) (*customer.Customer, error) {
	ret := _m.Called(ctx, cust)

	var r0 *customer.Customer
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*customer.Customer)
	}
	return r0, ret.Error(1)
}

func (_m *MockLedgerService) UpdateCustomerAddress(ctx context.Context, customerID, address string) (*customer.Customer, error) {
	ret := _m.Called(ctx, customerID, address)

	var r0 *customer.Customer
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*customer.Customer)
	}
	return r0, ret.Error(1)
}

func (_m *MockLedgerService) RemoveCustomer(ctx context.Context, customerID string, confirmer ledger.Confirmer) error {
	ret := _m.Called(ctx, customerID, confirmer)

	if rf, ok := ret.Get(0).(func(context.Context, string, ledger.Confirmer) error); ok {
		return rf(ctx, customerID, confirmer)
	}
	return ret.Error(0)
}

func (_m *MockLedgerService) GetCustomer(ctx context.Context, customerID string) (*customer.Customer, error) {
	ret := _m.Called(ctx, customerID)

	var r0 *customer.Customer
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*customer.Customer)
	}
	return r0, ret.Error(1)
}

func (_m *MockLedgerService) ListCustomers(ctx context.Context) ([]*customer.Customer, error) {
	ret := _m.Called(ctx)

	var r0 []*customer.Customer
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]*customer.Customer)
	}
	return r0, ret.Error(1)
}

func (_m *MockLedgerService) CreateAccount(ctx context.Context, req ledger.CreateAccountRequest) (account.State, error) {
	ret := _m.Called(ctx, req)
	return ret.Get(0).(account.State), ret.Error(1)
}

func (_m *MockLedgerService) GetAccount(ctx context.Context, accountNumber string) (account.State, error) {
	ret := _m.Called(ctx, accountNumber)
	return ret.Get(0).(account.State), ret.Error(1)
}

func (_m *MockLedgerService) ListAccounts(ctx context.Context) ([]account.State, error) {
	ret := _m.Called(ctx)

	var r0 []account.State
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]account.State)
	}
	return r0, ret.Error(1)
}

func (_m *MockLedgerService) GetCustomerAccounts(ctx context.Context, customerID string) ([]account.State, error) {
	ret := _m.Called(ctx, customerID)

	var r0 []account.State
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]account.State)
	}
	return r0, ret.Error(1)
}

func (_m *MockLedgerService) Deposit(ctx context.Context, accountNumber string, amount decimal.Decimal) (account.State, error) {
	ret := _m.Called(ctx, accountNumber, amount)
	return ret.Get(0).(account.State), ret.Error(1)
}

func (_m *MockLedgerService) Withdraw(ctx context.Context, accountNumber string, amount decimal.Decimal, secrets ledger.SecretSource) (account.State, error) {
	ret := _m.Called(ctx, accountNumber, amount, secrets)
	return ret.Get(0).(account.State), ret.Error(1)
}

func (_m *MockLedgerService) TransferFunds(ctx context.Context, fromAccount, toAccount string, amount decimal.Decimal, secrets ledger.SecretSource) (ledger.TransferReceipt, error) {
	ret := _m.Called(ctx, fromAccount, toAccount, amount, secrets)
	return ret.Get(0).(ledger.TransferReceipt), ret.Error(1)
}

func (_m *MockLedgerService) ApplyAllInterest(ctx context.Context) (int, error) {
	ret := _m.Called(ctx)
	return ret.Int(0), ret.Error(1)
}

// decimalEq matches a decimal argument by value, ignoring its exponent.
func decimalEq(s string) interface{} {
	want := decimal.RequireFromString(s)
	return mock.MatchedBy(func(d decimal.Decimal) bool { return d.Equal(want) })
}
