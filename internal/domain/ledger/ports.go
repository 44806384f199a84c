package ledger

import (
	"bank-ledger/internal/domain/account"
	"bank-ledger/internal/domain/customer"
	"context"
)

// BalanceLossToken must be typed verbatim before accounts holding money are
// closed together with their owner.
const BalanceLossToken = "CONFIRM"

// Snapshot is the complete ledger state handed to and from a Store.
type Snapshot struct {
	Customers map[string]*customer.Customer
	Accounts  map[string]account.Account
}

func NewSnapshot() *Snapshot {
	return &Snapshot{
		Customers: make(map[string]*customer.Customer),
		Accounts:  make(map[string]account.Account),
	}
}

// Store loads and saves the whole ledger. A Store reporting no data must
// return an empty snapshot, not an error.
type Store interface {
	Load(ctx context.Context) (*Snapshot, error)
	Save(ctx context.Context, snapshot *Snapshot) error
}

// SecretSource supplies the plaintext password for an account. Implementations
// must never echo or log the value.
type SecretSource interface {
	Secret(ctx context.Context, accountNumber string) (string, error)
}

type SecretFunc func(ctx context.Context, accountNumber string) (string, error)

func (f SecretFunc) Secret(ctx context.Context, accountNumber string) (string, error) {
	return f(ctx, accountNumber)
}

// StaticSecret answers every prompt with the same password. Used by the
// request/response adapters where the password arrives with the request.
type StaticSecret string

func (s StaticSecret) Secret(context.Context, string) (string, error) {
	return string(s), nil
}

// Confirmer gates customer removal.
type Confirmer interface {
	// ConfirmClosure reports whether the customer's accounts may be closed.
	ConfirmClosure(ctx context.Context, cust *customer.Customer, accounts []account.State) (bool, error)
	// ConfirmBalanceLoss returns the token typed by the operator. Anything
	// other than BalanceLossToken cancels the removal.
	ConfirmBalanceLoss(ctx context.Context, accounts []account.State) (string, error)
}
