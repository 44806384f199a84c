package event

import (
	"context"
	"time"
)

type AccountLockedEvent struct {
	AccountNumber  string    `json:"accountNumber"`
	CustomerID     string    `json:"customerId"`
	FailedAttempts int       `json:"failedAttempts"`
	Timestamp      time.Time `json:"timestamp"`
}

type CustomerRemovedEvent struct {
	CustomerID       string    `json:"customerId"`
	ClosedAccounts   []string  `json:"closedAccounts"`
	DiscardedBalance string    `json:"discardedBalance"`
	Timestamp        time.Time `json:"timestamp"`
}

type Publisher interface {
	PublishAccountLocked(ctx context.Context, event AccountLockedEvent) error
	PublishCustomerRemoved(ctx context.Context, event CustomerRemovedEvent) error
}

// NopPublisher drops every event. It is used when no broker is configured.
type NopPublisher struct{}

var _ Publisher = NopPublisher{}

func (NopPublisher) PublishAccountLocked(context.Context, AccountLockedEvent) error { return nil }

func (NopPublisher) PublishCustomerRemoved(context.Context, CustomerRemovedEvent) error { return nil }
