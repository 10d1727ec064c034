package models

import (
	"encoding/json"
	"time"
)

// TransactionStatus is the normalized status of a network transaction.
type TransactionStatus string

const (
	StatusConfirmed TransactionStatus = "confirmed"
	StatusDeclined  TransactionStatus = "declined"
	StatusPending   TransactionStatus = "pending"
)

// Transaction is a commission transaction reported by the network for a
// reporting window. Transactions are fetched on demand and never persisted.
type Transaction struct {
	AdvertiserID     string            `json:"advertiserId"`
	ID               string            `json:"id"`
	Status           TransactionStatus `json:"status"`
	PaidToPublisher  bool              `json:"paidToPublisher"`
	CommissionAmount float64           `json:"commissionAmount"`
	Currency         string            `json:"currency"`
	TransactionDate  time.Time         `json:"transactionDate"`
	// TrackingCode is the publisher click-ref threaded through the outbound
	// link, if one was attached to the originating click.
	TrackingCode *string         `json:"trackingCode,omitempty"`
	Raw          json.RawMessage `json:"raw,omitempty"`
}
