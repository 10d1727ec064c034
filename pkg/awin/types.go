package awin

import "encoding/json"

// Money is an amount/currency pair as used throughout the publisher API.
type Money struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

// RawTransaction is a single transaction object from the publisher
// transactions report, kept close to the wire format. Unmapped fields are
// preserved for callers that want the original payload.
type RawTransaction struct {
	ID               json.Number       `json:"id"`
	AdvertiserID     json.Number       `json:"advertiserId"`
	CommissionStatus string            `json:"commissionStatus"`
	CommissionAmount Money             `json:"commissionAmount"`
	SaleAmount       Money             `json:"saleAmount"`
	PaidToPublisher  bool              `json:"paidToPublisher"`
	TransactionDate  string            `json:"transactionDate"`
	ClickRefs        map[string]string `json:"clickRefs"`

	// Raw preserves the original payload alongside the typed fields.
	Raw json.RawMessage `json:"-"`
}

// UnmarshalJSON decodes the typed fields and keeps a copy of the original
// payload in Raw.
func (t *RawTransaction) UnmarshalJSON(b []byte) error {
	type alias RawTransaction
	var a alias
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	*t = RawTransaction(a)
	t.Raw = append(json.RawMessage(nil), b...)
	return nil
}

// RawCommissionGroup is a commission group object from the commissiongroups
// endpoint. Type is "fix" for flat amounts; any other value expresses the
// payout through Percentage.
type RawCommissionGroup struct {
	GroupID    json.Number `json:"groupId"`
	GroupName  string      `json:"groupName"`
	Type       string      `json:"type"`
	Amount     float64     `json:"amount"`
	Percentage float64     `json:"percentage"`
	Currency   string      `json:"currency,omitempty"`

	// Raw preserves the original payload alongside the typed fields.
	Raw json.RawMessage `json:"-"`
}

// UnmarshalJSON decodes the typed fields and keeps a copy of the original
// payload in Raw.
func (g *RawCommissionGroup) UnmarshalJSON(b []byte) error {
	type alias RawCommissionGroup
	var a alias
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	*g = RawCommissionGroup(a)
	g.Raw = append(json.RawMessage(nil), b...)
	return nil
}

type commissionGroupsResponse struct {
	Advertiser       json.Number          `json:"advertiser"`
	CommissionGroups []RawCommissionGroup `json:"commissionGroups"`
}
