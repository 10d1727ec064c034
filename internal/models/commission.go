package models

import "encoding/json"

// ValueType describes how a commission rate value is expressed.
type ValueType string

const (
	ValueTypeFixed      ValueType = "fixed"
	ValueTypePercentage ValueType = "percentage"
)

// CommissionRate is a payout tier for a program. Unrecognized network type
// strings are forwarded verbatim as the ValueType rather than rejected.
type CommissionRate struct {
	ProgramID string          `json:"programId"`
	GroupID   string          `json:"groupId"`
	GroupName string          `json:"groupName"`
	Type      ValueType       `json:"type"`
	Value     float64         `json:"value"`
	Raw       json.RawMessage `json:"raw,omitempty"`
}
