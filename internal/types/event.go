package types

import (
	"encoding/json"
	"fmt"
)

type EventKind string

func (e EventKind) String() string {
	return string(e)
}

// Vault (beacon proxy) events
const (
	EventDeposit     EventKind = "Deposit"
	EventWithdraw    EventKind = "Withdraw"
	EventBorrow      EventKind = "Borrow"
	EventRepay       EventKind = "Repay"
	EventVaultStatus EventKind = "VaultStatus"
)

// Loan manager events
const (
	EventLoanOpened    EventKind = "LoanOpened"
	EventLoanClosed    EventKind = "LoanClosed"
	EventLoanDefaulted EventKind = "LoanDefaulted"
)

// Event is a decoded log record as delivered by the upstream source.
// Params is kept raw until the dispatcher knows which payload to decode into.
type Event struct {
	Kind           EventKind       `json:"kind"`
	Contract       string          `json:"contract"`
	TxHash         string          `json:"tx_hash"`
	LogIndex       uint64          `json:"log_index"`
	BlockNumber    uint64          `json:"block_number"`
	BlockTimestamp uint64          `json:"block_timestamp"`
	Params         json.RawMessage `json:"params"`
}

func (e *Event) Position() LogPosition {
	return LogPosition{
		BlockNumber: e.BlockNumber,
		LogIndex:    e.LogIndex,
	}
}

func (e *Event) String() string {
	return fmt.Sprintf("%s@%d:%d(%s)", e.Kind, e.BlockNumber, e.LogIndex, e.TxHash)
}

// LogPosition is the logical position of an event in the log. Log indexes
// are unique within a block, so the pair orders every event of the chain.
type LogPosition struct {
	BlockNumber uint64 `bson:"block_number" json:"block_number"`
	LogIndex    uint64 `bson:"log_index" json:"log_index"`
}

// After reports whether p comes strictly after other in log order.
func (p LogPosition) After(other LogPosition) bool {
	if p.BlockNumber != other.BlockNumber {
		return p.BlockNumber > other.BlockNumber
	}
	return p.LogIndex > other.LogIndex
}
