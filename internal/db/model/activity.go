package model

import (
	"cosmossdk.io/math"

	"github.com/lendoor/lendoor-indexer/internal/types"
)

// VaultActivityDocument is one immutable feed record of a vault event.
// Borrow and Repay carry neither counterparty nor shares.
type VaultActivityDocument struct {
	ID             string                  `bson:"_id" json:"id"`
	Type           types.VaultActivityType `bson:"type" json:"type"`
	Account        string                  `bson:"account" json:"account"`
	Counterparty   *string                 `bson:"counterparty,omitempty" json:"counterparty,omitempty"`
	Assets         math.Int                `bson:"assets" json:"assets"`
	Shares         *math.Int               `bson:"shares,omitempty" json:"shares,omitempty"`
	TxHash         string                  `bson:"tx_hash" json:"tx_hash"`
	LogIndex       uint64                  `bson:"log_index" json:"log_index"`
	BlockNumber    uint64                  `bson:"block_number" json:"block_number"`
	BlockTimestamp uint64                  `bson:"block_timestamp" json:"block_timestamp"`
}

type VaultStatusSnapshotDocument struct {
	ID                  string   `bson:"_id" json:"id"`
	TotalShares         math.Int `bson:"total_shares" json:"total_shares"`
	TotalBorrows        math.Int `bson:"total_borrows" json:"total_borrows"`
	AccumulatedFees     math.Int `bson:"accumulated_fees" json:"accumulated_fees"`
	Cash                math.Int `bson:"cash" json:"cash"`
	InterestAccumulator math.Int `bson:"interest_accumulator" json:"interest_accumulator"`
	InterestRate        math.Int `bson:"interest_rate" json:"interest_rate"`
	VaultTimestamp      uint64   `bson:"vault_timestamp" json:"vault_timestamp"`
	TxHash              string   `bson:"tx_hash" json:"tx_hash"`
	LogIndex            uint64   `bson:"log_index" json:"log_index"`
	BlockNumber         uint64   `bson:"block_number" json:"block_number"`
	BlockTimestamp      uint64   `bson:"block_timestamp" json:"block_timestamp"`
}

// LoanActivityDocument is the feed record of a loan manager event. Which
// amounts are set depends on Type: open has principal and amount due, close
// has paid, principal and the derived interest, default has none.
type LoanActivityDocument struct {
	ID             string                 `bson:"_id" json:"id"`
	Type           types.LoanActivityType `bson:"type" json:"type"`
	Borrower       string                 `bson:"borrower" json:"borrower"`
	Principal      *math.Int              `bson:"principal,omitempty" json:"principal,omitempty"`
	AmountDue      *math.Int              `bson:"amount_due,omitempty" json:"amount_due,omitempty"`
	Paid           *math.Int              `bson:"paid,omitempty" json:"paid,omitempty"`
	Interest       *math.Int              `bson:"interest,omitempty" json:"interest,omitempty"`
	TxHash         string                 `bson:"tx_hash" json:"tx_hash"`
	LogIndex       uint64                 `bson:"log_index" json:"log_index"`
	BlockNumber    uint64                 `bson:"block_number" json:"block_number"`
	BlockTimestamp uint64                 `bson:"block_timestamp" json:"block_timestamp"`
}
