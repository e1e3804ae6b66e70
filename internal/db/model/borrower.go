package model

import (
	"cosmossdk.io/math"
)

// BorrowerDocument marks an account as seen. It is never updated after
// creation.
type BorrowerDocument struct {
	ID        string `bson:"_id" json:"id"`
	FirstSeen uint64 `bson:"first_seen" json:"first_seen"`
}

// ActiveLoanDocument holds the terms of the latest loan of an account. The
// record is reused across the account's loans, Active tells whether the
// latest lifecycle event was an open.
type ActiveLoanDocument struct {
	ID        string   `bson:"_id" json:"id"`
	Principal math.Int `bson:"principal" json:"principal"`
	AmountDue math.Int `bson:"amount_due" json:"amount_due"`
	FeeBps    uint64   `bson:"fee_bps" json:"fee_bps"`
	Start     uint64   `bson:"start" json:"start"`
	Due       uint64   `bson:"due" json:"due"`
	Active    bool     `bson:"active" json:"active"`
}

func NewActiveLoan(account string) *ActiveLoanDocument {
	return &ActiveLoanDocument{
		ID:        account,
		Principal: math.ZeroInt(),
		AmountDue: math.ZeroInt(),
	}
}
