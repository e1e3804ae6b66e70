package types

import (
	"fmt"

	"cosmossdk.io/math"

	"github.com/lendoor/lendoor-indexer/pkg"
)

// Payload is the decoded params of one recognized event kind. Validate
// checks required fields and normalizes addresses in place.
type Payload interface {
	Validate() error
}

type DepositParams struct {
	Owner  string   `json:"owner"`
	Sender string   `json:"sender"`
	Assets math.Int `json:"assets"`
	Shares math.Int `json:"shares"`
}

func (p *DepositParams) Validate() error {
	var err error
	if p.Owner, err = requireAddress("owner", p.Owner); err != nil {
		return err
	}
	if p.Sender, err = requireAddress("sender", p.Sender); err != nil {
		return err
	}
	if err := requireAmount("assets", p.Assets); err != nil {
		return err
	}
	return requireAmount("shares", p.Shares)
}

type WithdrawParams struct {
	Owner    string   `json:"owner"`
	Receiver string   `json:"receiver"`
	Assets   math.Int `json:"assets"`
	Shares   math.Int `json:"shares"`
}

func (p *WithdrawParams) Validate() error {
	var err error
	if p.Owner, err = requireAddress("owner", p.Owner); err != nil {
		return err
	}
	if p.Receiver, err = requireAddress("receiver", p.Receiver); err != nil {
		return err
	}
	if err := requireAmount("assets", p.Assets); err != nil {
		return err
	}
	return requireAmount("shares", p.Shares)
}

// AccountAssetsParams is shared by Borrow and Repay, both carry account and assets only.
type AccountAssetsParams struct {
	Account string   `json:"account"`
	Assets  math.Int `json:"assets"`
}

func (p *AccountAssetsParams) Validate() error {
	var err error
	if p.Account, err = requireAddress("account", p.Account); err != nil {
		return err
	}
	return requireAmount("assets", p.Assets)
}

type VaultStatusParams struct {
	TotalShares         math.Int `json:"total_shares"`
	TotalBorrows        math.Int `json:"total_borrows"`
	AccumulatedFees     math.Int `json:"accumulated_fees"`
	Cash                math.Int `json:"cash"`
	InterestAccumulator math.Int `json:"interest_accumulator"`
	InterestRate        math.Int `json:"interest_rate"`
	Timestamp           *uint64  `json:"timestamp"`
}

func (p *VaultStatusParams) Validate() error {
	amounts := []struct {
		name  string
		value math.Int
	}{
		{"total_shares", p.TotalShares},
		{"total_borrows", p.TotalBorrows},
		{"accumulated_fees", p.AccumulatedFees},
		{"cash", p.Cash},
		{"interest_accumulator", p.InterestAccumulator},
		{"interest_rate", p.InterestRate},
	}
	for _, a := range amounts {
		if err := requireAmount(a.name, a.value); err != nil {
			return err
		}
	}
	if p.Timestamp == nil {
		return fmt.Errorf("missing timestamp")
	}
	return nil
}

type LoanOpenedParams struct {
	User      string   `json:"user"`
	Principal math.Int `json:"principal"`
	AmountDue math.Int `json:"amount_due"`
	FeeBps    *uint64  `json:"fee_bps"`
	Due       *uint64  `json:"due"`
	// Start is optional, the block timestamp is used when absent.
	Start *uint64 `json:"start,omitempty"`
}

func (p *LoanOpenedParams) Validate() error {
	var err error
	if p.User, err = requireAddress("user", p.User); err != nil {
		return err
	}
	if err := requireAmount("principal", p.Principal); err != nil {
		return err
	}
	if err := requireAmount("amount_due", p.AmountDue); err != nil {
		return err
	}
	if p.FeeBps == nil {
		return fmt.Errorf("missing fee_bps")
	}
	if p.Due == nil {
		return fmt.Errorf("missing due")
	}
	return nil
}

type LoanClosedParams struct {
	User string   `json:"user"`
	Paid math.Int `json:"paid"`
}

func (p *LoanClosedParams) Validate() error {
	var err error
	if p.User, err = requireAddress("user", p.User); err != nil {
		return err
	}
	return requireAmount("paid", p.Paid)
}

type LoanDefaultedParams struct {
	User string `json:"user"`
}

func (p *LoanDefaultedParams) Validate() error {
	var err error
	p.User, err = requireAddress("user", p.User)
	return err
}

func requireAddress(field, value string) (string, error) {
	if value == "" {
		return "", fmt.Errorf("missing %s", field)
	}
	return pkg.NormalizeAddress(value)
}

func requireAmount(field string, value math.Int) error {
	if value.IsNil() {
		return fmt.Errorf("missing %s", field)
	}
	if value.IsNegative() {
		return fmt.Errorf("negative %s: %s", field, value)
	}
	return nil
}
