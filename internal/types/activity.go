package types

type VaultActivityType string

const (
	ActivityDeposit  VaultActivityType = "DEPOSIT"
	ActivityWithdraw VaultActivityType = "WITHDRAW"
	ActivityBorrow   VaultActivityType = "BORROW"
	ActivityRepay    VaultActivityType = "REPAY"
)

func (t VaultActivityType) String() string {
	return string(t)
}

type LoanActivityType string

const (
	LoanActivityOpen    LoanActivityType = "OPEN"
	LoanActivityClose   LoanActivityType = "CLOSE"
	LoanActivityDefault LoanActivityType = "DEFAULT"
)

func (t LoanActivityType) String() string {
	return string(t)
}
