package enums

import "fmt"

// TransactionType identifies the kind of ledger entry a transaction records.
type TransactionType string

const (
	TransactionTypeBorrow         TransactionType = "borrow"
	TransactionTypeReturn         TransactionType = "return"
	TransactionTypeMaintenanceLog TransactionType = "maintenance_log"
)

var validTransactionTypes = []TransactionType{
	TransactionTypeBorrow,
	TransactionTypeReturn,
	TransactionTypeMaintenanceLog,
}

// IsValid reports whether the value matches the canonical transaction type enum.
func (t TransactionType) IsValid() bool {
	for _, candidate := range validTransactionTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseTransactionType converts raw input into TransactionType.
func ParseTransactionType(value string) (TransactionType, error) {
	for _, candidate := range validTransactionTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid transaction type %q", value)
}
