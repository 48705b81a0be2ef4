package models

import "fmt"

type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

// ParseTransactionType accepts only the exact lowercase names.
func ParseTransactionType(s string) (TransactionType, error) {
	switch TransactionType(s) {
	case TransactionTypeIncome:
		return TransactionTypeIncome, nil
	case TransactionTypeExpense:
		return TransactionTypeExpense, nil
	default:
		return "", fmt.Errorf("unknown transaction type %q", s)
	}
}

type Transaction struct {
	ID          int64           `db:"id"`
	Type        TransactionType `db:"type"`
	Category    string          `db:"category"`
	Amount      float64         `db:"amount"`
	Date        string          `db:"date"`
	Description *string         `db:"description"`
}
