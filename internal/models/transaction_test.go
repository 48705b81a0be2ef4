package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTransactionType(t *testing.T) {
	got, err := ParseTransactionType("income")
	require.NoError(t, err)
	assert.Equal(t, TransactionTypeIncome, got)

	got, err = ParseTransactionType("expense")
	require.NoError(t, err)
	assert.Equal(t, TransactionTypeExpense, got)

	for _, bad := range []string{"", "Income", "EXPENSE", "transfer", " income"} {
		_, err := ParseTransactionType(bad)
		assert.Error(t, err, bad)
	}
}
