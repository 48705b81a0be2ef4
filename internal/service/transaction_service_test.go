package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"

	"expense-tracker/internal/dto"
	"expense-tracker/internal/models"
	"expense-tracker/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// memoryStore mirrors the ordering and not-found behaviour of the Postgres
// repository.
type memoryStore struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]models.Transaction
	err    error
	calls  int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{rows: make(map[int64]models.Transaction)}
}

func (m *memoryStore) Create(_ context.Context, tx *models.Transaction) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return 0, m.err
	}
	m.nextID++
	row := *tx
	row.ID = m.nextID
	m.rows[row.ID] = row
	return row.ID, nil
}

func (m *memoryStore) List(_ context.Context) ([]*models.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	var out []*models.Transaction
	for _, row := range m.rows {
		row := row
		out = append(out, &row)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date > out[j].Date
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (m *memoryStore) GetByID(_ context.Context, id int64) (*models.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	row, ok := m.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &row, nil
}

func (m *memoryStore) Update(_ context.Context, tx *models.Transaction) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return 0, m.err
	}
	if _, ok := m.rows[tx.ID]; !ok {
		return 0, nil
	}
	m.rows[tx.ID] = *tx
	return 1, nil
}

func (m *memoryStore) Delete(_ context.Context, id int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return 0, m.err
	}
	if _, ok := m.rows[id]; !ok {
		return 0, nil
	}
	delete(m.rows, id)
	return 1, nil
}

func (m *memoryStore) SumByType(_ context.Context, txType models.TransactionType) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return 0, m.err
	}
	var total float64
	for _, row := range m.rows {
		if row.Type == txType {
			total += row.Amount
		}
	}
	return total, nil
}

func floatPtr(f float64) *float64 { return &f }
func strPtr(s string) *string     { return &s }

func validRequest(txType string, amount float64, date string) *dto.TransactionRequest {
	return &dto.TransactionRequest{
		Type:     txType,
		Category: "salary",
		Amount:   floatPtr(amount),
		Date:     date,
	}
}

func newTestService(t *testing.T) (*TransactionService, *memoryStore) {
	t.Helper()
	store := newMemoryStore()
	return NewTransactionService(store, zaptest.NewLogger(t)), store
}

func TestCreate_ReturnsDistinctPositiveIDs(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	seen := map[int64]bool{}
	for i := 0; i < 5; i++ {
		id, err := svc.Create(ctx, validRequest("income", 10, "2024-01-01"))
		require.NoError(t, err)
		assert.Positive(t, id)
		assert.False(t, seen[id], "id %d returned twice", id)
		seen[id] = true
	}
}

func TestCreate_ZeroAmountIsAccepted(t *testing.T) {
	svc, _ := newTestService(t)

	id, err := svc.Create(context.Background(), validRequest("expense", 0, "2024-01-01"))
	require.NoError(t, err)

	got, err := svc.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, 0.0, got.Amount)
}

func TestCreate_MissingRequiredFields(t *testing.T) {
	tests := []struct {
		name string
		req  *dto.TransactionRequest
	}{
		{"nil request", nil},
		{"missing type", &dto.TransactionRequest{Category: "food", Amount: floatPtr(1), Date: "2024-01-01"}},
		{"missing category", &dto.TransactionRequest{Type: "expense", Amount: floatPtr(1), Date: "2024-01-01"}},
		{"missing amount", &dto.TransactionRequest{Type: "expense", Category: "food", Date: "2024-01-01"}},
		{"missing date", &dto.TransactionRequest{Type: "expense", Category: "food", Amount: floatPtr(1)}},
		{"missing type with bad everything else", &dto.TransactionRequest{Category: "food", Amount: floatPtr(-1), Date: "2024-01-01"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store := newTestService(t)

			_, err := svc.Create(context.Background(), tt.req)

			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, msgRequiredFields, vErr.Message)
			assert.Zero(t, store.calls, "store must not be touched")
		})
	}
}

func TestCreate_InvalidType(t *testing.T) {
	for _, txType := range []string{"transfer", "Income", "EXPENSE"} {
		t.Run(txType, func(t *testing.T) {
			svc, store := newTestService(t)

			_, err := svc.Create(context.Background(), validRequest(txType, 5, "2024-01-01"))

			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, msgInvalidType, vErr.Message)
			assert.Zero(t, store.calls)
		})
	}
}

func TestCreate_NegativeAmount(t *testing.T) {
	svc, store := newTestService(t)

	_, err := svc.Create(context.Background(), validRequest("income", -0.01, "2024-01-01"))

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, msgNegativeAmount, vErr.Message)
	assert.Zero(t, store.calls)
}

func TestCreate_StoreFailure(t *testing.T) {
	svc, store := newTestService(t)
	cause := errors.New("disk full")
	store.err = cause

	_, err := svc.Create(context.Background(), validRequest("income", 1, "2024-01-01"))

	var pErr *PersistenceError
	require.ErrorAs(t, err, &pErr)
	assert.ErrorIs(t, err, cause)
}

func TestGetByID_RoundTrip(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	req := &dto.TransactionRequest{
		Type:        "expense",
		Category:    "groceries",
		Amount:      floatPtr(42.5),
		Date:        "2024-02-10",
		Description: strPtr("weekly shop"),
	}
	id, err := svc.Create(ctx, req)
	require.NoError(t, err)

	got, err := svc.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, &models.Transaction{
		ID:          id,
		Type:        models.TransactionTypeExpense,
		Category:    "groceries",
		Amount:      42.5,
		Date:        "2024-02-10",
		Description: strPtr("weekly shop"),
	}, got)
}

func TestGetByID_OmittedDescriptionIsNil(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	id, err := svc.Create(ctx, validRequest("income", 1, "2024-01-01"))
	require.NoError(t, err)

	got, err := svc.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, got.Description)
}

func TestGetByID_NotFound(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.GetByID(context.Background(), 99)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetByID_StoreFailure(t *testing.T) {
	svc, store := newTestService(t)
	store.err = errors.New("connection reset")

	_, err := svc.GetByID(context.Background(), 1)

	var pErr *PersistenceError
	assert.ErrorAs(t, err, &pErr)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestList_EmptyStore(t *testing.T) {
	svc, _ := newTestService(t)

	got, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestList_NewestDateFirst(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, validRequest("income", 1, "2024-01-01"))
	require.NoError(t, err)
	_, err = svc.Create(ctx, validRequest("income", 2, "2024-03-01"))
	require.NoError(t, err)

	got, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "2024-03-01", got[0].Date)
	assert.Equal(t, "2024-01-01", got[1].Date)
}

func TestUpdate_OverwritesRow(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	id, err := svc.Create(ctx, &dto.TransactionRequest{
		Type: "income", Category: "salary", Amount: floatPtr(100), Date: "2024-01-01", Description: strPtr("jan"),
	})
	require.NoError(t, err)

	err = svc.Update(ctx, id, validRequest("expense", 30, "2024-01-05"))
	require.NoError(t, err)

	got, err := svc.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.TransactionTypeExpense, got.Type)
	assert.Equal(t, 30.0, got.Amount)
	assert.Equal(t, "2024-01-05", got.Date)
	assert.Nil(t, got.Description, "omitted description overwrites with null")
}

func TestUpdate_NotFoundLeavesStoreUnchanged(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	id, err := svc.Create(ctx, validRequest("income", 100, "2024-01-01"))
	require.NoError(t, err)

	err = svc.Update(ctx, id+1, validRequest("expense", 1, "2024-01-02"))
	assert.ErrorIs(t, err, ErrNotFound)

	require.Len(t, store.rows, 1)
	assert.Equal(t, 100.0, store.rows[id].Amount)
}

func TestUpdate_ValidationFailureDoesNotModify(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	id, err := svc.Create(ctx, validRequest("income", 100, "2024-01-01"))
	require.NoError(t, err)
	callsBefore := store.calls

	err = svc.Update(ctx, id, &dto.TransactionRequest{Type: "income", Category: "salary", Date: "2024-01-01"})
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)

	err = svc.Update(ctx, id, validRequest("refund", 1, "2024-01-01"))
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, msgInvalidType, vErr.Message)

	assert.Equal(t, callsBefore, store.calls)
	assert.Equal(t, 100.0, store.rows[id].Amount)
}

func TestDelete_ThenGetIsNotFound(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	id, err := svc.Create(ctx, validRequest("income", 1, "2024-01-01"))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, id))

	_, err = svc.GetByID(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, svc.Delete(ctx, id), ErrNotFound)
}

func TestSummary_EmptyStore(t *testing.T) {
	svc, _ := newTestService(t)

	got, err := svc.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &dto.SummaryResponse{}, got)
}

func TestSummary_IncomeMinusExpense(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, validRequest("income", 100, "2024-01-01"))
	require.NoError(t, err)
	_, err = svc.Create(ctx, validRequest("expense", 40, "2024-01-02"))
	require.NoError(t, err)

	got, err := svc.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, &dto.SummaryResponse{TotalIncome: 100, TotalExpense: 40, Balance: 60}, got)
}

func TestSummary_BalanceHasNoFloatDrift(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, validRequest("income", 0.3, "2024-01-01"))
	require.NoError(t, err)
	_, err = svc.Create(ctx, validRequest("expense", 0.1, "2024-01-02"))
	require.NoError(t, err)

	got, err := svc.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0.2, got.Balance)
}

func TestSummary_StoreFailure(t *testing.T) {
	svc, store := newTestService(t)
	store.err = errors.New("timeout")

	_, err := svc.Summary(context.Background())

	var pErr *PersistenceError
	assert.ErrorAs(t, err, &pErr)
}

func TestSanitizeUTF8(t *testing.T) {
	assert.Equal(t, "café", sanitizeUTF8("café"))
	assert.Equal(t, "ab", sanitizeUTF8("a\xffb"))
	assert.Nil(t, sanitizeOptional(nil))
	assert.Equal(t, "", *sanitizeOptional(strPtr("")))
}
