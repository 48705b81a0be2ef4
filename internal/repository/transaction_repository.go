package repository

import (
	"context"
	"errors"

	"expense-tracker/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// ErrNotFound is returned by point lookups that match no row.
var ErrNotFound = errors.New("transaction not found")

var transactionColumns = []string{"id", "type", "category", "amount", "date", "description"}

type TransactionRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewTransactionRepository(db *pgxpool.Pool, logger *zap.Logger) *TransactionRepository {
	return &TransactionRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts tx and returns the id assigned by the database.
func (r *TransactionRepository) Create(ctx context.Context, tx *models.Transaction) (int64, error) {
	query := squirrel.Insert("transactions").
		Columns("type", "category", "amount", "date", "description").
		Values(string(tx.Type), tx.Category, tx.Amount, tx.Date, tx.Description).
		Suffix("RETURNING id").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return 0, err
	}

	var id int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		return 0, err
	}

	r.logger.Debug("Transaction inserted", zap.Int64("id", id))
	return id, nil
}

// List returns every row, newest date first. Dates are compared as text.
func (r *TransactionRepository) List(ctx context.Context) ([]*models.Transaction, error) {
	query := squirrel.Select(transactionColumns...).
		From("transactions").
		OrderBy("date DESC", "id DESC").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	transactions := make([]*models.Transaction, 0)
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, tx)
	}

	return transactions, rows.Err()
}

func (r *TransactionRepository) GetByID(ctx context.Context, id int64) (*models.Transaction, error) {
	query := squirrel.Select(transactionColumns...).
		From("transactions").
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	tx, err := scanTransaction(r.db.QueryRow(ctx, sql, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return tx, nil
}

// Update overwrites every mutable column of the row keyed by tx.ID and
// reports how many rows changed. Zero means the id does not exist.
func (r *TransactionRepository) Update(ctx context.Context, tx *models.Transaction) (int64, error) {
	query := squirrel.Update("transactions").
		Set("type", string(tx.Type)).
		Set("category", tx.Category).
		Set("amount", tx.Amount).
		Set("date", tx.Date).
		Set("description", tx.Description).
		Where(squirrel.Eq{"id": tx.ID}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return 0, err
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return 0, err
	}

	return tag.RowsAffected(), nil
}

func (r *TransactionRepository) Delete(ctx context.Context, id int64) (int64, error) {
	query := squirrel.Delete("transactions").
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return 0, err
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return 0, err
	}

	return tag.RowsAffected(), nil
}

// SumByType totals the amount column for one transaction type. An empty
// match set sums to 0 rather than NULL.
func (r *TransactionRepository) SumByType(ctx context.Context, txType models.TransactionType) (float64, error) {
	query := squirrel.Select("COALESCE(SUM(amount), 0)").
		From("transactions").
		Where(squirrel.Eq{"type": string(txType)}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return 0, err
	}

	var total float64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&total); err != nil {
		return 0, err
	}

	return total, nil
}

func scanTransaction(row pgx.Row) (*models.Transaction, error) {
	var (
		tx     models.Transaction
		txType string
	)
	if err := row.Scan(&tx.ID, &txType, &tx.Category, &tx.Amount, &tx.Date, &tx.Description); err != nil {
		return nil, err
	}
	tx.Type = models.TransactionType(txType)
	return &tx, nil
}
