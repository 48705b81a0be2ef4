package service

import (
	"context"
	"errors"

	"expense-tracker/internal/dto"
	"expense-tracker/internal/models"
	"expense-tracker/internal/repository"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// TransactionStore is the durable store behind TransactionService.
// *repository.TransactionRepository implements it.
type TransactionStore interface {
	Create(ctx context.Context, tx *models.Transaction) (int64, error)
	List(ctx context.Context) ([]*models.Transaction, error)
	GetByID(ctx context.Context, id int64) (*models.Transaction, error)
	Update(ctx context.Context, tx *models.Transaction) (int64, error)
	Delete(ctx context.Context, id int64) (int64, error)
	SumByType(ctx context.Context, txType models.TransactionType) (float64, error)
}

type TransactionService struct {
	store    TransactionStore
	validate *validator.Validate
	logger   *zap.Logger
}

func NewTransactionService(store TransactionStore, logger *zap.Logger) *TransactionService {
	return &TransactionService{
		store:    store,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   logger,
	}
}

// Create validates req and inserts it, returning the new id.
func (s *TransactionService) Create(ctx context.Context, req *dto.TransactionRequest) (int64, error) {
	tx, err := s.toModel(req)
	if err != nil {
		return 0, err
	}

	id, err := s.store.Create(ctx, tx)
	if err != nil {
		return 0, &PersistenceError{Op: "insert transaction", Err: err}
	}

	s.logger.Info("Transaction created",
		zap.Int64("id", id),
		zap.String("type", string(tx.Type)),
	)

	return id, nil
}

// List returns all transactions ordered by date descending. The result is
// never nil.
func (s *TransactionService) List(ctx context.Context) ([]*models.Transaction, error) {
	transactions, err := s.store.List(ctx)
	if err != nil {
		return nil, &PersistenceError{Op: "list transactions", Err: err}
	}
	if transactions == nil {
		transactions = []*models.Transaction{}
	}
	return transactions, nil
}

func (s *TransactionService) GetByID(ctx context.Context, id int64) (*models.Transaction, error) {
	tx, err := s.store.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, &PersistenceError{Op: "get transaction", Err: err}
	}
	return tx, nil
}

// Update overwrites the whole row keyed by id.
func (s *TransactionService) Update(ctx context.Context, id int64, req *dto.TransactionRequest) error {
	tx, err := s.toModel(req)
	if err != nil {
		return err
	}
	tx.ID = id

	affected, err := s.store.Update(ctx, tx)
	if err != nil {
		return &PersistenceError{Op: "update transaction", Err: err}
	}
	if affected == 0 {
		return ErrNotFound
	}

	s.logger.Info("Transaction updated", zap.Int64("id", id))
	return nil
}

func (s *TransactionService) Delete(ctx context.Context, id int64) error {
	affected, err := s.store.Delete(ctx, id)
	if err != nil {
		return &PersistenceError{Op: "delete transaction", Err: err}
	}
	if affected == 0 {
		return ErrNotFound
	}

	s.logger.Info("Transaction deleted", zap.Int64("id", id))
	return nil
}

// Summary totals income and expense with two independent reads. The reads
// are not isolated from each other; a write landing between them is
// reflected in only one total.
func (s *TransactionService) Summary(ctx context.Context) (*dto.SummaryResponse, error) {
	var income, expense float64

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		total, err := s.store.SumByType(gctx, models.TransactionTypeIncome)
		if err != nil {
			return &PersistenceError{Op: "sum income", Err: err}
		}
		income = total
		return nil
	})
	g.Go(func() error {
		total, err := s.store.SumByType(gctx, models.TransactionTypeExpense)
		if err != nil {
			return &PersistenceError{Op: "sum expense", Err: err}
		}
		expense = total
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	balance := decimal.NewFromFloat(income).Sub(decimal.NewFromFloat(expense))

	return &dto.SummaryResponse{
		TotalIncome:  income,
		TotalExpense: expense,
		Balance:      balance.InexactFloat64(),
	}, nil
}

// toModel checks presence of the required fields first, then the type
// enum, then the amount sign. Presence means "sent", so amount 0 is valid.
func (s *TransactionService) toModel(req *dto.TransactionRequest) (*models.Transaction, error) {
	if req == nil {
		return nil, &ValidationError{Message: msgRequiredFields}
	}

	if err := s.validate.Struct(req); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return nil, err
		}
		for _, fe := range fieldErrs {
			if fe.Tag() == "required" {
				return nil, &ValidationError{Message: msgRequiredFields}
			}
		}
		return nil, &ValidationError{Message: fieldErrs[0].Error()}
	}

	txType, err := models.ParseTransactionType(req.Type)
	if err != nil {
		return nil, &ValidationError{Message: msgInvalidType}
	}

	if *req.Amount < 0 {
		return nil, &ValidationError{Message: msgNegativeAmount}
	}

	return &models.Transaction{
		Type:        txType,
		Category:    sanitizeUTF8(req.Category),
		Amount:      *req.Amount,
		Date:        req.Date,
		Description: sanitizeOptional(req.Description),
	}, nil
}
