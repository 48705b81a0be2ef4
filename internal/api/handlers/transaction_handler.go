package handlers

import (
	"errors"
	"strconv"

	"expense-tracker/internal/dto"
	"expense-tracker/internal/models"
	"expense-tracker/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type TransactionHandler struct {
	txService *service.TransactionService
	logger    *zap.Logger
}

func NewTransactionHandler(txService *service.TransactionService, logger *zap.Logger) *TransactionHandler {
	return &TransactionHandler{
		txService: txService,
		logger:    logger,
	}
}

// CreateTransaction godoc
// @Summary Add a new transaction
// @Tags transactions
// @Accept json
// @Produce json
// @Param request body dto.TransactionRequest true "Transaction"
// @Success 201 {object} dto.CreateTransactionResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /transactions [post]
func (h *TransactionHandler) CreateTransaction(c *fiber.Ctx) error {
	var req dto.TransactionRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid request body")
	}

	id, err := h.txService.Create(c.UserContext(), &req)
	if err != nil {
		return h.handleError(c, err, "Failed to add transaction.")
	}

	return c.Status(fiber.StatusCreated).JSON(dto.CreateTransactionResponse{ID: id})
}

// ListTransactions godoc
// @Summary Retrieve all transactions
// @Description Newest date first
// @Tags transactions
// @Produce json
// @Success 200 {array} dto.TransactionResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /transactions [get]
func (h *TransactionHandler) ListTransactions(c *fiber.Ctx) error {
	transactions, err := h.txService.List(c.UserContext())
	if err != nil {
		return h.handleError(c, err, "Failed to retrieve transactions.")
	}

	responses := make([]dto.TransactionResponse, len(transactions))
	for i, tx := range transactions {
		responses[i] = toResponse(tx)
	}

	return c.JSON(responses)
}

// GetTransaction godoc
// @Summary Retrieve a transaction by ID
// @Tags transactions
// @Produce json
// @Param id path int true "Transaction ID"
// @Success 200 {object} dto.TransactionResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /transactions/{id} [get]
func (h *TransactionHandler) GetTransaction(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return errorJSON(c, fiber.StatusNotFound, "Transaction not found.")
	}

	tx, err := h.txService.GetByID(c.UserContext(), id)
	if err != nil {
		return h.handleError(c, err, "Failed to retrieve transaction.")
	}

	return c.JSON(toResponse(tx))
}

// UpdateTransaction godoc
// @Summary Update a transaction by ID
// @Description Overwrites every field; an omitted description becomes null
// @Tags transactions
// @Accept json
// @Produce json
// @Param id path int true "Transaction ID"
// @Param request body dto.TransactionRequest true "Transaction"
// @Success 200 {object} dto.MessageResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /transactions/{id} [put]
func (h *TransactionHandler) UpdateTransaction(c *fiber.Ctx) error {
	var req dto.TransactionRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid request body")
	}

	id, ok := parseID(c)
	if !ok {
		return errorJSON(c, fiber.StatusNotFound, "Transaction not found.")
	}

	if err := h.txService.Update(c.UserContext(), id, &req); err != nil {
		return h.handleError(c, err, "Failed to update transaction.")
	}

	return c.JSON(dto.MessageResponse{Message: "Transaction updated successfully."})
}

// DeleteTransaction godoc
// @Summary Delete a transaction by ID
// @Tags transactions
// @Produce json
// @Param id path int true "Transaction ID"
// @Success 200 {object} dto.MessageResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /transactions/{id} [delete]
func (h *TransactionHandler) DeleteTransaction(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return errorJSON(c, fiber.StatusNotFound, "Transaction not found.")
	}

	if err := h.txService.Delete(c.UserContext(), id); err != nil {
		return h.handleError(c, err, "Failed to delete transaction.")
	}

	return c.JSON(dto.MessageResponse{Message: "Transaction deleted successfully."})
}

// GetSummary godoc
// @Summary Total income, total expense and balance
// @Tags transactions
// @Produce json
// @Success 200 {object} dto.SummaryResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /transactions/summary [get]
func (h *TransactionHandler) GetSummary(c *fiber.Ctx) error {
	summary, err := h.txService.Summary(c.UserContext())
	if err != nil {
		return h.handleError(c, err, "Failed to retrieve summary.")
	}

	return c.JSON(summary)
}

// handleError maps service errors to responses. Store failures are logged
// with their cause and answered with failMsg only.
func (h *TransactionHandler) handleError(c *fiber.Ctx, err error, failMsg string) error {
	var vErr *service.ValidationError
	switch {
	case errors.As(err, &vErr):
		return errorJSON(c, fiber.StatusBadRequest, vErr.Message)
	case errors.Is(err, service.ErrNotFound):
		return errorJSON(c, fiber.StatusNotFound, "Transaction not found.")
	default:
		h.logger.Error(failMsg,
			zap.Error(err),
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
		)
		return errorJSON(c, fiber.StatusInternalServerError, failMsg)
	}
}

func parseID(c *fiber.Ctx) (int64, bool) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

func toResponse(tx *models.Transaction) dto.TransactionResponse {
	return dto.TransactionResponse{
		ID:          tx.ID,
		Type:        string(tx.Type),
		Category:    tx.Category,
		Amount:      tx.Amount,
		Date:        tx.Date,
		Description: tx.Description,
	}
}

func errorJSON(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(dto.ErrorResponse{Error: msg})
}
