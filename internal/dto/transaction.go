package dto

// TransactionRequest is the body of create and update calls. Amount is a
// pointer so a submitted 0 is told apart from a missing field.
type TransactionRequest struct {
	Type        string   `json:"type" validate:"required"`
	Category    string   `json:"category" validate:"required"`
	Amount      *float64 `json:"amount" validate:"required"`
	Date        string   `json:"date" validate:"required"`
	Description *string  `json:"description"`
}

type TransactionResponse struct {
	ID          int64   `json:"id"`
	Type        string  `json:"type"`
	Category    string  `json:"category"`
	Amount      float64 `json:"amount"`
	Date        string  `json:"date"`
	Description *string `json:"description"`
}

type CreateTransactionResponse struct {
	ID int64 `json:"id"`
}

type SummaryResponse struct {
	TotalIncome  float64 `json:"totalIncome"`
	TotalExpense float64 `json:"totalExpense"`
	Balance      float64 `json:"balance"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
