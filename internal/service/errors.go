package service

import "errors"

// ErrNotFound means the referenced transaction id does not exist.
var ErrNotFound = errors.New("transaction not found")

const (
	msgRequiredFields = "Type, category, amount, and date are required."
	msgInvalidType    = "Type must be either 'income' or 'expense'."
	msgNegativeAmount = "Amount must be a non-negative number."
)

// ValidationError is a client-side input problem. Message is safe to show
// to the caller as is.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// PersistenceError wraps a failed store operation. Err is for logs only.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
