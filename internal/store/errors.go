package store

import (
	"errors"
	"fmt"
)

var (
	ErrOutOfStock       = errors.New("requested quantity out of stock")
	ErrProductNotInCart = errors.New("product not in cart")
	ErrOperationFailed  = errors.New("cart operation failed")
)

// OperationError is returned by every aborted mutation. Message is the exact text
// that was sent to the Notifier for this call.
type OperationError struct {
	Op        string
	ProductID int64
	Message   string
	Kind      error
	Err       error
}

func (e *OperationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s product %d: %v: %v", e.Op, e.ProductID, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s product %d: %v", e.Op, e.ProductID, e.Kind)
}

func (e *OperationError) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}
