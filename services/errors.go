package services

import (
	"errors"
	"fmt"
)

// ErrEmptyCart is returned when an order request carries no items.
var ErrEmptyCart = errors.New("at least one item is required")

// ProductNotFoundError is returned when a cart entry references a
// product that does not exist.
type ProductNotFoundError struct {
	ProductID uint
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product with ID %d not found", e.ProductID)
}

// InsufficientStockError is returned when a cart entry asks for more
// units than the product has in stock.
type InsufficientStockError struct {
	ProductID uint
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %d: requested=%d available=%d",
		e.ProductID, e.Requested, e.Available)
}

// InvalidQuantityError is returned when a cart entry asks for zero or
// fewer units.
type InvalidQuantityError struct {
	ProductID uint
	Quantity  int
}

func (e *InvalidQuantityError) Error() string {
	return fmt.Sprintf("invalid quantity %d for product %d", e.Quantity, e.ProductID)
}

// InvalidStatusTransitionError is returned when an order status change
// is not in the transition table.
type InvalidStatusTransitionError struct {
	From, To string
}

func (e *InvalidStatusTransitionError) Error() string {
	return fmt.Sprintf("invalid order status transition %s -> %s", e.From, e.To)
}

// IsValidationError reports whether err is a client-side failure (bad
// cart contents) rather than an infrastructure one, so handlers can
// split 4xx from 5xx responses.
func IsValidationError(err error) bool {
	var notFound *ProductNotFoundError
	var stock *InsufficientStockError
	var quantity *InvalidQuantityError
	var transition *InvalidStatusTransitionError
	return errors.Is(err, ErrEmptyCart) ||
		errors.As(err, &notFound) ||
		errors.As(err, &stock) ||
		errors.As(err, &quantity) ||
		errors.As(err, &transition)
}
