// Package errors provides custom error types for inventory operations.
package errors

import "errors"

var (
	// ErrProductNotFound is returned when no product exists for the given ID.
	ErrProductNotFound = errors.New("product not found")
	// ErrInsufficientStock is returned when a decrease exceeds the current stock quantity.
	ErrInsufficientStock = errors.New("insufficient stock available")
	// ErrInvalidQuantity is returned when an adjustment quantity is not strictly positive.
	ErrInvalidQuantity = errors.New("quantity must be greater than 0")
	// ErrStockOverflow is returned when an increase would push the stock quantity past the int32 limit.
	ErrStockOverflow = errors.New("stock quantity limit exceeded")
)
