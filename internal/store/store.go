// Package store provides an interface for product and stock transaction storage.
package store

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// TransactionType describes the direction of a stock adjustment.
type TransactionType string

const (
	TransactionIncrease TransactionType = "INCREASE"
	TransactionDecrease TransactionType = "DECREASE"
)

// Product represents a product record.
type Product struct {
	ID                uuid.UUID
	Name              string
	Description       string
	StockQuantity     int32
	LowStockThreshold int32
}

// StockTransaction is an immutable audit entry describing one stock adjustment.
// ProductID is a back-reference only; transactions outlive their product.
type StockTransaction struct {
	ID              uuid.UUID
	ProductID       uuid.UUID
	ChangeQuantity  int32
	TransactionType TransactionType
	CreatedAt       time.Time
}

// ProductStore is an interface for product storage operations.
// It abstracts the underlying data store, allowing for different implementations (e.g., in-memory, database).
type ProductStore interface {
	// FindByID retrieves a single product by its unique identifier.
	// Returns ErrProductNotFound if no product exists with the given ID.
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// FindAll returns all available products.
	// Returns an empty slice if no products exist.
	FindAll(ctx context.Context) ([]Product, error)

	// FindLowStock returns products whose stock quantity has fallen below
	// their configured threshold.
	FindLowStock(ctx context.Context) ([]Product, error)

	// Create adds a new product to the system.
	// Returns error if the product cannot be created.
	Create(ctx context.Context, name, description string, stock, threshold int32) (*Product, error)

	// Update replaces an existing product's mutable fields.
	// Returns ErrProductNotFound if no product exists with the given ID.
	Update(ctx context.Context, id uuid.UUID, name, description string, stock, threshold int32) (*Product, error)

	// DeleteByID removes a product by its ID.
	// Returns ErrProductNotFound if no product exists with the given ID.
	DeleteByID(ctx context.Context, id uuid.UUID) error

	// AdjustStock applies a stock adjustment and appends the matching audit
	// record as one unit, serialized per product. The audit write precedes
	// the product update. Returns ErrProductNotFound if the product is
	// absent and ErrInsufficientStock if a decrease exceeds current stock;
	// nothing is written in either case.
	AdjustStock(ctx context.Context, id uuid.UUID, quantity int32, txType TransactionType) (*Product, *StockTransaction, error)
}
