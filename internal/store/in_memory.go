package store

import (
	"context"
	"math"
	"sync"
	"time"

	ierrors "github.com/abgdnv/inventory_service/internal/errors"
	"github.com/google/uuid"
)

// inMemory implements ProductStore using in-memory maps. Adjustments run
// under the write lock, so the read-validate-write-audit sequence is
// serialized the same way the PostgreSQL implementation serializes it.
type inMemory struct {
	mu           sync.RWMutex
	products     map[uuid.UUID]Product
	transactions []StockTransaction
}

// NewInMemoryStore creates a new instance of ProductStore backed by memory.
func NewInMemoryStore() ProductStore {
	return &inMemory{
		products: make(map[uuid.UUID]Product),
	}
}

// FindByID retrieves a product by its ID.
func (s *inMemory) FindByID(_ context.Context, id uuid.UUID) (*Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[id]
	if !ok {
		return nil, ierrors.ErrProductNotFound
	}
	return &p, nil
}

// FindAll retrieves all products.
func (s *inMemory) FindAll(_ context.Context) ([]Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]Product, 0, len(s.products))
	for _, p := range s.products {
		list = append(list, p)
	}
	return list, nil
}

// FindLowStock retrieves products whose stock quantity is below their threshold.
func (s *inMemory) FindLowStock(_ context.Context) ([]Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]Product, 0)
	for _, p := range s.products {
		if p.StockQuantity < p.LowStockThreshold {
			list = append(list, p)
		}
	}
	return list, nil
}

// Create creates a new product and returns it.
func (s *inMemory) Create(_ context.Context, name, description string, stock, threshold int32) (*Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	product := Product{
		ID:                uuid.New(),
		Name:              name,
		Description:       description,
		StockQuantity:     stock,
		LowStockThreshold: threshold,
	}
	s.products[product.ID] = product
	return &product, nil
}

// Update replaces an existing product's mutable fields.
func (s *inMemory) Update(_ context.Context, id uuid.UUID, name, description string, stock, threshold int32) (*Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[id]; !ok {
		return nil, ierrors.ErrProductNotFound
	}
	product := Product{
		ID:                id,
		Name:              name,
		Description:       description,
		StockQuantity:     stock,
		LowStockThreshold: threshold,
	}
	s.products[id] = product
	return &product, nil
}

// DeleteByID deletes a product by its ID. Transaction records are kept.
func (s *inMemory) DeleteByID(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[id]; !ok {
		return ierrors.ErrProductNotFound
	}
	delete(s.products, id)
	return nil
}

// AdjustStock applies a stock adjustment and appends the audit record
// while holding the write lock.
func (s *inMemory) AdjustStock(_ context.Context, id uuid.UUID, quantity int32, txType TransactionType) (*Product, *StockTransaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	product, ok := s.products[id]
	if !ok {
		return nil, nil, ierrors.ErrProductNotFound
	}

	var newQuantity int32
	if txType == TransactionDecrease {
		if product.StockQuantity < quantity {
			return nil, nil, ierrors.ErrInsufficientStock
		}
		newQuantity = product.StockQuantity - quantity
	} else {
		if quantity > math.MaxInt32-product.StockQuantity {
			return nil, nil, ierrors.ErrStockOverflow
		}
		newQuantity = product.StockQuantity + quantity
	}

	record := StockTransaction{
		ID:              uuid.New(),
		ProductID:       id,
		ChangeQuantity:  quantity,
		TransactionType: txType,
		CreatedAt:       time.Now().UTC(),
	}
	s.transactions = append(s.transactions, record)

	product.StockQuantity = newQuantity
	s.products[id] = product
	return &product, &record, nil
}

// Transactions returns a copy of the audit log. Test helper.
func (s *inMemory) Transactions() []StockTransaction {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]StockTransaction, len(s.transactions))
	copy(list, s.transactions)
	return list
}
