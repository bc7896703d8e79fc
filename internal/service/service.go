// Package service provides the implementation of inventory business logic.
package service

import (
	"context"
	"fmt"
	"log/slog"

	ierrors "github.com/abgdnv/inventory_service/internal/errors"
	"github.com/abgdnv/inventory_service/internal/store"
	"github.com/abgdnv/inventory_service/pkg/messaging"
	"github.com/abgdnv/inventory_service/pkg/messaging/events"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// ProductService defines the methods for managing products and their stock.
// It abstracts the underlying business logic and data access.
type ProductService interface {
	// FindByID retrieves a single product by its unique identifier.
	// Returns ErrProductNotFound if no product exists with the given ID.
	FindByID(ctx context.Context, id uuid.UUID) (*ProductDto, error)

	// FindAll returns all available products.
	// Returns an empty slice if no products exist.
	FindAll(ctx context.Context) ([]ProductDto, error)

	// FindLowStock returns products whose stock quantity has fallen below
	// their configured threshold.
	FindLowStock(ctx context.Context) ([]ProductDto, error)

	// Create adds a new product to the system.
	// Returns error if the product cannot be created.
	Create(ctx context.Context, product ProductCreateDto) (*ProductDto, error)

	// Update replaces an existing product's mutable fields.
	// Returns ErrProductNotFound if no product exists with the given ID.
	Update(ctx context.Context, id uuid.UUID, product ProductUpdateDto) (*ProductDto, error)

	// DeleteByID removes a product by its ID.
	// Returns ErrProductNotFound if no product exists with the given ID.
	DeleteByID(ctx context.Context, id uuid.UUID) error

	// IncreaseStock raises a product's stock quantity and records the
	// matching audit entry. Returns ErrInvalidQuantity if quantity <= 0,
	// ErrProductNotFound if the product is absent and ErrStockOverflow if
	// the increase would push the quantity past the int32 limit.
	IncreaseStock(ctx context.Context, id uuid.UUID, quantity int32) (*ProductDto, error)

	// DecreaseStock lowers a product's stock quantity and records the
	// matching audit entry. Returns ErrInvalidQuantity if quantity <= 0,
	// ErrProductNotFound if the product is absent and ErrInsufficientStock
	// if the decrease exceeds the current quantity; state is unchanged on
	// any of these.
	DecreaseStock(ctx context.Context, id uuid.UUID, quantity int32) (*ProductDto, error)
}

// Service implements ProductService and provides methods to manage products.
type Service struct {
	repository         store.ProductStore
	publisher          messaging.Publisher
	adjustmentsCounter metric.Int64Counter
}

// NewService creates a new instance of ProductService with the provided repository and publisher.
func NewService(repo store.ProductStore, publisher messaging.Publisher) *Service {
	meter := otel.Meter("inventory-service")
	adjustmentsCounter, err := meter.Int64Counter("stock_adjustments_total",
		metric.WithDescription("Total number of committed stock adjustments"))
	if err != nil {
		panic(fmt.Sprintf("failed to create stock_adjustments_total counter: %v", err))
	}
	return &Service{
		repository:         repo,
		publisher:          publisher,
		adjustmentsCounter: adjustmentsCounter,
	}
}

// ProductCreateDto represents the data transfer object for creating a new product.
// Validation tags mirror the API contract: only negative stock and negative
// threshold are rejected, name and description are free text.
type ProductCreateDto struct {
	Name              string `json:"name"`
	Description       string `json:"description"`
	StockQuantity     int32  `json:"stockQuantity"     validate:"gte=0"`
	LowStockThreshold int32  `json:"lowStockThreshold" validate:"gte=0"`
}

// ProductUpdateDto represents the data transfer object for updating a product.
// The incoming values are validated, not the stored record's.
type ProductUpdateDto struct {
	Name              string `json:"name"`
	Description       string `json:"description"`
	StockQuantity     int32  `json:"stockQuantity"     validate:"gte=0"`
	LowStockThreshold int32  `json:"lowStockThreshold" validate:"gte=0"`
}

// ProductDto represents the data transfer object for a product.
type ProductDto struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	Description       string `json:"description"`
	StockQuantity     int32  `json:"stockQuantity"`
	LowStockThreshold int32  `json:"lowStockThreshold"`
}

// FindByID retrieves a product by its ID and returns it as a ProductDto.
// Returns ErrProductNotFound if no product exists with the given ID.
func (s *Service) FindByID(ctx context.Context, id uuid.UUID) (*ProductDto, error) {
	product, err := s.repository.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch product by ID %s: %w", id, err)
	}
	return toDto(product), nil
}

// FindAll retrieves a list of all products and returns them as ProductDTOs.
// Returns an empty slice if no products exist or error if the retrieval fails.
func (s *Service) FindAll(ctx context.Context) ([]ProductDto, error) {
	products, err := s.repository.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}
	return toDtoList(products), nil
}

// FindLowStock retrieves products below their low stock threshold.
func (s *Service) FindLowStock(ctx context.Context) ([]ProductDto, error) {
	products, err := s.repository.FindLowStock(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch low stock products: %w", err)
	}
	return toDtoList(products), nil
}

// Create creates a new product and returns it as a ProductDto.
// Returns an error if the product cannot be created.
func (s *Service) Create(ctx context.Context, product ProductCreateDto) (*ProductDto, error) {
	p, err := s.repository.Create(ctx, product.Name, product.Description, product.StockQuantity, product.LowStockThreshold)
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return toDto(p), nil
}

// Update replaces an existing product's mutable fields and returns the updated value.
// Returns ErrProductNotFound if no product exists with the given ID.
func (s *Service) Update(ctx context.Context, id uuid.UUID, product ProductUpdateDto) (*ProductDto, error) {
	updated, err := s.repository.Update(ctx, id, product.Name, product.Description, product.StockQuantity, product.LowStockThreshold)
	if err != nil {
		return nil, fmt.Errorf("failed to update product with ID %s: %w", id, err)
	}
	return toDto(updated), nil
}

// DeleteByID deletes a product by its ID.
// Returns ErrProductNotFound if no product exists with the given ID.
func (s *Service) DeleteByID(ctx context.Context, id uuid.UUID) error {
	return s.repository.DeleteByID(ctx, id)
}

// IncreaseStock raises the stock quantity of a product and records the adjustment.
func (s *Service) IncreaseStock(ctx context.Context, id uuid.UUID, quantity int32) (*ProductDto, error) {
	return s.adjustStock(ctx, id, quantity, store.TransactionIncrease)
}

// DecreaseStock lowers the stock quantity of a product and records the adjustment.
func (s *Service) DecreaseStock(ctx context.Context, id uuid.UUID, quantity int32) (*ProductDto, error) {
	return s.adjustStock(ctx, id, quantity, store.TransactionDecrease)
}

func (s *Service) adjustStock(ctx context.Context, id uuid.UUID, quantity int32, txType store.TransactionType) (*ProductDto, error) {
	if quantity <= 0 {
		return nil, ierrors.ErrInvalidQuantity
	}
	product, record, err := s.repository.AdjustStock(ctx, id, quantity, txType)
	if err != nil {
		return nil, fmt.Errorf("failed to adjust stock for product with ID %s: %w", id, err)
	}

	s.publishAdjusted(ctx, product, record)
	s.adjustmentsCounter.Add(ctx, 1)

	return toDto(product), nil
}

// publishAdjusted emits the stock.adjusted event, plus stock.low when the
// product ended up below its threshold. Publish failures are logged only;
// the adjustment is already committed.
func (s *Service) publishAdjusted(ctx context.Context, product *store.Product, record *store.StockTransaction) {
	event := events.StockAdjustedEvent{
		TransactionID:   record.ID,
		ProductID:       record.ProductID,
		ChangeQuantity:  record.ChangeQuantity,
		TransactionType: string(record.TransactionType),
		StockQuantity:   product.StockQuantity,
		CreatedAt:       record.CreatedAt,
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		slog.ErrorContext(ctx, "Failed to publish StockAdjustedEvent", "error", err)
	}

	if product.StockQuantity < product.LowStockThreshold {
		lowEvent := events.LowStockEvent{
			ProductID:         product.ID,
			Name:              product.Name,
			StockQuantity:     product.StockQuantity,
			LowStockThreshold: product.LowStockThreshold,
		}
		if err := s.publisher.Publish(ctx, lowEvent); err != nil {
			slog.ErrorContext(ctx, "Failed to publish LowStockEvent", "error", err)
		}
	}
}

// toDto converts a store.Product to a ProductDto.
func toDto(product *store.Product) *ProductDto {
	return &ProductDto{
		ID:                product.ID.String(),
		Name:              product.Name,
		Description:       product.Description,
		StockQuantity:     product.StockQuantity,
		LowStockThreshold: product.LowStockThreshold,
	}
}

func toDtoList(products []store.Product) []ProductDto {
	dtos := make([]ProductDto, len(products))
	for i := range products {
		dtos[i] = *toDto(&products[i])
	}
	return dtos
}
