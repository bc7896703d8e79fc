package store

import (
	"context"
	"errors"
	"fmt"
	"math"

	ierrors "github.com/abgdnv/inventory_service/internal/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const productColumns = "id, name, description, stock_quantity, low_stock_threshold"

// PgStore implements ProductStore using PostgreSQL as the data store.
type PgStore struct {
	db *pgxpool.Pool
}

// NewPgStore creates a new instance of ProductStore using a PostgreSQL connection pool.
func NewPgStore(dbp *pgxpool.Pool) *PgStore {
	return &PgStore{db: dbp}
}

// FindByID retrieves a product by its unique identifier.
// Returns ErrProductNotFound if no product exists with the given ID.
func (p *PgStore) FindByID(ctx context.Context, id uuid.UUID) (*Product, error) {
	row := p.db.QueryRow(ctx, "SELECT "+productColumns+" FROM products WHERE id = $1", id)
	product, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ierrors.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}
	return product, nil
}

// FindAll retrieves all available products.
// It returns a slice of products, which may be empty if no products exist.
func (p *PgStore) FindAll(ctx context.Context) ([]Product, error) {
	rows, err := p.db.Query(ctx, "SELECT "+productColumns+" FROM products")
	if err != nil {
		return nil, fmt.Errorf("failed to find all products: %w", err)
	}
	defer rows.Close()
	return collectProducts(rows)
}

// FindLowStock retrieves products whose stock quantity is below their threshold.
func (p *PgStore) FindLowStock(ctx context.Context) ([]Product, error) {
	rows, err := p.db.Query(ctx, "SELECT "+productColumns+" FROM products WHERE stock_quantity < low_stock_threshold")
	if err != nil {
		return nil, fmt.Errorf("failed to find low stock products: %w", err)
	}
	defer rows.Close()
	return collectProducts(rows)
}

// Create adds a new product to the system.
// Returns an error if the product cannot be created.
func (p *PgStore) Create(ctx context.Context, name, description string, stock, threshold int32) (*Product, error) {
	row := p.db.QueryRow(ctx,
		"INSERT INTO products (name, description, stock_quantity, low_stock_threshold) VALUES ($1, $2, $3, $4) RETURNING "+productColumns,
		name, description, stock, threshold)
	product, err := scanProduct(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return product, nil
}

// Update replaces an existing product's mutable fields.
// Returns ErrProductNotFound if no product exists with the given ID.
func (p *PgStore) Update(ctx context.Context, id uuid.UUID, name, description string, stock, threshold int32) (*Product, error) {
	row := p.db.QueryRow(ctx,
		"UPDATE products SET name = $2, description = $3, stock_quantity = $4, low_stock_threshold = $5 WHERE id = $1 RETURNING "+productColumns,
		id, name, description, stock, threshold)
	product, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ierrors.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	return product, nil
}

// DeleteByID removes a product by its unique identifier.
// Returns ErrProductNotFound if no product exists with the given ID.
func (p *PgStore) DeleteByID(ctx context.Context, id uuid.UUID) error {
	tag, err := p.db.Exec(ctx, "DELETE FROM products WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete product by ID: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ierrors.ErrProductNotFound
	}
	return nil
}

// AdjustStock applies a stock adjustment inside a single database
// transaction. The product row is locked for the whole read-validate-write
// sequence, so concurrent adjustments on the same product serialize and
// the audit insert commits atomically with the product update.
func (p *PgStore) AdjustStock(ctx context.Context, id uuid.UUID, quantity int32, txType TransactionType) (*Product, *StockTransaction, error) {
	var product *Product
	var stockTx *StockTransaction

	txErr := p.withTransaction(ctx, func(tx pgx.Tx) error {
		row := tx.QueryRow(ctx, "SELECT "+productColumns+" FROM products WHERE id = $1 FOR UPDATE", id)
		current, err := scanProduct(row)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ierrors.ErrProductNotFound
			}
			return fmt.Errorf("failed to lock product row: %w", err)
		}

		var newQuantity int32
		if txType == TransactionDecrease {
			if current.StockQuantity < quantity {
				return ierrors.ErrInsufficientStock
			}
			newQuantity = current.StockQuantity - quantity
		} else {
			if quantity > math.MaxInt32-current.StockQuantity {
				return ierrors.ErrStockOverflow
			}
			newQuantity = current.StockQuantity + quantity
		}

		// Audit record first, product state second.
		record := StockTransaction{
			ProductID:       id,
			ChangeQuantity:  quantity,
			TransactionType: txType,
		}
		err = tx.QueryRow(ctx,
			"INSERT INTO stock_transactions (product_id, change_quantity, transaction_type) VALUES ($1, $2, $3) RETURNING id, created_at",
			id, quantity, string(txType)).Scan(&record.ID, &record.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert stock transaction: %w", err)
		}

		row = tx.QueryRow(ctx,
			"UPDATE products SET stock_quantity = $2 WHERE id = $1 RETURNING "+productColumns,
			id, newQuantity)
		updated, err := scanProduct(row)
		if err != nil {
			return fmt.Errorf("failed to update product stock: %w", err)
		}

		product = updated
		stockTx = &record
		return nil
	})

	if txErr != nil {
		return nil, nil, txErr
	}
	return product, stockTx, nil
}

// withTransaction runs fn inside a database transaction, rolling back on error.
func (p *PgStore) withTransaction(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := p.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func scanProduct(row pgx.Row) (*Product, error) {
	var product Product
	err := row.Scan(&product.ID, &product.Name, &product.Description, &product.StockQuantity, &product.LowStockThreshold)
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func collectProducts(rows pgx.Rows) ([]Product, error) {
	products := make([]Product, 0)
	for rows.Next() {
		var product Product
		if err := rows.Scan(&product.ID, &product.Name, &product.Description, &product.StockQuantity, &product.LowStockThreshold); err != nil {
			return nil, fmt.Errorf("failed to scan product row: %w", err)
		}
		products = append(products, product)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read product rows: %w", err)
	}
	return products, nil
}
