package events

import (
	"encoding/json"
	"time"

	"github.com/abgdnv/inventory_service/pkg/messaging"
	"github.com/google/uuid"
)

// StockAdjustedEvent is emitted once per committed stock adjustment.
type StockAdjustedEvent struct {
	TransactionID   uuid.UUID `json:"transaction_id"`
	ProductID       uuid.UUID `json:"product_id"`
	ChangeQuantity  int32     `json:"change_quantity"`
	TransactionType string    `json:"transaction_type"`
	StockQuantity   int32     `json:"stock_quantity"`
	CreatedAt       time.Time `json:"created_at"`
}

func (e StockAdjustedEvent) Subject() string {
	return messaging.StockAdjustedSubject
}

func (e StockAdjustedEvent) Payload() ([]byte, error) {
	return json.Marshal(e)
}

// LowStockEvent is emitted when an adjustment leaves a product below its
// configured threshold.
type LowStockEvent struct {
	ProductID         uuid.UUID `json:"product_id"`
	Name              string    `json:"name"`
	StockQuantity     int32     `json:"stock_quantity"`
	LowStockThreshold int32     `json:"low_stock_threshold"`
}

func (e LowStockEvent) Subject() string {
	return messaging.StockLowSubject
}

func (e LowStockEvent) Payload() ([]byte, error) {
	return json.Marshal(e)
}
