// Package messaging defines the event publishing contract shared by the
// service layer and the concrete broker implementations.
package messaging

import (
	"context"
)

const (
	StockAdjustedSubject = "stock.adjusted"
	StockLowSubject      = "stock.low"
)

type Event interface {
	Subject() string
	Payload() ([]byte, error)
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// NoopPublisher discards events. Used when eventing is disabled.
type NoopPublisher struct{}

func (NoopPublisher) Publish(_ context.Context, _ Event) error {
	return nil
}
