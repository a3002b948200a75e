package ports

import (
	"context"

	"drone-pickup/internal/features/orders/domain"
)

// OrderProvider defines the interface for retrieving the order of a session.
// This is a Secondary Port (Driven Port).
type OrderProvider interface {
	// SessionOrder returns the current order of the session, or nil when none was placed.
	SessionOrder(ctx context.Context, sessionID string) (*domain.Order, error)
}
