package service

import (
	"context"
	"errors"

	"drone-pickup/internal/features/orders/domain"
	"drone-pickup/internal/features/orders/ports"
)

// ErrOrderNotFound is returned when the session has no order with the requested id.
var ErrOrderNotFound = errors.New("order not found")

// Tracking is the tracking view of an order.
type Tracking struct {
	*domain.Order
	// StepsRemaining counts the status changes left before delivery.
	StepsRemaining int `json:"steps_remaining"`
	// Progress is the share of the lifecycle completed, from 0 to 100.
	Progress int `json:"progress"`
	// Unlockable reports whether the pickup point may be opened.
	Unlockable bool `json:"unlockable"`
}

// OrderService handles tracking lookups of placed orders.
type OrderService struct {
	// provider resolves the order a session currently holds.
	provider ports.OrderProvider
}

// NewOrderService creates a new instance of OrderService.
func NewOrderService(provider ports.OrderProvider) *OrderService {
	return &OrderService{
		provider: provider,
	}
}

// GetOrder returns the tracking view of orderID. The order must be the one the
// session currently holds; a replaced order is reported as not found.
func (s *OrderService) GetOrder(ctx context.Context, orderID, sessionID string) (*Tracking, error) {
	order, err := s.provider.SessionOrder(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if order == nil || order.ID != orderID {
		return nil, ErrOrderNotFound
	}

	return newTracking(order), nil
}

func newTracking(o *domain.Order) *Tracking {
	last := len(domain.Statuses()) - 1
	done := last - o.StepsRemaining()
	return &Tracking{
		Order:          o,
		StepsRemaining: o.StepsRemaining(),
		Progress:       done * 100 / last,
		Unlockable:     o.Delivered(),
	}
}
