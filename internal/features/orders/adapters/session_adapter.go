package adapters

import (
	"context"
	"fmt"

	"drone-pickup/internal/features/orders/domain"
	sessiondomain "drone-pickup/internal/features/session/domain"
)

// SessionReader is the slice of the session service the adapter needs.
type SessionReader interface {
	Get(ctx context.Context, id string) (sessiondomain.Session, error)
}

// SessionAdapter implements ports.OrderProvider on top of live sessions.
type SessionAdapter struct {
	sessions SessionReader
}

// NewSessionAdapter creates a new SessionAdapter.
func NewSessionAdapter(sessions SessionReader) *SessionAdapter {
	return &SessionAdapter{sessions: sessions}
}

// SessionOrder returns the order the session currently holds.
func (a *SessionAdapter) SessionOrder(ctx context.Context, sessionID string) (*domain.Order, error) {
	s, err := a.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("orders: failed to load session: %w", err)
	}
	return s.Order, nil
}
