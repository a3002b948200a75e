package ports

import (
	"context"
	"time"

	orders "drone-pickup/internal/features/orders/domain"
	"drone-pickup/internal/features/session/domain"
)

// SendCodeResult describes an issued verification code.
type SendCodeResult struct {
	// Phone is the normalized phone number the code was issued for.
	Phone string `json:"phone"`
	// DemoCode echoes the code outside production so the walkthrough can be completed.
	DemoCode string `json:"demo_code,omitempty"`
}

// CheckoutResult is the outcome of placing an order.
type CheckoutResult struct {
	Session domain.Session `json:"session"`
	// OrderingURL is the third-party ordering page the client opens in a new context.
	OrderingURL string `json:"ordering_url"`
}

// SessionService defines the primary port driving the session navigator.
type SessionService interface {
	Create(ctx context.Context, initialLocationID string) (domain.Session, error)
	Get(ctx context.Context, id string) (domain.Session, error)
	Teardown(ctx context.Context, id string) error
	SetScreen(ctx context.Context, id string, target domain.Screen) (domain.Session, error)
	SendCode(ctx context.Context, id, phone string) (SendCodeResult, error)
	VerifyCode(ctx context.Context, id, phone, code string) (domain.Session, error)
	SignOut(ctx context.Context, id string) (domain.Session, error)
	UpdateDestination(ctx context.Context, id, locationID, arrivePointID string, confirm bool) (domain.Session, error)
	SelectMerchant(ctx context.Context, id, merchantID string) (domain.Session, error)
	Checkout(ctx context.Context, id string) (CheckoutResult, error)
	Unlock(ctx context.Context, id string) (domain.Session, error)
	Done(ctx context.Context, id string) (domain.Session, error)
}

// SessionRepository defines the secondary port for session snapshots.
type SessionRepository interface {
	Save(ctx context.Context, session domain.Session) error
	// Get returns domain.ErrSessionNotFound when no snapshot exists.
	Get(ctx context.Context, id string) (*domain.Session, error)
	Delete(ctx context.Context, id string) error
	// IDs lists the ids of every stored snapshot.
	IDs(ctx context.Context) ([]string, error)
}

// CheckoutNotifier is told about every placed order. Delivery is best effort.
type CheckoutNotifier interface {
	NotifyCheckout(ctx context.Context, session domain.Session, order *orders.Order) error
}

// TaskScheduler runs one delayed task per key.
type TaskScheduler interface {
	Schedule(key string, delay time.Duration, fn func()) bool
	Cancel(key string) bool
}
