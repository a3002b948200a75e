package domain

import (
	"time"

	"github.com/google/uuid"
)

// OrderStatus is a step of the mock delivery lifecycle.
type OrderStatus string

const (
	// OrderStatusPlaced indicates the order was submitted to the merchant.
	OrderStatusPlaced OrderStatus = "PLACED"
	// OrderStatusAccepted indicates the merchant accepted the order.
	OrderStatusAccepted OrderStatus = "ACCEPTED"
	// OrderStatusPreparing indicates the kitchen is working on the order.
	OrderStatusPreparing OrderStatus = "PREPARING"
	// OrderStatusReady indicates the order is packed and waiting for the drone.
	OrderStatusReady OrderStatus = "READY"
	// OrderStatusPickedUp indicates the drone collected the order.
	OrderStatusPickedUp OrderStatus = "PICKED_UP"
	// OrderStatusInFlight indicates the drone is on its way to the arrive point.
	OrderStatusInFlight OrderStatus = "IN_FLIGHT"
	// OrderStatusDelivered indicates the order is staged at the arrive point. Terminal.
	OrderStatusDelivered OrderStatus = "DELIVERED"
)

var statusSequence = []OrderStatus{
	OrderStatusPlaced,
	OrderStatusAccepted,
	OrderStatusPreparing,
	OrderStatusReady,
	OrderStatusPickedUp,
	OrderStatusInFlight,
	OrderStatusDelivered,
}

// Statuses returns the lifecycle in order.
func Statuses() []OrderStatus {
	return append([]OrderStatus(nil), statusSequence...)
}

// Index returns the position of s in the lifecycle, or -1 if s is unknown.
func (s OrderStatus) Index() int {
	for i, st := range statusSequence {
		if st == s {
			return i
		}
	}
	return -1
}

// Valid reports whether s is part of the lifecycle.
func (s OrderStatus) Valid() bool {
	return s.Index() >= 0
}

// IsTerminal reports whether no further step exists.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered
}

// Next returns the following status. ok is false for the terminal or an unknown status.
func (s OrderStatus) Next() (next OrderStatus, ok bool) {
	i := s.Index()
	if i < 0 || i == len(statusSequence)-1 {
		return s, false
	}
	return statusSequence[i+1], true
}

// StatusEvent records when the order entered a status.
type StatusEvent struct {
	// Status is the status that was entered.
	Status OrderStatus `json:"status"`
	// At is when the transition happened.
	At time.Time `json:"at"`
}

// Order is a locally simulated order whose status advances on timers.
type Order struct {
	// ID is the unique identifier for the order.
	ID string `json:"order_id"`
	// Status is the current lifecycle step.
	Status OrderStatus `json:"status"`
	// MerchantID identifies the merchant the order was placed with.
	MerchantID string `json:"merchant_id"`
	// MerchantName is the display name of the merchant.
	MerchantName string `json:"merchant_name"`
	// ETA is the estimated arrival at the arrive point.
	ETA time.Time `json:"eta"`
	// CreatedAt is when checkout happened.
	CreatedAt time.Time `json:"created_at"`
	// History lists every status the order entered, oldest first.
	History []StatusEvent `json:"history"`
}

// NewOrder places a new order with a random v4 UUID identifier.
func NewOrder(merchantID, merchantName string, etaMins int, now time.Time) *Order {
	return &Order{
		ID:           uuid.NewString(),
		Status:       OrderStatusPlaced,
		MerchantID:   merchantID,
		MerchantName: merchantName,
		ETA:          now.Add(time.Duration(etaMins) * time.Minute),
		CreatedAt:    now,
		History:      []StatusEvent{{Status: OrderStatusPlaced, At: now}},
	}
}

// Advance moves the order one step forward. Once delivered it does nothing and returns false.
func (o *Order) Advance(now time.Time) bool {
	next, ok := o.Status.Next()
	if !ok {
		return false
	}
	o.Status = next
	o.History = append(o.History, StatusEvent{Status: next, At: now})
	return true
}

// Delivered reports whether the order reached the terminal status.
func (o *Order) Delivered() bool {
	return o != nil && o.Status.IsTerminal()
}

// StepsRemaining counts the transitions left before delivery.
func (o *Order) StepsRemaining() int {
	i := o.Status.Index()
	if i < 0 {
		return 0
	}
	return len(statusSequence) - 1 - i
}

// Clone returns a deep copy.
func (o *Order) Clone() *Order {
	if o == nil {
		return nil
	}
	c := *o
	c.History = append([]StatusEvent(nil), o.History...)
	return &c
}
