package domain

import (
	"time"

	orders "drone-pickup/internal/features/orders/domain"
)

// User is the signed-in customer.
type User struct {
	Phone string `json:"phone"`
}

// Session is the navigation state of one customer walkthrough.
type Session struct {
	ID                 string        `json:"id"`
	Screen             Screen        `json:"screen"`
	User               *User         `json:"user,omitempty"`
	LocationID         string        `json:"location_id,omitempty"`
	ArrivePointID      string        `json:"arrive_point_id,omitempty"`
	SelectedMerchantID string        `json:"selected_merchant_id,omitempty"`
	Order              *orders.Order `json:"order,omitempty"`
	CreatedAt          time.Time     `json:"created_at"`
	UpdatedAt          time.Time     `json:"updated_at"`
}

// NewSession starts a session on the landing screen.
func NewSession(id string, now time.Time) Session {
	return Session{
		ID:        id,
		Screen:    ScreenLanding,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Authenticated reports whether a user is signed in.
func (s Session) Authenticated() bool {
	return s.User != nil
}

// DestinationComplete reports whether both location and arrive point are chosen.
func (s Session) DestinationComplete() bool {
	return s.LocationID != "" && s.ArrivePointID != ""
}

// SetLocation changes the location. A different location clears the arrive point,
// since arrive points belong to exactly one location.
func (s *Session) SetLocation(id string) {
	if s.LocationID == id {
		return
	}
	s.LocationID = id
	s.ArrivePointID = ""
}

// Clone returns a deep copy safe to hand out of the owning controller.
func (s Session) Clone() Session {
	if s.User != nil {
		u := *s.User
		s.User = &u
	}
	s.Order = s.Order.Clone()
	return s
}
