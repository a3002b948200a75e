package service

import (
	"fmt"
	"time"

	catalogdomain "drone-pickup/internal/features/catalog/domain"
	catalogports "drone-pickup/internal/features/catalog/ports"
	orders "drone-pickup/internal/features/orders/domain"
	"drone-pickup/internal/features/session/domain"
)

// Navigator owns one Session and applies navigation intents to it.
// Every mutation ends with domain.Guard, so the stored screen is always
// the effective one. A failed intent leaves the session untouched.
//
// Navigator is not safe for concurrent use; its owner serializes calls.
type Navigator struct {
	session domain.Session
	catalog catalogports.Catalog
}

// NewNavigator wraps an existing session.
func NewNavigator(s domain.Session, catalog catalogports.Catalog) *Navigator {
	return &Navigator{session: domain.Guard(s), catalog: catalog}
}

// Snapshot returns a deep copy of the current session.
func (n *Navigator) Snapshot() domain.Session {
	return n.session.Clone()
}

func (n *Navigator) commit(next domain.Session, now time.Time) {
	next.UpdatedAt = now
	n.session = domain.Guard(next)
}

// SetScreen navigates to target if its precondition holds. A blocked
// target keeps the current screen; the guard still runs either way.
func (n *Navigator) SetScreen(target domain.Screen, now time.Time) domain.Screen {
	next := n.session
	if domain.CanEnter(next, target) {
		next.Screen = target
	}
	n.commit(next, now)
	return n.session.Screen
}

// Authenticate signs the user in and moves on to destination selection.
func (n *Navigator) Authenticate(phone string, now time.Time) {
	next := n.session
	next.User = &domain.User{Phone: phone}
	next.Screen = domain.ScreenDestination
	n.commit(next, now)
}

// SignOut drops the user; the guard sends the session back to AUTH.
func (n *Navigator) SignOut(now time.Time) {
	next := n.session
	next.User = nil
	n.commit(next, now)
}

// SetLocation selects a location, clearing the arrive point if it changes.
// An empty id clears the destination.
func (n *Navigator) SetLocation(locationID string, now time.Time) error {
	if locationID != "" {
		if _, err := n.catalog.Location(locationID); err != nil {
			return err
		}
	}
	next := n.session
	next.SetLocation(locationID)
	n.commit(next, now)
	return nil
}

// SetArrivePoint selects an arrive point of the current location.
// An empty id clears it.
func (n *Navigator) SetArrivePoint(arrivePointID string, now time.Time) error {
	if arrivePointID != "" {
		if n.session.LocationID == "" {
			return fmt.Errorf("%w: choose a location first", domain.ErrDestinationIncomplete)
		}
		if _, err := n.catalog.ArrivePoint(n.session.LocationID, arrivePointID); err != nil {
			return err
		}
	}
	next := n.session
	next.ArrivePointID = arrivePointID
	n.commit(next, now)
	return nil
}

// UpdateDestination sets location and arrive point together. Both are
// validated before anything changes.
func (n *Navigator) UpdateDestination(locationID, arrivePointID string, now time.Time) error {
	if locationID != "" {
		if _, err := n.catalog.Location(locationID); err != nil {
			return err
		}
	}
	if arrivePointID != "" {
		if locationID == "" {
			return fmt.Errorf("%w: choose a location first", domain.ErrDestinationIncomplete)
		}
		if _, err := n.catalog.ArrivePoint(locationID, arrivePointID); err != nil {
			return err
		}
	}

	next := n.session
	next.SetLocation(locationID)
	next.ArrivePointID = arrivePointID
	n.commit(next, now)
	return nil
}

// ConfirmDestination moves on to the merchant list once the destination is complete.
func (n *Navigator) ConfirmDestination(now time.Time) error {
	if !n.session.DestinationComplete() {
		return domain.ErrDestinationIncomplete
	}
	next := n.session
	next.Screen = domain.ScreenMerchants
	n.commit(next, now)
	return nil
}

// SelectDestination sets the destination and confirms it. Both ids are required.
func (n *Navigator) SelectDestination(locationID, arrivePointID string, now time.Time) error {
	if locationID == "" || arrivePointID == "" {
		return domain.ErrDestinationIncomplete
	}
	if err := n.UpdateDestination(locationID, arrivePointID, now); err != nil {
		return err
	}
	return n.ConfirmDestination(now)
}

// canBrowse is the precondition for intents issued from the merchant list.
func (n *Navigator) canBrowse() error {
	if !n.session.Authenticated() {
		return domain.ErrNotAuthenticated
	}
	if !n.session.DestinationComplete() {
		return domain.ErrDestinationIncomplete
	}
	return nil
}

// SelectMerchant opens the detail screen of a known, open merchant.
func (n *Navigator) SelectMerchant(merchantID string, now time.Time) error {
	if err := n.canBrowse(); err != nil {
		return err
	}
	m, err := n.catalog.Merchant(merchantID)
	if err != nil {
		return err
	}
	if !m.Open {
		return fmt.Errorf("%w: %s", domain.ErrMerchantClosed, m.ID)
	}

	next := n.session
	next.SelectedMerchantID = m.ID
	next.Screen = domain.ScreenMerchantDetail
	n.commit(next, now)
	return nil
}

// Checkout places a new order with the selected merchant and shows tracking.
// A previous order, if any, is replaced.
func (n *Navigator) Checkout(now time.Time) (*orders.Order, catalogdomain.Merchant, error) {
	if err := n.canBrowse(); err != nil {
		return nil, catalogdomain.Merchant{}, err
	}
	if n.session.SelectedMerchantID == "" {
		return nil, catalogdomain.Merchant{}, domain.ErrNoMerchantSelected
	}
	m, err := n.catalog.Merchant(n.session.SelectedMerchantID)
	if err != nil {
		return nil, catalogdomain.Merchant{}, err
	}
	if !m.Open {
		return nil, catalogdomain.Merchant{}, fmt.Errorf("%w: %s", domain.ErrMerchantClosed, m.ID)
	}

	order := orders.NewOrder(m.ID, m.Name, m.EtaMins, now)
	next := n.session
	next.Order = order
	next.Screen = domain.ScreenTracking
	n.commit(next, now)
	return order.Clone(), m, nil
}

// AdvanceOrderStatus moves the order one step. It reports false when there
// is no order or the order is already delivered.
func (n *Navigator) AdvanceOrderStatus(now time.Time) bool {
	if n.session.Order == nil {
		return false
	}
	next := n.session.Clone()
	if !next.Order.Advance(now) {
		return false
	}
	n.commit(next, now)
	return true
}

// Unlock opens the pickup point of a delivered order. The user must still be
// signed in with a complete destination, otherwise the guard would hold the
// screen elsewhere.
func (n *Navigator) Unlock(now time.Time) error {
	if err := n.canBrowse(); err != nil {
		return err
	}
	if n.session.Order == nil {
		return domain.ErrNoOrder
	}
	if !n.session.Order.Delivered() {
		return fmt.Errorf("%w: status is %s", domain.ErrOrderNotDelivered, n.session.Order.Status)
	}
	next := n.session
	next.Screen = domain.ScreenUnlock
	n.commit(next, now)
	return nil
}

// Done closes the unlock screen and loops back to the merchant list.
func (n *Navigator) Done(now time.Time) domain.Screen {
	return n.SetScreen(domain.ScreenMerchants, now)
}
