package domain

import "errors"

var (
	// ErrLocationNotFound is returned for an unknown location id.
	ErrLocationNotFound = errors.New("location not found")
	// ErrArrivePointNotFound is returned when an arrive point does not belong to the location.
	ErrArrivePointNotFound = errors.New("arrive point not found for location")
	// ErrMerchantNotFound is returned for an unknown merchant id.
	ErrMerchantNotFound = errors.New("merchant not found")
)

// ArrivePointType tells whether a pickup point is shared or private.
type ArrivePointType string

const (
	ArrivePointShared  ArrivePointType = "shared"
	ArrivePointPrivate ArrivePointType = "private"
)

// ArrivePoint is a physical pickup point where a delivered order is staged.
type ArrivePoint struct {
	ID    string          `json:"id"`
	Label string          `json:"label"`
	Type  ArrivePointType `json:"type"`
}

// Location is a site a session can deliver to. It owns its arrive points.
type Location struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Subtitle     string        `json:"subtitle"`
	ArrivePoints []ArrivePoint `json:"arrive_points"`
}

// ArrivePoint looks up one of the location's own arrive points.
func (l Location) ArrivePoint(id string) (ArrivePoint, bool) {
	for _, ap := range l.ArrivePoints {
		if ap.ID == id {
			return ap, true
		}
	}
	return ArrivePoint{}, false
}

// Merchant is a food vendor that can be ordered from.
type Merchant struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Category string   `json:"category"`
	EtaMins  int      `json:"eta_mins"`
	Open     bool     `json:"open"`
	Tags     []string `json:"tags"`
}

// HasTag reports whether the merchant carries the tag.
func (m Merchant) HasTag(tag string) bool {
	for _, t := range m.Tags {
		if t == tag {
			return true
		}
	}
	return false
}
