package adapters

import (
	"fmt"

	"drone-pickup/internal/features/catalog/domain"
)

// StaticCatalog serves the hardcoded demo locations and merchants.
// Lookups return copies so callers cannot mutate the reference data.
type StaticCatalog struct {
	locations []domain.Location
	merchants []domain.Merchant
}

// NewStaticCatalog returns the catalog used by the demo deployment.
func NewStaticCatalog() *StaticCatalog {
	return NewStaticCatalogFrom(defaultLocations(), defaultMerchants())
}

// NewStaticCatalogFrom builds a catalog from the given data.
func NewStaticCatalogFrom(locations []domain.Location, merchants []domain.Merchant) *StaticCatalog {
	return &StaticCatalog{locations: locations, merchants: merchants}
}

// Locations returns every location in display order.
func (c *StaticCatalog) Locations() []domain.Location {
	out := make([]domain.Location, len(c.locations))
	for i, l := range c.locations {
		out[i] = copyLocation(l)
	}
	return out
}

// Location returns the location with the given id.
func (c *StaticCatalog) Location(id string) (domain.Location, error) {
	for _, l := range c.locations {
		if l.ID == id {
			return copyLocation(l), nil
		}
	}
	return domain.Location{}, fmt.Errorf("%w: %s", domain.ErrLocationNotFound, id)
}

// ArrivePoint returns the arrive point only if the location owns it.
func (c *StaticCatalog) ArrivePoint(locationID, arrivePointID string) (domain.ArrivePoint, error) {
	loc, err := c.Location(locationID)
	if err != nil {
		return domain.ArrivePoint{}, err
	}
	ap, ok := loc.ArrivePoint(arrivePointID)
	if !ok {
		return domain.ArrivePoint{}, fmt.Errorf("%w: %s at %s", domain.ErrArrivePointNotFound, arrivePointID, locationID)
	}
	return ap, nil
}

// Merchants returns every merchant in display order.
func (c *StaticCatalog) Merchants() []domain.Merchant {
	out := make([]domain.Merchant, len(c.merchants))
	for i, m := range c.merchants {
		out[i] = copyMerchant(m)
	}
	return out
}

// Merchant returns the merchant with the given id, open or not.
func (c *StaticCatalog) Merchant(id string) (domain.Merchant, error) {
	for _, m := range c.merchants {
		if m.ID == id {
			return copyMerchant(m), nil
		}
	}
	return domain.Merchant{}, fmt.Errorf("%w: %s", domain.ErrMerchantNotFound, id)
}

func copyLocation(l domain.Location) domain.Location {
	l.ArrivePoints = append([]domain.ArrivePoint(nil), l.ArrivePoints...)
	return l
}

func copyMerchant(m domain.Merchant) domain.Merchant {
	m.Tags = append([]string(nil), m.Tags...)
	return m
}

func defaultLocations() []domain.Location {
	return []domain.Location{
		{
			ID:       "vp-building-a",
			Name:     "Vantage Point - Building A",
			Subtitle: "North campus, rooftop landing pad",
			ArrivePoints: []domain.ArrivePoint{
				{ID: "AP-101", Label: "Lobby locker bank", Type: domain.ArrivePointShared},
				{ID: "AP-201", Label: "Floor 2 private locker", Type: domain.ArrivePointPrivate},
				{ID: "AP-301", Label: "Floor 3 break room", Type: domain.ArrivePointShared},
			},
		},
		{
			ID:       "vp-building-b",
			Name:     "Vantage Point - Building B",
			Subtitle: "South campus, courtyard pad",
			ArrivePoints: []domain.ArrivePoint{
				{ID: "AP-B1", Label: "Courtyard kiosk", Type: domain.ArrivePointShared},
				{ID: "AP-B2", Label: "Loading dock locker", Type: domain.ArrivePointPrivate},
			},
		},
	}
}

func defaultMerchants() []domain.Merchant {
	return []domain.Merchant{
		{ID: "merchant-1", Name: "Skyline Burrito Co.", Category: "Mexican", EtaMins: 18, Open: true, Tags: []string{"popular", "spicy"}},
		{ID: "merchant-2", Name: "Green Bowl", Category: "Salads", EtaMins: 14, Open: true, Tags: []string{"vegan", "healthy"}},
		{ID: "merchant-3", Name: "Night Owl Noodles", Category: "Asian", EtaMins: 22, Open: false, Tags: []string{"late-night"}},
		{ID: "merchant-4", Name: "Rotor Coffee", Category: "Cafe", EtaMins: 9, Open: true, Tags: []string{"coffee", "breakfast"}},
	}
}
