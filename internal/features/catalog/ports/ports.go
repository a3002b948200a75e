package ports

import "drone-pickup/internal/features/catalog/domain"

// Catalog is the read-only source of locations and merchants.
type Catalog interface {
	Locations() []domain.Location
	Location(id string) (domain.Location, error)
	ArrivePoint(locationID, arrivePointID string) (domain.ArrivePoint, error)
	Merchants() []domain.Merchant
	Merchant(id string) (domain.Merchant, error)
}
