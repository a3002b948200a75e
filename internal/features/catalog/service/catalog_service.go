package service

import (
	"strings"

	"drone-pickup/internal/features/catalog/domain"
	"drone-pickup/internal/features/catalog/ports"
)

// MerchantFilter narrows a merchant listing. Zero values match everything.
type MerchantFilter struct {
	Category string
	Tag      string
	OpenOnly bool
}

// CatalogService answers browsing queries over the catalog.
type CatalogService struct {
	catalog ports.Catalog
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(catalog ports.Catalog) *CatalogService {
	return &CatalogService{catalog: catalog}
}

// ListLocations returns every location.
func (s *CatalogService) ListLocations() []domain.Location {
	return s.catalog.Locations()
}

// GetLocation returns one location with its arrive points.
func (s *CatalogService) GetLocation(id string) (domain.Location, error) {
	return s.catalog.Location(id)
}

// ListMerchants returns the merchants matching the filter, in catalog order.
func (s *CatalogService) ListMerchants(f MerchantFilter) []domain.Merchant {
	all := s.catalog.Merchants()
	out := make([]domain.Merchant, 0, len(all))
	for _, m := range all {
		if f.OpenOnly && !m.Open {
			continue
		}
		if f.Category != "" && !strings.EqualFold(m.Category, f.Category) {
			continue
		}
		if f.Tag != "" && !m.HasTag(f.Tag) {
			continue
		}
		out = append(out, m)
	}
	return out
}
