package handler

import (
	"errors"
	"net/http"

	"drone-pickup/internal/features/catalog/domain"
	"drone-pickup/internal/features/catalog/service"

	"github.com/gofiber/fiber/v2"
)

// CatalogHandler serves the read-only location and merchant listings.
type CatalogHandler struct {
	service *service.CatalogService
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(s *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{service: s}
}

// ErrorResponse represents the structure of an error response.
type ErrorResponse struct {
	// Message is the error description.
	Message string `json:"message"`
	// RayID is the unique request identifier for debugging.
	RayID string `json:"ray_id,omitempty"`
}

// Register mounts the catalog routes.
func (h *CatalogHandler) Register(r fiber.Router) {
	r.Get("/locations", h.ListLocations)
	r.Get("/locations/:id", h.GetLocation)
	r.Get("/merchants", h.ListMerchants)
}

// ListLocations godoc
// @Summary List delivery locations
// @Tags catalog
// @Produce json
// @Success 200 {array} domain.Location
// @Router /locations [get]
func (h *CatalogHandler) ListLocations(c *fiber.Ctx) error {
	return c.JSON(h.service.ListLocations())
}

// GetLocation godoc
// @Summary Get a location and its arrive points
// @Tags catalog
// @Produce json
// @Param id path string true "Location ID"
// @Success 200 {object} domain.Location
// @Failure 404 {object} ErrorResponse
// @Router /locations/{id} [get]
func (h *CatalogHandler) GetLocation(c *fiber.Ctx) error {
	loc, err := h.service.GetLocation(c.Params("id"))
	if err != nil {
		rayID, _ := c.Locals("requestid").(string)
		status := http.StatusInternalServerError
		if errors.Is(err, domain.ErrLocationNotFound) {
			status = http.StatusNotFound
		}
		return c.Status(status).JSON(ErrorResponse{Message: err.Error(), RayID: rayID})
	}
	return c.JSON(loc)
}

// ListMerchants godoc
// @Summary List merchants
// @Description Closed merchants are listed with open=false so clients can render them disabled.
// @Tags catalog
// @Produce json
// @Param category query string false "Category filter"
// @Param tag query string false "Tag filter"
// @Param open query bool false "Only open merchants"
// @Success 200 {array} domain.Merchant
// @Router /merchants [get]
func (h *CatalogHandler) ListMerchants(c *fiber.Ctx) error {
	return c.JSON(h.service.ListMerchants(service.MerchantFilter{
		Category: c.Query("category"),
		Tag:      c.Query("tag"),
		OpenOnly: c.QueryBool("open", false),
	}))
}
