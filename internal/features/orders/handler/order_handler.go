package handler

import (
	"errors"
	"net/http"

	"drone-pickup/internal/core/logger"
	"drone-pickup/internal/features/orders/service"
	sessiondomain "drone-pickup/internal/features/session/domain"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// OrderHandler handles HTTP requests related to orders.
type OrderHandler struct {
	// service is the OrderService instance.
	service *service.OrderService
}

// NewOrderHandler creates a new instance of OrderHandler.
func NewOrderHandler(s *service.OrderService) *OrderHandler {
	return &OrderHandler{
		service: s,
	}
}

// Register mounts the order routes.
func (h *OrderHandler) Register(r fiber.Router) {
	r.Get("/orders/:id", h.GetOrder)
}

// GetOrder handles the request to track an order.
// @Summary Track an order
// @Description Fetch the tracking view of an order using Order ID and the owning Session ID.
// @Tags orders
// @Produce json
// @Param id path string true "Order ID"
// @Param session query string true "Session ID"
// @Success 200 {object} service.Tracking
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /orders/{id} [get]
func (h *OrderHandler) GetOrder(c *fiber.Ctx) error {
	orderID := c.Params("id")
	sessionID := c.Query("session")

	rayID, ok := c.Locals("requestid").(string)
	if !ok {
		rayID = "unknown"
	}

	if sessionID == "" {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Message: "Session ID is required",
			RayID:   rayID,
		})
	}

	tracking, err := h.service.GetOrder(c.UserContext(), orderID, sessionID)
	if err != nil {
		status := http.StatusInternalServerError
		msg := "Internal Server Error"

		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			status = http.StatusNotFound
			msg = "Order not found"
		case errors.Is(err, sessiondomain.ErrSessionNotFound):
			status = http.StatusNotFound
			msg = "Session not found"
		default:
			logger.Get().Error("Failed to fetch order",
				zap.String("order_id", orderID),
				zap.String("ray_id", rayID),
				zap.Error(err),
			)
		}

		return c.Status(status).JSON(ErrorResponse{
			Message: msg,
			RayID:   rayID,
		})
	}

	return c.Status(http.StatusOK).JSON(tracking)
}

// ErrorResponse represents the structure of an error response.
type ErrorResponse struct {
	// Message is the error description.
	Message string `json:"message"`
	// RayID is the unique request identifier for debugging.
	RayID string `json:"ray_id"`
}
