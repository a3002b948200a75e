package handler

import (
	"context"
	"errors"
	"net/http"

	"drone-pickup/internal/core/logger"
	catalogdomain "drone-pickup/internal/features/catalog/domain"
	"drone-pickup/internal/features/session/domain"
	"drone-pickup/internal/features/session/ports"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// SessionHandler handles HTTP requests driving the session navigator.
type SessionHandler struct {
	service ports.SessionService
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(service ports.SessionService) *SessionHandler {
	return &SessionHandler{service: service}
}

// ErrorResponse represents the structure of an error response.
type ErrorResponse struct {
	// Message is the error description.
	Message string `json:"message"`
	// RayID is the unique request identifier for debugging.
	RayID string `json:"ray_id,omitempty"`
}

// SessionView is a session snapshot plus the screens a client may offer.
type SessionView struct {
	domain.Session
	Reachable []domain.Screen `json:"reachable"`
}

// CheckoutView is the checkout answer.
type CheckoutView struct {
	SessionView
	OrderingURL string `json:"ordering_url"`
}

// ScreenRequest asks to navigate to a screen.
type ScreenRequest struct {
	Screen string `json:"screen"`
}

// SendCodeRequest starts phone verification.
type SendCodeRequest struct {
	Phone string `json:"phone"`
}

// VerifyCodeRequest completes phone verification.
type VerifyCodeRequest struct {
	Phone string `json:"phone"`
	Code  string `json:"code"`
}

// DestinationRequest edits the destination; Confirm moves on to the merchant list.
type DestinationRequest struct {
	LocationID    string `json:"location_id"`
	ArrivePointID string `json:"arrive_point_id"`
	Confirm       bool   `json:"confirm"`
}

// MerchantRequest selects a merchant.
type MerchantRequest struct {
	MerchantID string `json:"merchant_id"`
}

// Register mounts the session routes.
func (h *SessionHandler) Register(r fiber.Router) {
	g := r.Group("/sessions")
	g.Post("/", h.Create)
	g.Get("/:id", h.Get)
	g.Delete("/:id", h.Teardown)
	g.Post("/:id/screen", h.SetScreen)
	g.Post("/:id/auth/send", h.SendCode)
	g.Post("/:id/auth/verify", h.VerifyCode)
	g.Post("/:id/auth/signout", h.SignOut)
	g.Put("/:id/destination", h.UpdateDestination)
	g.Post("/:id/merchant", h.SelectMerchant)
	g.Post("/:id/checkout", h.Checkout)
	g.Post("/:id/unlock", h.Unlock)
	g.Post("/:id/done", h.Done)
}

func view(s domain.Session) SessionView {
	return SessionView{Session: s, Reachable: domain.Reachable(s)}
}

func rayID(c *fiber.Ctx) string {
	if id, ok := c.Locals("requestid").(string); ok {
		return id
	}
	return "unknown"
}

// statusFor maps service errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound),
		errors.Is(err, catalogdomain.ErrLocationNotFound),
		errors.Is(err, catalogdomain.ErrArrivePointNotFound),
		errors.Is(err, catalogdomain.ErrMerchantNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrUnknownScreen),
		errors.Is(err, domain.ErrInvalidPhone):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidCode),
		errors.Is(err, domain.ErrNotAuthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrTooManyAttempts):
		return http.StatusTooManyRequests
	case errors.Is(err, domain.ErrMerchantClosed),
		errors.Is(err, domain.ErrNoMerchantSelected),
		errors.Is(err, domain.ErrNoOrder),
		errors.Is(err, domain.ErrOrderNotDelivered),
		errors.Is(err, domain.ErrDestinationIncomplete),
		errors.Is(err, domain.ErrCodeNotSent):
		return http.StatusConflict
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusRequestTimeout
	default:
		return http.StatusInternalServerError
	}
}

func (h *SessionHandler) fail(c *fiber.Ctx, err error) error {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		logger.Get().Error("Session request failed",
			zap.String("session_id", c.Params("id")),
			zap.String("ray_id", rayID(c)),
			zap.Error(err),
		)
		msg = "Internal Server Error"
	}
	return c.Status(status).JSON(ErrorResponse{Message: msg, RayID: rayID(c)})
}

func (h *SessionHandler) badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(http.StatusBadRequest).JSON(ErrorResponse{Message: msg, RayID: rayID(c)})
}

func (h *SessionHandler) respond(c *fiber.Ctx, s domain.Session, err error) error {
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(http.StatusOK).JSON(view(s))
}

// Create godoc
// @Summary Start a session
// @Description Starts on LANDING. The optional location deep link preselects a location.
// @Tags sessions
// @Produce json
// @Param location query string false "Initial location ID"
// @Success 201 {object} SessionView
// @Router /sessions [post]
func (h *SessionHandler) Create(c *fiber.Ctx) error {
	s, err := h.service.Create(c.UserContext(), c.Query("location"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(http.StatusCreated).JSON(view(s))
}

// Get godoc
// @Summary Get a session
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} SessionView
// @Failure 404 {object} ErrorResponse
// @Router /sessions/{id} [get]
func (h *SessionHandler) Get(c *fiber.Ctx) error {
	s, err := h.service.Get(c.UserContext(), c.Params("id"))
	return h.respond(c, s, err)
}

// Teardown godoc
// @Summary End a session
// @Description Cancels the order progression and deletes the session.
// @Tags sessions
// @Param id path string true "Session ID"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Router /sessions/{id} [delete]
func (h *SessionHandler) Teardown(c *fiber.Ctx) error {
	if err := h.service.Teardown(c.UserContext(), c.Params("id")); err != nil {
		return h.fail(c, err)
	}
	return c.SendStatus(http.StatusNoContent)
}

// SetScreen godoc
// @Summary Navigate to a screen
// @Description Blocked targets keep the current screen; guards may redirect.
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param body body ScreenRequest true "Target screen"
// @Success 200 {object} SessionView
// @Failure 400 {object} ErrorResponse
// @Router /sessions/{id}/screen [post]
func (h *SessionHandler) SetScreen(c *fiber.Ctx) error {
	var req ScreenRequest
	if err := c.BodyParser(&req); err != nil {
		return h.badRequest(c, "Invalid request body")
	}
	target, err := domain.ParseScreen(req.Screen)
	if err != nil {
		return h.fail(c, err)
	}
	s, err := h.service.SetScreen(c.UserContext(), c.Params("id"), target)
	return h.respond(c, s, err)
}

// SendCode godoc
// @Summary Send a verification code
// @Tags auth
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param body body SendCodeRequest true "Phone"
// @Success 200 {object} ports.SendCodeResult
// @Failure 400 {object} ErrorResponse
// @Router /sessions/{id}/auth/send [post]
func (h *SessionHandler) SendCode(c *fiber.Ctx) error {
	var req SendCodeRequest
	if err := c.BodyParser(&req); err != nil {
		return h.badRequest(c, "Invalid request body")
	}
	res, err := h.service.SendCode(c.UserContext(), c.Params("id"), req.Phone)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(http.StatusOK).JSON(res)
}

// VerifyCode godoc
// @Summary Verify the code and sign in
// @Tags auth
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param body body VerifyCodeRequest true "Phone and code"
// @Success 200 {object} SessionView
// @Failure 401 {object} ErrorResponse
// @Failure 429 {object} ErrorResponse
// @Router /sessions/{id}/auth/verify [post]
func (h *SessionHandler) VerifyCode(c *fiber.Ctx) error {
	var req VerifyCodeRequest
	if err := c.BodyParser(&req); err != nil {
		return h.badRequest(c, "Invalid request body")
	}
	s, err := h.service.VerifyCode(c.UserContext(), c.Params("id"), req.Phone, req.Code)
	return h.respond(c, s, err)
}

// SignOut godoc
// @Summary Sign out
// @Tags auth
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} SessionView
// @Router /sessions/{id}/auth/signout [post]
func (h *SessionHandler) SignOut(c *fiber.Ctx) error {
	s, err := h.service.SignOut(c.UserContext(), c.Params("id"))
	return h.respond(c, s, err)
}

// UpdateDestination godoc
// @Summary Set the destination
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param body body DestinationRequest true "Destination"
// @Success 200 {object} SessionView
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /sessions/{id}/destination [put]
func (h *SessionHandler) UpdateDestination(c *fiber.Ctx) error {
	var req DestinationRequest
	if err := c.BodyParser(&req); err != nil {
		return h.badRequest(c, "Invalid request body")
	}
	s, err := h.service.UpdateDestination(c.UserContext(), c.Params("id"), req.LocationID, req.ArrivePointID, req.Confirm)
	return h.respond(c, s, err)
}

// SelectMerchant godoc
// @Summary Select a merchant
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param body body MerchantRequest true "Merchant"
// @Success 200 {object} SessionView
// @Failure 409 {object} ErrorResponse
// @Router /sessions/{id}/merchant [post]
func (h *SessionHandler) SelectMerchant(c *fiber.Ctx) error {
	var req MerchantRequest
	if err := c.BodyParser(&req); err != nil {
		return h.badRequest(c, "Invalid request body")
	}
	if req.MerchantID == "" {
		return h.badRequest(c, "merchant_id is required")
	}
	s, err := h.service.SelectMerchant(c.UserContext(), c.Params("id"), req.MerchantID)
	return h.respond(c, s, err)
}

// Checkout godoc
// @Summary Place the order
// @Description Starts the mock order progression and returns the third-party ordering link.
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} CheckoutView
// @Failure 409 {object} ErrorResponse
// @Router /sessions/{id}/checkout [post]
func (h *SessionHandler) Checkout(c *fiber.Ctx) error {
	res, err := h.service.Checkout(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(http.StatusOK).JSON(CheckoutView{
		SessionView: view(res.Session),
		OrderingURL: res.OrderingURL,
	})
}

// Unlock godoc
// @Summary Unlock the pickup point
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} SessionView
// @Failure 409 {object} ErrorResponse
// @Router /sessions/{id}/unlock [post]
func (h *SessionHandler) Unlock(c *fiber.Ctx) error {
	s, err := h.service.Unlock(c.UserContext(), c.Params("id"))
	return h.respond(c, s, err)
}

// Done godoc
// @Summary Leave the unlock screen
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} SessionView
// @Router /sessions/{id}/done [post]
func (h *SessionHandler) Done(c *fiber.Ctx) error {
	s, err := h.service.Done(c.UserContext(), c.Params("id"))
	return h.respond(c, s, err)
}
