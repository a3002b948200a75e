package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"drone-pickup/internal/core/httpclient"
	orders "drone-pickup/internal/features/orders/domain"
	"drone-pickup/internal/features/session/domain"
)

// CheckoutEvent is the body posted to the checkout webhook.
type CheckoutEvent struct {
	SessionID     string        `json:"session_id"`
	LocationID    string        `json:"location_id"`
	ArrivePointID string        `json:"arrive_point_id"`
	Order         *orders.Order `json:"order"`
	SentAt        time.Time     `json:"sent_at"`
}

// WebhookNotifier posts placed orders to an external URL.
type WebhookNotifier struct {
	url    string
	client *http.Client
}

// NewWebhookNotifier creates a notifier using the logging HTTP client.
func NewWebhookNotifier(url string, timeout time.Duration) *WebhookNotifier {
	return &WebhookNotifier{
		url:    url,
		client: httpclient.NewClient(timeout),
	}
}

// NotifyCheckout posts the event and treats any non-2xx answer as an error.
func (n *WebhookNotifier) NotifyCheckout(ctx context.Context, session domain.Session, order *orders.Order) error {
	body, err := json.Marshal(CheckoutEvent{
		SessionID:     session.ID,
		LocationID:    session.LocationID,
		ArrivePointID: session.ArrivePointID,
		Order:         order,
		SentAt:        time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal checkout event: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}
