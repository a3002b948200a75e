package httpclient

import (
	"net/http"
	"time"

	"drone-pickup/internal/core/logger"

	"go.uber.org/zap"
)

// UserAgent is sent on every outbound request that does not set its own.
const UserAgent = "drone-pickup/1.0"

// LoggingRoundTripper logs outbound requests and stamps the user agent.
type LoggingRoundTripper struct {
	// Proxied is the underlying RoundTripper to execute the request.
	Proxied http.RoundTripper
}

// RoundTrip executes the request and logs details.
func (lrt *LoggingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") == "" {
		req = req.Clone(req.Context())
		req.Header.Set("User-Agent", UserAgent)
	}

	start := time.Now()
	log := logger.Get().With(
		zap.String("method", req.Method),
		zap.String("url", req.URL.Redacted()),
	)

	log.Debug("Outbound request started")

	resp, err := lrt.Proxied.RoundTrip(req)
	duration := time.Since(start)

	if err != nil {
		log.Warn("Outbound request failed", zap.Duration("duration", duration), zap.Error(err))
		return nil, err
	}

	log.Debug("Outbound request completed",
		zap.Int("status_code", resp.StatusCode),
		zap.Duration("duration", duration),
	)

	return resp, nil
}

// NewClient returns an http.Client with logging middleware.
func NewClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Transport: &LoggingRoundTripper{
			Proxied: http.DefaultTransport,
		},
		Timeout: timeout,
	}
}
