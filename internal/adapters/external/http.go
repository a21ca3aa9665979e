// Package external provides adapters for external services: the weather API,
// the irrigation model, device telemetry, push delivery and caches.
package external

import (
	"context"
	"net/http"
	"time"

	"agromonitor.app/internal/ports"
)

const defaultCallTimeout = 5 * time.Second

// HTTPClient interface for HTTP requests (for testing)
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// NewHTTPClient returns a client whose every request is bounded by timeout
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = defaultCallTimeout
	}
	return &http.Client{Timeout: timeout}
}

// callObserver times an outbound call and reports it to the metrics collector
type callObserver struct {
	service string
	metrics ports.MetricsCollector
}

func (o callObserver) observe(start time.Time, err error) {
	if o.metrics == nil {
		return
	}
	o.metrics.RecordExternalCall(o.service, err == nil, time.Since(start))
}

func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		timeout = defaultCallTimeout
	}
	return context.WithTimeout(ctx, timeout)
}

func closeBody(resp *http.Response, logger ports.Logger, service string) {
	if closeErr := resp.Body.Close(); closeErr != nil && logger != nil {
		logger.Warn("Failed to close response body",
			ports.F("service", service),
			ports.F("error", closeErr))
	}
}
