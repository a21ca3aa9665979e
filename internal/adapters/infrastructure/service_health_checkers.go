package infrastructure

import (
	"context"
	"net/http"
	"time"

	"agromonitor.app/internal/ports"
)

const checkTimeout = 2 * time.Second

// Pinger is implemented by Redis-backed adapters
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingHealthChecker reports a component healthy when its Ping succeeds
type PingHealthChecker struct {
	component string
	pinger    Pinger
}

// NewPingHealthChecker creates a checker for a pingable component
func NewPingHealthChecker(component string, pinger Pinger) *PingHealthChecker {
	return &PingHealthChecker{component: component, pinger: pinger}
}

// Check pings the component with a short timeout
func (p *PingHealthChecker) Check(ctx context.Context) ports.HealthStatus {
	status := ports.HealthStatus{Component: p.component, Status: statusHealthy}

	if p.pinger == nil {
		status.Status = statusUnhealthy
		status.Error = p.component + " is not configured"
		return status
	}

	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	if err := p.pinger.Ping(ctx); err != nil {
		status.Status = statusUnhealthy
		status.Error = err.Error()
	}
	return status
}

// HTTPServiceHealthChecker checks an HTTP dependency such as the prediction
// service. Any HTTP response counts as reachable.
type HTTPServiceHealthChecker struct {
	component string
	url       string
	client    *http.Client
}

// NewHTTPServiceHealthChecker creates a reachability checker for url
func NewHTTPServiceHealthChecker(component, url string) *HTTPServiceHealthChecker {
	return &HTTPServiceHealthChecker{
		component: component,
		url:       url,
		client:    &http.Client{Timeout: checkTimeout},
	}
}

// Check issues a GET against the service base URL
func (h *HTTPServiceHealthChecker) Check(ctx context.Context) ports.HealthStatus {
	status := ports.HealthStatus{
		Component: h.component,
		Status:    statusHealthy,
		Details:   map[string]interface{}{"url": h.url},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.url, nil)
	if err != nil {
		status.Status = statusUnhealthy
		status.Error = err.Error()
		return status
	}

	resp, err := h.client.Do(req)
	if err != nil {
		status.Status = statusUnhealthy
		status.Error = err.Error()
		return status
	}
	_ = resp.Body.Close()

	status.Details["statusCode"] = resp.StatusCode
	return status
}
