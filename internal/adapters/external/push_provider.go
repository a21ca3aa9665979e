package external

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"agromonitor.app/internal/ports"
	"agromonitor.app/pkg/errors"
)

const pushGatewayService = "push_gateway"

// PushGatewayAdapter implements PushProvider against an FCM-compatible HTTP gateway
type PushGatewayAdapter struct {
	url       string
	serverKey string
	timeout   time.Duration
	client    HTTPClient
	logger    ports.Logger
	observer  callObserver
}

// PushGatewayParams holds parameters for creating the push gateway adapter
type PushGatewayParams struct {
	URL       string
	ServerKey string
	Timeout   time.Duration
	Client    HTTPClient
	Logger    ports.Logger
	Metrics   ports.MetricsCollector
}

type pushRequest struct {
	RegistrationIDs []string          `json:"registration_ids"`
	Notification    pushNotification  `json:"notification"`
	Data            map[string]string `json:"data,omitempty"`
}

type pushNotification struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

type pushResponse struct {
	Success int `json:"success"`
	Failure int `json:"failure"`
}

// NewPushGatewayAdapter creates a new push gateway adapter
func NewPushGatewayAdapter(params PushGatewayParams) *PushGatewayAdapter {
	client := params.Client
	if client == nil {
		client = NewHTTPClient(params.Timeout)
	}

	return &PushGatewayAdapter{
		url:       params.URL,
		serverKey: params.ServerKey,
		timeout:   params.Timeout,
		client:    client,
		logger:    params.Logger,
		observer:  callObserver{service: pushGatewayService, metrics: params.Metrics},
	}
}

// Send delivers one multicast message. An empty token list is a no-op.
func (p *PushGatewayAdapter) Send(ctx context.Context, msg ports.PushMessage) (result ports.PushResult, err error) {
	if len(msg.Tokens) == 0 {
		return ports.PushResult{}, nil
	}

	start := time.Now()
	defer func() { p.observer.observe(start, err) }()

	payload, err := json.Marshal(pushRequest{
		RegistrationIDs: msg.Tokens,
		Notification:    pushNotification{Title: msg.Title, Body: msg.Body},
		Data:            msg.Data,
	})
	if err != nil {
		return ports.PushResult{}, errors.NewNotificationError("failed to encode push message", err)
	}

	ctx, cancel := withTimeout(ctx, p.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(payload))
	if err != nil {
		return ports.PushResult{}, errors.NewNotificationError("failed to build push request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if p.serverKey != "" {
		req.Header.Set("Authorization", "key="+p.serverKey)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return ports.PushResult{}, errors.NewNotificationError("failed to call push gateway", err)
	}
	defer closeBody(resp, p.logger, pushGatewayService)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return ports.PushResult{}, errors.NewNotificationError(fmt.Sprintf("push gateway returned status %d", resp.StatusCode), nil)
	}

	var body pushResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return ports.PushResult{}, errors.NewNotificationError("failed to decode push gateway response", err)
	}

	if body.Failure > 0 && p.logger != nil {
		p.logger.Warn("Push delivered partially",
			ports.F("success", body.Success),
			ports.F("failure", body.Failure))
	}

	return ports.PushResult{SuccessCount: body.Success, FailureCount: body.Failure}, nil
}

// GetProviderName returns the name of this push provider
func (p *PushGatewayAdapter) GetProviderName() string {
	return pushGatewayService
}
