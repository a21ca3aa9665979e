package external

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"agromonitor.app/internal/ports"
	"agromonitor.app/pkg/errors"
)

const openWeatherMapService = "openweathermap"

// OpenWeatherMapProviderAdapter implements WeatherProvider port for OpenWeatherMap
type OpenWeatherMapProviderAdapter struct {
	apiKey   string
	baseURL  string
	timeout  time.Duration
	client   HTTPClient
	logger   ports.Logger
	observer callObserver
}

// OpenWeatherMapProviderParams holds parameters for creating OpenWeatherMap provider
type OpenWeatherMapProviderParams struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
	Client  HTTPClient
	Logger  ports.Logger
	Metrics ports.MetricsCollector
}

// OpenWeatherMapResponse represents the response from OpenWeatherMap API
type OpenWeatherMapResponse struct {
	Main *struct {
		Temp     *float64 `json:"temp"`
		Humidity *float64 `json:"humidity"`
	} `json:"main"`
	Rain map[string]float64 `json:"rain"`
	Dt   int64              `json:"dt"`
}

// NewOpenWeatherMapProviderAdapter creates a new OpenWeatherMap provider adapter
func NewOpenWeatherMapProviderAdapter(params OpenWeatherMapProviderParams) ports.WeatherProvider {
	baseURL := params.BaseURL
	if baseURL == "" {
		baseURL = "https://api.openweathermap.org/data/2.5"
	}

	client := params.Client
	if client == nil {
		client = NewHTTPClient(params.Timeout)
	}

	return &OpenWeatherMapProviderAdapter{
		apiKey:   params.APIKey,
		baseURL:  baseURL,
		timeout:  params.Timeout,
		client:   client,
		logger:   params.Logger,
		observer: callObserver{service: openWeatherMapService, metrics: params.Metrics},
	}
}

// GetCurrentWeather retrieves current conditions at coords. Rainfall is the
// last hour's volume and 0 when the response carries none.
func (p *OpenWeatherMapProviderAdapter) GetCurrentWeather(ctx context.Context, coords ports.Coordinates) (weather *ports.WeatherData, err error) {
	start := time.Now()
	defer func() { p.observer.observe(start, err) }()

	ctx, cancel := withTimeout(ctx, p.timeout)
	defer cancel()

	query := url.Values{}
	query.Set("lat", strconv.FormatFloat(coords.Latitude, 'f', -1, 64))
	query.Set("lon", strconv.FormatFloat(coords.Longitude, 'f', -1, 64))
	query.Set("appid", p.apiKey)
	query.Set("units", "metric")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/weather?"+query.Encode(), nil)
	if err != nil {
		return nil, errors.NewExternalAPIError("failed to build OpenWeatherMap request", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, errors.NewExternalAPIError("failed to call OpenWeatherMap", err)
	}
	defer closeBody(resp, p.logger, openWeatherMapService)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.NewExternalAPIError(fmt.Sprintf("OpenWeatherMap returned status %d", resp.StatusCode), nil)
	}

	var apiResp OpenWeatherMapResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, errors.NewExternalAPIError("failed to decode OpenWeatherMap response", err)
	}
	if apiResp.Main == nil || apiResp.Main.Temp == nil || apiResp.Main.Humidity == nil {
		return nil, errors.NewExternalAPIError("OpenWeatherMap response has no temperature or humidity", nil)
	}

	timestamp := time.Now()
	if apiResp.Dt > 0 {
		timestamp = time.Unix(apiResp.Dt, 0)
	}

	return &ports.WeatherData{
		Temperature: *apiResp.Main.Temp,
		Humidity:    *apiResp.Main.Humidity,
		Rainfall:    apiResp.Rain["1h"],
		Timestamp:   timestamp,
	}, nil
}

// GetProviderName returns the name of this weather provider
func (p *OpenWeatherMapProviderAdapter) GetProviderName() string {
	return openWeatherMapService
}
