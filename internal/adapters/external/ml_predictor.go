package external

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	"agromonitor.app/internal/ports"
	"agromonitor.app/pkg/errors"
)

const mlPredictorService = "ml_predictor"

// MLPredictorAdapter implements IrrigationPredictor against the irrigation model HTTP service
type MLPredictorAdapter struct {
	baseURL  string
	timeout  time.Duration
	client   HTTPClient
	logger   ports.Logger
	observer callObserver
}

// MLPredictorParams holds parameters for creating the ML predictor adapter
type MLPredictorParams struct {
	BaseURL string
	Timeout time.Duration
	Client  HTTPClient
	Logger  ports.Logger
	Metrics ports.MetricsCollector
}

// predictionResponse mirrors the model output with every field optional so
// absent values can be told apart from zeros
type predictionResponse struct {
	Prediction    *int `json:"prediction"`
	Probabilities *struct {
		NoWater       *float64 `json:"noWater"`
		HighWater     *float64 `json:"highWater"`
		ModerateWater *float64 `json:"moderateWater"`
		LowWater      *float64 `json:"lowWater"`
	} `json:"probabilities"`
}

func (r predictionResponse) toResult() (*ports.PredictionResult, error) {
	if r.Prediction == nil {
		return nil, fmt.Errorf("response has no prediction class")
	}
	if r.Probabilities == nil {
		return nil, fmt.Errorf("response has no probabilities")
	}

	probabilities := map[string]*float64{
		"noWater":       r.Probabilities.NoWater,
		"highWater":     r.Probabilities.HighWater,
		"moderateWater": r.Probabilities.ModerateWater,
		"lowWater":      r.Probabilities.LowWater,
	}
	for name, value := range probabilities {
		if value == nil {
			return nil, fmt.Errorf("probability %s is missing", name)
		}
		if math.IsNaN(*value) || *value < 0 || *value > 1 {
			return nil, fmt.Errorf("probability %s=%v is outside [0,1]", name, *value)
		}
	}

	return &ports.PredictionResult{
		PredictedClass: *r.Prediction,
		Probabilities: ports.ClassProbabilities{
			NoWater:       *r.Probabilities.NoWater,
			HighWater:     *r.Probabilities.HighWater,
			ModerateWater: *r.Probabilities.ModerateWater,
			LowWater:      *r.Probabilities.LowWater,
		},
	}, nil
}

// NewMLPredictorAdapter creates a new ML predictor adapter
func NewMLPredictorAdapter(params MLPredictorParams) *MLPredictorAdapter {
	client := params.Client
	if client == nil {
		client = NewHTTPClient(params.Timeout)
	}

	return &MLPredictorAdapter{
		baseURL:  strings.TrimRight(params.BaseURL, "/"),
		timeout:  params.Timeout,
		client:   client,
		logger:   params.Logger,
		observer: callObserver{service: mlPredictorService, metrics: params.Metrics},
	}
}

// Predict posts the feature vector and returns the predicted class with its probabilities
func (p *MLPredictorAdapter) Predict(ctx context.Context, features ports.PredictionFeatures) (result *ports.PredictionResult, err error) {
	start := time.Now()
	defer func() { p.observer.observe(start, err) }()

	payload, err := json.Marshal(features)
	if err != nil {
		return nil, errors.NewExternalAPIError("failed to encode prediction features", err)
	}

	ctx, cancel := withTimeout(ctx, p.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/api/irrigation/predict", bytes.NewReader(payload))
	if err != nil {
		return nil, errors.NewExternalAPIError("failed to build prediction request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, errors.NewExternalAPIError("failed to call prediction service", err)
	}
	defer closeBody(resp, p.logger, mlPredictorService)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.NewExternalAPIError(fmt.Sprintf("prediction service returned status %d", resp.StatusCode), nil)
	}

	var body predictionResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, errors.NewExternalAPIError("prediction failed", err)
	}

	prediction, err := body.toResult()
	if err != nil {
		return nil, errors.NewExternalAPIError("prediction failed", err)
	}
	return prediction, nil
}

// URL returns the base address of the prediction service
func (p *MLPredictorAdapter) URL() string {
	return p.baseURL
}
