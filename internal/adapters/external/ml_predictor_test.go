package external

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"agromonitor.app/internal/mocks"
	"agromonitor.app/internal/ports"
	"agromonitor.app/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sampleFeatures = ports.PredictionFeatures{
	SoilType:         "Sandy Loam",
	SoilMoisture10cm: 45.5,
	SoilMoisture20cm: 50.2,
	SoilMoisture30cm: 55.8,
	PlantAge:         3,
	Temperature:      29.1,
	Humidity:         74,
	Rainfall:         0.4,
}

func TestMLPredictorAdapter_Predict_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/irrigation/predict", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Sandy Loam", body["soilType"])
		assert.Equal(t, 45.5, body["soilMoisture10cm"])
		assert.Equal(t, 3.0, body["plantAge"])
		assert.Equal(t, 0.4, body["rainfall"])
		assert.Len(t, body, 8)

		_, _ = w.Write([]byte(`{"prediction":2,"probabilities":{"noWater":0.1,"highWater":0.05,"moderateWater":0.7,"lowWater":0.15}}`))
	}))
	defer server.Close()

	predictor := NewMLPredictorAdapter(MLPredictorParams{
		BaseURL: server.URL + "/",
		Logger:  mocks.NewNopLogger(t),
		Metrics: mocks.NewNopMetricsCollector(t),
	})

	result, err := predictor.Predict(context.Background(), sampleFeatures)

	require.NoError(t, err)
	assert.Equal(t, 2, result.PredictedClass)
	assert.Equal(t, 0.7, result.Probabilities.ModerateWater)
	assert.Equal(t, 0.15, result.Probabilities.LowWater)
	assert.Equal(t, server.URL, predictor.URL())
}

func TestMLPredictorAdapter_Predict_Failures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "BadGateway",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
			},
		},
		{
			name: "NotJSON",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte("model not loaded"))
			},
		},
		{name: "EmptyObject", handler: respondWith(`{}`)},
		{name: "ErrorBody", handler: respondWith(`{"error":"model not loaded"}`)},
		{name: "MissingProbabilities", handler: respondWith(`{"prediction":1}`)},
		{name: "MissingClass", handler: respondWith(`{"probabilities":{"noWater":0.1,"highWater":0.2,"moderateWater":0.3,"lowWater":0.4}}`)},
		{name: "PartialProbabilities", handler: respondWith(`{"prediction":1,"probabilities":{"noWater":0.5,"highWater":0.5}}`)},
		{name: "ProbabilityAboveOne", handler: respondWith(`{"prediction":1,"probabilities":{"noWater":3.5,"highWater":0.1,"moderateWater":0.1,"lowWater":0.1}}`)},
		{name: "NegativeProbability", handler: respondWith(`{"prediction":3,"probabilities":{"noWater":0.2,"highWater":-0.1,"moderateWater":0.4,"lowWater":0.5}}`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			predictor := NewMLPredictorAdapter(MLPredictorParams{BaseURL: server.URL, Logger: mocks.NewNopLogger(t)})

			result, err := predictor.Predict(context.Background(), sampleFeatures)

			assert.Nil(t, result)
			require.Error(t, err)
			assert.True(t, errors.IsExternalAPIError(err))
		})
	}
}

func TestMLPredictorAdapter_Predict_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	predictor := NewMLPredictorAdapter(MLPredictorParams{BaseURL: url})

	_, err := predictor.Predict(context.Background(), sampleFeatures)
	assert.True(t, errors.IsExternalAPIError(err))
}

func respondWith(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(body))
	}
}

func TestMLPredictorAdapter_Predict_ZeroClassIsValid(t *testing.T) {
	server := httptest.NewServer(respondWith(`{"prediction":0,"probabilities":{"noWater":0.9,"highWater":0,"moderateWater":0.05,"lowWater":0.05}}`))
	defer server.Close()

	predictor := NewMLPredictorAdapter(MLPredictorParams{BaseURL: server.URL})

	result, err := predictor.Predict(context.Background(), sampleFeatures)

	require.NoError(t, err)
	assert.Equal(t, 0, result.PredictedClass)
	assert.Equal(t, 0.9, result.Probabilities.NoWater)
}
