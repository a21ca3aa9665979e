package ports

import "context"

// PredictionFeatures is the input vector of the irrigation model
type PredictionFeatures struct {
	SoilType         string  `json:"soilType"`
	SoilMoisture10cm float64 `json:"soilMoisture10cm"`
	SoilMoisture20cm float64 `json:"soilMoisture20cm"`
	SoilMoisture30cm float64 `json:"soilMoisture30cm"`
	PlantAge         int     `json:"plantAge"`
	Temperature      float64 `json:"temperature"`
	Humidity         float64 `json:"humidity"`
	Rainfall         float64 `json:"rainfall"`
}

// ClassProbabilities holds one probability per watering-need class
type ClassProbabilities struct {
	NoWater       float64 `json:"noWater"`
	HighWater     float64 `json:"highWater"`
	ModerateWater float64 `json:"moderateWater"`
	LowWater      float64 `json:"lowWater"`
}

// PredictionResult is the model output
type PredictionResult struct {
	PredictedClass int                `json:"prediction"`
	Probabilities  ClassProbabilities `json:"probabilities"`
}

// IrrigationPredictor defines the contract for the irrigation-need model
type IrrigationPredictor interface {
	Predict(ctx context.Context, features PredictionFeatures) (*PredictionResult, error)
}
