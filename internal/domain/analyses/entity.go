package analyses

import (
	"time"
)

// ID tipe untuk Analysis
type ScanID string

// Aggregate Root: Record
//
// HealthScore, Concerns, RecommendedPortion and NutritionPerPortion hold
// whatever shape the vision model produced. The stored form is a verbatim
// replica of the model output; normalization happens at render time only.
type Record struct {
	ScanID              ScanID         `json:"scanId"`
	Timestamp           time.Time      `json:"timestamp"`
	ProductName         string         `json:"productName"`
	ExpiryDate          string         `json:"expiryDate"`
	HealthScore         any            `json:"healthScore"`
	Concerns            any            `json:"concerns"`
	RecommendedPortion  any            `json:"recommendedPortion,omitempty"`
	NutritionPerPortion map[string]any `json:"nutritionPerPortion,omitempty"`
}
