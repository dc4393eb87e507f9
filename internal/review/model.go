package review

import (
	"encoding/json"
	"time"
)

// Analysis is the post-call analysis attached to a review. Every field is
// optional; the stored payload keeps any extra keys the voice service sends.
type Analysis struct {
	OverallRating        *float64 `json:"overall_rating,omitempty"`
	ProductQualityRating *float64 `json:"product_quality_rating,omitempty"`
	FreshnessRating      *float64 `json:"freshness_rating,omitempty"`
	TasteNotes           *string  `json:"taste_notes,omitempty"`
	WouldRecommend       *bool    `json:"would_recommend,omitempty"`
	WouldRepurchase      *bool    `json:"would_repurchase,omitempty"`
	IssuesReported       *string  `json:"issues_reported,omitempty"`
	Suggestions          *string  `json:"suggestions,omitempty"`
}

type Review struct {
	ID           int64           `json:"id"`
	OrderID      int64           `json:"order_id"`
	ProductID    int64           `json:"product_id"`
	CallID       string          `json:"call_id"`
	Transcript   *string         `json:"transcript"`
	Summary      *string         `json:"summary"`
	AnalysisData json.RawMessage `json:"analysis_data,omitempty" swaggertype:"object"`
	CreatedAt    time.Time       `json:"created_at"`
}

// Analysis decodes AnalysisData. It returns nil when no analysis is attached
// or the payload does not match the known field types.
func (r *Review) Analysis() *Analysis {
	if len(r.AnalysisData) == 0 || string(r.AnalysisData) == "null" {
		return nil
	}
	var a Analysis
	if err := json.Unmarshal(r.AnalysisData, &a); err != nil {
		return nil
	}
	return &a
}

// Rating returns overall_rating when it is present and non-zero.
func (r *Review) Rating() (float64, bool) {
	if len(r.AnalysisData) == 0 {
		return 0, false
	}
	var v struct {
		OverallRating any `json:"overall_rating"`
	}
	if err := json.Unmarshal(r.AnalysisData, &v); err != nil {
		return 0, false
	}
	f, ok := v.OverallRating.(float64)
	if !ok || f == 0 {
		return 0, false
	}
	return f, true
}

// WithDetails is a review joined with its order and product.
type WithDetails struct {
	Review
	CustomerName    string `json:"customer_name"`
	ProductName     string `json:"product_name,omitempty"`
	ProductCategory string `json:"product_category,omitempty"`
}
