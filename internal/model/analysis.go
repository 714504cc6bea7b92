package model

import "time"

// SentimentGroup partitions reviews by star rating.
type SentimentGroup string

const (
	GroupPositive SentimentGroup = "positive_5"
	GroupNeutral  SentimentGroup = "neutral_4_3"
	GroupNegative SentimentGroup = "negative_2_1"
)

// Ratings returns the star-rating strings that belong to the group.
func (g SentimentGroup) Ratings() []string {
	switch g {
	case GroupPositive:
		return []string{"5"}
	case GroupNeutral:
		return []string{"4", "3"}
	case GroupNegative:
		return []string{"2", "1"}
	}
	return nil
}

// AllGroups lists the sentiment groups in analysis order.
func AllGroups() []SentimentGroup {
	return []SentimentGroup{GroupPositive, GroupNeutral, GroupNegative}
}

// GroupAnalysis is the aggregated advantages/disadvantages for one
// sentiment group of a product's reviews.
type GroupAnalysis struct {
	ProductID     string         `json:"product_id"`
	Group         SentimentGroup `json:"sentiment_group"`
	Advantages    []string       `json:"advantages"`
	Disadvantages []string       `json:"disadvantages"`
	ReviewCount   int            `json:"review_count"`
	AnalyzedAt    time.Time      `json:"analyzed_at"`
}

// Severity grades how strongly a marketing claim conflicts with reviews.
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

// Contradiction is a detected conflict between a marketing claim and
// what reviews report.
type Contradiction struct {
	Claim    string   `json:"claim"`
	Reality  string   `json:"reality"`
	Severity Severity `json:"severity"`
}

// Evaluation is the trust score for one product.
type Evaluation struct {
	ProductID            string          `json:"product_id"`
	WeightedScore        float64         `json:"weighted_score"`
	ContradictionPenalty float64         `json:"contradiction_penalties"`
	FinalScore           float64         `json:"final_score"`
	Grade                string          `json:"grade"`
	Contradictions       []Contradiction `json:"contradictions"`
	Details              map[string]any  `json:"evaluation_details,omitempty"`
	EvaluatedAt          time.Time       `json:"evaluated_at"`
}

// ClaimsAnalysis is the claims-vs-reality cross-check of marketing copy
// against review findings. TrustLevel is the analyst's verdict; it falls
// back to neutral when the response did not parse.
type ClaimsAnalysis struct {
	ProductID         string    `json:"product_id"`
	Contradictions    []string  `json:"contradictions"`
	ConsistencyPoints []string  `json:"consistency_points"`
	OverallAssessment string    `json:"overall_assessment"`
	TrustLevel        string    `json:"trust_level"`
	RawResponse       string    `json:"raw_response,omitempty"`
	AnalyzedAt        time.Time `json:"analyzed_at"`
}

// TrustLevelNeutral is the fallback verdict when the claims analysis
// response could not be parsed.
const TrustLevelNeutral = "보통"
