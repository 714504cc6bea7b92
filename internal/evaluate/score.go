// Package evaluate computes the trust score: a negativity-weighted
// rating average on a 100-point scale, reduced by penalties for
// detected marketing contradictions, plus the claims-vs-reality
// cross-check.
package evaluate

import (
	"strconv"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/trustlens/internal/model"
)

// ErrNoRatings marks a product whose reviews carry no parseable rating.
var ErrNoRatings = eris.New("evaluate: no rated reviews")

// ratingWeights over-weight negative reviews so a few bad experiences
// pull the score down harder than good ones push it up.
var ratingWeights = map[int]float64{
	5: 1.0,
	4: 0.8,
	3: 0.6,
	2: 2.0,
	1: 2.0,
}

// severityPenalties are subtracted per contradiction on the 100-point
// scale. Unknown severities count as low.
var severityPenalties = map[model.Severity]float64{
	model.SeverityHigh:   16.0,
	model.SeverityMedium: 8.0,
	model.SeverityLow:    4.0,
}

// maxPenalty caps the total contradiction deduction.
const maxPenalty = 50.0

// WeightedScore computes the weighted rating average on the 5-point
// scale from per-rating review counts. Ratings that do not parse as
// integers are skipped. A zero weight sum returns 0 with ErrNoRatings.
func WeightedScore(counts map[string]int) (float64, map[string]any, error) {
	details := map[string]any{
		"rating_distribution": map[string]int{},
		"total_reviews":       0,
	}

	var weightedSum, weightSum float64
	total := 0
	dist := details["rating_distribution"].(map[string]int)

	for ratingStr, count := range counts {
		rating, err := strconv.Atoi(ratingStr)
		if err != nil {
			zap.L().Warn("skipping unparseable rating", zap.String("rating", ratingStr))
			continue
		}
		weight, ok := ratingWeights[rating]
		if !ok {
			weight = 1.0
		}
		weightedSum += float64(rating) * float64(count) * weight
		weightSum += float64(count) * weight
		total += count
		dist[ratingStr] = count
	}

	details["total_reviews"] = total
	if weightSum == 0 {
		details["error"] = "no rated reviews"
		return 0, details, ErrNoRatings
	}

	avg := weightedSum / weightSum
	details["weighted_sum"] = weightedSum
	details["weight_sum"] = weightSum
	details["weighted_average"] = avg
	return avg, details, nil
}

// ToScale100 converts a 5-point score to the 100-point scale.
func ToScale100(score5 float64) float64 {
	return score5 / 5.0 * 100.0
}

// PenaltyScore sums the per-contradiction deductions, capped at 50.
func PenaltyScore(contradictions []model.Contradiction) float64 {
	var total float64
	for _, c := range contradictions {
		penalty, ok := severityPenalties[c.Severity]
		if !ok {
			penalty = severityPenalties[model.SeverityLow]
		}
		total += penalty
	}
	if total > maxPenalty {
		zap.L().Info("contradiction penalty capped",
			zap.Float64("raw", total), zap.Float64("cap", maxPenalty))
		total = maxPenalty
	}
	return total
}

// FinalScore applies the penalty with a zero floor.
func FinalScore(scaled, penalty float64) float64 {
	final := scaled - penalty
	if final < 0 {
		return 0
	}
	return final
}

// Grade maps a 100-point score to its letter grade.
func Grade(score100 float64) string {
	switch {
	case score100 >= 90:
		return "A+ (우수)"
	case score100 >= 80:
		return "A (좋음)"
	case score100 >= 70:
		return "B+ (보통 이상)"
	case score100 >= 60:
		return "B (보통)"
	case score100 >= 50:
		return "C+ (미흡)"
	case score100 >= 40:
		return "C (부족)"
	default:
		return "D (매우 부족)"
	}
}
