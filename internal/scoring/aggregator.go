// internal/scoring/aggregator.go
package scoring

import (
	"math"

	"faculty-ranking-workers/internal/models"
)

// halfTolerance absorbs binary representation error, so 2.345 (stored as
// 2.34499999...) still rounds up.
const halfTolerance = 1e-9

// round2 rounds half-up to two decimal places.
func round2(v float64) float64 {
	x := v * 100
	floor := math.Floor(x)
	if math.Abs(x-(floor+0.5)) < halfTolerance {
		return (floor + 1) / 100
	}
	return math.Round(x) / 100
}

// BuildRecords packages raw criterion scores for persistence in weight-table order.
// Criteria absent from scores are skipped.
func BuildRecords(applicationID string, scores map[string]float64, weights WeightTable) []models.CriterionScore {
	records := make([]models.CriterionScore, 0, len(scores))
	for _, cw := range weights.Criteria() {
		s, ok := scores[cw.Name]
		if !ok {
			continue
		}
		records = append(records, models.CriterionScore{
			ApplicationID: applicationID,
			CriterionID:   cw.ID,
			Criterion:     cw.Name,
			Score:         s,
			MaxScore:      models.MaxCriterionScore,
			Weight:        cw.Weight,
			WeightedScore: s * cw.Weight,
		})
	}
	return records
}

// Aggregate is round2(Σ score·weight / Σ weight) over the given records, 0 when no weight
// contributes.
func Aggregate(records []models.CriterionScore) float64 {
	var num, den float64
	for _, r := range records {
		num += r.Score * r.Weight
		den += r.Weight
	}
	if den == 0 {
		return 0
	}
	composite := round2(num / den)
	switch {
	case composite < 0:
		return 0
	case composite > models.MaxCriterionScore:
		return models.MaxCriterionScore
	}
	return composite
}
