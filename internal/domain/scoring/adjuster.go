package scoring

// repetitionThreshold is the concentration level above which the diversity
// penalty and the specialization bonus kick in.
const repetitionThreshold = 0.5

// Adjustment carries the concentration-derived multipliers applied to the
// problem-solving score. Neither factor is floored or capped: with a bucket
// count above the deduplicated total the ratio exceeds 1 and an easy-dominant
// profile goes negative, which is accepted upstream behavior.
type Adjustment struct {
	// RepetitionRatio is maxBucketSolved / totalSolved (0 when nothing solved).
	RepetitionRatio float64 `json:"repetitionRatio"`

	// DiversityFactor multiplies the raw problem count: 1 for balanced
	// profiles, shrinking as one tier dominates.
	DiversityFactor float64 `json:"diversityFactor"`

	// SpecializationBonus multiplies the combined score: above 1 for
	// medium/hard specialists, below 1 for easy-grinders.
	SpecializationBonus float64 `json:"specializationBonus"`
}

// Adjust computes the diversity factor and specialization bonus from the total
// solved count, the dominant tier's count, and whether that tier is the easy
// one. Ties for the dominant tier must already be broken by the caller using
// first-match enumeration order.
func Adjust(totalSolved, maxSolved int, dominantIsEasy bool) Adjustment {
	adj := Adjustment{
		RepetitionRatio:     0,
		DiversityFactor:     1,
		SpecializationBonus: 1,
	}
	if totalSolved <= 0 {
		return adj
	}

	adj.RepetitionRatio = float64(maxSolved) / float64(totalSolved)
	if adj.RepetitionRatio <= repetitionThreshold {
		return adj
	}

	excess := adj.RepetitionRatio - repetitionThreshold
	adj.DiversityFactor = 1 - excess
	if dominantIsEasy {
		adj.SpecializationBonus = 1 - excess
	} else {
		adj.SpecializationBonus = 1 + excess
	}
	return adj
}
