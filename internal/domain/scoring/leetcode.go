package scoring

import "math"

// LeetCode scoring weights.
const (
	// LeetCodeContestDivisor scales the contest rating into a contest score.
	// A missing contest rating scores 0 (unlike Codeforces, there is no
	// unrated baseline).
	LeetCodeContestDivisor = 10

	// Blend weights for the overall score.
	LeetCodeProblemWeight = 0.7
	LeetCodeContestWeight = 0.3
)

// LeetCodeInput is the raw statistics snapshot for a LeetCode username.
type LeetCodeInput struct {
	Handle        string
	Entries       []LabeledEntry
	ContestRating *float64 // nil when the user never entered a contest
}

// LeetCodeScore is the computed LeetCode profile score.
type LeetCodeScore struct {
	Handle              string           `json:"username"`
	TotalSolved         int              `json:"totalSolved"`
	DifficultyStats     []DifficultyStat `json:"difficultyStats"`
	Adjustment          Adjustment       `json:"adjustment"`
	ProblemSolvingScore int              `json:"problemSolvingScore"`
	ContestScore        float64          `json:"contestScore"`
	OverallScore        int              `json:"finalProfileScore"`
}

// ScoreLeetCode computes the LeetCode score: weighted accuracy-adjusted
// difficulty scores summed across tiers, adjusted for concentration, then
// blended with the contest rating.
func ScoreLeetCode(in LeetCodeInput) LeetCodeScore {
	stats, totalSolved, totalScore := ClassifyLabeled(in.Entries)

	// Only the literal Easy label takes the penalty branch; an unknown
	// dominant label is treated like a specialization, matching upstream.
	dominantIsEasy := false
	if d := DominantStat(stats); d != nil {
		dominantIsEasy = d.Difficulty == "Easy"
	}
	adj := Adjust(totalSolved, MaxSolved(stats), dominantIsEasy)

	contestScore := 0.0
	if in.ContestRating != nil {
		contestScore = *in.ContestRating / LeetCodeContestDivisor
	}

	problemScore := int(math.Round(totalScore * adj.DiversityFactor))
	overall := int(math.Round(
		(float64(problemScore)*LeetCodeProblemWeight + contestScore*LeetCodeContestWeight) * adj.SpecializationBonus,
	))

	return LeetCodeScore{
		Handle:              in.Handle,
		TotalSolved:         totalSolved,
		DifficultyStats:     stats,
		Adjustment:          adj,
		ProblemSolvingScore: problemScore,
		ContestScore:        contestScore,
		OverallScore:        overall,
	}
}
