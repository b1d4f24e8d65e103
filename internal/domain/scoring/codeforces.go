package scoring

import "math"

// Codeforces scoring weights.
const (
	// CodeforcesDefaultRating is the unrated baseline: a missing contest
	// rating scores as 1000, i.e. a contest score of 100.
	CodeforcesDefaultRating = 1000

	// CodeforcesContestDivisor scales the raw rating into a contest score.
	CodeforcesContestDivisor = 10

	// CodeforcesSolvedWeight is the per-problem value before adjustment.
	CodeforcesSolvedWeight = 10

	// Blend weights for the overall score.
	CodeforcesProblemWeight = 0.6
	CodeforcesContestWeight = 0.4
)

// CodeforcesInput is the raw statistics snapshot for a Codeforces handle.
type CodeforcesInput struct {
	Handle      string
	Rating      *int // nil when unrated
	MaxRating   *int
	Contests    int
	LastContest string
	Submissions []RatedSubmission
}

// CodeforcesScore is the computed Codeforces profile score.
type CodeforcesScore struct {
	Handle              string       `json:"username"`
	Rating              *int         `json:"rating"`
	MaxRating           *int         `json:"maxRating"`
	Contests            int          `json:"contestsParticipated"`
	LastContest         string       `json:"lastContest,omitempty"`
	TotalSolved         int          `json:"totalSolved"`
	DifficultyCounts    BucketCounts `json:"difficultyStats"`
	Adjustment          Adjustment   `json:"adjustment"`
	ProblemSolvingScore int          `json:"problemSolvingScore"`
	ContestScore        float64      `json:"contestScore"`
	OverallScore        int          `json:"finalProfileScore"`
}

// ScoreCodeforces computes the Codeforces score from a raw snapshot:
// classify accepted submissions into rating buckets, derive the adjustment,
// then blend problem-solving and contest components.
func ScoreCodeforces(in CodeforcesInput) CodeforcesScore {
	counts, totalSolved := ClassifyRated(in.Submissions)
	adj := Adjust(totalSolved, counts.Max(), counts.DominantIsEasy())

	rating := CodeforcesDefaultRating
	if in.Rating != nil {
		rating = *in.Rating
	}
	contestScore := float64(rating) / CodeforcesContestDivisor

	problemScore := int(math.Round(float64(totalSolved) * CodeforcesSolvedWeight * adj.DiversityFactor))
	overall := int(math.Round(
		(float64(problemScore)*CodeforcesProblemWeight + contestScore*CodeforcesContestWeight) * adj.SpecializationBonus,
	))

	return CodeforcesScore{
		Handle:              in.Handle,
		Rating:              in.Rating,
		MaxRating:           in.MaxRating,
		Contests:            in.Contests,
		LastContest:         in.LastContest,
		TotalSolved:         totalSolved,
		DifficultyCounts:    counts,
		Adjustment:          adj,
		ProblemSolvingScore: problemScore,
		ContestScore:        contestScore,
		OverallScore:        overall,
	}
}
