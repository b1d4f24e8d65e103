package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func ratedSubs(easy, medium, hard int) []RatedSubmission {
	subs := make([]RatedSubmission, 0, easy+medium+hard)
	add := func(n, rating int, prefix string) {
		for i := 0; i < n; i++ {
			subs = append(subs, RatedSubmission{
				Problem:  prefix + string(rune('A'+i)),
				Rating:   rating,
				Accepted: true,
			})
		}
	}
	add(easy, 1000, "e")
	add(medium, 1500, "m")
	add(hard, 2100, "h")
	return subs
}

func TestScoreCodeforces_EasyGrinder(t *testing.T) {
	// 10 solved, {easy:8, medium:1, hard:1}, rating 1400:
	// ratio 0.8 → diversity 0.7, easy-dominant bonus 0.7,
	// problem = round(10×10×0.7) = 70, contest = 140,
	// overall = round((70×0.6 + 140×0.4) × 0.7) = round(68.6) = 69.
	rating := 1400
	score := ScoreCodeforces(CodeforcesInput{
		Handle:      "grinder",
		Rating:      &rating,
		Submissions: ratedSubs(8, 1, 1),
	})

	assert.Equal(t, 10, score.TotalSolved)
	assert.InDelta(t, 0.7, score.Adjustment.DiversityFactor, 1e-9)
	assert.InDelta(t, 0.7, score.Adjustment.SpecializationBonus, 1e-9)
	assert.Equal(t, 70, score.ProblemSolvingScore)
	assert.InDelta(t, 140.0, score.ContestScore, 1e-9)
	assert.Equal(t, 69, score.OverallScore)
}

func TestScoreCodeforces_UnratedBaseline(t *testing.T) {
	score := ScoreCodeforces(CodeforcesInput{
		Handle:      "newcomer",
		Submissions: ratedSubs(2, 2, 2),
	})

	assert.Nil(t, score.Rating)
	assert.InDelta(t, 100.0, score.ContestScore, 1e-9, "missing rating defaults to 1000")
	// Balanced buckets: no adjustment. problem = 60, overall = round(60×0.6+100×0.4) = 76.
	assert.Equal(t, 60, score.ProblemSolvingScore)
	assert.Equal(t, 76, score.OverallScore)
}

func TestScoreCodeforces_HardSpecialistRewarded(t *testing.T) {
	rating := 1400
	balanced := ScoreCodeforces(CodeforcesInput{Rating: &rating, Submissions: ratedSubs(4, 3, 3)})
	specialist := ScoreCodeforces(CodeforcesInput{Rating: &rating, Submissions: ratedSubs(1, 1, 8)})

	assert.Greater(t, specialist.Adjustment.SpecializationBonus, 1.0)
	assert.Equal(t, 1.0, balanced.Adjustment.SpecializationBonus)
}

func TestScoreCodeforces_NoSubmissions(t *testing.T) {
	score := ScoreCodeforces(CodeforcesInput{Handle: "empty"})
	assert.Zero(t, score.TotalSolved)
	assert.Zero(t, score.ProblemSolvingScore)
	// Pure contest baseline: round(100×0.4) = 40.
	assert.Equal(t, 40, score.OverallScore)
}
