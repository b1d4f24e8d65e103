package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyRated_Buckets(t *testing.T) {
	subs := []RatedSubmission{
		{Problem: "A", Rating: 800, Accepted: true},
		{Problem: "B", Rating: 1200, Accepted: true}, // boundary: still easy
		{Problem: "C", Rating: 1201, Accepted: true},
		{Problem: "D", Rating: 1800, Accepted: true}, // boundary: still medium
		{Problem: "E", Rating: 1801, Accepted: true},
		{Problem: "F", Rating: 2400, Accepted: false}, // rejected, ignored
	}

	counts, total := ClassifyRated(subs)
	assert.Equal(t, BucketCounts{Easy: 2, Medium: 2, Hard: 1}, counts)
	assert.Equal(t, 5, total)
}

func TestClassifyRated_DuplicateAcceptedSubmissions(t *testing.T) {
	// A re-accepted problem inflates its bucket but the solved total
	// deduplicates by problem name.
	subs := []RatedSubmission{
		{Problem: "A", Rating: 900, Accepted: true},
		{Problem: "A", Rating: 900, Accepted: true},
		{Problem: "A", Rating: 900, Accepted: true},
	}

	counts, total := ClassifyRated(subs)
	assert.Equal(t, 3, counts.Easy)
	assert.Equal(t, 1, total)
}

func TestClassifyRated_Empty(t *testing.T) {
	counts, total := ClassifyRated(nil)
	assert.Equal(t, BucketCounts{}, counts)
	assert.Zero(t, total)
}

func TestBucketCounts_DominantIsEasy(t *testing.T) {
	tests := []struct {
		name   string
		counts BucketCounts
		want   bool
	}{
		{"easy dominant", BucketCounts{Easy: 5, Medium: 2, Hard: 1}, true},
		{"hard dominant", BucketCounts{Easy: 1, Medium: 2, Hard: 5}, false},
		{"easy-medium tie breaks to easy", BucketCounts{Easy: 3, Medium: 3, Hard: 1}, true},
		{"all zero", BucketCounts{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.counts.DominantIsEasy())
		})
	}
}

func TestClassifyLabeled(t *testing.T) {
	entries := []LabeledEntry{
		{Difficulty: "Easy", Solved: 5, Attempts: 5},
		{Difficulty: "Medium", Solved: 5, Attempts: 10},
		{Difficulty: "Hard", Solved: 0, Attempts: 0}, // skipped entirely
	}

	stats, totalSolved, totalScore := ClassifyLabeled(entries)
	require.Len(t, stats, 2)

	assert.Equal(t, 10, totalSolved)
	assert.InDelta(t, 10.0, totalScore, 1e-9)

	assert.Equal(t, "Easy", stats[0].Difficulty)
	assert.InDelta(t, 100.0, stats[0].Accuracy, 1e-9)
	assert.InDelta(t, 5.0, stats[0].Score, 1e-9)

	assert.Equal(t, "Medium", stats[1].Difficulty)
	assert.InDelta(t, 50.0, stats[1].Accuracy, 1e-9)
	assert.InDelta(t, 5.0, stats[1].Score, 1e-9) // 5 × 2 × 0.5
}

func TestWeightFor_UnknownLabelDefaultsToOne(t *testing.T) {
	assert.Equal(t, 1, WeightFor("Inhuman"))
	assert.Equal(t, 3, WeightFor("Hard"))
}

func TestDominantStat_FirstMatchOnTie(t *testing.T) {
	stats := []DifficultyStat{
		{Difficulty: "Easy", Solved: 4},
		{Difficulty: "Medium", Solved: 4},
	}
	d := DominantStat(stats)
	require.NotNil(t, d)
	assert.Equal(t, "Easy", d.Difficulty)
}

func TestDominantStat_Empty(t *testing.T) {
	assert.Nil(t, DominantStat(nil))
}
