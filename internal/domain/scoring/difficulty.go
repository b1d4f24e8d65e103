// Package scoring implements the score and rank computation engine: difficulty
// classification, the diversity/specialization adjustment, the per-platform
// score formulas, and the percentile tier mapping used for card theming.
//
// Everything in this package is pure: raw platform statistics in, numbers out.
// All scoring weights are named constants so an alternate formula can be swapped
// without touching the engine.
package scoring

import "strings"

// Rating thresholds for numeric-rating sources (Codeforces).
const (
	EasyMaxRating   = 1200
	MediumMaxRating = 1800
)

// Difficulty weights for labeled sources (LeetCode).
const (
	WeightEasy   = 1
	WeightMedium = 2
	WeightHard   = 3
)

// BucketCounts holds per-tier solved counts for numeric-rating sources.
type BucketCounts struct {
	Easy   int `json:"easy"`
	Medium int `json:"medium"`
	Hard   int `json:"hard"`
}

// Max returns the largest bucket count.
func (c BucketCounts) Max() int {
	m := c.Easy
	if c.Medium > m {
		m = c.Medium
	}
	if c.Hard > m {
		m = c.Hard
	}
	return m
}

// DominantIsEasy reports whether the easy bucket holds the maximum count.
// On ties the first bucket in enumeration order (easy, medium, hard) wins,
// so an easy/medium tie counts as easy-dominant.
func (c BucketCounts) DominantIsEasy() bool {
	return c.Easy == c.Max()
}

// RatedSubmission is one submission from a numeric-rating source.
type RatedSubmission struct {
	Problem  string
	Rating   int
	Accepted bool
}

// ClassifyRated partitions accepted submissions into difficulty buckets and
// returns the distinct-solved total. The total deduplicates by problem name
// while bucket counts increment per accepted submission, matching upstream
// behavior: resubmitting an accepted problem inflates its bucket but not the
// total, which is why the repetition ratio can exceed 1.
func ClassifyRated(subs []RatedSubmission) (BucketCounts, int) {
	var counts BucketCounts
	solved := make(map[string]struct{})

	for _, s := range subs {
		if !s.Accepted {
			continue
		}
		solved[s.Problem] = struct{}{}
		switch {
		case s.Rating <= EasyMaxRating:
			counts.Easy++
		case s.Rating <= MediumMaxRating:
			counts.Medium++
		default:
			counts.Hard++
		}
	}

	return counts, len(solved)
}

// LabeledEntry is one per-difficulty stat line from a labeled source.
type LabeledEntry struct {
	Difficulty string
	Solved     int
	Attempts   int
}

// DifficultyStat is the classified form of a labeled entry, carrying the
// accuracy ratio and the weighted difficulty score. Ephemeral, never persisted.
type DifficultyStat struct {
	Difficulty string  `json:"difficulty"`
	Solved     int     `json:"solved"`
	Attempts   int     `json:"attempts"`
	Accuracy   float64 `json:"accuracy"`
	Weight     int     `json:"weight"`
	Score      float64 `json:"diffScore"`
}

// WeightFor maps a difficulty label to its weight. Unknown labels weigh 1.
func WeightFor(difficulty string) int {
	switch strings.ToLower(difficulty) {
	case "easy":
		return WeightEasy
	case "medium":
		return WeightMedium
	case "hard":
		return WeightHard
	default:
		return WeightEasy
	}
}

// ClassifyLabeled turns labeled entries into difficulty stats. Entries with
// zero attempts are skipped entirely, which also guards the accuracy division.
// Returns the stats, the total solved count, and the summed weighted score.
func ClassifyLabeled(entries []LabeledEntry) ([]DifficultyStat, int, float64) {
	stats := make([]DifficultyStat, 0, len(entries))
	totalSolved := 0
	totalScore := 0.0

	for _, e := range entries {
		if e.Attempts == 0 {
			continue
		}
		accuracy := float64(e.Solved) / float64(e.Attempts) * 100
		weight := WeightFor(e.Difficulty)
		score := float64(e.Solved) * float64(weight) * accuracy / 100

		totalSolved += e.Solved
		totalScore += score
		stats = append(stats, DifficultyStat{
			Difficulty: e.Difficulty,
			Solved:     e.Solved,
			Attempts:   e.Attempts,
			Accuracy:   accuracy,
			Weight:     weight,
			Score:      score,
		})
	}

	return stats, totalSolved, totalScore
}

// MaxSolved returns the largest solved count across stats.
func MaxSolved(stats []DifficultyStat) int {
	m := 0
	for _, s := range stats {
		if s.Solved > m {
			m = s.Solved
		}
	}
	return m
}

// DominantStat returns the first stat holding the maximum solved count, or nil
// when stats is empty. First-match semantics break ties.
func DominantStat(stats []DifficultyStat) *DifficultyStat {
	m := MaxSolved(stats)
	for i := range stats {
		if stats[i].Solved == m {
			return &stats[i]
		}
	}
	return nil
}
