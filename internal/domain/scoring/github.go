package scoring

import "math"

// GitHub scoring weights. This is the uncapped weighted-sum formula; the
// per-term-capped variant was considered and rejected because caps silently
// flatten highly active accounts and the leaderboard already normalizes via
// percentile tiers.
const (
	GitHubIssueOpenedWeight = 2
	GitHubIssueClosedWeight = 3
	GitHubPRMergedWeight    = 10
	GitHubStarWeight        = 5
	GitHubForkWeight        = 3

	GitHubProblemWeight      = 0.7
	GitHubFollowerWeight     = 3
	GitHubAccountAgeWeight   = 5
	GitHubLanguageWeight     = 5
	GitHubTopRepoContribBase = 50
)

// GitHubInput is the aggregated activity snapshot for a GitHub username.
// There is no difficulty concept on GitHub; the score is a weighted sum over
// account and activity signals.
type GitHubInput struct {
	Handle       string
	IssuesOpened int
	IssuesClosed int
	PRsMerged    int
	Stars        int
	Forks        int
	Followers    int

	// TopReposContributed is how many of the user's top-3-by-stars
	// repositories list the user among their contributors (0..3).
	TopReposContributed int

	// AccountAgeYears is current year minus creation year, whole years.
	AccountAgeYears int

	UniqueLanguages int
}

// GitHubScore is the computed GitHub profile score.
type GitHubScore struct {
	Handle              string `json:"username"`
	ProblemSolvingScore int    `json:"problemSolvingScore"`
	OverallScore        int    `json:"overallScore"`
}

// ScoreGitHub computes the GitHub score as a weighted sum over activity
// signals blended with account-level signals.
func ScoreGitHub(in GitHubInput) GitHubScore {
	problemScore := in.IssuesOpened*GitHubIssueOpenedWeight +
		in.IssuesClosed*GitHubIssueClosedWeight +
		in.PRsMerged*GitHubPRMergedWeight +
		in.Stars*GitHubStarWeight +
		in.Forks*GitHubForkWeight

	overall := int(math.Round(
		float64(problemScore)*GitHubProblemWeight +
			float64(in.Followers*GitHubFollowerWeight) +
			float64(in.TopReposContributed*GitHubTopRepoContribBase) +
			float64(in.AccountAgeYears*GitHubAccountAgeWeight) +
			float64(in.UniqueLanguages*GitHubLanguageWeight),
	))

	return GitHubScore{
		Handle:              in.Handle,
		ProblemSolvingScore: problemScore,
		OverallScore:        overall,
	}
}
