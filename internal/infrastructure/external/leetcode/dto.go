package leetcode

// graphqlRequest is the POST body sent to the GraphQL endpoint.
type graphqlRequest struct {
	Query     string            `json:"query"`
	Variables map[string]string `json:"variables"`
}

// graphqlResponse is the GraphQL response envelope.
type graphqlResponse struct {
	Data   *profileData   `json:"data"`
	Errors []graphqlError `json:"errors"`
}

// graphqlError is one entry of the GraphQL errors array.
type graphqlError struct {
	Message string `json:"message"`
}

// profileData is the data section of the profile stats query.
type profileData struct {
	MatchedUser        *matchedUserDTO        `json:"matchedUser"`
	UserContestRanking *userContestRankingDTO `json:"userContestRanking"`
}

// matchedUserDTO holds the per-difficulty accepted submission stats.
// A nil MatchedUser in the response means the username does not exist.
type matchedUserDTO struct {
	Username    string         `json:"username"`
	SubmitStats *submitStatsDTO `json:"submitStats"`
}

type submitStatsDTO struct {
	ACSubmissionNum []acSubmissionDTO `json:"acSubmissionNum"`
}

// acSubmissionDTO is one difficulty tier's accepted submission counters.
type acSubmissionDTO struct {
	Difficulty  string `json:"difficulty"`
	Count       int    `json:"count"`
	Submissions int    `json:"submissions"`
}

// userContestRankingDTO is null for users who never entered a contest.
type userContestRankingDTO struct {
	Rating float64 `json:"rating"`
}
