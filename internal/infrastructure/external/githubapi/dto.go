package githubapi

import "time"

// UserDTO is the GitHub /users/{username} response subset we use.
type UserDTO struct {
	Login       string    `json:"login"`
	Name        string    `json:"name"`
	Followers   int       `json:"followers"`
	PublicRepos int       `json:"public_repos"`
	CreatedAt   time.Time `json:"created_at"`
}

// RepoDTO is the GitHub /users/{username}/repos response subset we use.
type RepoDTO struct {
	Name            string `json:"name"`
	StargazersCount int    `json:"stargazers_count"`
	ForksCount      int    `json:"forks_count"`
	Language        string `json:"language"`
	Fork            bool   `json:"fork"`
	HTMLURL         string `json:"html_url"`
}

// EventDTO is the GitHub /users/{username}/events/public response subset.
type EventDTO struct {
	Type    string       `json:"type"`
	Payload EventPayload `json:"payload"`
}

// EventPayload carries the fields needed to classify an event.
type EventPayload struct {
	Action      string           `json:"action"`
	PullRequest *PullRequestInfo `json:"pull_request"`
}

// PullRequestInfo carries the merged flag of a pull request event.
type PullRequestInfo struct {
	Merged bool `json:"merged"`
}

// ContributorDTO is the GitHub /repos/{owner}/{repo}/contributors subset.
type ContributorDTO struct {
	Login string `json:"login"`
}

// APIErrorDTO is the GitHub error response body.
type APIErrorDTO struct {
	Message string `json:"message"`
}

// Error implements the error interface.
func (e *APIErrorDTO) Error() string {
	return "github api: " + e.Message
}
