package codeforces

import "encoding/json"

// envelope is the Codeforces API response wrapper.
// Status is "OK" or "FAILED"; on failure Comment explains why.
type envelope struct {
	Status  string          `json:"status"`
	Comment string          `json:"comment"`
	Result  json.RawMessage `json:"result"`
}

// userDTO is the user.info result subset we use.
type userDTO struct {
	Handle    string `json:"handle"`
	Rating    *int   `json:"rating"`
	MaxRating *int   `json:"maxRating"`
}

// ratingChangeDTO is one entry of the user.rating result.
type ratingChangeDTO struct {
	ContestID   int    `json:"contestId"`
	ContestName string `json:"contestName"`
	NewRating   int    `json:"newRating"`
}

// submissionDTO is one entry of the user.status result.
type submissionDTO struct {
	Verdict string     `json:"verdict"`
	Problem problemDTO `json:"problem"`
}

// problemDTO identifies the problem of a submission.
// Rating is absent for unrated problems (old gyms, April Fools rounds).
type problemDTO struct {
	Name   string `json:"name"`
	Rating *int   `json:"rating"`
}
