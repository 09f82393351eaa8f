package api

import "github.com/icfp25/aedificium/pkg/automaton"

// SelectRequest is the HTTP request body for POST /api/select.
type SelectRequest struct {
	ProblemName string `json:"problemName"`
	UserName    string `json:"user_name,omitempty"`
	Enqueue     bool   `json:"enqueue,omitempty"`
}

// ExploreRequest is the HTTP request body for POST /api/explore.
type ExploreRequest struct {
	SessionID string   `json:"session_id,omitempty"`
	UserName  string   `json:"user_name,omitempty"`
	Plans     []string `json:"plans"`
}

// GuessRequest is the HTTP request body for POST /api/guess.
type GuessRequest struct {
	SessionID string              `json:"session_id,omitempty"`
	UserName  string              `json:"user_name,omitempty"`
	Map       automaton.WireModel `json:"map"`
}
