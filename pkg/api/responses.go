package api

import (
	"time"

	"github.com/icfp25/aedificium/pkg/database"
)

// SelectResponse is returned by POST /api/select.
type SelectResponse struct {
	SessionID   string `json:"session_id"`
	ProblemName string `json:"problemName,omitempty"`
	Status      string `json:"status"`
}

// ExploreResponse is returned by POST /api/explore.
type ExploreResponse struct {
	SessionID  string  `json:"session_id"`
	Results    [][]int `json:"results"`
	QueryCount int     `json:"queryCount"`
}

// GuessResponse is returned by POST /api/guess.
type GuessResponse struct {
	SessionID string `json:"session_id"`
	Correct   bool   `json:"correct"`
}

// SessionResponse is the JSON shape of a sessions-table row.
type SessionResponse struct {
	SessionID   string     `json:"session_id"`
	UserName    *string    `json:"user_name,omitempty"`
	ProblemName *string    `json:"problemName,omitempty"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

func sessionResponse(s database.Session) SessionResponse {
	return SessionResponse{
		SessionID:   s.SessionID,
		UserName:    s.UserName,
		ProblemName: s.ProblemName,
		Status:      string(s.Status),
		CreatedAt:   s.CreatedAt,
		CompletedAt: s.CompletedAt,
	}
}

// APILogResponse is the JSON shape of an api_logs-table row.
type APILogResponse struct {
	ID             int64     `json:"id"`
	Endpoint       string    `json:"endpoint"`
	RequestBody    string    `json:"request_body"`
	ResponseBody   string    `json:"response_body"`
	ResponseStatus int       `json:"response_status"`
	CreatedAt      time.Time `json:"created_at"`
}

func apiLogResponse(l database.APILog) APILogResponse {
	return APILogResponse{
		ID:             l.ID,
		Endpoint:       string(l.Endpoint),
		RequestBody:    string(l.RequestBody),
		ResponseBody:   string(l.ResponseBody),
		ResponseStatus: l.ResponseStatus,
		CreatedAt:      l.CreatedAt,
	}
}

// SessionDetailResponse is returned by GET /api/sessions/{id} and the
// export endpoint.
type SessionDetailResponse struct {
	Session SessionResponse  `json:"session"`
	APILogs []APILogResponse `json:"api_logs"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status   string                 `json:"status"`
	Version  string                 `json:"version"`
	Database *database.HealthStatus `json:"database,omitempty"`
}
