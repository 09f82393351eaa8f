package database

import "time"

// SessionStatus is one of the four session lifecycle states.
type SessionStatus string

const (
	StatusPending   SessionStatus = "pending"
	StatusActive    SessionStatus = "active"
	StatusCompleted SessionStatus = "completed"
	StatusFailed    SessionStatus = "failed"
)

// Session is a row of the sessions table.
type Session struct {
	SessionID   string
	UserName    *string
	ProblemName *string
	Status      SessionStatus
	CreatedAt   time.Time
	CompletedAt *time.Time
}

// Endpoint names the upstream oracle call an APILog row records.
type Endpoint string

const (
	EndpointSelect  Endpoint = "select"
	EndpointExplore Endpoint = "explore"
	EndpointGuess   Endpoint = "guess"
)

// APILog is a row of the api_logs table: one durable record of an upstream
// request/response pair.
type APILog struct {
	ID             int64
	SessionID      string
	Endpoint       Endpoint
	RequestBody    []byte
	ResponseBody   []byte
	ResponseStatus int
	CreatedAt      time.Time
}

// PendingRequest is a row of the pending_requests table: the stored select
// payload for a queued session, replayed upstream when it is promoted.
type PendingRequest struct {
	SessionID   string
	ProblemName string
	UserName    *string
	CreatedAt   time.Time
}
