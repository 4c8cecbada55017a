package types

import (
	"fmt"
	"time"
)

// ApplicationStatus is the lifecycle state of a submitted application.
type ApplicationStatus string

// Application statuses.
const (
	StatusPending   ApplicationStatus = "PENDING"
	StatusSubmitted ApplicationStatus = "SUBMITTED"
	StatusInterview ApplicationStatus = "INTERVIEW"
	StatusRejected  ApplicationStatus = "REJECTED"
	StatusOffer     ApplicationStatus = "OFFER"
	StatusWithdrawn ApplicationStatus = "WITHDRAWN"
)

// legalTransitions encodes the status machine. REJECTED, OFFER, and WITHDRAWN
// are terminal; WITHDRAWN is reachable from any non-terminal status.
var legalTransitions = map[ApplicationStatus][]ApplicationStatus{
	StatusPending:   {StatusSubmitted, StatusWithdrawn},
	StatusSubmitted: {StatusInterview, StatusRejected, StatusWithdrawn},
	StatusInterview: {StatusOffer, StatusRejected, StatusWithdrawn},
}

// ValidStatus reports whether s is a known application status.
func ValidStatus(s ApplicationStatus) bool {
	switch s {
	case StatusPending, StatusSubmitted, StatusInterview, StatusRejected, StatusOffer, StatusWithdrawn:
		return true
	}
	return false
}

// CanTransition reports whether from -> to is a legal status transition.
func CanTransition(from, to ApplicationStatus) bool {
	for _, allowed := range legalTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// StatusChange is one entry in an application's status history.
type StatusChange struct {
	Status    ApplicationStatus `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
}

// Application is a tracked application record.
type Application struct {
	ID            string            `json:"id"`
	UserID        string            `json:"user_id"`
	JobID         string            `json:"job_id"`
	MatchScore    float64           `json:"match_score"`
	Status        ApplicationStatus `json:"status"`
	CreatedAt     time.Time         `json:"created_at"`
	StatusHistory []StatusChange    `json:"status_history,omitempty"`
}

// Transition moves the application to a new status, appending to the history.
// Illegal transitions are rejected, leaving the application unchanged.
func (a *Application) Transition(to ApplicationStatus, at time.Time) error {
	if !ValidStatus(to) {
		return fmt.Errorf("unknown application status: %s", to)
	}
	if !CanTransition(a.Status, to) {
		return fmt.Errorf("illegal status transition %s -> %s", a.Status, to)
	}
	a.Status = to
	a.StatusHistory = append(a.StatusHistory, StatusChange{Status: to, Timestamp: at})
	return nil
}
