package models

import "time"

type RemoteTokenStatus string

const (
	RemoteTokenStatusActive   RemoteTokenStatus = "active"
	RemoteTokenStatusConsumed RemoteTokenStatus = "consumed"
)

// RemoteAccessToken lets a patient open exactly one assessment without a full
// account. At most one active token exists per assessment; issuing a new one
// invalidates its predecessor. Expiry is enforced both by the stored ExpiresAt
// and by the redis key TTL.
type RemoteAccessToken struct {
	ID           string            `json:"id"`
	AssessmentID string            `json:"assessmentId"`
	PatientRef   string            `json:"patientRef"`
	Token        string            `json:"token"`
	Status       RemoteTokenStatus `json:"status"`
	IssuedAt     time.Time         `json:"issuedAt"`
	ExpiresAt    time.Time         `json:"expiresAt"`
}

func (t *RemoteAccessToken) Expired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}
