// Package queue defines message payloads exchanged over the message broker.
package queue

// Actions recorded in the audit trail.
const (
	ActionCreated = "user.created"
	ActionUpdated = "user.updated"
	ActionDeleted = "user.deleted"
)

// AccountEvent is published when an administrator changes the user roster.
// It carries enough for downstream consumers to build an audit trail
// without querying the primary database. Email and Role are only set for
// creations; ActorID is the admin who performed the change.
type AccountEvent struct {
	Action     string `json:"action"`
	UserID     int64  `json:"user_id"`
	Email      string `json:"email,omitempty"`
	Role       string `json:"role,omitempty"`
	ActorID    int64  `json:"actor_id"`
	OccurredAt string `json:"occurred_at"`
}
