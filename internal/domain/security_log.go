package domain

import "time"

// SecurityLog is the audit trail: logins, transfers, skipped scheduled
// transfers, card decisions. UserID is nil for system-initiated entries.
type SecurityLog struct {
	ID        int32     `json:"id"`
	UserID    *int32    `json:"user_id,omitempty"`
	Action    string    `json:"action"`
	Details   string    `json:"details"`
	Timestamp time.Time `json:"timestamp"`

	UserName string `json:"user,omitempty"` // joined for admin views
}
