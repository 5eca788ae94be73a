package models

import "time"

type AuditAction string

const (
	AuditActionCreateLive   AuditAction = "CREATE_LIVE"
	AuditActionSchedule     AuditAction = "SCHEDULE"
	AuditActionUpdate       AuditAction = "UPDATE"
	AuditActionPromote      AuditAction = "PROMOTE"
	AuditActionResult       AuditAction = "RESULT"
	AuditActionStatusChange AuditAction = "STATUS_CHANGE"
	AuditActionDelete       AuditAction = "DELETE"
	AuditActionSync         AuditAction = "SYNC"
)

// AuditLogEntry is a row of the append-only audit_logs table. Entries are
// never updated or deleted by the application.
type AuditLogEntry struct {
	ID         int         `json:"id"`
	AdminEmail string      `json:"admin_email"`
	ActionType AuditAction `json:"action_type"`
	Details    string      `json:"details"`
	CreatedAt  time.Time   `json:"created_at"`
}
