package domain

import "time"

// AuditAction names a security-relevant operation.
type AuditAction string

const (
	AuditLogin         AuditAction = "login"
	AuditLogout        AuditAction = "logout"
	AuditProfileUpdate AuditAction = "profile_update"
	AuditUserCreate    AuditAction = "user_create"
	AuditUserUpdate    AuditAction = "user_update"
	AuditUserDelete    AuditAction = "user_delete"
	AuditUserToggle    AuditAction = "user_toggle_status"
)

// AuditEvent is an append-only record of who did what to which account.
type AuditEvent struct {
	Action    AuditAction
	ActorID   string // empty for anonymous callers (failed logins)
	SubjectID string // account the action applies to
	Email     string
	Success   bool
	Reason    string
	Timestamp time.Time
}
