package models

import "time"

// Permission is a single capability a site may be granted.
type Permission string

const (
	PermissionRead     Permission = "read"
	PermissionWrite    Permission = "write"
	PermissionDownload Permission = "download"
	PermissionStream   Permission = "stream"
)

// Permission record statuses.
const (
	PermissionStatusActive  = "active"
	PermissionStatusRevoked = "revoked"
)

// PermissionRecord is a persisted user decision allowing a domain access to
// stored data. At most one active record exists per domain; granting replaces
// any previous record for that domain. Records are revoked, never deleted.
type PermissionRecord struct {
	ID          string       `json:"id"`
	AppID       string       `json:"appId,omitempty"`
	Domain      string       `json:"domain"`
	SiteName    string       `json:"siteName"`
	Permissions []Permission `json:"permissions"`
	Description string       `json:"description,omitempty"`
	GrantedAt   time.Time    `json:"grantedAt"`
	Status      string       `json:"status"`
	RevokedAt   *time.Time   `json:"revokedAt,omitempty"`
}

// Active reports whether the record still authorizes access.
func (r *PermissionRecord) Active() bool {
	return r.Status == PermissionStatusActive
}

// Has reports whether the record carries the given permission.
func (r *PermissionRecord) Has(p Permission) bool {
	for _, got := range r.Permissions {
		if got == p {
			return true
		}
	}
	return false
}
