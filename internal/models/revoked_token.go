package models

import "time"

// Revocation reasons.
const (
	ReasonLogout    = "logout"
	ReasonRevokeAll = "revoke_all"
)

// SentinelJTIPrefix marks the user-wide record inserted by RevokeAll.
// Real jtis are bare UUIDs and can never collide with it.
const SentinelJTIPrefix = "all:"

// RevokedToken is a denylist entry for a session token. A record blocks
// its token only while expires_at is in the future; after that the token
// would have expired on its own and the row is dead weight until the
// cleanup job removes it.
type RevokedToken struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	TokenJTI  string    `json:"tokenJti" gorm:"column:token_jti;type:varchar(64);not null;uniqueIndex"`
	UserID    uint      `json:"userId" gorm:"not null;index"`
	RevokedAt time.Time `json:"revokedAt" gorm:"autoCreateTime;not null"`
	ExpiresAt time.Time `json:"expiresAt" gorm:"not null;index"`
	Reason    string    `json:"reason" gorm:"type:varchar(100);not null;default:logout"`
	IPAddress *string   `json:"ipAddress,omitempty" gorm:"type:varchar(45)"`
	UserAgent *string   `json:"userAgent,omitempty" gorm:"type:text"`
}

// TableName specifies the table name for GORM
func (RevokedToken) TableName() string {
	return "revoked_tokens"
}

// Active reports whether the record still blocks its token.
func (t *RevokedToken) Active(now time.Time) bool {
	return t.ExpiresAt.After(now)
}
