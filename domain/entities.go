package domain

import (
	"time"

	"github.com/google/uuid"
)

// SystemActor is the audit identity used when the service itself mutates a
// record, e.g. completing a password reset before the caller is authenticated.
const SystemActor = "SYSTEM"

// TokenTypeBearer is the token type returned with every authentication result.
const TokenTypeBearer = "Bearer"

// AuditFields are embedded by every persisted entity.
type AuditFields struct {
	CreatedBy string
	CreatedAt time.Time
	UpdatedBy string
	UpdatedAt time.Time
}

// NewAuditFields stamps created and updated fields with the same actor and time.
func NewAuditFields(by string, now time.Time) AuditFields {
	return AuditFields{CreatedBy: by, CreatedAt: now, UpdatedBy: by, UpdatedAt: now}
}

// Touch returns a copy with the updated fields bumped.
func (a AuditFields) Touch(by string, now time.Time) AuditFields {
	a.UpdatedBy = by
	a.UpdatedAt = now
	return a
}

// User represents a user account. PasswordHash is the stored salted-hash
// value; the salt is embedded in it and never handled outside the hasher.
type User struct {
	ID               uuid.UUID
	Username         string
	Email            string
	Phone            string
	PasswordHash     string
	Role             string
	TwoFactorEnabled bool
	IsDeleted        bool
	AuditFields
}

// Session binds an opaque refresh token to a user. It is active until it
// expires or is explicitly revoked; both are terminal for refresh.
type Session struct {
	ID           uuid.UUID
	UserID       uuid.UUID
	RefreshToken string
	IPAddress    string
	ExpiresAt    time.Time
	IsRevoked    bool
	RevokedBy    string
	RevokedAt    *time.Time
	AuditFields
}

// Expired reports whether the session is past its expiry.
func (s Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// Active reports whether the session may still be used to refresh.
func (s Session) Active(now time.Time) bool {
	return !s.IsRevoked && !s.Expired(now)
}

// Revoke returns a revoked copy of the session. Idempotent: revoking an
// already revoked session keeps the original revocation stamp. The flag
// never transitions back to false.
func (s Session) Revoke(by string, now time.Time) Session {
	if s.IsRevoked {
		return s
	}
	s.IsRevoked = true
	s.RevokedBy = by
	s.RevokedAt = &now
	s.AuditFields = s.AuditFields.Touch(by, now)
	return s
}

// OneTimePasscode is a single 2FA challenge code.
type OneTimePasscode struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Code      string
	IPAddress string
	ExpiresAt time.Time
	IsUsed    bool
	AuditFields
}

// Expired reports whether the passcode is past its expiry.
func (o OneTimePasscode) Expired(now time.Time) bool {
	return now.After(o.ExpiresAt)
}

// MarkUsed returns a used copy. The used flag is monotonic: once set it is
// never cleared, and re-marking keeps the original stamp.
func (o OneTimePasscode) MarkUsed(by string, now time.Time) OneTimePasscode {
	if o.IsUsed {
		return o
	}
	o.IsUsed = true
	o.AuditFields = o.AuditFields.Touch(by, now)
	return o
}

// PasswordReset is a single-use password reset token.
type PasswordReset struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Token     string
	ExpiresAt time.Time
	IsUsed    bool
	AuditFields
}

// Expired reports whether the reset token is past its expiry.
func (p PasswordReset) Expired(now time.Time) bool {
	return now.After(p.ExpiresAt)
}

// MarkUsed returns a used copy; the flag is monotonic.
func (p PasswordReset) MarkUsed(by string, now time.Time) PasswordReset {
	if p.IsUsed {
		return p
	}
	p.IsUsed = true
	p.AuditFields = p.AuditFields.Touch(by, now)
	return p
}

// OutboxMessage is a durable pending notification. The dispatcher flips
// IsProcessed from false to true; rows are never deleted by this core.
type OutboxMessage struct {
	ID           uuid.UUID
	EmailAddress string
	Subject      string
	Body         string
	IsProcessed  bool
	AuditFields
}

// MarkProcessed returns a processed copy; the flag is monotonic.
func (m OutboxMessage) MarkProcessed(now time.Time) OutboxMessage {
	if m.IsProcessed {
		return m
	}
	m.IsProcessed = true
	m.AuditFields = m.AuditFields.Touch(SystemActor, now)
	return m
}

// AuthResult represents a successful authentication outcome.
type AuthResult struct {
	User                  *User
	TokenType             string
	AccessToken           string
	AccessTokenExpiresIn  int64
	RefreshToken          string
	RefreshTokenExpiresIn int64
}

// TokenClaims represents validated access-token claims.
type TokenClaims struct {
	UserID    uuid.UUID
	Role      string
	IssuedAt  int64
	ExpiresAt int64
}
