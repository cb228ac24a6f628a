package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Clock abstracts wall-clock reads so expiry logic stays deterministic in tests.
type Clock interface {
	Now() time.Time
}

// UserRepository defines user data access operations
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Update(ctx context.Context, user *User) error
}

// SessionRepository defines session data access operations. Rotate and Revoke
// are conditional single-row updates so that concurrent callers cannot both
// succeed on the same token.
type SessionRepository interface {
	Create(ctx context.Context, session *Session) error
	FindByRefreshToken(ctx context.Context, refreshToken string) (*Session, error)
	// Rotate swaps oldToken for newToken iff the session still carries
	// oldToken and is not revoked. Returns ErrConcurrentRefresh otherwise.
	Rotate(ctx context.Context, sessionID uuid.UUID, oldToken, newToken string, now time.Time) error
	// Revoke flips the revoked flag. Idempotent: revoking an already revoked
	// session is not an error.
	Revoke(ctx context.Context, sessionID uuid.UUID, by string, now time.Time) error
}

// OneTimePasscodeRepository defines OTP data access operations.
type OneTimePasscodeRepository interface {
	Create(ctx context.Context, otp *OneTimePasscode) error
	// FindByUserAndCode returns the most recently issued passcode matching
	// the code, used or not; the service decides the rejection taxonomy.
	FindByUserAndCode(ctx context.Context, userID uuid.UUID, code string) (*OneTimePasscode, error)
	// MarkUsed flips the used flag iff it is still false; returns
	// ErrOTPAlreadyUsed when another redemption won the race.
	MarkUsed(ctx context.Context, id uuid.UUID, by string, now time.Time) error
}

// PasswordResetRepository defines password-reset data access operations.
type PasswordResetRepository interface {
	Create(ctx context.Context, reset *PasswordReset) error
	FindByToken(ctx context.Context, token string) (*PasswordReset, error)
	// MarkUsed flips the used flag iff it is still false; returns
	// ErrResetAlreadyUsed when another redemption won the race.
	MarkUsed(ctx context.Context, id uuid.UUID, by string, now time.Time) error
}

// OutboxRepository defines outbox data access operations.
type OutboxRepository interface {
	Enqueue(ctx context.Context, message *OutboxMessage) error
	FindUnprocessed(ctx context.Context, limit int) ([]OutboxMessage, error)
	// MarkProcessed flips the processed flag iff it is still false.
	MarkProcessed(ctx context.Context, id uuid.UUID, now time.Time) error
}

// TxManager runs a function inside a storage transaction. Repository calls
// made with the ctx it passes join that transaction.
type TxManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// PasswordHasher defines salted password hashing operations.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, storedHash string) bool
}

// TokenService defines access-token operations.
type TokenService interface {
	GenerateAccessToken(userID uuid.UUID, role string) (token string, expiresIn int64, err error)
	ValidateAccessToken(token string) (*TokenClaims, error)
}

// NotificationService defines the external delivery channel. Delivery is
// synchronous and owns no retry logic; retry is the outbox dispatcher's job.
type NotificationService interface {
	SendSMS(to, message string) error
	SendEmail(to, subject, body string) error
}

// OTPThrottle bounds OTP issuance and redemption attempts per user.
type OTPThrottle interface {
	// AllowSend reports whether a new code may be issued, and if not, the
	// seconds remaining in the resend window.
	AllowSend(ctx context.Context, userID uuid.UUID) (bool, int64, error)
	MarkSent(ctx context.Context, userID uuid.UUID) error
	// CountAttempt atomically increments and returns the redemption attempt
	// counter for the user.
	CountAttempt(ctx context.Context, userID uuid.UUID) (int64, error)
	ResetAttempts(ctx context.Context, userID uuid.UUID) error
}

// SessionService manages refresh-token-backed sessions.
type SessionService interface {
	Create(ctx context.Context, user *User, ip string) (*Session, error)
	GetByRefreshToken(ctx context.Context, refreshToken string) (*Session, error)
	Rotate(ctx context.Context, session *Session) (*Session, error)
	Revoke(ctx context.Context, session *Session, by string) error
}

// OTPService issues and redeems two-factor passcodes. Redeem does not mark
// the passcode used; the orchestrator does, so redemption composes with
// session creation.
type OTPService interface {
	Initiate(ctx context.Context, user *User, ip string) (*OneTimePasscode, error)
	Redeem(ctx context.Context, userID uuid.UUID, code string) (*OneTimePasscode, error)
	MarkUsed(ctx context.Context, otp *OneTimePasscode, by string) error
}

// PasswordResetService issues and redeems password-reset tokens.
type PasswordResetService interface {
	Initiate(ctx context.Context, user *User) error
	Redeem(ctx context.Context, token string) (*PasswordReset, error)
	MarkUsed(ctx context.Context, reset *PasswordReset, by string) error
}

// AuthService composes the user-facing authentication flows.
type AuthService interface {
	Register(ctx context.Context, username, email, phone, password, role, ip string) (*AuthResult, error)
	Login(ctx context.Context, username, password, ip string) (*AuthResult, error)
	TwoFactorLogin(ctx context.Context, username, code, ip string) (*AuthResult, error)
	Refresh(ctx context.Context, refreshToken string) (*AuthResult, error)
	Revoke(ctx context.Context, refreshToken string) error
	ChangePassword(ctx context.Context, userID uuid.UUID, newPassword string) error
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
	GetUserProfile(ctx context.Context, userID uuid.UUID) (*User, error)
}

// PolicyService defines authorization policy operations
type PolicyService interface {
	AddPolicy(role, resource, action string) error
	RemovePolicy(role, resource, action string) error
	CheckPermission(role, resource, action string) (bool, error)
	GetPolicies() [][]string
}

// CasbinEnforcer interface defines the methods we need from Casbin enforcer
type CasbinEnforcer interface {
	AddPolicy(params ...interface{}) (bool, error)
	RemovePolicy(params ...interface{}) (bool, error)
	Enforce(rvals ...interface{}) (bool, error)
	GetPolicy() ([][]string, error)
	SavePolicy() error
}
