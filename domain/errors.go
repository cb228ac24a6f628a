package domain

import "errors"

// Authentication errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrTwoFactorRequired  = errors.New("two-factor authentication required")
)

// OTP errors
var (
	ErrOTPNotFound    = errors.New("otp not found")
	ErrOTPInvalid     = errors.New("invalid otp code")
	ErrOTPExpired     = errors.New("otp has expired")
	ErrOTPAlreadyUsed = errors.New("otp has already been used")
	ErrOTPMaxAttempts = errors.New("maximum otp attempts exceeded")
	ErrOTPResendLimit = errors.New("otp resend limit exceeded")
)

// Password reset errors
var (
	ErrResetNotFound    = errors.New("password reset not found")
	ErrResetExpired     = errors.New("password reset has expired")
	ErrResetAlreadyUsed = errors.New("password reset has already been used")
)

// Token errors
var (
	ErrTokenInvalid   = errors.New("invalid token")
	ErrTokenExpired   = errors.New("token has expired")
	ErrTokenMalformed = errors.New("malformed token")
)

// Session errors
var (
	ErrSessionNotFound   = errors.New("session not found")
	ErrSessionExpired    = errors.New("session has expired")
	ErrSessionRevoked    = errors.New("session has been revoked")
	ErrConcurrentRefresh = errors.New("concurrent token refresh detected")
)

// Authorization and storage errors
var (
	ErrUnauthorized = errors.New("unauthorized access")
	ErrConflict     = errors.New("uniqueness conflict")
)
