package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"io"

	"github.com/you/credsvc/domain"
)

// SaltLength is the fixed salt size in bytes. The stored hash is
// base64(salt || sha256(password || salt)); without the prefixed salt,
// verification would be impossible.
const SaltLength = 16

// PasswordServiceImpl implements domain.PasswordHasher
type PasswordServiceImpl struct {
	rand io.Reader
}

// NewPasswordService creates a password hasher backed by crypto/rand.
func NewPasswordService() domain.PasswordHasher {
	return &PasswordServiceImpl{rand: rand.Reader}
}

// NewPasswordServiceWithRand creates a password hasher with an injected
// randomness source so tests can supply deterministic salts.
func NewPasswordServiceWithRand(r io.Reader) *PasswordServiceImpl {
	return &PasswordServiceImpl{rand: r}
}

// GenerateSalt produces a cryptographically random salt of fixed length.
func (p *PasswordServiceImpl) GenerateSalt() ([]byte, error) {
	salt := make([]byte, SaltLength)
	if _, err := io.ReadFull(p.rand, salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}
	return salt, nil
}

// HashWithSalt computes sha256(password || salt) and returns the salt
// prefixed to the digest, base64 encoded for storage.
func (p *PasswordServiceImpl) HashWithSalt(password string, salt []byte) string {
	salted := append([]byte(password), salt...)
	digest := sha256.Sum256(salted)

	stored := make([]byte, 0, len(salt)+len(digest))
	stored = append(stored, salt...)
	stored = append(stored, digest[:]...)

	return base64.StdEncoding.EncodeToString(stored)
}

// Hash implements domain.PasswordHasher. A fresh salt is generated on every
// call, so hashing the same password twice yields different stored values.
func (p *PasswordServiceImpl) Hash(password string) (string, error) {
	salt, err := p.GenerateSalt()
	if err != nil {
		return "", err
	}
	return p.HashWithSalt(password, salt), nil
}

// Verify implements domain.PasswordHasher. It extracts the salt from the
// stored value, recomputes the digest and compares in constant time. A
// malformed stored value is a verification failure, never an error.
func (p *PasswordServiceImpl) Verify(password, storedHash string) bool {
	decoded, err := base64.StdEncoding.DecodeString(storedHash)
	if err != nil {
		return false
	}
	if len(decoded) != SaltLength+sha256.Size {
		return false
	}

	salt := decoded[:SaltLength]
	salted := append([]byte(password), salt...)
	digest := sha256.Sum256(salted)

	return subtle.ConstantTimeCompare(decoded[SaltLength:], digest[:]) == 1
}

// Compile-time interface compliance verification
var _ domain.PasswordHasher = (*PasswordServiceImpl)(nil)
