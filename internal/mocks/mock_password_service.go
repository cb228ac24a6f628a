package mocks

import (
	"github.com/you/credsvc/domain"
)

// MockPasswordService implements domain.PasswordHasher for testing
type MockPasswordService struct {
	HashFunc   func(password string) (string, error)
	VerifyFunc func(password, storedHash string) bool
}

// NewMockPasswordService creates a new MockPasswordService with default behaviors
func NewMockPasswordService() *MockPasswordService {
	return &MockPasswordService{}
}

func (m *MockPasswordService) Hash(password string) (string, error) {
	if m.HashFunc != nil {
		return m.HashFunc(password)
	}
	return "hashed_" + password, nil
}

func (m *MockPasswordService) Verify(password, storedHash string) bool {
	if m.VerifyFunc != nil {
		return m.VerifyFunc(password, storedHash)
	}
	return storedHash == "hashed_"+password
}

var _ domain.PasswordHasher = (*MockPasswordService)(nil)
