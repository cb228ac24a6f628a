package auth

import (
	"bytes"
	"crypto/sha256"
	"encoding/base64"
	"strings"
	"testing"
)

func TestPasswordService_HashAndVerify(t *testing.T) {
	svc := NewPasswordService()

	tests := []struct {
		name     string
		password string
	}{
		{"simple password", "password123"},
		{"empty password", ""},
		{"unicode password", "пароль-密码-🔑"},
		{"long password", strings.Repeat("a", 256)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stored, err := svc.Hash(tt.password)
			if err != nil {
				t.Fatalf("Hash() error = %v", err)
			}
			if !svc.Verify(tt.password, stored) {
				t.Error("Verify() = false for the original password")
			}
			if svc.Verify(tt.password+"x", stored) {
				t.Error("Verify() = true for a different password")
			}
		})
	}
}

func TestPasswordService_FreshSaltPerHash(t *testing.T) {
	svc := NewPasswordService()

	first, err := svc.Hash("samepassword")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	second, err := svc.Hash("samepassword")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}

	if first == second {
		t.Error("hashing the same password twice must yield different stored values")
	}
	if !svc.Verify("samepassword", first) || !svc.Verify("samepassword", second) {
		t.Error("both stored values must verify against the original password")
	}
}

func TestPasswordService_StoredFormat(t *testing.T) {
	salt := bytes.Repeat([]byte{0xAB}, SaltLength)
	svc := NewPasswordServiceWithRand(bytes.NewReader(salt))

	stored, err := svc.Hash("secret")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}

	decoded, err := base64.StdEncoding.DecodeString(stored)
	if err != nil {
		t.Fatalf("stored value is not valid base64: %v", err)
	}
	if len(decoded) != SaltLength+sha256.Size {
		t.Fatalf("decoded length = %d, want %d", len(decoded), SaltLength+sha256.Size)
	}
	if !bytes.Equal(decoded[:SaltLength], salt) {
		t.Error("stored value must begin with the salt")
	}

	digest := sha256.Sum256(append([]byte("secret"), salt...))
	if !bytes.Equal(decoded[SaltLength:], digest[:]) {
		t.Error("stored value must end with sha256(password || salt)")
	}
}

func TestPasswordService_VerifyMalformed(t *testing.T) {
	svc := NewPasswordService()

	tests := []struct {
		name   string
		stored string
	}{
		{"not base64", "%%%not-base64%%%"},
		{"empty", ""},
		{"too short", base64.StdEncoding.EncodeToString([]byte("short"))},
		{"too long", base64.StdEncoding.EncodeToString(bytes.Repeat([]byte{1}, SaltLength+sha256.Size+1))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if svc.Verify("anything", tt.stored) {
				t.Error("Verify() = true for malformed stored value")
			}
		})
	}
}
