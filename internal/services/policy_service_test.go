package services

import (
	"errors"
	"testing"

	"github.com/you/credsvc/internal/mocks"
)

func TestPolicyService_AddPolicy(t *testing.T) {
	enforcer := mocks.NewMockCasbinEnforcer()
	svc := NewPolicyServiceWithEnforcer(enforcer)

	if err := svc.AddPolicy("admin", "/admin/*", "GET"); err != nil {
		t.Fatalf("AddPolicy() error = %v", err)
	}

	policies := svc.GetPolicies()
	if len(policies) != 1 {
		t.Fatalf("got %d policies, want 1", len(policies))
	}
	if policies[0][0] != "role_admin" {
		t.Errorf("subject = %s, want role_admin", policies[0][0])
	}
	if enforcer.SaveCalls != 1 {
		t.Errorf("SavePolicy called %d times, want 1", enforcer.SaveCalls)
	}
}

func TestPolicyService_AddPolicyPrefixedRole(t *testing.T) {
	enforcer := mocks.NewMockCasbinEnforcer()
	svc := NewPolicyServiceWithEnforcer(enforcer)

	if err := svc.AddPolicy("role_admin", "/admin/*", "GET"); err != nil {
		t.Fatalf("AddPolicy() error = %v", err)
	}

	policies := svc.GetPolicies()
	if policies[0][0] != "role_admin" {
		t.Errorf("subject = %s, want role_admin (no double prefix)", policies[0][0])
	}
}

func TestPolicyService_RemovePolicy(t *testing.T) {
	enforcer := mocks.NewMockCasbinEnforcer()
	svc := NewPolicyServiceWithEnforcer(enforcer)

	if err := svc.AddPolicy("user", "/auth/me", "GET"); err != nil {
		t.Fatalf("AddPolicy() error = %v", err)
	}
	if err := svc.RemovePolicy("user", "/auth/me", "GET"); err != nil {
		t.Fatalf("RemovePolicy() error = %v", err)
	}
	if got := len(svc.GetPolicies()); got != 0 {
		t.Errorf("got %d policies after removal, want 0", got)
	}
}

func TestPolicyService_CheckPermission(t *testing.T) {
	enforcer := mocks.NewMockCasbinEnforcer()
	svc := NewPolicyServiceWithEnforcer(enforcer)

	if err := svc.AddPolicy("user", "/auth/me", "GET"); err != nil {
		t.Fatalf("AddPolicy() error = %v", err)
	}

	allowed, err := svc.CheckPermission("user", "/auth/me", "GET")
	if err != nil {
		t.Fatalf("CheckPermission() error = %v", err)
	}
	if !allowed {
		t.Error("expected permission to be granted")
	}

	allowed, err = svc.CheckPermission("user", "/admin/policies", "GET")
	if err != nil {
		t.Fatalf("CheckPermission() error = %v", err)
	}
	if allowed {
		t.Error("expected permission to be denied")
	}
}

func TestPolicyService_EnforcerFailure(t *testing.T) {
	enforcer := mocks.NewMockCasbinEnforcer()
	enforcer.AddPolicyFunc = func(params ...interface{}) (bool, error) {
		return false, errors.New("adapter unavailable")
	}
	svc := NewPolicyServiceWithEnforcer(enforcer)

	if err := svc.AddPolicy("user", "/auth/me", "GET"); err == nil {
		t.Error("expected enforcer failure to surface")
	}
	if enforcer.SaveCalls != 0 {
		t.Error("SavePolicy must not run after a failed mutation")
	}
}
