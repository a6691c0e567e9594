package services

import (
	"fmt"

	"github.com/you/clinicgate/domain"
)

// PolicyServiceImpl implements domain.PolicyService over a Casbin
// enforcer.
type PolicyServiceImpl struct {
	enforcer domain.CasbinEnforcer
}

// NewPolicyService creates a new policy service
func NewPolicyService(enforcer domain.CasbinEnforcer) domain.PolicyService {
	return &PolicyServiceImpl{enforcer: enforcer}
}

// AddPolicy implements domain.PolicyService
func (s *PolicyServiceImpl) AddPolicy(role domain.Role, resource, action string) error {
	if !role.Valid() {
		return domain.ErrUnknownRole
	}
	ok, err := s.enforcer.AddPolicy(casbinRole(role), resource, action)
	if err != nil {
		return fmt.Errorf("failed to add policy: %w", err)
	}
	if ok {
		return s.enforcer.SavePolicy()
	}
	return nil
}

// RemovePolicy implements domain.PolicyService
func (s *PolicyServiceImpl) RemovePolicy(role domain.Role, resource, action string) error {
	ok, err := s.enforcer.RemovePolicy(casbinRole(role), resource, action)
	if err != nil {
		return fmt.Errorf("failed to remove policy: %w", err)
	}
	if ok {
		return s.enforcer.SavePolicy()
	}
	return nil
}

// CheckPermission implements domain.PolicyService
func (s *PolicyServiceImpl) CheckPermission(role domain.Role, resource, action string) (bool, error) {
	return s.enforcer.Enforce(casbinRole(role), resource, action)
}

// Policies implements domain.PolicyService
func (s *PolicyServiceImpl) Policies() ([][]string, error) {
	return s.enforcer.GetPolicy()
}

func casbinRole(role domain.Role) string {
	return "role_" + role.String()
}
