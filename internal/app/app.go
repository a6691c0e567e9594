package app

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/you/clinicgate/domain"
	"github.com/you/clinicgate/internal/config"
	httpx "github.com/you/clinicgate/internal/http"
	"github.com/you/clinicgate/internal/http/handlers"
	"github.com/you/clinicgate/internal/http/middleware"
	"github.com/you/clinicgate/internal/services"
)

func Run(cfg *config.Config, log *zap.Logger) error {
	c, err := NewContainer(cfg, log)
	if err != nil {
		return err
	}

	ctx := context.Background()
	if err := services.SeedDemoUsers(ctx, c.UserRepo, c.PasswordSvc, log); err != nil {
		return err
	}
	if err := seedPolicies(c); err != nil {
		return err
	}

	authH := handlers.NewAuthHandlers(c.AuthSvc)
	polH := &handlers.PolicyHandlers{Svc: c.PolicySvc}

	authMW := middleware.NewAuthMW(c.AuthSvc)
	gateMW := middleware.NewGateMW(c.Gate, c.AuthSvc, c.Audit, log)
	casbinMW := middleware.NewCasbinMW(c.PolicySvc)
	gateH := handlers.NewGateHandlers(c.Gate, gateMW)

	r := httpx.BuildRouter(authH, gateH, polH, authMW, gateMW, casbinMW, c.Routes)

	addr := ":" + cfg.Port
	log.Info("listening", zap.String("addr", addr))
	return http.ListenAndServe(addr, r)
}

// seedPolicies installs the default role policies on an empty policy
// table: each role may call the authed API surface, and only hospital
// admins may touch the policy endpoints.
func seedPolicies(c *Container) error {
	policies, err := c.PolicySvc.Policies()
	if err != nil {
		return err
	}
	if len(policies) > 0 {
		return nil
	}

	type rule struct {
		role     domain.Role
		resource string
		action   string
	}
	rules := []rule{
		{domain.RoleHospital, "/admin/policies", "(GET|POST|DELETE)"},
	}
	for _, role := range domain.Roles() {
		rules = append(rules,
			rule{role, "/auth/me", "GET"},
			rule{role, "/auth/profile", "PUT"},
			rule{role, "/auth/logout", "POST"},
		)
	}
	for _, r := range rules {
		if err := c.PolicySvc.AddPolicy(r.role, r.resource, r.action); err != nil {
			return err
		}
	}
	c.Log.Info("casbin: seeded default policies", zap.Int("count", len(rules)))
	return nil
}
