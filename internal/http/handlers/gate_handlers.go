package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/you/clinicgate/domain"
	"github.com/you/clinicgate/internal/gate"
	"github.com/you/clinicgate/internal/http/middleware"
)

// GateHandlers exposes the gate decision as an advisory endpoint so
// clients can pre-check a navigation without attempting it.
type GateHandlers struct {
	gate   *gate.Gate
	gateMW *middleware.GateMW
}

// NewGateHandlers creates new gate handlers
func NewGateHandlers(g *gate.Gate, gateMW *middleware.GateMW) *GateHandlers {
	return &GateHandlers{gate: g, gateMW: gateMW}
}

// Check evaluates the gate for the route in the query string. The
// optional roles parameter is a comma-separated allowlist; omitting it
// admits any authenticated role.
func (h *GateHandlers) Check(c *gin.Context) {
	route := c.Query("route")
	if route == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "route query parameter required"})
		return
	}

	var required []domain.Role
	if raw := c.Query("roles"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			role, err := domain.ParseRole(strings.TrimSpace(part))
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown role: " + part})
				return
			}
			required = append(required, role)
		}
	}

	snap := h.gateMW.Snapshot(c)
	decision := h.gate.Protected(snap, required, route)

	resp := gin.H{
		"outcome": decision.Outcome.String(),
		"route":   route,
	}
	if decision.Target != "" {
		resp["target"] = decision.Target
	}
	if decision.Replay != "" {
		resp["replay"] = decision.Replay
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}
