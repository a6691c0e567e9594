package httpx

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/you/clinicgate/domain"
	"github.com/you/clinicgate/internal/http/handlers"
	"github.com/you/clinicgate/internal/http/middleware"
	"github.com/you/clinicgate/internal/routes"
)

func BuildRouter(ah *handlers.AuthHandlers, gh *handlers.GateHandlers, ph *handlers.PolicyHandlers, authmw *middleware.AuthMW, gatemw *middleware.GateMW, cb *middleware.CasbinMW, table *routes.Table) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })

	auth := r.Group("/auth")
	auth.POST("/login", ah.Login)
	auth.POST("/signup", ah.Signup)
	auth.POST("/quick-signup", ah.QuickSignup)

	v := r.Group("/").Use(authmw.WithBearer())
	v.GET("/auth/me", ah.Me)
	v.PUT("/auth/profile", ah.UpdateProfile)
	v.POST("/auth/logout", ah.Logout)

	// Advisory gate check; unauthenticated callers get a redirect
	// decision, not an error.
	r.GET("/session/gate", gh.Check)

	// Page routes. Each role's subtree is gated; the login page bounces
	// signed-in visitors back to their landing route.
	r.GET(table.LoginPath(), gatemw.Public(), loginPage)

	patient := r.Group("/patient").Use(gatemw.Protected(domain.RolePatient))
	patient.GET("/home", page("patient home"))
	patient.GET("/records", page("patient records"))

	doctor := r.Group("/doctor").Use(gatemw.Protected(domain.RoleDoctor))
	doctor.GET("/dashboard", page("doctor dashboard"))
	doctor.GET("/patients", page("doctor patient list"))

	hospital := r.Group("/hospital").Use(gatemw.Protected(domain.RoleHospital))
	hospital.GET("/dashboard", page("hospital dashboard"))

	adm := r.Group("/admin").Use(authmw.WithBearer(), cb.Enforce())
	adm.GET("/policies", ph.List)
	adm.POST("/policies", ph.Add)
	adm.DELETE("/policies", ph.Remove)

	return r
}

func loginPage(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"page": "login", "redirect": c.Query("redirect")})
}

// page returns a placeholder page handler; real deployments put a
// template or SPA shell here.
func page(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"page": name})
	}
}
