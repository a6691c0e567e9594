package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/you/clinicgate/domain"
	"github.com/you/clinicgate/internal/http/middleware"
)

// AuthHandlers handles authentication HTTP requests using clean architecture
type AuthHandlers struct {
	authSvc domain.AuthService
}

// NewAuthHandlers creates new auth handlers
func NewAuthHandlers(authSvc domain.AuthService) *AuthHandlers {
	return &AuthHandlers{authSvc: authSvc}
}

// LoginRequest represents login request
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role" binding:"required"`
}

// SignupRequest represents full patient registration
type SignupRequest struct {
	Name               string         `json:"name" binding:"required"`
	Email              string         `json:"email" binding:"required,email"`
	Phone              string         `json:"phone" binding:"required"`
	Password           string         `json:"password" binding:"required,min=6"`
	DateOfBirth        string         `json:"date_of_birth,omitempty"`
	Gender             string         `json:"gender,omitempty"`
	BloodGroup         string         `json:"blood_group,omitempty"`
	EmergencyContact   map[string]any `json:"emergency_contact,omitempty"`
	Allergies          []string       `json:"allergies,omitempty"`
	ChronicConditions  []string       `json:"chronic_conditions,omitempty"`
	CurrentMedications []string       `json:"current_medications,omitempty"`
	Address            map[string]any `json:"address,omitempty"`
}

// QuickSignupRequest represents the minimal emergency registration
type QuickSignupRequest struct {
	Phone     string `json:"phone" binding:"required"`
	Name      string `json:"name,omitempty"`
	Emergency bool   `json:"emergency,omitempty"`
}

// ProfileUpdateRequest represents a profile field merge
type ProfileUpdateRequest struct {
	Name    *string        `json:"name,omitempty"`
	Phone   *string        `json:"phone,omitempty"`
	Profile map[string]any `json:"profile,omitempty"`
}

// Login handles role-scoped login
func (h *AuthHandlers) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	role, err := domain.ParseRole(req.Role)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown role"})
		return
	}

	result, err := h.authSvc.Login(c.Request.Context(), req.Email, req.Password, role)
	if err != nil {
		switch err {
		case domain.ErrInvalidCredentials:
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		case domain.ErrUserInactive:
			c.JSON(http.StatusForbidden, gin.H{"error": "Account is inactive"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Login failed"})
		}
		return
	}

	h.sessionResponse(c, http.StatusOK, result)
}

// Signup handles full patient registration with clinical profile fields
func (h *AuthHandlers) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.authSvc.Signup(c.Request.Context(), domain.PatientSignup{
		Name:               req.Name,
		Email:              req.Email,
		Phone:              req.Phone,
		Password:           req.Password,
		DateOfBirth:        req.DateOfBirth,
		Gender:             req.Gender,
		BloodGroup:         req.BloodGroup,
		EmergencyContact:   req.EmergencyContact,
		Allergies:          req.Allergies,
		ChronicConditions:  req.ChronicConditions,
		CurrentMedications: req.CurrentMedications,
		Address:            req.Address,
	})
	if err != nil {
		switch err {
		case domain.ErrEmailTaken:
			c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
		case domain.ErrPhoneTaken:
			c.JSON(http.StatusConflict, gin.H{"error": "Phone already registered"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Signup failed"})
		}
		return
	}

	h.sessionResponse(c, http.StatusCreated, result)
}

// QuickSignup handles emergency intake registration by phone number
func (h *AuthHandlers) QuickSignup(c *gin.Context) {
	var req QuickSignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.authSvc.QuickSignup(c.Request.Context(), domain.QuickSignup{
		Phone:     req.Phone,
		Name:      req.Name,
		Emergency: req.Emergency,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Quick signup failed"})
		return
	}

	status := http.StatusCreated
	if result.ExistingUser {
		status = http.StatusOK
	}
	h.sessionResponse(c, status, result)
}

// Me returns the session payload for the authenticated account
func (h *AuthHandlers) Me(c *gin.Context) {
	token := c.GetString(middleware.CtxToken)
	user, err := h.authSvc.UserFromToken(c.Request.Context(), token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"id":      user.ID,
			"name":    user.Name,
			"email":   user.Email,
			"phone":   user.Phone,
			"role":    user.Role,
			"profile": user.Profile,
		},
	})
}

// UpdateProfile merges fields into the authenticated account's profile
func (h *AuthHandlers) UpdateProfile(c *gin.Context) {
	var req ProfileUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := c.GetString(middleware.CtxUserID)
	sess, err := h.authSvc.UpdateProfile(c.Request.Context(), userID, domain.ProfileUpdate{
		Name:    req.Name,
		Phone:   req.Phone,
		Profile: req.Profile,
	})
	if err != nil {
		if err == domain.ErrUserNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Profile update failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": sessionPayload(sess)})
}

// Logout revokes the request's bearer token
func (h *AuthHandlers) Logout(c *gin.Context) {
	token := c.GetString(middleware.CtxToken)
	if err := h.authSvc.Logout(c.Request.Context(), token); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Logout failed"})
		return
	}

	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"message": "Logged out successfully"}})
}

// sessionResponse writes the standard auth success envelope and sets
// the session cookie page navigations authenticate with.
func (h *AuthHandlers) sessionResponse(c *gin.Context, status int, result *domain.AuthResult) {
	c.SetCookie(middleware.SessionCookie, result.Token, 0, "/", "", false, true)

	data := gin.H{
		"access_token": result.Token,
		"token_type":   "Bearer",
		"user":         sessionPayload(result.Session),
	}
	if result.ExistingUser {
		data["existing_user"] = true
	}
	if result.TempPassword != "" {
		data["temp_password"] = result.TempPassword
	}
	c.JSON(status, gin.H{"data": data})
}

func sessionPayload(sess *domain.Session) gin.H {
	return gin.H{
		"id":      sess.ID,
		"name":    sess.Name,
		"email":   sess.Email,
		"phone":   sess.Phone,
		"role":    sess.Role,
		"profile": sess.Profile,
	}
}
