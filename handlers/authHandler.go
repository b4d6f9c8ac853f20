package handlers

import (
	"errors"
	"log"

	"github.com/M7HZ/bright-clinic/middlewares"
	"github.com/M7HZ/bright-clinic/models"
	"github.com/M7HZ/bright-clinic/services"
	"github.com/M7HZ/bright-clinic/utils"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	AuthService services.AuthService
}

func NewAuthHandler(authService services.AuthService) *AuthHandler {
	return &AuthHandler{AuthService: authService}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// PatientLogin authenticates a patient on the patient surface. Staff
// accounts are rejected here and must use the staff surface.
func (h *AuthHandler) PatientLogin(c *gin.Context) {
	h.login(c, false)
}

// StaffLogin authenticates a doctor or clerk admin on the staff surface.
func (h *AuthHandler) StaffLogin(c *gin.Context) {
	h.login(c, true)
}

func (h *AuthHandler) login(c *gin.Context, staffSurface bool) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "Invalid request body"})
		return
	}

	ctx := c.Request.Context()
	result, err := h.AuthService.SignIn(ctx, req.Email, req.Password, staffSurface)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrRoleMissing):
			c.JSON(403, gin.H{"error": "Account has no assigned role"})
		case errors.Is(err, services.ErrAuthFailure):
			c.JSON(401, gin.H{"error": "Invalid email or password"})
		default:
			middlewares.HttpError(c, "Login failed", 500, err)
		}
		return
	}

	utils.SetAuthCookies(c, result.AccessToken, result.RefreshToken)
	c.JSON(200, result)
}

// PatientSignup registers a new patient account.
func (h *AuthHandler) PatientSignup(c *gin.Context) {
	var req services.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "Invalid request body"})
		return
	}
	req.Role = models.RolePatient

	h.signup(c, req)
}

// StaffSignup registers a doctor or clerk admin account. The staff
// surface carries the role in the body; patient is not accepted here.
func (h *AuthHandler) StaffSignup(c *gin.Context) {
	var req services.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "Invalid request body"})
		return
	}
	if !req.Role.IsStaff() {
		c.JSON(400, gin.H{"error": "Staff signup requires a staff role"})
		return
	}

	h.signup(c, req)
}

func (h *AuthHandler) signup(c *gin.Context, req services.SignupRequest) {
	ctx := c.Request.Context()
	identity, err := h.AuthService.SignUp(ctx, req)
	if err != nil {
		if services.IsValidation(err) {
			respondValidation(c, err)
			return
		}
		middlewares.HttpError(c, "Signup failed", 500, err)
		return
	}

	c.JSON(201, gin.H{"user": identity})
}

// RefreshToken exchanges a valid refresh token for a fresh access token.
// The refresh token is read from the cookie, falling back to the body.
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	token, err := c.Cookie(utils.RefreshTokenCookie)
	if err != nil || token == "" {
		var body struct {
			RefreshToken string `json:"refreshToken"`
		}
		if err := c.ShouldBindJSON(&body); err == nil {
			token = body.RefreshToken
		}
	}
	if token == "" {
		c.JSON(400, gin.H{"error": "Refresh token is required"})
		return
	}

	result, err := h.AuthService.RefreshAccessToken(token)
	if err != nil {
		c.JSON(401, gin.H{"error": "Invalid refresh token"})
		return
	}

	utils.SetAuthCookies(c, result.AccessToken, token)
	c.JSON(200, gin.H{
		"accessToken": result.AccessToken,
		"expiresAt":   result.ExpiresAt,
	})
}

// Logoff logs the user out by clearing cookies.
func (h *AuthHandler) Logoff(c *gin.Context) {
	utils.ClearAuthCookies(c)
	c.Status(200)
}

// SendResetCode sends a password reset code to the user's email.
func (h *AuthHandler) SendResetCode(c *gin.Context) {
	var data struct {
		Email       string `json:"email"`
		RedirectURL string `json:"redirect_url"`
	}
	if err := c.ShouldBindJSON(&data); err != nil {
		c.JSON(400, gin.H{"error": "Invalid request body"})
		return
	}

	ctx := c.Request.Context()
	if err := h.AuthService.SendResetCode(ctx, data.Email, data.RedirectURL); err != nil {
		// Do not reveal whether the email exists.
		log.Printf("Send reset code for %s: %v", data.Email, err)
	}
	c.JSON(200, gin.H{"message": "If the account exists, a reset code has been sent"})
}

// ResetPassword verifies the emailed code and sets a new password.
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var data struct {
		Email       string `json:"email"`
		Code        string `json:"code"`
		NewPassword string `json:"new_password"`
	}
	if err := c.ShouldBindJSON(&data); err != nil {
		c.JSON(400, gin.H{"error": "Invalid request body"})
		return
	}

	ctx := c.Request.Context()
	if err := h.AuthService.ResetPassword(ctx, data.Email, data.Code, data.NewPassword); err != nil {
		if services.IsValidation(err) {
			respondValidation(c, err)
			return
		}
		c.JSON(401, gin.H{"error": "Invalid or expired reset code"})
		return
	}

	c.JSON(200, gin.H{"message": "Password has been reset"})
}
