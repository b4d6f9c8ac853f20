package controllers

import (
	"github.com/M7HZ/bright-clinic/handlers"
	"github.com/M7HZ/bright-clinic/middlewares"
	"github.com/gin-gonic/gin"
)

type AuthController struct {
	Handler *handlers.AuthHandler
}

// NewAuthController creates a new AuthController with the given AuthHandler
func NewAuthController(authHandler *handlers.AuthHandler) *AuthController {
	return &AuthController{
		Handler: authHandler,
	}
}

// RegisterRoutes initializes all authentication routes directly on the
// router. The patient and staff surfaces are separate endpoints; a
// staff account presented on the patient surface is rejected, and vice
// versa.
func (ac *AuthController) RegisterRoutes(router *gin.Engine) {
	// Public routes: No authentication required
	router.POST("/patient-login", ac.Handler.PatientLogin)
	router.POST("/staff-login", ac.Handler.StaffLogin)
	router.POST("/patient-signup", ac.Handler.PatientSignup)
	router.POST("/staff-signup", ac.Handler.StaffSignup)
	router.POST("/send-reset-code", ac.Handler.SendResetCode)
	router.POST("/reset-password", ac.Handler.ResetPassword)
	router.POST("/auth/refresh-token", ac.Handler.RefreshToken)

	// Protected routes: Requires a valid token
	authGroup := router.Group("/auth").Use(middlewares.TokenAuthMiddleware())
	{
		authGroup.POST("/logoff", ac.Handler.Logoff)
	}
}
