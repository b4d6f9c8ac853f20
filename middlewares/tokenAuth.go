package middlewares

import (
	"context"
	"errors"
	"net/http"

	"github.com/M7HZ/bright-clinic/models"
	"github.com/M7HZ/bright-clinic/session"
	"github.com/M7HZ/bright-clinic/utils"
	"github.com/gin-gonic/gin"
)

// contextKey defines a custom context key type to store user details in the context.
type contextKey string

const (
	userIDKey    contextKey = "userID"
	userEmailKey contextKey = "userEmail"
	userRoleKey  contextKey = "userRole"
)

// TokenAuthMiddleware validates the access token and adds user details
// to the request context. The token is read from the accessToken cookie,
// falling back to the accessToken query parameter.
func TokenAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractAccessToken(c)
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing access token"})
			c.Abort()
			return
		}

		claims, err := utils.ValidateToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			c.Abort()
			return
		}

		ctx := context.WithValue(c.Request.Context(), userIDKey, claims.UserID)
		ctx = context.WithValue(ctx, userEmailKey, claims.Email)
		ctx = context.WithValue(ctx, userRoleKey, claims.Role)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// RoleGuardMiddleware protects a dashboard group with the route guard.
// The guard itself is pure; this middleware only maps its verdict onto
// HTTP: a redirect verdict becomes 401 (no identity) or 403 (wrong
// role), both carrying the login surface to send the client to.
func RoleGuardMiddleware(requiredRole models.AppRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		st := stateFromContext(c.Request.Context())

		verdict := session.Decide(st, requiredRole)
		switch verdict.Decision {
		case session.DecisionAllow:
			c.Next()
		case session.DecisionRedirect:
			status := http.StatusForbidden
			if st.User == nil {
				status = http.StatusUnauthorized
			}
			c.JSON(status, gin.H{
				"error":    "Forbidden: insufficient privileges",
				"redirect": verdict.RedirectTo,
			})
			c.Abort()
		default:
			// Token-backed state is always resolved; an unresolved state
			// here means the middleware chain is miswired.
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Session state unavailable"})
			c.Abort()
		}
	}
}

// stateFromContext rebuilds the resolved session state from the claims
// the token middleware stored.
func stateFromContext(ctx context.Context) session.State {
	userID, ok := ctx.Value(userIDKey).(string)
	if !ok || userID == "" {
		return session.State{Loading: false}
	}
	email, _ := ctx.Value(userEmailKey).(string)
	role, _ := ctx.Value(userRoleKey).(models.AppRole)
	return session.State{
		User:    &session.Identity{ID: userID, Email: email},
		Role:    role,
		Loading: false,
	}
}

func extractAccessToken(c *gin.Context) string {
	if cookie, err := c.Cookie(utils.AccessTokenCookie); err == nil && cookie != "" {
		return cookie
	}
	return c.DefaultQuery(utils.AccessTokenCookie, "")
}

// ExtractUserIDFromContext retrieves the userID from the context.
func ExtractUserIDFromContext(ctx context.Context) (string, error) {
	userID, ok := ctx.Value(userIDKey).(string)
	if !ok {
		return "", errors.New("user ID not found in context")
	}
	return userID, nil
}

// ExtractUserRoleFromContext retrieves the user role from the context.
func ExtractUserRoleFromContext(ctx context.Context) (models.AppRole, error) {
	userRole, ok := ctx.Value(userRoleKey).(models.AppRole)
	if !ok {
		return "", errors.New("user role not found in context")
	}
	return userRole, nil
}
