package utils

import (
	"time"

	"github.com/gin-gonic/gin"
)

// Cookie names shared by the auth handlers and the token middleware.
const (
	AccessTokenCookie  = "accessToken"
	RefreshTokenCookie = "refreshToken"
)

// cookiePath scopes the auth cookies to the whole portal so every
// dashboard surface sends them.
const cookiePath = "/"

// SetAuthCookies installs both token cookies with lifetimes matching
// the tokens they carry.
func SetAuthCookies(c *gin.Context, accessToken, refreshToken string) {
	setCookie(c, AccessTokenCookie, accessToken, AccessTokenExpiry)
	setCookie(c, RefreshTokenCookie, refreshToken, RefreshTokenExpiry)
}

// ClearAuthCookies expires both token cookies, used on logoff.
func ClearAuthCookies(c *gin.Context) {
	clearCookie(c, AccessTokenCookie)
	clearCookie(c, RefreshTokenCookie)
}

func setCookie(c *gin.Context, name, value string, expiry time.Duration) {
	c.SetCookie(name, value, int(expiry.Seconds()), cookiePath, "", cookieSecure(), true)
}

func clearCookie(c *gin.Context, name string) {
	c.SetCookie(name, "", -1, cookiePath, "", cookieSecure(), true)
}

func cookieSecure() bool {
	// Toggle for local dev
	return gin.Mode() != gin.DebugMode
}
