package httpx

import (
	"github.com/gin-gonic/gin"

	"github.com/you/credsvc/internal/http/handlers"
	"github.com/you/credsvc/internal/http/middleware"
)

// BuildRouter wires handlers and middleware into the gin engine.
func BuildRouter(ah *handlers.AuthHandlers, ph *handlers.PolicyHandlers, jwtMW *middleware.AuthMW, casbinMW *middleware.CasbinMW) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })

	auth := r.Group("/auth")
	auth.POST("/register", ah.Register)
	auth.POST("/login", ah.Login)
	auth.POST("/2fa/verify", ah.TwoFactorVerify)
	auth.POST("/refresh", ah.Refresh)
	auth.POST("/password-reset/request", ah.RequestPasswordReset)
	auth.POST("/password-reset/complete", ah.ResetPassword)

	v := r.Group("/").Use(jwtMW.WithJWT(), casbinMW.Enforce())
	v.GET("/auth/me", ah.Me)
	v.POST("/auth/logout", ah.Logout)
	v.POST("/auth/password", ah.ChangePassword)

	adm := r.Group("/admin").Use(jwtMW.WithJWT(), casbinMW.Enforce())
	adm.GET("/policies", ph.List)
	adm.POST("/policies", ph.Add)
	adm.DELETE("/policies", ph.Remove)

	return r
}
