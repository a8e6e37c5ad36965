package router // package router defines how HTTP routes are registered for the API

import (
    "github.com/labstack/echo/v4"

    "github.com/ritmofit/booking-api/internal/handler"
)

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance.  Currently it exposes only a health check,
// used by load balancers and monitoring to verify the service is up.
func RegisterRoutes(e *echo.Echo) {
    e.GET("/healthz", handler.Health)
}

// RegisterAuth registers all authentication-related routes.  The login
// flows under /v1/auth need no session; set-password, logout-all and me
// require a valid access token and are registered by RegisterMember.
// Optional middleware (the rate limiter in production) applies to the
// whole group.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, mw ...echo.MiddlewareFunc) {
    g := e.Group("/v1/auth", mw...)
    // Passwordless flow: request a mailed code, then exchange it.
    g.POST("/request-otp", a.RequestOTP)
    g.POST("/verify-otp", a.VerifyOTP)
    // Password login for accounts that set one.
    g.POST("/login", a.Login)
    // Rotates the refresh token and returns a fresh pair.
    g.POST("/refresh", a.Refresh)
    // Logout with a refresh token in the body needs no JWT; the handler
    // validates and revokes that single session.
    g.POST("/logout", a.Logout)
}

// RegisterCatalog registers the public class catalog.  The optional
// middleware slot is where the response cache goes in production.
func RegisterCatalog(e *echo.Echo, h *handler.ClassHandler, mw ...echo.MiddlewareFunc) {
    g := e.Group("/v1/classes", mw...)
    g.GET("", h.List)
    g.GET("/:id", h.GetByID)
}
