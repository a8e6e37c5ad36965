package router

import (
    "github.com/labstack/echo/v4"

    "github.com/ritmofit/booking-api/internal/handler"
    "github.com/ritmofit/booking-api/internal/middleware"
)

// RegisterMember registers member-scoped endpoints under /v1.  All
// routes require a valid JWT.  Members can book and cancel classes,
// review their upcoming reservations and attendance history, and
// manage their own account.
func RegisterMember(e *echo.Echo, r *handler.ReservationHandler, hist *handler.HistoryHandler, p *handler.ProfileHandler, a *handler.AuthHandler, jwtSecret string) {
    g := e.Group("/v1", middleware.JWTAuth(jwtSecret))

    // Booking engine endpoints.
    g.POST("/reservations", r.Create)
    g.DELETE("/reservations/:id", r.Cancel)
    g.GET("/my-reservations", r.ListMine)

    // Attendance history of past classes.
    g.GET("/history", hist.List)

    // Account management.
    g.GET("/users/me", p.Get)
    g.PUT("/users/me", p.Update)
    g.POST("/auth/set-password", a.SetPassword)
    g.GET("/auth/me", a.Me)
    // Logout with an empty body revokes every session of the caller.
    g.POST("/logout", a.Logout)
}
