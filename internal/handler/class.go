package handler

import (
    "net/http"
    "strconv"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/ritmofit/booking-api/internal/repository"
)

// ClassHandler serves the public class catalog. Reads only; the
// catalog is seeded by migrations and managed out of band.
type ClassHandler struct {
    Classes *repository.ClassRepo
}

func NewClassHandler(classes *repository.ClassRepo) *ClassHandler {
    if classes == nil {
        panic("nil repository passed to NewClassHandler")
    }
    return &ClassHandler{Classes: classes}
}

// List handles GET /v1/classes with optional discipline, location and
// date (YYYY-MM-DD) query filters.
func (h *ClassHandler) List(c echo.Context) error {
    f := repository.ClassFilter{
        Discipline: c.QueryParam("discipline"),
        Location:   c.QueryParam("location"),
        Date:       c.QueryParam("date"),
    }
    if f.Date != "" {
        if _, err := time.Parse("2006-01-02", f.Date); err != nil {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be YYYY-MM-DD"})
        }
    }
    sessions, err := h.Classes.List(c.Request().Context(), f)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusOK, echo.Map{"classes": sessions})
}

// GetByID handles GET /v1/classes/:id.
func (h *ClassHandler) GetByID(c echo.Context) error {
    id, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || id == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid class id"})
    }
    cs, err := h.Classes.GetByID(c.Request().Context(), id)
    if err != nil {
        if err == repository.ErrClassNotFound {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "class not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusOK, cs)
}
