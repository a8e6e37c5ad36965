package handler

import (
    "errors"
    "net/http"
    "strconv"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/ritmofit/booking-api/internal/queue"
    "github.com/ritmofit/booking-api/internal/repository"
    "github.com/ritmofit/booking-api/internal/service"
)

// ReservationHandler exposes the booking engine over HTTP. All
// business rules live in the service; this layer only parses input,
// maps sentinel errors to status codes and emits domain events after
// a successful commit.
type ReservationHandler struct {
    Svc     *service.BookingService
    Classes *repository.ClassRepo
    Events  *queue.Publisher
}

func NewReservationHandler(svc *service.BookingService, classes *repository.ClassRepo, ev *queue.Publisher) *ReservationHandler {
    if svc == nil || classes == nil || ev == nil {
        panic("nil dependency passed to NewReservationHandler")
    }
    return &ReservationHandler{Svc: svc, Classes: classes, Events: ev}
}

type createReservationReq struct {
    ClassID uint64 `json:"class_id"`
}

// Create handles POST /v1/reservations. On success it answers 201 with
// the reservation ID and the seats left in the class.
func (h *ReservationHandler) Create(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    var req createReservationReq
    if err := c.Bind(&req); err != nil || req.ClassID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "class_id is required"})
    }

    ctx := c.Request().Context()
    res, err := h.Svc.Create(ctx, userID, req.ClassID)
    if err != nil {
        switch {
        case errors.Is(err, service.ErrClassNotFound):
            return c.JSON(http.StatusNotFound, echo.Map{"error": "class not found"})
        case errors.Is(err, service.ErrAlreadyOccurred):
            return c.JSON(http.StatusConflict, echo.Map{"error": "class already occurred"})
        case errors.Is(err, service.ErrDuplicateReservation):
            return c.JSON(http.StatusConflict, echo.Map{"error": "already reserved for this class"})
        case errors.Is(err, service.ErrScheduleConflict):
            return c.JSON(http.StatusConflict, echo.Map{"error": "reservation overlaps with another"})
        case errors.Is(err, service.ErrCapacityExceeded):
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "class is full"})
        default:
            return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
        }
    }

    // Event enrichment is best-effort: the reservation is already
    // committed, so a catalog read or publish failure only costs the
    // notification.
    if cls, err := h.Classes.GetByID(ctx, req.ClassID); err == nil {
        starts := ""
        if at, err := cls.StartsAt(); err == nil {
            starts = at.Format(time.RFC3339)
        }
        _ = h.Events.PublishReservationConfirmed(ctx, queue.ReservationConfirmedEvent{
            ReservationID:     res.ReservationID,
            UserID:            userID,
            ClassID:           cls.ID,
            Title:             cls.Title,
            Discipline:        cls.Discipline,
            Location:          cls.Location,
            Instructor:        cls.Instructor,
            StartsAt:          starts,
            RemainingCapacity: res.RemainingCapacity,
            ConfirmedAt:       time.Now().UTC().Format(time.RFC3339),
        })
    }

    return c.JSON(http.StatusCreated, res)
}

// Cancel handles DELETE /v1/reservations/:id. Reservations belonging
// to other members answer 404, indistinguishable from a missing row.
func (h *ReservationHandler) Cancel(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    reservationID, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || reservationID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
    }

    ctx := c.Request().Context()
    if err := h.Svc.Cancel(ctx, userID, reservationID); err != nil {
        switch {
        case errors.Is(err, service.ErrReservationNotFound):
            return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
        case errors.Is(err, service.ErrAlreadyCancelled):
            return c.JSON(http.StatusConflict, echo.Map{"error": "reservation already cancelled"})
        default:
            return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
        }
    }

    _ = h.Events.PublishReservationCancelled(ctx, queue.ReservationCancelledEvent{
        ReservationID: reservationID,
        UserID:        userID,
        CancelledAt:   time.Now().UTC().Format(time.RFC3339),
    })

    return c.NoContent(http.StatusNoContent)
}

// ListMine handles GET /v1/my-reservations: the caller's confirmed
// reservations joined with class data, soonest first.
func (h *ReservationHandler) ListMine(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    details, err := h.Svc.ListMine(c.Request().Context(), userID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusOK, echo.Map{"reservations": details})
}
