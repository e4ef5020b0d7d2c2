package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/reservite/hotel-booking/internal/service"
)

// dateLayout is the wire format of check-in/check-out dates.
const dateLayout = "2006-01-02"

// ReservationHandler exposes the reservation orchestrator over HTTP.  Every
// failure body carries a success flag and a human-readable message; raw
// internals of unexpected errors are never exposed.
type ReservationHandler struct {
	Service *service.ReservationService
	Log     *logrus.Logger
}

// NewReservationHandler constructs a ReservationHandler.
func NewReservationHandler(svc *service.ReservationService, log *logrus.Logger) *ReservationHandler {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &ReservationHandler{Service: svc, Log: log}
}

type createReservationBody struct {
	UserID          uint64  `json:"user_id"`
	HotelID         uint64  `json:"hotel_id"`
	RoomID          *uint64 `json:"room_id"`
	CheckIn         string  `json:"check_in"`
	CheckOut        string  `json:"check_out"`
	FirstName       string  `json:"first_name"`
	LastName        string  `json:"last_name"`
	Email           string  `json:"email"`
	Phone           string  `json:"phone"`
	SpecialRequests string  `json:"special_requests"`
}

// Create handles POST /api/reservations.  The room id is required at this
// surface (the service itself tolerates roomless reservations for internal
// callers).  Dates must parse as YYYY-MM-DD.
func (h *ReservationHandler) Create(c echo.Context) error {
	var body createReservationBody
	if err := c.Bind(&body); err != nil {
		return fail(c, http.StatusBadRequest, "invalid request body")
	}
	if body.RoomID == nil {
		return fail(c, http.StatusBadRequest, "room id is required")
	}
	if body.CheckIn == "" || body.CheckOut == "" {
		return fail(c, http.StatusBadRequest, "check-in and check-out dates are required")
	}
	checkIn, err := time.ParseInLocation(dateLayout, body.CheckIn, time.UTC)
	if err != nil {
		return fail(c, http.StatusBadRequest, "check-in date must be formatted YYYY-MM-DD")
	}
	checkOut, err := time.ParseInLocation(dateLayout, body.CheckOut, time.UTC)
	if err != nil {
		return fail(c, http.StatusBadRequest, "check-out date must be formatted YYYY-MM-DD")
	}

	res, err := h.Service.Create(c.Request().Context(), service.CreateReservationRequest{
		UserID:          body.UserID,
		HotelID:         body.HotelID,
		RoomID:          body.RoomID,
		CheckIn:         checkIn,
		CheckOut:        checkOut,
		FirstName:       body.FirstName,
		LastName:        body.LastName,
		Email:           body.Email,
		Phone:           body.Phone,
		SpecialRequests: body.SpecialRequests,
	})
	if err != nil {
		return h.translate(c, err)
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"success":        true,
		"message":        "reservation created",
		"id":             res.ID,
		"reservation_id": res.ID,
		"status":         res.Status,
		"reservation":    res,
	})
}

// GetAll handles GET /api/reservations.
func (h *ReservationHandler) GetAll(c echo.Context) error {
	items, err := h.Service.ListAll(c.Request().Context())
	if err != nil {
		return h.translate(c, err)
	}
	return c.JSON(http.StatusOK, items)
}

// GetByID handles GET /api/reservations/:id.
func (h *ReservationHandler) GetByID(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "invalid reservation id")
	}
	res, err := h.Service.GetByID(c.Request().Context(), id)
	if err != nil {
		return h.translate(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

// GetByUser handles GET /api/reservations/user/:userId.
func (h *ReservationHandler) GetByUser(c echo.Context) error {
	userID, err := parseID(c, "userId")
	if err != nil {
		return fail(c, http.StatusBadRequest, "invalid user id")
	}
	items, err := h.Service.ListByUser(c.Request().Context(), userID)
	if err != nil {
		return h.translate(c, err)
	}
	return c.JSON(http.StatusOK, items)
}

// Cancel handles DELETE /api/reservations/:id.
func (h *ReservationHandler) Cancel(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "invalid reservation id")
	}
	if err := h.Service.Cancel(c.Request().Context(), id); err != nil {
		return h.translate(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "reservation cancelled",
	})
}

// ConfirmPayment handles POST /api/reservations/:id/confirm-payment, the
// idempotent callback the payment orchestrator invokes after a successful
// charge.
func (h *ReservationHandler) ConfirmPayment(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "invalid reservation id")
	}
	if err := h.Service.ConfirmPayment(c.Request().Context(), id); err != nil {
		return h.translate(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "payment confirmed",
	})
}

// translate maps the service error taxonomy to HTTP outcomes.
func (h *ReservationHandler) translate(c echo.Context, err error) error {
	switch {
	case errors.Is(err, service.ErrInvalidRequest):
		return fail(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrReferenceNotFound), errors.Is(err, service.ErrNotFound):
		return fail(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrUpstreamUnavailable):
		return fail(c, http.StatusBadGateway, "an upstream service is unavailable, please retry")
	default:
		h.Log.Errorf("reservation handler: %v", err)
		return fail(c, http.StatusInternalServerError, "internal error")
	}
}

func fail(c echo.Context, status int, msg string) error {
	return c.JSON(status, echo.Map{
		"success": false,
		"message": msg,
	})
}

func parseID(c echo.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("invalid id")
	}
	return id, nil
}
