// Package router registers the HTTP routes of each orchestrator binary.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/reservite/hotel-booking/internal/handler"
)

// RegisterReservation wires the reservation orchestrator's routes.  The
// read projections go through the response cache when one is provided.
func RegisterReservation(e *echo.Echo, h *handler.ReservationHandler, cache echo.MiddlewareFunc) {
	e.GET("/healthz", handler.Health)

	g := e.Group("/api/reservations")
	g.POST("", h.Create)
	g.DELETE("/:id", h.Cancel)
	g.POST("/:id/confirm-payment", h.ConfirmPayment)

	if cache != nil {
		g.GET("", h.GetAll, cache)
		g.GET("/:id", h.GetByID, cache)
		g.GET("/user/:userId", h.GetByUser, cache)
	} else {
		g.GET("", h.GetAll)
		g.GET("/:id", h.GetByID)
		g.GET("/user/:userId", h.GetByUser)
	}
}

// RegisterPayment wires the payment orchestrator's routes.  Processing is
// rate limited when a limiter is provided; the webhook is not, since the
// gateway controls its own delivery rate.
func RegisterPayment(e *echo.Echo, h *handler.PaymentHandler, limit echo.MiddlewareFunc) {
	e.GET("/healthz", handler.Health)

	g := e.Group("/api/payments")
	g.GET("/health", handler.Health) // legacy path kept for old monitors
	if limit != nil {
		g.POST("", h.Create, limit)
	} else {
		g.POST("", h.Create)
	}
	g.GET("/:id", h.GetByID)
	g.GET("/reservation/:reservationId", h.GetByReservation)
	g.POST("/:id/refund", h.Refund)
	g.POST("/webhook", h.Webhook)
}
