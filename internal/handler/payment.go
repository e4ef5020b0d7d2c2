package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/reservite/hotel-booking/internal/gateway"
	"github.com/reservite/hotel-booking/internal/service"
)

// PaymentHandler exposes the payment orchestrator over HTTP.
type PaymentHandler struct {
	Service  *service.PaymentService
	Verifier gateway.SignatureVerifier
	Log      *logrus.Logger
}

// NewPaymentHandler constructs a PaymentHandler.
func NewPaymentHandler(svc *service.PaymentService, verifier gateway.SignatureVerifier, log *logrus.Logger) *PaymentHandler {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &PaymentHandler{Service: svc, Verifier: verifier, Log: log}
}

type processPaymentBody struct {
	ReservationID  uint64  `json:"reservation_id"`
	Amount         float64 `json:"amount"`
	PaymentMethod  string  `json:"payment_method"`
	CardNumber     string  `json:"card_number"`
	CardHolderName string  `json:"card_holder_name"`
	ExpiryDate     string  `json:"expiry_date"`
	CVV            string  `json:"cvv"`
}

// Create handles POST /api/payments.  The response mirrors the persisted
// payment: a FAILED charge is still a 200 with status FAILED, because the
// record exists and the client should read the status rather than retry
// blindly.
func (h *PaymentHandler) Create(c echo.Context) error {
	var body processPaymentBody
	if err := c.Bind(&body); err != nil {
		return fail(c, http.StatusBadRequest, "invalid request body")
	}

	p, err := h.Service.ProcessPayment(c.Request().Context(), service.ProcessPaymentRequest{
		ReservationID:  body.ReservationID,
		Amount:         body.Amount,
		Method:         body.PaymentMethod,
		CardNumber:     body.CardNumber,
		CardHolderName: body.CardHolderName,
		ExpiryDate:     body.ExpiryDate,
		CVV:            body.CVV,
	})
	if err != nil {
		return h.translate(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":        true,
		"message":        "payment processed",
		"payment_id":     p.ID,
		"transaction_id": p.TransactionID,
		"status":         p.Status,
		"amount":         p.Amount,
	})
}

// GetByID handles GET /api/payments/:id.
func (h *PaymentHandler) GetByID(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "invalid payment id")
	}
	p, err := h.Service.GetByID(c.Request().Context(), id)
	if err != nil {
		return h.translate(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

// GetByReservation handles GET /api/payments/reservation/:reservationId.
func (h *PaymentHandler) GetByReservation(c echo.Context) error {
	reservationID, err := parseID(c, "reservationId")
	if err != nil {
		return fail(c, http.StatusBadRequest, "invalid reservation id")
	}
	p, err := h.Service.GetByReservationID(c.Request().Context(), reservationID)
	if err != nil {
		return h.translate(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

// Refund handles POST /api/payments/:id/refund.
func (h *PaymentHandler) Refund(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "invalid payment id")
	}
	p, err := h.Service.Refund(c.Request().Context(), id)
	if err != nil {
		return h.translate(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success":    true,
		"message":    "payment refunded",
		"payment_id": p.ID,
		"status":     p.Status,
	})
}

// webhookEvent is the slice of a gateway webhook delivery this service
// reads.  custom_id carries the transaction id set at order creation.
type webhookEvent struct {
	EventType string `json:"event_type"`
	Resource  struct {
		CustomID string `json:"custom_id"`
	} `json:"resource"`
}

// Webhook handles POST /api/payments/webhook.  The delivery is accepted
// only when the configured verifier approves the signature headers.  An
// accepted event is correlated with the local payment record through the
// transaction id so the settlement flow can be audited from the logs.
func (h *PaymentHandler) Webhook(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return fail(c, http.StatusBadRequest, "unreadable body")
	}
	sig := gateway.WebhookSignature{
		TransmissionID: c.Request().Header.Get("Paypal-Transmission-Id"),
		Timestamp:      c.Request().Header.Get("Paypal-Transmission-Time"),
		Signature:      c.Request().Header.Get("Paypal-Transmission-Sig"),
		Body:           body,
	}
	if err := h.Verifier.Verify(sig); err != nil {
		h.Log.Warnf("webhook rejected: %v", err)
		return fail(c, http.StatusBadRequest, "signature verification failed")
	}

	var ev webhookEvent
	_ = json.Unmarshal(body, &ev)
	log := h.Log.WithFields(logrus.Fields{
		"transmission_id": sig.TransmissionID,
		"event_type":      ev.EventType,
	})
	if ev.Resource.CustomID != "" {
		if p, err := h.Service.GetByTransactionID(c.Request().Context(), ev.Resource.CustomID); err == nil {
			log = log.WithField("payment_id", p.ID)
		} else {
			log.Warnf("webhook names an unknown transaction %q", ev.Resource.CustomID)
		}
	}
	log.Info("webhook accepted")
	return c.JSON(http.StatusOK, echo.Map{
		"received": true,
	})
}

func (h *PaymentHandler) translate(c echo.Context, err error) error {
	switch {
	case errors.Is(err, service.ErrInvalidRequest),
		errors.Is(err, service.ErrDuplicatePayment),
		errors.Is(err, service.ErrInvalidState):
		return fail(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrNotFound):
		return fail(c, http.StatusNotFound, err.Error())
	default:
		h.Log.Errorf("payment handler: %v", err)
		return fail(c, http.StatusInternalServerError, "internal error")
	}
}
