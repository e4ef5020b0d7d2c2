package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/reservite/hotel-booking/internal/gateway"
	"github.com/reservite/hotel-booking/internal/idgen"
	"github.com/reservite/hotel-booking/internal/model"
	"github.com/reservite/hotel-booking/internal/queue"
	"github.com/reservite/hotel-booking/internal/repository"
)

// PaymentStore is the persistence collaborator for payments.
type PaymentStore interface {
	Create(ctx context.Context, p *model.Payment) error
	GetByID(ctx context.Context, id uint64) (*model.Payment, error)
	GetByReservationID(ctx context.Context, reservationID uint64) (*model.Payment, error)
	GetByTransactionID(ctx context.Context, txnID string) (*model.Payment, error)
	UpdateStatus(ctx context.Context, id uint64, status string) error
}

// ConfirmationNotifier delivers the confirm-payment callback to the
// reservation orchestrator.  Implementations may retry internally; the
// callback is idempotent on the receiving side.
type ConfirmationNotifier interface {
	ConfirmPayment(ctx context.Context, reservationID uint64) error
}

// PaymentEvents publishes payment domain events.
type PaymentEvents interface {
	PublishPaymentCompleted(ctx context.Context, ev queue.PaymentCompletedEvent) error
}

// ProcessPaymentRequest is the input of ProcessPayment.  CardNumber and CVV
// are used for the gateway call only; the store never sees more than the
// masked form of the number.
type ProcessPaymentRequest struct {
	ReservationID  uint64
	Amount         float64
	Method         string
	CardNumber     string
	CardHolderName string
	ExpiryDate     string
	CVV            string
}

// PaymentService orchestrates the payment half of the booking saga: it
// guards the one-payment-per-reservation invariant, drives the gateway
// charge to a terminal status, and notifies the reservation orchestrator
// on success.
type PaymentService struct {
	store    PaymentStore
	gate     gateway.CardGateway
	notifier ConfirmationNotifier
	ids      idgen.Generator
	events   PaymentEvents
	log      *logrus.Logger
}

// NewPaymentService wires the orchestrator.  events may be nil when no
// broker is configured.
func NewPaymentService(store PaymentStore, gate gateway.CardGateway, notifier ConfirmationNotifier, ids idgen.Generator, events PaymentEvents, log *logrus.Logger) *PaymentService {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &PaymentService{store: store, gate: gate, notifier: notifier, ids: ids, events: events, log: log}
}

// ProcessPayment validates and charges a payment for a reservation.  The
// duplicate guard is status-blind: a reservation whose payment FAILED
// cannot be paid again by creating a second record.  Gateway faults are
// mapped to a FAILED payment so the record always lands in a terminal
// status.  On COMPLETED the reservation orchestrator is notified best
// effort; the payment result does not depend on the callback.
func (s *PaymentService) ProcessPayment(ctx context.Context, req ProcessPaymentRequest) (*model.Payment, error) {
	if req.Amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be greater than 0", ErrInvalidRequest)
	}
	if req.ReservationID == 0 {
		return nil, fmt.Errorf("%w: reservation id is required", ErrInvalidRequest)
	}

	if _, err := s.store.GetByReservationID(ctx, req.ReservationID); err == nil {
		return nil, fmt.Errorf("%w (reservation %d)", ErrDuplicatePayment, req.ReservationID)
	} else if !errors.Is(err, repository.ErrPaymentNotFound) {
		return nil, err
	}

	method := req.Method
	if method == "" {
		method = model.DefaultPaymentMethod
	}
	payment := &model.Payment{
		ReservationID:  req.ReservationID,
		Amount:         req.Amount,
		Method:         method,
		TransactionID:  s.ids.NewTransactionID(),
		CardNumber:     model.MaskCardNumber(req.CardNumber),
		CardHolderName: req.CardHolderName,
		ExpiryDate:     req.ExpiryDate,
	}

	ok, err := s.gate.Charge(ctx, gateway.ChargeRequest{
		Amount:         req.Amount,
		CardNumber:     req.CardNumber,
		CardHolderName: req.CardHolderName,
		ExpiryDate:     req.ExpiryDate,
		CVV:            req.CVV,
		IdempotencyKey: payment.TransactionID,
	})
	if err != nil {
		// A misbehaving gateway is a terminal FAILED outcome, never an
		// unhandled fault: the record must exist either way.
		s.log.WithField("reservation_id", req.ReservationID).Warnf("gateway error, payment marked failed: %v", err)
		ok = false
	}
	if ok {
		payment.Status = model.PaymentCompleted
	} else {
		payment.Status = model.PaymentFailed
	}

	if err := s.store.Create(ctx, payment); err != nil {
		if errors.Is(err, repository.ErrDuplicatePayment) {
			// Lost the race against a concurrent request; the unique key is
			// the authority.
			return nil, fmt.Errorf("%w (reservation %d)", ErrDuplicatePayment, req.ReservationID)
		}
		return nil, fmt.Errorf("persisting payment: %w", err)
	}

	if payment.Status == model.PaymentCompleted {
		s.confirmAndAnnounce(ctx, payment)
	}

	s.log.WithFields(logrus.Fields{
		"payment_id":     payment.ID,
		"reservation_id": payment.ReservationID,
		"transaction_id": payment.TransactionID,
		"status":         payment.Status,
	}).Info("payment processed")
	return payment, nil
}

// confirmAndAnnounce runs the post-charge side effects.  Both are best
// effort: a COMPLETED payment with a pending confirmation is a legitimate
// intermediate state that a later (idempotent) callback retry resolves.
func (s *PaymentService) confirmAndAnnounce(ctx context.Context, payment *model.Payment) {
	if err := s.notifier.ConfirmPayment(ctx, payment.ReservationID); err != nil {
		s.log.WithFields(logrus.Fields{
			"payment_id":     payment.ID,
			"reservation_id": payment.ReservationID,
		}).Warnf("reservation confirmation callback failed: %v", err)
	}

	if s.events != nil {
		ev := queue.PaymentCompletedEvent{
			PaymentID:     payment.ID,
			ReservationID: payment.ReservationID,
			Amount:        payment.Amount,
			TransactionID: payment.TransactionID,
			CompletedAt:   time.Now().UTC().Format(time.RFC3339),
		}
		if err := s.events.PublishPaymentCompleted(ctx, ev); err != nil {
			s.log.WithField("payment_id", payment.ID).Warnf("could not publish completion event: %v", err)
		}
	}
}

// GetByID loads one payment.
func (s *PaymentService) GetByID(ctx context.Context, id uint64) (*model.Payment, error) {
	p, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrPaymentNotFound) {
			return nil, fmt.Errorf("%w: payment %d", ErrNotFound, id)
		}
		return nil, err
	}
	return p, nil
}

// GetByReservationID loads the payment attached to a reservation.
func (s *PaymentService) GetByReservationID(ctx context.Context, reservationID uint64) (*model.Payment, error) {
	p, err := s.store.GetByReservationID(ctx, reservationID)
	if err != nil {
		if errors.Is(err, repository.ErrPaymentNotFound) {
			return nil, fmt.Errorf("%w: no payment for reservation %d", ErrNotFound, reservationID)
		}
		return nil, err
	}
	return p, nil
}

// GetByTransactionID loads a payment by its externally visible transaction
// id.  The webhook flow uses this to correlate gateway events with local
// records.
func (s *PaymentService) GetByTransactionID(ctx context.Context, txnID string) (*model.Payment, error) {
	p, err := s.store.GetByTransactionID(ctx, txnID)
	if err != nil {
		if errors.Is(err, repository.ErrPaymentNotFound) {
			return nil, fmt.Errorf("%w: no payment with transaction id %q", ErrNotFound, txnID)
		}
		return nil, err
	}
	return p, nil
}

// Refund transitions a COMPLETED payment to REFUNDED.  Any other current
// status yields ErrInvalidState, which also makes a second refund of the
// same payment fail.  No reservation or inventory change is triggered
// here; compensating the booking itself is a separate flow.
func (s *PaymentService) Refund(ctx context.Context, id uint64) (*model.Payment, error) {
	p, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrPaymentNotFound) {
			return nil, fmt.Errorf("%w: payment %d", ErrNotFound, id)
		}
		return nil, err
	}
	if p.Status != model.PaymentCompleted {
		return nil, fmt.Errorf("%w: only completed payments can be refunded", ErrInvalidState)
	}
	if err := s.store.UpdateStatus(ctx, id, model.PaymentRefunded); err != nil {
		return nil, err
	}
	p.Status = model.PaymentRefunded
	s.log.WithField("payment_id", id).Info("payment refunded")
	return p, nil
}
