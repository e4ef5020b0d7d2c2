package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/reservite/hotel-booking/internal/client"
	"github.com/reservite/hotel-booking/internal/model"
	"github.com/reservite/hotel-booking/internal/queue"
	"github.com/reservite/hotel-booking/internal/repository"
)

// DefaultNightlyRate is billed when a reservation carries no room id and no
// price can be resolved from inventory.
const DefaultNightlyRate = 100.0

// UserDirectory is the identity-lookup collaborator.
type UserDirectory interface {
	GetUser(ctx context.Context, id uint64) (*client.UserRecord, error)
}

// HotelCatalog is the inventory collaborator: lookups plus the
// availability mutation used as a best-effort side effect.
type HotelCatalog interface {
	GetHotel(ctx context.Context, id uint64) (*client.HotelRecord, error)
	GetRoom(ctx context.Context, hotelID, roomID uint64) (*client.RoomRecord, error)
	UpdateRoomAvailability(ctx context.Context, hotelID, roomID uint64, available bool) error
}

// ReservationStore is the persistence collaborator for reservations.
type ReservationStore interface {
	Create(ctx context.Context, res *model.Reservation) error
	GetByID(ctx context.Context, id uint64) (*model.Reservation, error)
	ListAll(ctx context.Context) ([]model.Reservation, error)
	ListByUser(ctx context.Context, userID uint64) ([]model.Reservation, error)
	UpdateStatus(ctx context.Context, id uint64, status string) error
	Delete(ctx context.Context, id uint64) error
}

// ReservationEvents publishes reservation domain events.
type ReservationEvents interface {
	PublishReservationConfirmed(ctx context.Context, ev queue.ReservationConfirmedEvent) error
}

// CreateReservationRequest is the validated input of Create.  Dates carry
// day precision; RoomID may be nil (billing falls back to
// DefaultNightlyRate).
type CreateReservationRequest struct {
	UserID          uint64
	HotelID         uint64
	RoomID          *uint64
	CheckIn         time.Time
	CheckOut        time.Time
	FirstName       string
	LastName        string
	Email           string
	Phone           string
	SpecialRequests string
}

// ReservationService orchestrates the reservation half of the booking
// saga.  The persisted reservation row is the atomicity boundary: the
// operation either fails before any write or commits a durable PENDING
// reservation.  The inventory mutation that follows is detached and its
// failure never unwinds the write.
type ReservationService struct {
	users  UserDirectory
	hotels HotelCatalog
	store  ReservationStore
	events ReservationEvents
	log    *logrus.Logger
}

// NewReservationService wires the orchestrator.  events may be nil when no
// broker is configured.
func NewReservationService(users UserDirectory, hotels HotelCatalog, store ReservationStore, events ReservationEvents, log *logrus.Logger) *ReservationService {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &ReservationService{users: users, hotels: hotels, store: store, events: events, log: log}
}

// Create validates a booking request, prices it and persists it PENDING.
// Validation order: dates first, then user, hotel and room existence
// against their owning services.  Room availability is deliberately not a
// precondition (inventory is not compare-and-set capable); an unavailable
// room is logged so double-bookings stay traceable.
func (s *ReservationService) Create(ctx context.Context, req CreateReservationRequest) (*model.Reservation, error) {
	if req.CheckIn.IsZero() || req.CheckOut.IsZero() {
		return nil, fmt.Errorf("%w: check-in and check-out dates are required", ErrInvalidRequest)
	}
	if !req.CheckOut.After(req.CheckIn) {
		return nil, fmt.Errorf("%w: check-out date must be after check-in date", ErrInvalidRequest)
	}

	if _, err := s.users.GetUser(ctx, req.UserID); err != nil {
		if errors.Is(err, client.ErrRemoteNotFound) {
			return nil, fmt.Errorf("%w: user %d", ErrReferenceNotFound, req.UserID)
		}
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}

	if _, err := s.hotels.GetHotel(ctx, req.HotelID); err != nil {
		if errors.Is(err, client.ErrRemoteNotFound) {
			return nil, fmt.Errorf("%w: hotel %d", ErrReferenceNotFound, req.HotelID)
		}
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}

	pricePerNight := DefaultNightlyRate
	if req.RoomID != nil {
		room, err := s.hotels.GetRoom(ctx, req.HotelID, *req.RoomID)
		if err != nil {
			if errors.Is(err, client.ErrRemoteNotFound) {
				return nil, fmt.Errorf("%w: room %d", ErrReferenceNotFound, *req.RoomID)
			}
			return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
		}
		if !room.Available {
			// Not enforced: two concurrent creates can still race to the same
			// room.  Logged so the reconciliation flow can find them.
			s.log.WithFields(logrus.Fields{
				"hotel_id": req.HotelID,
				"room_id":  *req.RoomID,
				"user_id":  req.UserID,
			}).Warn("reserving a room currently flagged unavailable")
		}
		if room.Price > 0 {
			pricePerNight = room.Price
		}
	}

	res := &model.Reservation{
		UserID:          req.UserID,
		HotelID:         req.HotelID,
		RoomID:          req.RoomID,
		CheckIn:         req.CheckIn,
		CheckOut:        req.CheckOut,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Email:           req.Email,
		Phone:           req.Phone,
		SpecialRequests: req.SpecialRequests,
		TotalPrice:      float64(model.NightsBetween(req.CheckIn, req.CheckOut)) * pricePerNight,
		Status:          model.ReservationPending,
	}
	if err := s.store.Create(ctx, res); err != nil {
		return nil, fmt.Errorf("persisting reservation: %w", err)
	}

	// Detached side effect: mark the room unavailable.  The reservation row
	// is already durable; a failure here is compensated by cancellation or
	// reconciliation, never by rolling back.
	if req.RoomID != nil {
		if err := s.hotels.UpdateRoomAvailability(ctx, req.HotelID, *req.RoomID, false); err != nil {
			s.log.WithFields(logrus.Fields{
				"reservation_id": res.ID,
				"hotel_id":       req.HotelID,
				"room_id":        *req.RoomID,
			}).Warnf("could not mark room unavailable: %v", err)
		}
	}

	s.log.WithFields(logrus.Fields{
		"reservation_id": res.ID,
		"user_id":        res.UserID,
		"total_price":    res.TotalPrice,
	}).Info("reservation created")
	return res, nil
}

// ConfirmPayment transitions a reservation to CONFIRMED.  It is invoked by
// the payment orchestrator after a successful charge and is idempotent: a
// reservation already CONFIRMED is left untouched and reported as success,
// which is what makes callback retries safe.
func (s *ReservationService) ConfirmPayment(ctx context.Context, id uint64) error {
	res, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrReservationNotFound) {
			return fmt.Errorf("%w: reservation %d", ErrNotFound, id)
		}
		return err
	}
	if res.Status == model.ReservationConfirmed {
		s.log.WithField("reservation_id", id).Info("reservation already confirmed, skipping")
		return nil
	}
	if err := s.store.UpdateStatus(ctx, id, model.ReservationConfirmed); err != nil {
		return err
	}

	if s.events != nil {
		ev := queue.ReservationConfirmedEvent{
			ReservationID: res.ID,
			UserID:        res.UserID,
			HotelID:       res.HotelID,
			RoomID:        res.RoomID,
			TotalPrice:    res.TotalPrice,
			ConfirmedAt:   time.Now().UTC().Format(time.RFC3339),
		}
		if err := s.events.PublishReservationConfirmed(ctx, ev); err != nil {
			s.log.WithField("reservation_id", id).Warnf("could not publish confirmation event: %v", err)
		}
	}

	s.log.WithField("reservation_id", id).Info("reservation confirmed")
	return nil
}

// Cancel releases the room (best effort) and deletes the reservation.
// Deletion is unconditional with respect to payment status; a confirmed
// reservation being cancelled is logged because no refund is triggered
// automatically.
func (s *ReservationService) Cancel(ctx context.Context, id uint64) error {
	res, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrReservationNotFound) {
			return fmt.Errorf("%w: reservation %d", ErrNotFound, id)
		}
		return err
	}
	if res.Status == model.ReservationConfirmed {
		s.log.WithField("reservation_id", id).Warn("cancelling a confirmed reservation; refund must be requested separately")
	}

	// Compensating action for the availability flag, best effort like the
	// original mutation.
	if res.RoomID != nil {
		if err := s.hotels.UpdateRoomAvailability(ctx, res.HotelID, *res.RoomID, true); err != nil {
			s.log.WithFields(logrus.Fields{
				"reservation_id": id,
				"hotel_id":       res.HotelID,
				"room_id":        *res.RoomID,
			}).Warnf("could not release room: %v", err)
		}
	}

	if err := s.store.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrReservationNotFound) {
			return fmt.Errorf("%w: reservation %d", ErrNotFound, id)
		}
		return err
	}
	s.log.WithField("reservation_id", id).Info("reservation cancelled")
	return nil
}

// GetByID loads a single reservation.
func (s *ReservationService) GetByID(ctx context.Context, id uint64) (*model.Reservation, error) {
	res, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrReservationNotFound) {
			return nil, fmt.Errorf("%w: reservation %d", ErrNotFound, id)
		}
		return nil, err
	}
	return res, nil
}

// ListAll returns every reservation.
func (s *ReservationService) ListAll(ctx context.Context) ([]model.Reservation, error) {
	return s.store.ListAll(ctx)
}

// ListByUser returns the reservations of one user.
func (s *ReservationService) ListByUser(ctx context.Context, userID uint64) ([]model.Reservation, error) {
	return s.store.ListByUser(ctx, userID)
}
