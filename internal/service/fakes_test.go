package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/reservite/hotel-booking/internal/client"
	"github.com/reservite/hotel-booking/internal/gateway"
	"github.com/reservite/hotel-booking/internal/model"
	"github.com/reservite/hotel-booking/internal/queue"
	"github.com/reservite/hotel-booking/internal/repository"
)

// In-memory collaborators for the orchestrator tests.  They model exactly
// the contracts the services rely on: existence lookups, per-row stores,
// and a unique payment per reservation.

type fakeUsers struct {
	users map[uint64]client.UserRecord
	err   error
}

func (f *fakeUsers) GetUser(_ context.Context, id uint64) (*client.UserRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.users[id]
	if !ok {
		return nil, fmt.Errorf("%w: user", client.ErrRemoteNotFound)
	}
	return &u, nil
}

type availabilityCall struct {
	hotelID   uint64
	roomID    uint64
	available bool
}

type fakeHotels struct {
	hotels    map[uint64]client.HotelRecord
	rooms     map[string]client.RoomRecord
	lookupErr error
	availErr  error
	calls     []availabilityCall
}

func roomKey(hotelID, roomID uint64) string { return fmt.Sprintf("%d/%d", hotelID, roomID) }

func (f *fakeHotels) GetHotel(_ context.Context, id uint64) (*client.HotelRecord, error) {
	if f.lookupErr != nil {
		return nil, f.lookupErr
	}
	h, ok := f.hotels[id]
	if !ok {
		return nil, fmt.Errorf("%w: hotel", client.ErrRemoteNotFound)
	}
	return &h, nil
}

func (f *fakeHotels) GetRoom(_ context.Context, hotelID, roomID uint64) (*client.RoomRecord, error) {
	if f.lookupErr != nil {
		return nil, f.lookupErr
	}
	r, ok := f.rooms[roomKey(hotelID, roomID)]
	if !ok {
		return nil, fmt.Errorf("%w: room", client.ErrRemoteNotFound)
	}
	return &r, nil
}

func (f *fakeHotels) UpdateRoomAvailability(_ context.Context, hotelID, roomID uint64, available bool) error {
	if f.availErr != nil {
		return f.availErr
	}
	f.calls = append(f.calls, availabilityCall{hotelID: hotelID, roomID: roomID, available: available})
	return nil
}

type fakeReservationStore struct {
	rows          map[uint64]model.Reservation
	nextID        uint64
	statusUpdates int
}

func newFakeReservationStore() *fakeReservationStore {
	return &fakeReservationStore{rows: map[uint64]model.Reservation{}}
}

func (f *fakeReservationStore) Create(_ context.Context, res *model.Reservation) error {
	f.nextID++
	res.ID = f.nextID
	f.rows[res.ID] = *res
	return nil
}

func (f *fakeReservationStore) GetByID(_ context.Context, id uint64) (*model.Reservation, error) {
	res, ok := f.rows[id]
	if !ok {
		return nil, repository.ErrReservationNotFound
	}
	return &res, nil
}

func (f *fakeReservationStore) ListAll(_ context.Context) ([]model.Reservation, error) {
	out := make([]model.Reservation, 0, len(f.rows))
	for _, r := range f.rows {
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeReservationStore) ListByUser(_ context.Context, userID uint64) ([]model.Reservation, error) {
	out := make([]model.Reservation, 0)
	for _, r := range f.rows {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeReservationStore) UpdateStatus(_ context.Context, id uint64, status string) error {
	res, ok := f.rows[id]
	if !ok {
		return repository.ErrReservationNotFound
	}
	res.Status = status
	f.rows[id] = res
	f.statusUpdates++
	return nil
}

func (f *fakeReservationStore) Delete(_ context.Context, id uint64) error {
	if _, ok := f.rows[id]; !ok {
		return repository.ErrReservationNotFound
	}
	delete(f.rows, id)
	return nil
}

type fakePaymentStore struct {
	rows   map[uint64]model.Payment
	byRes  map[uint64]uint64
	nextID uint64
}

func newFakePaymentStore() *fakePaymentStore {
	return &fakePaymentStore{rows: map[uint64]model.Payment{}, byRes: map[uint64]uint64{}}
}

func (f *fakePaymentStore) Create(_ context.Context, p *model.Payment) error {
	if _, exists := f.byRes[p.ReservationID]; exists {
		return repository.ErrDuplicatePayment
	}
	f.nextID++
	p.ID = f.nextID
	f.rows[p.ID] = *p
	f.byRes[p.ReservationID] = p.ID
	return nil
}

func (f *fakePaymentStore) GetByID(_ context.Context, id uint64) (*model.Payment, error) {
	p, ok := f.rows[id]
	if !ok {
		return nil, repository.ErrPaymentNotFound
	}
	return &p, nil
}

func (f *fakePaymentStore) GetByReservationID(_ context.Context, reservationID uint64) (*model.Payment, error) {
	id, ok := f.byRes[reservationID]
	if !ok {
		return nil, repository.ErrPaymentNotFound
	}
	return f.GetByID(context.Background(), id)
}

func (f *fakePaymentStore) GetByTransactionID(_ context.Context, txnID string) (*model.Payment, error) {
	for _, p := range f.rows {
		if p.TransactionID == txnID {
			return &p, nil
		}
	}
	return nil, repository.ErrPaymentNotFound
}

func (f *fakePaymentStore) UpdateStatus(_ context.Context, id uint64, status string) error {
	p, ok := f.rows[id]
	if !ok {
		return repository.ErrPaymentNotFound
	}
	p.Status = status
	f.rows[id] = p
	return nil
}

type fakeGateway struct {
	approve bool
	err     error
	last    gateway.ChargeRequest
	calls   int
}

func (f *fakeGateway) Charge(_ context.Context, req gateway.ChargeRequest) (bool, error) {
	f.calls++
	f.last = req
	return f.approve, f.err
}

type fakeNotifier struct {
	calls []uint64
	err   error
}

func (f *fakeNotifier) ConfirmPayment(_ context.Context, reservationID uint64) error {
	if f.err != nil {
		return f.err
	}
	f.calls = append(f.calls, reservationID)
	return nil
}

type stubIDs struct{ id string }

func (s stubIDs) NewTransactionID() string { return s.id }

type fakeEvents struct {
	reservationEvents []queue.ReservationConfirmedEvent
	paymentEvents     []queue.PaymentCompletedEvent
	err               error
}

func (f *fakeEvents) PublishReservationConfirmed(_ context.Context, ev queue.ReservationConfirmedEvent) error {
	if f.err != nil {
		return f.err
	}
	f.reservationEvents = append(f.reservationEvents, ev)
	return nil
}

func (f *fakeEvents) PublishPaymentCompleted(_ context.Context, ev queue.PaymentCompletedEvent) error {
	if f.err != nil {
		return f.err
	}
	f.paymentEvents = append(f.paymentEvents, ev)
	return nil
}

var errBoom = errors.New("boom")
