package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/reservite/hotel-booking/internal/model"
)

// ReservationRepo provides CRUD operations for reservations.  Each method
// is a single statement against the reservations table; the row is the
// atomicity boundary of the create-reservation saga.  All timestamps are
// stored in UTC.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

const reservationColumns = `id, user_id, hotel_id, room_id, check_in, check_out,
	first_name, last_name, email, phone, special_requests,
	total_price, status, created_at, updated_at`

// Create inserts a new reservation and populates the generated id and the
// database-assigned timestamps on the provided model.
func (r *ReservationRepo) Create(ctx context.Context, res *model.Reservation) error {
	const q = `INSERT INTO reservations
		(user_id, hotel_id, room_id, check_in, check_out,
		 first_name, last_name, email, phone, special_requests,
		 total_price, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	result, err := r.db.ExecContext(ctx, q,
		res.UserID, res.HotelID, res.RoomID, res.CheckIn, res.CheckOut,
		res.FirstName, res.LastName, res.Email, res.Phone, res.SpecialRequests,
		res.TotalPrice, res.Status,
	)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	res.ID = uint64(id)
	// Query back the full row to pick up created_at/updated_at defaults.
	const sel = `SELECT ` + reservationColumns + ` FROM reservations WHERE id = ?`
	return scanReservation(r.db.QueryRowContext(ctx, sel, res.ID), res)
}

// GetByID loads one reservation.  ErrReservationNotFound is returned when
// the row does not exist.
func (r *ReservationRepo) GetByID(ctx context.Context, id uint64) (*model.Reservation, error) {
	const q = `SELECT ` + reservationColumns + ` FROM reservations WHERE id = ?`
	var res model.Reservation
	if err := scanReservation(r.db.QueryRowContext(ctx, q, id), &res); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}
	return &res, nil
}

// ListAll returns every reservation ordered by creation time.
func (r *ReservationRepo) ListAll(ctx context.Context) ([]model.Reservation, error) {
	const q = `SELECT ` + reservationColumns + ` FROM reservations ORDER BY created_at DESC`
	return r.list(ctx, q)
}

// ListByUser returns the reservations belonging to one user.
func (r *ReservationRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Reservation, error) {
	const q = `SELECT ` + reservationColumns + ` FROM reservations WHERE user_id = ? ORDER BY created_at DESC`
	return r.list(ctx, q, userID)
}

// UpdateStatus sets the status of a reservation.  The UPDATE is the single
// transactional unit of the confirm transition; updated_at advances via the
// column's ON UPDATE clause.  ErrReservationNotFound is returned when no
// row matched.
func (r *ReservationRepo) UpdateStatus(ctx context.Context, id uint64, status string) error {
	const q = `UPDATE reservations SET status = ? WHERE id = ?`
	result, err := r.db.ExecContext(ctx, q, status, id)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// MySQL also reports 0 rows when the status already holds the target
		// value; treat that as success for idempotent confirms.
		if _, getErr := r.GetByID(ctx, id); getErr != nil {
			return getErr
		}
	}
	return nil
}

// Delete removes a reservation row.  ErrReservationNotFound is returned
// when nothing was deleted.
func (r *ReservationRepo) Delete(ctx context.Context, id uint64) error {
	const q = `DELETE FROM reservations WHERE id = ?`
	result, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrReservationNotFound
	}
	return nil
}

func (r *ReservationRepo) list(ctx context.Context, q string, args ...any) ([]model.Reservation, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Reservation, 0)
	for rows.Next() {
		var res model.Reservation
		if err := scanReservation(rows, &res); err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, rows.Err()
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanReservation(s scanner, res *model.Reservation) error {
	var roomID sql.NullInt64
	err := s.Scan(
		&res.ID, &res.UserID, &res.HotelID, &roomID, &res.CheckIn, &res.CheckOut,
		&res.FirstName, &res.LastName, &res.Email, &res.Phone, &res.SpecialRequests,
		&res.TotalPrice, &res.Status, &res.CreatedAt, &res.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if roomID.Valid {
		id := uint64(roomID.Int64)
		res.RoomID = &id
	}
	return nil
}
