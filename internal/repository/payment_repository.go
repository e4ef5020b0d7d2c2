package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"

	"github.com/reservite/hotel-booking/internal/model"
)

// mysqlDuplicateEntry is the MySQL error number for a unique-key violation.
const mysqlDuplicateEntry = 1062

// PaymentRepo provides CRUD operations for payments.  The payments table
// carries UNIQUE keys on reservation_id and transaction_id; the first one
// enforces the at-most-one-payment-per-reservation invariant even when
// multiple payment orchestrator instances race.
type PaymentRepo struct {
	db *sql.DB
}

// NewPaymentRepo returns a PaymentRepo bound to the given database.
func NewPaymentRepo(db *sql.DB) *PaymentRepo { return &PaymentRepo{db: db} }

const paymentColumns = `id, reservation_id, amount, payment_method, transaction_id,
	status, card_number, card_holder_name, expiry_date, created_at, updated_at`

// Create inserts a new payment and populates the generated id and
// timestamps.  A unique-key violation on reservation_id surfaces as
// ErrDuplicatePayment.
func (r *PaymentRepo) Create(ctx context.Context, p *model.Payment) error {
	const q = `INSERT INTO payments
		(reservation_id, amount, payment_method, transaction_id,
		 status, card_number, card_holder_name, expiry_date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	result, err := r.db.ExecContext(ctx, q,
		p.ReservationID, p.Amount, p.Method, p.TransactionID,
		p.Status, p.CardNumber, p.CardHolderName, p.ExpiryDate,
	)
	if err != nil {
		var me *mysql.MySQLError
		if errors.As(err, &me) && me.Number == mysqlDuplicateEntry {
			return ErrDuplicatePayment
		}
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	const sel = `SELECT ` + paymentColumns + ` FROM payments WHERE id = ?`
	return scanPayment(r.db.QueryRowContext(ctx, sel, p.ID), p)
}

// GetByID loads one payment by primary key.
func (r *PaymentRepo) GetByID(ctx context.Context, id uint64) (*model.Payment, error) {
	const q = `SELECT ` + paymentColumns + ` FROM payments WHERE id = ?`
	return r.getOne(ctx, q, id)
}

// GetByReservationID loads the payment attached to a reservation, if any.
func (r *PaymentRepo) GetByReservationID(ctx context.Context, reservationID uint64) (*model.Payment, error) {
	const q = `SELECT ` + paymentColumns + ` FROM payments WHERE reservation_id = ?`
	return r.getOne(ctx, q, reservationID)
}

// GetByTransactionID loads a payment by its externally visible transaction id.
func (r *PaymentRepo) GetByTransactionID(ctx context.Context, txnID string) (*model.Payment, error) {
	const q = `SELECT ` + paymentColumns + ` FROM payments WHERE transaction_id = ?`
	return r.getOne(ctx, q, txnID)
}

// UpdateStatus sets the status of a payment.  ErrPaymentNotFound is
// returned when the row does not exist.
func (r *PaymentRepo) UpdateStatus(ctx context.Context, id uint64, status string) error {
	const q = `UPDATE payments SET status = ? WHERE id = ?`
	result, err := r.db.ExecContext(ctx, q, status, id)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		if _, getErr := r.GetByID(ctx, id); getErr != nil {
			return getErr
		}
	}
	return nil
}

func (r *PaymentRepo) getOne(ctx context.Context, q string, arg any) (*model.Payment, error) {
	var p model.Payment
	if err := scanPayment(r.db.QueryRowContext(ctx, q, arg), &p); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	return &p, nil
}

func scanPayment(s scanner, p *model.Payment) error {
	return s.Scan(
		&p.ID, &p.ReservationID, &p.Amount, &p.Method, &p.TransactionID,
		&p.Status, &p.CardNumber, &p.CardHolderName, &p.ExpiryDate,
		&p.CreatedAt, &p.UpdatedAt,
	)
}
