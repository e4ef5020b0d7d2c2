package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// ReservationClient is used by the payment orchestrator to confirm a
// reservation after a successful charge.  The confirm endpoint is
// idempotent, which is what makes the retry below safe; no other outbound
// call in the system is retried.
type ReservationClient struct {
	baseURL  string
	http     *http.Client
	attempts int
	backoff  time.Duration
	log      *logrus.Logger
}

// NewReservationClient builds a callback client with a per-call timeout.
// attempts bounds how many times ConfirmPayment is tried before giving up.
func NewReservationClient(baseURL string, timeout time.Duration, attempts int, log *logrus.Logger) *ReservationClient {
	if attempts < 1 {
		attempts = 1
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &ReservationClient{
		baseURL:  baseURL,
		http:     &http.Client{Timeout: timeout},
		attempts: attempts,
		backoff:  200 * time.Millisecond,
		log:      log,
	}
}

// ConfirmPayment POSTs the confirm-payment callback for a reservation.
// Unavailability is retried with doubling backoff up to the configured
// attempt count; a 404 is not retried because the reservation will not
// appear by waiting.
func (c *ReservationClient) ConfirmPayment(ctx context.Context, reservationID uint64) error {
	url := fmt.Sprintf("%s/api/reservations/%d/confirm-payment", c.baseURL, reservationID)

	var err error
	delay := c.backoff
	for attempt := 1; attempt <= c.attempts; attempt++ {
		err = c.confirmOnce(ctx, url)
		if err == nil {
			return nil
		}
		if !isRetryable(err) || attempt == c.attempts {
			return err
		}
		c.log.WithFields(logrus.Fields{
			"reservation_id": reservationID,
			"attempt":        attempt,
		}).Warnf("confirm-payment callback failed, retrying: %v", err)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}
	return err
}

func (c *ReservationClient) confirmOnce(ctx context.Context, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: reservation service: %v", ErrRemoteUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return translateStatus("reservation service", resp.StatusCode)
	}
	return nil
}

func isRetryable(err error) bool {
	return err != nil && !errors.Is(err, ErrRemoteNotFound)
}
