package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// HotelRecord is the subset of the hotel-service hotel response used here.
type HotelRecord struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

// RoomRecord carries the price and availability of a single room.  Price
// drives billing at reservation time; Available is advisory only (see the
// reservation service for the policy).
type RoomRecord struct {
	ID        uint64  `json:"id"`
	Price     float64 `json:"price"`
	Available bool    `json:"available"`
}

// HotelClient talks to the inventory (hotel) service for hotel/room lookups
// and for the room-availability mutation.
type HotelClient struct {
	baseURL string
	http    *http.Client
}

// NewHotelClient builds a client for the hotel service with a per-call timeout.
func NewHotelClient(baseURL string, timeout time.Duration) *HotelClient {
	return &HotelClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// GetHotel fetches a hotel by id.
func (c *HotelClient) GetHotel(ctx context.Context, id uint64) (*HotelRecord, error) {
	var h HotelRecord
	url := fmt.Sprintf("%s/api/hotels/%d", c.baseURL, id)
	if err := c.getJSON(ctx, url, "hotel service", &h); err != nil {
		return nil, err
	}
	return &h, nil
}

// GetRoom fetches one room of a hotel, including its nightly price and
// current availability flag.
func (c *HotelClient) GetRoom(ctx context.Context, hotelID, roomID uint64) (*RoomRecord, error) {
	var r RoomRecord
	url := fmt.Sprintf("%s/api/hotels/%d/rooms/%d", c.baseURL, hotelID, roomID)
	if err := c.getJSON(ctx, url, "hotel service", &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// UpdateRoomAvailability sets the availability flag of a room.  Callers
// treat failures here as non-fatal; the error is returned for logging only.
func (c *HotelClient) UpdateRoomAvailability(ctx context.Context, hotelID, roomID uint64, available bool) error {
	body, err := json.Marshal(map[string]bool{"available": available})
	if err != nil {
		return err
	}
	url := fmt.Sprintf("%s/api/hotels/%d/rooms/%d/availability", c.baseURL, hotelID, roomID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: hotel service: %v", ErrRemoteUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return translateStatus("hotel service", resp.StatusCode)
	}
	return nil
}

func (c *HotelClient) getJSON(ctx context.Context, url, what string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrRemoteUnavailable, what, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return translateStatus(what, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %s: decoding response: %v", ErrRemoteUnavailable, what, err)
	}
	return nil
}
