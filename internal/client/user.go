package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// UserRecord is the subset of the user-service response the reservation
// orchestrator cares about.  Existence is the point of the lookup; the
// remaining fields are carried for logging only.
type UserRecord struct {
	ID    uint64 `json:"id"`
	Email string `json:"email"`
}

// UserClient talks to the identity (user) service.
type UserClient struct {
	baseURL string
	http    *http.Client
}

// NewUserClient builds a client for the user service.  Every call runs
// under the given timeout so a stalled identity service cannot block a
// reservation request indefinitely.
func NewUserClient(baseURL string, timeout time.Duration) *UserClient {
	return &UserClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// GetUser fetches a user by id.  A 404 yields ErrRemoteNotFound; transport
// errors and other statuses yield ErrRemoteUnavailable.
func (c *UserClient) GetUser(ctx context.Context, id uint64) (*UserRecord, error) {
	url := fmt.Sprintf("%s/api/users/%d", c.baseURL, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: user service: %v", ErrRemoteUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, translateStatus("user service", resp.StatusCode)
	}

	var u UserRecord
	if err := json.NewDecoder(resp.Body).Decode(&u); err != nil {
		return nil, fmt.Errorf("%w: user service: decoding response: %v", ErrRemoteUnavailable, err)
	}
	return &u, nil
}
