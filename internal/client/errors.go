// Package client contains the HTTP clients for the remote collaborators of
// the two orchestrators: the identity (user) service, the inventory (hotel)
// service and the reservation confirmation callback.  Remote failures are
// translated into two sentinel errors so callers can separate "the thing
// does not exist" from "the service is unreachable" without inspecting
// status codes.
package client

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrRemoteNotFound is returned when a collaborator reports 404 for the
// requested resource.
var ErrRemoteNotFound = errors.New("remote resource not found")

// ErrRemoteUnavailable is returned for transport failures and any non-2xx
// response other than 404.
var ErrRemoteUnavailable = errors.New("remote service unavailable")

// translateStatus maps a non-2xx HTTP status to the sentinel taxonomy.
func translateStatus(what string, status int) error {
	if status == http.StatusNotFound {
		return fmt.Errorf("%w: %s", ErrRemoteNotFound, what)
	}
	return fmt.Errorf("%w: %s returned status %d", ErrRemoteUnavailable, what, status)
}
