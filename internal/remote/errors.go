package remote

import (
	"errors"
	"fmt"
)

// Error is a remote call failure with enough structure to decide
// between retry and drop.
//
// The split matters for the pending queue: a transient failure (network
// down, timeout, 5xx) leaves the queued action in place for the next
// drain pass; a permanent rejection (validation failure, conflict) is
// dropped, because blind retry of an invalid payload would loop forever.
type Error struct {
	Op        string // operation name, e.g. "create reward"
	Status    int    // HTTP status, 0 for transport failures
	Message   string
	Permanent bool
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("remote %s: %s (status %d)", e.Op, e.Message, e.Status)
	}
	return fmt.Sprintf("remote %s: %s", e.Op, e.Message)
}

// IsPermanent reports whether err is a permanent remote rejection.
// Uses errors.As to handle wrapped errors. Transport failures and
// unclassified errors are treated as transient.
func IsPermanent(err error) bool {
	var re *Error
	if errors.As(err, &re) {
		return re.Permanent
	}
	return false
}

// statusPermanent classifies an HTTP status. 4xx is the server rejecting
// the payload, except 408 (timeout) and 429 (throttling) which resolve
// on retry.
func statusPermanent(status int) bool {
	if status == 408 || status == 429 {
		return false
	}
	return status >= 400 && status < 500
}
