package authclient

import (
	"errors"
	"fmt"
)

var (
	ErrMissingToken = errors.New("no token in response")
	ErrUnreachable  = errors.New("auth service unreachable")
)

// A StatusError reports a non-2xx answer from the auth service.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("auth service responded %d: %s", e.Code, e.Body)
}
