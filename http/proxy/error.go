package proxy

import "errors"

var (
	ErrInvalidJSON = errors.New("invalid JSON body")
	ErrUnreachable = errors.New("upstream unreachable")
)
