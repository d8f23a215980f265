package resp

import "errors"

var (
	ErrBadConfig   = errors.New("bad config")
	ErrDone        = errors.New("request ctx done")
	ErrMissingData = errors.New("missing data")
	ErrNotFound    = errors.New("not found")
)
