package authstub

import "errors"

var (
	ErrBadCredentials = errors.New("bad credentials")
	ErrExists         = errors.New("account exists")
)
