package endpoint

import "errors"

var errNotAbsolute = errors.New("base is not an absolute URL")
