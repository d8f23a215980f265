package tokenstore

import (
	"fmt"
	"net/http"

	"github.com/xy-planning-network/portal"
	"github.com/xy-planning-network/portal/http/session"
)

// A SessionStorage keeps items in the visitor's session.
type SessionStorage struct {
	S session.Sessionable
	W http.ResponseWriter
	R *http.Request
}

var _ Storage = SessionStorage{}

func (ss SessionStorage) SetItem(key, value string) error {
	if ss.S == nil {
		return fmt.Errorf("%w: no session", portal.ErrMissingData)
	}

	return ss.S.Set(ss.W, ss.R, key, value)
}

func (ss SessionStorage) RemoveItem(key string) error {
	if ss.S == nil {
		return fmt.Errorf("%w: no session", portal.ErrMissingData)
	}

	return ss.S.Remove(ss.W, ss.R, key)
}
