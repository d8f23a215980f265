package tokenstore

import (
	"fmt"
	"net/http"

	"github.com/xy-planning-network/portal"
)

// ResponseCookies sets cookies as Set-Cookie headers on the enclosed http.ResponseWriter.
type ResponseCookies struct {
	W http.ResponseWriter
}

var _ CookieJar = ResponseCookies{}

// SetCookie implements CookieJar.
// A cookie http.SetCookie would silently drop returns an error instead.
func (rc ResponseCookies) SetCookie(c *http.Cookie) error {
	if rc.W == nil {
		return fmt.Errorf("%w: no response to set cookie on", portal.ErrMissingData)
	}

	if err := c.Valid(); err != nil {
		return fmt.Errorf("%w: %s", portal.ErrNotValid, err)
	}

	http.SetCookie(rc.W, c)
	return nil
}
