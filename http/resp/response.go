package resp

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/xy-planning-network/portal/http/session"
)

// A Fn is a functional option that mutates the state of the Response.
type Fn func(Responder, *Response) error

// A Response is the internal object a Responder response method builds while applying all
// functional options.
type Response struct {
	w     http.ResponseWriter
	r     *http.Request
	code  int
	data  any
	tmpls []string
	url   *url.URL
}

// Code sets the response status code.
func Code(c int) Fn {
	return func(_ Responder, r *Response) error {
		r.code = c
		return nil
	}
}

// Data stores the provided value for writing to the client.
//
// Used with Responder.Html and Responder.Json.
func Data(d any) Fn {
	return func(_ Responder, r *Response) error {
		r.data = d
		return nil
	}
}

// Err sets the status code http.StatusInternalServerError and logs the error.
func Err(e error) Fn {
	return func(d Responder, r *Response) error {
		if e != nil {
			d.logger.Error(e.Error(), newLogContext(r.r, e, r.data))
		}

		r.code = http.StatusInternalServerError
		return nil
	}
}

// Flash sets a flash message in the session with the passed in class and msg.
func Flash(flash session.Flash) Fn {
	return func(d Responder, r *Response) error {
		s, err := d.Session(r.r)
		if err != nil {
			return err
		}

		return s.SetFlash(r.w, r.r, flash)
	}
}

// GenericErr combines Err() and Flash() to log the passed in error
// and set a generic error flash in the session
// using either the string set by WithContactErrMsg or session.DefaultErrMsg.
func GenericErr(e error) Fn {
	return func(d Responder, r *Response) error {
		if err := Err(e)(d, r); err != nil {
			return err
		}

		msg := session.DefaultErrMsg
		if d.contactErrMsg != "" {
			msg = d.contactErrMsg
		}

		return Flash(session.Flash{Class: session.FlashError, Msg: msg})(d, r)
	}
}

// Layout prepends the layout template set by WithLayoutTemplate to the templates to render.
//
// If WithLayoutTemplate was not called setting up the Responder, ErrBadConfig returns.
func Layout() Fn {
	return func(d Responder, r *Response) error {
		if d.templates.layout == "" {
			return fmt.Errorf("%w: no layout tmpl", ErrBadConfig)
		}

		if len(r.tmpls) > 0 && r.tmpls[0] == d.templates.layout {
			return nil
		}

		r.tmpls = append([]string{d.templates.layout}, r.tmpls...)
		return nil
	}
}

// Param adds the query parameter to the response's URL.
//
// Used with Responder.Redirect.
func Param(key, val string) Fn {
	return func(_ Responder, r *Response) error {
		if r.url == nil {
			return fmt.Errorf("%w: Url() has not been called", ErrMissingData)
		}

		q := r.url.Query()
		q.Add(key, val)
		r.url.RawQuery = q.Encode()
		return nil
	}
}

// Success sets a success flash message in the session with the passed in msg.
func Success(msg string) Fn {
	return Flash(session.Flash{Class: session.FlashSuccess, Msg: msg})
}

// Tmpls appends the templates identified by the filepaths to those to render.
func Tmpls(fps ...string) Fn {
	return func(_ Responder, r *Response) error {
		r.tmpls = append(r.tmpls, fps...)
		return nil
	}
}

// ToRoot sets the response's URL to the root URL of the Responder.
func ToRoot() Fn {
	return func(d Responder, r *Response) error {
		u := *d.rootUrl
		r.url = &u
		return nil
	}
}

// Url parses raw as a *url.URL, setting it as the response's URL.
//
// Used with Responder.Redirect.
func Url(raw string) Fn {
	return func(_ Responder, r *Response) error {
		u, err := url.ParseRequestURI(raw)
		if err != nil {
			return fmt.Errorf("%w: cannot parse %q: %s", ErrMissingData, raw, err)
		}

		r.url = u
		return nil
	}
}

// Warn sets a warning flash message in the session with the passed in msg.
func Warn(msg string) Fn {
	return Flash(session.Flash{Class: session.FlashWarning, Msg: msg})
}
