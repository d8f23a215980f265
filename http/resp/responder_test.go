package resp_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/portal"
	"github.com/xy-planning-network/portal/http/resp"
	"github.com/xy-planning-network/portal/http/session"
	"github.com/xy-planning-network/portal/http/template"
	"github.com/xy-planning-network/portal/logger"
)

const (
	layoutTmpl = "tmpl/layout/base.tmpl"
	errTmpl    = "tmpl/error.tmpl"
)

func newResponder(t *testing.T, buf *bytes.Buffer, opts ...resp.ResponderOptFn) *resp.Responder {
	t.Helper()

	l := logger.New(logger.WithLogger(log.New(buf, "", 0)))
	p := template.NewParser(template.WithFS(fstest.MapFS{
		"tmpl/broken.tmpl": &fstest.MapFile{Data: []byte(`{{ define "content" }}{{ .Data.Nope.Deeper }}{{ end }}`)},
	}))

	return resp.NewResponder(append([]resp.ResponderOptFn{
		resp.WithLogger(l),
		resp.WithParser(p),
		resp.WithRootUrl("https://example.com"),
		resp.WithLayoutTemplate(layoutTmpl),
		resp.WithErrTemplate(errTmpl),
	}, opts...)...)
}

func withSession(r *http.Request) (*http.Request, session.Session) {
	s, _ := session.NewStub().GetSession(r)
	return r.Clone(context.WithValue(r.Context(), portal.SessionKey, s)), s
}

func TestHtml(t *testing.T) {
	// Arrange
	d := newResponder(t, new(bytes.Buffer))
	w := httptest.NewRecorder()
	r, s := withSession(httptest.NewRequest(http.MethodGet, "/login", nil))
	require.Nil(t, s.SetFlash(w, r, session.Flash{Class: session.FlashError, Msg: "nope"}))

	// Act
	err := d.Html(w, r,
		resp.Layout(),
		resp.Tmpls("tmpl/login.tmpl"),
		resp.Data(map[string]any{"Email": "a@b.co"}),
		resp.Code(http.StatusBadRequest),
	)

	// Assert
	require.Nil(t, err)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Header().Get("Content-Type"), "text/html")
	require.Contains(t, w.Body.String(), `value="a@b.co"`)
	require.Contains(t, w.Body.String(), `<p class="flash flash-error">nope</p>`)
	require.Empty(t, s.Flashes(w, r))
}

func TestHtmlNoTemplates(t *testing.T) {
	// Arrange
	buf := new(bytes.Buffer)
	d := newResponder(t, buf, resp.WithContactErrMsg("call us"))
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)

	// Act
	err := d.Html(w, r)

	// Assert
	require.ErrorIs(t, err, resp.ErrMissingData)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.Contains(t, w.Body.String(), "call us")
	require.Contains(t, buf.String(), "no templates to render")
}

func TestHtmlExecuteFails(t *testing.T) {
	// Arrange
	d := newResponder(t, new(bytes.Buffer))
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)

	// Act
	err := d.Html(w, r, resp.Layout(), resp.Tmpls("tmpl/broken.tmpl"), resp.Data(map[string]any{"Nope": 1}))

	// Assert
	require.Error(t, err)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.Contains(t, w.Body.String(), session.DefaultErrMsg)
}

func TestHtmlNoErrTemplate(t *testing.T) {
	// Arrange
	d := newResponder(t, new(bytes.Buffer), resp.WithErrTemplate(""))
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)

	// Act
	err := d.Html(w, r)

	// Assert
	require.ErrorIs(t, err, resp.ErrBadConfig)
	require.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestLayoutUnset(t *testing.T) {
	// Arrange
	d := newResponder(t, new(bytes.Buffer), resp.WithLayoutTemplate(""))
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)

	// Act
	err := d.Html(w, r, resp.Layout(), resp.Tmpls("tmpl/home.tmpl"))

	// Assert
	require.ErrorIs(t, err, resp.ErrBadConfig)
}

func TestJson(t *testing.T) {
	// Arrange
	d := newResponder(t, new(bytes.Buffer))
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)

	// Act
	err := d.Json(w, r, resp.Data(map[string]string{"message": "not found"}), resp.Code(http.StatusNotFound))

	// Assert
	require.Nil(t, err)
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Equal(t, "application/json; charset=UTF-8", w.Header().Get("Content-Type"))

	var actual map[string]map[string]string
	require.Nil(t, json.NewDecoder(w.Body).Decode(&actual))
	require.Equal(t, "not found", actual["data"]["message"])
}

func TestRedirect(t *testing.T) {
	for _, tc := range []struct {
		name     string
		opts     []resp.Fn
		code     int
		location string
	}{
		{"default", nil, http.StatusFound, "https://example.com"},
		{"url", []resp.Fn{resp.Url("/login")}, http.StatusFound, "/login"},
		{"param", []resp.Fn{resp.Url("/login"), resp.Param("next", "/")}, http.StatusFound, "/login?next=%2F"},
		{"3xx", []resp.Fn{resp.Code(http.StatusSeeOther)}, http.StatusSeeOther, "https://example.com"},
		{"4xx", []resp.Fn{resp.Code(http.StatusUnauthorized)}, http.StatusSeeOther, "https://example.com"},
		{"5xx", []resp.Fn{resp.Code(http.StatusBadGateway)}, http.StatusTemporaryRedirect, "https://example.com"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			d := newResponder(t, new(bytes.Buffer))
			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodPost, "/", nil)

			// Act
			err := d.Redirect(w, r, tc.opts...)

			// Assert
			require.Nil(t, err)
			require.Equal(t, tc.code, w.Code)
			require.Equal(t, tc.location, w.Header().Get("Location"))
		})
	}
}

func TestRedirectBadUrl(t *testing.T) {
	// Arrange
	d := newResponder(t, new(bytes.Buffer))
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/", nil)

	// Act
	err := d.Redirect(w, r, resp.Url("::"))

	// Assert
	require.ErrorIs(t, err, resp.ErrMissingData)
}

func TestFlashWithoutSession(t *testing.T) {
	// Arrange
	d := newResponder(t, new(bytes.Buffer))
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/", nil)

	// Act
	err := d.Redirect(w, r, resp.Success("yay"))

	// Assert
	require.ErrorIs(t, err, resp.ErrNotFound)
}

func TestGenericErr(t *testing.T) {
	// Arrange
	buf := new(bytes.Buffer)
	d := newResponder(t, buf)
	w := httptest.NewRecorder()
	r, s := withSession(httptest.NewRequest(http.MethodPost, "/", nil))

	// Act
	err := d.Redirect(w, r, resp.Url("/login"), resp.GenericErr(errors.New("boom")))

	// Assert
	require.Nil(t, err)
	require.Equal(t, http.StatusTemporaryRedirect, w.Code)
	require.Contains(t, buf.String(), "boom")
	require.Equal(t, []session.Flash{{Class: session.FlashError, Msg: session.DefaultErrMsg}}, s.Flashes(w, r))
}

func TestErr(t *testing.T) {
	// Arrange
	buf := new(bytes.Buffer)
	d := newResponder(t, buf)
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)

	// Act
	d.Err(w, r, errors.New("secret detail"))

	// Assert
	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.NotContains(t, w.Body.String(), "secret detail")
	require.Contains(t, buf.String(), "secret detail")
}
