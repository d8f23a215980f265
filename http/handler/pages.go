package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/xy-planning-network/portal"
	"github.com/xy-planning-network/portal/authclient"
	"github.com/xy-planning-network/portal/http/resp"
	"github.com/xy-planning-network/portal/http/session"
	"github.com/xy-planning-network/portal/logger"
)

// Index shows the resolved API base to signed in visitors
// and sends everyone else to sign in.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	if !h.signedIn(r) {
		h.Redirect(w, r, resp.Url(LoginPath))
		return
	}

	data := map[string]any{"APIBase": h.resolverFor(r).APIBaseURL()}
	h.Html(w, r, resp.Layout(), resp.Tmpls(HomeTmpl), resp.Data(data))
}

// LoginPage renders the sign in form.
func (h *Handler) LoginPage(w http.ResponseWriter, r *http.Request) {
	h.Html(w, r, resp.Layout(), resp.Tmpls(LoginTmpl), resp.Data(map[string]any{"Email": ""}))
}

// Login signs the visitor in, persisting the token issued.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var creds authclient.Credentials
	if err := h.parser.ParseForm(r, &creds); err != nil {
		h.formErr(w, r, LoginTmpl, map[string]any{"Email": creds.Email}, err)
		return
	}

	sess, err := h.auth(r).Login(r.Context(), creds)
	if err != nil {
		h.formErr(w, r, LoginTmpl, map[string]any{"Email": creds.Email}, err)
		return
	}

	h.tokens.Persist(h.target(w, r), sess.Token, sess.Expire)
	h.Redirect(w, r, resp.Url("/"))
}

// RegisterPage renders the registration form.
func (h *Handler) RegisterPage(w http.ResponseWriter, r *http.Request) {
	h.Html(w, r, resp.Layout(), resp.Tmpls(RegisterTmpl), resp.Data(map[string]any{"Name": "", "Email": ""}))
}

// Register creates the visitor's account, then sends them to sign in.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var reg authclient.Registration
	data := func() map[string]any { return map[string]any{"Name": reg.Name, "Email": reg.Email} }

	if err := h.parser.ParseForm(r, &reg); err != nil {
		h.formErr(w, r, RegisterTmpl, data(), err)
		return
	}

	if err := h.auth(r).Register(r.Context(), reg); err != nil {
		h.formErr(w, r, RegisterTmpl, data(), err)
		return
	}

	h.Redirect(w, r, resp.Url(LoginPath), resp.Success(session.RegisteredMsg))
}

// Logout clears the token copies and sends the visitor to sign in.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.tokens.Clear(h.target(w, r))
	h.Redirect(w, r, resp.Url(LoginPath), resp.Flash(session.Flash{Class: session.FlashInfo, Msg: session.LoggedOutMsg}))
}

// Unauthorized is where visitors land once the backend rejects their token.
// It clears the token copies and renders the error page.
func (h *Handler) Unauthorized(w http.ResponseWriter, r *http.Request) {
	h.tokens.Clear(h.target(w, r))
	h.Html(w, r,
		resp.Layout(),
		resp.Tmpls(ErrorTmpl),
		resp.Code(http.StatusUnauthorized),
		resp.Data(errorPage(http.StatusUnauthorized, session.NoAccessMsg, LoginPath, "Sign in")),
	)
}

// NotFound renders the error page for browsers and a bare JSON 404 otherwise.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	if !strings.Contains(r.Header.Get("Accept"), "text/html") {
		h.Json(w, r, resp.Code(http.StatusNotFound), resp.Data(map[string]string{"message": "not found"}))
		return
	}

	h.Html(w, r,
		resp.Layout(),
		resp.Tmpls(ErrorTmpl),
		resp.Code(http.StatusNotFound),
		resp.Data(errorPage(http.StatusNotFound, notFoundMsg, "/", "Go home")),
	)
}

// formErr re-renders tmpl with a flash describing err.
func (h *Handler) formErr(w http.ResponseWriter, r *http.Request, tmpl string, data map[string]any, err error) {
	code := statusFor(err)
	lc := &logger.LogContext{Error: err, Request: r}
	if code >= http.StatusInternalServerError {
		h.logger.Warn("auth call failed", lc)
	} else {
		h.logger.Debug("auth rejected", lc)
	}

	opts := []resp.Fn{resp.Layout(), resp.Tmpls(tmpl), resp.Code(code), resp.Data(data)}
	if _, serr := h.Session(r); serr == nil {
		opts = append(opts, resp.Flash(session.Flash{Class: session.FlashError, Msg: authclient.Message(err)}))
	} else {
		data["Error"] = authclient.Message(err)
	}

	h.Html(w, r, opts...)
}

// statusFor picks the status a form page re-renders with.
func statusFor(err error) int {
	var se *authclient.StatusError
	switch {
	case errors.Is(err, portal.ErrNotValid), errors.Is(err, portal.ErrBadFormat):
		return http.StatusBadRequest
	case errors.As(err, &se) && se.Code >= http.StatusBadRequest && se.Code < http.StatusInternalServerError:
		return se.Code
	default:
		return http.StatusBadGateway
	}
}

func errorPage(code int, msg, link, linkText string) map[string]any {
	return map[string]any{"Code": code, "Msg": msg, "Link": link, "LinkText": linkText}
}
