package authclient_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/portal"
	"github.com/xy-planning-network/portal/authclient"
	"github.com/xy-planning-network/portal/endpoint"
	"github.com/xy-planning-network/portal/http/req"
)

func TestLogin(t *testing.T) {
	for _, tc := range []struct {
		name   string
		body   string
		expect authclient.Session
		err    error
	}{
		{"string-expire", `{"token":"abc","expire":"2030-01-01T00:00:00Z"}`, authclient.Session{Token: "abc", Expire: "2030-01-01T00:00:00Z"}, nil},
		{"number-expire", `{"token":"abc","expire":1893456000}`, authclient.Session{Token: "abc", Expire: "1893456000"}, nil},
		{"no-expire", `{"token":"abc"}`, authclient.Session{Token: "abc"}, nil},
		{"no-token", `{"expire":"2030-01-01"}`, authclient.Session{}, authclient.ErrMissingToken},
		{"not-json", `ok`, authclient.Session{}, authclient.ErrMissingToken},
	} {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			var got authclient.Credentials
			var path, contentType string
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				path, contentType = r.URL.Path, r.Header.Get("Content-Type")
				json.NewDecoder(r.Body).Decode(&got)
				w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			c := authclient.New(endpoint.New(endpoint.Config{BaseURL: srv.URL + "/"}, nil))

			// Act
			actual, err := c.Login(context.Background(), authclient.Credentials{Email: "a@b.co", Password: "pw"})

			// Assert
			require.ErrorIs(t, err, tc.err)
			require.Equal(t, tc.expect, actual)
			require.Equal(t, "/auth/login", path)
			require.Equal(t, "application/json", contentType)
			require.Equal(t, authclient.Credentials{Email: "a@b.co", Password: "pw"}, got)
		})
	}
}

func TestLoginStatus(t *testing.T) {
	// Arrange
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"nope"}` + "\n"))
	}))
	defer srv.Close()

	c := authclient.New(endpoint.New(endpoint.Config{BaseURL: srv.URL}, nil), authclient.WithHTTPClient(srv.Client()))

	// Act
	_, err := c.Login(context.Background(), authclient.Credentials{Email: "a@b.co", Password: "pw"})

	// Assert
	var se *authclient.StatusError
	require.ErrorAs(t, err, &se)
	require.Equal(t, http.StatusUnauthorized, se.Code)
	require.Equal(t, `{"message":"nope"}`, se.Body)
	require.Equal(t, authclient.CredentialsMsg, authclient.Message(err))
}

func TestRegister(t *testing.T) {
	// Arrange
	var got map[string]string
	var path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	c := authclient.New(endpoint.New(endpoint.Config{BaseURL: srv.URL}, nil))

	// Act
	err := c.Register(context.Background(), authclient.Registration{Email: "a@b.co", Password: "pw"})

	// Assert
	require.Nil(t, err)
	require.Equal(t, "/auth/register", path)
	require.Equal(t, map[string]string{"email": "a@b.co", "password": "pw"}, got)
}

func TestRegisterUnreachable(t *testing.T) {
	// Arrange
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	c := authclient.New(endpoint.New(endpoint.Config{BaseURL: base}, nil))

	// Act
	err := c.Register(context.Background(), authclient.Registration{Email: "a@b.co", Password: "pw"})

	// Assert
	require.ErrorIs(t, err, authclient.ErrUnreachable)
	require.Equal(t, authclient.UnreachableMsg, authclient.Message(err))
}

func TestMessage(t *testing.T) {
	for _, tc := range []struct {
		err    error
		expect string
	}{
		{nil, ""},
		{&authclient.StatusError{Code: http.StatusUnauthorized}, authclient.CredentialsMsg},
		{&authclient.StatusError{Code: http.StatusBadRequest}, authclient.IncompleteMsg},
		{&authclient.StatusError{Code: http.StatusConflict}, "Something went wrong (status 409). Please try again."},
		{fmt.Errorf("wrapped: %w", &authclient.StatusError{Code: http.StatusServiceUnavailable}), "Something went wrong (status 503). Please try again."},
		{fmt.Errorf("%w: dial tcp", authclient.ErrUnreachable), authclient.UnreachableMsg},
		{fmt.Errorf("form: %w", portal.ErrNotValid), authclient.IncompleteMsg},
		{fmt.Errorf("form: %w", req.ValidationErrors{{Field: "email", Got: "nope", Rule: "email; string"}}), authclient.InvalidEmailMsg},
		{req.ValidationErrors{{Field: "email", Rule: "email; string"}, {Field: "password", Rule: "required; string"}}, authclient.IncompleteMsg},
		{errors.New("other"), "Something went wrong (status 500). Please try again."},
	} {
		t.Run(fmt.Sprint(tc.err), func(t *testing.T) {
			// Arrange + Act + Assert
			require.Equal(t, tc.expect, authclient.Message(tc.err))
		})
	}
}
