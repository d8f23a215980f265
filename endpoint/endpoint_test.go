package endpoint_test

import (
	"crypto/tls"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/portal/endpoint"
)

func origin(raw string) endpoint.Locator {
	return endpoint.LocatorFunc(func() (*url.URL, bool) {
		u, err := url.Parse(raw)
		if err != nil {
			return nil, false
		}

		return u, true
	})
}

func TestResolverAPIBaseURLConfigured(t *testing.T) {
	for _, tc := range []struct {
		name     string
		base     string
		expected string
	}{
		{"plain", "https://api.example.com", "https://api.example.com"},
		{"trailing-slash", "https://api.example.com/", "https://api.example.com"},
		{"many-trailing-slashes", "https://api.example.com/v1///", "https://api.example.com/v1"},
		{"whitespace", "  https://api.example.com/  ", "https://api.example.com"},
		{"root-sentinel", "/", "/"},
		{"relative", "/api/", "/api"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			for _, loc := range []endpoint.Locator{
				nil,
				endpoint.NoLocation,
				origin("https://portal.example.com"),
				origin("http://localhost:3000"),
			} {
				// Arrange
				r := endpoint.New(endpoint.Config{BaseURL: tc.base}, loc)

				// Act + Assert
				require.Equal(t, tc.expected, r.APIBaseURL())
			}
		})
	}
}

func TestResolverAPIBaseURLOrigin(t *testing.T) {
	for _, tc := range []struct {
		name     string
		cfg      string
		loc      endpoint.Locator
		expected string
	}{
		{"no-page", "", endpoint.NoLocation, endpoint.DefaultBaseURL},
		{"nil-locator", "", nil, endpoint.DefaultBaseURL},
		{"blank-config", "   ", origin("https://portal.example.com"), "https://portal.example.com"},
		{"only-slashes-config", "///", origin("https://portal.example.com"), "https://portal.example.com"},
		{"public-origin", "", origin("https://portal.example.com"), "https://portal.example.com"},
		{"public-origin-port", "", origin("http://10.0.0.4:3000"), "http://10.0.0.4:3000"},
		{"public-origin-slash", "", origin("https://portal.example.com/"), "https://portal.example.com"},
		{"localhost", "", origin("http://localhost:3000"), endpoint.DefaultBaseURL},
		{"localhost-no-port", "", origin("http://localhost"), endpoint.DefaultBaseURL},
		{"ipv4-loopback", "", origin("http://127.0.0.1:3000"), endpoint.DefaultBaseURL},
		{"any-address", "", origin("http://0.0.0.0:3000"), endpoint.DefaultBaseURL},
		{"ipv6-loopback", "", origin("http://[::1]:3000"), endpoint.DefaultBaseURL},
		{"ipv6-loopback-no-port", "", origin("http://[::1]"), endpoint.DefaultBaseURL},
	} {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			r := endpoint.New(endpoint.Config{BaseURL: tc.cfg}, tc.loc)

			// Act + Assert
			require.Equal(t, tc.expected, r.APIBaseURL())
		})
	}
}

func TestResolverAPIBaseURLNotCached(t *testing.T) {
	// Arrange
	current := "https://one.example.com"
	loc := endpoint.LocatorFunc(func() (*url.URL, bool) {
		u, _ := url.Parse(current)
		return u, true
	})
	r := endpoint.New(endpoint.Config{}, loc)

	// Act + Assert
	require.Equal(t, "https://one.example.com", r.APIBaseURL())

	current = "https://two.example.com"
	require.Equal(t, "https://two.example.com", r.APIBaseURL())
}

func TestResolverBuildAPIURL(t *testing.T) {
	for _, tc := range []struct {
		name     string
		base     string
		path     string
		expected string
	}{
		{"absolute-path", "https://api.example.com", "/x", "https://api.example.com/x"},
		{"relative-path", "https://api.example.com", "x", "https://api.example.com/x"},
		{"base-with-dir-relative", "https://api.example.com/v1", "auth/login", "https://api.example.com/v1/auth/login"},
		{"base-with-dir-absolute", "https://api.example.com/v1", "/auth/login", "https://api.example.com/auth/login"},
		{"query", "https://api.example.com", "/x?y=1", "https://api.example.com/x?y=1"},
		{"root-sentinel-absolute", "/", "/x", "//x"},
		{"root-sentinel-relative", "/", "x", "//x"},
		{"relative-base", "/api", "/x", "/api/x"},
		{"relative-base-relative-path", "/api", "x", "/api/x"},
		{"malformed-base", "http://bad host", "/x", "http://bad host/x"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			r := endpoint.New(endpoint.Config{BaseURL: tc.base}, nil)

			// Act + Assert
			require.Equal(t, tc.expected, r.BuildAPIURL(tc.path))
		})
	}

	// Arrange
	r := endpoint.New(endpoint.Config{}, nil)

	// Act + Assert
	require.Equal(t, "http://localhost:8080/api/auth/login", r.BuildAPIURL("/api/auth/login"))
}

func TestRequestLocator(t *testing.T) {
	// Arrange
	req := httptest.NewRequest("GET", "/login", nil)
	req.Host = "portal.example.com"

	// Act
	u, ok := endpoint.RequestLocator{R: req}.Origin()

	// Assert
	require.True(t, ok)
	require.Equal(t, "http://portal.example.com", u.String())

	// Arrange
	req.TLS = &tls.ConnectionState{}

	// Act
	u, ok = endpoint.RequestLocator{R: req}.Origin()

	// Assert
	require.True(t, ok)
	require.Equal(t, "https://portal.example.com", u.String())

	// Act
	_, ok = endpoint.RequestLocator{}.Origin()

	// Assert
	require.False(t, ok)
}

func TestResolverWithLocator(t *testing.T) {
	// Arrange
	req := httptest.NewRequest("GET", "/login", nil)
	req.Host = "portal.example.com"
	r := endpoint.New(endpoint.Config{}, nil)

	// Act
	scoped := r.WithLocator(endpoint.RequestLocator{R: req})

	// Assert
	require.Equal(t, endpoint.DefaultBaseURL, r.APIBaseURL())
	require.Equal(t, "http://portal.example.com", scoped.APIBaseURL())
}

func TestIsLoopback(t *testing.T) {
	require.True(t, endpoint.IsLoopback("LOCALHOST"))
	require.True(t, endpoint.IsLoopback("127.0.0.1:8080"))
	require.True(t, endpoint.IsLoopback("[::1]"))
	require.False(t, endpoint.IsLoopback("127.0.0.2"))
	require.False(t, endpoint.IsLoopback("portal.example.com"))
}
