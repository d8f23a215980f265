package tokenstore_test

import (
	"bytes"
	"errors"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/portal/logger"
	"github.com/xy-planning-network/portal/tokenstore"
)

var now = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

// failingStorage fails every write to the keys in fail.
type failingStorage struct {
	*tokenstore.MemoryStorage
	fail map[string]bool
}

func (fs failingStorage) SetItem(key, value string) error {
	if fs.fail[key] {
		return errors.New("quota exceeded")
	}

	return fs.MemoryStorage.SetItem(key, value)
}

func (fs failingStorage) RemoveItem(key string) error {
	if fs.fail[key] {
		return errors.New("storage disabled")
	}

	return fs.MemoryStorage.RemoveItem(key)
}

// jar records cookies, optionally failing.
type jar struct {
	cookies []*http.Cookie
	err     error
}

func (j *jar) SetCookie(c *http.Cookie) error {
	if j.err != nil {
		return j.err
	}

	j.cookies = append(j.cookies, c)
	return nil
}

func newStore(b *bytes.Buffer) *tokenstore.Store {
	l := logger.New(logger.WithLogger(log.New(b, "", 0)))
	return tokenstore.New(l, tokenstore.WithClock(func() time.Time { return now }))
}

func TestStorePersist(t *testing.T) {
	// Arrange
	b := new(bytes.Buffer)
	s := newStore(b)
	mem := tokenstore.NewMemoryStorage()
	cookies := new(jar)
	expire := now.Add(90 * time.Minute).Format(time.RFC3339)

	// Act
	s.Persist(tokenstore.Target{Storage: mem, Cookies: cookies}, "abc", expire)

	// Assert
	for _, key := range []string{"token", "jwt", "access_token"} {
		val, ok := mem.GetItem(key)
		require.True(t, ok, key)
		require.Equal(t, "abc", val)
	}

	require.Len(t, cookies.cookies, 1)
	c := cookies.cookies[0]
	require.Equal(t, "token", c.Name)
	require.Equal(t, "abc", c.Value)
	require.Equal(t, "/", c.Path)
	require.Equal(t, http.SameSiteLaxMode, c.SameSite)
	require.Equal(t, 5400, c.MaxAge)
	require.Zero(t, b.Len())
}

func TestStorePersistWithoutExpiry(t *testing.T) {
	// Arrange
	s := newStore(new(bytes.Buffer))
	cookies := new(jar)

	// Act
	s.Persist(tokenstore.Target{Storage: tokenstore.NewMemoryStorage(), Cookies: cookies}, "abc", "")

	// Assert
	require.Len(t, cookies.cookies, 1)
	require.Equal(t, tokenstore.DefaultMaxAge, cookies.cookies[0].MaxAge)
	require.Equal(t, 86400, cookies.cookies[0].MaxAge)
}

func TestStorePersistOverwrites(t *testing.T) {
	// Arrange
	s := newStore(new(bytes.Buffer))
	mem := tokenstore.NewMemoryStorage()
	target := tokenstore.Target{Storage: mem, Cookies: new(jar)}

	// Act
	s.Persist(target, "first", "")
	s.Persist(target, "second", "")

	// Assert
	for _, key := range tokenstore.StorageKeys {
		val, _ := mem.GetItem(key)
		require.Equal(t, "second", val)
	}
}

func TestStoreClear(t *testing.T) {
	// Arrange
	s := newStore(new(bytes.Buffer))
	mem := tokenstore.NewMemoryStorage()
	cookies := new(jar)
	target := tokenstore.Target{Storage: mem, Cookies: cookies}
	s.Persist(target, "abc", "")

	// Act
	s.Clear(target)

	// Assert
	for _, key := range tokenstore.StorageKeys {
		_, ok := mem.GetItem(key)
		require.False(t, ok, key)
	}

	require.Len(t, cookies.cookies, 2)
	c := cookies.cookies[1]
	require.Equal(t, "token", c.Name)
	require.Equal(t, "", c.Value)
	require.Equal(t, "/", c.Path)
	require.Equal(t, http.SameSiteLaxMode, c.SameSite)
	require.Contains(t, c.String(), "Max-Age=0")
}

func TestStoreIsolatesFailures(t *testing.T) {
	// Arrange
	b := new(bytes.Buffer)
	s := newStore(b)
	mem := tokenstore.NewMemoryStorage()
	storage := failingStorage{MemoryStorage: mem, fail: map[string]bool{"jwt": true}}
	cookies := new(jar)

	// Act
	require.NotPanics(t, func() {
		s.Persist(tokenstore.Target{Storage: storage, Cookies: cookies}, "abc", "")
	})

	// Assert
	val, ok := mem.GetItem("token")
	require.True(t, ok)
	require.Equal(t, "abc", val)

	_, ok = mem.GetItem("jwt")
	require.False(t, ok)

	val, ok = mem.GetItem("access_token")
	require.True(t, ok)
	require.Equal(t, "abc", val)

	require.Len(t, cookies.cookies, 1)
	require.Equal(t, 1, strings.Count(b.String(), "[WARN]"))
	require.Contains(t, b.String(), "quota exceeded")
	require.Contains(t, b.String(), `"location":"jwt"`)

	// Arrange
	b.Reset()
	cookies.err = errors.New("cookies disabled")

	// Act
	s.Clear(tokenstore.Target{Storage: storage, Cookies: cookies})

	// Assert
	_, ok = mem.GetItem("token")
	require.False(t, ok)
	_, ok = mem.GetItem("access_token")
	require.False(t, ok)
	require.Equal(t, 2, strings.Count(b.String(), "[WARN]"))
	require.Contains(t, b.String(), "cookies disabled")
}

func TestStoreNotInteractive(t *testing.T) {
	// Arrange
	b := new(bytes.Buffer)
	s := newStore(b)
	mem := tokenstore.NewMemoryStorage()
	cookies := new(jar)

	// Act
	s.Persist(tokenstore.Target{}, "abc", "")
	s.Persist(tokenstore.Target{Storage: mem}, "abc", "")
	s.Persist(tokenstore.Target{Cookies: cookies}, "abc", "")
	s.Clear(tokenstore.Target{Cookies: cookies})

	// Assert
	_, ok := mem.GetItem("token")
	require.False(t, ok)
	require.Empty(t, cookies.cookies)
	require.Zero(t, b.Len())
}

func TestMaxAge(t *testing.T) {
	for _, tc := range []struct {
		name     string
		expire   string
		expected int
	}{
		{"blank", "", tokenstore.DefaultMaxAge},
		{"whitespace", "   ", tokenstore.DefaultMaxAge},
		{"unparsable", "next tuesday", tokenstore.DefaultMaxAge},
		{"past", now.Add(-time.Hour).Format(time.RFC3339), tokenstore.DefaultMaxAge},
		{"now", now.Format(time.RFC3339), tokenstore.DefaultMaxAge},
		{"rfc3339", now.Add(time.Hour).Format(time.RFC3339), 3600},
		{"rfc3339-offset", "2024-05-01T14:00:00+01:00", 3600},
		{"rfc3339-nano-rounds-up", now.Add(10*time.Second + 600*time.Millisecond).Format(time.RFC3339Nano), 11},
		{"rfc3339-nano-rounds-down", now.Add(10*time.Second + 400*time.Millisecond).Format(time.RFC3339Nano), 10},
		{"rounds-to-zero", now.Add(400 * time.Millisecond).Format(time.RFC3339Nano), tokenstore.DefaultMaxAge},
		{"no-zone", "2024-05-01T13:00:00", 3600},
		{"date-only", "2024-05-02", 43200},
		{"rfc1123", now.Add(2 * time.Hour).Format(time.RFC1123), 7200},
		{"unix", "1714568400", 3600},
	} {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.expected, tokenstore.MaxAge(tc.expire, now))
		})
	}
}

func TestResponseCookies(t *testing.T) {
	// Arrange
	w := httptest.NewRecorder()
	rc := tokenstore.ResponseCookies{W: w}

	// Act
	err := rc.SetCookie(&http.Cookie{Name: "token", Value: "abc", Path: "/", MaxAge: 60, SameSite: http.SameSiteLaxMode})

	// Assert
	require.Nil(t, err)
	require.Equal(t, "token=abc; Path=/; Max-Age=60; SameSite=Lax", w.Header().Get("Set-Cookie"))

	// Act
	err = rc.SetCookie(&http.Cookie{Name: "bad name", Value: "abc"})

	// Assert
	require.NotNil(t, err)

	// Act
	err = tokenstore.ResponseCookies{}.SetCookie(&http.Cookie{Name: "token"})

	// Assert
	require.NotNil(t, err)
}

func TestStorages(t *testing.T) {
	// Arrange
	first := tokenstore.NewMemoryStorage()
	broken := failingStorage{MemoryStorage: tokenstore.NewMemoryStorage(), fail: map[string]bool{"token": true}}
	last := tokenstore.NewMemoryStorage()
	ss := tokenstore.Storages{first, broken, nil, last}

	// Act
	err := ss.SetItem("token", "abc")

	// Assert
	require.NotNil(t, err)
	val, _ := first.GetItem("token")
	require.Equal(t, "abc", val)
	val, _ = last.GetItem("token")
	require.Equal(t, "abc", val)

	// Act
	err = ss.RemoveItem("jwt")

	// Assert
	require.Nil(t, err)
}
