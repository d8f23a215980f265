package portal_test

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/portal"
)

func TestMask(t *testing.T) {
	for _, tc := range []struct {
		name string
		vals url.Values
		key  string
		want url.Values
	}{
		{"zero", url.Values{}, "", url.Values{}},
		{
			"mismatch",
			url.Values{"password": []string{"hunter2"}},
			"passwrod",
			url.Values{"password": []string{"hunter2"}},
		},
		{
			"match",
			url.Values{"password": []string{"hunter2"}},
			"password",
			url.Values{"password": []string{portal.LogMaskVal}},
		},
		{
			"squash-multiple",
			url.Values{"password": []string{"hunter2", "hunter3"}},
			"password",
			url.Values{"password": []string{portal.LogMaskVal}},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			portal.Mask(tc.vals, tc.key)
			require.Equal(t, tc.want, tc.vals)
		})
	}
}

func TestMaskHeader(t *testing.T) {
	// Arrange
	h := http.Header{}
	h.Set("Authorization", "Bearer abc")
	h.Set("Cookie", "token=abc")
	h.Set("Accept", "application/json")

	// Act
	actual := portal.MaskHeader(h)

	// Assert
	require.Equal(t, portal.LogMaskVal, actual.Get("Authorization"))
	require.Equal(t, portal.LogMaskVal, actual.Get("Cookie"))
	require.Equal(t, "application/json", actual.Get("Accept"))
	require.Equal(t, "Bearer abc", h.Get("Authorization"))
}
