package portal

import (
	"net/http"
	"net/url"
)

const LogMaskVal = "xxxxxx"

// sensitiveHeaders are never written to logs verbatim.
var sensitiveHeaders = []string{"Authorization", "Cookie", "Set-Cookie"}

// Mask replaces all values under key with a single [LogMaskVal].
// If key is not set, vals is left untouched.
func Mask(vals url.Values, key string) {
	if _, ok := vals[key]; !ok {
		return
	}

	vals[key] = []string{LogMaskVal}
}

// MaskHeader copies h, masking credentials carried in headers.
func MaskHeader(h http.Header) http.Header {
	masked := h.Clone()
	for _, key := range sensitiveHeaders {
		if masked.Get(key) != "" {
			masked.Set(key, LogMaskVal)
		}
	}

	return masked
}
