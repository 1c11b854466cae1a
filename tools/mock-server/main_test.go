package main

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func get(t *testing.T, handler http.HandlerFunc, userAgent string) (*http.Response, string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if userAgent != "" {
		req.Header.Set("User-Agent", userAgent)
	}
	rec := httptest.NewRecorder()
	handler(rec, req)

	resp := rec.Result()
	t.Cleanup(func() { resp.Body.Close() }) //nolint:errcheck // test cleanup
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func TestProductHandler_InStock(t *testing.T) {
	t.Parallel()

	resp, body := get(t, productHandler(399.00, "https://example.com/w.jpg", true), "")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `"price":"399.00"`)
	assert.Contains(t, body, "schema.org/InStock")
	assert.Contains(t, body, "<button>Add to Cart</button>")
	assert.Contains(t, body, "https://example.com/w.jpg")
}

func TestProductHandler_OutOfStock(t *testing.T) {
	t.Parallel()

	_, body := get(t, productHandler(399.00, "https://example.com/w.jpg", false), "")

	assert.Contains(t, body, "schema.org/OutOfStock")
	assert.Contains(t, body, "<button disabled>Add to Cart</button>")
}

func TestBlockedHandler_DesktopDenied(t *testing.T) {
	t.Parallel()

	resp, _ := get(t, blockedHandler(399.00, ""), "Mozilla/5.0 (Windows NT 10.0; Win64; x64)")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestBlockedHandler_MobileServed(t *testing.T) {
	t.Parallel()

	resp, body := get(t, blockedHandler(349.00, ""), "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X)")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `"price":"349.00"`)
}
