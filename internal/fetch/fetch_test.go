package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFetcher() *Fetcher {
	return New(WithBlockBackoff(time.Millisecond))
}

func TestFetch_OKFirstAttempt(t *testing.T) {
	t.Parallel()

	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte("<html>ok</html>"))
	}))
	defer srv.Close()

	body, err := newTestFetcher().Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "<html>ok</html>", string(body))
	assert.Contains(t, gotUA, "Windows NT", "first attempt should use the desktop identity")
}

func TestFetch_RetriesWithMobileIdentityOnBlock(t *testing.T) {
	t.Parallel()

	var agents []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		agents = append(agents, r.Header.Get("User-Agent"))
		if len(agents) == 1 {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		_, _ = w.Write([]byte("mobile ok"))
	}))
	defer srv.Close()

	body, err := newTestFetcher().Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "mobile ok", string(body))
	require.Len(t, agents, 2)
	assert.Contains(t, agents[1], "iPhone")
}

func TestFetch_BlockedOnAllAttempts(t *testing.T) {
	t.Parallel()

	var attempts int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		attempts++
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := newTestFetcher().Fetch(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Equal(t, 2, attempts, "blocked fetch should try exactly twice")

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusTooManyRequests, statusErr.Code)
}

func TestFetch_NonBlockStatusFailsImmediately(t *testing.T) {
	t.Parallel()

	var attempts int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		attempts++
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := newTestFetcher().Fetch(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Equal(t, 1, attempts, "404 must not be retried")

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.False(t, statusErr.Blocked())
}

func TestFetch_TransportErrorFailsImmediately(t *testing.T) {
	t.Parallel()

	_, err := newTestFetcher().Fetch(context.Background(), "http://127.0.0.1:1/unreachable")
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "requesting"))
}

func TestStatusError_Blocked(t *testing.T) {
	t.Parallel()

	for _, code := range []int{403, 429, 503} {
		assert.True(t, (&StatusError{Code: code}).Blocked(), "status %d", code)
	}
	for _, code := range []int{200, 404, 500} {
		assert.False(t, (&StatusError{Code: code}).Blocked(), "status %d", code)
	}
}
