package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTenor(t *testing.T, handler http.HandlerFunc) (*TenorService, *int32) {
	t.Helper()
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	s, err := NewTenorService("key", "twicebot", 5, 8, []string{"twice", "twice dance", "momo", "happy"})
	require.NoError(t, err)
	s.baseURL = srv.URL
	return s, &calls
}

func TestTenorService_SearchCaches(t *testing.T) {
	s, calls := newTestTenor(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "twice", r.URL.Query().Get("q"))
		assert.Equal(t, "key", r.URL.Query().Get("key"))
		assert.Equal(t, "5", r.URL.Query().Get("limit"))
		_, _ = w.Write([]byte(`{"results":[
			{"id":"1","media_formats":{"gif":{"url":"https://media.tenor.com/1.gif"}}},
			{"id":"2","itemurl":"https://tenor.com/view/2"}
		]}`))
	})

	urls, err := s.Search(context.Background(), " TWICE ")
	require.NoError(t, err)
	assert.Equal(t, []string{"https://media.tenor.com/1.gif", "https://tenor.com/view/2"}, urls)

	_, err = s.Search(context.Background(), "twice")
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(calls))

	got, err := s.Random(context.Background(), "twice")
	require.NoError(t, err)
	assert.Contains(t, urls, got)
}

func TestTenorService_SearchErrors(t *testing.T) {
	s, _ := newTestTenor(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("q") == "empty" {
			_, _ = w.Write([]byte(`{"results":[]}`))
			return
		}
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := s.Search(context.Background(), "empty")
	assert.True(t, errors.Is(err, ErrNoGifs))

	_, err = s.Search(context.Background(), "limited")
	assert.ErrorContains(t, err, "429")

	_, err = s.Search(context.Background(), "  ")
	assert.Error(t, err)
}

func TestTenorService_Suggest(t *testing.T) {
	s, _ := newTestTenor(t, func(http.ResponseWriter, *http.Request) {})

	assert.Equal(t, []string{"twice", "twice dance"}, s.Suggest("", 2))

	got := s.Suggest("twc", 5)
	require.NotEmpty(t, got)
	assert.Equal(t, "twice", got[0])
	assert.NotContains(t, got, "momo")
}
