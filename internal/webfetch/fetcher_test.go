package webfetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFetchExtractsVisibleText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><head><title>Ignored</title><style>body{color:red}</style></head>
<body><nav>Menu</nav><script>var x = 1;</script>
<p>The quick brown fox jumps over the lazy dog.</p>
<footer>Copyright</footer></body></html>`))
	}))
	defer server.Close()

	fetcher := NewFetcher(5 * time.Second)
	text, ok := fetcher.Fetch(context.Background(), server.URL)
	assert.True(t, ok)
	assert.Equal(t, "the quick brown fox jumps over the lazy dog.", text)
}

func TestFetchNon200IsUnavailableNotError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	fetcher := NewFetcher(5 * time.Second)
	text, ok := fetcher.Fetch(context.Background(), server.URL)
	assert.False(t, ok)
	assert.Empty(t, text)
}

func TestFetchRetriesOnceOnTransientFailure(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`<html><body><p>recovered content here.</p></body></html>`))
	}))
	defer server.Close()

	fetcher := NewFetcher(5 * time.Second)
	text, ok := fetcher.Fetch(context.Background(), server.URL)
	assert.True(t, ok)
	assert.Equal(t, "recovered content here.", text)
	assert.Equal(t, int32(2), calls.Load())
}

func TestFetchTimeoutIsUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	fetcher := NewFetcher(20 * time.Millisecond)
	_, ok := fetcher.Fetch(context.Background(), server.URL)
	assert.False(t, ok)
}

func TestFetchCancelledContextDoesNotRetry(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fetcher := NewFetcher(5 * time.Second)
	_, ok := fetcher.Fetch(ctx, server.URL)
	assert.False(t, ok)
	assert.Equal(t, int32(0), calls.Load())
}
