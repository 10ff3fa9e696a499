package acquire

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// site serves a page directly at /page and three proxies at /p1../p3.
// Handlers missing from ok answer 502; blocking ones wait for the client.
type site struct {
	srv   *httptest.Server
	mu    sync.Mutex
	hits  []string
	ok    map[string]bool
	block map[string]bool
}

func newSite(t *testing.T, ok, block map[string]bool) *site {
	t.Helper()
	s := &site{ok: ok, block: block}
	s.srv = httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.hits = append(s.hits, r.URL.Path)
		s.mu.Unlock()

		if s.block[r.URL.Path] {
			<-r.Context().Done()
			return
		}
		if !s.ok[r.URL.Path] {
			http.Error(w, "bad gateway", http.StatusBadGateway)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte("<html><body>served by " + r.URL.Path + "</body></html>"))
	}))
	t.Cleanup(s.srv.Close)
	return s
}

func (s *site) client(timeout time.Duration) *Client {
	return New(Options{
		Timeout:   timeout,
		Proxies:   []string{s.srv.URL + "/p1?url=", s.srv.URL + "/p2?url=", s.srv.URL + "/p3?url="},
		Transport: s.srv.Client().Transport,
	})
}

func (s *site) visited() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.hits...)
}

func TestFetchFallbackOrder(t *testing.T) {
	tests := []struct {
		name      string
		ok        map[string]bool
		block     map[string]bool
		wantPaths []string
		wantBody  string
		wantVia   string
	}{
		{
			name:      "direct reachable",
			ok:        map[string]bool{"/page": true, "/p1": true, "/p2": true, "/p3": true},
			wantPaths: []string{"/page"},
			wantBody:  "served by /page",
			wantVia:   "direct",
		},
		{
			name:      "second proxy reachable",
			ok:        map[string]bool{"/p2": true, "/p3": true},
			wantPaths: []string{"/page", "/p1", "/p2"},
			wantBody:  "served by /p2",
			wantVia:   "proxy 2",
		},
		{
			name:      "direct times out",
			ok:        map[string]bool{"/p1": true},
			block:     map[string]bool{"/page": true},
			wantPaths: []string{"/page", "/p1"},
			wantBody:  "served by /p1",
			wantVia:   "proxy 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newSite(t, tt.ok, tt.block)
			page, err := s.client(200*time.Millisecond).Fetch(context.Background(), s.srv.URL+"/page")
			require.NoError(t, err)

			assert.Contains(t, page.Markup, tt.wantBody)
			assert.Equal(t, tt.wantVia, page.Via.String())
			assert.Equal(t, tt.wantPaths, s.visited())
			assert.Len(t, page.Failures, len(tt.wantPaths)-1)
		})
	}
}

func TestFetchExhausted(t *testing.T) {
	s := newSite(t, nil, nil)
	_, err := s.client(time.Second).Fetch(context.Background(), s.srv.URL+"/page")

	var exhausted *ExhaustedError
	require.ErrorAs(t, err, &exhausted)
	assert.Equal(t, s.srv.URL+"/page", exhausted.Locator)
	assert.Equal(t, 4, exhausted.Attempts)

	var status *StatusError
	require.ErrorAs(t, err, &status)
	assert.Equal(t, http.StatusBadGateway, status.Code)
	assert.Contains(t, status.URL, "/p3")
}

func TestFetchMalformedMakesNoRequest(t *testing.T) {
	var calls int
	c := New(Options{Transport: roundTripFunc(func(*http.Request) (*http.Response, error) {
		calls++
		return nil, errors.New("unexpected request")
	})})

	_, err := c.Fetch(context.Background(), "ftp://example.com")
	var malformed *MalformedLocatorError
	require.ErrorAs(t, err, &malformed)
	assert.Zero(t, calls)
}

func TestFetchCancelled(t *testing.T) {
	s := newSite(t, map[string]bool{"/p1": true}, map[string]bool{"/page": true})

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	_, err := s.client(5*time.Second).Fetch(ctx, s.srv.URL+"/page")
	require.ErrorIs(t, err, context.Canceled)

	var exhausted *ExhaustedError
	assert.False(t, errors.As(err, &exhausted))
	assert.Equal(t, []string{"/page"}, s.visited())
}

func TestGetDecodes(t *testing.T) {
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/br":
			w.Header().Set("Content-Type", "text/css")
			w.Header().Set("Content-Encoding", "br")
			bw := brotli.NewWriter(w)
			bw.Write([]byte("body { color: red; }"))
			bw.Close()
		case "/latin1":
			w.Header().Set("Content-Type", "text/html; charset=iso-8859-1")
			w.Write([]byte{'c', 'a', 'f', 0xe9})
		case "/empty":
			w.WriteHeader(http.StatusOK)
		}
	}))
	defer srv.Close()

	c := New(Options{Transport: srv.Client().Transport})

	got, err := c.Get(context.Background(), srv.URL+"/br")
	require.NoError(t, err)
	assert.Equal(t, "body { color: red; }", got)

	got, err = c.Get(context.Background(), srv.URL+"/latin1")
	require.NoError(t, err)
	assert.Equal(t, "café", got)

	_, err = c.Get(context.Background(), srv.URL+"/empty")
	assert.ErrorIs(t, err, ErrEmptyBody)
}

func TestGetBodyLimit(t *testing.T) {
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write(make([]byte, 64))
	}))
	defer srv.Close()

	c := New(Options{Transport: srv.Client().Transport, MaxBytes: 16})
	_, err := c.Get(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds 16 bytes")
}

func TestFavicon(t *testing.T) {
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("domain") != "example.com" || r.URL.Query().Get("sz") != "64" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Write([]byte("\x89PNG"))
	}))
	defer srv.Close()

	c := New(Options{Transport: srv.Client().Transport, FaviconEndpoint: srv.URL + "/s2/favicons"})
	locator, err := Normalize("example.com/some/page")
	require.NoError(t, err)

	icon, err := c.Favicon(context.Background(), locator)
	require.NoError(t, err)
	assert.Equal(t, []byte("\x89PNG"), icon)
	assert.Equal(t, "https://www.google.com/s2/favicons?domain=example.com&sz=64",
		New(Options{}).FaviconURL("example.com"))
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }
