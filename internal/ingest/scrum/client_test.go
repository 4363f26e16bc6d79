package scrum

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixtureServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ua := r.Header.Get("User-Agent"); ua != userAgent {
			t.Errorf("unexpected user agent %q", ua)
		}
		switch r.URL.Path {
		case "/statsguru/rugby/match/63412.html":
			data, err := os.ReadFile("testdata/match_overview.html")
			require.NoError(t, err)
			w.Write(data)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClientFetchDocument(t *testing.T) {
	t.Parallel()

	srv := fixtureServer(t)
	client := NewClientWithBase(srv.URL, 100)

	doc, err := client.FetchDocument(context.Background(), "/statsguru/rugby/match/63412.html")
	require.NoError(t, err)

	src, ok := IframeURL(doc)
	require.True(t, ok)
	assert.Equal(t, "/statsguru/rugby/current/match/63412.html", src)
}

func TestClientRejectsForeignHosts(t *testing.T) {
	t.Parallel()

	srv := fixtureServer(t)
	client := NewClientWithBase(srv.URL, 100)

	_, err := client.FetchDocument(context.Background(), "http://evil.example.com/steal.html")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not allowed")
}

func TestClientPropagatesHTTPErrors(t *testing.T) {
	t.Parallel()

	srv := fixtureServer(t)
	client := NewClientWithBase(srv.URL, 100)

	_, err := client.FetchDocument(context.Background(), "/statsguru/rugby/match/99999.html")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestHostAllowed(t *testing.T) {
	t.Parallel()

	assert.True(t, hostAllowed("stats.espnscrum.com"))
	assert.True(t, hostAllowed("www.espn.co.uk"))
	assert.False(t, hostAllowed("espnscrum.com.evil.net"))
	assert.False(t, hostAllowed("example.com"))
}
