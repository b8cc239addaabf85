package provision

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchReleases(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"name":" v1.1.0 "},{"name":"v1.0.0"},{"name":"draft"}]`))
	}))
	defer server.Close()

	client := NewCatalogClient(server.URL)
	client.HTTPClient = server.Client()

	entries, err := client.FetchReleases(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 3)

	// Names are whitespace-trimmed before being treated as version tags.
	assert.Equal(t, "v1.1.0", entries[0].Name)
	assert.Equal(t, []string{"v1.1.0", "v1.0.0"}, VersionTags(entries))
}

func TestFetchReleasesNon2xx(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	client := NewCatalogClient(server.URL)
	client.HTTPClient = server.Client()

	_, err := client.FetchReleases(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNetwork)
}

func TestFetchReleasesUnreachableHost(t *testing.T) {
	client := NewCatalogClient("http://127.0.0.1:1/releases")

	_, err := client.FetchReleases(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNetwork)
}

func TestFetchReleasesMalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"not":"a list"}`))
	}))
	defer server.Close()

	client := NewCatalogClient(server.URL)
	client.HTTPClient = server.Client()

	_, err := client.FetchReleases(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrParse)
}
