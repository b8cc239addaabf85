package provision

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/razzmatazz/lsp-mode/internal/logging"
)

// catalogTimeout bounds the catalog fetch; downloads carry their own timeout.
const catalogTimeout = 30 * time.Second

// ReleaseEntry is one published release in the remote catalog.
type ReleaseEntry struct {
	Name string `json:"name"`
}

// CatalogClient fetches the release catalog. The catalog is fetched fresh on
// every call and never cached, so results always reflect current remote state.
type CatalogClient struct {
	// URL is the catalog endpoint.
	URL string

	// HTTPClient performs the requests. Exposed for tests.
	HTTPClient *http.Client
}

// NewCatalogClient returns a CatalogClient for url with a default HTTP client.
func NewCatalogClient(url string) *CatalogClient {
	return &CatalogClient{
		URL:        url,
		HTTPClient: &http.Client{Timeout: catalogTimeout},
	}
}

// FetchReleases retrieves the published release list. Transport failures and
// non-2xx responses wrap ErrNetwork; a response body that is not the expected
// JSON schema wraps ErrParse. Entry names are whitespace-trimmed.
func (c *CatalogClient) FetchReleases(ctx context.Context) ([]ReleaseEntry, error) {
	log := logging.FromContext(ctx)
	log.Debug().
		Str("component", "catalog").
		Str("operation", "fetch_releases").
		Str("url", c.URL).
		Msg("fetching release catalog")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: building catalog request: %v", ErrNetwork, err)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: fetching catalog: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: catalog returned status %d", ErrNetwork, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading catalog response: %v", ErrNetwork, err)
	}

	var entries []ReleaseEntry
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	for i := range entries {
		entries[i].Name = strings.TrimSpace(entries[i].Name)
	}

	log.Debug().
		Str("component", "catalog").
		Int("releases", len(entries)).
		Msg("release catalog fetched")

	return entries, nil
}

// VersionTags returns the well-formed version tags among entries, preserving
// catalog order. Malformed names are dropped here so comparison never sees
// them.
func VersionTags(entries []ReleaseEntry) []string {
	var tags []string
	for _, entry := range entries {
		if IsVersionTag(entry.Name) {
			tags = append(tags, entry.Name)
		}
	}
	return tags
}
