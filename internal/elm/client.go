// Package elm fetches the public package index from package.elm-lang.org.
package elm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/confidenceman02/elm-exhibit/internal/model"
)

// DefaultSearchURL is the live package search index: a single JSON array
// of every published package.
const DefaultSearchURL = "https://package.elm-lang.org/search.json"

// Client fetches the package index. It holds its own http.Client with a
// bounded timeout so a slow upstream cannot pin request handlers.
type Client struct {
	httpClient *http.Client
	searchURL  string
}

// NewClient creates a Client for the given search endpoint; an empty URL
// selects the live index.
func NewClient(searchURL string) *Client {
	if searchURL == "" {
		searchURL = DefaultSearchURL
	}
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		searchURL:  searchURL,
	}
}

// FetchPackages performs the live fetch. Any non-success status is an
// error — a partial or HTML error body must never be mistaken for an
// empty index.
func (c *Client) FetchPackages(ctx context.Context) ([]model.ElmPackage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("elm: building search request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("elm: fetching package index: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("elm: package search returned status %d", resp.StatusCode)
	}

	var packages []model.ElmPackage
	if err := json.NewDecoder(resp.Body).Decode(&packages); err != nil {
		return nil, fmt.Errorf("elm: decoding package index: %w", err)
	}

	return packages, nil
}
