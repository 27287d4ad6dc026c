// SPDX-License-Identifier: MPL-2.0

package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// httpClientTimeout bounds a single manifest fetch. Callers who need a
// tighter deadline wrap Resolve's context.
const httpClientTimeout = 30 * time.Second

// maxManifestSize caps manifest reads so a misbehaving locator cannot
// exhaust memory.
const maxManifestSize = 16 * 1024 * 1024

type (
	// Manifest is the document a source locator serves: the revision it
	// currently describes plus the full package set.
	Manifest struct {
		// Revision identifies the manifest's content revision.
		Revision string `json:"revision"`
		// Packages is the package set. Order is irrelevant; snapshots
		// canonicalize by name.
		Packages []Package `json:"packages"`
	}

	// Fetcher retrieves a source manifest from a locator. It is the
	// registry's boundary to the outside world; tests substitute a fake.
	Fetcher interface {
		Fetch(ctx context.Context, locator string) (*Manifest, error)
	}

	// HTTPFetcher fetches manifests over HTTP(S) and from file:// locators.
	HTTPFetcher struct {
		// Client is the HTTP client to use. When nil, a client with a
		// 30-second timeout is used.
		Client *http.Client
	}

	// FetcherFunc adapts a function to the Fetcher interface.
	FetcherFunc func(ctx context.Context, locator string) (*Manifest, error)
)

// Fetch implements Fetcher.
func (f FetcherFunc) Fetch(ctx context.Context, locator string) (*Manifest, error) {
	return f(ctx, locator)
}

// NewHTTPFetcher creates an HTTPFetcher with the default client.
func NewHTTPFetcher() *HTTPFetcher {
	return &HTTPFetcher{Client: &http.Client{Timeout: httpClientTimeout}}
}

// Fetch retrieves and decodes the manifest at the given locator.
// Supported locator forms: https:// and http:// URLs, file:// paths, and
// bare filesystem paths.
func (f *HTTPFetcher) Fetch(ctx context.Context, locator string) (*Manifest, error) {
	switch {
	case strings.HasPrefix(locator, "http://"), strings.HasPrefix(locator, "https://"):
		return f.fetchHTTP(ctx, locator)
	case strings.HasPrefix(locator, "file://"):
		return fetchFile(strings.TrimPrefix(locator, "file://"))
	default:
		return fetchFile(locator)
	}
}

func (f *HTTPFetcher) fetchHTTP(ctx context.Context, locator string) (*Manifest, error) {
	client := f.Client
	if client == nil {
		client = &http.Client{Timeout: httpClientTimeout}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, locator, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build manifest request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("manifest request returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxManifestSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest body: %w", err)
	}
	return decodeManifest(data)
}

func fetchFile(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return decodeManifest(data)
}

func decodeManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to decode manifest: %w", err)
	}
	for i, p := range m.Packages {
		if p.Name == "" {
			return nil, fmt.Errorf("manifest package #%d has no name", i)
		}
	}
	return &m, nil
}
