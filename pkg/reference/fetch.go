// ABOUTME: Remote reference download
// ABOUTME: Fetches a reference sample over HTTP with the same size limit as local files
package reference

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"
)

// FetchTimeout bounds a reference download when the caller has no deadline
const FetchTimeout = 30 * time.Second

// IsURL reports whether s names an http or https resource
func IsURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// Fetch downloads a reference. A declared Content-Length over MaxSize
// is rejected before the body is read.
func Fetch(ctx context.Context, client *http.Client, rawURL string) (*File, error) {
	if client == nil {
		client = &http.Client{Timeout: FetchTimeout}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid reference URL: %w", err)
	}

	log.Printf("Downloading reference: %s", rawURL)
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download reference: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("reference download failed: HTTP %d", resp.StatusCode)
	}

	name := nameFromURL(rawURL)
	if resp.ContentLength > MaxSize {
		return nil, fmt.Errorf("%w: %s is %d bytes", ErrOversizedUpload, name, resp.ContentLength)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read reference: %w", err)
	}

	return FromBytes(name, data, resp.Header.Get("Content-Type"))
}

// nameFromURL returns the last path element, ignoring the query string
func nameFromURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "reference"
	}

	name := path.Base(u.Path)
	if name == "." || name == "/" || name == "" {
		return "reference"
	}
	return name
}
