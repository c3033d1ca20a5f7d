package resources

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

//go:embed bundle/*.txt
var bundle embed.FS

var bundled = map[string]string{
	EnglishStopwords: "bundle/stopwords_english.txt",
}

// DefaultRemotePaths maps resource names to paths under the HTTP base URL
var DefaultRemotePaths = map[string]string{
	VaderLexicon: "cjhutto/vaderSentiment/master/vaderSentiment/vader_lexicon.txt",
}

// EmbeddedFetcher serves resources bundled into the binary
type EmbeddedFetcher struct{}

// Fetch returns the bundled resource or ErrNotFound
func (EmbeddedFetcher) Fetch(ctx context.Context, name string) ([]byte, error) {
	file, ok := bundled[name]
	if !ok {
		return nil, ErrNotFound
	}
	return bundle.ReadFile(file)
}

// HTTPFetcher downloads resources from a base URL
type HTTPFetcher struct {
	baseURL string
	paths   map[string]string
	client  *http.Client
}

// NewHTTPFetcher creates new HTTP fetcher. Names missing from paths are
// requested verbatim under baseURL.
func NewHTTPFetcher(baseURL string, paths map[string]string, timeout time.Duration) *HTTPFetcher {
	if paths == nil {
		paths = DefaultRemotePaths
	}
	return &HTTPFetcher{
		baseURL: strings.TrimRight(baseURL, "/"),
		paths:   paths,
		client:  &http.Client{Timeout: timeout},
	}
}

// Fetch downloads the resource
func (f *HTTPFetcher) Fetch(ctx context.Context, name string) ([]byte, error) {
	remote, ok := f.paths[name]
	if !ok {
		remote = name
	}
	url := fmt.Sprintf("%s/%s", f.baseURL, strings.TrimLeft(remote, "/"))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("download error %d: %s", resp.StatusCode, string(body))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	return data, nil
}

// ChainFetcher tries fetchers in order; the first success wins
type ChainFetcher []Fetcher

// Fetch returns the first successful fetch. ErrNotFound is returned only when
// every fetcher reported it.
func (c ChainFetcher) Fetch(ctx context.Context, name string) ([]byte, error) {
	var errs []error
	for _, f := range c {
		data, err := f.Fetch(ctx, name)
		if err == nil {
			return data, nil
		}
		if !errors.Is(err, ErrNotFound) {
			errs = append(errs, err)
		}
	}

	if len(errs) == 0 {
		return nil, ErrNotFound
	}
	return nil, errors.Join(errs...)
}

// DefaultFetcher serves bundled resources first and downloads the rest
func DefaultFetcher(baseURL string, timeout time.Duration) Fetcher {
	return ChainFetcher{EmbeddedFetcher{}, NewHTTPFetcher(baseURL, nil, timeout)}
}
