package resources

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/selivandex/newslens/pkg/logger"
)

// Well-known resource names
const (
	EnglishStopwords = "stopwords/english"
	VaderLexicon     = "sentiment/vader_lexicon.txt"
)

// ErrNotFound is returned by a Fetcher that does not provide the resource
var ErrNotFound = errors.New("resource not found")

// Fetcher retrieves the raw bytes of a named resource from its origin
type Fetcher interface {
	Fetch(ctx context.Context, name string) ([]byte, error)
}

// FetcherFunc adapts a function to Fetcher
type FetcherFunc func(ctx context.Context, name string) ([]byte, error)

// Fetch calls f
func (f FetcherFunc) Fetch(ctx context.Context, name string) ([]byte, error) {
	return f(ctx, name)
}

// Store is a local cache of language resources. A resource missing from the
// cache directory is fetched once, written to disk and read again.
type Store struct {
	dir     string
	fetcher Fetcher
}

// NewStore creates new resource store rooted at dir
func NewStore(dir string, fetcher Fetcher) *Store {
	return &Store{dir: dir, fetcher: fetcher}
}

// Path returns the cache location of a resource
func (s *Store) Path(name string) string {
	return filepath.Join(s.dir, filepath.FromSlash(name))
}

// Load returns the resource contents, fetching it on the first miss.
// A failure after the fetch is returned as is.
func (s *Store) Load(ctx context.Context, name string) ([]byte, error) {
	path := s.Path(name)

	data, err := os.ReadFile(path)
	if err == nil {
		return data, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read resource %s: %w", name, err)
	}

	logger.Info("language resource missing, fetching",
		zap.String("resource", name),
		zap.String("path", path),
	)

	if err := s.download(ctx, name, path); err != nil {
		return nil, err
	}

	data, err = os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("resource %s unavailable after fetch: %w", name, err)
	}

	return data, nil
}

// Lines loads a resource and returns its non-empty lines.
// Lines starting with # are comments.
func (s *Store) Lines(ctx context.Context, name string) ([]string, error) {
	data, err := s.Load(ctx, name)
	if err != nil {
		return nil, err
	}

	var lines []string
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan resource %s: %w", name, err)
	}

	return lines, nil
}

func (s *Store) download(ctx context.Context, name, path string) error {
	if s.fetcher == nil {
		return fmt.Errorf("resource %s: %w (no fetcher configured)", name, ErrNotFound)
	}

	data, err := s.fetcher.Fetch(ctx, name)
	if err != nil {
		return fmt.Errorf("failed to fetch resource %s: %w", name, err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create resource directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".fetch-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write resource %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write resource %s: %w", name, err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to store resource %s: %w", name, err)
	}

	logger.Info("language resource cached",
		zap.String("resource", name),
		zap.Int("bytes", len(data)),
	)

	return nil
}
