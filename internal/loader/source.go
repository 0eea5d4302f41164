package loader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Property names one of the four CRUST 1.0 data files.
type Property string

const (
	PropertyVP   Property = "vp"
	PropertyVS   Property = "vs"
	PropertyRho  Property = "rho"
	PropertyBnds Property = "bnds"
)

// Properties lists the four data files in loading order.
func Properties() []Property {
	return []Property{PropertyVP, PropertyVS, PropertyRho, PropertyBnds}
}

// FileName returns the distribution file name, e.g. "crust1.vp".
func (p Property) FileName() string {
	return "crust1." + string(p)
}

// Source opens the raw data file of a property.
type Source interface {
	Open(ctx context.Context, prop Property) (io.ReadCloser, error)
}

// SourceType selects a Source implementation.
type SourceType string

const (
	// SourceTypeDir reads the data files from a local directory.
	SourceTypeDir SourceType = "dir"
	// SourceTypeHTTP downloads the data files from a mirror.
	SourceTypeHTTP SourceType = "http"
)

// DefaultDataDir is the bundled data directory.
const DefaultDataDir = "data"

// SourceConfig holds configuration for creating a data source.
type SourceConfig struct {
	Type    SourceType    // Type of source to create
	Path    string        // Directory holding crust1.* files (dir source)
	BaseURL string        // URL prefix the crust1.* files are served under (http source)
	Timeout time.Duration // Per-file download timeout (http source)
	Logger  *slog.Logger  // Logger for the source
}

// NewSource creates a data source from the configuration.
//
// Supported source types:
// - "dir": local directory, DefaultDataDir when Path is empty
// - "http": remote mirror, BaseURL is required
func NewSource(config SourceConfig) (Source, error) {
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	switch config.Type {
	case SourceTypeDir, "":
		path := config.Path
		if path == "" {
			path = DefaultDataDir
		}
		return NewDirSource(path, config.Logger), nil
	case SourceTypeHTTP:
		if config.BaseURL == "" {
			return nil, errors.New("base URL is required for http source")
		}
		if _, err := url.Parse(config.BaseURL); err != nil {
			return nil, fmt.Errorf("failed to parse base URL: %w", err)
		}
		return NewHTTPSource(config.BaseURL, config.Timeout, config.Logger), nil
	default:
		return nil, fmt.Errorf("unsupported source type: %s", config.Type)
	}
}

// DirSource reads data files from a directory.
type DirSource struct {
	dir string
	log *slog.Logger
}

// NewDirSource returns a source reading <dir>/crust1.<property>.
func NewDirSource(dir string, log *slog.Logger) *DirSource {
	return &DirSource{dir: dir, log: log}
}

// Open opens the data file of a property.
func (s *DirSource) Open(ctx context.Context, prop Property) (io.ReadCloser, error) {
	path := filepath.Join(s.dir, prop.FileName())
	s.log.DebugContext(ctx, "Opening data file", "path", path)

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open data file: %w", err)
	}
	return f, nil
}

// maxFileBytes caps a downloaded data file. A real file is ~3.5 MB of text.
const maxFileBytes = 64 << 20

// HTTPClient defines the interface for making HTTP requests.
// This allows for easy mocking in tests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// HTTPSource downloads data files from <baseURL>/crust1.<property>.
type HTTPSource struct {
	client  HTTPClient
	baseURL string
	log     *slog.Logger
}

// NewHTTPSource returns a source backed by net/http. A zero timeout defaults to two minutes.
func NewHTTPSource(baseURL string, timeout time.Duration, log *slog.Logger) *HTTPSource {
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	return NewHTTPSourceWithClient(&http.Client{Timeout: timeout}, baseURL, log)
}

// NewHTTPSourceWithClient creates an HTTP source with a custom client.
// Useful for testing with mocked HTTP clients.
func NewHTTPSourceWithClient(client HTTPClient, baseURL string, log *slog.Logger) *HTTPSource {
	return &HTTPSource{client: client, baseURL: strings.TrimRight(baseURL, "/"), log: log}
}

// Open downloads the data file of a property. The returned body is limited to maxFileBytes.
func (s *HTTPSource) Open(ctx context.Context, prop Property) (io.ReadCloser, error) {
	fileURL := s.baseURL + "/" + prop.FileName()
	s.log.DebugContext(ctx, "Downloading data file", "url", fileURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download %s: %w", prop.FileName(), err)
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		resp.Body.Close()
		s.log.ErrorContext(ctx, "Data mirror error", "status", resp.StatusCode, "body", string(body))
		return nil, fmt.Errorf("data mirror returned status %d for %s", resp.StatusCode, prop.FileName())
	}

	return &limitedBody{Reader: io.LimitReader(resp.Body, maxFileBytes), Closer: resp.Body}, nil
}

type limitedBody struct {
	io.Reader
	io.Closer
}
