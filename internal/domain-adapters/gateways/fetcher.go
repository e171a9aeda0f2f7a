// Package gateways implements the domain gateway interfaces against the network,
// the local filesystem and external programs.
package gateways

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	derrors "github.com/ochairo/addrunner/internal/domain/errors"
	"github.com/ochairo/addrunner/internal/logging"
)

// DefaultUserAgent is sent with every download request
const DefaultUserAgent = "add-runner/1.0"

// HTTPFetcher downloads release archives over HTTP(S)
type HTTPFetcher struct {
	httpClient *http.Client
	userAgent  string
	logger     zerolog.Logger
}

// FetcherOption customizes an HTTPFetcher
type FetcherOption func(*HTTPFetcher)

// WithTimeout bounds every request end to end
func WithTimeout(d time.Duration) FetcherOption {
	return func(f *HTTPFetcher) {
		f.httpClient.Timeout = d
	}
}

// WithUserAgent overrides the User-Agent header
func WithUserAgent(ua string) FetcherOption {
	return func(f *HTTPFetcher) {
		if ua != "" {
			f.userAgent = ua
		}
	}
}

// WithHTTPClient replaces the underlying client (tests use httptest clients)
func WithHTTPClient(c *http.Client) FetcherOption {
	return func(f *HTTPFetcher) {
		f.httpClient = c
	}
}

// NewHTTPFetcher creates a new fetcher
func NewHTTPFetcher(opts ...FetcherOption) *HTTPFetcher {
	f := &HTTPFetcher{
		httpClient: &http.Client{
			Timeout: 10 * time.Minute, // runner archives are 100MB+
		},
		userAgent: DefaultUserAgent,
		logger:    logging.GetLogger("fetcher"),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch downloads url into destinationPath, creating or truncating the file.
// Redirects are followed (release assets are served from a CDN).
func (f *HTTPFetcher) Fetch(ctx context.Context, url, destinationPath string) (int64, error) {
	done := logging.LogOperationStart(f.logger, "fetch")
	defer done()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, derrors.Network(url, fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("User-Agent", f.userAgent)

	f.logger.Debug().Str("url", url).Str("dest", destinationPath).Msg("Downloading")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return 0, derrors.Network(url, err)
	}
	//nolint:errcheck // Defer close on HTTP response body
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return 0, derrors.HTTPStatus(url, resp.StatusCode)
	}

	//nolint:gosec // G304: destination is chosen by the orchestrator
	out, err := os.Create(destinationPath)
	if err != nil {
		return 0, derrors.Filesystem("create", destinationPath, err)
	}

	written, copyErr := io.Copy(out, resp.Body)
	closeErr := out.Close()
	if copyErr != nil {
		return written, classifyCopyError(url, destinationPath, copyErr)
	}
	if closeErr != nil {
		return written, derrors.Filesystem("close", destinationPath, closeErr)
	}

	f.logger.Debug().
		Str("file", filepath.Base(destinationPath)).
		Int64("bytes", written).
		Msg("Downloaded")

	return written, nil
}

// classifyCopyError separates body read failures (network) from write failures (disk)
func classifyCopyError(url, dest string, err error) error {
	var pathErr *os.PathError
	if errors.As(err, &pathErr) {
		return derrors.Filesystem("write", dest, err)
	}
	return derrors.Network(url, err)
}
