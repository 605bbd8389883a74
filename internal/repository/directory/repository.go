package directory

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/oshokin/freezer-monitor/internal/config"
	"github.com/oshokin/freezer-monitor/internal/domain/freezer"
)

// Repository loads directory entries. Implementations must read the backing
// source on every call so that a fixed directory is picked up by the next event.
type Repository interface {
	Load(ctx context.Context) ([]*freezer.Entry, error)
}

// ErrLoad wraps every failure to obtain a usable directory.
var ErrLoad = errors.New("directory load failed")

// errBadHTTPStatus is returned when a remote directory answers with an error status.
var errBadHTTPStatus = errors.New("unexpected http status")

// SourceRepository reads the directory CSV from a local file or an http(s) URL.
type SourceRepository struct {
	// source is a filesystem path or URL.
	source string
	// client downloads remote sources; nil for local files.
	client *resty.Client
}

// NewSourceRepository creates a repository for the provided path or URL.
// The timeout only applies to remote sources.
func NewSourceRepository(source string, timeout time.Duration) *SourceRepository {
	if !config.IsRemoteSource(source) {
		return &SourceRepository{
			source: filepath.Clean(source),
		}
	}

	return &SourceRepository{
		source: source,
		client: resty.New().
			SetTimeout(timeout).
			SetHeader("Accept", "text/csv"),
	}
}

// Source returns the path or URL the repository reads.
func (r *SourceRepository) Source() string {
	return r.source
}

// Load reads and parses the directory. All failures wrap ErrLoad.
func (r *SourceRepository) Load(ctx context.Context) ([]*freezer.Entry, error) {
	contents, err := r.read(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoad, err)
	}

	entries, err := Parse(bytes.NewReader(contents))
	if err != nil {
		return nil, fmt.Errorf("%w: parse %s: %w", ErrLoad, r.source, err)
	}

	return entries, nil
}

// read fetches the raw CSV bytes.
func (r *SourceRepository) read(ctx context.Context) ([]byte, error) {
	if r.client == nil {
		contents, err := os.ReadFile(r.source)
		if err != nil {
			return nil, fmt.Errorf("read directory file: %w", err)
		}

		return contents, nil
	}

	response, err := r.client.R().SetContext(ctx).Get(r.source)
	if err != nil {
		return nil, fmt.Errorf("download directory: %w", err)
	}

	if response.IsError() {
		return nil, fmt.Errorf("download directory: %w: %s", errBadHTTPStatus, response.Status())
	}

	return response.Body(), nil
}

// Match returns every entry whose device key equals key, in directory order.
// Duplicate keys are not an error: all of them are notified.
func Match(entries []*freezer.Entry, key string) []*freezer.Entry {
	var matches []*freezer.Entry

	for _, entry := range entries {
		if entry.DeviceKey == key {
			matches = append(matches, entry)
		}
	}

	return matches
}
